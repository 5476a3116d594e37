package custom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"repairshop.GO/api"
	"repairshop.GO/api/apitest"
	gqlregistry "repairshop.GO/graphql/registry"
)

func TestCheck(t *testing.T) {
	d := apitest.Deps(t, nil)
	st := Check(context.Background(), d.DB, nil)
	if st.Status != "ok" || st.DB != "ok" || st.Search != "disabled" {
		t.Errorf("status = %+v", st)
	}

	st = Check(context.Background(), nil, nil)
	if st.Status != "error" {
		t.Errorf("nil db status = %+v", st)
	}
}

func TestHealthRouteAndExtension(t *testing.T) {
	d := apitest.Deps(t, nil)
	e := echo.New()
	api.ApplyRoutes(e, d)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var st Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil || st.DB != "ok" {
		t.Errorf("body = %s (%v)", rec.Body.String(), err)
	}

	out, err := gqlregistry.Resolve(context.Background(), "health", nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if out.(Status).Status != "ok" {
		t.Errorf("extension = %+v", out)
	}
}
