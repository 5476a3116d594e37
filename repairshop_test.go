//go:build !cli
// +build !cli

package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"repairshop.GO/api"
	"repairshop.GO/api/apitest"
	"repairshop.GO/model/repository/repotest"
)

func TestNewServer_AllModules(t *testing.T) {
	d := apitest.Deps(t, nil)
	basic := middleware.BasicAuth(func(user, pass string, c echo.Context) (bool, error) {
		return user == apitest.User && pass == apitest.Pass, nil
	})

	var e *echo.Echo
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("NewServer panicked: %v", r)
			}
		}()
		e = api.NewServer(d, basic)
	}()
	env := &apitest.Env{E: e, Deps: d, DB: d.DB}

	rec := env.Serve(apitest.NewRequest(t, http.MethodGet, "/health", nil))
	apitest.Expect(t, rec, http.StatusOK)

	p := repotest.Part(t, d.DB, "BOOT-1", 5)
	rec = env.Do(t, http.MethodPost, "/api/transactions", map[string]interface{}{
		"partId": p.ID, "type": "OUT", "quantity": 3,
	})
	apitest.Expect(t, rec, http.StatusCreated)

	rec = env.Do(t, http.MethodPost, "/api/sales", map[string]interface{}{
		"paymentMethod": "CASH",
		"items":         []map[string]interface{}{{"partId": p.ID, "quantity": 1, "unitPrice": 25, "totalPrice": 25}},
	})
	apitest.Expect(t, rec, http.StatusCreated)
	saleID, _ := apitest.Decode(t, rec)["id"].(string)

	rec = env.Do(t, http.MethodDelete, "/api/parts/"+p.ID, nil)
	apitest.Expect(t, rec, http.StatusBadRequest)

	rec = env.Do(t, http.MethodDelete, "/api/sales/"+saleID, nil)
	apitest.Expect(t, rec, http.StatusOK)
	if got := repotest.Stock(t, d.DB, p.ID); got != 2 {
		t.Errorf("stock after reversal = %d, want 2", got)
	}

	rec = env.Do(t, http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ parts { items { sku } pagination { totalCount } } }"}`))
	apitest.Expect(t, rec, http.StatusOK)
	if body := rec.Body.String(); strings.Contains(body, `"errors"`) || !strings.Contains(body, "BOOT-1") {
		t.Errorf("graphql body = %s", body)
	}

	rec = env.Serve(apitest.NewRequest(t, http.MethodGet, "/api/parts", nil))
	apitest.Expect(t, rec, http.StatusUnauthorized)
}
