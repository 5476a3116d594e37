package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus/hooks/test"

	"repairshop.GO/config"
	"repairshop.GO/core/apperror"
	"repairshop.GO/core/cache"
)

func init() {
	RegisterModule(func(g *echo.Group, d *Deps) {
		g.GET("/test/module", func(c echo.Context) error {
			return c.JSON(http.StatusOK, echo.Map{"app": d.App.AppName})
		})
	})
}

func TestRegistry_Register_Apply(t *testing.T) {
	RegisterGET("/test/registry/check", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	e := echo.New()
	ApplyRoutes(e, nil)

	req := httptest.NewRequest(http.MethodGet, "/test/registry/check", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestNewServer_ProtectsAPIGroup(t *testing.T) {
	log, _ := test.NewNullLogger()
	d := NewDeps(nil, log, cache.NewMemoryStore(cache.NewCache()), nil, &config.Config{AppName: "shop"})
	auth := middleware.BasicAuth(func(u, p string, c echo.Context) (bool, error) {
		return u == "admin" && p == "secret", nil
	})
	e := NewServer(d, auth)

	req := httptest.NewRequest(http.MethodGet, "/api/test/module", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/test/module", nil)
	req.SetBasicAuth("admin", "secret")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"shop"`) {
		t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Duration-ms") == "" {
		t.Error("missing X-Request-Duration-ms")
	}
}

func TestNewDeps_Notifier(t *testing.T) {
	log, _ := test.NewNullLogger()
	d := NewDeps(nil, log, cache.NewMemoryStore(cache.NewCache()), nil, nil)
	if d.Notifier == nil || d.App == nil {
		t.Fatalf("deps = %+v", d)
	}
	if d.Protect() != nil {
		t.Error("Protect without auth should be empty")
	}
}

func TestError_StatusAndBody(t *testing.T) {
	log, hook := test.NewNullLogger()
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{apperror.Validation("Invalid quantity", map[string]string{"quantity": "gt"}), http.StatusBadRequest, "Invalid quantity"},
		{apperror.NotFound("Part not found"), http.StatusNotFound, "Part not found"},
		{apperror.Unavailable("Search is currently unavailable", errors.New("dial tcp")), http.StatusServiceUnavailable, "Search is currently unavailable"},
		{errors.New("disk full"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)
		if err := Error(c, log, tc.err); err != nil {
			t.Fatalf("Error: %v", err)
		}
		if rec.Code != tc.status {
			t.Errorf("%v: status = %d, want %d", tc.err, rec.Code, tc.status)
		}
		if !strings.Contains(rec.Body.String(), `"error":"`+tc.msg+`"`) {
			t.Errorf("%v: body = %s", tc.err, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "disk full") || strings.Contains(rec.Body.String(), "dial tcp") {
			t.Errorf("cause leaked: %s", rec.Body.String())
		}
	}
	if len(hook.AllEntries()) != 2 {
		t.Errorf("logged %d entries, want 2 (internal + unavailable)", len(hook.AllEntries()))
	}
}

func TestBind_Malformed(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	var dst struct{ Name string }
	if err := Bind(c, &dst); !apperror.Is(err, apperror.KindValidation) {
		t.Errorf("err = %v, want validation", err)
	}
}
