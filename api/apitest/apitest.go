// Package apitest builds echo servers over a throwaway sqlite database for
// the route package tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"

	"repairshop.GO/api"
	"repairshop.GO/config"
	"repairshop.GO/core/cache"
	"repairshop.GO/model/repository/repotest"
	"repairshop.GO/service/search"
)

const (
	User = "admin"
	Pass = "secret"
)

// Env is a test server plus the deps its modules were built from.
type Env struct {
	E    *echo.Echo
	Deps *api.Deps
	DB   *gorm.DB
}

// Deps returns deps over a fresh sqlite database with an in-memory cache.
// s may be nil.
func Deps(t testing.TB, s *search.Service) *api.Deps {
	t.Helper()
	db := repotest.Open(t)
	log, _ := test.NewNullLogger()
	return api.NewDeps(db, log, cache.NewMemoryStore(cache.NewCache()), s, &config.Config{
		AppName: "repairshop", Currency: "PKR", PhoneRegion: "PK",
	})
}

// New mounts the given /api modules behind basic auth.
func New(t testing.TB, modules ...api.ModuleFunc) *Env {
	t.Helper()
	return NewWithDeps(t, Deps(t, nil), modules...)
}

func NewWithDeps(t testing.TB, d *api.Deps, modules ...api.ModuleFunc) *Env {
	t.Helper()
	e := echo.New()
	d.Auth = middleware.BasicAuth(func(user, pass string, c echo.Context) (bool, error) {
		return user == User && pass == Pass, nil
	})
	g := e.Group("/api", d.Protect()...)
	for _, m := range modules {
		m(g, d)
	}
	return &Env{E: e, Deps: d, DB: d.DB}
}

// Do sends an authenticated request. A non-nil body that is not an
// io.Reader is JSON-encoded.
func (env *Env) Do(t testing.TB, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	req := NewRequest(t, method, path, body)
	req.SetBasicAuth(User, Pass)
	return env.Serve(req)
}

func (env *Env) Serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func NewRequest(t testing.TB, method, path string, body interface{}) *http.Request {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		r = b
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		if _, ok := body.(io.Reader); !ok {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
	}
	return req
}

// Decode unmarshals the recorder body into a generic map.
func Decode(t testing.TB, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

// Expect fails the test when the status differs, printing the body.
func Expect(t testing.TB, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, status, rec.Body.String())
	}
}
