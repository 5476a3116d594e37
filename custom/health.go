// Package custom wires small extensions through the public registries: the
// liveness route, a GraphQL extension and a CLI command share one check.
package custom

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"repairshop.GO/api"
	"repairshop.GO/cmd"
	"repairshop.GO/config"
	gqlregistry "repairshop.GO/graphql/registry"
	"repairshop.GO/service/search"
)

// Status is the liveness report.
type Status struct {
	Status string    `json:"status"`
	DB     string    `json:"db"`
	Search string    `json:"search"`
	Time   time.Time `json:"time"`
}

// Check pings the database and, when configured, the search cluster. Only
// the database decides overall health.
func Check(ctx context.Context, db *gorm.DB, s *search.Service) Status {
	st := Status{Status: "ok", DB: "ok", Search: "disabled", Time: time.Now().UTC()}
	if err := ping(ctx, db); err != nil {
		st.Status, st.DB = "error", err.Error()
	}
	if s != nil {
		st.Search = "unavailable"
		if s.Healthy(ctx) {
			st.Search = "ok"
		}
	}
	return st
}

func ping(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("not configured")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// deps is captured when routes are applied so the GraphQL extension sees
// the same connections as the HTTP route.
var deps atomic.Pointer[api.Deps]

func init() {
	// HTTP route
	api.RegisterRoute(func(e *echo.Echo, d *api.Deps) {
		if d == nil {
			return
		}
		deps.Store(d)
		e.GET("/health", func(c echo.Context) error {
			st := Check(c.Request().Context(), d.DB, d.Search)
			code := http.StatusOK
			if st.Status != "ok" {
				code = http.StatusServiceUnavailable
			}
			return c.JSON(code, st)
		})
	})

	// GraphQL extension: { _extension(name: "health") }
	gqlregistry.Register("health", func(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
		d := deps.Load()
		if d == nil {
			return nil, fmt.Errorf("health: server not initialised")
		}
		return Check(ctx, d.DB, d.Search), nil
	})

	// CLI command
	cmd.Register(&cobra.Command{
		Use:   "health:check",
		Short: "Ping the database and search cluster",
		RunE: func(c *cobra.Command, args []string) error {
			db, err := config.NewDB()
			if err != nil {
				return err
			}
			defer config.CloseDB(db)
			var s *search.Service
			if es, err := config.NewElasticsearchClient(); err == nil && es != nil {
				s = search.NewService(es, config.ElasticsearchIndex(), db, config.GetLogger())
			}
			st := Check(c.Context(), db, s)
			fmt.Printf("status=%s db=%s search=%s\n", st.Status, st.DB, st.Search)
			if st.Status != "ok" {
				return fmt.Errorf("unhealthy")
			}
			return nil
		},
	})
}
