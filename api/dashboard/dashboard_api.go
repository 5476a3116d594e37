package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"repairshop.GO/api"
	"repairshop.GO/service/analytics"
)

func init() {
	api.RegisterModule(RegisterDashboardRoutes)
}

// RegisterDashboardRoutes serves the landing summary and inventory analytics.
func RegisterDashboardRoutes(apiGroup *echo.Group, d *api.Deps) {
	stats, err := analytics.NewService(d.DB, d.Cache, d.Log)
	if err != nil {
		panic("dashboard api: " + err.Error())
	}

	apiGroup.GET("/dashboard", func(c echo.Context) error {
		dash, err := stats.Dashboard(c.Request().Context())
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusOK, dash)
	})

	apiGroup.GET("/analytics/inventory", func(c echo.Context) error {
		report, err := stats.Inventory(c.Request().Context())
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusOK, report)
	})
}
