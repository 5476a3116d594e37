package parts

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"repairshop.GO/api"
	catalogRepo "repairshop.GO/model/repository/catalog"
	"repairshop.GO/service/catalog"
)

func init() {
	api.RegisterModule(RegisterPartRoutes)
}

// RegisterPartRoutes mounts the parts catalog under /api/parts.
func RegisterPartRoutes(apiGroup *echo.Group, d *api.Deps) {
	svc, err := catalog.NewService(d.DB, d.Notifier, d.Log)
	if err != nil {
		panic("parts api: " + err.Error())
	}
	g := apiGroup.Group("/parts")

	// GET /api/parts?q=&platform=&brand=&family=&model=&lowStock=true&page=&limit=
	g.GET("", func(c echo.Context) error {
		f := catalogRepo.PartFilter{
			Query:        c.QueryParam("q"),
			PlatformSlug: c.QueryParam("platform"),
			BrandSlug:    c.QueryParam("brand"),
			FamilySlug:   c.QueryParam("family"),
			ModelSlug:    c.QueryParam("model"),
			LowStockOnly: c.QueryParam("lowStock") == "true",
		}
		parts, pagination, err := svc.List(c.Request().Context(), f, api.PageParam(c))
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"parts": parts, "pagination": pagination})
	})

	// GET /api/parts/low-stock?limit=10
	g.GET("/low-stock", func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		if limit <= 0 {
			limit = 10
		}
		parts, err := svc.LowStock(c.Request().Context(), limit)
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"parts": parts})
	})

	g.POST("", func(c echo.Context) error {
		var in catalog.CreateInput
		if err := api.Bind(c, &in); err != nil {
			return api.Error(c, d.Log, err)
		}
		part, err := svc.Create(c.Request().Context(), in)
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusCreated, part)
	})

	g.GET("/:id", func(c echo.Context) error {
		part, err := svc.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusOK, part)
	})

	g.PUT("/:id", func(c echo.Context) error {
		var in catalog.UpdateInput
		if err := api.Bind(c, &in); err != nil {
			return api.Error(c, d.Log, err)
		}
		part, err := svc.Update(c.Request().Context(), c.Param("id"), in)
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusOK, part)
	})

	g.DELETE("/:id", func(c echo.Context) error {
		if err := svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Part deleted successfully"})
	})
}
