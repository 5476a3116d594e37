package search

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"repairshop.GO/api"
	"repairshop.GO/core/apperror"
	searchService "repairshop.GO/service/search"
)

func init() {
	api.RegisterModule(RegisterSearchRoutes)
}

// QueryFromParams reads q, platform, brand, family, model, lowStock,
// minPrice, maxPrice, from and size.
func QueryFromParams(c echo.Context) (searchService.Query, error) {
	q := searchService.Query{
		Q:            c.QueryParam("q"),
		LowStockOnly: c.QueryParam("lowStock") == "true",
	}
	for param, dst := range map[string]*[]string{
		"platform": &q.PlatformSlugs,
		"brand":    &q.BrandSlugs,
		"family":   &q.FamilySlugs,
		"model":    &q.ModelSlugs,
	} {
		if v := c.QueryParam(param); v != "" {
			*dst = []string{v}
		}
	}
	bad := map[string]string{}
	for param, dst := range map[string]**float64{"minPrice": &q.MinPrice, "maxPrice": &q.MaxPrice} {
		if v := c.QueryParam(param); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				bad[param] = "number"
				continue
			}
			*dst = &f
		}
	}
	for param, dst := range map[string]*int{"from": &q.From, "size": &q.Size} {
		if v := c.QueryParam(param); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				bad[param] = "number"
				continue
			}
			*dst = n
		}
	}
	if len(bad) > 0 {
		return q, apperror.Validation("Invalid query parameters", bad)
	}
	return q, nil
}

// RegisterSearchRoutes serves full-text part search and the reindex trigger.
func RegisterSearchRoutes(apiGroup *echo.Group, d *api.Deps) {
	svc := d.Search
	if svc == nil {
		svc = searchService.NewService(nil, "", d.DB, d.Log)
	}

	apiGroup.GET("/search", func(c echo.Context) error {
		q, err := QueryFromParams(c)
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		res, err := svc.Search(c.Request().Context(), q)
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusOK, res)
	})

	apiGroup.POST("/search/reindex", func(c echo.Context) error {
		report, err := svc.ReindexAll(c.Request().Context())
		if err != nil {
			d.Log.WithError(err).Error("reindex failed")
		}
		status := http.StatusOK
		if !report.Success {
			status = http.StatusInternalServerError
		}
		return c.JSON(status, report)
	})
}
