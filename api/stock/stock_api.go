package stock

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"repairshop.GO/api"
	"repairshop.GO/core/apperror"
	"repairshop.GO/service/catalog"
)

// maxUpload caps an import body.
const maxUpload = 10 << 20

func init() {
	api.RegisterModule(RegisterStockRoutes)
}

func RegisterStockRoutes(apiGroup *echo.Group, d *api.Deps) {
	svc, err := catalog.NewService(d.DB, d.Notifier, d.Log)
	if err != nil {
		panic("stock api: " + err.Error())
	}
	g := apiGroup.Group("/stock")

	// POST /api/stock/import – CSV upsert keyed by sku, either as a raw
	// text/csv body or a multipart "file" field.
	g.POST("/import", func(c echo.Context) error {
		body, err := csvBody(c)
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		defer body.Close()

		res, err := svc.ImportCSV(c.Request().Context(), io.LimitReader(body, maxUpload))
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"totalRows":           res.TotalRows,
			"created":             res.Created,
			"updated":             res.Updated,
			"skipped":             res.Skipped,
			"warnings":            res.Warnings,
			"request_duration_ms": res.TotalTime.Milliseconds(),
		})
	})
}

func csvBody(c echo.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, apperror.Validation("file is required", map[string]string{"file": "required"})
		}
		return fh.Open()
	}
	if c.Request().ContentLength == 0 {
		return nil, apperror.Validation("CSV body is required", nil)
	}
	return c.Request().Body, nil
}
