package sales

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"repairshop.GO/api"
	salesEntity "repairshop.GO/model/entity/sales"
	"repairshop.GO/service/analytics"
	"repairshop.GO/service/export"
	salesService "repairshop.GO/service/sales"
)

func init() {
	api.RegisterModule(RegisterSalesRoutes)
}

// SaleRow is a sale as listed, with its line count.
type SaleRow struct {
	salesEntity.Sale
	ItemCount int `json:"itemCount"`
}

// RegisterSalesRoutes mounts the point of sale under /api/sales.
func RegisterSalesRoutes(apiGroup *echo.Group, d *api.Deps) {
	rec, err := salesService.NewRecorder(d.DB, d.Notifier, d.Log, d.App.PhoneRegion)
	if err != nil {
		panic("sales api: " + err.Error())
	}
	stats, err := analytics.NewService(d.DB, d.Cache, d.Log)
	if err != nil {
		panic("sales api: " + err.Error())
	}
	g := apiGroup.Group("/sales")

	// GET /api/sales?q=&startDate=&endDate=&status=&paymentMethod=&minAmount=&maxAmount=&page=&limit=
	g.GET("", func(c echo.Context) error {
		f, err := FilterFromQuery(c.QueryParams())
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		sales, pagination, err := rec.List(c.Request().Context(), f, api.PageParam(c))
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		rows := make([]SaleRow, len(sales))
		for i, s := range sales {
			rows[i] = SaleRow{Sale: s, ItemCount: len(s.Items)}
		}
		return c.JSON(http.StatusOK, echo.Map{"sales": rows, "pagination": pagination})
	})

	g.POST("", func(c echo.Context) error {
		var in salesService.RecordInput
		if err := api.Bind(c, &in); err != nil {
			return api.Error(c, d.Log, err)
		}
		sale, err := rec.Record(c.Request().Context(), in)
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusCreated, sale)
	})

	// GET /api/sales/analytics?period=day|week|month|year
	g.GET("/analytics", func(c echo.Context) error {
		report, err := stats.Sales(c.Request().Context(), analytics.ParsePeriod(c.QueryParam("period")))
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusOK, report)
	})

	// GET /api/sales/export takes the list filters and streams an xlsx workbook.
	g.GET("/export", func(c echo.Context) error {
		f, err := FilterFromQuery(c.QueryParams())
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		sales, err := rec.All(c.Request().Context(), f)
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		var buf bytes.Buffer
		if err := export.WriteSales(&buf, sales); err != nil {
			return api.Error(c, d.Log, err)
		}
		name := fmt.Sprintf("sales-%s.xlsx", time.Now().Format("20060102-150405"))
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
		return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
	})

	g.GET("/:id", func(c echo.Context) error {
		sale, err := rec.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusOK, sale)
	})

	g.DELETE("/:id", func(c echo.Context) error {
		if _, err := rec.Reverse(c.Request().Context(), c.Param("id")); err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Sale deleted successfully"})
	})
}
