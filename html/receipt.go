package html

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"repairshop.GO/api"
	"repairshop.GO/core/apperror"
	salesEntity "repairshop.GO/model/entity/sales"
	salesService "repairshop.GO/service/sales"
)

func init() {
	api.RegisterModule(RegisterReceiptRoutes)
}

// ReceiptData feeds templates/receipt.html.
type ReceiptData struct {
	Shop      string
	Currency  string
	Reference string
	Sale      *salesEntity.Sale
}

// RegisterReceiptRoutes serves GET /api/sales/:id/receipt as printable HTML.
func RegisterReceiptRoutes(apiGroup *echo.Group, d *api.Deps) {
	rec, err := salesService.NewRecorder(d.DB, d.Notifier, d.Log, d.App.PhoneRegion)
	if err != nil {
		panic("receipt html: " + err.Error())
	}
	tmpl := NewRenderer()

	apiGroup.GET("/sales/:id/receipt", func(c echo.Context) error {
		sale, err := rec.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		var buf bytes.Buffer
		data := ReceiptData{
			Shop:      d.App.AppName,
			Currency:  d.App.Currency,
			Reference: sale.Reference(),
			Sale:      sale,
		}
		if err := tmpl.Render(&buf, "receipt.html", data, c); err != nil {
			return api.Error(c, d.Log, apperror.Internal("render receipt", err))
		}
		return c.HTMLBlob(http.StatusOK, buf.Bytes())
	})
}
