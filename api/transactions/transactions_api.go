package transactions

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"repairshop.GO/api"
	inventoryEntity "repairshop.GO/model/entity/inventory"
	inventoryRepo "repairshop.GO/model/repository/inventory"
	"repairshop.GO/service/catalog"
	"repairshop.GO/service/inventory"
)

func init() {
	api.RegisterModule(RegisterTransactionRoutes)
}

// RegisterTransactionRoutes mounts the stock ledger under /api/transactions.
func RegisterTransactionRoutes(apiGroup *echo.Group, d *api.Deps) {
	ledger, err := inventory.NewLedger(d.DB, d.Notifier, d.Log)
	if err != nil {
		panic("transactions api: " + err.Error())
	}
	g := apiGroup.Group("/transactions")

	// GET /api/transactions?partId=&type=&page=&limit=
	g.GET("", func(c echo.Context) error {
		f := inventoryRepo.Filter{
			PartID: c.QueryParam("partId"),
			Type:   inventoryEntity.Type(c.QueryParam("type")),
		}
		entries, pagination, err := ledger.List(c.Request().Context(), f, api.PageParam(c))
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"transactions": entries, "pagination": pagination})
	})

	// POST /api/transactions {partId, type, quantity, reason}
	g.POST("", func(c echo.Context) error {
		var in inventory.AppendInput
		if err := api.Bind(c, &in); err != nil {
			return api.Error(c, d.Log, err)
		}
		entry, err := ledger.Append(c.Request().Context(), in)
		if err != nil {
			return api.Error(c, d.Log, err)
		}
		part := catalog.View(*entry.Part)
		entry.Part = nil
		return c.JSON(http.StatusCreated, echo.Map{"transaction": entry, "part": part})
	})
}
