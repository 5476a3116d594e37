package realtime

import (
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"repairshop.GO/api"
	catalogRepo "repairshop.GO/model/repository/catalog"
	inventoryRepo "repairshop.GO/model/repository/inventory"
)

// maxSKUs bounds one availability lookup.
const maxSKUs = 50

func init() {
	api.RegisterModule(RegisterRealtimeRoutes)
}

// PriceStockResponse is the counter lookup for one SKU.
type PriceStockResponse struct {
	SKU   string          `json:"sku"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// RegisterRealtimeRoutes sets up the lightweight counter lookups that skip
// the ORM preload graph.
func RegisterRealtimeRoutes(apiGroup *echo.Group, d *api.Deps) {
	parts := catalogRepo.NewPartRepository(d.DB)
	stockR, err := inventoryRepo.NewInventoryRepository(d.DB)
	if err != nil {
		panic("realtime api: " + err.Error())
	}
	g := apiGroup.Group("/realtime")

	// GET /api/realtime/price-stock?sku=XXX
	g.GET("/price-stock", func(c echo.Context) error {
		sku := c.QueryParam("sku")
		if sku == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sku required"})
		}
		ctx := c.Request().Context()

		var (
			price                  decimal.Decimal
			stock                  int
			priceFound, stockFound bool
		)
		eg := new(errgroup.Group)
		eg.Go(func() error {
			price, priceFound = parts.GetPriceBySKU(ctx, sku)
			return nil
		})
		eg.Go(func() error {
			stock, stockFound = stockR.GetStockBySKU(ctx, sku)
			return nil
		})
		_ = eg.Wait()

		if !priceFound && !stockFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "part not found"})
		}
		return c.JSON(http.StatusOK, PriceStockResponse{SKU: sku, Price: price, Stock: stock})
	})

	// GET /api/realtime/stock?sku=A&sku=B or ?sku=A,B
	g.GET("/stock", func(c echo.Context) error {
		var skus []string
		for _, v := range c.QueryParams()["sku"] {
			for _, s := range strings.Split(v, ",") {
				if s = strings.TrimSpace(s); s != "" {
					skus = append(skus, s)
				}
			}
		}
		if len(skus) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sku required"})
		}
		if len(skus) > maxSKUs {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "too many skus"})
		}
		ctx := c.Request().Context()

		var mu sync.Mutex
		stock := make(map[string]int, len(skus))
		missing := []string{}
		eg := new(errgroup.Group)
		eg.SetLimit(8)
		for _, sku := range skus {
			sku := sku
			eg.Go(func() error {
				qty, ok := stockR.GetStockBySKU(ctx, sku)
				mu.Lock()
				defer mu.Unlock()
				if ok {
					stock[sku] = qty
				} else {
					missing = append(missing, sku)
				}
				return nil
			})
		}
		_ = eg.Wait()

		return c.JSON(http.StatusOK, echo.Map{"stock": stock, "missing": missing})
	})
}
