package dashboard

import (
	"net/http"
	"testing"

	"repairshop.GO/api/apitest"
	"repairshop.GO/model/repository/repotest"
)

func TestDashboard(t *testing.T) {
	env := apitest.New(t, RegisterDashboardRoutes)
	repotest.Priced(t, env.DB, "D-1", 2, "10", "20")
	repotest.Priced(t, env.DB, "D-2", 10, "5", "8")

	rec := env.Do(t, http.MethodGet, "/api/dashboard", nil)
	apitest.Expect(t, rec, http.StatusOK)
	body := apitest.Decode(t, rec)
	if body["totalParts"] != float64(2) || body["lowStockCount"] != float64(1) {
		t.Errorf("counts = %v / %v", body["totalParts"], body["lowStockCount"])
	}
	// sum of unit selling prices, not weighted by stock
	if body["inventoryValue"] != float64(28) {
		t.Errorf("inventoryValue = %v, want 28", body["inventoryValue"])
	}
	if n := len(body["latestTransactions"].([]interface{})); n != 2 {
		t.Errorf("latestTransactions = %d, want 2", n)
	}
}

func TestInventoryAnalytics(t *testing.T) {
	env := apitest.New(t, RegisterDashboardRoutes)
	repotest.Priced(t, env.DB, "I-1", 0, "10", "20")
	repotest.Priced(t, env.DB, "I-2", 10, "10", "15")

	rec := env.Do(t, http.MethodGet, "/api/analytics/inventory", nil)
	apitest.Expect(t, rec, http.StatusOK)
	body := apitest.Decode(t, rec)
	inv := body["inventory"].(map[string]interface{})
	if inv["outOfStockParts"] != float64(1) || inv["totalParts"] != float64(2) {
		t.Errorf("inventory = %v", inv)
	}
	profit := body["profit"].(map[string]interface{})
	if profit["totalInvestedCost"] != float64(100) || profit["totalPotentialRevenue"] != float64(150) {
		t.Errorf("profit = %v", profit)
	}
}
