package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"

	"repairshop.GO/core/cache"
	salesEntity "repairshop.GO/model/entity/sales"
	"repairshop.GO/model/repository/report"
	"repairshop.GO/model/repository/repotest"
	"repairshop.GO/service/sales"
)

func newService(t *testing.T, store cache.Store) (*Service, *gorm.DB) {
	t.Helper()
	db := repotest.Open(t)
	log, _ := test.NewNullLogger()
	s, err := NewService(db, store, log)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s, db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sell(t *testing.T, db *gorm.DB, discount string, items ...sales.ItemInput) {
	t.Helper()
	log, _ := test.NewNullLogger()
	r, err := sales.NewRecorder(db, nil, log, "US")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Record(context.Background(), sales.RecordInput{
		PaymentMethod: salesEntity.PaymentCash, Discount: dec(discount), Items: items,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}
}

func TestHealthScore(t *testing.T) {
	cases := []struct {
		total, low, out int64
		want            float64
	}{
		{0, 0, 0, 100},
		{10, 0, 0, 100},
		{10, 2, 1, 75},
		{4, 4, 4, 0},
	}
	for _, c := range cases {
		if got := HealthScore(c.total, c.low, c.out); got != c.want {
			t.Errorf("HealthScore(%d,%d,%d) = %v, want %v", c.total, c.low, c.out, got, c.want)
		}
	}
}

func TestPeriodBounds(t *testing.T) {
	wed := time.Date(2024, 5, 15, 13, 30, 0, 0, time.UTC)
	start, end, prev := PeriodWeek.Bounds(wed)
	if start != time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC) || end.Sub(start) != 7*24*time.Hour || start.Sub(prev) != 7*24*time.Hour {
		t.Errorf("week = %v %v %v", start, end, prev)
	}
	start, end, prev = PeriodMonth.Bounds(wed)
	if start.Day() != 1 || end.Month() != time.June || prev.Month() != time.April {
		t.Errorf("month = %v %v %v", start, end, prev)
	}
	start, end, _ = PeriodDay.Bounds(wed)
	if start.Hour() != 0 || end.Day() != 16 {
		t.Errorf("day = %v %v", start, end)
	}
	if ParsePeriod("fortnight") != PeriodWeek || ParsePeriod("year") != PeriodYear {
		t.Error("ParsePeriod")
	}
}

func TestChange(t *testing.T) {
	if got := Change(dec("150"), dec("100")); got != 50 {
		t.Errorf("Change = %v", got)
	}
	if got := Change(dec("5"), decimal.Zero); got != 100 {
		t.Errorf("zero baseline = %v", got)
	}
}

func TestDaily(t *testing.T) {
	day := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	points := []report.SalePoint{
		{CreatedAt: day, FinalAmount: dec("10")},
		{CreatedAt: day.Add(3 * time.Hour), FinalAmount: dec("5")},
		{CreatedAt: day.Add(26 * time.Hour), FinalAmount: dec("7")},
	}
	got := Daily(points, time.UTC)
	if len(got) != 2 || got[0].Count != 2 || !got[0].Revenue.Equal(dec("15")) || got[1].Date != "2024-05-02" {
		t.Errorf("Daily = %+v", got)
	}
}

func TestInventory(t *testing.T) {
	s, db := newService(t, nil)
	repotest.Priced(t, db, "A", 10, "10", "20")
	repotest.Priced(t, db, "B", 0, "5", "10")
	repotest.Priced(t, db, "C", 3, "0", "8")

	r, err := s.Inventory(context.Background())
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}
	inv := r.Inventory
	if inv.TotalParts != 3 || inv.LowStockParts != 2 || inv.OutOfStock != 1 {
		t.Errorf("inventory = %+v", inv)
	}
	if !inv.TotalValue.Equal(dec("38")) {
		t.Errorf("total value = %s", inv.TotalValue)
	}
	if inv.AverageStock < 4.33 || inv.AverageStock > 4.34 {
		t.Errorf("average stock = %v", inv.AverageStock)
	}

	p := r.Profit
	if !p.InvestedCost.Equal(dec("100")) || !p.PotentialRevenue.Equal(dec("224")) || !p.PotentialProfit.Equal(dec("124")) {
		t.Errorf("profit = %+v", p)
	}
	// markups 100% and 100%, zero-cost part counts as 0
	if p.AverageMarkupPct < 66.66 || p.AverageMarkupPct > 66.67 {
		t.Errorf("average markup = %v", p.AverageMarkupPct)
	}

	if r.Transactions.Total != 2 || r.Transactions.WeeklyIn != 2 || r.Transactions.WeeklySharePct != 100 {
		t.Errorf("transactions = %+v", r.Transactions)
	}
}

func TestSales_PeriodSummary(t *testing.T) {
	s, db := newService(t, nil)
	a := repotest.Priced(t, db, "A", 10, "10", "25")
	b := repotest.Priced(t, db, "B", 10, "4", "10")
	sell(t, db, "5", sales.ItemInput{PartID: a.ID, Quantity: 2, UnitPrice: dec("25"), TotalPrice: dec("50")})
	sell(t, db, "0",
		sales.ItemInput{PartID: b.ID, Quantity: 3, UnitPrice: dec("10"), TotalPrice: dec("30")},
		sales.ItemInput{PartID: a.ID, Quantity: 1, UnitPrice: dec("25"), TotalPrice: dec("25")},
	)

	r, err := s.Sales(context.Background(), PeriodWeek)
	if err != nil {
		t.Fatalf("Sales: %v", err)
	}
	sum := r.Summary
	if !sum.Revenue.Equal(dec("100")) || sum.SalesCount != 2 || sum.ItemsSold != 6 {
		t.Errorf("summary = %+v", sum)
	}
	// (50-20) + (30-12) + (25-10)
	if !sum.Profit.Equal(dec("63")) || !sum.AverageSaleValue.Equal(dec("50")) {
		t.Errorf("profit = %s avg = %s", sum.Profit, sum.AverageSaleValue)
	}
	if sum.RevenueChange != 100 || sum.SalesCountChange != 100 {
		t.Errorf("changes = %v / %v", sum.RevenueChange, sum.SalesCountChange)
	}
	if len(r.TopProducts) != 2 || r.TopProducts[0].PartID != a.ID || !r.TopProducts[0].Revenue.Equal(dec("75")) {
		t.Errorf("top products = %+v", r.TopProducts)
	}
	if len(r.DailySales) != 1 || r.DailySales[0].Count != 2 {
		t.Errorf("daily = %+v", r.DailySales)
	}
}

func TestDashboard_CachedUntilInvalidated(t *testing.T) {
	store := cache.NewMemoryStore(cache.NewCache())
	s, db := newService(t, store)
	repotest.Priced(t, db, "A", 1, "1", "9.50")

	d, err := s.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.TotalParts != 1 || d.LowStockCount != 1 || !d.InventoryValue.Equal(dec("9.5")) || len(d.LowStockParts) != 1 {
		t.Errorf("dashboard = %+v", d)
	}
	if d.RecentTransactions != 1 || len(d.LatestTransactions) != 1 {
		t.Errorf("transactions = %d / %d", d.RecentTransactions, len(d.LatestTransactions))
	}

	repotest.Part(t, db, "B", 50)
	d, _ = s.Dashboard(context.Background())
	if d.TotalParts != 1 {
		t.Errorf("expected cached dashboard, got %d parts", d.TotalParts)
	}
	store.Invalidate(context.Background(), cache.TagInventory)
	d, _ = s.Dashboard(context.Background())
	if d.TotalParts != 2 {
		t.Errorf("after invalidation: %d parts", d.TotalParts)
	}
}
