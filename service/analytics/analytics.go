// Package analytics computes the dashboard and analytics figures. Results
// that are read often are cached and dropped on any stock or sale mutation.
package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"repairshop.GO/core/apperror"
	"repairshop.GO/core/cache"
	inventoryEntity "repairshop.GO/model/entity/inventory"
	salesEntity "repairshop.GO/model/entity/sales"
	catalogRepo "repairshop.GO/model/repository/catalog"
	inventoryRepo "repairshop.GO/model/repository/inventory"
	"repairshop.GO/model/repository/report"
	salesRepo "repairshop.GO/model/repository/sales"
	"repairshop.GO/service/catalog"
)

const cacheTTL = 5 * time.Minute

var hundred = decimal.NewFromInt(100)

type Service struct {
	reports *report.ReportRepository
	parts   *catalogRepo.PartRepository
	entries *inventoryRepo.InventoryRepository
	sales   *salesRepo.SalesRepository
	cache   cache.Store
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewService wires the analytics queries. A nil store disables caching.
func NewService(db *gorm.DB, store cache.Store, log logrus.FieldLogger) (*Service, error) {
	entries, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		return nil, err
	}
	return &Service{
		reports: report.NewReportRepository(db),
		parts:   catalogRepo.NewPartRepository(db),
		entries: entries,
		sales:   salesRepo.NewSalesRepository(db),
		cache:   store,
		log:     log.WithField("module", "analytics"),
		now:     time.Now,
	}, nil
}

func (s *Service) cached(ctx context.Context, key, tag string, dst interface{}, compute func() error) error {
	if s.cache != nil {
		if ok, err := s.cache.Load(ctx, key, dst); err == nil && ok {
			return nil
		} else if err != nil {
			s.log.WithError(err).WithField("key", key).Warn("cache load failed")
		}
	}
	if err := compute(); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Save(ctx, key, dst, cacheTTL, tag); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("cache save failed")
		}
	}
	return nil
}

// Dashboard is the landing page summary.
type Dashboard struct {
	TotalParts         int64                         `json:"totalParts"`
	LowStockCount      int64                         `json:"lowStockCount"`
	InventoryValue     decimal.Decimal               `json:"inventoryValue"`
	RecentTransactions int64                         `json:"recentTransactions"`
	LowStockParts      []catalog.PartView            `json:"lowStockParts"`
	RecentSales        []salesEntity.Sale            `json:"recentSales"`
	LatestTransactions []inventoryEntity.Transaction `json:"latestTransactions"`
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	err := s.cached(ctx, cache.Key("dashboard"), cache.TagInventory, &d, func() error {
		g, gctx := errgroup.WithContext(ctx)
		var totals report.InventoryTotals
		g.Go(func() (err error) {
			totals, err = s.reports.InventoryTotals(gctx)
			return err
		})
		g.Go(func() (err error) {
			d.RecentTransactions, err = s.entries.CountSince(gctx, s.now().Add(-7*24*time.Hour))
			return err
		})
		g.Go(func() error {
			low, err := s.parts.LowStock(gctx, 10)
			d.LowStockParts = make([]catalog.PartView, len(low))
			for i, p := range low {
				d.LowStockParts[i] = catalog.View(p)
			}
			return err
		})
		g.Go(func() (err error) {
			d.RecentSales, err = s.sales.Recent(gctx, 5)
			return err
		})
		g.Go(func() (err error) {
			d.LatestTransactions, err = s.entries.Recent(gctx, "", 5)
			return err
		})
		if err := g.Wait(); err != nil {
			return apperror.Internal("load dashboard", err)
		}
		d.TotalParts, d.LowStockCount, d.InventoryValue = totals.TotalParts, totals.LowStock, totals.SellingSum
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

type InventoryStats struct {
	TotalParts     int64           `json:"totalParts"`
	LowStockParts  int64           `json:"lowStockParts"`
	OutOfStock     int64           `json:"outOfStockParts"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	AverageStock   float64         `json:"averageStockLevel"`
	HealthScore    float64         `json:"healthScore"`
	NeedsAttention bool            `json:"needsAttention"`
}

type ProfitStats struct {
	InvestedCost     decimal.Decimal `json:"totalInvestedCost"`
	PotentialRevenue decimal.Decimal `json:"totalPotentialRevenue"`
	PotentialProfit  decimal.Decimal `json:"potentialProfit"`
	ProfitMarginPct  float64         `json:"profitMargin"`
	AverageMarkupPct float64         `json:"averageMarkup"`
}

type TransactionStats struct {
	Weekly         int64   `json:"weeklyTransactions"`
	Monthly        int64   `json:"monthlyTransactions"`
	WeeklyIn       int64   `json:"weeklyIn"`
	WeeklyOut      int64   `json:"weeklyOut"`
	Total          int64   `json:"totalTransactions"`
	WeeklySharePct float64 `json:"weeklyGrowth"`
}

type InventoryReport struct {
	Inventory    InventoryStats   `json:"inventory"`
	Profit       ProfitStats      `json:"profit"`
	Transactions TransactionStats `json:"transactions"`
}

// HealthScore penalizes low stock fully and out-of-stock by half; an empty
// catalog scores 100.
func HealthScore(total, low, out int64) float64 {
	if total == 0 {
		return 100
	}
	score := 100 - float64(low)/float64(total)*100 - float64(out)/float64(total)*50
	if score < 0 {
		return 0
	}
	return score
}

func pct(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Mul(hundred).Div(whole).Round(2).InexactFloat64()
}

// Inventory returns the inventory, profit and ledger activity figures.
func (s *Service) Inventory(ctx context.Context) (*InventoryReport, error) {
	var r InventoryReport
	err := s.cached(ctx, cache.Key("analytics", "inventory"), cache.TagInventory, &r, func() error {
		now := s.now()
		week, month := now.Add(-7*24*time.Hour), now.Add(-30*24*time.Hour)
		g, gctx := errgroup.WithContext(ctx)
		var totals report.InventoryTotals
		t := &r.Transactions
		g.Go(func() (err error) { totals, err = s.reports.InventoryTotals(gctx); return err })
		g.Go(func() (err error) { t.Weekly, err = s.entries.CountSince(gctx, week); return err })
		g.Go(func() (err error) { t.Monthly, err = s.entries.CountSince(gctx, month); return err })
		g.Go(func() (err error) {
			t.WeeklyIn, err = s.entries.CountSince(gctx, week, inventoryEntity.TypeIn)
			return err
		})
		g.Go(func() (err error) {
			t.WeeklyOut, err = s.entries.CountSince(gctx, week, inventoryEntity.TypeOut)
			return err
		})
		g.Go(func() (err error) { t.Total, err = s.entries.Count(gctx); return err })
		if err := g.Wait(); err != nil {
			return apperror.Internal("load inventory analytics", err)
		}

		inv := &r.Inventory
		inv.TotalParts, inv.LowStockParts, inv.OutOfStock = totals.TotalParts, totals.LowStock, totals.OutOfStock
		inv.TotalValue = totals.SellingSum
		if totals.TotalParts > 0 {
			inv.AverageStock = float64(totals.TotalStock) / float64(totals.TotalParts)
		}
		inv.HealthScore = HealthScore(totals.TotalParts, totals.LowStock, totals.OutOfStock)
		inv.NeedsAttention = inv.HealthScore < 70

		p := &r.Profit
		p.InvestedCost = totals.InvestedValue
		p.PotentialRevenue = totals.PotentialValue
		p.PotentialProfit = totals.PotentialValue.Sub(totals.InvestedValue)
		p.ProfitMarginPct = pct(p.PotentialProfit, p.PotentialRevenue)
		if totals.TotalParts > 0 {
			p.AverageMarkupPct = totals.MarkupPctSum.Div(decimal.NewFromInt(totals.TotalParts)).Round(2).InexactFloat64()
		}

		if t.Total > 0 {
			t.WeeklySharePct = decimal.NewFromInt(t.Weekly).Mul(hundred).Div(decimal.NewFromInt(t.Total)).Round(1).InexactFloat64()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}
