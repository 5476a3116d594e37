package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"repairshop.GO/core/apperror"
	"repairshop.GO/core/cache"
	"repairshop.GO/model/repository/report"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod falls back to week for anything unrecognized.
func ParsePeriod(s string) Period {
	switch p := Period(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p
	}
	return PeriodWeek
}

// Bounds returns the half-open current and previous windows containing now.
// Weeks start on Sunday.
func (p Period) Bounds(now time.Time) (start, end, prevStart time.Time) {
	y, m, d := now.Date()
	loc := now.Location()
	switch p {
	case PeriodDay:
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 1), start.AddDate(0, 0, -1)
	case PeriodMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), start.AddDate(0, -1, 0)
	case PeriodYear:
		start = time.Date(y, 1, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0), start.AddDate(-1, 0, 0)
	default:
		start = time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 7), start.AddDate(0, 0, -7)
	}
}

type SalesSummary struct {
	Revenue          decimal.Decimal `json:"revenue"`
	RevenueChange    float64         `json:"revenueChange"`
	SalesCount       int64           `json:"salesCount"`
	SalesCountChange float64         `json:"salesCountChange"`
	Profit           decimal.Decimal `json:"profit"`
	ProfitMargin     float64         `json:"profitMargin"`
	AverageSaleValue decimal.Decimal `json:"averageSaleValue"`
	ItemsSold        int64           `json:"itemsSold"`
}

type DailySales struct {
	Date    string          `json:"date"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type SalesReport struct {
	Period      Period                  `json:"period"`
	From        time.Time               `json:"from"`
	To          time.Time               `json:"to"`
	Summary     SalesSummary            `json:"summary"`
	TopProducts []report.ProductRevenue `json:"topProducts"`
	DailySales  []DailySales            `json:"dailySales"`
}

// Change is the percentage change from prev to cur; a zero baseline counts
// as 100.
func Change(cur, prev decimal.Decimal) float64 {
	if !prev.IsPositive() {
		return 100
	}
	return cur.Sub(prev).Mul(hundred).Div(prev).Round(2).InexactFloat64()
}

// Daily buckets sale points by calendar day in loc, keeping only days with sales.
func Daily(points []report.SalePoint, loc *time.Location) []DailySales {
	out := []DailySales{}
	for _, p := range points {
		day := p.CreatedAt.In(loc).Format("2006-01-02")
		if n := len(out); n > 0 && out[n-1].Date == day {
			out[n-1].Count++
			out[n-1].Revenue = out[n-1].Revenue.Add(p.FinalAmount)
			continue
		}
		out = append(out, DailySales{Date: day, Count: 1, Revenue: p.FinalAmount})
	}
	return out
}

// Sales summarizes completed sales for the period containing now against
// the period before it.
func (s *Service) Sales(ctx context.Context, period Period) (*SalesReport, error) {
	now := s.now()
	start, end, prevStart := period.Bounds(now)
	r := SalesReport{Period: period, From: start, To: end}

	key := cache.Key("analytics", "sales", string(period), start.Format("2006-01-02"))
	err := s.cached(ctx, key, cache.TagSales, &r, func() error {
		cur, err := s.reports.SalesTotals(ctx, start, end)
		if err != nil {
			return apperror.Internal("sales totals", err)
		}
		prev, err := s.reports.SalesTotals(ctx, prevStart, start)
		if err != nil {
			return apperror.Internal("previous sales totals", err)
		}
		if r.TopProducts, err = s.reports.TopProducts(ctx, start, end, 10); err != nil {
			return apperror.Internal("top products", err)
		}
		points, err := s.reports.SalePoints(ctx, start, end)
		if err != nil {
			return apperror.Internal("daily sales", err)
		}

		sum := &r.Summary
		sum.Revenue = cur.Revenue
		sum.RevenueChange = Change(cur.Revenue, prev.Revenue)
		sum.SalesCount = cur.SaleCount
		sum.SalesCountChange = Change(decimal.NewFromInt(cur.SaleCount), decimal.NewFromInt(prev.SaleCount))
		sum.Profit = cur.Profit
		sum.ProfitMargin = pct(cur.Profit, cur.Revenue)
		sum.ItemsSold = cur.ItemsSold
		sum.AverageSaleValue = decimal.Zero
		if cur.SaleCount > 0 {
			sum.AverageSaleValue = cur.Revenue.Div(decimal.NewFromInt(cur.SaleCount)).Round(2)
		}
		if r.TopProducts == nil {
			r.TopProducts = []report.ProductRevenue{}
		}
		r.DailySales = Daily(points, now.Location())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}
