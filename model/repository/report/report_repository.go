// Package report holds the aggregate queries behind the dashboard and
// analytics views.
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogEntity "repairshop.GO/model/entity/catalog"
	salesEntity "repairshop.GO/model/entity/sales"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// InventoryTotals aggregates the parts table.
type InventoryTotals struct {
	TotalParts     int64
	LowStock       int64
	OutOfStock     int64
	TotalStock     int64
	SellingSum     decimal.Decimal
	InvestedValue  decimal.Decimal
	PotentialValue decimal.Decimal
	MarkupPctSum   decimal.Decimal
}

func (r *ReportRepository) InventoryTotals(ctx context.Context) (InventoryTotals, error) {
	var t InventoryTotals
	err := r.db.WithContext(ctx).Model(&catalogEntity.Part{}).Select(`
		COUNT(*) AS total_parts,
		COALESCE(SUM(CASE WHEN stock <= low_stock_threshold THEN 1 ELSE 0 END), 0) AS low_stock,
		COALESCE(SUM(CASE WHEN stock = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock,
		COALESCE(SUM(stock), 0) AS total_stock,
		COALESCE(SUM(selling_price), 0) AS selling_sum,
		COALESCE(SUM(real_cost * stock), 0) AS invested_value,
		COALESCE(SUM(selling_price * stock), 0) AS potential_value,
		COALESCE(SUM(CASE WHEN real_cost > 0 THEN (selling_price - real_cost) * 100.0 / real_cost ELSE 0 END), 0) AS markup_pct_sum`).
		Scan(&t).Error
	return t, err
}

// SalesTotals aggregates completed sales in [from, to).
type SalesTotals struct {
	Revenue   decimal.Decimal
	SaleCount int64
	ItemsSold int64
	Profit    decimal.Decimal
}

func (r *ReportRepository) completed(ctx context.Context, from, to time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("sales.status = ?", salesEntity.StatusCompleted).
		Where("sales.created_at >= ? AND sales.created_at < ?", from, to)
}

func (r *ReportRepository) SalesTotals(ctx context.Context, from, to time.Time) (SalesTotals, error) {
	var t SalesTotals
	err := r.completed(ctx, from, to).Model(&salesEntity.Sale{}).
		Select("COALESCE(SUM(sales.final_amount), 0) AS revenue, COUNT(*) AS sale_count").
		Scan(&t).Error
	if err != nil {
		return t, err
	}
	var items struct {
		ItemsSold int64
		Profit    decimal.Decimal
	}
	err = r.completed(ctx, from, to).Table("sale_items").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN parts ON parts.id = sale_items.part_id").
		Select(`COALESCE(SUM(sale_items.quantity), 0) AS items_sold,
			COALESCE(SUM(sale_items.total_price - parts.real_cost * sale_items.quantity), 0) AS profit`).
		Scan(&items).Error
	t.ItemsSold, t.Profit = items.ItemsSold, items.Profit
	return t, err
}

// ProductRevenue is one row of the top-products ranking.
type ProductRevenue struct {
	PartID   string          `json:"partId"`
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

func (r *ReportRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductRevenue, error) {
	var rows []ProductRevenue
	err := r.completed(ctx, from, to).Table("sale_items").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN parts ON parts.id = sale_items.part_id").
		Select(`parts.id AS part_id, parts.name AS name, parts.sku AS sku,
			SUM(sale_items.quantity) AS quantity, SUM(sale_items.total_price) AS revenue`).
		Group("parts.id, parts.name, parts.sku").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// SalePoint is a completed sale reduced to what the daily series needs.
type SalePoint struct {
	CreatedAt   time.Time
	FinalAmount decimal.Decimal
}

func (r *ReportRepository) SalePoints(ctx context.Context, from, to time.Time) ([]SalePoint, error) {
	var rows []SalePoint
	err := r.completed(ctx, from, to).Model(&salesEntity.Sale{}).
		Select("sales.created_at, sales.final_amount").
		Order("sales.created_at").
		Scan(&rows).Error
	return rows, err
}
