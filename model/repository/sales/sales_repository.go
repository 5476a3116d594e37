package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	salesEntity "repairshop.GO/model/entity/sales"
	"repairshop.GO/model/repository"
)

type SalesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) *SalesRepository {
	return &SalesRepository{db: db}
}

// Filter narrows sale listings. EndDate is inclusive to the end of that day.
type Filter struct {
	Query         string
	StartDate     *time.Time
	EndDate       *time.Time
	Status        salesEntity.Status
	PaymentMethod salesEntity.PaymentMethod
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
}

// EndOfDay returns the last representable millisecond of t's day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func (r *SalesRepository) scoped(ctx context.Context, f Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&salesEntity.Sale{})
	if f.Query != "" {
		like := repository.Like(f.Query)
		items := r.db.Table("sale_items").
			Select("sale_items.sale_id").
			Joins("JOIN parts ON parts.id = sale_items.part_id").
			Where("LOWER(parts.name) LIKE ? OR LOWER(parts.sku) LIKE ? OR LOWER(parts.description) LIKE ?", like, like, like)
		q = q.Where(
			"LOWER(sales.customer_name) LIKE ? OR LOWER(sales.customer_phone) LIKE ? OR LOWER(sales.customer_email) LIKE ? OR LOWER(sales.notes) LIKE ? OR LOWER(sales.id) LIKE ? OR sales.id IN (?)",
			like, like, like, like, like, items,
		)
	}
	if f.StartDate != nil {
		q = q.Where("sales.created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("sales.created_at <= ?", EndOfDay(*f.EndDate))
	}
	if f.Status != "" {
		q = q.Where("sales.status = ?", f.Status)
	}
	if f.PaymentMethod != "" {
		q = q.Where("sales.payment_method = ?", f.PaymentMethod)
	}
	if f.MinAmount != nil {
		q = q.Where("sales.final_amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("sales.final_amount <= ?", *f.MaxAmount)
	}
	return q
}

func withItems(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Items").Preload("Items.Part")
}

// List returns one page of sales, newest first, with items and parts.
func (r *SalesRepository) List(ctx context.Context, f Filter, page repository.Page) ([]salesEntity.Sale, int64, error) {
	var total int64
	if err := r.scoped(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var sales []salesEntity.Sale
	err := withItems(r.scoped(ctx, f)).
		Order("sales.created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&sales).Error
	return sales, total, err
}

// All returns every sale matching f, newest first. Used by exports.
func (r *SalesRepository) All(ctx context.Context, f Filter) ([]salesEntity.Sale, error) {
	var sales []salesEntity.Sale
	err := withItems(r.scoped(ctx, f)).Order("sales.created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *SalesRepository) Recent(ctx context.Context, n int) ([]salesEntity.Sale, error) {
	var sales []salesEntity.Sale
	err := withItems(r.db.WithContext(ctx)).Order("created_at DESC").Limit(n).Find(&sales).Error
	return sales, err
}

func (r *SalesRepository) FindByID(ctx context.Context, id string) (*salesEntity.Sale, error) {
	return r.find(withItems(r.db.WithContext(ctx)), id)
}

// FindInTx loads a sale with its items and their parts inside tx.
func (r *SalesRepository) FindInTx(tx *gorm.DB, id string) (*salesEntity.Sale, error) {
	return r.find(withItems(tx), id)
}

// FindForReversal loads a sale and its items inside tx.
func (r *SalesRepository) FindForReversal(tx *gorm.DB, id string) (*salesEntity.Sale, error) {
	return r.find(repository.ForUpdate(tx).Preload("Items"), id)
}

func (r *SalesRepository) find(q *gorm.DB, id string) (*salesEntity.Sale, error) {
	var s salesEntity.Sale
	if err := q.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts the sale and its items.
func (r *SalesRepository) Create(tx *gorm.DB, s *salesEntity.Sale) error {
	return tx.Create(s).Error
}

// Delete removes the sale's items and the sale row.
func (r *SalesRepository) Delete(tx *gorm.DB, id string) error {
	if err := tx.Where("sale_id = ?", id).Delete(&salesEntity.SaleItem{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&salesEntity.Sale{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
