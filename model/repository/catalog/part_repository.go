package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogEntity "repairshop.GO/model/entity/catalog"
	"repairshop.GO/model/repository"
)

type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

// PartFilter narrows part listings. Slug filters match through the device
// hierarchy of the models a part is linked to.
type PartFilter struct {
	Query        string
	PlatformSlug string
	BrandSlug    string
	FamilySlug   string
	ModelSlug    string
	LowStockOnly bool
}

// WithHierarchy preloads models with their family, brand and platform.
func WithHierarchy(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Models", func(db *gorm.DB) *gorm.DB { return db.Order("device_models.name") }).
		Preload("Models.Family.Brand.Platform")
}

func (r *PartRepository) FindByID(ctx context.Context, id string) (*catalogEntity.Part, error) {
	var p catalogEntity.Part
	if err := WithHierarchy(r.db.WithContext(ctx)).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindForUpdate loads a part inside tx with a row lock.
func (r *PartRepository) FindForUpdate(tx *gorm.DB, id string) (*catalogEntity.Part, error) {
	var p catalogEntity.Part
	if err := repository.ForUpdate(tx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindManyForUpdate loads and locks parts by id, keyed by id.
func (r *PartRepository) FindManyForUpdate(tx *gorm.DB, ids []string) (map[string]*catalogEntity.Part, error) {
	var parts []*catalogEntity.Part
	if err := repository.ForUpdate(tx).Where("id IN ?", ids).Order("id").Find(&parts).Error; err != nil {
		return nil, err
	}
	out := make(map[string]*catalogEntity.Part, len(parts))
	for _, p := range parts {
		out[p.ID] = p
	}
	return out, nil
}

func (r *PartRepository) FindBySKU(ctx context.Context, sku string) (*catalogEntity.Part, error) {
	var p catalogEntity.Part
	err := r.db.WithContext(ctx).First(&p, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SKUTaken reports whether another part already uses sku.
func (r *PartRepository) SKUTaken(tx *gorm.DB, sku, exceptID string) (bool, error) {
	var n int64
	q := tx.Model(&catalogEntity.Part{}).Where("sku = ?", sku)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *PartRepository) FindByIDs(ctx context.Context, ids []string) ([]catalogEntity.Part, error) {
	var parts []catalogEntity.Part
	if len(ids) == 0 {
		return parts, nil
	}
	err := WithHierarchy(r.db.WithContext(ctx)).Where("id IN ?", ids).Find(&parts).Error
	return parts, err
}

func (r *PartRepository) scoped(ctx context.Context, f PartFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&catalogEntity.Part{})
	if f.Query != "" {
		like := repository.Like(f.Query)
		q = q.Where("LOWER(parts.name) LIKE ? OR LOWER(parts.description) LIKE ? OR LOWER(parts.sku) LIKE ?", like, like, like)
	}
	if f.PlatformSlug != "" || f.BrandSlug != "" || f.FamilySlug != "" || f.ModelSlug != "" {
		sub := r.db.Table("part_models").
			Select("part_models.part_id").
			Joins("JOIN device_models ON device_models.id = part_models.model_id").
			Joins("JOIN families ON families.id = device_models.family_id").
			Joins("JOIN brands ON brands.id = families.brand_id").
			Joins("JOIN platforms ON platforms.id = brands.platform_id")
		if f.PlatformSlug != "" {
			sub = sub.Where("platforms.slug = ?", f.PlatformSlug)
		}
		if f.BrandSlug != "" {
			sub = sub.Where("brands.slug = ?", f.BrandSlug)
		}
		if f.FamilySlug != "" {
			sub = sub.Where("families.slug = ?", f.FamilySlug)
		}
		if f.ModelSlug != "" {
			sub = sub.Where("device_models.slug = ?", f.ModelSlug)
		}
		q = q.Where("parts.id IN (?)", sub)
	}
	if f.LowStockOnly {
		q = q.Where("parts.stock <= parts.low_stock_threshold")
	}
	return q
}

// List returns one page of parts matching f, newest first, with hierarchy.
func (r *PartRepository) List(ctx context.Context, f PartFilter, page repository.Page) ([]catalogEntity.Part, int64, error) {
	var total int64
	if err := r.scoped(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var parts []catalogEntity.Part
	err := WithHierarchy(r.scoped(ctx, f)).
		Order("parts.created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&parts).Error
	return parts, total, err
}

// LowStock returns parts at or below their threshold, lowest stock first.
func (r *PartRepository) LowStock(ctx context.Context, limit int) ([]catalogEntity.Part, error) {
	var parts []catalogEntity.Part
	err := r.scoped(ctx, PartFilter{LowStockOnly: true}).
		Order("parts.stock ASC").
		Order("parts.name ASC").
		Limit(limit).
		Find(&parts).Error
	return parts, err
}

// EachBatch walks every part with hierarchy in id order.
func (r *PartRepository) EachBatch(ctx context.Context, size int, fn func([]catalogEntity.Part) error) error {
	var batch []catalogEntity.Part
	res := WithHierarchy(r.db.WithContext(ctx)).FindInBatches(&batch, size, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	})
	return res.Error
}

func (r *PartRepository) Create(tx *gorm.DB, p *catalogEntity.Part) error {
	return tx.Omit("Models").Create(p).Error
}

// UpdateFields writes the given columns and bumps updated_at.
func (r *PartRepository) UpdateFields(tx *gorm.DB, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return tx.Model(&catalogEntity.Part{}).Where("id = ?", id).Updates(fields).Error
}

// DecrementStock subtracts qty only if enough stock remains. It reports
// false when the guard rejected the update.
func (r *PartRepository) DecrementStock(tx *gorm.DB, id string, qty int) (bool, error) {
	res := tx.Model(&catalogEntity.Part{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *PartRepository) IncrementStock(tx *gorm.DB, id string, qty int) error {
	res := tx.Model(&catalogEntity.Part{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceModels swaps the part's model links for modelIDs.
func (r *PartRepository) ReplaceModels(tx *gorm.DB, partID string, modelIDs []string) error {
	if err := tx.Where("part_id = ?", partID).Delete(&catalogEntity.PartModel{}).Error; err != nil {
		return err
	}
	if len(modelIDs) == 0 {
		return nil
	}
	links := make([]catalogEntity.PartModel, 0, len(modelIDs))
	seen := make(map[string]bool, len(modelIDs))
	for _, id := range modelIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		links = append(links, catalogEntity.PartModel{PartID: partID, ModelID: id})
	}
	return tx.Create(&links).Error
}

// CountSaleItems returns how many sale lines reference the part.
func (r *PartRepository) CountSaleItems(tx *gorm.DB, partID string) (int64, error) {
	var n int64
	err := tx.Table("sale_items").Where("part_id = ?", partID).Distinct("sale_id").Count(&n).Error
	return n, err
}

func (r *PartRepository) Delete(tx *gorm.DB, id string) (int64, error) {
	if err := tx.Where("part_id = ?", id).Delete(&catalogEntity.PartModel{}).Error; err != nil {
		return 0, err
	}
	res := tx.Delete(&catalogEntity.Part{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *PartRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&catalogEntity.Part{}).Count(&n).Error
	return n, err
}

// GetPriceBySKU returns the current selling price for a SKU.
func (r *PartRepository) GetPriceBySKU(ctx context.Context, sku string) (decimal.Decimal, bool) {
	var prices []decimal.Decimal
	err := r.db.WithContext(ctx).Model(&catalogEntity.Part{}).
		Where("sku = ?", sku).Limit(1).Pluck("selling_price", &prices).Error
	if err != nil || len(prices) == 0 {
		return decimal.Zero, false
	}
	return prices[0], true
}
