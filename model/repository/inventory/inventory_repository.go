package inventory

import (
	"context"
	"time"

	"gorm.io/gorm"

	inventoryEntity "repairshop.GO/model/entity/inventory"
	"repairshop.GO/model/repository"
)

// InventoryRepository reads and writes stock ledger entries.
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) (*InventoryRepository, error) {
	if _, err := db.DB(); err != nil {
		return nil, err
	}
	return &InventoryRepository{db: db}, nil
}

// GetStockBySKU returns quantity on hand for a SKU.
func (r *InventoryRepository) GetStockBySKU(ctx context.Context, sku string) (int, bool) {
	var qty []int
	err := r.db.WithContext(ctx).Raw(`SELECT stock FROM parts WHERE sku = ? LIMIT 1`, sku).Scan(&qty).Error
	if err != nil || len(qty) == 0 {
		return 0, false
	}
	return qty[0], true
}

func (r *InventoryRepository) Create(tx *gorm.DB, entry *inventoryEntity.Transaction) error {
	return tx.Omit("Part").Create(entry).Error
}

func (r *InventoryRepository) CreateMany(tx *gorm.DB, entries []inventoryEntity.Transaction) error {
	if len(entries) == 0 {
		return nil
	}
	return tx.Omit("Part").Create(&entries).Error
}

// Filter narrows ledger listings.
type Filter struct {
	PartID string
	Type   inventoryEntity.Type
}

// List returns one page of ledger entries, newest first, with their part.
func (r *InventoryRepository) List(ctx context.Context, f Filter, page repository.Page) ([]inventoryEntity.Transaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&inventoryEntity.Transaction{})
	if f.PartID != "" {
		q = q.Where("part_id = ?", f.PartID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []inventoryEntity.Transaction
	err := q.Preload("Part").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&entries).Error
	return entries, total, err
}

// Recent returns the latest n entries, optionally for one part.
func (r *InventoryRepository) Recent(ctx context.Context, partID string, n int) ([]inventoryEntity.Transaction, error) {
	q := r.db.WithContext(ctx).Preload("Part")
	if partID != "" {
		q = q.Where("part_id = ?", partID)
	}
	var entries []inventoryEntity.Transaction
	err := q.Order("created_at DESC").Limit(n).Find(&entries).Error
	return entries, err
}

func (r *InventoryRepository) CountForPart(ctx context.Context, partID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&inventoryEntity.Transaction{}).Where("part_id = ?", partID).Count(&n).Error
	return n, err
}

// CountSince counts entries created at or after since, optionally of the given types.
func (r *InventoryRepository) CountSince(ctx context.Context, since time.Time, types ...inventoryEntity.Type) (int64, error) {
	q := r.db.WithContext(ctx).Model(&inventoryEntity.Transaction{}).Where("created_at >= ?", since)
	if len(types) > 0 {
		q = q.Where("type IN ?", types)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *InventoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&inventoryEntity.Transaction{}).Count(&n).Error
	return n, err
}

func (r *InventoryRepository) FindBySale(tx *gorm.DB, saleID string) ([]inventoryEntity.Transaction, error) {
	var entries []inventoryEntity.Transaction
	err := tx.Where("sale_id = ?", saleID).Find(&entries).Error
	return entries, err
}

func (r *InventoryRepository) DeleteBySale(tx *gorm.DB, saleID string) (int64, error) {
	res := tx.Where("sale_id = ?", saleID).Delete(&inventoryEntity.Transaction{})
	return res.RowsAffected, res.Error
}

func (r *InventoryRepository) DeleteByPart(tx *gorm.DB, partID string) error {
	return tx.Where("part_id = ?", partID).Delete(&inventoryEntity.Transaction{}).Error
}

// netEffectSQL mirrors inventory.SignedEffect.
const netEffectSQL = `COALESCE(SUM(CASE
	WHEN type = 'IN' THEN ABS(quantity)
	WHEN type IN ('OUT', 'SALE') THEN -ABS(quantity)
	ELSE quantity END), 0)`

// NetEffects replays the ledger and returns the summed stock effect per part.
// An empty partID covers every part that has entries.
func (r *InventoryRepository) NetEffects(ctx context.Context, partID string) (map[string]int, error) {
	q := r.db.WithContext(ctx).Model(&inventoryEntity.Transaction{}).
		Select("part_id, " + netEffectSQL + " AS net").
		Group("part_id")
	if partID != "" {
		q = q.Where("part_id = ?", partID)
	}
	var rows []struct {
		PartID string
		Net    int
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.PartID] = row.Net
	}
	return out, nil
}
