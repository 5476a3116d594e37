// Package repotest opens throwaway sqlite databases with the full schema and
// seeds small fixtures for package tests.
package repotest

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"repairshop.GO/config"
	catalogEntity "repairshop.GO/model/entity/catalog"
	inventoryEntity "repairshop.GO/model/entity/inventory"
)

// Open returns a migrated sqlite database in a temp dir that is closed when
// the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	t.Setenv("GORM_LOG", "off")
	db, err := config.OpenDB(config.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := config.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = config.CloseDB(db) })
	return db
}

// Part inserts a part with the given stock and a matching opening IN entry.
func Part(t testing.TB, db *gorm.DB, sku string, stock int) *catalogEntity.Part {
	t.Helper()
	p := &catalogEntity.Part{
		Name:              "Part " + sku,
		SKU:               sku,
		RealCost:          decimal.RequireFromString("10.00"),
		SellingPrice:      decimal.RequireFromString("25.00"),
		Stock:             stock,
		LowStockThreshold: 5,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create part %s: %v", sku, err)
	}
	if stock > 0 {
		reason := "Initial stock"
		entry := &inventoryEntity.Transaction{Type: inventoryEntity.TypeIn, Quantity: stock, Reason: &reason, PartID: p.ID}
		if err := db.Create(entry).Error; err != nil {
			t.Fatalf("create opening entry %s: %v", sku, err)
		}
	}
	return p
}

// Priced is Part with explicit cost and price.
func Priced(t testing.TB, db *gorm.DB, sku string, stock int, cost, price string) *catalogEntity.Part {
	t.Helper()
	p := Part(t, db, sku, stock)
	fields := map[string]interface{}{
		"real_cost":     decimal.RequireFromString(cost),
		"selling_price": decimal.RequireFromString(price),
	}
	if err := db.Model(p).Updates(fields).Error; err != nil {
		t.Fatalf("price part %s: %v", sku, err)
	}
	p.RealCost, p.SellingPrice = fields["real_cost"].(decimal.Decimal), fields["selling_price"].(decimal.Decimal)
	return p
}

// Hierarchy creates platform > brand > family > model and returns the model.
func Hierarchy(t testing.TB, db *gorm.DB, platform, brand, family, model string) *catalogEntity.DeviceModel {
	t.Helper()
	p := &catalogEntity.Platform{Name: platform}
	if err := db.Where("name = ?", platform).FirstOrCreate(p).Error; err != nil {
		t.Fatalf("platform: %v", err)
	}
	b := &catalogEntity.Brand{Name: brand, PlatformID: p.ID}
	if err := db.Where("name = ? AND platform_id = ?", brand, p.ID).FirstOrCreate(b).Error; err != nil {
		t.Fatalf("brand: %v", err)
	}
	f := &catalogEntity.Family{Name: family, BrandID: b.ID}
	if err := db.Where("name = ? AND brand_id = ?", family, b.ID).FirstOrCreate(f).Error; err != nil {
		t.Fatalf("family: %v", err)
	}
	m := &catalogEntity.DeviceModel{Name: model, FamilyID: f.ID}
	if err := db.Where("name = ? AND family_id = ?", model, f.ID).FirstOrCreate(m).Error; err != nil {
		t.Fatalf("model: %v", err)
	}
	return m
}

// Stock reads the current stock of a part.
func Stock(t testing.TB, db *gorm.DB, partID string) int {
	t.Helper()
	var p catalogEntity.Part
	if err := db.Select("stock").First(&p, "id = ?", partID).Error; err != nil {
		t.Fatalf("load stock: %v", err)
	}
	return p.Stock
}
