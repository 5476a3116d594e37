package catalog

import (
	"context"

	"gorm.io/gorm"

	catalogEntity "repairshop.GO/model/entity/catalog"
)

type HierarchyRepository struct {
	db *gorm.DB
}

func NewHierarchyRepository(db *gorm.DB) *HierarchyRepository {
	return &HierarchyRepository{db: db}
}

// Tree returns all platforms with brands, families and models, each level by name.
func (r *HierarchyRepository) Tree(ctx context.Context) ([]catalogEntity.Platform, error) {
	byName := func(table string) func(*gorm.DB) *gorm.DB {
		return func(db *gorm.DB) *gorm.DB { return db.Order(table + ".name") }
	}
	var platforms []catalogEntity.Platform
	err := r.db.WithContext(ctx).
		Preload("Brands", byName("brands")).
		Preload("Brands.Families", byName("families")).
		Preload("Brands.Families.Models", byName("device_models")).
		Order("platforms.name").
		Find(&platforms).Error
	return platforms, err
}

// MissingModelIDs returns the ids in ids that have no device model row.
func (r *HierarchyRepository) MissingModelIDs(tx *gorm.DB, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []string
	if err := tx.Model(&catalogEntity.DeviceModel{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(found))
	for _, id := range found {
		have[id] = true
	}
	var missing []string
	for _, id := range ids {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// FirstOrCreatePlatform and friends are used by seeding; they match on slug.
func (r *HierarchyRepository) FirstOrCreatePlatform(tx *gorm.DB, name string) (*catalogEntity.Platform, error) {
	p := catalogEntity.Platform{Name: name, Slug: catalogEntity.Slugify(name)}
	err := tx.Where(catalogEntity.Platform{Slug: p.Slug}).FirstOrCreate(&p).Error
	return &p, err
}

func (r *HierarchyRepository) FirstOrCreateBrand(tx *gorm.DB, platformID, name string) (*catalogEntity.Brand, error) {
	b := catalogEntity.Brand{Name: name, Slug: catalogEntity.Slugify(name), PlatformID: platformID}
	err := tx.Where(catalogEntity.Brand{Slug: b.Slug}).FirstOrCreate(&b).Error
	return &b, err
}

func (r *HierarchyRepository) FirstOrCreateFamily(tx *gorm.DB, brandID, name string) (*catalogEntity.Family, error) {
	f := catalogEntity.Family{Name: name, Slug: catalogEntity.Slugify(name), BrandID: brandID}
	err := tx.Where(catalogEntity.Family{Slug: f.Slug}).FirstOrCreate(&f).Error
	return &f, err
}

func (r *HierarchyRepository) FirstOrCreateModel(tx *gorm.DB, familyID, name string) (*catalogEntity.DeviceModel, error) {
	m := catalogEntity.DeviceModel{Name: name, Slug: catalogEntity.Slugify(name), FamilyID: familyID}
	err := tx.Where(catalogEntity.DeviceModel{Slug: m.Slug}).FirstOrCreate(&m).Error
	return &m, err
}
