package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Platform is the top of the device hierarchy (iOS, Android).
type Platform struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Brands    []Brand   `gorm:"foreignKey:PlatformID" json:"brands,omitempty"`
}

func (Platform) TableName() string { return "platforms" }

func (p *Platform) BeforeCreate(tx *gorm.DB) error {
	p.ID, p.Slug = ensureID(p.ID), ensureSlug(p.Slug, p.Name)
	return nil
}

type Brand struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_brand_name_platform" json:"name"`
	Slug       string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	PlatformID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_brand_name_platform" json:"platformId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Platform   *Platform `json:"platform,omitempty"`
	Families   []Family  `gorm:"foreignKey:BrandID" json:"families,omitempty"`
}

func (Brand) TableName() string { return "brands" }

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	b.ID, b.Slug = ensureID(b.ID), ensureSlug(b.Slug, b.Name)
	return nil
}

type Family struct {
	ID        string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string        `gorm:"type:varchar(100);not null;uniqueIndex:idx_family_name_brand" json:"name"`
	Slug      string        `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	BrandID   string        `gorm:"type:varchar(36);not null;uniqueIndex:idx_family_name_brand" json:"brandId"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Brand     *Brand        `json:"brand,omitempty"`
	Models    []DeviceModel `gorm:"foreignKey:FamilyID" json:"models,omitempty"`
}

func (Family) TableName() string { return "families" }

func (f *Family) BeforeCreate(tx *gorm.DB) error {
	f.ID, f.Slug = ensureID(f.ID), ensureSlug(f.Slug, f.Name)
	return nil
}

// DeviceModel is a concrete handset model (table: device_models).
type DeviceModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_model_name_family" json:"name"`
	Slug      string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	FamilyID  string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_model_name_family" json:"familyId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Family    *Family   `json:"family,omitempty"`
}

func (DeviceModel) TableName() string { return "device_models" }

func (m *DeviceModel) BeforeCreate(tx *gorm.DB) error {
	m.ID, m.Slug = ensureID(m.ID), ensureSlug(m.Slug, m.Name)
	return nil
}

var (
	slugStrip  = regexp.MustCompile(`[^a-z0-9 -]`)
	slugSpace  = regexp.MustCompile(`\s+`)
	slugDashes = regexp.MustCompile(`-+`)
)

// Slugify lowercases text, drops anything but letters, digits, spaces and
// dashes, then turns whitespace runs into single dashes.
func Slugify(text string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(text), "")
	s = slugSpace.ReplaceAllString(s, "-")
	return slugDashes.ReplaceAllString(s, "-")
}

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func ensureSlug(slug, name string) string {
	if slug == "" {
		return Slugify(name)
	}
	return slug
}
