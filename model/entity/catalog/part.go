package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Part represents a sellable spare part (table: parts).
type Part struct {
	ID                string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name              string          `gorm:"type:varchar(255);not null" json:"name"`
	Description       *string         `gorm:"type:text" json:"description"`
	SKU               string          `gorm:"column:sku;type:varchar(100);uniqueIndex;not null" json:"sku"`
	RealCost          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"realCost"`
	SellingPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sellingPrice"`
	Stock             int             `gorm:"not null;index" json:"stock"`
	LowStockThreshold int             `gorm:"not null" json:"lowStockThreshold"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`

	Models []DeviceModel `gorm:"many2many:part_models;joinForeignKey:PartID;joinReferences:ModelID" json:"models,omitempty"`
}

func (Part) TableName() string { return "parts" }

func (p *Part) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsLowStock reports stock at or below the reorder threshold.
func (p Part) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// Summary is the compact part view embedded in ledger and sale responses.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

func (p Part) Summary() Summary {
	return Summary{ID: p.ID, Name: p.Name, SKU: p.SKU}
}

// PartModel links a part to a compatible device model (table: part_models).
type PartModel struct {
	PartID  string `gorm:"type:varchar(36);primaryKey" json:"partId"`
	ModelID string `gorm:"type:varchar(36);primaryKey;index" json:"modelId"`
}

func (PartModel) TableName() string { return "part_models" }
