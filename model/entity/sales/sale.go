package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"repairshop.GO/model/entity/catalog"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCard   PaymentMethod = "CARD"
	PaymentOnline PaymentMethod = "ONLINE"
	PaymentOther  PaymentMethod = "OTHER"
)

type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusRefunded  Status = "REFUNDED"
	StatusPending   Status = "PENDING"
)

// Sale is a customer transaction grouping one or more line items (table: sales).
type Sale struct {
	ID            string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	CustomerName  *string         `gorm:"type:varchar(255)" json:"customerName"`
	CustomerPhone *string         `gorm:"type:varchar(32)" json:"customerPhone"`
	CustomerEmail *string         `gorm:"type:varchar(255)" json:"customerEmail"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	FinalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;index" json:"finalAmount"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(10);not null;index" json:"paymentMethod"`
	Status        Status          `gorm:"type:varchar(10);not null;index" json:"status"`
	Notes         *string         `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID" json:"items"`
}

func (Sale) TableName() string { return "sales" }

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Reference is the short id used in ledger reasons and receipts.
func (s Sale) Reference() string {
	if len(s.ID) <= 8 {
		return s.ID
	}
	return s.ID[len(s.ID)-8:]
}

// SaleItem is one line of a sale with a price snapshot (table: sale_items).
type SaleItem struct {
	ID         string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	SaleID     string          `gorm:"type:varchar(36);not null;index" json:"saleId"`
	PartID     string          `gorm:"type:varchar(36);not null;index" json:"partId"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
	Part       *catalog.Part   `gorm:"foreignKey:PartID" json:"part,omitempty"`
}

func (SaleItem) TableName() string { return "sale_items" }

func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
