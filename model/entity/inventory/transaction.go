package inventory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"repairshop.GO/model/entity/catalog"
)

// Type is the kind of stock movement.
type Type string

const (
	TypeIn     Type = "IN"
	TypeOut    Type = "OUT"
	TypeAdjust Type = "ADJUST"
	TypeSale   Type = "SALE"
)

func (t Type) Valid() bool {
	switch t {
	case TypeIn, TypeOut, TypeAdjust, TypeSale:
		return true
	}
	return false
}

// Transaction is one immutable stock ledger entry (table: transactions).
//
// Quantity is stored as an absolute value for IN, OUT and SALE and as a
// signed delta for ADJUST; SignedEffect turns it back into a stock delta.
type Transaction struct {
	ID        string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Type      Type          `gorm:"type:varchar(10);not null;index" json:"type"`
	Quantity  int           `gorm:"not null" json:"quantity"`
	Reason    *string       `gorm:"type:varchar(255)" json:"reason"`
	PartID    string        `gorm:"type:varchar(36);not null;index" json:"partId"`
	SaleID    *string       `gorm:"type:varchar(36);index" json:"saleId"`
	CreatedAt time.Time     `gorm:"index" json:"createdAt"`
	Part      *catalog.Part `gorm:"foreignKey:PartID" json:"part,omitempty"`
}

func (Transaction) TableName() string { return "transactions" }

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// SignedEffect returns the change this entry applied to the part's stock.
func (t Transaction) SignedEffect() int {
	return SignedEffect(t.Type, t.Quantity)
}

func SignedEffect(typ Type, quantity int) int {
	switch typ {
	case TypeIn:
		return abs(quantity)
	case TypeOut, TypeSale:
		return -abs(quantity)
	default:
		return quantity
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
