// Package sales records point-of-sale transactions and reverses them, keeping
// part stock and the ledger in step.
package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"repairshop.GO/core/apperror"
	"repairshop.GO/core/validate"
	inventoryEntity "repairshop.GO/model/entity/inventory"
	salesEntity "repairshop.GO/model/entity/sales"
	"repairshop.GO/model/repository"
	catalogRepo "repairshop.GO/model/repository/catalog"
	inventoryRepo "repairshop.GO/model/repository/inventory"
	salesRepo "repairshop.GO/model/repository/sales"
	"repairshop.GO/service/notify"
)

type Recorder struct {
	db          *gorm.DB
	parts       *catalogRepo.PartRepository
	sales       *salesRepo.SalesRepository
	entries     *inventoryRepo.InventoryRepository
	notify      notify.Notifier
	log         logrus.FieldLogger
	phoneRegion string
}

func NewRecorder(db *gorm.DB, n notify.Notifier, log logrus.FieldLogger, phoneRegion string) (*Recorder, error) {
	entries, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		return nil, err
	}
	if n == nil {
		n = notify.Nop{}
	}
	return &Recorder{
		db:          db,
		parts:       catalogRepo.NewPartRepository(db),
		sales:       salesRepo.NewSalesRepository(db),
		entries:     entries,
		notify:      n,
		log:         log.WithField("module", "sales.recorder"),
		phoneRegion: phoneRegion,
	}, nil
}

type ItemInput struct {
	PartID     string          `json:"partId" validate:"required"`
	Quantity   int             `json:"quantity" validate:"gt=0"`
	UnitPrice  decimal.Decimal `json:"unitPrice" validate:"gt=0"`
	TotalPrice decimal.Decimal `json:"totalPrice" validate:"gt=0"`
}

type RecordInput struct {
	CustomerName  *string                   `json:"customerName" validate:"omitempty,max=255"`
	CustomerPhone *string                   `json:"customerPhone" validate:"omitempty,max=32"`
	CustomerEmail *string                   `json:"customerEmail" validate:"omitempty,email"`
	PaymentMethod salesEntity.PaymentMethod `json:"paymentMethod" validate:"required,oneof=CASH CARD ONLINE OTHER"`
	Discount      decimal.Decimal           `json:"discount" validate:"gte=0"`
	Notes         *string                   `json:"notes"`
	Items         []ItemInput               `json:"items" validate:"required,min=1,dive"`
}

// Totals returns the subtotal and the amount due after discount.
func (in RecordInput) Totals() (total, final decimal.Decimal) {
	total = decimal.Zero
	for _, it := range in.Items {
		total = total.Add(it.TotalPrice)
	}
	return total, total.Sub(in.Discount)
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Record creates the sale, its items, the stock decrements and one SALE
// ledger entry per line as a single unit of work.
func (r *Recorder) Record(ctx context.Context, in RecordInput) (*salesEntity.Sale, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	total, final := in.Totals()
	if final.IsNegative() {
		return nil, apperror.Validation(
			fmt.Sprintf("Discount (%s) cannot exceed the sale total (%s)", in.Discount.StringFixed(2), total.StringFixed(2)),
			map[string]string{"discount": "lte_total"},
		)
	}

	requested := make(map[string]int, len(in.Items))
	var partIDs []string
	for _, it := range in.Items {
		if _, seen := requested[it.PartID]; !seen {
			partIDs = append(partIDs, it.PartID)
		}
		requested[it.PartID] += it.Quantity
	}

	sale := &salesEntity.Sale{
		CustomerName:  optional(in.CustomerName),
		CustomerEmail: optional(in.CustomerEmail),
		TotalAmount:   total,
		Discount:      in.Discount,
		FinalAmount:   final,
		PaymentMethod: in.PaymentMethod,
		Status:        salesEntity.StatusCompleted,
		Notes:         optional(in.Notes),
	}
	if phone := optional(in.CustomerPhone); phone != nil {
		normalized := NormalizePhone(*phone, r.phoneRegion)
		sale.CustomerPhone = &normalized
	}

	var created *salesEntity.Sale
	err := repository.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		parts, err := r.parts.FindManyForUpdate(tx, partIDs)
		if err != nil {
			return err
		}
		for _, id := range partIDs {
			part, ok := parts[id]
			if !ok {
				return apperror.NotFound("Part not found: %s", id)
			}
			if part.Stock < requested[id] {
				return apperror.InsufficientStock(
					fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d", part.Name, part.Stock, requested[id]),
					apperror.StockDetails{PartID: id, PartName: part.Name, Available: part.Stock, Requested: requested[id]},
				)
			}
		}

		sale.ID = ""
		sale.Items = make([]salesEntity.SaleItem, len(in.Items))
		for i, it := range in.Items {
			sale.Items[i] = salesEntity.SaleItem{
				PartID:     it.PartID,
				Quantity:   it.Quantity,
				UnitPrice:  it.UnitPrice,
				TotalPrice: it.TotalPrice,
			}
		}
		if err := r.sales.Create(tx, sale); err != nil {
			return err
		}

		reason := "Sale #" + sale.Reference()
		entries := make([]inventoryEntity.Transaction, 0, len(in.Items))
		for _, it := range in.Items {
			ok, err := r.parts.DecrementStock(tx, it.PartID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				part := parts[it.PartID]
				return apperror.InsufficientStock(
					fmt.Sprintf("Insufficient stock for %s", part.Name),
					apperror.StockDetails{PartID: part.ID, PartName: part.Name, Available: part.Stock, Requested: requested[it.PartID]},
				)
			}
			saleID := sale.ID
			entries = append(entries, inventoryEntity.Transaction{
				Type:     inventoryEntity.TypeSale,
				Quantity: it.Quantity,
				Reason:   &reason,
				PartID:   it.PartID,
				SaleID:   &saleID,
			})
		}
		if err := r.entries.CreateMany(tx, entries); err != nil {
			return err
		}
		created, err = r.sales.FindInTx(tx, sale.ID)
		return err
	})
	if err != nil {
		return nil, apperror.Wrap("record sale", err)
	}

	r.log.WithFields(logrus.Fields{
		"saleId":      sale.ID,
		"items":       len(sale.Items),
		"finalAmount": sale.FinalAmount.StringFixed(2),
	}).Info("sale recorded")
	r.notify.PartsChanged(ctx, partIDs...)
	return created, nil
}

// Reversal reports what a sale deletion restored.
type Reversal struct {
	SaleID         string         `json:"saleId"`
	RestoredStock  map[string]int `json:"restoredStock"`
	EntriesRemoved int64          `json:"entriesRemoved"`
}

// Reverse deletes a sale, puts its quantities back on the shelf and removes
// its ledger entries as a single unit of work.
func (r *Recorder) Reverse(ctx context.Context, id string) (*Reversal, error) {
	rev := &Reversal{SaleID: id, RestoredStock: map[string]int{}}
	err := repository.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		rev.RestoredStock = map[string]int{}
		sale, err := r.sales.FindForReversal(tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Sale not found")
		}
		if err != nil {
			return err
		}
		for _, it := range sale.Items {
			if err := r.parts.IncrementStock(tx, it.PartID, it.Quantity); err != nil {
				return fmt.Errorf("restore stock for part %s: %w", it.PartID, err)
			}
			rev.RestoredStock[it.PartID] += it.Quantity
		}
		if rev.EntriesRemoved, err = r.entries.DeleteBySale(tx, sale.ID); err != nil {
			return err
		}
		return r.sales.Delete(tx, sale.ID)
	})
	if err != nil {
		return nil, apperror.Wrap("reverse sale", err)
	}

	ids := make([]string, 0, len(rev.RestoredStock))
	for partID := range rev.RestoredStock {
		ids = append(ids, partID)
	}
	r.log.WithFields(logrus.Fields{"saleId": id, "parts": len(ids)}).Info("sale reversed")
	r.notify.PartsChanged(ctx, ids...)
	return rev, nil
}
