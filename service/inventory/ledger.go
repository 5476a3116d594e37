// Package inventory appends manual stock movements to the ledger and checks
// that the ledger still explains every part's stock.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"repairshop.GO/core/apperror"
	"repairshop.GO/core/validate"
	catalogEntity "repairshop.GO/model/entity/catalog"
	inventoryEntity "repairshop.GO/model/entity/inventory"
	"repairshop.GO/model/repository"
	catalogRepo "repairshop.GO/model/repository/catalog"
	inventoryRepo "repairshop.GO/model/repository/inventory"
	"repairshop.GO/service/notify"
)

// Ledger records manual stock movements (IN, OUT, ADJUST).
type Ledger struct {
	db      *gorm.DB
	parts   *catalogRepo.PartRepository
	entries *inventoryRepo.InventoryRepository
	notify  notify.Notifier
	log     logrus.FieldLogger
}

func NewLedger(db *gorm.DB, n notify.Notifier, log logrus.FieldLogger) (*Ledger, error) {
	entries, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		return nil, err
	}
	if n == nil {
		n = notify.Nop{}
	}
	return &Ledger{
		db:      db,
		parts:   catalogRepo.NewPartRepository(db),
		entries: entries,
		notify:  n,
		log:     log.WithField("module", "inventory.ledger"),
	}, nil
}

// AppendInput is a manual stock movement request.
type AppendInput struct {
	PartID   string               `json:"partId" validate:"required"`
	Type     inventoryEntity.Type `json:"type" validate:"required,oneof=IN OUT ADJUST"`
	Quantity int                  `json:"quantity" validate:"required"`
	Reason   *string              `json:"reason" validate:"omitempty,max=255"`
}

// NextStock applies a movement of the given type to current.
func NextStock(current int, typ inventoryEntity.Type, quantity int) int {
	return current + inventoryEntity.SignedEffect(typ, quantity)
}

// StoredQuantity is the value persisted for the movement: a magnitude for
// IN and OUT, the signed delta for ADJUST.
func StoredQuantity(typ inventoryEntity.Type, quantity int) int {
	if typ == inventoryEntity.TypeAdjust || quantity >= 0 {
		return quantity
	}
	return -quantity
}

// Append validates in, then writes the ledger entry and the new stock in one
// transaction. The returned entry carries the updated part.
func (l *Ledger) Append(ctx context.Context, in AppendInput) (*inventoryEntity.Transaction, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var entry *inventoryEntity.Transaction
	err := repository.WithTx(ctx, l.db, func(tx *gorm.DB) error {
		part, err := l.parts.FindForUpdate(tx, in.PartID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Part not found")
		}
		if err != nil {
			return err
		}

		next := NextStock(part.Stock, in.Type, in.Quantity)
		if next < 0 {
			change := inventoryEntity.SignedEffect(in.Type, in.Quantity)
			return apperror.InsufficientStock(
				fmt.Sprintf("Cannot reduce stock below zero. Current stock: %d, requested change: %d", part.Stock, change),
				apperror.StockDetails{PartID: part.ID, PartName: part.Name, Available: part.Stock, Requested: -change},
			)
		}

		entry = &inventoryEntity.Transaction{
			Type:     in.Type,
			Quantity: StoredQuantity(in.Type, in.Quantity),
			Reason:   in.Reason,
			PartID:   part.ID,
		}
		if err := l.entries.Create(tx, entry); err != nil {
			return err
		}
		if err := l.parts.UpdateFields(tx, part.ID, map[string]interface{}{"stock": next}); err != nil {
			return err
		}
		part.Stock = next
		entry.Part = part
		return nil
	})
	if err != nil {
		return nil, apperror.Wrap("append ledger entry", err)
	}

	l.log.WithFields(logrus.Fields{
		"partId":   entry.PartID,
		"type":     entry.Type,
		"quantity": entry.Quantity,
		"stock":    entry.Part.Stock,
	}).Info("ledger entry appended")
	l.notify.PartsChanged(ctx, entry.PartID)
	return entry, nil
}

// List returns a page of ledger entries.
func (l *Ledger) List(ctx context.Context, f inventoryRepo.Filter, page repository.Page) ([]inventoryEntity.Transaction, repository.Pagination, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, repository.Pagination{}, apperror.Validation("Invalid transaction type", map[string]string{"type": "oneof"})
	}
	entries, total, err := l.entries.List(ctx, f, page)
	if err != nil {
		return nil, repository.Pagination{}, apperror.Internal("list ledger entries", err)
	}
	return entries, page.Result(total), nil
}

// RecordOpening writes the opening IN entry for a part created with stock.
// Callers run it inside their own transaction.
func RecordOpening(tx *gorm.DB, entries *inventoryRepo.InventoryRepository, part *catalogEntity.Part, reason string) error {
	if part.Stock <= 0 {
		return nil
	}
	return entries.Create(tx, &inventoryEntity.Transaction{
		Type:     inventoryEntity.TypeIn,
		Quantity: part.Stock,
		Reason:   &reason,
		PartID:   part.ID,
	})
}

// RecordCorrection writes an ADJUST entry for a direct stock edit.
func RecordCorrection(tx *gorm.DB, entries *inventoryRepo.InventoryRepository, partID string, from, to int, reason string) error {
	if from == to {
		return nil
	}
	return entries.Create(tx, &inventoryEntity.Transaction{
		Type:     inventoryEntity.TypeAdjust,
		Quantity: to - from,
		Reason:   &reason,
		PartID:   partID,
	})
}
