// Package catalog manages parts: creation, edits, guarded deletion, listings
// and CSV import. Every stock change it makes is mirrored in the ledger.
package catalog

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
	catalogEntity "repairshop.GO/model/entity/catalog"
	inventoryEntity "repairshop.GO/model/entity/inventory"
	"repairshop.GO/model/repository"
	catalogRepo "repairshop.GO/model/repository/catalog"
	inventoryRepo "repairshop.GO/model/repository/inventory"
	inventoryService "repairshop.GO/service/inventory"
	"repairshop.GO/service/notify"
)

const (
	reasonOpening    = "Opening stock"
	reasonCorrection = "Catalog correction"
)

type Service struct {
	db        *gorm.DB
	parts     *catalogRepo.PartRepository
	hierarchy *catalogRepo.HierarchyRepository
	entries   *inventoryRepo.InventoryRepository
	notify    notify.Notifier
	log       logrus.FieldLogger
}

func NewService(db *gorm.DB, n notify.Notifier, log logrus.FieldLogger) (*Service, error) {
	entries, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		return nil, err
	}
	if n == nil {
		n = notify.Nop{}
	}
	return &Service{
		db:        db,
		parts:     catalogRepo.NewPartRepository(db),
		hierarchy: catalogRepo.NewHierarchyRepository(db),
		entries:   entries,
		notify:    n,
		log:       log.WithField("module", "catalog"),
	}, nil
}

// PartView is a part with its derived low-stock flag.
type PartView struct {
	catalogEntity.Part
	IsLowStock bool `json:"isLowStock"`
}

func View(p catalogEntity.Part) PartView {
	return PartView{Part: p, IsLowStock: p.IsLowStock()}
}

// PartDetail adds recent ledger activity to a part.
type PartDetail struct {
	PartView
	Transactions     []inventoryEntity.Transaction `json:"transactions"`
	TransactionCount int64                         `json:"transactionCount"`
}

type CreateInput struct {
	Name              string          `json:"name" validate:"required,max=255"`
	Description       *string         `json:"description"`
	SKU               string          `json:"sku" validate:"required,max=100"`
	RealCost          decimal.Decimal `json:"realCost" validate:"gte=0"`
	SellingPrice      decimal.Decimal `json:"sellingPrice" validate:"gte=0"`
	Stock             int             `json:"stock" validate:"gte=0"`
	LowStockThreshold int             `json:"lowStockThreshold" validate:"gte=0"`
	ModelIDs          []string        `json:"modelIds"`
}

// UpdateInput carries only the fields being changed.
type UpdateInput struct {
	Name              *string          `json:"name" validate:"omitnil,min=1,max=255"`
	Description       *string          `json:"description"`
	SKU               *string          `json:"sku" validate:"omitnil,min=1,max=100"`
	RealCost          *decimal.Decimal `json:"realCost" validate:"omitempty,gte=0"`
	SellingPrice      *decimal.Decimal `json:"sellingPrice" validate:"omitempty,gte=0"`
	Stock             *int             `json:"stock" validate:"omitempty,gte=0"`
	LowStockThreshold *int             `json:"lowStockThreshold" validate:"omitempty,gte=0"`
	ModelIDs          *[]string        `json:"modelIds"`
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func duplicateSKU(sku string) error {
	return apperror.Validation(fmt.Sprintf("A part with SKU %q already exists", sku), map[string]string{"sku": "unique"})
}

func (s *Service) checkModels(tx *gorm.DB, ids []string) error {
	missing, err := s.hierarchy.MissingModelIDs(tx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperror.NotFound("Model not found: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Create inserts a part, links its models and books any opening stock as an
// IN ledger entry.
func (s *Service) Create(ctx context.Context, in CreateInput) (*PartView, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	part := &catalogEntity.Part{
		Name:              in.Name,
		Description:       in.Description,
		SKU:               in.SKU,
		RealCost:          in.RealCost,
		SellingPrice:      in.SellingPrice,
		Stock:             in.Stock,
		LowStockThreshold: in.LowStockThreshold,
	}
	err := repository.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		part.ID = ""
		if taken, err := s.parts.SKUTaken(tx, in.SKU, ""); err != nil {
			return err
		} else if taken {
			return duplicateSKU(in.SKU)
		}
		if err := s.checkModels(tx, in.ModelIDs); err != nil {
			return err
		}
		if err := s.parts.Create(tx, part); err != nil {
			return err
		}
		if err := s.parts.ReplaceModels(tx, part.ID, in.ModelIDs); err != nil {
			return err
		}
		return inventoryService.RecordOpening(tx, s.entries, part, reasonOpening)
	})
	if repository.IsUniqueViolation(err) {
		return nil, duplicateSKU(in.SKU)
	}
	if err != nil {
		return nil, apperror.Wrap("create part", err)
	}
	s.log.WithFields(logrus.Fields{"partId": part.ID, "sku": part.SKU, "stock": part.Stock}).Info("part created")
	s.notify.PartsChanged(ctx, part.ID)
	return s.view(ctx, part.ID)
}

// Update applies the non-nil fields of in. A stock change is booked as an
// ADJUST entry for the difference.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*PartView, error) {
	in.Name = trimmed(in.Name)
	in.SKU = trimmed(in.SKU)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	err := repository.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		part, err := s.parts.FindForUpdate(tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Part not found")
		}
		if err != nil {
			return err
		}
		fields := map[string]interface{}{}
		if in.Name != nil {
			fields["name"] = *in.Name
		}
		if in.Description != nil {
			fields["description"] = *in.Description
		}
		if in.SKU != nil && *in.SKU != part.SKU {
			sku := *in.SKU
			if taken, err := s.parts.SKUTaken(tx, sku, part.ID); err != nil {
				return err
			} else if taken {
				return duplicateSKU(sku)
			}
			fields["sku"] = sku
		}
		if in.RealCost != nil {
			fields["real_cost"] = *in.RealCost
		}
		if in.SellingPrice != nil {
			fields["selling_price"] = *in.SellingPrice
		}
		if in.LowStockThreshold != nil {
			fields["low_stock_threshold"] = *in.LowStockThreshold
		}
		if in.Stock != nil && *in.Stock != part.Stock {
			fields["stock"] = *in.Stock
			if err := inventoryService.RecordCorrection(tx, s.entries, part.ID, part.Stock, *in.Stock, reasonCorrection); err != nil {
				return err
			}
		}
		if in.ModelIDs != nil {
			if err := s.checkModels(tx, *in.ModelIDs); err != nil {
				return err
			}
			if err := s.parts.ReplaceModels(tx, part.ID, *in.ModelIDs); err != nil {
				return err
			}
		}
		if len(fields) == 0 {
			return nil
		}
		return s.parts.UpdateFields(tx, part.ID, fields)
	})
	if repository.IsUniqueViolation(err) && in.SKU != nil {
		return nil, duplicateSKU(*in.SKU)
	}
	if err != nil {
		return nil, apperror.Wrap("update part", err)
	}
	s.notify.PartsChanged(ctx, id)
	return s.view(ctx, id)
}

// Delete removes a part that has never been sold, together with its ledger
// entries and model links.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := repository.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.parts.FindForUpdate(tx, id); errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Part not found")
		} else if err != nil {
			return err
		}
		sold, err := s.parts.CountSaleItems(tx, id)
		if err != nil {
			return err
		}
		if sold > 0 {
			return apperror.Referential(
				fmt.Sprintf("Cannot delete part: it appears in %d sale(s)", sold),
				map[string]int64{"saleCount": sold},
			)
		}
		if err := s.entries.DeleteByPart(tx, id); err != nil {
			return err
		}
		_, err = s.parts.Delete(tx, id)
		return err
	})
	if repository.IsForeignKeyViolation(err) {
		return apperror.Referential("Cannot delete part: it is referenced by existing sales", nil)
	}
	if err != nil {
		return apperror.Wrap("delete part", err)
	}
	s.log.WithField("partId", id).Info("part deleted")
	s.notify.PartsDeleted(ctx, id)
	return nil
}

func (s *Service) view(ctx context.Context, id string) (*PartView, error) {
	p, err := s.parts.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Part not found")
	}
	if err != nil {
		return nil, apperror.Internal("load part", err)
	}
	v := View(*p)
	return &v, nil
}

// Get returns the part with its models, last ten ledger entries and entry count.
func (s *Service) Get(ctx context.Context, id string) (*PartDetail, error) {
	v, err := s.view(ctx, id)
	if err != nil {
		return nil, err
	}
	recent, err := s.entries.Recent(ctx, id, 10)
	if err != nil {
		return nil, apperror.Internal("load part transactions", err)
	}
	for i := range recent {
		recent[i].Part = nil
	}
	count, err := s.entries.CountForPart(ctx, id)
	if err != nil {
		return nil, apperror.Internal("count part transactions", err)
	}
	return &PartDetail{PartView: *v, Transactions: recent, TransactionCount: count}, nil
}

// List returns a filtered page of parts.
func (s *Service) List(ctx context.Context, f catalogRepo.PartFilter, page repository.Page) ([]PartView, repository.Pagination, error) {
	parts, total, err := s.parts.List(ctx, f, page)
	if err != nil {
		return nil, repository.Pagination{}, apperror.Internal("list parts", err)
	}
	views := make([]PartView, len(parts))
	for i, p := range parts {
		views[i] = View(p)
	}
	return views, page.Result(total), nil
}

// LowStock returns up to limit parts at or below their threshold.
func (s *Service) LowStock(ctx context.Context, limit int) ([]PartView, error) {
	parts, err := s.parts.LowStock(ctx, limit)
	if err != nil {
		return nil, apperror.Internal("list low stock", err)
	}
	views := make([]PartView, len(parts))
	for i, p := range parts {
		views[i] = View(p)
	}
	return views, nil
}

// Hierarchy returns the platform tree.
func (s *Service) Hierarchy(ctx context.Context) ([]catalogEntity.Platform, error) {
	tree, err := s.hierarchy.Tree(ctx)
	return tree, apperror.Wrap("load hierarchy", err)
}
