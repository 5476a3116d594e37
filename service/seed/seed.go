// Package seed loads the device hierarchy, a starter parts catalog and a few
// sample sales. Running it twice is harmless: existing rows are matched by
// slug or SKU and left alone.
package seed

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	salesEntity "repairshop.GO/model/entity/sales"
	"repairshop.GO/model/repository"
	catalogRepo "repairshop.GO/model/repository/catalog"
	"repairshop.GO/service/catalog"
	"repairshop.GO/service/notify"
	"repairshop.GO/service/sales"
)

type Options struct {
	// Sales records the sample sales when the parts they use were created by
	// this run.
	Sales       bool
	PhoneRegion string
}

type Summary struct {
	Models       int `json:"models"`
	PartsCreated int `json:"partsCreated"`
	PartsSkipped int `json:"partsSkipped"`
	Links        int `json:"links"`
	Sales        int `json:"sales"`
}

func Run(ctx context.Context, db *gorm.DB, n notify.Notifier, log logrus.FieldLogger, opt Options) (*Summary, error) {
	log = log.WithField("module", "seed")
	sum := &Summary{}

	byFamily, err := seedHierarchy(ctx, db)
	if err != nil {
		return nil, err
	}
	for _, ids := range byFamily {
		sum.Models += len(ids)
	}

	svc, err := catalog.NewService(db, n, log)
	if err != nil {
		return nil, err
	}
	partsRepo := catalogRepo.NewPartRepository(db)
	created := make(map[string]string, len(parts))
	for _, p := range parts {
		existing, err := partsRepo.FindBySKU(ctx, p.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			sum.PartsSkipped++
			continue
		}
		desc := p.Description
		modelIDs := ModelsFor(p.SKU, byFamily)
		view, err := svc.Create(ctx, catalog.CreateInput{
			Name:              p.Name,
			Description:       &desc,
			SKU:               p.SKU,
			RealCost:          decimal.NewFromInt(p.Cost),
			SellingPrice:      decimal.NewFromInt(p.Price),
			Stock:             p.Stock,
			LowStockThreshold: p.Threshold,
			ModelIDs:          modelIDs,
		})
		if err != nil {
			return nil, err
		}
		created[p.SKU] = view.ID
		sum.PartsCreated++
		sum.Links += len(modelIDs)
	}

	if opt.Sales {
		rec, err := sales.NewRecorder(db, n, log, opt.PhoneRegion)
		if err != nil {
			return nil, err
		}
		for _, s := range sampleSales {
			in, ok := saleInput(s, created)
			if !ok {
				continue
			}
			if _, err := rec.Record(ctx, in); err != nil {
				return nil, err
			}
			sum.Sales++
		}
	}

	log.WithFields(logrus.Fields{
		"models":  sum.Models,
		"created": sum.PartsCreated,
		"skipped": sum.PartsSkipped,
		"links":   sum.Links,
		"sales":   sum.Sales,
	}).Info("seed complete")
	return sum, nil
}

// seedHierarchy returns model ids keyed by family name.
func seedHierarchy(ctx context.Context, db *gorm.DB) (map[string][]string, error) {
	h := catalogRepo.NewHierarchyRepository(db)
	out := make(map[string][]string)
	err := repository.WithTx(ctx, db, func(tx *gorm.DB) error {
		for k := range out {
			delete(out, k)
		}
		for _, d := range devices {
			platform, err := h.FirstOrCreatePlatform(tx, d.Platform)
			if err != nil {
				return err
			}
			brand, err := h.FirstOrCreateBrand(tx, platform.ID, d.Brand)
			if err != nil {
				return err
			}
			family, err := h.FirstOrCreateFamily(tx, brand.ID, d.Family)
			if err != nil {
				return err
			}
			for _, name := range d.Models {
				m, err := h.FirstOrCreateModel(tx, family.ID, name)
				if err != nil {
					return err
				}
				out[d.Family] = append(out[d.Family], m.ID)
			}
		}
		return nil
	})
	return out, err
}

// ModelsFor picks the compatible model ids for a SKU by its prefix.
func ModelsFor(sku string, byFamily map[string][]string) []string {
	for _, fp := range familyPrefixes {
		for _, prefix := range fp.Prefixes {
			if !strings.HasPrefix(sku, prefix) {
				continue
			}
			if fp.Family != "" {
				return byFamily[fp.Family]
			}
			var all []string
			for _, d := range devices {
				all = append(all, byFamily[d.Family]...)
			}
			return all
		}
	}
	return nil
}

func saleInput(s saleSeed, partIDs map[string]string) (sales.RecordInput, bool) {
	str := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}
	in := sales.RecordInput{
		CustomerName:  str(s.Customer),
		CustomerPhone: str(s.Phone),
		CustomerEmail: str(s.Email),
		PaymentMethod: salesEntity.PaymentMethod(s.Payment),
		Discount:      decimal.NewFromInt(s.Discount),
		Notes:         str(s.Notes),
	}
	for _, l := range s.Lines {
		id, ok := partIDs[l.SKU]
		if !ok {
			return in, false
		}
		price := decimal.NewFromInt(l.Price)
		in.Items = append(in.Items, sales.ItemInput{
			PartID:     id,
			Quantity:   l.Qty,
			UnitPrice:  price,
			TotalPrice: price.Mul(decimal.NewFromInt(int64(l.Qty))),
		})
	}
	return in, true
}
