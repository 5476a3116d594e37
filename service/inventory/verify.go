package inventory

import (
	"context"

	"gorm.io/gorm"

	catalogEntity "repairshop.GO/model/entity/catalog"
	inventoryRepo "repairshop.GO/model/repository/inventory"
)

// Mismatch is a part whose replayed ledger disagrees with its stock.
type Mismatch struct {
	PartID   string `json:"partId"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Stock    int    `json:"stock"`
	Replayed int    `json:"replayed"`
}

// VerifyReport summarizes a ledger replay.
type VerifyReport struct {
	Checked    int        `json:"checked"`
	Mismatches []Mismatch `json:"mismatches"`
}

func (r VerifyReport) OK() bool { return len(r.Mismatches) == 0 }

// Verify replays ledger entries for one part (or all when partID is empty)
// and compares the result to the stored stock.
func Verify(ctx context.Context, db *gorm.DB, partID string) (VerifyReport, error) {
	entries, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		return VerifyReport{}, err
	}
	nets, err := entries.NetEffects(ctx, partID)
	if err != nil {
		return VerifyReport{}, err
	}

	q := db.WithContext(ctx).Model(&catalogEntity.Part{}).Select("id, sku, name, stock")
	if partID != "" {
		q = q.Where("id = ?", partID)
	}
	var parts []catalogEntity.Part
	if err := q.Order("sku").Find(&parts).Error; err != nil {
		return VerifyReport{}, err
	}

	report := VerifyReport{Checked: len(parts), Mismatches: []Mismatch{}}
	for _, p := range parts {
		if replayed := nets[p.ID]; replayed != p.Stock {
			report.Mismatches = append(report.Mismatches, Mismatch{
				PartID: p.ID, SKU: p.SKU, Name: p.Name, Stock: p.Stock, Replayed: replayed,
			})
		}
	}
	return report, nil
}
