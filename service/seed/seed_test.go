package seed

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"

	catalogEntity "repairshop.GO/model/entity/catalog"
	salesEntity "repairshop.GO/model/entity/sales"
	"repairshop.GO/model/repository/repotest"
	"repairshop.GO/service/inventory"
)

func TestRun_SeedsCatalogAndSales(t *testing.T) {
	db := repotest.Open(t)
	log, _ := test.NewNullLogger()
	ctx := context.Background()

	sum, err := Run(ctx, db, nil, log, Options{Sales: true, PhoneRegion: "PK"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Models != 21 || sum.PartsCreated != 20 || sum.Sales != 3 {
		t.Errorf("summary = %+v", sum)
	}
	// 6*8 iPhone + 4*5 Galaxy + 3*3 Redmi + 2*2 Reno + 5*21 universal
	if sum.Links != 186 {
		t.Errorf("links = %d, want 186", sum.Links)
	}

	var links int64
	db.Model(&catalogEntity.PartModel{}).Count(&links)
	if links != 186 {
		t.Errorf("part_models rows = %d", links)
	}

	var screen catalogEntity.Part
	db.First(&screen, "sku = ?", "IPH15PM-SCR")
	if screen.Stock != 4 {
		t.Errorf("IPH15PM-SCR stock = %d, want 4", screen.Stock)
	}
	var protector catalogEntity.Part
	db.First(&protector, "sku = ?", "UNI-PROT")
	if protector.Stock != 98 {
		t.Errorf("UNI-PROT stock = %d, want 98", protector.Stock)
	}

	var first salesEntity.Sale
	db.Where("customer_name = ?", "Ahmed Ali").First(&first)
	if !first.FinalAmount.Equal(decimal.NewFromInt(23000)) || !first.Discount.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("sale = %+v", first)
	}

	report, err := inventory.Verify(ctx, db, "")
	if err != nil {
		t.Fatal(err)
	}
	if !report.OK() {
		t.Errorf("ledger mismatches: %+v", report.Mismatches)
	}
}

func TestRun_Idempotent(t *testing.T) {
	db := repotest.Open(t)
	log, _ := test.NewNullLogger()
	ctx := context.Background()

	if _, err := Run(ctx, db, nil, log, Options{Sales: true}); err != nil {
		t.Fatal(err)
	}
	sum, err := Run(ctx, db, nil, log, Options{Sales: true})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if sum.PartsCreated != 0 || sum.PartsSkipped != 20 || sum.Sales != 0 {
		t.Errorf("second summary = %+v", sum)
	}
	var models, sales int64
	db.Model(&catalogEntity.DeviceModel{}).Count(&models)
	db.Model(&salesEntity.Sale{}).Count(&sales)
	if models != 21 || sales != 3 {
		t.Errorf("models = %d, sales = %d", models, sales)
	}
}

func TestModelsFor(t *testing.T) {
	byFamily := map[string][]string{
		"iPhone": {"a", "b"}, "iPad": {"c"}, "Galaxy": {"d"}, "Redmi": {"e"}, "Reno": {"f"},
	}
	cases := []struct {
		sku  string
		want int
	}{
		{"IPH-CAM", 2},
		{"GAL-BACK", 1},
		{"SAM-USBC", 1},
		{"XI-PWR", 1},
		{"UNI-CASE", 6},
		{"ZZZ-1", 0},
	}
	for _, c := range cases {
		if got := ModelsFor(c.sku, byFamily); len(got) != c.want {
			t.Errorf("ModelsFor(%q) = %v, want %d ids", c.sku, got, c.want)
		}
	}
}
