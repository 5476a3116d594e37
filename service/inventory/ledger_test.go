package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"repairshop.GO/core/apperror"
	inventoryEntity "repairshop.GO/model/entity/inventory"
	"repairshop.GO/model/repository"
	inventoryRepo "repairshop.GO/model/repository/inventory"
	"repairshop.GO/model/repository/repotest"
	"repairshop.GO/service/notify"
)

func newLedger(t *testing.T) (*Ledger, *notify.Recorder) {
	t.Helper()
	db := repotest.Open(t)
	rec := &notify.Recorder{}
	log, _ := test.NewNullLogger()
	l, err := NewLedger(db, rec, log)
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	return l, rec
}

func ptr(s string) *string { return &s }

func TestNextStock(t *testing.T) {
	cases := []struct {
		typ  inventoryEntity.Type
		qty  int
		want int
	}{
		{inventoryEntity.TypeIn, 5, 15},
		{inventoryEntity.TypeIn, -5, 15},
		{inventoryEntity.TypeOut, 3, 7},
		{inventoryEntity.TypeOut, -3, 7},
		{inventoryEntity.TypeSale, 4, 6},
		{inventoryEntity.TypeAdjust, -2, 8},
		{inventoryEntity.TypeAdjust, 2, 12},
	}
	for _, c := range cases {
		if got := NextStock(10, c.typ, c.qty); got != c.want {
			t.Errorf("NextStock(10, %s, %d) = %d, want %d", c.typ, c.qty, got, c.want)
		}
	}
}

func TestStoredQuantity(t *testing.T) {
	if got := StoredQuantity(inventoryEntity.TypeOut, -3); got != 3 {
		t.Errorf("OUT -3 stored as %d, want 3", got)
	}
	if got := StoredQuantity(inventoryEntity.TypeAdjust, -3); got != -3 {
		t.Errorf("ADJUST -3 stored as %d, want -3", got)
	}
}

func TestAppend_OutReducesStock(t *testing.T) {
	l, rec := newLedger(t)
	part := repotest.Part(t, l.db, "SCR-001", 10)

	entry, err := l.Append(context.Background(), AppendInput{
		PartID: part.ID, Type: inventoryEntity.TypeOut, Quantity: 3, Reason: ptr("Used in repair"),
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if entry.Quantity != 3 || entry.Type != inventoryEntity.TypeOut {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Part == nil || entry.Part.Stock != 7 {
		t.Errorf("entry.Part = %+v, want stock 7", entry.Part)
	}
	if got := repotest.Stock(t, l.db, part.ID); got != 7 {
		t.Errorf("stock = %d, want 7", got)
	}
	if len(rec.Changed) != 1 || rec.Changed[0] != part.ID {
		t.Errorf("notified = %v", rec.Changed)
	}
}

func TestAppend_RejectsNegativeStock(t *testing.T) {
	l, rec := newLedger(t)
	part := repotest.Part(t, l.db, "SCR-002", 7)

	_, err := l.Append(context.Background(), AppendInput{PartID: part.ID, Type: inventoryEntity.TypeOut, Quantity: 20})
	if !apperror.Is(err, apperror.KindInsufficientStock) {
		t.Fatalf("err = %v, want insufficient stock", err)
	}
	want := "Cannot reduce stock below zero. Current stock: 7, requested change: -20"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
	if got := repotest.Stock(t, l.db, part.ID); got != 7 {
		t.Errorf("stock = %d, want 7", got)
	}
	var n int64
	l.db.Model(&inventoryEntity.Transaction{}).Where("part_id = ?", part.ID).Count(&n)
	if n != 1 {
		t.Errorf("entries = %d, want only the opening entry", n)
	}
	if len(rec.Changed) != 0 {
		t.Errorf("notified on failure: %v", rec.Changed)
	}
}

func TestAppend_AdjustBothWays(t *testing.T) {
	l, _ := newLedger(t)
	part := repotest.Part(t, l.db, "BAT-001", 4)
	ctx := context.Background()

	if _, err := l.Append(ctx, AppendInput{PartID: part.ID, Type: inventoryEntity.TypeAdjust, Quantity: -4}); err != nil {
		t.Fatalf("adjust to zero: %v", err)
	}
	if _, err := l.Append(ctx, AppendInput{PartID: part.ID, Type: inventoryEntity.TypeAdjust, Quantity: -1}); !apperror.Is(err, apperror.KindInsufficientStock) {
		t.Fatalf("adjust below zero: err = %v", err)
	}
	if _, err := l.Append(ctx, AppendInput{PartID: part.ID, Type: inventoryEntity.TypeAdjust, Quantity: 6}); err != nil {
		t.Fatalf("adjust up: %v", err)
	}
	if got := repotest.Stock(t, l.db, part.ID); got != 6 {
		t.Errorf("stock = %d, want 6", got)
	}
}

func TestAppend_Validation(t *testing.T) {
	l, _ := newLedger(t)
	part := repotest.Part(t, l.db, "CAM-001", 1)
	ctx := context.Background()

	cases := map[string]AppendInput{
		"zero quantity": {PartID: part.ID, Type: inventoryEntity.TypeIn, Quantity: 0},
		"sale type":     {PartID: part.ID, Type: inventoryEntity.TypeSale, Quantity: 1},
		"unknown type":  {PartID: part.ID, Type: "MOVE", Quantity: 1},
		"missing part":  {Type: inventoryEntity.TypeIn, Quantity: 1},
	}
	for name, in := range cases {
		if _, err := l.Append(ctx, in); !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("%s: err = %v, want validation", name, err)
		}
	}
}

func TestAppend_UnknownPart(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.Append(context.Background(), AppendInput{PartID: "nope", Type: inventoryEntity.TypeIn, Quantity: 1})
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestAppend_ConcurrentOutNeverOversells(t *testing.T) {
	l, _ := newLedger(t)
	part := repotest.Part(t, l.db, "FLEX-001", 5)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Append(context.Background(), AppendInput{PartID: part.ID, Type: inventoryEntity.TypeOut, Quantity: 1})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if ok != 5 {
		t.Errorf("successful OUTs = %d, want 5", ok)
	}
	if got := repotest.Stock(t, l.db, part.ID); got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}
}

func TestList_FiltersAndPages(t *testing.T) {
	l, _ := newLedger(t)
	a := repotest.Part(t, l.db, "A", 10)
	repotest.Part(t, l.db, "B", 10)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := l.Append(ctx, AppendInput{PartID: a.ID, Type: inventoryEntity.TypeOut, Quantity: 1}); err != nil {
			t.Fatal(err)
		}
	}

	entries, page, err := l.List(ctx, inventoryRepo.Filter{PartID: a.ID, Type: inventoryEntity.TypeOut}, repository.Page{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || page.TotalCount != 3 || page.TotalPages != 2 {
		t.Errorf("got %d entries, pagination %+v", len(entries), page)
	}
	if entries[0].Part == nil || entries[0].Part.SKU != "A" {
		t.Errorf("part not preloaded: %+v", entries[0].Part)
	}

	if _, _, err := l.List(ctx, inventoryRepo.Filter{Type: "BOGUS"}, repository.Page{Page: 1, Limit: 20}); !apperror.Is(err, apperror.KindValidation) {
		t.Errorf("bad type: err = %v", err)
	}
}

func TestVerify_ReplaysLedger(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	a := repotest.Part(t, l.db, "A", 10)
	b := repotest.Part(t, l.db, "B", 3)
	l.Append(ctx, AppendInput{PartID: a.ID, Type: inventoryEntity.TypeOut, Quantity: 4})
	l.Append(ctx, AppendInput{PartID: a.ID, Type: inventoryEntity.TypeAdjust, Quantity: -1})
	l.Append(ctx, AppendInput{PartID: b.ID, Type: inventoryEntity.TypeIn, Quantity: 2})

	report, err := Verify(ctx, l.db, "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.OK() || report.Checked != 2 {
		t.Fatalf("report = %+v", report)
	}

	l.db.Exec("UPDATE parts SET stock = 99 WHERE id = ?", b.ID)
	report, err = Verify(ctx, l.db, "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(report.Mismatches) != 1 || report.Mismatches[0].PartID != b.ID || report.Mismatches[0].Replayed != 5 {
		t.Errorf("mismatches = %+v", report.Mismatches)
	}
}

func TestRecordHelpers(t *testing.T) {
	l, _ := newLedger(t)
	part := repotest.Part(t, l.db, "X", 0)
	if err := RecordCorrection(l.db, l.entries, part.ID, 3, 3, "noop"); err != nil {
		t.Fatal(err)
	}
	if err := RecordCorrection(l.db, l.entries, part.ID, 0, 4, "Catalog correction"); err != nil {
		t.Fatal(err)
	}
	var e inventoryEntity.Transaction
	if err := l.db.First(&e, "part_id = ?", part.ID).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if e.Type != inventoryEntity.TypeAdjust || e.Quantity != 4 {
		t.Errorf("entry = %+v", e)
	}
}
