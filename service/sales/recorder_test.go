package sales

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"

	"repairshop.GO/core/apperror"
	inventoryEntity "repairshop.GO/model/entity/inventory"
	salesEntity "repairshop.GO/model/entity/sales"
	"repairshop.GO/model/repository"
	salesRepo "repairshop.GO/model/repository/sales"
	"repairshop.GO/model/repository/repotest"
	"repairshop.GO/service/inventory"
	"repairshop.GO/service/notify"
)

func newRecorder(t *testing.T) (*Recorder, *notify.Recorder) {
	t.Helper()
	db := repotest.Open(t)
	rec := &notify.Recorder{}
	log, _ := test.NewNullLogger()
	r, err := NewRecorder(db, rec, log, "US")
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	return r, rec
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(partID string, qty int, unit string) ItemInput {
	u := dec(unit)
	return ItemInput{PartID: partID, Quantity: qty, UnitPrice: u, TotalPrice: u.Mul(decimal.NewFromInt(int64(qty)))}
}

func TestRecord_DecrementsStockAndWritesLedger(t *testing.T) {
	r, rec := newRecorder(t)
	part := repotest.Part(t, r.db, "SCR-IP13", 5)
	name := "Jane Doe"

	sale, err := r.Record(context.Background(), RecordInput{
		CustomerName:  &name,
		PaymentMethod: salesEntity.PaymentCash,
		Discount:      dec("5"),
		Items:         []ItemInput{item(part.ID, 2, "50")},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !sale.TotalAmount.Equal(dec("100")) || !sale.FinalAmount.Equal(dec("95")) {
		t.Errorf("amounts = %s / %s", sale.TotalAmount, sale.FinalAmount)
	}
	if sale.Status != salesEntity.StatusCompleted {
		t.Errorf("status = %s", sale.Status)
	}
	if len(sale.Items) != 1 || sale.Items[0].Part == nil || sale.Items[0].Part.SKU != "SCR-IP13" {
		t.Errorf("items = %+v", sale.Items)
	}
	if got := repotest.Stock(t, r.db, part.ID); got != 3 {
		t.Errorf("stock = %d, want 3", got)
	}

	var entries []inventoryEntity.Transaction
	r.db.Where("sale_id = ?", sale.ID).Find(&entries)
	if len(entries) != 1 {
		t.Fatalf("sale entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Type != inventoryEntity.TypeSale || e.Quantity != 2 || e.Reason == nil || *e.Reason != "Sale #"+sale.Reference() {
		t.Errorf("entry = %+v", e)
	}
	if len(rec.Changed) != 1 || rec.Changed[0] != part.ID {
		t.Errorf("notified = %v", rec.Changed)
	}
}

func TestRecord_IsAllOrNothing(t *testing.T) {
	r, _ := newRecorder(t)
	a := repotest.Part(t, r.db, "A", 5)
	b := repotest.Part(t, r.db, "B", 2)

	_, err := r.Record(context.Background(), RecordInput{
		PaymentMethod: salesEntity.PaymentCard,
		Items:         []ItemInput{item(a.ID, 1, "10"), item(b.ID, 10, "10")},
	})
	if !apperror.Is(err, apperror.KindInsufficientStock) {
		t.Fatalf("err = %v, want insufficient stock", err)
	}
	if !strings.Contains(err.Error(), "Available: 2, Requested: 10") {
		t.Errorf("message = %q", err.Error())
	}
	d, _ := apperror.Details(err).(apperror.StockDetails)
	if d.PartID != b.ID || d.Available != 2 || d.Requested != 10 {
		t.Errorf("details = %+v", apperror.Details(err))
	}

	if got := repotest.Stock(t, r.db, a.ID); got != 5 {
		t.Errorf("stock A = %d, want 5", got)
	}
	var sales, items, entries int64
	r.db.Model(&salesEntity.Sale{}).Count(&sales)
	r.db.Model(&salesEntity.SaleItem{}).Count(&items)
	r.db.Model(&inventoryEntity.Transaction{}).Where("type = ?", inventoryEntity.TypeSale).Count(&entries)
	if sales != 0 || items != 0 || entries != 0 {
		t.Errorf("leftovers: sales=%d items=%d entries=%d", sales, items, entries)
	}
}

func TestRecord_ReloadFailureRollsBack(t *testing.T) {
	r, rec := newRecorder(t)
	part := repotest.Part(t, r.db, "BAT-S9", 4)

	const hook = "test:fail_sale_reload"
	err := r.db.Callback().Query().Before("gorm:query").Register(hook, func(tx *gorm.DB) {
		if tx.Statement.Table == "sales" {
			_ = tx.AddError(errors.New("connection reset"))
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.Record(context.Background(), RecordInput{
		PaymentMethod: salesEntity.PaymentCard,
		Items:         []ItemInput{item(part.ID, 3, "20")},
	})
	if err == nil || apperror.Status(err) != 500 {
		t.Fatalf("err = %v, want internal", err)
	}
	if err := r.db.Callback().Query().Remove(hook); err != nil {
		t.Fatal(err)
	}

	if got := repotest.Stock(t, r.db, part.ID); got != 4 {
		t.Errorf("stock = %d, want 4", got)
	}
	var sales, saleEntries int64
	r.db.Model(&salesEntity.Sale{}).Count(&sales)
	r.db.Model(&inventoryEntity.Transaction{}).Where("type = ?", inventoryEntity.TypeSale).Count(&saleEntries)
	if sales != 0 || saleEntries != 0 {
		t.Errorf("sales = %d, sale entries = %d, want none", sales, saleEntries)
	}
	if len(rec.Changed) != 0 {
		t.Errorf("notified = %v", rec.Changed)
	}
}

func TestRecord_AggregatesRepeatedParts(t *testing.T) {
	r, _ := newRecorder(t)
	a := repotest.Part(t, r.db, "A", 3)

	_, err := r.Record(context.Background(), RecordInput{
		PaymentMethod: salesEntity.PaymentCash,
		Items:         []ItemInput{item(a.ID, 2, "10"), item(a.ID, 2, "10")},
	})
	if !apperror.Is(err, apperror.KindInsufficientStock) {
		t.Fatalf("err = %v, want insufficient stock", err)
	}
	if got := repotest.Stock(t, r.db, a.ID); got != 3 {
		t.Errorf("stock = %d, want 3", got)
	}
}

func TestRecord_Validation(t *testing.T) {
	r, _ := newRecorder(t)
	a := repotest.Part(t, r.db, "A", 3)
	bad := "not-an-email"
	ctx := context.Background()

	cases := map[string]RecordInput{
		"no items":       {PaymentMethod: salesEntity.PaymentCash},
		"bad method":     {PaymentMethod: "BARTER", Items: []ItemInput{item(a.ID, 1, "10")}},
		"zero quantity":  {PaymentMethod: salesEntity.PaymentCash, Items: []ItemInput{{PartID: a.ID, Quantity: 0, UnitPrice: dec("1"), TotalPrice: dec("1")}}},
		"bad email":      {PaymentMethod: salesEntity.PaymentCash, CustomerEmail: &bad, Items: []ItemInput{item(a.ID, 1, "10")}},
		"negative disc":  {PaymentMethod: salesEntity.PaymentCash, Discount: dec("-1"), Items: []ItemInput{item(a.ID, 1, "10")}},
		"disc over sale": {PaymentMethod: salesEntity.PaymentCash, Discount: dec("11"), Items: []ItemInput{item(a.ID, 1, "10")}},
	}
	for name, in := range cases {
		if _, err := r.Record(ctx, in); !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("%s: err = %v, want validation", name, err)
		}
	}

	_, err := r.Record(ctx, RecordInput{PaymentMethod: salesEntity.PaymentCash, Items: []ItemInput{item("ghost", 1, "10")}})
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Errorf("unknown part: err = %v", err)
	}
}

func TestRecord_NormalizesPhone(t *testing.T) {
	r, _ := newRecorder(t)
	a := repotest.Part(t, r.db, "A", 3)
	phone := "(415) 555-2671"

	sale, err := r.Record(context.Background(), RecordInput{
		CustomerPhone: &phone,
		PaymentMethod: salesEntity.PaymentOnline,
		Items:         []ItemInput{item(a.ID, 1, "10")},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if sale.CustomerPhone == nil || *sale.CustomerPhone != "+14155552671" {
		t.Errorf("phone = %v", sale.CustomerPhone)
	}
}

func TestReverse_RestoresStockAndLedger(t *testing.T) {
	r, rec := newRecorder(t)
	a := repotest.Part(t, r.db, "A", 5)
	b := repotest.Part(t, r.db, "B", 4)
	ctx := context.Background()

	sale, err := r.Record(ctx, RecordInput{
		PaymentMethod: salesEntity.PaymentCash,
		Items:         []ItemInput{item(a.ID, 2, "10"), item(b.ID, 1, "20"), item(a.ID, 1, "10")},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	rec.Changed = nil

	rev, err := r.Reverse(ctx, sale.ID)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if rev.RestoredStock[a.ID] != 3 || rev.RestoredStock[b.ID] != 1 || rev.EntriesRemoved != 3 {
		t.Errorf("reversal = %+v", rev)
	}
	if got := repotest.Stock(t, r.db, a.ID); got != 5 {
		t.Errorf("stock A = %d, want 5", got)
	}
	if got := repotest.Stock(t, r.db, b.ID); got != 4 {
		t.Errorf("stock B = %d, want 4", got)
	}
	if len(rec.Changed) != 2 {
		t.Errorf("notified = %v", rec.Changed)
	}

	report, err := inventory.Verify(ctx, r.db, "")
	if err != nil || !report.OK() {
		t.Errorf("verify after reversal: %+v, %v", report, err)
	}

	if _, err := r.Get(ctx, sale.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Errorf("get reversed sale: err = %v", err)
	}
	if _, err := r.Reverse(ctx, sale.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Errorf("second reverse: err = %v", err)
	}
}

func TestList_Filters(t *testing.T) {
	r, _ := newRecorder(t)
	a := repotest.Part(t, r.db, "SCREEN-X", 10)
	ctx := context.Background()
	alice, bob := "Alice", "Bob"
	r.Record(ctx, RecordInput{CustomerName: &alice, PaymentMethod: salesEntity.PaymentCash, Items: []ItemInput{item(a.ID, 1, "10")}})
	r.Record(ctx, RecordInput{CustomerName: &bob, PaymentMethod: salesEntity.PaymentCard, Items: []ItemInput{item(a.ID, 3, "10")}})

	list, page, err := r.List(ctx, salesRepo.Filter{Query: "alice"}, repository.Page{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || page.TotalCount != 1 || *list[0].CustomerName != "Alice" {
		t.Errorf("query filter: %d sales, %+v", len(list), page)
	}

	list, _, _ = r.List(ctx, salesRepo.Filter{PaymentMethod: salesEntity.PaymentCard}, repository.Page{Page: 1, Limit: 20})
	if len(list) != 1 || list[0].PaymentMethod != salesEntity.PaymentCard {
		t.Errorf("method filter: %+v", list)
	}

	min := dec("20")
	list, _, _ = r.List(ctx, salesRepo.Filter{MinAmount: &min}, repository.Page{Page: 1, Limit: 20})
	if len(list) != 1 || !list[0].FinalAmount.Equal(dec("30")) {
		t.Errorf("amount filter: %+v", list)
	}

	list, _, _ = r.List(ctx, salesRepo.Filter{Query: "screen"}, repository.Page{Page: 1, Limit: 20})
	if len(list) != 2 {
		t.Errorf("part name filter: %d sales", len(list))
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+1 650-253-0000":  "+16502530000",
		"not a phone":      "not a phone",
		"  ":               "",
	}
	for in, want := range cases {
		if got := NormalizePhone(in, "US"); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}
