package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-restaurant-pos/models"
)

func newTestLifecycle() (*OrderLifecycle, *memLedger) {
	ledger := newMemLedger()
	return NewOrderLifecycle(ledger), ledger
}

// sumOfItems recomputes an order's total from its stored items, the
// value the denormalized total must always match.
func sumOfItems(ledger *memLedger, orderID string) float64 {
	var total float64
	for _, item := range ledger.items {
		if item.Order_id == orderID {
			total += LineTotal(*item.Quantity, item.Price)
		}
	}
	return RoundCents(total)
}

func today() (time.Time, time.Time) {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	return day, day
}

func TestFindOrCreateOrder(t *testing.T) {
	ctx := context.Background()
	lifecycle, ledger := newTestLifecycle()
	tableID := ledger.addTable("T1")

	if _, err := lifecycle.FindOrCreateOrder(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty table id: got %v, want ErrInvalidInput", err)
	}
	if _, err := lifecycle.FindOrCreateOrder(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown table: got %v, want ErrNotFound", err)
	}

	order, err := lifecycle.FindOrCreateOrder(ctx, tableID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.Status != models.OrderOpen || order.Total != 0 {
		t.Fatalf("new order: status=%s total=%v, want open order with zero total", order.Status, order.Total)
	}

	again, err := lifecycle.FindOrCreateOrder(ctx, tableID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if again.Order_id != order.Order_id {
		t.Fatalf("find-or-create not idempotent: got %s, want %s", again.Order_id, order.Order_id)
	}

	if err := lifecycle.CloseOrder(ctx, order.Order_id); err != nil {
		t.Fatalf("close: %v", err)
	}
	fresh, err := lifecycle.FindOrCreateOrder(ctx, tableID)
	if err != nil {
		t.Fatalf("create after close: %v", err)
	}
	if fresh.Order_id == order.Order_id {
		t.Fatal("expected a new order after the previous one closed")
	}
}

// racingLedger loses the find-or-create race on purpose: a competing
// open order appears between the lookup and the insert.
type racingLedger struct {
	*memLedger
	winner *models.Order
}

func (l *racingLedger) InsertOrder(ctx context.Context, order *models.Order) error {
	if l.winner != nil {
		l.memLedger.orders[l.winner.Order_id] = l.winner
		l.winner = nil
	}
	return l.memLedger.InsertOrder(ctx, order)
}

func TestFindOrCreateOrderLostRace(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	tableID := ledger.addTable("T1")

	winner := &models.Order{
		Table_id:  &tableID,
		Status:    models.OrderOpen,
		Opened_at: time.Now().UTC(),
		Order_id:  "winner",
	}
	lifecycle := NewOrderLifecycle(&racingLedger{memLedger: ledger, winner: winner})

	order, err := lifecycle.FindOrCreateOrder(ctx, tableID)
	if err != nil {
		t.Fatalf("find-or-create under race: %v", err)
	}
	if order.Order_id != "winner" {
		t.Fatalf("lost race must return the winner's order, got %s", order.Order_id)
	}
	if n := len(ledger.orders); n != 1 {
		t.Fatalf("duplicate open orders after race: %d", n)
	}
}

func TestAddItemValidation(t *testing.T) {
	ctx := context.Background()
	lifecycle, ledger := newTestLifecycle()
	tableID := ledger.addTable("T1")
	productID := ledger.addProduct("Espresso", 2.50, true)
	inactiveID := ledger.addProduct("Retired blend", 3.00, false)
	order, _ := lifecycle.FindOrCreateOrder(ctx, tableID)

	tests := []struct {
		name      string
		orderID   string
		productID string
		qty       int
		wantErr   error
	}{
		{"zero quantity", order.Order_id, productID, 0, ErrInvalidInput},
		{"negative quantity", order.Order_id, productID, -2, ErrInvalidInput},
		{"missing product id", order.Order_id, "", 1, ErrInvalidInput},
		{"unknown product", order.Order_id, "nope", 1, ErrNotFound},
		{"inactive product", order.Order_id, inactiveID, 1, ErrNotFound},
		{"unknown order", "nope", productID, 1, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := lifecycle.AddItem(ctx, tt.orderID, tt.productID, tt.qty); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddItem() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if got := sumOfItems(ledger, order.Order_id); got != 0 {
		t.Fatalf("failed adds must leave no items behind, got sum %v", got)
	}
}

func TestTotalInvariant(t *testing.T) {
	ctx := context.Background()
	lifecycle, ledger := newTestLifecycle()
	tableID := ledger.addTable("T1")
	coffee := ledger.addProduct("Coffee", 3.30, true)
	cake := ledger.addProduct("Cheesecake", 7.45, true)
	order, _ := lifecycle.FindOrCreateOrder(ctx, tableID)

	check := func(step string) {
		t.Helper()
		current, _ := ledger.GetOrder(ctx, order.Order_id)
		if want := sumOfItems(ledger, order.Order_id); current.Total != want {
			t.Fatalf("%s: total %v drifted from item sum %v", step, current.Total, want)
		}
	}

	first, err := lifecycle.AddItem(ctx, order.Order_id, coffee, 2)
	if err != nil {
		t.Fatalf("add coffee: %v", err)
	}
	check("after first add")

	if _, err := lifecycle.AddItem(ctx, order.Order_id, cake, 3); err != nil {
		t.Fatalf("add cake: %v", err)
	}
	check("after second add")

	if err := lifecycle.RemoveItem(ctx, order.Order_id, first.Order_item_id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	check("after remove")

	// Many small lines must not accumulate rounding error.
	mint := ledger.addProduct("Mint", 0.10, true)
	for i := 0; i < 250; i++ {
		if _, err := lifecycle.AddItem(ctx, order.Order_id, mint, 3); err != nil {
			t.Fatalf("add mint %d: %v", i, err)
		}
	}
	check("after 250 small adds")
	current, _ := ledger.GetOrder(ctx, order.Order_id)
	if want := RoundCents(7.45*3 + 0.30*250); current.Total != want {
		t.Fatalf("total = %v, want exactly %v", current.Total, want)
	}
}

func TestPriceSnapshot(t *testing.T) {
	ctx := context.Background()
	lifecycle, ledger := newTestLifecycle()
	tableID := ledger.addTable("T1")
	productID := ledger.addProduct("Latte", 4.50, true)
	order, _ := lifecycle.FindOrCreateOrder(ctx, tableID)

	item, err := lifecycle.AddItem(ctx, order.Order_id, productID, 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	newPrice := 9.99
	ledger.products[productID].Price = &newPrice

	stored := ledger.items[item.Order_item_id]
	if stored.Price != 4.50 {
		t.Fatalf("item price changed to %v after product edit", stored.Price)
	}
	current, _ := ledger.GetOrder(ctx, order.Order_id)
	if current.Total != 9.00 {
		t.Fatalf("total %v recomputed from edited price, want 9.00", current.Total)
	}

	// New items pick up the edited price.
	second, err := lifecycle.AddItem(ctx, order.Order_id, productID, 1)
	if err != nil {
		t.Fatalf("add after edit: %v", err)
	}
	if second.Price != 9.99 {
		t.Fatalf("new item price = %v, want 9.99", second.Price)
	}
}

func TestRemoveItemTwice(t *testing.T) {
	ctx := context.Background()
	lifecycle, ledger := newTestLifecycle()
	tableID := ledger.addTable("T1")
	productID := ledger.addProduct("Tea", 2.00, true)
	order, _ := lifecycle.FindOrCreateOrder(ctx, tableID)

	if _, err := lifecycle.AddItem(ctx, order.Order_id, productID, 1); err != nil {
		t.Fatal(err)
	}
	item, _ := lifecycle.AddItem(ctx, order.Order_id, productID, 3)

	if err := lifecycle.RemoveItem(ctx, order.Order_id, item.Order_item_id); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	afterFirst, _ := ledger.GetOrder(ctx, order.Order_id)

	if err := lifecycle.RemoveItem(ctx, order.Order_id, item.Order_item_id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second remove: got %v, want ErrNotFound", err)
	}
	afterSecond, _ := ledger.GetOrder(ctx, order.Order_id)
	if afterSecond.Total != afterFirst.Total {
		t.Fatalf("total changed on failed remove: %v -> %v", afterFirst.Total, afterSecond.Total)
	}
	if afterSecond.Total != 2.00 {
		t.Fatalf("total = %v, want 2.00", afterSecond.Total)
	}
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()
	lifecycle, ledger := newTestLifecycle()
	tableID := ledger.addTable("T1")
	order, _ := lifecycle.FindOrCreateOrder(ctx, tableID)

	tests := []struct {
		name    string
		orderID string
		method  string
		amount  float64
		wantErr error
	}{
		{"missing method", order.Order_id, "", 10, ErrInvalidInput},
		{"zero amount", order.Order_id, "cash", 0, ErrInvalidInput},
		{"negative amount", order.Order_id, "cash", -5, ErrInvalidInput},
		{"unknown order", "nope", "cash", 10, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := lifecycle.RecordPayment(ctx, tt.orderID, tt.method, tt.amount); !errors.Is(err, tt.wantErr) {
				t.Errorf("RecordPayment() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Split payment: several payments attach to one order and never
	// close it by themselves.
	if _, err := lifecycle.RecordPayment(ctx, order.Order_id, "cash", 12.345); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if _, err := lifecycle.RecordPayment(ctx, order.Order_id, "card", 7.66); err != nil {
		t.Fatalf("second payment: %v", err)
	}
	paid, _ := ledger.PaymentsTotal(ctx, order.Order_id)
	if paid != 20.01 {
		t.Fatalf("payments total = %v, want 20.01 (amounts rounded to cents)", paid)
	}
	current, _ := ledger.GetOrder(ctx, order.Order_id)
	if current.Status != models.OrderOpen {
		t.Fatalf("payment must not close the order, status = %s", current.Status)
	}
}

func TestCloseOrder(t *testing.T) {
	ctx := context.Background()
	lifecycle, ledger := newTestLifecycle()
	tableID := ledger.addTable("T1")
	order, _ := lifecycle.FindOrCreateOrder(ctx, tableID)

	if err := lifecycle.CloseOrder(ctx, order.Order_id); err != nil {
		t.Fatalf("close: %v", err)
	}
	closed, _ := ledger.GetOrder(ctx, order.Order_id)
	if closed.Status != models.OrderClosed || closed.Closed_at == nil {
		t.Fatalf("close did not stamp the order: status=%s closed_at=%v", closed.Status, closed.Closed_at)
	}

	// Re-closing only refreshes the stamp.
	if err := lifecycle.CloseOrder(ctx, order.Order_id); err != nil {
		t.Fatalf("re-close: %v", err)
	}

	statuses, _ := lifecycle.TableStatuses(ctx)
	for _, status := range statuses {
		if status.Table_id == tableID && status.Status != "empty" {
			t.Fatalf("closed order still shows on the table listing: %+v", status)
		}
	}

	if err := lifecycle.CloseOrder(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("close unknown order: got %v, want ErrNotFound", err)
	}
}

func TestMergeIntoExistingOrder(t *testing.T) {
	ctx := context.Background()
	lifecycle, ledger := newTestLifecycle()
	tableA := ledger.addTable("A")
	tableB := ledger.addTable("B")
	steak := ledger.addProduct("Steak", 25.00, true)
	wine := ledger.addProduct("Wine", 30.00, true)

	orderA, _ := lifecycle.FindOrCreateOrder(ctx, tableA)
	if _, err := lifecycle.AddItem(ctx, orderA.Order_id, steak, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := lifecycle.AddItem(ctx, orderA.Order_id, steak, 1); err != nil {
		t.Fatal(err)
	}
	orderB, _ := lifecycle.FindOrCreateOrder(ctx, tableB)
	if _, err := lifecycle.AddItem(ctx, orderB.Order_id, wine, 1); err != nil {
		t.Fatal(err)
	}

	outcome, err := lifecycle.MergeTables(ctx, tableA, tableB)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if outcome.Result != MergedIntoExisting {
		t.Fatalf("outcome = %s, want %s", outcome.Result, MergedIntoExisting)
	}
	if outcome.Order_id != orderB.Order_id || outcome.Total != 80.00 {
		t.Fatalf("outcome = %+v, want order %s with total 80.00", outcome, orderB.Order_id)
	}

	if n := ledger.itemCount(orderB.Order_id); n != 3 {
		t.Fatalf("target order has %d items, want 3", n)
	}
	mergedB, _ := ledger.GetOrder(ctx, orderB.Order_id)
	if mergedB.Total != 80.00 {
		t.Fatalf("target total = %v, want 80.00", mergedB.Total)
	}

	retired, _ := ledger.GetOrder(ctx, orderA.Order_id)
	if retired.Status != models.OrderMerged {
		t.Fatalf("source status = %s, want merged", retired.Status)
	}
	if retired.Merged_into == nil || *retired.Merged_into != orderB.Order_id {
		t.Fatalf("source merged_into = %v, want %s", retired.Merged_into, orderB.Order_id)
	}
	if retired.Closed_at == nil {
		t.Fatal("source merge left no closed_at stamp")
	}

	// The retired order contributes nothing to open listings.
	statuses, _ := lifecycle.TableStatuses(ctx)
	for _, status := range statuses {
		if status.Table_id == tableA && status.Status != "empty" {
			t.Fatalf("source table still lists an open order: %+v", status)
		}
		if status.Table_id == tableB {
			if status.Open_total == nil || *status.Open_total != 80.00 {
				t.Fatalf("target table open total = %v, want 80.00", status.Open_total)
			}
		}
	}

	// Closed-order revenue reports see the surviving order only.
	if err := lifecycle.CloseOrder(ctx, orderB.Order_id); err != nil {
		t.Fatal(err)
	}
	from, to := today()
	rows, err := lifecycle.ProductSales(ctx, from, to)
	if err != nil {
		t.Fatal(err)
	}
	var revenue float64
	for _, row := range rows {
		revenue += row.Revenue
	}
	if revenue != 80.00 {
		t.Fatalf("report revenue = %v, want 80.00 with no double counting", revenue)
	}
}

func TestMergeIntoEmptyTable(t *testing.T) {
	ctx := context.Background()
	lifecycle, ledger := newTestLifecycle()
	tableA := ledger.addTable("A")
	tableB := ledger.addTable("B")
	soup := ledger.addProduct("Soup", 6.50, true)

	orderA, _ := lifecycle.FindOrCreateOrder(ctx, tableA)
	if _, err := lifecycle.AddItem(ctx, orderA.Order_id, soup, 2); err != nil {
		t.Fatal(err)
	}

	outcome, err := lifecycle.MergeTables(ctx, tableA, tableB)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if outcome.Result != RelocatedToEmptyTable {
		t.Fatalf("outcome = %s, want %s", outcome.Result, RelocatedToEmptyTable)
	}
	if outcome.Order_id != orderA.Order_id || outcome.Total != 13.00 {
		t.Fatalf("outcome = %+v, want relocated order %s with total 13.00", outcome, orderA.Order_id)
	}

	moved, _ := ledger.GetOrder(ctx, orderA.Order_id)
	if *moved.Table_id != tableB || moved.Status != models.OrderOpen {
		t.Fatalf("order after relocation: table=%s status=%s", *moved.Table_id, moved.Status)
	}

	statuses, _ := lifecycle.TableStatuses(ctx)
	for _, status := range statuses {
		switch status.Table_id {
		case tableA:
			if status.Status != "empty" {
				t.Fatalf("source table should be empty, got %+v", status)
			}
		case tableB:
			if status.Open_total == nil || *status.Open_total != 13.00 {
				t.Fatalf("target table open total = %v, want 13.00", status.Open_total)
			}
		}
	}
}

func TestMergeTablesErrors(t *testing.T) {
	ctx := context.Background()
	lifecycle, ledger := newTestLifecycle()
	tableA := ledger.addTable("A")
	tableB := ledger.addTable("B")

	if _, err := lifecycle.MergeTables(ctx, tableA, tableA); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("self merge: got %v, want ErrInvalidInput", err)
	}
	if _, err := lifecycle.MergeTables(ctx, tableA, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown target: got %v, want ErrNotFound", err)
	}
	if _, err := lifecycle.MergeTables(ctx, tableA, tableB); !errors.Is(err, ErrNotFound) {
		t.Fatalf("no open order on source: got %v, want ErrNotFound", err)
	}
}

func TestProductSalesReport(t *testing.T) {
	ctx := context.Background()
	lifecycle, ledger := newTestLifecycle()
	tableA := ledger.addTable("A")
	tableB := ledger.addTable("B")
	tableC := ledger.addTable("C")
	pasta := ledger.addProduct("Pasta", 10.00, true)

	// Closed order: qty 2 at 10.00 plus qty 1 at 5.00 after a price
	// edit — the report counts the snapshots, qty 3 revenue 25.
	order, _ := lifecycle.FindOrCreateOrder(ctx, tableA)
	if _, err := lifecycle.AddItem(ctx, order.Order_id, pasta, 2); err != nil {
		t.Fatal(err)
	}
	cheaper := 5.00
	ledger.products[pasta].Price = &cheaper
	if _, err := lifecycle.AddItem(ctx, order.Order_id, pasta, 1); err != nil {
		t.Fatal(err)
	}
	if err := lifecycle.CloseOrder(ctx, order.Order_id); err != nil {
		t.Fatal(err)
	}

	// A merged order in the same range contributes nothing directly:
	// its items now belong to the surviving order, which stays open.
	orderB, _ := lifecycle.FindOrCreateOrder(ctx, tableB)
	if _, err := lifecycle.AddItem(ctx, orderB.Order_id, pasta, 4); err != nil {
		t.Fatal(err)
	}
	if _, err := lifecycle.FindOrCreateOrder(ctx, tableC); err != nil {
		t.Fatal(err)
	}
	outcome, err := lifecycle.MergeTables(ctx, tableB, tableC)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Result != MergedIntoExisting {
		t.Fatalf("outcome = %s, want %s", outcome.Result, MergedIntoExisting)
	}

	from, to := today()
	rows, err := lifecycle.ProductSales(ctx, from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("report rows = %d, want 1 (open and merged orders excluded)", len(rows))
	}
	if rows[0].Quantity != 3 || rows[0].Revenue != 25.00 {
		t.Fatalf("report row = %+v, want qty 3 revenue 25.00", rows[0])
	}
	if rows[0].Name != "Pasta" {
		t.Fatalf("report row name = %q, want Pasta", rows[0].Name)
	}

	if _, err := lifecycle.ProductSales(ctx, to.Add(24*time.Hour), from); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("inverted range: got %v, want ErrInvalidInput", err)
	}
}

func TestSalesSummary(t *testing.T) {
	ctx := context.Background()
	lifecycle, ledger := newTestLifecycle()
	tableID := ledger.addTable("T1")
	order, _ := lifecycle.FindOrCreateOrder(ctx, tableID)

	if _, err := lifecycle.RecordPayment(ctx, order.Order_id, "cash", 15.00); err != nil {
		t.Fatal(err)
	}
	if _, err := lifecycle.RecordPayment(ctx, order.Order_id, "card", 5.00); err != nil {
		t.Fatal(err)
	}

	// A payment outside the range is ignored.
	stale := &models.Payment{Order_id: "other"}
	method, amount := "cash", 99.0
	stale.Method, stale.Amount = &method, &amount
	stale.Paid_at = time.Now().UTC().AddDate(0, 0, -7)
	if err := ledger.InsertPayment(ctx, stale); err != nil {
		t.Fatal(err)
	}

	from, to := today()
	summary, err := lifecycle.SalesSummary(ctx, from, to)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Order_count != 1 {
		t.Fatalf("order count = %d, want 1 distinct order", summary.Order_count)
	}
	if summary.Total_revenue != 20.00 {
		t.Fatalf("revenue = %v, want 20.00", summary.Total_revenue)
	}
}
