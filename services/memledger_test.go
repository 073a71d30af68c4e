package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go-restaurant-pos/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memLedger is an in-memory Ledger used by the lifecycle tests. It
// honors the same contract as the mongo implementation: transactional
// mutations apply fully or not at all, and one open order per table.
type memLedger struct {
	tables   map[string]*models.Table
	orders   map[string]*models.Order
	items    map[string]*models.OrderItem
	products map[string]*models.Product
	payments []*models.Payment
}

func newMemLedger() *memLedger {
	return &memLedger{
		tables:   make(map[string]*models.Table),
		orders:   make(map[string]*models.Order),
		items:    make(map[string]*models.OrderItem),
		products: make(map[string]*models.Product),
	}
}

func (l *memLedger) addTable(name string) string {
	id := primitive.NewObjectID()
	table := &models.Table{
		ID:         id,
		Name:       &name,
		Created_at: time.Now().UTC(),
		Table_id:   id.Hex(),
	}
	l.tables[table.Table_id] = table
	return table.Table_id
}

func (l *memLedger) addProduct(name string, price float64, active bool) string {
	id := primitive.NewObjectID()
	product := &models.Product{
		ID:         id,
		Name:       &name,
		Price:      &price,
		Active:     active,
		Created_at: time.Now().UTC(),
		Product_id: id.Hex(),
	}
	l.products[product.Product_id] = product
	return product.Product_id
}

func (l *memLedger) GetTable(ctx context.Context, tableID string) (*models.Table, error) {
	table, ok := l.tables[tableID]
	if !ok {
		return nil, ErrNotFound
	}
	return table, nil
}

func (l *memLedger) FindOpenOrder(ctx context.Context, tableID string) (*models.Order, error) {
	for _, order := range l.orders {
		if order.Table_id != nil && *order.Table_id == tableID && order.Status == models.OrderOpen {
			return order, nil
		}
	}
	return nil, ErrNotFound
}

func (l *memLedger) InsertOrder(ctx context.Context, order *models.Order) error {
	if _, err := l.FindOpenOrder(ctx, *order.Table_id); err == nil {
		return fmt.Errorf("%w: open order for table %s", ErrConflict, *order.Table_id)
	}
	l.orders[order.Order_id] = order
	return nil
}

func (l *memLedger) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, ok := l.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	return order, nil
}

func (l *memLedger) GetActiveProduct(ctx context.Context, productID string) (*models.Product, error) {
	product, ok := l.products[productID]
	if !ok || !product.Active {
		return nil, ErrNotFound
	}
	return product, nil
}

func (l *memLedger) GetOrderItem(ctx context.Context, orderID, itemID string) (*models.OrderItem, error) {
	item, ok := l.items[itemID]
	if !ok || item.Order_id != orderID {
		return nil, ErrNotFound
	}
	return item, nil
}

func (l *memLedger) InsertItem(ctx context.Context, item *models.OrderItem, delta float64) error {
	order, ok := l.orders[item.Order_id]
	if !ok {
		return fmt.Errorf("%w: order %s", ErrNotFound, item.Order_id)
	}
	l.items[item.Order_item_id] = item
	order.Total = RoundCents(order.Total + delta)
	return nil
}

func (l *memLedger) DeleteItem(ctx context.Context, orderID, itemID string, delta float64) error {
	item, ok := l.items[itemID]
	if !ok || item.Order_id != orderID {
		return fmt.Errorf("%w: order item %s", ErrNotFound, itemID)
	}
	delete(l.items, itemID)
	if order, ok := l.orders[orderID]; ok {
		order.Total = RoundCents(order.Total - delta)
	}
	return nil
}

func (l *memLedger) InsertPayment(ctx context.Context, payment *models.Payment) error {
	l.payments = append(l.payments, payment)
	return nil
}

func (l *memLedger) PaymentsTotal(ctx context.Context, orderID string) (float64, error) {
	var paid float64
	for _, payment := range l.payments {
		if payment.Order_id == orderID {
			paid += *payment.Amount
		}
	}
	return RoundCents(paid), nil
}

func (l *memLedger) CloseOrder(ctx context.Context, orderID string, closedAt time.Time) error {
	order, ok := l.orders[orderID]
	if !ok {
		return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	at := closedAt
	order.Status = models.OrderClosed
	order.Closed_at = &at
	return nil
}

func (l *memLedger) MergeOrders(ctx context.Context, source, target *models.Order, closedAt time.Time) error {
	src, ok := l.orders[source.Order_id]
	if !ok {
		return fmt.Errorf("%w: order %s", ErrNotFound, source.Order_id)
	}
	dst, ok := l.orders[target.Order_id]
	if !ok {
		return fmt.Errorf("%w: order %s", ErrNotFound, target.Order_id)
	}
	for _, item := range l.items {
		if item.Order_id == src.Order_id {
			item.Order_id = dst.Order_id
		}
	}
	dst.Total = RoundCents(dst.Total + src.Total)
	at := closedAt
	src.Status = models.OrderMerged
	src.Closed_at = &at
	src.Merged_into = &dst.Order_id
	src.Total = 0
	return nil
}

func (l *memLedger) RelocateOrder(ctx context.Context, orderID, tableID string) error {
	order, ok := l.orders[orderID]
	if !ok {
		return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	moved := tableID
	order.Table_id = &moved
	return nil
}

func (l *memLedger) ListTableStatus(ctx context.Context) ([]models.TableStatus, error) {
	var statuses []models.TableStatus
	for _, table := range l.tables {
		status := models.TableStatus{
			Table_id: table.Table_id,
			Name:     *table.Name,
			Status:   "empty",
		}
		if order, err := l.FindOpenOrder(ctx, table.Table_id); err == nil {
			total := order.Total
			status.Status = "open"
			status.Open_order_id = &order.Order_id
			status.Open_total = &total
		}
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses, nil
}

func (l *memLedger) SalesSummary(ctx context.Context, from, until time.Time) (*SalesSummary, error) {
	summary := &SalesSummary{}
	seen := make(map[string]bool)
	for _, payment := range l.payments {
		if payment.Paid_at.Before(from) || !payment.Paid_at.Before(until) {
			continue
		}
		summary.Total_revenue = RoundCents(summary.Total_revenue + *payment.Amount)
		if !seen[payment.Order_id] {
			seen[payment.Order_id] = true
			summary.Order_count++
		}
	}
	return summary, nil
}

func (l *memLedger) ProductSales(ctx context.Context, from, until time.Time) ([]ProductSales, error) {
	byProduct := make(map[string]*ProductSales)
	for _, item := range l.items {
		order, ok := l.orders[item.Order_id]
		if !ok || order.Status != models.OrderClosed || order.Closed_at == nil {
			continue
		}
		if order.Closed_at.Before(from) || !order.Closed_at.Before(until) {
			continue
		}
		row, ok := byProduct[*item.Product_id]
		if !ok {
			row = &ProductSales{Product_id: *item.Product_id}
			if product, found := l.products[*item.Product_id]; found {
				row.Name = *product.Name
			}
			byProduct[*item.Product_id] = row
		}
		row.Quantity += int64(*item.Quantity)
		row.Revenue = RoundCents(row.Revenue + LineTotal(*item.Quantity, item.Price))
	}

	var rows []ProductSales
	for _, row := range byProduct {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Revenue > rows[j].Revenue })
	return rows, nil
}

// itemCount reports how many stored items belong to the given order.
func (l *memLedger) itemCount(orderID string) int {
	n := 0
	for _, item := range l.items {
		if item.Order_id == orderID {
			n++
		}
	}
	return n
}
