package services

import (
	"context"
	"time"

	"go-restaurant-pos/models"
)

// Ledger is the store contract the order engine runs on. Single reads
// and writes are atomic; the multi-statement mutations (InsertItem,
// DeleteItem, MergeOrders) must commit or roll back as one unit so a
// crash mid-operation cannot leave an order's total out of step with
// its items.
type Ledger interface {
	GetTable(ctx context.Context, tableID string) (*models.Table, error)

	// FindOpenOrder returns the table's open order, ErrNotFound when
	// the table has none.
	FindOpenOrder(ctx context.Context, tableID string) (*models.Order, error)

	// InsertOrder creates an order. Returns ErrConflict when the table
	// already holds an open order (lost find-or-create race).
	InsertOrder(ctx context.Context, order *models.Order) error

	GetOrder(ctx context.Context, orderID string) (*models.Order, error)

	// GetActiveProduct returns ErrNotFound for unknown and deactivated
	// products alike.
	GetActiveProduct(ctx context.Context, productID string) (*models.Product, error)

	GetOrderItem(ctx context.Context, orderID, itemID string) (*models.OrderItem, error)

	// InsertItem stores the item and increments its order's total by
	// delta in one transaction.
	InsertItem(ctx context.Context, item *models.OrderItem, delta float64) error

	// DeleteItem removes the item and decrements its order's total by
	// delta in one transaction. ErrNotFound when the item is already
	// gone; the total is left untouched in that case.
	DeleteItem(ctx context.Context, orderID, itemID string, delta float64) error

	InsertPayment(ctx context.Context, payment *models.Payment) error

	// PaymentsTotal sums the recorded payments of an order.
	PaymentsTotal(ctx context.Context, orderID string) (float64, error)

	CloseOrder(ctx context.Context, orderID string, closedAt time.Time) error

	// MergeOrders re-parents every item of source onto target, adds
	// source's total onto target's, and retires source with status
	// merged pointing at target — all in one transaction.
	MergeOrders(ctx context.Context, source, target *models.Order, closedAt time.Time) error

	// RelocateOrder re-points an order at another table.
	RelocateOrder(ctx context.Context, orderID, tableID string) error

	ListTableStatus(ctx context.Context) ([]models.TableStatus, error)

	// SalesSummary aggregates payments with paid_at in [from, until).
	SalesSummary(ctx context.Context, from, until time.Time) (*SalesSummary, error)

	// ProductSales aggregates items of closed orders whose closed_at
	// falls in [from, until), grouped by product, revenue descending.
	ProductSales(ctx context.Context, from, until time.Time) ([]ProductSales, error)
}
