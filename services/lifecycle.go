package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-restaurant-pos/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MergeResult discriminates the two merge outcomes so callers can word
// the confirmation accordingly.
type MergeResult string

const (
	MergedIntoExisting    MergeResult = "merged_into_existing"
	RelocatedToEmptyTable MergeResult = "relocated_to_empty_table"
)

type MergeOutcome struct {
	Result   MergeResult `json:"result"`
	Order_id string      `json:"order_id"`
	Total    float64     `json:"total"`
}

// OrderLifecycle owns the open/closed/merged transitions of orders and
// keeps each order's denormalized total equal to the sum of qty*price
// over its items at every mutation.
type OrderLifecycle struct {
	ledger Ledger
}

func NewOrderLifecycle(ledger Ledger) *OrderLifecycle {
	return &OrderLifecycle{ledger: ledger}
}

// FindOrCreateOrder returns the table's open order, creating one with
// a zero total when the table has none. A lost race against a
// concurrent create surfaces as ErrConflict from the store's partial
// unique index and resolves by re-reading the winner.
func (s *OrderLifecycle) FindOrCreateOrder(ctx context.Context, tableID string) (*models.Order, error) {
	if tableID == "" {
		return nil, fmt.Errorf("%w: table_id is required", ErrInvalidInput)
	}
	if _, err := s.ledger.GetTable(ctx, tableID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: table %s", ErrNotFound, tableID)
		}
		return nil, err
	}

	order, err := s.ledger.FindOpenOrder(ctx, tableID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	order = &models.Order{
		ID:         primitive.NewObjectID(),
		Table_id:   &tableID,
		Status:     models.OrderOpen,
		Total:      0,
		Opened_at:  now,
		Updated_at: now,
	}
	order.Order_id = order.ID.Hex()

	err = s.ledger.InsertOrder(ctx, order)
	if errors.Is(err, ErrConflict) {
		return s.ledger.FindOpenOrder(ctx, tableID)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AddItem inserts an order item carrying a snapshot of the product's
// current price and increments the order total by the item's rounded
// qty*price. Insert and increment commit together.
func (s *OrderLifecycle) AddItem(ctx context.Context, orderID, productID string, qty int) (*models.OrderItem, error) {
	if orderID == "" || productID == "" {
		return nil, fmt.Errorf("%w: order_id and product_id are required", ErrInvalidInput)
	}
	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidInput)
	}

	if _, err := s.ledger.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	product, err := s.ledger.GetActiveProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: product %s is unknown or inactive", ErrNotFound, productID)
		}
		return nil, err
	}

	price := RoundCents(*product.Price)
	item := &models.OrderItem{
		ID:         primitive.NewObjectID(),
		Order_id:   orderID,
		Product_id: &productID,
		Quantity:   &qty,
		Price:      price,
		Created_at: time.Now().UTC(),
	}
	item.Order_item_id = item.ID.Hex()

	if err := s.ledger.InsertItem(ctx, item, LineTotal(qty, price)); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes an item and decrements the order total by the
// item's qty*price. Delete and decrement commit together, so removing
// the same item twice fails with ErrNotFound and leaves the total
// unchanged.
func (s *OrderLifecycle) RemoveItem(ctx context.Context, orderID, itemID string) error {
	if orderID == "" || itemID == "" {
		return fmt.Errorf("%w: order_id and item_id are required", ErrInvalidInput)
	}

	item, err := s.ledger.GetOrderItem(ctx, orderID, itemID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: order item %s", ErrNotFound, itemID)
		}
		return err
	}

	return s.ledger.DeleteItem(ctx, orderID, itemID, LineTotal(*item.Quantity, item.Price))
}

// RecordPayment appends a payment to the order. The sum of payments is
// a recorded fact, not reconciled against the order total.
func (s *OrderLifecycle) RecordPayment(ctx context.Context, orderID, method string, amount float64) (*models.Payment, error) {
	if orderID == "" || method == "" {
		return nil, fmt.Errorf("%w: order_id and method are required", ErrInvalidInput)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	if _, err := s.ledger.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}

	rounded := RoundCents(amount)
	payment := &models.Payment{
		ID:       primitive.NewObjectID(),
		Order_id: orderID,
		Method:   &method,
		Amount:   &rounded,
		Paid_at:  time.Now().UTC(),
	}
	payment.Payment_id = payment.ID.Hex()

	if err := s.ledger.InsertPayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// CloseOrder stamps the order closed. Re-closing only refreshes
// closed_at. A mismatch between recorded payments and the order total
// is logged but does not block the close.
func (s *OrderLifecycle) CloseOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return fmt.Errorf("%w: order_id is required", ErrInvalidInput)
	}

	order, err := s.ledger.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	paid, err := s.ledger.PaymentsTotal(ctx, orderID)
	if err == nil && RoundCents(paid) != RoundCents(order.Total) {
		log.Printf("closing order %s with payments %.2f against total %.2f", orderID, paid, order.Total)
	}

	return s.ledger.CloseOrder(ctx, orderID, time.Now().UTC())
}

// MergeTables folds the source table's open order into the target
// table. With an open order on the target, every source item is
// re-parented onto it, the totals combine, and the source order is
// retired with status merged pointing at the survivor — one
// transaction, so revenue is attributed to the surviving order only.
// With no open order on the target, the source order simply relocates.
func (s *OrderLifecycle) MergeTables(ctx context.Context, sourceTableID, targetTableID string) (*MergeOutcome, error) {
	if sourceTableID == "" || targetTableID == "" {
		return nil, fmt.Errorf("%w: source and target table ids are required", ErrInvalidInput)
	}
	if sourceTableID == targetTableID {
		return nil, fmt.Errorf("%w: cannot merge a table into itself", ErrInvalidInput)
	}
	if _, err := s.ledger.GetTable(ctx, targetTableID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: target table %s", ErrNotFound, targetTableID)
		}
		return nil, err
	}

	source, err := s.ledger.FindOpenOrder(ctx, sourceTableID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: no open order on source table", ErrNotFound)
		}
		return nil, err
	}

	target, err := s.ledger.FindOpenOrder(ctx, targetTableID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if target != nil {
		if err := s.ledger.MergeOrders(ctx, source, target, time.Now().UTC()); err != nil {
			return nil, err
		}
		return &MergeOutcome{
			Result:   MergedIntoExisting,
			Order_id: target.Order_id,
			Total:    RoundCents(target.Total + source.Total),
		}, nil
	}

	if err := s.ledger.RelocateOrder(ctx, source.Order_id, targetTableID); err != nil {
		return nil, err
	}
	return &MergeOutcome{
		Result:   RelocatedToEmptyTable,
		Order_id: source.Order_id,
		Total:    source.Total,
	}, nil
}

// TableStatuses lists every table with its open order id and running
// total, if any.
func (s *OrderLifecycle) TableStatuses(ctx context.Context) ([]models.TableStatus, error) {
	return s.ledger.ListTableStatus(ctx)
}

// SalesSummary reports payments whose paid_at date falls in the
// inclusive [from, to] date range.
func (s *OrderLifecycle) SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}
	return s.ledger.SalesSummary(ctx, from, to.Add(24*time.Hour))
}

// ProductSales reports items of orders closed in the inclusive
// [from, to] date range, grouped by product, revenue descending.
func (s *OrderLifecycle) ProductSales(ctx context.Context, from, to time.Time) ([]ProductSales, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}
	return s.ledger.ProductSales(ctx, from, to.Add(24*time.Hour))
}
