package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderOpen   OrderStatus = "open"
	OrderClosed OrderStatus = "closed"
	OrderMerged OrderStatus = "merged"
)

// Order accrues items for exactly one table. Total is a denormalized
// running sum of qty*price over its items, maintained incrementally at
// every item mutation. A merged order records the surviving order in
// Merged_into.
type Order struct {
	ID          primitive.ObjectID `bson:"_id"`
	Table_id    *string            `json:"table_id" bson:"table_id" validate:"required"`
	Status      OrderStatus        `json:"status" bson:"status"`
	Total       float64            `json:"total" bson:"total"`
	Opened_at   time.Time          `json:"opened_at" bson:"opened_at"`
	Closed_at   *time.Time         `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
	Merged_into *string            `json:"merged_into,omitempty" bson:"merged_into,omitempty"`
	Updated_at  time.Time          `json:"updated_at" bson:"updated_at"`
	Order_id    string             `json:"order_id" bson:"order_id"`
}

// OrderItem carries the product price as it was when the item was
// added. Items are inserted and deleted, never updated in place, so the
// snapshot cannot drift when the product's price is edited later.
type OrderItem struct {
	ID            primitive.ObjectID `bson:"_id"`
	Order_id      string             `json:"order_id" bson:"order_id"`
	Product_id    *string            `json:"product_id" bson:"product_id" validate:"required"`
	Quantity      *int               `json:"quantity" bson:"quantity" validate:"required,gt=0"`
	Price         float64            `json:"price" bson:"price"`
	Created_at    time.Time          `json:"created_at" bson:"created_at"`
	Order_item_id string             `json:"order_item_id" bson:"order_item_id"`
}
