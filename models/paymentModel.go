package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is a recorded fact. Several payments may attach to one order
// (split bills); the sum is not reconciled against the order total.
type Payment struct {
	ID         primitive.ObjectID `bson:"_id"`
	Order_id   string             `json:"order_id" bson:"order_id"`
	Method     *string            `json:"method" bson:"method" validate:"required,min=1"`
	Amount     *float64           `json:"amount" bson:"amount" validate:"required,gt=0"`
	Paid_at    time.Time          `json:"paid_at" bson:"paid_at"`
	Payment_id string             `json:"payment_id" bson:"payment_id"`
}
