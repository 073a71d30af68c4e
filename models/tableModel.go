package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Table struct {
	ID         primitive.ObjectID `bson:"_id"`
	Name       *string            `json:"name" bson:"name" validate:"required,min=1"`
	Created_at time.Time          `json:"created_at" bson:"created_at"`
	Updated_at time.Time          `json:"updated_at" bson:"updated_at"`
	Table_id   string             `json:"table_id" bson:"table_id"`
}

// TableStatus is a table annotated with its open order, if any. Tables
// without an open order report status "empty".
type TableStatus struct {
	Table_id      string   `json:"table_id" bson:"table_id"`
	Name          string   `json:"name" bson:"name"`
	Status        string   `json:"status" bson:"status"`
	Open_order_id *string  `json:"open_order_id,omitempty" bson:"open_order_id,omitempty"`
	Open_total    *float64 `json:"open_total,omitempty" bson:"open_total,omitempty"`
}
