package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is menu reference data. Products are never removed, only
// deactivated, so historical order items keep a valid reference and
// their snapshotted price.
type Product struct {
	ID         primitive.ObjectID `bson:"_id"`
	Name       *string            `json:"name" bson:"name" validate:"required,min=1"`
	Price      *float64           `json:"price" bson:"price" validate:"required,gte=0"`
	Active     bool               `json:"active" bson:"active"`
	Created_at time.Time          `json:"created_at" bson:"created_at"`
	Updated_at time.Time          `json:"updated_at" bson:"updated_at"`
	Product_id string             `json:"product_id" bson:"product_id"`
}
