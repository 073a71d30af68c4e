package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Ingredient struct {
	ID            primitive.ObjectID `bson:"_id"`
	Name          *string            `json:"name" bson:"name" validate:"required,min=1"`
	Unit          *string            `json:"unit" bson:"unit" validate:"required,min=1"`
	Created_at    time.Time          `json:"created_at" bson:"created_at"`
	Ingredient_id string             `json:"ingredient_id" bson:"ingredient_id"`
}

// RecipeItem links a product to one of its ingredients. Recipes are
// reference data only; the order flow never consumes them.
type RecipeItem struct {
	ID             primitive.ObjectID `bson:"_id"`
	Product_id     string             `json:"product_id" bson:"product_id"`
	Ingredient_id  *string            `json:"ingredient_id" bson:"ingredient_id" validate:"required"`
	Quantity       *float64           `json:"quantity" bson:"quantity" validate:"required,gt=0"`
	Created_at     time.Time          `json:"created_at" bson:"created_at"`
	Recipe_item_id string             `json:"recipe_item_id" bson:"recipe_item_id"`
}

// Stock holds one row per ingredient; writes upsert on the ingredient.
type Stock struct {
	ID            primitive.ObjectID `bson:"_id"`
	Ingredient_id *string            `json:"ingredient_id" bson:"ingredient_id" validate:"required"`
	Quantity      *float64           `json:"quantity" bson:"quantity" validate:"required,gte=0"`
	Updated_at    time.Time          `json:"updated_at" bson:"updated_at"`
	Stock_id      string             `json:"stock_id" bson:"stock_id"`
}
