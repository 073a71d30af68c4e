package controllers

import (
	"context"
	"net/http"
	"time"

	"go-restaurant-pos/database"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var orderItemCollection *mongo.Collection = database.OpenCollection(database.Client, "orderItem")

// GetOrderItemsByOrder lists an order's items with the product name
// joined in, newest first.
func GetOrderItemsByOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderId := c.Param("order_id")
		items, err := itemsByOrder(orderId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing order items"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func itemsByOrder(id string) ([]primitive.M, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	matchStage := bson.D{{Key: "$match", Value: bson.D{{Key: "order_id", Value: id}}}}
	lookupStage := bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: "product"},
		{Key: "localField", Value: "product_id"},
		{Key: "foreignField", Value: "product_id"},
		{Key: "as", Value: "product"},
	}}}
	unwindStage := bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$product"},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
	projectStage := bson.D{{Key: "$project", Value: bson.D{
		{Key: "_id", Value: 0},
		{Key: "order_item_id", Value: 1},
		{Key: "order_id", Value: 1},
		{Key: "product_id", Value: 1},
		{Key: "product_name", Value: "$product.name"},
		{Key: "quantity", Value: 1},
		{Key: "price", Value: 1},
		{Key: "amount", Value: bson.D{{Key: "$multiply", Value: bson.A{"$quantity", "$price"}}}},
		{Key: "created_at", Value: 1},
	}}}
	sortStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}}

	cursor, err := orderItemCollection.Aggregate(ctx, mongo.Pipeline{
		matchStage,
		lookupStage,
		unwindStage,
		projectStage,
		sortStage,
	})
	if err != nil {
		return nil, err
	}
	items := []primitive.M{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddOrderItem adds a product to an order, snapshotting the product's
// current price into the item and bumping the order total.
func AddOrderItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		orderId := c.Param("order_id")
		var body struct {
			Product_id string `json:"product_id"`
			Quantity   int    `json:"quantity"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		item, err := lifecycle.AddItem(ctx, orderId, body.Product_id, body.Quantity)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// RemoveOrderItem deletes an item and brings the order total back
// down by the item's qty*price.
func RemoveOrderItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		orderId := c.Param("order_id")
		itemId := c.Param("order_item_id")
		if err := lifecycle.RemoveItem(ctx, orderId, itemId); err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
