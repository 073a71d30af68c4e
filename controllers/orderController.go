package controllers

import (
	"context"
	"net/http"
	"time"

	"go-restaurant-pos/database"
	"go-restaurant-pos/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var orderCollection *mongo.Collection = database.OpenCollection(database.Client, "order")

// GetOrders lists orders filtered by status, open by default, newest
// first.
func GetOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		status := c.DefaultQuery("status", string(models.OrderOpen))
		switch models.OrderStatus(status) {
		case models.OrderOpen, models.OrderClosed, models.OrderMerged:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be open, closed or merged"})
			return
		}

		opts := options.Find().SetSort(bson.D{{Key: "opened_at", Value: -1}})
		result, err := orderCollection.Find(ctx, bson.M{"status": status}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing orders"})
			return
		}
		var allOrders []models.Order
		if err := result.All(ctx, &allOrders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing orders"})
			return
		}
		if allOrders == nil {
			allOrders = []models.Order{}
		}
		c.JSON(http.StatusOK, allOrders)
	}
}

func GetOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		orderId := c.Param("order_id")
		var order models.Order
		err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// OpenOrder finds the table's open order or creates one, so repeated
// calls for the same table keep returning the same order.
func OpenOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var body struct {
			Table_id string `json:"table_id"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := lifecycle.FindOrCreateOrder(ctx, body.Table_id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// CloseOrder stamps the order closed after the payment flow finished.
func CloseOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		orderId := c.Param("order_id")
		if err := lifecycle.CloseOrder(ctx, orderId); err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
