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
	"go.mongodb.org/mongo-driver/mongo/options"
)

var paymentCollection *mongo.Collection = database.OpenCollection(database.Client, "payment")

// RecordPayment appends a payment to the order. It neither closes the
// order nor checks that payments cover the total; closing is a
// separate call the client sequences afterwards.
func RecordPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		orderId := c.Param("order_id")
		var body struct {
			Method string  `json:"method"`
			Amount float64 `json:"amount"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		payment, err := lifecycle.RecordPayment(ctx, orderId, body.Method, body.Amount)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

// GetPaymentsByOrder lists an order's recorded payments, oldest first.
func GetPaymentsByOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		orderId := c.Param("order_id")
		opts := options.Find().SetSort(bson.D{{Key: "paid_at", Value: 1}})
		result, err := paymentCollection.Find(ctx, bson.M{"order_id": orderId}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing payments"})
			return
		}
		payments := []primitive.M{}
		if err := result.All(ctx, &payments); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing payments"})
			return
		}
		c.JSON(http.StatusOK, payments)
	}
}
