package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"go-restaurant-pos/database"
	"go-restaurant-pos/models"
	"go-restaurant-pos/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var productCollection *mongo.Collection = database.OpenCollection(database.Client, "product")

var validate = validator.New()

// GetProducts lists active products only. Deactivated products stay in
// the store so historical order items keep their reference.
func GetProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
		result, err := productCollection.Find(ctx, bson.M{"active": true}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing products"})
			return
		}
		var allProducts []bson.M
		if err := result.All(ctx, &allProducts); err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing products"})
			return
		}
		c.JSON(http.StatusOK, allProducts)
	}
}

func GetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		productId := c.Param("product_id")
		var product models.Product
		err := productCollection.FindOne(ctx, bson.M{"product_id": productId}).Decode(&product)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func CreateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var product models.Product
		if err := c.BindJSON(&product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		validationErr := validate.Struct(product)
		if validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		price := services.RoundCents(*product.Price)
		product.Price = &price
		product.Active = true
		product.Created_at = time.Now().UTC()
		product.Updated_at = product.Created_at
		product.ID = primitive.NewObjectID()
		product.Product_id = product.ID.Hex()

		if _, err := productCollection.InsertOne(ctx, product); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "product was not created"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// UpdateProduct edits name or price. Existing order items keep their
// snapshotted price; only new items see the edit.
func UpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		productId := c.Param("product_id")
		var product models.Product
		if err := c.BindJSON(&product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var updateObj primitive.D
		if product.Name != nil {
			updateObj = append(updateObj, bson.E{Key: "name", Value: *product.Name})
		}
		if product.Price != nil {
			if *product.Price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
				return
			}
			updateObj = append(updateObj, bson.E{Key: "price", Value: services.RoundCents(*product.Price)})
		}
		if len(updateObj) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
			return
		}
		updateObj = append(updateObj, bson.E{Key: "updated_at", Value: time.Now().UTC()})

		result, err := productCollection.UpdateOne(
			ctx,
			bson.M{"product_id": productId, "active": true},
			bson.D{{Key: "$set", Value: updateObj}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "product update failed"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// DeactivateProduct soft-deletes: the product disappears from listings
// and can no longer be added to orders, but stays referenced by
// historical items.
func DeactivateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		productId := c.Param("product_id")
		result, err := productCollection.UpdateOne(
			ctx,
			bson.M{"product_id": productId},
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "active", Value: false},
				{Key: "updated_at", Value: time.Now().UTC()},
			}}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "product deactivation failed"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
