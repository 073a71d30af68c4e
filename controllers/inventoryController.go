package controllers

import (
	"context"
	"net/http"
	"time"

	"go-restaurant-pos/database"
	"go-restaurant-pos/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ingredientCollection *mongo.Collection = database.OpenCollection(database.Client, "ingredient")
var recipeItemCollection *mongo.Collection = database.OpenCollection(database.Client, "recipeItem")
var stockCollection *mongo.Collection = database.OpenCollection(database.Client, "stock")

func GetIngredients() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
		result, err := ingredientCollection.Find(ctx, bson.M{}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing ingredients"})
			return
		}
		ingredients := []primitive.M{}
		if err := result.All(ctx, &ingredients); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing ingredients"})
			return
		}
		c.JSON(http.StatusOK, ingredients)
	}
}

func CreateIngredient() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var ingredient models.Ingredient
		if err := c.BindJSON(&ingredient); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		validationErr := validate.Struct(ingredient)
		if validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		ingredient.Created_at = time.Now().UTC()
		ingredient.ID = primitive.NewObjectID()
		ingredient.Ingredient_id = ingredient.ID.Hex()

		if _, err := ingredientCollection.InsertOne(ctx, ingredient); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ingredient was not created"})
			return
		}
		c.JSON(http.StatusOK, ingredient)
	}
}

func DeleteIngredient() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ingredientId := c.Param("ingredient_id")
		result, err := ingredientCollection.DeleteOne(ctx, bson.M{"ingredient_id": ingredientId})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ingredient delete failed"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// GetRecipe lists a product's recipe items with the ingredient name
// and unit joined in. Recipes are reference data; the order flow never
// consumes them.
func GetRecipe() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		productId := c.Param("product_id")
		matchStage := bson.D{{Key: "$match", Value: bson.D{{Key: "product_id", Value: productId}}}}
		lookupStage := bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "ingredient"},
			{Key: "localField", Value: "ingredient_id"},
			{Key: "foreignField", Value: "ingredient_id"},
			{Key: "as", Value: "ingredient"},
		}}}
		unwindStage := bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$ingredient"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}}
		projectStage := bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "recipe_item_id", Value: 1},
			{Key: "product_id", Value: 1},
			{Key: "ingredient_id", Value: 1},
			{Key: "ingredient_name", Value: "$ingredient.name"},
			{Key: "ingredient_unit", Value: "$ingredient.unit"},
			{Key: "quantity", Value: 1},
		}}}

		cursor, err := recipeItemCollection.Aggregate(ctx, mongo.Pipeline{matchStage, lookupStage, unwindStage, projectStage})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing recipe items"})
			return
		}
		items := []primitive.M{}
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing recipe items"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func AddRecipeItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var recipeItem models.RecipeItem
		if err := c.BindJSON(&recipeItem); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		recipeItem.Product_id = c.Param("product_id")
		validationErr := validate.Struct(recipeItem)
		if validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		recipeItem.Created_at = time.Now().UTC()
		recipeItem.ID = primitive.NewObjectID()
		recipeItem.Recipe_item_id = recipeItem.ID.Hex()

		if _, err := recipeItemCollection.InsertOne(ctx, recipeItem); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "recipe item was not created"})
			return
		}
		c.JSON(http.StatusOK, recipeItem)
	}
}

func DeleteRecipeItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		productId := c.Param("product_id")
		ingredientId := c.Param("ingredient_id")
		result, err := recipeItemCollection.DeleteOne(ctx, bson.M{
			"product_id":    productId,
			"ingredient_id": ingredientId,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "recipe item delete failed"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// GetStocks lists stock levels with the ingredient joined in.
func GetStocks() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		lookupStage := bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "ingredient"},
			{Key: "localField", Value: "ingredient_id"},
			{Key: "foreignField", Value: "ingredient_id"},
			{Key: "as", Value: "ingredient"},
		}}}
		unwindStage := bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$ingredient"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}}
		projectStage := bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "ingredient_id", Value: 1},
			{Key: "ingredient_name", Value: "$ingredient.name"},
			{Key: "ingredient_unit", Value: "$ingredient.unit"},
			{Key: "quantity", Value: 1},
			{Key: "updated_at", Value: 1},
		}}}
		sortStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "ingredient_name", Value: 1}}}}

		cursor, err := stockCollection.Aggregate(ctx, mongo.Pipeline{lookupStage, unwindStage, projectStage, sortStage})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing stocks"})
			return
		}
		stocks := []primitive.M{}
		if err := cursor.All(ctx, &stocks); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing stocks"})
			return
		}
		c.JSON(http.StatusOK, stocks)
	}
}

// stockUpsertDocs builds the filter and update for a stock write:
// quantity and updated_at on every write, stock_id only when the
// upsert inserts the row.
func stockUpsertDocs(ingredientID string, quantity float64, now time.Time) (bson.M, bson.D) {
	filter := bson.M{"ingredient_id": ingredientID}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "quantity", Value: quantity},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "stock_id", Value: primitive.NewObjectID().Hex()},
		}},
	}
	return filter, update
}

// UpsertStock sets the level for an ingredient, one row per
// ingredient.
func UpsertStock() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var stock models.Stock
		if err := c.BindJSON(&stock); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		validationErr := validate.Struct(stock)
		if validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		upsert := true
		opt := options.UpdateOptions{Upsert: &upsert}
		filter, update := stockUpsertDocs(*stock.Ingredient_id, *stock.Quantity, time.Now().UTC())
		_, err := stockCollection.UpdateOne(ctx, filter, update, &opt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "stock update failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
