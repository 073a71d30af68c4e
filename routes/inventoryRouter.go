package routes

import (
	controller "go-restaurant-pos/controllers"

	"github.com/gin-gonic/gin"
)

func InventoryRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/ingredients", controller.GetIngredients())
	incomingRoutes.POST("/ingredients", controller.CreateIngredient())
	incomingRoutes.DELETE("/ingredients/:ingredient_id", controller.DeleteIngredient())
	incomingRoutes.GET("/products/:product_id/recipe", controller.GetRecipe())
	incomingRoutes.POST("/products/:product_id/recipe", controller.AddRecipeItem())
	incomingRoutes.DELETE("/products/:product_id/recipe/:ingredient_id", controller.DeleteRecipeItem())
	incomingRoutes.GET("/stocks", controller.GetStocks())
	incomingRoutes.PUT("/stocks", controller.UpsertStock())
}
