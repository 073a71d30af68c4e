package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"go-restaurant-pos/database"
	middleware "go-restaurant-pos/middleware"
	routes "go-restaurant-pos/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("no .env file loaded, falling back to environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	if err := database.EnsureIndexes(database.Client); err != nil {
		log.Fatalf("ensuring indexes: %v", err)
	}

	router := gin.New()
	router.Use(gin.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:9000"},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.UserRoutes(router)
	router.Use(middleware.Authentication())
	routes.AuthUserRoutes(router)
	routes.TableRoutes(router)
	routes.OrderRoutes(router)
	routes.ProductRoutes(router)
	routes.InventoryRoutes(router)
	routes.ReportRoutes(router)

	router.Run(":" + port)
}
