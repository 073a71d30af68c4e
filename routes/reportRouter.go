package routes

import (
	controller "go-restaurant-pos/controllers"

	"github.com/gin-gonic/gin"
)

func ReportRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/reports/summary", controller.SalesSummaryReport())
	incomingRoutes.GET("/reports/products", controller.ProductSalesReport())
}
