package routes

import (
	controller "go-restaurant-pos/controllers"

	"github.com/gin-gonic/gin"
)

func OrderRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/orders", controller.GetOrders())
	incomingRoutes.POST("/orders", controller.OpenOrder())
	incomingRoutes.GET("/orders/:order_id", controller.GetOrder())
	incomingRoutes.POST("/orders/:order_id/close", controller.CloseOrder())
	incomingRoutes.GET("/orders/:order_id/items", controller.GetOrderItemsByOrder())
	incomingRoutes.POST("/orders/:order_id/items", controller.AddOrderItem())
	incomingRoutes.DELETE("/orders/:order_id/items/:order_item_id", controller.RemoveOrderItem())
	incomingRoutes.GET("/orders/:order_id/payments", controller.GetPaymentsByOrder())
	incomingRoutes.POST("/orders/:order_id/payments", controller.RecordPayment())
}
