package routes

import (
	controller "go-restaurant-pos/controllers"

	"github.com/gin-gonic/gin"
)

func TableRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/tables", controller.GetTables())
	incomingRoutes.POST("/tables", controller.CreateTable())
	incomingRoutes.PATCH("/tables/:table_id", controller.RenameTable())
	incomingRoutes.DELETE("/tables/:table_id", controller.DeleteTable())
	incomingRoutes.POST("/tables/:table_id/merge", controller.MergeTables())
}
