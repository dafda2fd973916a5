package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/henuka/imitations-api/controllers"
	"github.com/henuka/imitations-api/middlewares"
)

func OrderRoutes(server *gin.Engine) {
	orders := server.Group("/orders")
	{
		orders.POST("", controllers.CreateOrder)
		orders.GET("", controllers.GetOrdersByEmail)
		orders.GET("/:id", controllers.GetOrder)
		orders.POST("/:id/cancel", controllers.CancelOrder)
	}

	server.GET("/track/:orderNumber", controllers.TrackOrder)

	adminOnly := []gin.HandlerFunc{middlewares.Authenticate(), middlewares.RequireAdmin()}

	orders.PATCH("/:id/status", append(adminOnly, controllers.UpdateOrderStatus)...)
	orders.PATCH("/:id/items/:itemId", append(adminOnly, controllers.CorrectOrderItem)...)

	admin := server.Group("/admin", adminOnly...)
	{
		admin.GET("/orders", controllers.SearchOrders)
	}
}
