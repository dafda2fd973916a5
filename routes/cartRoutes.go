package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/henuka/imitations-api/controllers"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart")
	{
		cart.GET("", controllers.GetCartSummary)
		cart.GET("/count", controllers.GetCartItemCount)
		cart.POST("/items", controllers.AddToCart)
		cart.PUT("/items/:productId", controllers.UpdateCartItem)
		cart.DELETE("/items/:productId", controllers.RemoveCartItem)
		cart.DELETE("", controllers.ClearCart)
	}
}
