package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/henuka/imitations-api/controllers"
	"github.com/henuka/imitations-api/middlewares"
)

func ProductRoutes(server *gin.Engine) {
	products := server.Group("/products")
	{
		products.GET("", controllers.GetProducts)
		products.GET("/:id", controllers.GetProduct)
		products.GET("/:id/related", controllers.GetRelatedProducts)
	}

	adminOnly := []gin.HandlerFunc{middlewares.Authenticate(), middlewares.RequireAdmin()}

	admin := server.Group("/products", adminOnly...)
	{
		admin.POST("", controllers.CreateProduct)
		admin.PUT("/:id", controllers.UpdateProduct)
		admin.DELETE("/:id", controllers.DeleteProduct)
		admin.POST("/:id/images", controllers.UploadProductImages)
	}

	reports := server.Group("/admin", adminOnly...)
	{
		reports.GET("/restock-report", controllers.GetRestockReport)
	}
}
