package routes

import (
	cartControllers "github.com/btttrangcfm09/e-commerce-website-sub000/controllers/cart"
	orderControllers "github.com/btttrangcfm09/e-commerce-website-sub000/controllers/order"
	productControllers "github.com/btttrangcfm09/e-commerce-website-sub000/controllers/product"
	userControllers "github.com/btttrangcfm09/e-commerce-website-sub000/controllers/user"
	"github.com/btttrangcfm09/e-commerce-website-sub000/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		adminGroup.GET("/users", userControllers.GetAllUsers(db))

		// Product / inventory management
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productControllers.CreateProduct(db))
			productAdmin.PUT("/:id", productControllers.UpdateProduct(db))
			productAdmin.GET("", productControllers.GetProducts(db))
			productAdmin.DELETE("/:id", productControllers.DeleteProduct(db))
		}

		// Fulfillment
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(db))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
			orderAdmin.GET("/export-excel", orderControllers.ExportOrdersToExcel(db))

			// websocket endpoint for real-time order status updates
			orderAdmin.GET("/ws", orderControllers.OrderWebSocketHandler)
		}

		cartMgmt := adminGroup.Group("/user-cart")
		{
			cartMgmt.GET("/:user_id", cartControllers.GetAdminUserCart(db))
		}
	}
}
