package routes

import (
	cartControllers "github.com/btttrangcfm09/e-commerce-website-sub000/controllers/cart"
	orderControllers "github.com/btttrangcfm09/e-commerce-website-sub000/controllers/order"
	paymentControllers "github.com/btttrangcfm09/e-commerce-website-sub000/controllers/payment"
	productControllers "github.com/btttrangcfm09/e-commerce-website-sub000/controllers/product"
	userControllers "github.com/btttrangcfm09/e-commerce-website-sub000/controllers/user"
	"github.com/btttrangcfm09/e-commerce-website-sub000/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, gw paymentControllers.Gateway) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// Profile
		userGroup.GET("/", userControllers.GetUser(db))
		userGroup.PUT("/", userControllers.UpdateUser(db))

		// Shopping cart
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(db))
			cartGroup.POST("/", cartControllers.UpdateCartItem(db))
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(db))
			cartGroup.DELETE("/", cartControllers.ClearUserCart(db))
		}

		// Browse products
		userGroup.GET("/products", productControllers.GetProducts(db))
		userGroup.GET("/products/:id", productControllers.GetProductByID(db))

		// Orders
		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.POST("/", orderControllers.CheckoutHandler(db, gw))
			orderGroup.GET("/", orderControllers.GetUserOrdersHandler(db))
			orderGroup.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))
			orderGroup.POST("/:orderID/cancel", orderControllers.CancelOrderHandler(db))
		}

		// Payments
		paymentGroup := userGroup.Group("/payments")
		{
			paymentGroup.POST("/", paymentControllers.CreatePaymentHandler(db))
			paymentGroup.POST("/intent", paymentControllers.CreateIntentHandler(db, gw))
			paymentGroup.POST("/confirm", paymentControllers.ConfirmPaymentHandler(db, gw))
		}
	}
}
