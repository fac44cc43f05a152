package routes

import (
	paymentControllers "github.com/btttrangcfm09/e-commerce-website-sub000/controllers/payment"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the User and Admin
// route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, gw paymentControllers.Gateway) {
	// User routes (JWT-protected)
	SetupUserRoutes(r, db, gw)

	// Admin routes (API-Key-protected)
	SetupAdminRoutes(r, db)
}
