package paymentControllers

import (
	"errors"
	"net/http"

	"github.com/btttrangcfm09/e-commerce-website-sub000/logging"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreatePaymentRequest struct {
	OrderID uint     `json:"order_id" binding:"required"`
	Amount  *float64 `json:"amount"` // optional; order total used when absent
	Method  string   `json:"method" binding:"required"`
}

type CreateIntentRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

type ConfirmPaymentRequest struct {
	PaymentID uint   `json:"payment_id" binding:"required"`
	IntentID  string `json:"intent_id" binding:"required"`
}

func currentUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	userID, ok := v.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

func writePaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnsupportedMethod), errors.Is(err, ErrInvalidOrderAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrMetadataMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// POST /user/payments
func CreatePaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req CreatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		paymentID, err := CreatePayment(db, req.OrderID, req.Amount, req.Method, userID)
		if err != nil {
			writePaymentError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"payment_id": paymentID})
	}
}

// POST /user/payments/intent
func CreateIntentHandler(db *gorm.DB, gw Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req CreateIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		result, err := CreateGatewayIntent(c.Request.Context(), db, gw, req.OrderID, userID)
		if err != nil {
			logging.From(c).Error("create intent failed", "order_id", req.OrderID, "error", err)
			writePaymentError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// POST /user/payments/confirm
func ConfirmPaymentHandler(db *gorm.DB, gw Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c); !ok {
			return
		}
		var req ConfirmPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		result, err := ConfirmGatewayPayment(c.Request.Context(), db, gw, req.PaymentID, req.IntentID)
		if err != nil {
			logging.From(c).Error("confirm payment failed", "payment_id", req.PaymentID, "error", err)
			writePaymentError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
