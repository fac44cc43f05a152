package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	paymentControllers "github.com/btttrangcfm09/e-commerce-website-sub000/controllers/payment"
	"github.com/btttrangcfm09/e-commerce-website-sub000/logging"
	"github.com/btttrangcfm09/e-commerce-website-sub000/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
	// PaymentMethod is optional; when present the payment phase starts right
	// after the order is committed. Card methods open a gateway intent, the
	// rest record a pending payment.
	PaymentMethod string `json:"payment_method"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
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

func writeOrderError(c *gin.Context, err error) {
	var stockErr *InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error(), "product_id": stockErr.ProductID})
	case errors.Is(err, ErrCartNotFound), errors.Is(err, ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrCartEmpty), errors.Is(err, ErrShippingAddressRequired),
		errors.Is(err, ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrOrderProcessed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func paramOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid orderID"})
		return 0, false
	}
	return uint(id), true
}

// -------- Handlers --------

// CheckoutHandler sequences cart conversion and the payment phase. The cart
// transaction is fully committed before any gateway call; the gateway is
// never invoked against an order that does not durably exist yet.
func CheckoutHandler(db *gorm.DB, gw paymentControllers.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		orderID, err := CreateOrderFromCart(db, userID, req.ShippingAddress)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		logging.From(c).Info("order created", "order_id", orderID, "user_id", userID)

		resp := gin.H{"order_id": orderID}

		if req.PaymentMethod != "" {
			method, err := paymentControllers.ResolveMethod(req.PaymentMethod)
			if err != nil {
				// The order exists either way; report it alongside the error.
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "order_id": orderID})
				return
			}

			switch method {
			case models.PaymentMethodCreditCard, models.PaymentMethodDebitCard:
				intent, err := paymentControllers.CreateGatewayIntent(c.Request.Context(), db, gw, orderID, userID)
				if err != nil {
					logging.From(c).Error("intent after checkout failed", "order_id", orderID, "error", err)
					c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "order_id": orderID})
					return
				}
				resp["payment_id"] = intent.PaymentID
				resp["intent_id"] = intent.IntentID
				resp["client_secret"] = intent.ClientSecret
			default:
				paymentID, err := paymentControllers.CreatePayment(db, orderID, nil, req.PaymentMethod, userID)
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "order_id": orderID})
					return
				}
				resp["payment_id"] = paymentID
			}
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// POST /user/orders/:orderID/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		orderID, ok := paramOrderID(c)
		if !ok {
			return
		}

		alreadyCanceled, err := CancelOrder(db, orderID, userID)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		if !alreadyCanceled {
			broadcastStatusChange(orderID, models.OrderStatusCanceled, models.ActorCustomer)
		}
		c.JSON(http.StatusOK, gin.H{"already_canceled": alreadyCanceled})
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := paramOrderID(c)
		if !ok {
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		newStatus, err := UpdateOrderStatus(db, orderID, req.Status, models.ActorAdmin)
		if err != nil {
			writeOrderError(c, err)
			return
		}

		broadcastStatusChange(orderID, newStatus, models.ActorAdmin)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// GET /user/orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders/:orderID
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		orderID, ok := paramOrderID(c)
		if !ok {
			return
		}

		var order models.Order
		if err := db.
			Preload("Items").
			Where("id = ? AND user_id = ?", orderID, userID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": ErrOrderNotFound.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}
