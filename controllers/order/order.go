package orderControllers

import (
	"errors"
	"strings"

	"github.com/btttrangcfm09/e-commerce-website-sub000/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// -------- Helpers --------

// Map string to OrderStatus
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusCanceled), "CANCELLED":
		return models.OrderStatusCanceled, nil
	default:
		return "", ErrInvalidStatus
	}
}

// -------- Core Logic --------

// CreateOrderFromCart converts the user's cart into a durable order inside a
// single transaction: every referenced product row is read under a row-level
// write lock, stock is checked and decremented, immutable order items are
// written with the locked current price, an inventory log entry is appended
// per line, and the cart is cleared. Any failure rolls the whole thing back;
// no order, stock change or log entry survives a partial failure.
//
// Two checkouts racing on the same product serialize on its row lock; the
// second re-reads the reduced stock and may fail with InsufficientStockError
// even though it would have succeeded first. That is the intended outcome.
func CreateOrderFromCart(db *gorm.DB, userID, shippingAddress string) (uint, error) {
	if strings.TrimSpace(shippingAddress) == "" {
		return 0, ErrShippingAddressRequired
	}

	var orderID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return err
		}

		var items []models.CartItem
		if err := tx.Where("cart_id = ?", cart.CartID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		var total float64
		var orderItems []models.OrderItem

		for _, item := range items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}

			if product.Stock < item.Quantity {
				return &InsufficientStockError{
					ProductID: product.ID,
					Requested: item.Quantity,
					Available: product.Stock,
				}
			}

			// Deduct stock under the lock
			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			if err := tx.Create(&models.InventoryLogEntry{
				ProductID:  product.ID,
				Quantity:   item.Quantity,
				ChangeType: models.InventoryChangeSale,
			}).Error; err != nil {
				return err
			}

			// Total uses the locked current price, never a client-supplied one
			total += product.Price * float64(item.Quantity)

			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			})
		}

		order := models.Order{
			UserID:          userID,
			Items:           orderItems,
			TotalPrice:      total,
			ShippingAddress: shippingAddress,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.OrderPaymentPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Clear cart items; the cart row itself survives
		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// UpdateOrderStatus validates the target status against the known set,
// persists it and appends a history row tagged with the acting party.
// Re-applying the current status is a data-level no-op but still logs.
func UpdateOrderStatus(db *gorm.DB, orderID uint, status, actor string) (models.OrderStatus, error) {
	newStatus, err := mapOrderStatus(status)
	if err != nil {
		return "", err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", newStatus).Error; err != nil {
			return err
		}

		return tx.Create(&models.OrderStatusHistory{
			OrderID: orderID,
			Status:  newStatus,
			Actor:   actor,
		}).Error
	})
	if err != nil {
		return "", err
	}
	return newStatus, nil
}

// CancelOrder is the customer-initiated cancellation. The order is read under
// a row lock filtered by owner, so a foreign order id looks identical to a
// missing one. Cancelling an already-canceled order reports alreadyCanceled
// instead of erroring; orders past PENDING cannot be cancelled.
//
// Cancellation does not restock inventory and does not void payments; that
// reconciliation is handled outside this service.
func CancelOrder(db *gorm.DB, orderID uint, userID string) (alreadyCanceled bool, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", orderID, userID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if order.Status == models.OrderStatusCanceled {
			alreadyCanceled = true
			return nil
		}
		if order.Status == models.OrderStatusShipped || order.Status == models.OrderStatusDelivered {
			return ErrOrderProcessed
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", models.OrderStatusCanceled).Error; err != nil {
			return err
		}

		return tx.Create(&models.OrderStatusHistory{
			OrderID: orderID,
			Status:  models.OrderStatusCanceled,
			Actor:   models.ActorCustomer,
		}).Error
	})
	return alreadyCanceled, err
}
