package orderControllers

import (
	"errors"
	"fmt"
)

var (
	ErrCartNotFound = errors.New("cart not found for user")
	ErrCartEmpty    = errors.New("cart is empty, nothing to order")

	// ErrShippingAddressRequired rejects a checkout before any transaction
	// is opened.
	ErrShippingAddressRequired = errors.New("shipping address is required")

	// ErrOrderNotFound covers both a missing order and an order owned by a
	// different user; callers cannot distinguish the two.
	ErrOrderNotFound = errors.New("order not found or not owned by user")

	// ErrOrderProcessed: cancellation is only legal before fulfillment has
	// progressed past PENDING.
	ErrOrderProcessed = errors.New("order already shipped or delivered, cannot cancel")

	ErrInvalidStatus = errors.New("invalid order status")
)

// InsufficientStockError aborts the whole checkout transaction; partial
// fulfillment of an order is never acceptable.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
