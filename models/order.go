package models

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string
type OrderPaymentStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"   // Order placed, awaiting fulfillment
	OrderStatusShipped   OrderStatus = "SHIPPED"   // Out for delivery
	OrderStatusDelivered OrderStatus = "DELIVERED" // Customer received the items
	OrderStatusCanceled  OrderStatus = "CANCELED"  // Canceled before shipping

	OrderPaymentPending OrderPaymentStatus = "PENDING"
	OrderPaymentPaid    OrderPaymentStatus = "PAID"
	OrderPaymentFailed  OrderPaymentStatus = "FAILED"
)

// Actors recorded in the order status history.
const (
	ActorAdmin    = "ADMIN"
	ActorCustomer = "CUSTOMER"
	ActorSystem   = "SYSTEM"
)

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          string      `gorm:"index;not null" json:"user_id"`
	User            User        `gorm:"foreignKey:UserID" json:"user"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	// TotalPrice is fixed at checkout from the locked product prices and is
	// never recomputed, even when product prices change later. The order
	// items remain the audit source of truth.
	TotalPrice      float64            `gorm:"not null" json:"total_price"`
	ShippingAddress string             `gorm:"not null" json:"shipping_address"`
	Status          OrderStatus        `gorm:"type:VARCHAR(20);default:'PENDING'" json:"status"`
	PaymentStatus   OrderPaymentStatus `gorm:"type:VARCHAR(20);default:'PENDING'" json:"payment_status"`
	CreatedAt       time.Time          `json:"created_at"`
	DeletedAt       gorm.DeletedAt     `gorm:"index" json:"-"`
}

// OrderItem is an immutable snapshot of a purchased line. UnitPrice is the
// product price at the moment of purchase, decoupled from the live price.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
}

// OrderStatusHistory is an append-only trail of status transitions.
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"index;not null" json:"order_id"`
	Status    OrderStatus `gorm:"type:VARCHAR(20);not null" json:"status"`
	Actor     string      `gorm:"type:VARCHAR(20);not null" json:"actor"`
	CreatedAt time.Time   `json:"created_at"`
}
