package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Stock       int     `json:"stock"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// InventoryLogEntry is an append-only audit row written alongside every stock
// change. This service only ever writes SALE entries (checkout decrements);
// rows are never updated or deleted.
type InventoryLogEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uint      `gorm:"index;not null" json:"product_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	ChangeType string    `gorm:"type:VARCHAR(20);not null" json:"change_type"`
	CreatedAt  time.Time `json:"created_at"`
}

const InventoryChangeSale = "SALE"
