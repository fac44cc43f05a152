package models

import "gorm.io/gorm"

// SetupDatabase migrates the schema. It runs exactly once, at process start,
// before any request is served; nothing else in the codebase touches schema
// state.
func SetupDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&OrderStatusHistory{},
		&InventoryLogEntry{},
		&Payment{},
	)
}
