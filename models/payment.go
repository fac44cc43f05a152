package models

import "time"

type PaymentMethod string
type PaymentStatus string

const (
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodWallet       PaymentMethod = "WALLET"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"

	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment is one attempt to collect an order's total. An order may carry
// several attempts when earlier ones fail; only the settlement coordinator
// mutates a row after creation.
type Payment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	OrderID   uint          `gorm:"index;not null" json:"order_id"`
	Amount    float64       `gorm:"not null" json:"amount"`
	Method    PaymentMethod `gorm:"type:VARCHAR(20);not null" json:"method"`
	Status    PaymentStatus `gorm:"type:VARCHAR(20);default:'PENDING'" json:"status"`
	IntentID  string        `gorm:"index" json:"intent_id"` // gateway intent reference, once issued
	CreatedAt time.Time     `json:"created_at"`
}
