package paymentControllers

import (
	"context"
	"errors"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/btttrangcfm09/e-commerce-website-sub000/models"
	"gorm.io/gorm"
)

// -------- Helpers --------

// ResolveMethod normalizes caller-supplied spellings onto the closed method
// enum. Anything unmapped is rejected; strings never pass through untyped.
func ResolveMethod(method string) (models.PaymentMethod, error) {
	s := strings.ToLower(strings.TrimSpace(method))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)

	switch s {
	case "credit_card", "creditcard", "card", "cc":
		return models.PaymentMethodCreditCard, nil
	case "debit_card", "debitcard", "debit":
		return models.PaymentMethodDebitCard, nil
	case "wallet", "apple_pay", "applepay", "google_pay", "googlepay":
		return models.PaymentMethodWallet, nil
	case "bank_transfer", "banktransfer", "bank", "transfer", "wire":
		return models.PaymentMethodBankTransfer, nil
	default:
		return "", ErrUnsupportedMethod
	}
}

// minorUnits converts a major-unit amount to the gateway's integer cents,
// rounding to the nearest cent.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func validAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && amount > 0
}

func gatewayCurrency() string {
	if cur := os.Getenv("PAYMENT_CURRENCY"); cur != "" {
		return cur
	}
	return "usd"
}

// -------- Core Logic --------

// CreatePayment records a payment attempt against an order. When the caller
// supplies no amount, the order's stored total is used instead; a
// client-supplied amount is never trusted when one can be derived.
func CreatePayment(db *gorm.DB, orderID uint, amount *float64, method, userID string) (uint, error) {
	m, err := ResolveMethod(method)
	if err != nil {
		return 0, err
	}

	var order models.Order
	if err := db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrOrderNotFound
		}
		return 0, err
	}

	amt := order.TotalPrice
	if amount != nil {
		amt = *amount
	}
	if !validAmount(amt) {
		return 0, ErrInvalidOrderAmount
	}

	payment := models.Payment{
		OrderID: order.ID,
		Amount:  amt,
		Method:  m,
		Status:  models.PaymentStatusPending,
	}
	if err := db.Create(&payment).Error; err != nil {
		return 0, err
	}
	return payment.ID, nil
}

// IntentResult is returned to the client so it can complete the card flow.
type IntentResult struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    uint   `json:"payment_id"`
	IntentID     string `json:"intent_id"`
}

// CreateGatewayIntent opens a payment intent for the order's stored total.
// The amount is always resolved server-side from the order row; a tampered
// client total never reaches the gateway. The intent is tagged with
// payment/order/user ids so the confirmation step can cross-check it.
func CreateGatewayIntent(ctx context.Context, db *gorm.DB, gw Gateway, orderID uint, userID string) (*IntentResult, error) {
	var order models.Order
	if err := db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !validAmount(order.TotalPrice) {
		return nil, ErrInvalidOrderAmount
	}

	payment := models.Payment{
		OrderID: order.ID,
		Amount:  order.TotalPrice,
		Method:  models.PaymentMethodCreditCard,
		Status:  models.PaymentStatusPending,
	}
	if err := db.Create(&payment).Error; err != nil {
		return nil, err
	}

	intent, err := gw.CreateIntent(ctx, minorUnits(order.TotalPrice), gatewayCurrency(), map[string]string{
		"payment_id": strconv.FormatUint(uint64(payment.ID), 10),
		"order_id":   strconv.FormatUint(uint64(order.ID), 10),
		"user_id":    userID,
	})
	if err != nil {
		return nil, err
	}

	if err := db.Model(&models.Payment{}).Where("id = ?", payment.ID).
		Update("intent_id", intent.ID).Error; err != nil {
		return nil, err
	}

	return &IntentResult{
		ClientSecret: intent.ClientSecret,
		PaymentID:    payment.ID,
		IntentID:     intent.ID,
	}, nil
}

// ConfirmResult reports the settlement outcome. Reason carries the gateway's
// sub-state when the intent did not complete.
type ConfirmResult struct {
	Completed bool   `json:"completed"`
	Reason    string `json:"reason,omitempty"`
}

// ConfirmGatewayPayment reconciles a payment with the gateway's view of its
// intent. The intent is always re-fetched from the gateway; a client-asserted
// success is never trusted (a client can lie or disconnect mid-flow, the
// retrieved intent state is authoritative). The intent's metadata must name
// the same payment id, which blocks replaying one user's confirmation
// against another's payment.
func ConfirmGatewayPayment(ctx context.Context, db *gorm.DB, gw Gateway, paymentID uint, intentID string) (*ConfirmResult, error) {
	var payment models.Payment
	if err := db.First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	intent, err := gw.RetrieveIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}

	if intent.Metadata["payment_id"] != strconv.FormatUint(uint64(payment.ID), 10) {
		return nil, ErrMetadataMismatch
	}

	switch intent.Status {
	case IntentSucceeded:
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Payment{}).Where("id = ?", payment.ID).
				Update("status", models.PaymentStatusCompleted).Error; err != nil {
				return err
			}
			return tx.Model(&models.Order{}).Where("id = ?", payment.OrderID).
				Update("payment_status", models.OrderPaymentPaid).Error
		})
		if err != nil {
			return nil, err
		}
		return &ConfirmResult{Completed: true}, nil

	case IntentRequiresPaymentMethod, IntentCanceled:
		// Declined or abandoned: the attempt is dead, a retry means a fresh
		// payment row and intent.
		if err := db.Model(&models.Payment{}).Where("id = ?", payment.ID).
			Update("status", models.PaymentStatusFailed).Error; err != nil {
			return nil, err
		}
		return &ConfirmResult{Completed: false, Reason: intent.Status}, nil

	default:
		// In progress (processing, requires_action, ...): never guess success.
		return &ConfirmResult{Completed: false, Reason: intent.Status}, nil
	}
}
