package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment is the upstream record a ticket batch may reference.
type Payment struct {
	ID          uuid.UUID
	EventID     *uuid.UUID
	UserID      *string
	Provider    string
	ProviderRef string
	Amount      decimal.Decimal
	// Consumed is the total price already issued against this payment.
	Consumed    decimal.Decimal
	Currency    string
	Status      PaymentStatus
	PaidAt      *time.Time
	CreatedAt   time.Time
}

// Balance is the amount still available for issuance.
func (p *Payment) Balance() decimal.Decimal {
	return p.Amount.Sub(p.Consumed)
}

// Covers checks that the payment is settled with a balance of at least total on the given event.
func (p *Payment) Covers(eventID uuid.UUID, total decimal.Decimal) error {
	if p.EventID != nil && *p.EventID != eventID {
		return NewValidationError("payment_id", "payment belongs to another event", nil)
	}
	if p.Status != PaymentPaid {
		return NewValidationError("payment_id", "payment is not settled", nil)
	}
	if p.Balance().LessThan(total) {
		return NewPaymentBalanceError(p.Balance(), total)
	}
	return nil
}

// NewPaymentBalanceError reports a payment whose unconsumed balance is below total.
func NewPaymentBalanceError(balance, total decimal.Decimal) *ValidationError {
	return NewValidationError("payment_id", "payment balance "+balance.StringFixed(2)+" does not cover total "+total.StringFixed(2), nil)
}
