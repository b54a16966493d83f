package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TicketStatus string

const (
	TicketIssued TicketStatus = "issued"
	TicketUsed   TicketStatus = "used"
)

type Ticket struct {
	ID          uuid.UUID
	Code        string
	EventID     uuid.UUID
	UserID      *string
	BuyerEmail  string
	PaymentID   *uuid.UUID
	PricePaid   decimal.Decimal
	Status      TicketStatus
	QRURL       *string
	ValidatedAt *time.Time
	ValidatedBy *string
	CreatedAt   time.Time
}

func (t *Ticket) IsUsed() bool {
	return t.Status == TicketUsed
}

// CanCheckIn returns an *AlreadyUsedError for a ticket that has already been validated.
func (t *Ticket) CanCheckIn() error {
	if t.IsUsed() {
		return t.alreadyUsed()
	}
	return nil
}

// MarkUsed applies the issued -> used transition. used is terminal.
func (t *Ticket) MarkUsed(scannerID string, at time.Time) error {
	if err := t.CanCheckIn(); err != nil {
		return err
	}

	t.Status = TicketUsed
	t.ValidatedAt = &at
	t.ValidatedBy = &scannerID
	return nil
}

func (t *Ticket) alreadyUsed() *AlreadyUsedError {
	err := &AlreadyUsedError{Code: t.Code}
	if t.ValidatedAt != nil {
		err.ValidatedAt = *t.ValidatedAt
	}
	if t.ValidatedBy != nil {
		err.ValidatedBy = *t.ValidatedBy
	}
	return err
}

// TicketView is a ticket together with the display fields of its event.
type TicketView struct {
	Ticket
	EventName     string
	EventLocation string
	EventStartsAt *time.Time
}

func (v *TicketView) Valid() bool {
	return v.Status == TicketIssued
}
