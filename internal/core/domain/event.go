package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventFinished  EventStatus = "finished"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventDraft, EventPublished, EventFinished:
		return true
	}
	return false
}

type Event struct {
	ID          uuid.UUID
	Name        string
	Location    string
	StartsAt    *time.Time
	Capacity    int
	SoldCount   int
	TicketPrice decimal.Decimal
	Status      EventStatus
	OrganizerID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Remaining is capacity minus sold count, floored at zero.
func (e *Event) Remaining() int {
	remaining := e.Capacity - e.SoldCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CheckReservation reports whether quantity units fit in the remaining capacity.
// It is a pre-flight check only; the storage layer re-checks at write time.
func (e *Event) CheckReservation(quantity int) error {
	if quantity <= 0 {
		return NewValidationError("quantity", "must be a positive integer", ErrInvalidQuantity)
	}

	remaining := e.Remaining()
	if quantity > remaining {
		return &CapacityError{EventID: e.ID, Requested: quantity, Remaining: remaining}
	}

	return nil
}

func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return NewValidationError("name", "is required", nil)
	}
	if e.Capacity < 0 {
		return NewValidationError("capacity", "must not be negative", nil)
	}
	if e.SoldCount < 0 {
		return NewValidationError("sold_count", "must not be negative", nil)
	}
	if e.SoldCount > e.Capacity {
		return NewValidationError("capacity", "must not be below sold count", nil)
	}
	if e.TicketPrice.IsNegative() {
		return NewValidationError("ticket_price", "must not be negative", nil)
	}
	if !e.Status.Valid() {
		return NewValidationError("status", "must be one of draft, published, finished", nil)
	}
	return nil
}
