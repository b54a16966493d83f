package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/srgjo27/event_ticket/internal/core/domain"
)

type eventResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Location    string          `json:"location"`
	StartsAt    *time.Time      `json:"starts_at,omitempty"`
	Capacity    int             `json:"capacity"`
	SoldCount   int             `json:"sold_count"`
	Remaining   int             `json:"remaining"`
	TicketPrice decimal.Decimal `json:"ticket_price"`
	Status      string          `json:"status"`
	OrganizerID string          `json:"organizer_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newEventResponse(e *domain.Event) eventResponse {
	return eventResponse{
		ID:          e.ID.String(),
		Name:        e.Name,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		Capacity:    e.Capacity,
		SoldCount:   e.SoldCount,
		Remaining:   e.Remaining(),
		TicketPrice: e.TicketPrice,
		Status:      string(e.Status),
		OrganizerID: e.OrganizerID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type ticketViewResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	EventID       string          `json:"event_id"`
	EventName     string          `json:"event_name"`
	EventLocation string          `json:"event_location,omitempty"`
	EventStartsAt *time.Time      `json:"event_starts_at,omitempty"`
	PricePaid     decimal.Decimal `json:"price_paid"`
	Status        string          `json:"status"`
	QRURL         *string         `json:"qr_url,omitempty"`
	ValidatedAt   *time.Time      `json:"validated_at,omitempty"`
	ValidatedBy   *string         `json:"validated_by,omitempty"`
	Valid         bool            `json:"valid"`
}

func newTicketViewResponse(v *domain.TicketView) ticketViewResponse {
	return ticketViewResponse{
		ID:            v.ID.String(),
		Code:          v.Code,
		EventID:       v.EventID.String(),
		EventName:     v.EventName,
		EventLocation: v.EventLocation,
		EventStartsAt: v.EventStartsAt,
		PricePaid:     v.PricePaid,
		Status:        string(v.Status),
		QRURL:         v.QRURL,
		ValidatedAt:   v.ValidatedAt,
		ValidatedBy:   v.ValidatedBy,
		Valid:         v.Valid(),
	}
}

type scanRequest struct {
	Location string         `json:"location"`
	Meta     map[string]any `json:"meta"`
}
