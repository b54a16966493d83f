package domain

import "github.com/google/uuid"

// EventReport is a read-only rollup over an event's tickets.
// Remaining counts issued tickets not yet checked in; Available is unsold capacity.
type EventReport struct {
	EventID   uuid.UUID `json:"event_id"`
	Total     int       `json:"total"`
	Used      int       `json:"used"`
	Remaining int       `json:"remaining"`
	Capacity  int       `json:"capacity"`
	SoldCount int       `json:"sold_count"`
	Available int       `json:"available"`
}

func NewEventReport(event *Event, total, used int) *EventReport {
	return &EventReport{
		EventID:   event.ID,
		Total:     total,
		Used:      used,
		Remaining: total - used,
		Capacity:  event.Capacity,
		SoldCount: event.SoldCount,
		Available: event.Remaining(),
	}
}
