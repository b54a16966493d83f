package domain

import (
	"time"

	"github.com/google/uuid"
)

// Validation is one append-only audit row per successful check-in.
type Validation struct {
	ID        uuid.UUID
	TicketID  uuid.UUID
	EventID   uuid.UUID
	ScannerID string
	ScannedAt time.Time
	Location  string
	Meta      map[string]any
}

type ScanContext struct {
	Location string
	Meta     map[string]any
}
