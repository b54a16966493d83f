package domain

import "github.com/google/uuid"

type FulfillmentStatus string

const (
	FulfillmentComplete FulfillmentStatus = "complete"
	FulfillmentQueued   FulfillmentStatus = "queued"
	FulfillmentDegraded FulfillmentStatus = "degraded"
	FulfillmentSkipped  FulfillmentStatus = "skipped"
)

// Fulfillment stages, in order.
const (
	StageQR      = "qr"
	StageStore   = "store"
	StageNotify  = "notify"
	StagePublish = "publish"
)

// FulfillmentJob carries everything needed to deliver one issued ticket after commit.
type FulfillmentJob struct {
	TicketID   uuid.UUID `json:"ticket_id"`
	Code       string    `json:"code"`
	EventID    uuid.UUID `json:"event_id"`
	EventName  string    `json:"event_name"`
	BuyerEmail string    `json:"buyer_email"`
	// QRURL is set on retries when the image was stored by an earlier attempt.
	QRURL string `json:"qr_url,omitempty"`
}

func NewFulfillmentJobs(event *Event, tickets []Ticket) []FulfillmentJob {
	jobs := make([]FulfillmentJob, 0, len(tickets))
	for _, t := range tickets {
		jobs = append(jobs, FulfillmentJob{
			TicketID:   t.ID,
			Code:       t.Code,
			EventID:    event.ID,
			EventName:  event.Name,
			BuyerEmail: t.BuyerEmail,
		})
	}
	return jobs
}

type FulfillmentFailure struct {
	TicketID uuid.UUID `json:"ticket_id"`
	Code     string    `json:"code"`
	Stage    string    `json:"stage"`
	Error    string    `json:"error"`
}

// FulfillmentReport describes best-effort delivery. A degraded report never invalidates issued tickets.
type FulfillmentReport struct {
	Status    FulfillmentStatus    `json:"status"`
	ImageURLs map[string]string    `json:"image_urls,omitempty"`
	Failures  []FulfillmentFailure `json:"failures,omitempty"`
}

func (r FulfillmentReport) Degraded() bool {
	return r.Status == FulfillmentDegraded
}

// TicketNotification is the confirmation sent to a buyer.
type TicketNotification struct {
	To        string
	EventName string
	Code      string
	ImageURL  string
}
