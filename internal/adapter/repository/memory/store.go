// Package memory is an in-process implementation of the storage contract.
// A single mutex serializes every write, which gives the same guarantees as the
// conditional updates in the postgres adapter.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/core/ports"
)

type Store struct {
	mu          sync.Mutex
	events      map[uuid.UUID]domain.Event
	tickets     map[uuid.UUID]domain.Ticket
	codes       map[string]uuid.UUID
	payments    map[uuid.UUID]domain.Payment
	validations []domain.Validation
	delivery    map[uuid.UUID]delivery
}

// delivery tracks fulfillment outcomes per ticket.
type delivery struct {
	attempts    int
	fulfilledAt *time.Time
}

func NewStore() *Store {
	return &Store{
		events:   make(map[uuid.UUID]domain.Event),
		tickets:  make(map[uuid.UUID]domain.Ticket),
		codes:    make(map[string]uuid.UUID),
		payments: make(map[uuid.UUID]domain.Payment),
		delivery: make(map[uuid.UUID]delivery),
	}
}

// EventRepository

func (s *Store) Create(ctx context.Context, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[event.ID] = *event
	return nil
}

func (s *Store) GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[eventID]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &event, nil
}

func (s *Store) List(ctx context.Context, organizerID string) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []domain.Event
	for _, e := range s.events {
		if organizerID == "" || e.OrganizerID == organizerID {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	return events, nil
}

func (s *Store) Update(ctx context.Context, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.events[event.ID]
	if !ok {
		return domain.ErrEventNotFound
	}
	if event.Capacity < current.SoldCount {
		return domain.NewValidationError("capacity", "must not be below sold count", nil)
	}

	updated := *event
	updated.SoldCount = current.SoldCount
	s.events[event.ID] = updated
	*event = updated
	return nil
}

// TicketRepository

func (s *Store) WithIssuance(ctx context.Context, fn func(tx ports.IssuanceTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &issuanceTx{store: s, sold: make(map[uuid.UUID]int), consumed: make(map[uuid.UUID]decimal.Decimal)}
	if err := fn(tx); err != nil {
		return err
	}

	for id, sold := range tx.sold {
		event := s.events[id]
		event.SoldCount = sold
		event.UpdatedAt = time.Now().UTC()
		s.events[id] = event
	}
	for id, consumed := range tx.consumed {
		payment := s.payments[id]
		payment.Consumed = consumed
		s.payments[id] = payment
	}
	for _, t := range tx.tickets {
		s.tickets[t.ID] = t
		s.codes[t.Code] = t.ID
	}
	return nil
}

func (s *Store) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.codes[code]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	t := s.tickets[id]
	return &t, nil
}

func (s *Store) GetViewByCode(ctx context.Context, code string) (*domain.TicketView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.codes[code]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	t := s.tickets[id]
	e := s.events[t.EventID]
	return &domain.TicketView{
		Ticket:        t,
		EventName:     e.Name,
		EventLocation: e.Location,
		EventStartsAt: e.StartsAt,
	}, nil
}

func (s *Store) CheckIn(ctx context.Context, ticketID uuid.UUID, validation *domain.Validation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[ticketID]
	if !ok {
		return domain.ErrTicketNotFound
	}
	if t.Status != domain.TicketIssued {
		return domain.ErrConflict
	}

	if err := t.MarkUsed(validation.ScannerID, validation.ScannedAt); err != nil {
		return err
	}
	s.tickets[ticketID] = t
	s.validations = append(s.validations, *validation)
	return nil
}

func (s *Store) UpdateQRURL(ctx context.Context, ticketID uuid.UUID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[ticketID]
	if !ok {
		return domain.ErrTicketNotFound
	}
	t.QRURL = &url
	s.tickets[ticketID] = t
	return nil
}

func (s *Store) ListPendingFulfillment(ctx context.Context, olderThan time.Time, maxAttempts, limit int) ([]domain.FulfillmentJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []domain.Ticket
	for _, t := range s.tickets {
		d := s.delivery[t.ID]
		if d.fulfilledAt != nil || d.attempts >= maxAttempts || !t.CreatedAt.Before(olderThan) {
			continue
		}
		pending = append(pending, t)
	}
	sort.Slice(pending, func(i, j int) bool {
		ai, aj := s.delivery[pending[i].ID].attempts, s.delivery[pending[j].ID].attempts
		if ai != aj {
			return ai < aj
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}

	jobs := make([]domain.FulfillmentJob, 0, len(pending))
	for _, t := range pending {
		job := domain.FulfillmentJob{
			TicketID:   t.ID,
			Code:       t.Code,
			EventID:    t.EventID,
			EventName:  s.events[t.EventID].Name,
			BuyerEmail: t.BuyerEmail,
		}
		if t.QRURL != nil {
			job.QRURL = *t.QRURL
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s *Store) MarkFulfilled(ctx context.Context, ticketID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.delivery[ticketID]
	if d.fulfilledAt == nil {
		d.fulfilledAt = &at
	}
	s.delivery[ticketID] = d
	return nil
}

func (s *Store) RecordFulfillmentFailure(ctx context.Context, ticketID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.delivery[ticketID]
	d.attempts++
	s.delivery[ticketID] = d
	return nil
}

func (s *Store) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total, used int
	for _, t := range s.tickets {
		if t.EventID != eventID {
			continue
		}
		total++
		if t.Status == domain.TicketUsed {
			used++
		}
	}
	return total, used, nil
}

func (s *Store) ListValidations(ctx context.Context, ticketID uuid.UUID) ([]domain.Validation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Validation
	for _, v := range s.validations {
		if v.TicketID == ticketID {
			out = append(out, v)
		}
	}
	return out, nil
}

// Tickets returns every ticket of an event.
func (s *Store) Tickets(eventID uuid.UUID) []domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Ticket
	for _, t := range s.tickets {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Code, out[j].Code) < 0 })
	return out
}

// PaymentRepository

type Payments struct {
	store *Store
}

// Payments exposes the payment table; its method names collide with the event repository's.
func (s *Store) Payments() *Payments {
	return &Payments{store: s}
}

func (p *Payments) Create(ctx context.Context, payment *domain.Payment) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	p.store.payments[payment.ID] = *payment
	return nil
}

func (p *Payments) GetByID(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	payment, ok := p.store.payments[paymentID]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return &payment, nil
}

// issuanceTx stages changes until WithIssuance commits them. It runs under the store lock.
type issuanceTx struct {
	store    *Store
	sold     map[uuid.UUID]int
	consumed map[uuid.UUID]decimal.Decimal
	tickets  []domain.Ticket
}

func (tx *issuanceTx) soldCount(event domain.Event) int {
	if sold, ok := tx.sold[event.ID]; ok {
		return sold
	}
	return event.SoldCount
}

func (tx *issuanceTx) Remaining(ctx context.Context, eventID uuid.UUID) (int, error) {
	event, ok := tx.store.events[eventID]
	if !ok {
		return 0, domain.ErrEventNotFound
	}
	remaining := event.Capacity - tx.soldCount(event)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (tx *issuanceTx) Reserve(ctx context.Context, eventID uuid.UUID, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.NewValidationError("quantity", "must be a positive integer", domain.ErrInvalidQuantity)
	}

	remaining, err := tx.Remaining(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if quantity > remaining {
		return 0, &domain.CapacityError{EventID: eventID, Requested: quantity, Remaining: remaining}
	}

	sold := tx.soldCount(tx.store.events[eventID]) + quantity
	tx.sold[eventID] = sold
	return sold, nil
}

func (tx *issuanceTx) InsertTicket(ctx context.Context, ticket *domain.Ticket) error {
	if _, exists := tx.store.codes[ticket.Code]; exists {
		return domain.ErrDuplicateCode
	}
	for _, staged := range tx.tickets {
		if staged.Code == ticket.Code {
			return domain.ErrDuplicateCode
		}
	}
	if _, ok := tx.store.events[ticket.EventID]; !ok {
		return domain.ErrEventNotFound
	}

	tx.tickets = append(tx.tickets, *ticket)
	return nil
}

func (tx *issuanceTx) ConsumePayment(ctx context.Context, paymentID uuid.UUID, amount decimal.Decimal) error {
	payment, ok := tx.store.payments[paymentID]
	if !ok {
		return domain.ErrPaymentNotFound
	}

	consumed, staged := tx.consumed[paymentID]
	if !staged {
		consumed = payment.Consumed
	}
	if balance := payment.Amount.Sub(consumed); balance.LessThan(amount) {
		return domain.NewPaymentBalanceError(balance, amount)
	}

	tx.consumed[paymentID] = consumed.Add(amount)
	return nil
}
