package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/core/ports"
	"github.com/srgjo27/event_ticket/pkg/validator"
)

type CreateEventRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Location    string          `json:"location" validate:"max=255"`
	StartsAt    *time.Time      `json:"starts_at"`
	Capacity    int             `json:"capacity" validate:"gte=0"`
	TicketPrice decimal.Decimal `json:"ticket_price"`
	Status      string          `json:"status" validate:"omitempty,oneof=draft published finished"`
}

type UpdateEventRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=100"`
	Location    *string          `json:"location" validate:"omitempty,max=255"`
	StartsAt    *time.Time       `json:"starts_at"`
	Capacity    *int             `json:"capacity" validate:"omitempty,gte=0"`
	TicketPrice *decimal.Decimal `json:"ticket_price"`
	Status      *string          `json:"status" validate:"omitempty,oneof=draft published finished"`
}

type EventService struct {
	eventRepo ports.EventRepository
	authz     ports.Authorizer
	cache     ports.ReportCache
	log       zerolog.Logger
}

func NewEventService(eventRepo ports.EventRepository, authz ports.Authorizer, cache ports.ReportCache, log zerolog.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		authz:     authz,
		cache:     cache,
		log:       log.With().Str("component", "events").Logger(),
	}
}

func validateRequest(ctx context.Context, req any) error {
	err := validator.Validate(ctx, req)
	if err == nil {
		return nil
	}
	var fe *validator.FieldError
	if errors.As(err, &fe) {
		return domain.NewValidationError(fe.Field, fe.Message, nil)
	}
	return domain.NewValidationError("request", err.Error(), nil)
}

func (s *EventService) CreateEvent(ctx context.Context, caller *domain.Identity, req CreateEventRequest) (*domain.Event, error) {
	if err := s.authz.Authorize(caller, domain.CapabilityManageEvents); err != nil {
		return nil, err
	}
	if err := validateRequest(ctx, req); err != nil {
		return nil, err
	}

	status := domain.EventDraft
	if req.Status != "" {
		status = domain.EventStatus(req.Status)
	}

	now := time.Now().UTC()
	event := &domain.Event{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Location:    strings.TrimSpace(req.Location),
		StartsAt:    req.StartsAt,
		Capacity:    req.Capacity,
		TicketPrice: req.TicketPrice,
		Status:      status,
		OrganizerID: caller.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.log.Error().Err(err).Msg("failed to create event")
		return nil, err
	}

	s.log.Info().Str("event_id", event.ID.String()).Int("capacity", event.Capacity).Msg("event created")
	return event, nil
}

// UpdateEvent applies an admin edit. The sold count is never touched here.
func (s *EventService) UpdateEvent(ctx context.Context, caller *domain.Identity, eventID string, req UpdateEventRequest) (*domain.Event, error) {
	if err := s.authz.Authorize(caller, domain.CapabilityManageEvents); err != nil {
		return nil, err
	}
	if err := validateRequest(ctx, req); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, domain.NewValidationError("event_id", "must be a uuid", nil)
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		event.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		event.Location = strings.TrimSpace(*req.Location)
	}
	if req.StartsAt != nil {
		event.StartsAt = req.StartsAt
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}
	if req.TicketPrice != nil {
		event.TicketPrice = *req.TicketPrice
	}
	if req.Status != nil {
		event.Status = domain.EventStatus(*req.Status)
	}
	event.UpdatedAt = time.Now().UTC()

	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, event.ID); err != nil {
		s.log.Warn().Err(err).Str("event_id", event.ID.String()).Msg("failed to invalidate report cache")
	}

	s.log.Info().Str("event_id", event.ID.String()).Int("capacity", event.Capacity).Msg("event updated")
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, domain.NewValidationError("event_id", "must be a uuid", nil)
	}
	return s.eventRepo.GetByID(ctx, id)
}

// ListEvents returns every event when organizerID is empty.
func (s *EventService) ListEvents(ctx context.Context, organizerID string) ([]domain.Event, error) {
	return s.eventRepo.List(ctx, organizerID)
}
