package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/core/ports"
	"github.com/srgjo27/event_ticket/internal/platform/metrics"
)

// FulfillmentService delivers issued tickets: QR image, stored URL, confirmation email.
// It never touches capacity or ticket status.
type FulfillmentService struct {
	ticketRepo ports.TicketRepository
	images     ports.ImageGenerator
	notifier   ports.Notifier
	log        zerolog.Logger
	now        func() time.Time
}

// RetryPolicy bounds the background retry of undelivered tickets.
type RetryPolicy struct {
	Interval    time.Duration
	Grace       time.Duration
	MaxAttempts int
	BatchSize   int
}

func NewFulfillmentService(ticketRepo ports.TicketRepository, images ports.ImageGenerator, notifier ports.Notifier, log zerolog.Logger) *FulfillmentService {
	return &FulfillmentService{
		ticketRepo: ticketRepo,
		images:     images,
		notifier:   notifier,
		log:        log.With().Str("component", "fulfillment").Logger(),
		now:        time.Now,
	}
}

// Fulfill returns the image URL, which may be set even when a later stage failed.
// The outcome is recorded on the ticket so retries skip delivered tickets and
// back off from failing ones.
func (s *FulfillmentService) Fulfill(ctx context.Context, job domain.FulfillmentJob) (string, error) {
	url, err := s.deliver(ctx, job)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			if rerr := s.ticketRepo.RecordFulfillmentFailure(ctx, job.TicketID); rerr != nil {
				s.log.Warn().Err(rerr).Str("ticket_id", job.TicketID.String()).Msg("failed to record fulfillment attempt")
			}
		}
		return url, err
	}

	if err := s.ticketRepo.MarkFulfilled(ctx, job.TicketID, s.now().UTC()); err != nil {
		s.log.Warn().Err(err).Str("ticket_id", job.TicketID.String()).Msg("failed to mark ticket fulfilled")
	}
	return url, nil
}

func (s *FulfillmentService) deliver(ctx context.Context, job domain.FulfillmentJob) (string, error) {
	url := job.QRURL
	if url == "" {
		generated, err := s.images.Generate(ctx, job.Code)
		if err != nil {
			return "", &domain.DependencyError{Stage: domain.StageQR, Err: err}
		}
		url = generated

		if err := s.ticketRepo.UpdateQRURL(ctx, job.TicketID, url); err != nil {
			return url, &domain.DependencyError{Stage: domain.StageStore, Err: err}
		}
	}

	err := s.notifier.SendTicket(ctx, domain.TicketNotification{
		To:        job.BuyerEmail,
		EventName: job.EventName,
		Code:      job.Code,
		ImageURL:  url,
	})
	if err != nil {
		return url, &domain.DependencyError{Stage: domain.StageNotify, Err: err}
	}

	return url, nil
}

// Dispatch fulfills jobs synchronously and reports failures instead of returning them.
func (s *FulfillmentService) Dispatch(ctx context.Context, jobs []domain.FulfillmentJob) domain.FulfillmentReport {
	report := domain.FulfillmentReport{
		Status:    domain.FulfillmentComplete,
		ImageURLs: make(map[string]string, len(jobs)),
	}

	for _, job := range jobs {
		url, err := s.Fulfill(ctx, job)
		if url != "" {
			report.ImageURLs[job.Code] = url
		}
		if err != nil {
			report.Status = domain.FulfillmentDegraded
			report.Failures = append(report.Failures, failureOf(job, err))
			s.logFailure(job, err)
		}
	}

	return report
}

func (s *FulfillmentService) logFailure(job domain.FulfillmentJob, err error) {
	stage := stageOf(err)
	metrics.FulfillmentFailed(stage)
	s.log.Error().Err(err).
		Str("ticket_id", job.TicketID.String()).
		Str("code", job.Code).
		Str("stage", stage).
		Msg("ticket fulfillment failed")
}

// RunBackgroundRetry re-dispatches undelivered tickets older than the grace period.
func (s *FulfillmentService) RunBackgroundRetry(ctx context.Context, policy RetryPolicy, dispatcher ports.FulfillmentDispatcher) {
	ticker := time.NewTicker(policy.Interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", policy.Interval).Int("max_attempts", policy.MaxAttempts).Msg("fulfillment retry worker started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("fulfillment retry worker stopped")
			return
		case <-ticker.C:
			s.RetryPending(ctx, policy, dispatcher)
		}
	}
}

// RetryPending runs one retry pass and returns how many tickets were re-dispatched.
func (s *FulfillmentService) RetryPending(ctx context.Context, policy RetryPolicy, dispatcher ports.FulfillmentDispatcher) int {
	if policy.BatchSize <= 0 {
		policy.BatchSize = 100
	}

	jobs, err := s.ticketRepo.ListPendingFulfillment(ctx, s.now().Add(-policy.Grace), policy.MaxAttempts, policy.BatchSize)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list tickets pending fulfillment")
		return 0
	}

	if len(jobs) == 0 {
		return 0
	}

	s.log.Info().Int("count", len(jobs)).Msg("retrying pending fulfillment")
	report := dispatcher.Dispatch(ctx, jobs)
	if report.Degraded() {
		s.log.Warn().Int("failures", len(report.Failures)).Msg("fulfillment retry incomplete")
	}
	return len(jobs)
}

func failureOf(job domain.FulfillmentJob, err error) domain.FulfillmentFailure {
	return domain.FulfillmentFailure{
		TicketID: job.TicketID,
		Code:     job.Code,
		Stage:    stageOf(err),
		Error:    err.Error(),
	}
}

func stageOf(err error) string {
	var de *domain.DependencyError
	if errors.As(err, &de) {
		return de.Stage
	}
	return "unknown"
}

// DisabledDispatcher skips fulfillment entirely.
type DisabledDispatcher struct{}

func (DisabledDispatcher) Dispatch(_ context.Context, _ []domain.FulfillmentJob) domain.FulfillmentReport {
	return domain.FulfillmentReport{Status: domain.FulfillmentSkipped}
}
