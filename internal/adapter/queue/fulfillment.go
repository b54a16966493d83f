// Package queue moves ticket fulfillment off the request path through RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/platform/messaging"
	"github.com/srgjo27/event_ticket/internal/platform/metrics"
)

type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

type Consumer interface {
	Consume(ctx context.Context, handler messaging.Handler) error
}

type Fulfiller interface {
	Fulfill(ctx context.Context, job domain.FulfillmentJob) (string, error)
}

// Dispatcher enqueues one message per ticket. Publish failures degrade the report;
// such tickets are picked up later by the retry worker because their qr_url stays empty.
type Dispatcher struct {
	publisher Publisher
	log       zerolog.Logger
}

func NewDispatcher(publisher Publisher, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{publisher: publisher, log: log.With().Str("component", "fulfillment_queue").Logger()}
}

func (d *Dispatcher) Dispatch(ctx context.Context, jobs []domain.FulfillmentJob) domain.FulfillmentReport {
	report := domain.FulfillmentReport{Status: domain.FulfillmentQueued}

	for _, job := range jobs {
		body, err := json.Marshal(job)
		if err == nil {
			err = d.publisher.Publish(ctx, body)
		}
		if err != nil {
			report.Status = domain.FulfillmentDegraded
			report.Failures = append(report.Failures, domain.FulfillmentFailure{
				TicketID: job.TicketID,
				Code:     job.Code,
				Stage:    domain.StagePublish,
				Error:    err.Error(),
			})
			metrics.FulfillmentFailed(domain.StagePublish)
			d.log.Error().Err(err).Str("ticket_id", job.TicketID.String()).Msg("failed to enqueue fulfillment")
		}
	}

	return report
}

type Worker struct {
	consumer  Consumer
	fulfiller Fulfiller
	log       zerolog.Logger
	done      chan struct{}
	cancel    context.CancelFunc
}

func NewWorker(consumer Consumer, fulfiller Fulfiller, log zerolog.Logger) *Worker {
	return &Worker{
		consumer:  consumer,
		fulfiller: fulfiller,
		log:       log.With().Str("component", "fulfillment_worker").Logger(),
		done:      make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.log.Info().Msg("fulfillment worker started")

	go func() {
		defer close(w.done)

		if err := w.consumer.Consume(cctx, w.Handle); err != nil {
			w.log.Error().Err(err).Msg("fulfillment consumer stopped")
			return
		}
		w.log.Info().Msg("fulfillment worker stopped")
	}()
}

func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}

// Handle acknowledges every decodable job. Failed stages are left to the retry worker;
// only a shutdown mid-job asks for redelivery.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job domain.FulfillmentJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.log.Error().Err(err).Str("body", string(body)).Msg("dropping undecodable fulfillment message")
		return nil
	}

	log := w.log.With().Str("ticket_id", job.TicketID.String()).Str("code", job.Code).Logger()

	if _, err := w.fulfiller.Fulfill(ctx, job); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}

		stage := "unknown"
		var de *domain.DependencyError
		if errors.As(err, &de) {
			stage = de.Stage
		}
		metrics.FulfillmentFailed(stage)
		log.Error().Err(err).Str("stage", stage).Msg("ticket fulfillment failed")
		return nil
	}

	log.Info().Msg("ticket fulfilled")
	return nil
}
