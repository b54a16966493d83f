package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/srgjo27/event_ticket/internal/core/domain"
)

const eventColumns = `id, name, location, starts_at, capacity, sold_count, ticket_price, status, organizer_id, created_at, updated_at`

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var event domain.Event
	var startsAt sql.NullTime

	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Location,
		&startsAt,
		&event.Capacity,
		&event.SoldCount,
		&event.TicketPrice,
		&event.Status,
		&event.OrganizerID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if startsAt.Valid {
		event.StartsAt = &startsAt.Time
	}

	return &event, nil
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
	INSERT INTO events (` + eventColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Name,
		event.Location,
		event.StartsAt,
		event.Capacity,
		event.SoldCount,
		event.TicketPrice,
		event.Status,
		event.OrganizerID,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return domain.StorageError("insert event", err)
	}

	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, domain.StorageError("get event", err)
	}

	return event, nil
}

func (r *EventRepository) List(ctx context.Context, organizerID string) ([]domain.Event, error) {
	query := `
	SELECT ` + eventColumns + `
	FROM events
	WHERE $1 = '' OR organizer_id = $1
	ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, domain.StorageError("list events", err)
	}

	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, domain.StorageError("scan event", err)
		}

		events = append(events, *event)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list events", err)
	}

	return events, nil
}

// Update never writes sold_count. The capacity guard is evaluated against the
// row at write time so a concurrent issuance cannot be stranded above capacity.
func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	query := `
	UPDATE events
	SET name = $1,
		location = $2,
		starts_at = $3,
		capacity = $4,
		ticket_price = $5,
		status = $6,
		updated_at = $7
	WHERE id = $8 AND sold_count <= $4
	RETURNING sold_count
	`

	err := r.db.QueryRowContext(ctx, query,
		event.Name,
		event.Location,
		event.StartsAt,
		event.Capacity,
		event.TicketPrice,
		event.Status,
		event.UpdatedAt,
		event.ID,
	).Scan(&event.SoldCount)

	if errors.Is(err, sql.ErrNoRows) {
		if _, err := r.GetByID(ctx, event.ID); err != nil {
			return err
		}
		return domain.NewValidationError("capacity", "must not be below sold count", nil)
	}
	if err != nil {
		return domain.StorageError("update event", err)
	}

	return nil
}
