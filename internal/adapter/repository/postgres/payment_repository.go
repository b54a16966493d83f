package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/srgjo27/event_ticket/internal/core/domain"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
	INSERT INTO payments (id, event_id, user_id, provider, provider_ref, amount, currency, status, paid_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.EventID,
		payment.UserID,
		payment.Provider,
		payment.ProviderRef,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.PaidAt,
		payment.CreatedAt,
	)
	if err != nil {
		return domain.StorageError("insert payment", err)
	}

	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	query := `
	SELECT id, event_id, user_id, provider, provider_ref, amount, consumed, currency, status, paid_at, created_at
	FROM payments
	WHERE id = $1
	`

	var (
		payment domain.Payment
		eventID uuid.NullUUID
		userID  sql.NullString
		paidAt  sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, paymentID).Scan(
		&payment.ID,
		&eventID,
		&userID,
		&payment.Provider,
		&payment.ProviderRef,
		&payment.Amount,
		&payment.Consumed,
		&payment.Currency,
		&payment.Status,
		&paidAt,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, domain.StorageError("get payment", err)
	}

	if eventID.Valid {
		payment.EventID = &eventID.UUID
	}
	if userID.Valid {
		payment.UserID = &userID.String
	}
	if paidAt.Valid {
		payment.PaidAt = &paidAt.Time
	}

	return &payment, nil
}
