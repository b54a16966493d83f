package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/core/ports"
)

const ticketCodeConstraint = "tickets_code_key"

const ticketColumns = `t.id, t.code, t.event_id, t.user_id, t.buyer_email, t.payment_id, t.price_paid, t.status, t.qr_url, t.validated_at, t.validated_by, t.created_at`

type TicketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) WithIssuance(ctx context.Context, fn func(tx ports.IssuanceTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StorageError("begin issuance", err)
	}

	defer tx.Rollback()

	itx := &issuanceTx{tx: tx}
	defer itx.close()

	if err := fn(itx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return domain.StorageError("commit issuance", err)
	}

	return nil
}

type issuanceTx struct {
	tx     *sql.Tx
	insert *sql.Stmt
}

func (t *issuanceTx) close() {
	if t.insert != nil {
		t.insert.Close()
	}
}

func (t *issuanceTx) Remaining(ctx context.Context, eventID uuid.UUID) (int, error) {
	var remaining int
	err := t.tx.QueryRowContext(ctx,
		`SELECT GREATEST(capacity - sold_count, 0) FROM events WHERE id = $1`, eventID,
	).Scan(&remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrEventNotFound
		}
		return 0, domain.StorageError("read remaining", err)
	}

	return remaining, nil
}

func (t *issuanceTx) Reserve(ctx context.Context, eventID uuid.UUID, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.NewValidationError("quantity", "must be a positive integer", domain.ErrInvalidQuantity)
	}

	query := `
	UPDATE events
	SET sold_count = sold_count + $1,
		updated_at = NOW()
	WHERE id = $2 AND sold_count + $1 <= capacity
	RETURNING sold_count
	`

	var soldCount int
	err := t.tx.QueryRowContext(ctx, query, quantity, eventID).Scan(&soldCount)
	if errors.Is(err, sql.ErrNoRows) {
		remaining, err := t.Remaining(ctx, eventID)
		if err != nil {
			return 0, err
		}
		return 0, &domain.CapacityError{EventID: eventID, Requested: quantity, Remaining: remaining}
	}
	if err != nil {
		return 0, domain.StorageError("reserve capacity", err)
	}

	return soldCount, nil
}

func (t *issuanceTx) InsertTicket(ctx context.Context, ticket *domain.Ticket) error {
	if t.insert == nil {
		stmt, err := t.tx.PrepareContext(ctx, `
		INSERT INTO tickets (id, code, event_id, user_id, buyer_email, payment_id, price_paid, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`)
		if err != nil {
			return domain.StorageError("prepare ticket insert", err)
		}
		t.insert = stmt
	}

	_, err := t.insert.ExecContext(ctx,
		ticket.ID,
		ticket.Code,
		ticket.EventID,
		ticket.UserID,
		ticket.BuyerEmail,
		ticket.PaymentID,
		ticket.PricePaid,
		ticket.Status,
		ticket.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, ticketCodeConstraint) {
			return fmt.Errorf("ticket %s: %w", ticket.Code, domain.ErrDuplicateCode)
		}
		return domain.StorageError(fmt.Sprintf("insert ticket %s", ticket.Code), err)
	}

	return nil
}

func (t *issuanceTx) ConsumePayment(ctx context.Context, paymentID uuid.UUID, amount decimal.Decimal) error {
	query := `
	UPDATE payments
	SET consumed = consumed + $1
	WHERE id = $2 AND consumed + $1 <= amount
	RETURNING consumed
	`

	var consumed decimal.Decimal
	err := t.tx.QueryRowContext(ctx, query, amount, paymentID).Scan(&consumed)
	if errors.Is(err, sql.ErrNoRows) {
		var balance decimal.Decimal
		err := t.tx.QueryRowContext(ctx, `SELECT amount - consumed FROM payments WHERE id = $1`, paymentID).Scan(&balance)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrPaymentNotFound
		}
		if err != nil {
			return domain.StorageError("read payment balance", err)
		}
		return domain.NewPaymentBalanceError(balance, amount)
	}
	if err != nil {
		return domain.StorageError("consume payment", err)
	}

	return nil
}

func scanTicket(row rowScanner, extra ...any) (*domain.Ticket, error) {
	var (
		ticket      domain.Ticket
		userID      sql.NullString
		paymentID   uuid.NullUUID
		qrURL       sql.NullString
		validatedAt sql.NullTime
		validatedBy sql.NullString
	)

	dest := []any{
		&ticket.ID,
		&ticket.Code,
		&ticket.EventID,
		&userID,
		&ticket.BuyerEmail,
		&paymentID,
		&ticket.PricePaid,
		&ticket.Status,
		&qrURL,
		&validatedAt,
		&validatedBy,
		&ticket.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if userID.Valid {
		ticket.UserID = &userID.String
	}
	if paymentID.Valid {
		ticket.PaymentID = &paymentID.UUID
	}
	if qrURL.Valid {
		ticket.QRURL = &qrURL.String
	}
	if validatedAt.Valid {
		ticket.ValidatedAt = &validatedAt.Time
	}
	if validatedBy.Valid {
		ticket.ValidatedBy = &validatedBy.String
	}

	return &ticket, nil
}

func (r *TicketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.code = $1`

	ticket, err := scanTicket(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, domain.StorageError("get ticket", err)
	}

	return ticket, nil
}

func (r *TicketRepository) GetViewByCode(ctx context.Context, code string) (*domain.TicketView, error) {
	query := `
	SELECT ` + ticketColumns + `, e.name, e.location, e.starts_at
	FROM tickets t
	JOIN events e ON e.id = t.event_id
	WHERE t.code = $1
	`

	var (
		view     domain.TicketView
		startsAt sql.NullTime
	)
	ticket, err := scanTicket(r.db.QueryRowContext(ctx, query, code), &view.EventName, &view.EventLocation, &startsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, domain.StorageError("get ticket view", err)
	}

	view.Ticket = *ticket
	if startsAt.Valid {
		view.EventStartsAt = &startsAt.Time
	}

	return &view, nil
}

func (r *TicketRepository) CheckIn(ctx context.Context, ticketID uuid.UUID, validation *domain.Validation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StorageError("begin check-in", err)
	}

	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
	UPDATE tickets
	SET status = $1,
		validated_at = $2,
		validated_by = $3
	WHERE id = $4 AND status = $5
	`, domain.TicketUsed, validation.ScannedAt, validation.ScannerID, ticketID, domain.TicketIssued)
	if err != nil {
		return domain.StorageError("mark ticket used", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.StorageError("mark ticket used", err)
	}

	if rowsAffected == 0 {
		return domain.ErrConflict
	}

	var meta sql.NullString
	if len(validation.Meta) > 0 {
		raw, err := json.Marshal(validation.Meta)
		if err != nil {
			return domain.NewValidationError("meta", "must be JSON encodable", err)
		}
		meta = sql.NullString{String: string(raw), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO validations (id, ticket_id, event_id, scanner_id, scanned_at, location, meta_json)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, validation.ID, ticketID, validation.EventID, validation.ScannerID, validation.ScannedAt, validation.Location, meta)
	if err != nil {
		return domain.StorageError("insert validation", err)
	}

	if err = tx.Commit(); err != nil {
		return domain.StorageError("commit check-in", err)
	}

	return nil
}

func (r *TicketRepository) UpdateQRURL(ctx context.Context, ticketID uuid.UUID, url string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tickets SET qr_url = $1 WHERE id = $2`, url, ticketID)
	if err != nil {
		return domain.StorageError("update qr url", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.StorageError("update qr url", err)
	}
	if rowsAffected == 0 {
		return domain.ErrTicketNotFound
	}

	return nil
}

func (r *TicketRepository) ListPendingFulfillment(ctx context.Context, olderThan time.Time, maxAttempts, limit int) ([]domain.FulfillmentJob, error) {
	query := `
	SELECT t.id, t.code, t.event_id, e.name, t.buyer_email, t.qr_url
	FROM tickets t
	JOIN events e ON e.id = t.event_id
	WHERE t.fulfilled_at IS NULL AND t.created_at < $1 AND t.fulfillment_attempts < $2
	ORDER BY t.fulfillment_attempts, t.created_at
	LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, olderThan, maxAttempts, limit)
	if err != nil {
		return nil, domain.StorageError("list pending fulfillment", err)
	}

	defer rows.Close()

	var jobs []domain.FulfillmentJob
	for rows.Next() {
		var (
			job   domain.FulfillmentJob
			qrURL sql.NullString
		)
		if err := rows.Scan(&job.TicketID, &job.Code, &job.EventID, &job.EventName, &job.BuyerEmail, &qrURL); err != nil {
			return nil, domain.StorageError("scan pending fulfillment", err)
		}
		job.QRURL = qrURL.String

		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

func (r *TicketRepository) MarkFulfilled(ctx context.Context, ticketID uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tickets SET fulfilled_at = $1 WHERE id = $2 AND fulfilled_at IS NULL`, at, ticketID)
	if err != nil {
		return domain.StorageError("mark ticket fulfilled", err)
	}

	return nil
}

func (r *TicketRepository) RecordFulfillmentFailure(ctx context.Context, ticketID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tickets SET fulfillment_attempts = fulfillment_attempts + 1 WHERE id = $1`, ticketID)
	if err != nil {
		return domain.StorageError("record fulfillment failure", err)
	}

	return nil
}

func (r *TicketRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, int, error) {
	query := `
	SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'used')
	FROM tickets
	WHERE event_id = $1
	`

	var total, used int
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&total, &used); err != nil {
		return 0, 0, domain.StorageError("count tickets", err)
	}

	return total, used, nil
}

func (r *TicketRepository) ListValidations(ctx context.Context, ticketID uuid.UUID) ([]domain.Validation, error) {
	query := `
	SELECT id, ticket_id, event_id, scanner_id, scanned_at, location, meta_json
	FROM validations
	WHERE ticket_id = $1
	ORDER BY scanned_at
	`

	rows, err := r.db.QueryContext(ctx, query, ticketID)
	if err != nil {
		return nil, domain.StorageError("list validations", err)
	}

	defer rows.Close()

	var validations []domain.Validation
	for rows.Next() {
		var (
			v    domain.Validation
			meta []byte
		)
		if err := rows.Scan(&v.ID, &v.TicketID, &v.EventID, &v.ScannerID, &v.ScannedAt, &v.Location, &meta); err != nil {
			return nil, domain.StorageError("scan validation", err)
		}

		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &v.Meta); err != nil {
				return nil, domain.StorageError("decode validation meta", err)
			}
		}

		validations = append(validations, v)
	}

	return validations, rows.Err()
}
