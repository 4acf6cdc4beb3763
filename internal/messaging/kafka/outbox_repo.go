package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *outboxRepository) conn() execer {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox event id is required")
	}
	if event.Status == "" {
		event.Status = OutboxStatusPending
	}

	_, err := r.conn().ExecContext(ctx, `
		INSERT INTO outbox_events
			(id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status, retry_count, next_retry_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, now(), now(), now())
	`,
		event.ID,
		event.RequestID,
		event.AggregateType,
		event.AggregateID,
		event.EventType,
		event.Topic,
		event.Payload,
		event.Status,
	)
	return err
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.conn().QueryContext(ctx, `
		SELECT id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status, retry_count
		FROM outbox_events
		WHERE status = $1 AND next_retry_at <= now()
		ORDER BY created_at ASC
		LIMIT $2
	`, OutboxStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(
			&e.ID,
			&e.RequestID,
			&e.AggregateType,
			&e.AggregateID,
			&e.EventType,
			&e.Topic,
			&e.Payload,
			&e.Status,
			&e.RetryCount,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	res, err := r.conn().ExecContext(ctx, `
		UPDATE outbox_events SET status = $1, updated_at = now() WHERE id = $2
	`, OutboxStatusSent, id)
	if err != nil {
		return err
	}
	return ensureAffected(res, id)
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	// Retry dengan backoff bertingkat; setelah 5x percobaan event ditandai failed permanen.
	res, err := r.conn().ExecContext(ctx, `
		UPDATE outbox_events
		SET retry_count = retry_count + 1,
		    last_error = $1,
		    status = CASE WHEN retry_count + 1 >= 5 THEN $2 ELSE status END,
		    next_retry_at = now() + (interval '1 minute' * (retry_count + 1)),
		    updated_at = now()
		WHERE id = $3
	`, reason, OutboxStatusFailed, id)
	if err != nil {
		return err
	}
	return ensureAffected(res, id)
}

func ensureAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("outbox event %s not found", id)
	}
	return nil
}
