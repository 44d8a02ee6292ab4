package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/printforge/commerce/internal/domain"
	"github.com/printforge/commerce/internal/port"
)

type outboxRepository struct {
	db DBTX
}

func NewOutbox(pool *pgxpool.Pool) port.OutboxRepository {
	return &outboxRepository{db: pool}
}

func NewOutboxWithTx(tx pgx.Tx) port.OutboxRepository {
	return &outboxRepository{db: tx}
}

func (r *outboxRepository) Enqueue(ctx context.Context, topic string, payload any) error {
	if topic == "" {
		return fmt.Errorf("topic is empty")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if _, err := r.db.Exec(ctx, `INSERT INTO outbox (topic, payload) VALUES ($1, $2)`, topic, body); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (r *outboxRepository) Pending(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, topic, payload, created_at, processed_at
		FROM outbox
		WHERE processed_at IS NULL
		ORDER BY id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var messages []domain.OutboxMessage
	for rows.Next() {
		var msg domain.OutboxMessage
		if err := rows.Scan(&msg.ID, &msg.Topic, &msg.Payload, &msg.CreatedAt, &msg.ProcessedAt); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return messages, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `UPDATE outbox SET processed_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}
