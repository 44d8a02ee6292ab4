package port

import (
	"context"

	"github.com/printforge/commerce/internal/domain"
)

type OutboxRepository interface {
	Enqueue(ctx context.Context, topic string, payload any) error
	Pending(ctx context.Context, limit int) ([]domain.OutboxMessage, error)
	MarkProcessed(ctx context.Context, id int64) error
}
