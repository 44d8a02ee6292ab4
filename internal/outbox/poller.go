package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/printforge/commerce/internal/domain"
	"github.com/printforge/commerce/internal/port"
)

// Poller delivers side effects recorded in the outbox table: invoice
// generation and notification publishing. Rows that fail stay unprocessed
// and are retried on the next tick, so delivery is at-least-once and every
// handler must be idempotent.
type Poller struct {
	repo     port.OutboxRepository
	invoices port.InvoiceGenerator
	notifier port.Notifier
	tick     time.Duration
	batch    int
	logger   *slog.Logger
}

func NewPoller(repo port.OutboxRepository, invoices port.InvoiceGenerator, notifier port.Notifier, logger *slog.Logger) *Poller {
	return &Poller{
		repo:     repo,
		invoices: invoices,
		notifier: notifier,
		tick:     time.Second,
		batch:    100,
		logger:   logger,
	}
}

func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.ProcessPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// ProcessPending drains one batch of unprocessed messages.
func (p *Poller) ProcessPending(ctx context.Context) {
	messages, err := p.repo.Pending(ctx, p.batch)
	if err != nil {
		p.logger.Error("outbox: fetch pending", "error", err)
		return
	}

	for _, msg := range messages {
		if err := p.dispatch(ctx, msg); err != nil {
			p.logger.Error("outbox: dispatch failed, will retry",
				"id", msg.ID, "topic", msg.Topic, "error", err)
			continue
		}

		if err := p.repo.MarkProcessed(ctx, msg.ID); err != nil {
			p.logger.Error("outbox: mark processed", "id", msg.ID, "error", err)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, msg domain.OutboxMessage) error {
	switch msg.Topic {
	case domain.TopicInvoiceRequested:
		var req domain.InvoiceRequested
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return fmt.Errorf("unmarshal invoice request: %w", err)
		}
		orderID, err := uuid.Parse(req.OrderID)
		if err != nil {
			return fmt.Errorf("parse order id %q: %w", req.OrderID, err)
		}
		return p.invoices.Generate(ctx, orderID)

	case domain.TopicNotification:
		var note domain.Notification
		if err := json.Unmarshal(msg.Payload, &note); err != nil {
			return fmt.Errorf("unmarshal notification: %w", err)
		}
		return p.notifier.Publish(ctx, note.OrderID, msg.Payload)

	default:
		return fmt.Errorf("unknown outbox topic %q", msg.Topic)
	}
}
