package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/printforge/commerce/internal/domain"
	"github.com/printforge/commerce/internal/port"
	"github.com/printforge/commerce/internal/repository"
)

// CheckoutService is the order ledger: it turns a mutable cart into an
// immutable, price-frozen order inside a single transaction.
type CheckoutService struct {
	pool   *pgxpool.Pool
	audit  port.AuditSink
	logger *slog.Logger
}

func NewCheckoutService(pool *pgxpool.Pool, audit port.AuditSink, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{pool: pool, audit: audit, logger: logger}
}

type checkoutResult struct {
	order   domain.Order
	created bool
}

// Checkout creates the order for (userID, idempotencyKey), or returns the
// existing one unchanged on replay. The returned bool reports whether a new
// order was created.
//
// The storage-level unique constraint on (user_id, idempotency_key) is the
// real deduplication guarantee; the in-transaction lookup is an optimization.
// A concurrent loser of that constraint re-reads and returns the winner's row.
func (s *CheckoutService) Checkout(ctx context.Context, userID, idempotencyKey, ip string) (domain.Order, bool, error) {
	if userID == "" || idempotencyKey == "" {
		return domain.Order{}, false, fmt.Errorf("userID and idempotencyKey are required: %w", domain.ErrValidation)
	}

	result, err := repository.WithTx(ctx, s.pool, func(tx pgx.Tx) (checkoutResult, error) {
		return s.checkoutTx(ctx, tx, userID, idempotencyKey)
	})
	if err != nil {
		if repository.IsUniqueViolation(err, "orders_user_id_idempotency_key_key") {
			// Lost the race to a concurrent request with the same key:
			// the winner's order is the caller's order.
			order, readErr := repository.NewOrder(s.pool).GetByUserAndKey(ctx, userID, idempotencyKey)
			if readErr != nil {
				return domain.Order{}, false, fmt.Errorf("re-read after duplicate checkout: %w", readErr)
			}
			return order, false, nil
		}
		return domain.Order{}, false, err
	}

	if result.created {
		s.audit.Record(ctx, domain.AuditEntry{
			Actor:    userID,
			Action:   domain.AuditActionCheckoutCompleted,
			Entity:   "order",
			EntityID: result.order.ID.String(),
			IP:       ip,
			Metadata: map[string]any{
				"idempotency_key": idempotencyKey,
				"total":           result.order.Total.Amount.StringFixed(2),
				"currency":        result.order.Total.Currency.String(),
			},
		})
		s.logger.Info("checkout completed",
			"user_id", userID, "order_id", result.order.ID, "total", result.order.Total.String())
	} else {
		s.logger.Info("checkout replayed",
			"user_id", userID, "order_id", result.order.ID, "idempotency_key", idempotencyKey)
	}

	return result.order, result.created, nil
}

func (s *CheckoutService) checkoutTx(ctx context.Context, tx pgx.Tx, userID, idempotencyKey string) (checkoutResult, error) {
	orders := repository.NewOrderWithTx(tx)

	existing, err := orders.GetByUserAndKey(ctx, userID, idempotencyKey)
	if err == nil {
		return checkoutResult{order: existing, created: false}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return checkoutResult{}, fmt.Errorf("orders.GetByUserAndKey: %w", err)
	}

	carts := repository.NewCartWithTx(tx)
	detailed, err := carts.GetCartDetailed(ctx, userID)
	if err != nil {
		return checkoutResult{}, fmt.Errorf("carts.GetCartDetailed: %w", err)
	}

	items, total, err := SnapshotPrices(detailed)
	if err != nil {
		return checkoutResult{}, err
	}

	address, err := repository.NewAddressWithTx(tx).DefaultForUser(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return checkoutResult{}, fmt.Errorf("addresses.DefaultForUser: %w", err)
	}

	order := domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		IdempotencyKey:  idempotencyKey,
		Subtotal:        total,
		Total:           total, // no tax or shipping at this stage
		Status:          domain.OrderStatusCreated,
		ShippingAddress: address,
		Items:           items,
		CreatedAt:       time.Now().UTC(),
	}

	if err := orders.Create(ctx, order); err != nil {
		return checkoutResult{}, fmt.Errorf("orders.Create: %w", err)
	}

	// Cart is consumed exactly once, in the same transaction as the order
	// insert: either both happen or neither does.
	if err := carts.ClearCart(ctx, userID); err != nil {
		return checkoutResult{}, fmt.Errorf("carts.ClearCart: %w", err)
	}

	return checkoutResult{order: order, created: true}, nil
}

// GetOrder is an ownership-filtered order read.
func (s *CheckoutService) GetOrder(ctx context.Context, userID string, orderID uuid.UUID) (domain.Order, error) {
	return repository.NewOrder(s.pool).GetForUser(ctx, orderID, userID)
}
