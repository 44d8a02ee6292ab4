package service

import (
	"context"
	"encoding/json"
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

// PaymentService owns the payment lifecycle: opening intents on the gateway
// and reconciling confirmation events from both trust channels through one
// state machine.
type PaymentService struct {
	pool        *pgxpool.Pool
	gw          port.PaymentGateway
	gatewayName string
	verifier    port.SignatureVerifier
	audit       port.AuditSink
	logger      *slog.Logger
}

func NewPaymentService(
	pool *pgxpool.Pool,
	gw port.PaymentGateway,
	gatewayName string,
	verifier port.SignatureVerifier,
	audit port.AuditSink,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		pool:        pool,
		gw:          gw,
		gatewayName: gatewayName,
		verifier:    verifier,
		audit:       audit,
		logger:      logger,
	}
}

// Initiate opens a payment intent for the order. The amount is always read
// from the stored order row, never from the request. Calling it again for
// the same order returns the stored intent instead of opening a new one.
func (s *PaymentService) Initiate(ctx context.Context, userID string, orderID uuid.UUID, ip string) (domain.Payment, error) {
	order, err := repository.NewOrder(s.pool).GetForUser(ctx, orderID, userID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("orders.GetForUser: %w", err)
	}

	payments := repository.NewPayment(s.pool)
	existing, err := payments.GetByOrderID(ctx, orderID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Payment{}, fmt.Errorf("payments.GetByOrderID: %w", err)
	}

	if order.Status.IsTerminal() {
		return domain.Payment{}, fmt.Errorf("order %s is already %s: %w", orderID, order.Status, domain.ErrValidation)
	}

	// The gateway call happens before the payment row is persisted. A crash
	// between the two leaves an orphan intent at the gateway and no local
	// row; the receipt carries our order id so the duplicate is traceable.
	gatewayOrderID, err := s.gw.CreateIntent(ctx, order.ID.String(), order.Total)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("gateway.CreateIntent: %w", err)
	}

	payment := domain.Payment{
		ID:             uuid.New(),
		OrderID:        orderID,
		Amount:         order.Total,
		Gateway:        s.gatewayName,
		GatewayOrderID: gatewayOrderID,
		Status:         domain.PaymentStatusInitiated,
		CreatedAt:      time.Now().UTC(),
	}

	_, err = repository.WithTx(ctx, s.pool, func(tx pgx.Tx) (struct{}, error) {
		if err := repository.NewPaymentWithTx(tx).Insert(ctx, payment); err != nil {
			return struct{}{}, err
		}
		if order.Status.CanTransitionTo(domain.OrderStatusPaymentPending) {
			if err := repository.NewOrderWithTx(tx).UpdateStatus(ctx, orderID, domain.OrderStatusPaymentPending); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		if repository.IsUniqueViolation(err, "payments_order_id_key") {
			// A concurrent initiate won; return its payment.
			winner, readErr := payments.GetByOrderID(ctx, orderID)
			if readErr != nil {
				return domain.Payment{}, fmt.Errorf("re-read after duplicate initiate: %w", readErr)
			}
			return winner, nil
		}
		return domain.Payment{}, err
	}

	s.audit.Record(ctx, domain.AuditEntry{
		Actor:    userID,
		Action:   domain.AuditActionPaymentInitiated,
		Entity:   "payment",
		EntityID: payment.ID.String(),
		IP:       ip,
		Metadata: map[string]any{
			"order_id":         orderID.String(),
			"gateway_order_id": gatewayOrderID,
			"amount":           order.Total.Amount.StringFixed(2),
		},
	})
	s.logger.Info("payment initiated",
		"order_id", orderID, "gateway_order_id", gatewayOrderID, "amount", order.Total.String())

	return payment, nil
}

// Status is an ownership-checked read of the payment for an order.
func (s *PaymentService) Status(ctx context.Context, userID string, orderID uuid.UUID) (domain.Payment, error) {
	return repository.NewPayment(s.pool).GetForUser(ctx, orderID, userID)
}

// VerifyClientCallback is the synchronous trust channel: the values the
// gateway handed back to the client after payment. A valid signature implies
// the payment was captured.
func (s *PaymentService) VerifyClientCallback(ctx context.Context, userID, gatewayOrderID, gatewayPaymentID, signature, ip string) error {
	if !s.verifier.VerifyClientCallback(gatewayOrderID, gatewayPaymentID, signature) {
		s.rejectSignature(ctx, userID, "client", gatewayOrderID, ip)
		return domain.ErrSignatureInvalid
	}

	return s.Reconcile(ctx, "client", gatewayOrderID, domain.GatewayEventCaptured, gatewayPaymentID, ip)
}

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		OrderID   string `json:"order_id"`
		PaymentID string `json:"payment_id"`
	} `json:"payload"`
}

// HandleWebhook is the asynchronous trust channel. The signature over the
// raw body is the entire trust boundary; nothing mutates state before it
// passes.
func (s *PaymentService) HandleWebhook(ctx context.Context, rawBody []byte, signature, ip string) error {
	if !s.verifier.VerifyWebhook(rawBody, signature) {
		s.rejectSignature(ctx, "gateway", "webhook", "", ip)
		return domain.ErrSignatureInvalid
	}

	var env webhookEnvelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return fmt.Errorf("unmarshal webhook body: %w: %w", domain.ErrValidation, err)
	}
	if env.Payload.OrderID == "" {
		return fmt.Errorf("webhook payload has no order id: %w", domain.ErrValidation)
	}

	return s.Reconcile(ctx, "webhook", env.Payload.OrderID, domain.GatewayEvent(env.Event), env.Payload.PaymentID, ip)
}

// Reconcile applies one gateway event to the payment and order, exactly once
// no matter how often or through which channel it is delivered. Idempotence
// comes from re-checking the status on the locked row inside the
// transaction: the first committer wins and later deliveries observe a
// terminal status and no-op.
func (s *PaymentService) Reconcile(ctx context.Context, channel, gatewayOrderID string, event domain.GatewayEvent, gatewayPaymentID, ip string) error {
	target, ok := event.TargetStatus()
	if !ok {
		return fmt.Errorf("unknown gateway event %q: %w", event, domain.ErrValidation)
	}

	applied, err := repository.WithTx(ctx, s.pool, func(tx pgx.Tx) (bool, error) {
		payments := repository.NewPaymentWithTx(tx)

		payment, err := payments.LockByGatewayOrderID(ctx, gatewayOrderID)
		if errors.Is(err, domain.ErrNotFound) {
			return false, fmt.Errorf("gateway order %s: %w", gatewayOrderID, domain.ErrUnknownPayment)
		}
		if err != nil {
			return false, fmt.Errorf("payments.LockByGatewayOrderID: %w", err)
		}

		// Status re-check under the row lock: the losing side of a
		// cross-channel race lands here after the winner committed.
		if payment.Status == target || payment.Status.IsTerminal() {
			s.logger.Info("reconcile no-op",
				"channel", channel, "gateway_order_id", gatewayOrderID,
				"event", event, "status", payment.Status)
			return false, nil
		}
		if !payment.Status.CanTransitionTo(target) {
			return false, fmt.Errorf("payment %s: %s -> %s: %w",
				payment.ID, payment.Status, target, domain.ErrIllegalTransition)
		}

		var paymentID *string
		if gatewayPaymentID != "" {
			paymentID = &gatewayPaymentID
		}
		if err := payments.SetStatus(ctx, payment.ID, target, paymentID); err != nil {
			return false, fmt.Errorf("payments.SetStatus: %w", err)
		}

		switch target {
		case domain.PaymentStatusCaptured:
			return true, s.settle(ctx, tx, payment.OrderID, domain.OrderStatusPaid, domain.NotificationOrderPaid, true)
		case domain.PaymentStatusFailed:
			return true, s.settle(ctx, tx, payment.OrderID, domain.OrderStatusPaymentFailed, domain.NotificationPaymentFailed, false)
		default:
			// AUTHORIZED: payment progressed, order stays pending.
			return true, nil
		}
	})
	if err != nil {
		return err
	}

	if applied {
		s.audit.Record(ctx, domain.AuditEntry{
			Actor:    channel,
			Action:   domain.AuditActionPaymentReconciled,
			Entity:   "payment",
			EntityID: gatewayOrderID,
			IP:       ip,
			Metadata: map[string]any{"event": string(event), "status": target.String()},
		})
		s.logger.Info("payment reconciled",
			"channel", channel, "gateway_order_id", gatewayOrderID, "event", event, "status", target)
	}

	return nil
}

// settle flips the order status and enqueues the downstream side effects in
// the same transaction. Delivery happens asynchronously via the outbox, so a
// failing notification can never roll back a financial state change.
func (s *PaymentService) settle(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status domain.OrderStatus, notification string, withInvoice bool) error {
	orders := repository.NewOrderWithTx(tx)

	order, err := orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("orders.GetByID: %w", err)
	}
	if !order.Status.CanTransitionTo(status) {
		return fmt.Errorf("order %s: %s -> %s: %w", orderID, order.Status, status, domain.ErrIllegalTransition)
	}
	if err := orders.UpdateStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("orders.UpdateStatus: %w", err)
	}

	outbox := repository.NewOutboxWithTx(tx)
	if withInvoice {
		err := outbox.Enqueue(ctx, domain.TopicInvoiceRequested, domain.InvoiceRequested{OrderID: orderID.String()})
		if err != nil {
			return fmt.Errorf("outbox.Enqueue invoice: %w", err)
		}
	}

	err = outbox.Enqueue(ctx, domain.TopicNotification, domain.Notification{
		Event:   notification,
		OrderID: orderID.String(),
		UserID:  order.UserID,
	})
	if err != nil {
		return fmt.Errorf("outbox.Enqueue notification: %w", err)
	}

	return nil
}

func (s *PaymentService) rejectSignature(ctx context.Context, actor, channel, gatewayOrderID, ip string) {
	s.audit.Record(ctx, domain.AuditEntry{
		Actor:    actor,
		Action:   domain.AuditActionSignatureRejected,
		Entity:   "payment",
		EntityID: gatewayOrderID,
		IP:       ip,
		Metadata: map[string]any{"channel": channel},
	})
	s.logger.Warn("signature rejected", "channel", channel, "gateway_order_id", gatewayOrderID, "ip", ip)
}
