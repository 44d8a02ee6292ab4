package repository_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/printforge/commerce/internal/domain"
	"github.com/printforge/commerce/internal/port"
	"github.com/printforge/commerce/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/currency"
)

type paymentRepositorySuite struct {
	suite.Suite

	repo   port.PaymentRepository
	orders port.OrderRepository
	pool   *pgxpool.Pool
}

func TestPaymentRepositorySuite(t *testing.T) {
	suite.Run(t, new(paymentRepositorySuite))
}

func (suite *paymentRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	suite.repo = repository.NewPayment(suite.pool)
	suite.orders = repository.NewOrder(suite.pool)
}

func (suite *paymentRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *paymentRepositorySuite) TestInsertAndGet() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	order := suite.createOrder(gofakeit.UUID())
	payment := fakePayment(order.ID)

	require.NoError(t, suite.repo.Insert(ctx, payment))

	got, err := suite.repo.GetByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, got.ID)
	assert.Equal(t, payment.GatewayOrderID, got.GatewayOrderID)
	assert.Equal(t, domain.PaymentStatusInitiated, got.Status)
	assert.True(t, payment.Amount.Amount.Equal(got.Amount.Amount))
	assert.Nil(t, got.GatewayPaymentID)
}

func (suite *paymentRepositorySuite) TestOnePaymentPerOrder() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	order := suite.createOrder(gofakeit.UUID())
	require.NoError(t, suite.repo.Insert(ctx, fakePayment(order.ID)))

	err := suite.repo.Insert(ctx, fakePayment(order.ID))
	require.Error(t, err)
	assert.True(t, repository.IsUniqueViolation(err, "payments_order_id_key"))
}

func (suite *paymentRepositorySuite) TestGetForUser() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	userID := gofakeit.UUID()
	order := suite.createOrder(userID)
	payment := fakePayment(order.ID)
	require.NoError(t, suite.repo.Insert(ctx, payment))

	got, err := suite.repo.GetForUser(ctx, order.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, got.ID)

	_, err = suite.repo.GetForUser(ctx, order.ID, gofakeit.UUID())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *paymentRepositorySuite) TestLockByGatewayOrderID() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	order := suite.createOrder(gofakeit.UUID())
	payment := fakePayment(order.ID)
	require.NoError(t, suite.repo.Insert(ctx, payment))

	got, err := suite.repo.LockByGatewayOrderID(ctx, payment.GatewayOrderID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, got.ID)

	_, err = suite.repo.LockByGatewayOrderID(ctx, "order_never_created")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *paymentRepositorySuite) TestSetStatus() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	order := suite.createOrder(gofakeit.UUID())
	payment := fakePayment(order.ID)
	require.NoError(t, suite.repo.Insert(ctx, payment))

	gatewayPaymentID := "pay_123"
	require.NoError(t, suite.repo.SetStatus(ctx, payment.ID, domain.PaymentStatusCaptured, &gatewayPaymentID))

	got, err := suite.repo.GetByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCaptured, got.Status)
	require.NotNil(t, got.GatewayPaymentID)
	assert.Equal(t, gatewayPaymentID, *got.GatewayPaymentID)
}

// A nil gateway payment id must not erase a previously stored one.
func (suite *paymentRepositorySuite) TestSetStatusKeepsGatewayPaymentID() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	order := suite.createOrder(gofakeit.UUID())
	payment := fakePayment(order.ID)
	require.NoError(t, suite.repo.Insert(ctx, payment))

	gatewayPaymentID := "pay_123"
	require.NoError(t, suite.repo.SetStatus(ctx, payment.ID, domain.PaymentStatusAuthorized, &gatewayPaymentID))
	require.NoError(t, suite.repo.SetStatus(ctx, payment.ID, domain.PaymentStatusCaptured, nil))

	got, err := suite.repo.GetByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GatewayPaymentID)
	assert.Equal(t, gatewayPaymentID, *got.GatewayPaymentID)
}

func (suite *paymentRepositorySuite) TestSetStatusNotFound() {
	t := suite.T()

	err := suite.repo.SetStatus(t.Context(), uuid.New(), domain.PaymentStatusFailed, nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *paymentRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE payments, order_items, orders CASCADE")
	suite.NoError(err)
}

func (suite *paymentRepositorySuite) createOrder(userID string) domain.Order {
	order := fakeOrder(userID)
	suite.NoError(suite.orders.Create(suite.T().Context(), order))
	return order
}

func fakePayment(orderID uuid.UUID) domain.Payment {
	return domain.Payment{
		ID:             uuid.New(),
		OrderID:        orderID,
		Amount:         domain.Money{Amount: decimal.RequireFromString("42.00"), Currency: currency.USD},
		Gateway:        "razorpay",
		GatewayOrderID: "order_" + gofakeit.LetterN(14),
		Status:         domain.PaymentStatusInitiated,
		CreatedAt:      time.Now().UTC(),
	}
}
