package service_test

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/printforge/commerce/internal/domain"
	"github.com/printforge/commerce/internal/repository"
	"github.com/printforge/commerce/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type checkoutServiceSuite struct {
	suite.Suite

	pool    *pgxpool.Pool
	service *service.CheckoutService
}

func TestCheckoutServiceSuite(t *testing.T) {
	suite.Run(t, new(checkoutServiceSuite))
}

func (suite *checkoutServiceSuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.service = service.NewCheckoutService(suite.pool, repository.NewAudit(suite.pool, logger), logger)
}

func (suite *checkoutServiceSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *checkoutServiceSuite) TestCheckout() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	userID := gofakeit.UUID()

	productID := suite.seedProduct("Servo", "19.99", true)
	materialID := suite.seedMaterial("PLA", "0.00", true)
	suite.addCartItem(userID, productID, materialID, 3)
	suite.seedDefaultAddress(userID, "Ada Lovelace")

	order, created, err := suite.service.Checkout(ctx, userID, "key-1", "127.0.0.1")
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, domain.OrderStatusCreated, order.Status)
	assert.Equal(t, "59.97", order.Total.Amount.StringFixed(2))
	assert.Equal(t, "Ada Lovelace", order.ShippingAddress.FullName)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Servo", order.Items[0].ProductName)
	assert.Equal(t, "59.97", order.Items[0].LineTotal.StringFixed(2))

	// Cart is consumed in the same transaction
	cart, err := repository.NewCart(suite.pool).GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func (suite *checkoutServiceSuite) TestCheckoutReplay() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	userID := gofakeit.UUID()

	suite.addCartItem(userID, suite.seedProduct("Bracket", "12.50", true), suite.seedMaterial("Carbon", "4.25", true), 2)

	first, created, err := suite.service.Checkout(ctx, userID, "key-replay", "127.0.0.1")
	require.NoError(t, err)
	require.True(t, created)

	// The cart is empty now; a replay must return the stored order instead
	// of failing on the empty cart.
	second, created, err := suite.service.Checkout(ctx, userID, "key-replay", "127.0.0.1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Total.Amount.StringFixed(2), second.Total.Amount.StringFixed(2))
}

func (suite *checkoutServiceSuite) TestCheckoutEmptyCart() {
	t := suite.T()

	_, _, err := suite.service.Checkout(t.Context(), gofakeit.UUID(), "key-empty", "127.0.0.1")
	require.ErrorIs(t, err, domain.ErrEmptyCart)
}

func (suite *checkoutServiceSuite) TestCheckoutInactiveProduct() {
	defer suite.deleteAll()

	t := suite.T()
	userID := gofakeit.UUID()

	suite.addCartItem(userID, suite.seedProduct("Retired", "5.00", false), suite.seedMaterial("PLA", "0.00", true), 1)

	_, _, err := suite.service.Checkout(t.Context(), userID, "key-inactive", "127.0.0.1")

	var inactive *domain.InactiveItemError
	require.ErrorAs(t, err, &inactive)
	assert.Equal(t, "product", inactive.Kind)
}

func (suite *checkoutServiceSuite) TestCheckoutValidation() {
	t := suite.T()

	_, _, err := suite.service.Checkout(t.Context(), "", "key", "127.0.0.1")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = suite.service.Checkout(t.Context(), gofakeit.UUID(), "", "127.0.0.1")
	require.ErrorIs(t, err, domain.ErrValidation)
}

// Catalog price changes after checkout must not leak into the stored order.
func (suite *checkoutServiceSuite) TestOrderPricesFrozen() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	userID := gofakeit.UUID()

	productID := suite.seedProduct("Gear", "3.00", true)
	suite.addCartItem(userID, productID, suite.seedMaterial("PLA", "0.50", true), 2)

	order, _, err := suite.service.Checkout(ctx, userID, "key-frozen", "127.0.0.1")
	require.NoError(t, err)
	require.Equal(t, "7.00", order.Total.Amount.StringFixed(2))

	_, err = suite.pool.Exec(ctx, "UPDATE products SET base_price = 99.99 WHERE id = $1", productID)
	require.NoError(t, err)

	reread, err := suite.service.GetOrder(ctx, userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "7.00", reread.Total.Amount.StringFixed(2))
	assert.Equal(t, "3.00", reread.Items[0].BasePrice.StringFixed(2))
}

// Concurrent requests with the same key must produce exactly one order.
func (suite *checkoutServiceSuite) TestCheckoutConcurrentSameKey() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	userID := gofakeit.UUID()

	suite.addCartItem(userID, suite.seedProduct("Mount", "8.00", true), suite.seedMaterial("PETG", "1.00", true), 1)

	const workers = 8

	var wg sync.WaitGroup
	orderIDs := make([]uuid.UUID, workers)
	createdFlags := make([]bool, workers)
	errs := make([]error, workers)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order, created, err := suite.service.Checkout(ctx, userID, "key-race", "127.0.0.1")
			orderIDs[i] = order.ID
			createdFlags[i] = created
			errs[i] = err
		}()
	}
	wg.Wait()

	createdCount := 0
	for i := range workers {
		require.NoError(t, errs[i])
		assert.Equal(t, orderIDs[0], orderIDs[i])
		if createdFlags[i] {
			createdCount++
		}
	}
	assert.Equal(t, 1, createdCount)

	var count int
	err := suite.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders WHERE user_id = $1", userID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func (suite *checkoutServiceSuite) deleteAll() {
	ctx := suite.T().Context()

	_, err := suite.pool.Exec(ctx, `
		TRUNCATE TABLE order_items, orders, cart_items, addresses, materials, products, audit_log CASCADE`)
	suite.NoError(err)
}

func (suite *checkoutServiceSuite) seedProduct(name, price string, active bool) uuid.UUID {
	id := uuid.New()
	_, err := suite.pool.Exec(suite.T().Context(), `
		INSERT INTO products (id, name, base_price, currency, active)
		VALUES ($1, $2, $3, 'USD', $4)`, id, name, price, active)
	suite.NoError(err)
	return id
}

func (suite *checkoutServiceSuite) seedMaterial(name, price string, active bool) uuid.UUID {
	id := uuid.New()
	_, err := suite.pool.Exec(suite.T().Context(), `
		INSERT INTO materials (id, name, price, currency, active)
		VALUES ($1, $2, $3, 'USD', $4)`, id, name, price, active)
	suite.NoError(err)
	return id
}

func (suite *checkoutServiceSuite) addCartItem(userID string, productID, materialID uuid.UUID, quantity int) {
	err := repository.NewCart(suite.pool).AddItem(suite.T().Context(), userID, domain.CartItem{
		ProductID:  productID,
		MaterialID: materialID,
		Quantity:   quantity,
	})
	suite.NoError(err)
}

func (suite *checkoutServiceSuite) seedDefaultAddress(userID, fullName string) {
	_, err := suite.pool.Exec(suite.T().Context(), `
		INSERT INTO addresses (id, user_id, full_name, line1, city, postal_code, country, is_default)
		VALUES ($1, $2, $3, '1 Maker Way', 'Springfield', '12345', 'US', TRUE)`,
		uuid.New(), userID, fullName)
	suite.NoError(err)
}
