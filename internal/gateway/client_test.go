package gateway_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/printforge/commerce/internal/domain"
	"github.com/printforge/commerce/internal/gateway"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestCreateIntent(t *testing.T) {
	amount := domain.NewMoney(decimal.RequireFromString("59.97"), currency.USD)

	t.Run("success", func(t *testing.T) {
		var gotBody map[string]any
		var gotAuthOK bool

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v1/orders", r.URL.Path)

			user, pass, ok := r.BasicAuth()
			gotAuthOK = ok && user == "key_id" && pass == "key_secret"

			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"id":"order_ext_1"}`))
		}))
		defer srv.Close()

		client := gateway.NewClient(srv.URL, "key_id", "key_secret", time.Second)

		id, err := client.CreateIntent(t.Context(), "receipt-1", amount)
		require.NoError(t, err)

		assert.Equal(t, "order_ext_1", id)
		assert.True(t, gotAuthOK)
		assert.Equal(t, float64(5997), gotBody["amount"]) // minor units
		assert.Equal(t, "USD", gotBody["currency"])
		assert.Equal(t, "receipt-1", gotBody["receipt"])
	})

	t.Run("server error maps to gateway unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := gateway.NewClient(srv.URL, "key_id", "key_secret", time.Second)

		_, err := client.CreateIntent(t.Context(), "receipt-1", amount)
		require.ErrorIs(t, err, domain.ErrGatewayUnavailable)
	})

	t.Run("connection refused maps to gateway unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close() // shut down before the call

		client := gateway.NewClient(srv.URL, "key_id", "key_secret", time.Second)

		_, err := client.CreateIntent(t.Context(), "receipt-1", amount)
		require.ErrorIs(t, err, domain.ErrGatewayUnavailable)
	})

	t.Run("client error is not retryable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := gateway.NewClient(srv.URL, "key_id", "key_secret", time.Second)

		_, err := client.CreateIntent(t.Context(), "receipt-1", amount)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrGatewayUnavailable)
	})

	t.Run("missing order id in response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client := gateway.NewClient(srv.URL, "key_id", "key_secret", time.Second)

		_, err := client.CreateIntent(t.Context(), "receipt-1", amount)
		require.Error(t, err)
	})
}
