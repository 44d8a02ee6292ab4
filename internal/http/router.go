package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Checkout CheckoutService
	Payments PaymentService
	Cart     CartService

	JWTSecret      []byte
	GatewayKeyID   string
	RequestTimeout time.Duration
	InitiateRPS    float64
	InitiateBurst  int
	Logger         *slog.Logger
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	checkoutHandler := NewCheckoutHandler(cfg.Checkout, cfg.RequestTimeout)
	paymentHandler := NewPaymentHandler(cfg.Payments, cfg.GatewayKeyID, cfg.RequestTimeout)
	webhookHandler := NewWebhookHandler(cfg.Payments, cfg.RequestTimeout, cfg.Logger)
	cartHandler := NewCartHandler(cfg.Cart, cfg.RequestTimeout)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// The webhook has no session auth; its trust boundary is the signature.
	r.Post("/webhooks/payment", webhookHandler.Handle)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.JWTSecret))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{productID}/{materialID}", cartHandler.RemoveItem)
		})

		r.Post("/orders/checkout", checkoutHandler.Checkout)

		r.Route("/payments", func(r chi.Router) {
			r.With(RateLimitMiddleware(cfg.InitiateRPS, cfg.InitiateBurst)).
				Post("/initiate/{orderID}", paymentHandler.Initiate)
			r.Post("/verify", paymentHandler.Verify)
			r.Get("/{orderID}", paymentHandler.Status)
		})
	})

	return r
}
