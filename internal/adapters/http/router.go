package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rbxassets/platform/services/payments/internal/application"
	"github.com/rbxassets/platform/services/payments/internal/ports"
)

type Handler struct {
	service *application.Service
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter wires the payment API. Checkout endpoints serve buyers; payout and
// statistics endpoints are operator-facing and require the admin role, enforced
// in the application layer.
func NewRouter(handler *Handler, verifier ports.TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ok", nil) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ready", nil) })

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(verifier))

			r.Post("/checkout/orders", handler.createCheckout)
			r.Post("/checkout/orders/{paypalOrderID}/capture", handler.captureOrder)

			r.Get("/orders/{id}", handler.getOrder)
			r.Post("/orders/{id}/cancel", handler.cancelOrder)
			r.Post("/orders/{id}/refund", handler.refundOrder)

			r.Get("/buyers/{id}/orders", handler.listBuyerOrders)
			r.Get("/buyers/{id}/products/{productID}/purchased", handler.hasPurchased)

			r.Get("/sellers/{id}/orders", handler.listSellerOrders)
			r.Get("/sellers/{id}/payouts", handler.listSellerPayouts)
			r.Get("/sellers/{id}/earnings", handler.sellerEarnings)

			r.Post("/payouts/dispatch", handler.dispatchPayout)
			r.Post("/payouts/dispatch-batch", handler.dispatchPayoutBatch)
			r.Post("/payouts/{id}/complete", handler.completePayout)
			r.Post("/payouts/{id}/fail", handler.failPayout)

			r.Get("/admin/statistics", handler.orderStatistics)
		})
	})
	return r
}
