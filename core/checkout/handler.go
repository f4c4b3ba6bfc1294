package checkout

import (
	"context"
	"errors"
	"net/http"

	"github.com/c14230103-dot/projectcspevolene/api/web"
	"github.com/c14230103-dot/projectcspevolene/api/weberr"
	"github.com/c14230103-dot/projectcspevolene/core/claims"
	"github.com/c14230103-dot/projectcspevolene/metrics"
	"github.com/c14230103-dot/projectcspevolene/validate"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
)

// HandleCheckout accepts the submitted cart of an authenticated shopper.
// Cart lines carry client-only display fields, which decoding ignores.
func HandleCheckout(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var req Request
		if err := web.Decode(w, r, &req); err != nil {
			metrics.CheckoutsTotal.WithLabelValues("invalid_request").Inc()
			return weberr.NewError(err, "unable to decode checkout payload", http.StatusBadRequest)
		}

		if err := validate.Check(req); err != nil {
			metrics.CheckoutsTotal.WithLabelValues("invalid_request").Inc()
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		timer := prometheus.NewTimer(metrics.CheckoutDuration)
		rcpt, err := Process(ctx, db, clm.UserID, req.Cart)
		timer.ObserveDuration()

		if err != nil {
			return checkoutError(err)
		}

		metrics.CheckoutsTotal.WithLabelValues("success").Inc()
		metrics.OrdersCreatedTotal.Inc()

		return web.Respond(ctx, w, rcpt, http.StatusOK)
	}
}

// checkoutError maps checkout failures onto the wire taxonomy. Anything not
// produced by validation is a store failure and reported as unavailable.
func checkoutError(err error) error {
	var notFound *ProductNotFoundError
	if errors.As(err, &notFound) {
		metrics.CheckoutsTotal.WithLabelValues("product_not_found").Inc()
		return weberr.NewError(err, notFound.Error(), http.StatusBadRequest)
	}

	var stock *InsufficientStockError
	if errors.As(err, &stock) {
		metrics.CheckoutsTotal.WithLabelValues("insufficient_stock").Inc()
		return weberr.NewError(err, stock.Error(), http.StatusBadRequest)
	}

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		metrics.CheckoutsTotal.WithLabelValues("conflict").Inc()
		return weberr.Conflict(err)
	}

	if errors.Is(err, ErrEmptyCart) {
		metrics.CheckoutsTotal.WithLabelValues("invalid_request").Inc()
		return weberr.NewError(err, err.Error(), http.StatusBadRequest)
	}

	metrics.CheckoutsTotal.WithLabelValues("store_error").Inc()
	return weberr.Unavailable(err)
}
