// Package api assembles the HTTP surface: route table, middleware chain and
// the wiring between handlers and their dependencies.
package api

import (
	"context"
	"net/http"

	"github.com/c14230103-dot/projectcspevolene/api/middleware"
	"github.com/c14230103-dot/projectcspevolene/api/web"
	"github.com/c14230103-dot/projectcspevolene/core/auth"
	"github.com/c14230103-dot/projectcspevolene/core/checkout"
	"github.com/c14230103-dot/projectcspevolene/core/order"
	"github.com/c14230103-dot/projectcspevolene/core/product"
	"github.com/c14230103-dot/projectcspevolene/rate"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin string
	Log        logrus.FieldLogger
	DB         *sqlx.DB
	Verifier   auth.Verifier
	Limiter    *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())
	if cfg.Limiter != nil {
		a.mw = append(a.mw, middleware.RateLimit(cfg.Limiter))
	}

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Verifier)

	a.Handle(http.MethodGet, "/health", handleHealth(cfg.DB))
	a.Router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	a.Handle(http.MethodGet, "/products", product.HandleList(cfg.DB))
	a.Handle(http.MethodGet, "/products/{id}", product.HandleShow(cfg.DB))

	a.Handle(http.MethodGet, "/orders", order.HandleList(cfg.DB), authen)

	a.Handle(http.MethodPost, "/checkout", checkout.HandleCheckout(cfg.DB), authen)

	return a.Router
}

func handleHealth(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		status := map[string]string{"status": "healthy"}
		code := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			status["status"] = "store unreachable"
			code = http.StatusServiceUnavailable
		}

		return web.Respond(ctx, w, status, code)
	}
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
