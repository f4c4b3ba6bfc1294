package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/c14230103-dot/projectcspevolene/api/web"
	"github.com/c14230103-dot/projectcspevolene/api/weberr"
	"github.com/c14230103-dot/projectcspevolene/rate"
)

// RateLimit throttles requests per remote host. It runs before
// authentication, so the key is the peer address rather than the user.
func RateLimit(lm *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			if !lm.Check(clientKey(r)) {
				err := errors.New("client exceeded the request rate limit")
				return weberr.NewError(err, "too many requests", http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
