package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/c14230103-dot/projectcspevolene/api/web"
)

// Panics converts handler panics into errors so the Errors middleware can
// report them instead of killing the server.
func Panics() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {

			defer func() {
				if rec := recover(); rec != nil {
					trace := debug.Stack()
					err = fmt.Errorf("PANIC [%v] TRACE[%s]", rec, string(trace))
				}
			}()

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
