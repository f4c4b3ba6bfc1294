package middleware

import (
	"context"
	"net/http"

	"github.com/c14230103-dot/projectcspevolene/api/web"
	"github.com/c14230103-dot/projectcspevolene/api/weberr"
	"github.com/sirupsen/logrus"
)

// Errors turns handler errors into JSON responses. Errors carrying a response
// via weberr are rendered as-is, anything else becomes an opaque 500.
func Errors(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			fields := map[string]interface{}{
				"req_id":  ContextRequestID(ctx),
				"message": err,
			}
			if f, ok := weberr.Fields(err); ok {
				for k, v := range f {
					fields[k] = v
				}
			}

			log.WithFields(logrus.Fields(fields)).Error("ERROR")

			body, code, ok := weberr.Response(err)
			if !ok {
				// Unhandled errors leak no detail to the client.
				body, code, _ = weberr.Response(weberr.InternalError(err))
			}
			return web.Respond(ctx, w, body, code)
		}
		return h
	}
	return m
}
