package order

import (
	"context"
	"errors"
	"net/http"

	"github.com/c14230103-dot/projectcspevolene/api/web"
	"github.com/c14230103-dot/projectcspevolene/api/weberr"
	"github.com/c14230103-dot/projectcspevolene/core/claims"
	"github.com/jmoiron/sqlx"
)

// HandleList returns the authenticated user's orders with line detail.
func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		orders, err := FetchByUser(ctx, db, clm.UserID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, orders, http.StatusOK)
	}
}
