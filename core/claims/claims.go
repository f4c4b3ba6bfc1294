// Package claims carries the verified identity of a request through its
// context. Claims are set only by the authentication middleware, never from
// client-asserted values.
package claims

import (
	"context"
	"errors"
)

// RoleUser is the only role the storefront mints itself; admin identities
// belong to the external catalog owner.
const RoleUser = "user"

type Claims struct {
	UserID string
	Role   string
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}
