// Package auth resolves bearer tokens to verified identities. Token issuance
// belongs to the external identity provider; this package only verifies that
// a presented token maps to a live session.
package auth

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/c14230103-dot/projectcspevolene/api/web"
	"github.com/c14230103-dot/projectcspevolene/api/weberr"
	"github.com/c14230103-dot/projectcspevolene/core/claims"
	"github.com/c14230103-dot/projectcspevolene/random"
	"github.com/jmoiron/sqlx"
)

var ErrInvalidToken = errors.New("invalid or expired session token")

// Verifier resolves a bearer token to the claims of its owner.
type Verifier interface {
	Verify(ctx context.Context, token string) (claims.Claims, error)
}

// Sessions is the bundled Verifier, backed by the sessions table. Only the
// SHA-256 digest of a token is ever stored.
type Sessions struct {
	DB *sqlx.DB
}

type session struct {
	UserID string    `db:"user_id"`
	Role   string    `db:"role"`
	Expiry time.Time `db:"expiry"`
}

func (s Sessions) Verify(ctx context.Context, token string) (claims.Claims, error) {
	const q = `SELECT user_id, role, expiry FROM sessions WHERE token_hash = $1`

	var sn session
	err := s.DB.GetContext(ctx, &sn, q, hashToken(token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return claims.Claims{}, ErrInvalidToken
		}
		return claims.Claims{}, fmt.Errorf("selecting session: %w", err)
	}

	if time.Now().After(sn.Expiry) {
		return claims.Claims{}, ErrInvalidToken
	}

	return claims.Claims{UserID: sn.UserID, Role: sn.Role}, nil
}

// CreateSession stores a session for an already-verified user. It is the glue
// the identity provider integration (and the test suite) uses to mint tokens.
func CreateSession(ctx context.Context, tx sqlx.ExtContext, userID string, role string, token string, expiry time.Time) error {
	const q = `INSERT INTO sessions (token_hash, user_id, role, expiry) VALUES ($1, $2, $3, $4)`

	if _, err := tx.ExecContext(ctx, q, hashToken(token), userID, role, expiry); err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// Token generates a fresh opaque session token.
func Token() (string, error) {
	return random.StringSecure(32)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Authenticate extracts the Authorization bearer token, verifies it and puts
// the resulting claims on the context. Handlers behind it can rely on
// claims.Get succeeding.
func Authenticate(v Verifier) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			token, ok := bearerToken(r)
			if !ok {
				return weberr.NotAuthorized(errors.New("missing bearer token"))
			}

			clm, err := v.Verify(ctx, token)
			if err != nil {
				if errors.Is(err, ErrInvalidToken) {
					return weberr.NotAuthorized(err)
				}
				return fmt.Errorf("verifying bearer token: %w", err)
			}

			return handler(claims.Set(ctx, clm), w, r)
		}
		return h
	}
	return m
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
