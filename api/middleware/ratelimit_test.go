package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/c14230103-dot/projectcspevolene/api/weberr"
	"github.com/c14230103-dot/projectcspevolene/rate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitKeysByRemoteHost(t *testing.T) {
	lm := rate.NewLimiter(1, time.Minute, rate.Every(time.Hour))

	var handled int
	h := RateLimit(lm)(func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		handled++
		return nil
	})

	request := func(remoteAddr string) error {
		r := httptest.NewRequest(http.MethodGet, "/products", nil)
		r.RemoteAddr = remoteAddr
		return h(r.Context(), httptest.NewRecorder(), r)
	}

	require.NoError(t, request("10.0.0.1:50001"))

	// Same host on a fresh connection is the same client and is over budget.
	err := request("10.0.0.1:50002")
	require.Error(t, err)

	_, status, ok := weberr.Response(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, status)

	// A different host has its own allowance.
	require.NoError(t, request("10.0.0.2:50001"))
	assert.Equal(t, 2, handled)
}
