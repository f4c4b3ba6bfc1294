package checkout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/c14230103-dot/projectcspevolene/validate"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMergeLines(t *testing.T) {
	lines := []Line{
		{ID: "p1", Quantity: 1},
		{ID: "p2", Quantity: 2},
		{ID: "p1", Quantity: 2},
		{ID: "p3", Quantity: 1},
		{ID: "p2", Quantity: 1},
	}

	got := mergeLines(lines)

	want := []Line{
		{ID: "p1", Quantity: 3},
		{ID: "p2", Quantity: 3},
		{ID: "p3", Quantity: 1},
	}
	assert.Equal(t, want, got)
}

func TestMergeLinesNoDuplicates(t *testing.T) {
	lines := []Line{
		{ID: "p1", Quantity: 1},
		{ID: "p2", Quantity: 2},
	}

	assert.Equal(t, lines, mergeLines(lines))
}

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		ok   bool
	}{
		{name: "valid", req: Request{Cart: []Line{{ID: "p1", Quantity: 1}}}, ok: true},
		{name: "missing cart", req: Request{}, ok: false},
		{name: "empty cart", req: Request{Cart: []Line{}}, ok: false},
		{name: "zero quantity", req: Request{Cart: []Line{{ID: "p1", Quantity: 0}}}, ok: false},
		{name: "negative quantity", req: Request{Cart: []Line{{ID: "p1", Quantity: -1}}}, ok: false},
		{name: "missing id", req: Request{Cart: []Line{{Quantity: 1}}}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Check(tt.req)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(errStockConflict))
	assert.True(t, retryable(fmt.Errorf("decrementing stock: %w", errStockConflict)))
	assert.True(t, retryable(&pq.Error{Code: "40001"}))
	assert.True(t, retryable(fmt.Errorf("selecting: %w", &pq.Error{Code: "40P01"})))

	assert.False(t, retryable(errors.New("boom")))
	assert.False(t, retryable(&pq.Error{Code: "23505"}))
	assert.False(t, retryable(&ProductNotFoundError{ProductID: "p1"}))
	assert.False(t, retryable(&InsufficientStockError{ProductID: "p1", Name: "Whey", Remaining: 0}))
}

func TestErrorMessagesCarryProductContext(t *testing.T) {
	nf := &ProductNotFoundError{ProductID: "3f2a"}
	assert.Contains(t, nf.Error(), "3f2a")

	is := &InsufficientStockError{ProductID: "3f2a", Name: "Whey Protein", Remaining: 2}
	assert.Contains(t, is.Error(), "Whey Protein")
	assert.Contains(t, is.Error(), "2")
}
