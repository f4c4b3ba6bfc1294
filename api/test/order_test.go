package test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/c14230103-dot/projectcspevolene/core/order"
	"github.com/c14230103-dot/projectcspevolene/core/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrders(t *testing.T) {
	te := NewTestEnv(t, "order_test")
	ct := &checkoutTest{te}

	whey := te.createProduct(t, "Whey Protein", 50000, 5)
	bcaa := te.createProduct(t, "BCAA", 30000, 10)

	w := ct.submit(t, te.UserToken, whey, 2)
	w.Body.Close()
	require.Equal(t, http.StatusOK, w.StatusCode)

	w = ct.submit(t, te.UserToken, bcaa, 1)
	w.Body.Close()
	require.Equal(t, http.StatusOK, w.StatusCode)

	// Another shopper's orders must not leak into the listing.
	_, otherToken := te.createSession(t)
	w = ct.submit(t, otherToken, bcaa, 1)
	w.Body.Close()
	require.Equal(t, http.StatusOK, w.StatusCode)

	w = te.do(t, http.MethodGet, "/orders", te.UserToken, nil)
	defer w.Body.Close()
	require.Equal(t, http.StatusOK, w.StatusCode)

	var orders []order.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&orders))
	require.Len(t, orders, 2)

	// Newest first: the BCAA order precedes the whey order.
	assert.Equal(t, 30000, orders[0].TotalAmount)
	assert.Equal(t, 100000, orders[1].TotalAmount)

	for _, ord := range orders {
		assert.Equal(t, te.UserID, ord.UserID)
		assert.True(t, payment.IsSimulatedRef(ord.BankAccount))
		require.Len(t, ord.Items, 1)
	}

	assert.Equal(t, whey.ID, orders[1].Items[0].ProductID)
	assert.Equal(t, 2, orders[1].Items[0].Quantity)
	assert.Equal(t, 50000, orders[1].Items[0].UnitPrice)
}

func TestOrdersRequireAuthentication(t *testing.T) {
	te := NewTestEnv(t, "order_auth_test")

	w := te.do(t, http.MethodGet, "/orders", "", nil)
	w.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, w.StatusCode)
}
