package checkout

import (
	"errors"
	"fmt"
)

// ErrEmptyCart rejects checkouts with nothing in them.
var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// errStockConflict signals that a conditional stock decrement matched no row
// even though validation passed, meaning the transaction lost a race. It is
// retryable like a serialization failure.
var errStockConflict = errors.New("stock changed under the transaction")

// ProductNotFoundError fails the whole checkout when a requested product does
// not exist in the catalog.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product[%s] not found", e.ProductID)
}

// InsufficientStockError fails the whole checkout when a line requests more
// units than the product has left.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (remaining %d)", e.Name, e.Remaining)
}

// ConflictError surfaces when a checkout keeps losing concurrency races after
// bounded retries. The request is safe to resubmit.
type ConflictError struct {
	Attempts int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("checkout conflicted with concurrent transactions after %d attempts", e.Attempts)
}
