// Package checkout implements the checkout transaction: it re-validates a
// submitted cart against authoritative stock, computes the total from
// server-side prices, decrements stock and records one order, atomically.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/c14230103-dot/projectcspevolene/core/order"
	"github.com/c14230103-dot/projectcspevolene/core/payment"
	"github.com/c14230103-dot/projectcspevolene/core/product"
	"github.com/c14230103-dot/projectcspevolene/database"
	"github.com/c14230103-dot/projectcspevolene/metrics"
	"github.com/c14230103-dot/projectcspevolene/validate"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Line is one requested (product, quantity) pairing. Name and Price are the
// client's cached display copies; the server never reads them.
type Line struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`

	Name  string `json:"name"`
	Price int    `json:"price"`
}

type Request struct {
	Cart []Line `json:"cart" validate:"required,min=1,dive"`
}

// Receipt is the successful checkout response. BankAccount is a simulated
// payment reference, not a settlement instrument.
type Receipt struct {
	Success     bool   `json:"success"`
	Total       int    `json:"total"`
	BankAccount string `json:"bankAccount"`
}

// maxAttempts bounds the automatic retry of transactions that lose a
// concurrency race before a ConflictError reaches the caller.
const maxAttempts = 3

// Process runs the checkout for a verified user. Duplicate product ids are
// merged by summing their quantities before validation. Either every line is
// applied and exactly one order is recorded, or stock and order state are
// left untouched.
//
// Process is not idempotent: resubmitting the same cart creates a second
// order. There is no dedup key in the request contract.
func Process(ctx context.Context, db *sqlx.DB, userID string, lines []Line) (Receipt, error) {
	if len(lines) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	lines = mergeLines(lines)

	for attempt := 1; ; attempt++ {
		rcpt, err := run(ctx, db, userID, lines)
		if err == nil {
			return rcpt, nil
		}
		if !retryable(err) {
			return Receipt{}, err
		}
		if attempt == maxAttempts {
			return Receipt{}, &ConflictError{Attempts: attempt}
		}
		metrics.CheckoutConflictRetries.Inc()
	}
}

func run(ctx context.Context, db *sqlx.DB, userID string, lines []Line) (Receipt, error) {
	var rcpt Receipt

	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		ids := make([]string, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ID)
		}

		products, err := product.FetchManyForUpdate(ctx, tx, ids)
		if err != nil {
			return fmt.Errorf("resolving cart products: %w", err)
		}

		byID := make(map[string]product.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		// Validate every line against post-lock stock before touching any
		// row, so one failing line cannot leave partial decrements behind.
		var total int
		for _, l := range lines {
			p, ok := byID[l.ID]
			if !ok {
				return &ProductNotFoundError{ProductID: l.ID}
			}
			if l.Quantity > p.Stock {
				return &InsufficientStockError{ProductID: p.ID, Name: p.Name, Remaining: p.Stock}
			}
			total += p.Price * l.Quantity
		}

		for _, l := range lines {
			ok, err := product.DecrementStock(ctx, tx, l.ID, l.Quantity)
			if err != nil {
				return fmt.Errorf("decrementing stock: %w", err)
			}
			if !ok {
				return errStockConflict
			}
		}

		now := time.Now().UTC()
		ord := order.Order{
			ID:          validate.GenerateID(),
			UserID:      userID,
			TotalAmount: total,
			BankAccount: payment.SimulatedRef(),
			CreatedAt:   now,
		}
		if err := order.Create(ctx, tx, ord); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}

		for _, l := range lines {
			it := order.Item{
				OrderID:   ord.ID,
				ProductID: l.ID,
				Quantity:  l.Quantity,
				UnitPrice: byID[l.ID].Price,
				CreatedAt: now,
			}
			if err := order.CreateItem(ctx, tx, it); err != nil {
				return fmt.Errorf("creating order item: %w", err)
			}
		}

		rcpt = Receipt{Success: true, Total: total, BankAccount: ord.BankAccount}
		return nil
	})

	if err != nil {
		return Receipt{}, err
	}
	return rcpt, nil
}

// mergeLines collapses duplicate product ids into one line by summing their
// quantities, keeping the position of the first occurrence.
func mergeLines(lines []Line) []Line {
	merged := make([]Line, 0, len(lines))
	index := make(map[string]int, len(lines))

	for _, l := range lines {
		if i, ok := index[l.ID]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.ID] = len(merged)
		merged = append(merged, l)
	}

	return merged
}

// retryable reports whether err is a lost concurrency race: a Postgres
// serialization failure or deadlock, or a conditional decrement that matched
// no row.
func retryable(err error) bool {
	if errors.Is(err, errStockConflict) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
