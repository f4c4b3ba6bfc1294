package order

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, tx sqlx.ExtContext, ord Order) error {
	const q = `
	INSERT INTO orders (order_id, user_id, total_amount, bank_account, created_at)
	VALUES (:order_id, :user_id, :total_amount, :bank_account, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, tx, q, ord); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

func CreateItem(ctx context.Context, tx sqlx.ExtContext, it Item) error {
	const q = `
	INSERT INTO order_items (order_id, product_id, quantity, unit_price, created_at)
	VALUES (:order_id, :product_id, :quantity, :unit_price, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, tx, q, it); err != nil {
		return fmt.Errorf("inserting order item: %w", err)
	}
	return nil
}

// FetchByUser returns the user's orders, newest first, with their items.
func FetchByUser(ctx context.Context, db *sqlx.DB, userID string) ([]Order, error) {
	const q = `SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	orders := []Order{}
	if err := db.SelectContext(ctx, &orders, q, userID); err != nil {
		return nil, fmt.Errorf("selecting orders of user[%s]: %w", userID, err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	byID := make(map[string]int, len(orders))
	for i, ord := range orders {
		ids = append(ids, ord.ID)
		byID[ord.ID] = i
	}

	iq, args, err := sqlx.In(`SELECT * FROM order_items WHERE order_id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("expanding order id list: %w", err)
	}
	iq = db.Rebind(iq)

	items := []Item{}
	if err := db.SelectContext(ctx, &items, iq, args...); err != nil {
		return nil, fmt.Errorf("selecting order items: %w", err)
	}

	for _, it := range items {
		i := byID[it.OrderID]
		orders[i].Items = append(orders[i].Items, it)
	}

	return orders, nil
}
