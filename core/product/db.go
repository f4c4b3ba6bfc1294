package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("product not found")

func Create(ctx context.Context, tx sqlx.ExtContext, p Product) error {
	const q = `
	INSERT INTO products (product_id, name, description, image_url, price, stock, created_at, updated_at)
	VALUES (:product_id, :name, :description, :image_url, :price, :stock, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, tx, q, p); err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

// Update rewrites the catalog fields of an existing product. Checkout never
// goes through here; stock corrections by the catalog owner do.
func Update(ctx context.Context, tx sqlx.ExtContext, p Product) error {
	const q = `
	UPDATE products SET
		name = :name,
		description = :description,
		image_url = :image_url,
		price = :price,
		stock = :stock,
		updated_at = :updated_at
	WHERE product_id = :product_id`

	res, err := sqlx.NamedExecContext(ctx, tx, q, p)
	if err != nil {
		return fmt.Errorf("updating product[%s]: %w", p.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func Fetch(ctx context.Context, db *sqlx.DB, id string) (Product, error) {
	const q = `SELECT * FROM products WHERE product_id = $1`

	var p Product
	if err := db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("selecting product[%s]: %w", id, err)
	}
	return p, nil
}

func List(ctx context.Context, db *sqlx.DB) ([]Product, error) {
	const q = `SELECT * FROM products ORDER BY name`

	ps := []Product{}
	if err := db.SelectContext(ctx, &ps, q); err != nil {
		return nil, fmt.Errorf("selecting products: %w", err)
	}
	return ps, nil
}

// FetchManyForUpdate resolves the given products inside tx and row-locks them
// for the remainder of the transaction. Ids are locked in sorted order so
// concurrent checkouts touching overlapping products cannot deadlock.
// Missing ids are simply absent from the result.
func FetchManyForUpdate(ctx context.Context, tx sqlx.ExtContext, ids []string) ([]Product, error) {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	q, args, err := sqlx.In(`SELECT * FROM products WHERE product_id IN (?) ORDER BY product_id FOR UPDATE`, sorted)
	if err != nil {
		return nil, fmt.Errorf("expanding product id list: %w", err)
	}
	q = tx.Rebind(q)

	ps := []Product{}
	if err := sqlx.SelectContext(ctx, tx, &ps, q, args...); err != nil {
		return nil, fmt.Errorf("locking products: %w", err)
	}
	return ps, nil
}

// DecrementStock atomically takes qty units off a product's stock. It reports
// false when the conditional update matched no row, that is when stock fell
// below qty since it was read.
func DecrementStock(ctx context.Context, tx sqlx.ExtContext, id string, qty int) (bool, error) {
	const q = `
	UPDATE products SET
		stock = stock - $1,
		updated_at = $2
	WHERE product_id = $3 AND stock >= $1`

	res, err := tx.ExecContext(ctx, q, qty, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("decrementing stock of product[%s]: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return n == 1, nil
}
