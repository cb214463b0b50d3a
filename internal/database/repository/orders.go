package repository

import (
	"context"
	"database/sql"
)

// OrderRepo handles the order journal.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// withTx runs fn in a transaction, rolling back on error.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Create inserts the order and its line items in one transaction. A failed
// line item leaves no order row behind.
func (r *OrderRepo) Create(ctx context.Context, o Order) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO orders(id, payment, address, email, phone, total)
		VALUES (?, ?, ?, ?, ?, ?);
		`, o.ID, o.Payment, o.Address, o.Email, o.Phone, o.Total)
		if err != nil {
			return err
		}
		for _, productID := range o.ItemIDs {
			if _, err := tx.ExecContext(ctx, `INSERT INTO order_items(order_id, product_id) VALUES (?, ?)`, o.ID, productID); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns orders newest first, with their item ids.
func (r *OrderRepo) List(ctx context.Context) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, payment, address, email, phone, total, created_at FROM orders ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Payment, &o.Address, &o.Email, &o.Phone, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		items, err := r.itemIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].ItemIDs = items
	}
	return out, nil
}

func (r *OrderRepo) itemIDs(ctx context.Context, orderID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT product_id FROM order_items WHERE order_id = ? ORDER BY product_id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
