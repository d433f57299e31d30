package repository

import (
	"context"
	"database/sql"

	"github.com/driftdock/marina-api/internal/model"
)

// CartRepo manages the per-user shopping cart. Each user holds at most one
// row per product; adding an existing product accumulates quantity.
type CartRepo struct{ DB *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

// AddItem inserts or accumulates a cart line.
func (r *CartRepo) AddItem(ctx context.Context, userID, productID uint64, qty int) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?,?,?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		userID, productID, qty)
	return err
}

// SetQuantity overwrites a line's quantity.
func (r *CartRepo) SetQuantity(ctx context.Context, userID, productID uint64, qty int) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE cart_items SET quantity=? WHERE user_id=? AND product_id=?",
		qty, userID, productID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// RemoveItem deletes a single line.
func (r *CartRepo) RemoveItem(ctx context.Context, userID, productID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id=? AND product_id=?", userID, productID)
	return err
}

// List returns the user's cart, oldest line first.
func (r *CartRepo) List(ctx context.Context, userID uint64) ([]model.CartItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,product_id,quantity,created_at,updated_at FROM cart_items WHERE user_id=? ORDER BY created_at ASC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CartItem, 0)
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity,
			&it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ClearItemsTx removes the given product lines after checkout, inside the
// order-creation transaction.
func (r *CartRepo) ClearItemsTx(ctx context.Context, tx *sql.Tx, userID uint64, productIDs []uint64) error {
	for _, pid := range productIDs {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM cart_items WHERE user_id=? AND product_id=?", userID, pid); err != nil {
			return err
		}
	}
	return nil
}
