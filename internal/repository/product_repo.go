package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/driftdock/marina-api/internal/model"
)

// ProductRepo manages the product catalog and its stock counters. Stock
// mutations are conditional UPDATEs so oversell is impossible even under
// concurrent checkouts.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productCols = "id,merchant_id,name,category,price_cents,stock,unit,description,sales_count,status,created_at,updated_at"

func scanProduct(scan func(dest ...interface{}) error) (model.Product, error) {
	var p model.Product
	var desc sql.NullString
	err := scan(&p.ID, &p.MerchantID, &p.Name, &p.Category, &p.PriceCents, &p.Stock,
		&p.Unit, &desc, &p.SalesCount, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, model.ErrNotFound
	}
	p.Description = desc.String
	return p, err
}

// Create inserts a product and returns its ID.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (merchant_id, name, category, price_cents, stock, unit, description, status) VALUES (?,?,?,?,?,?,?,?)",
		p.MerchantID, p.Name, p.Category, p.PriceCents, p.Stock, p.Unit, p.Description, p.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// GetByID fetches a product by id.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+productCols+" FROM products WHERE id=? LIMIT 1", id)
	return scanProduct(row.Scan)
}

// GetByIDTx is GetByID inside a transaction, used when building orders.
func (r *ProductRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Product, error) {
	row := tx.QueryRowContext(ctx, "SELECT "+productCols+" FROM products WHERE id=? LIMIT 1", id)
	return scanProduct(row.Scan)
}

// ListPublic returns on-shelf products, optionally filtered by category,
// best sellers first.
func (r *ProductRepo) ListPublic(ctx context.Context, category string) ([]model.Product, error) {
	q := "SELECT " + productCols + " FROM products WHERE status IN (?,?)"
	args := []interface{}{model.ProductAvailable, model.ProductSoldOut}
	if category != "" {
		q += " AND category=?"
		args = append(args, category)
	}
	q += " ORDER BY sales_count DESC, created_at DESC"
	return r.list(ctx, q, args...)
}

// ListByMerchant returns every product of a merchant regardless of status.
func (r *ProductRepo) ListByMerchant(ctx context.Context, merchantID uint64) ([]model.Product, error) {
	return r.list(ctx,
		"SELECT "+productCols+" FROM products WHERE merchant_id=? ORDER BY created_at DESC", merchantID)
}

func (r *ProductRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update edits a product's mutable fields, enforcing ownership.
func (r *ProductRepo) Update(ctx context.Context, merchantID uint64, p *model.Product) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE products SET name=?, category=?, price_cents=?, stock=?, unit=?, description=?, status=? WHERE id=? AND merchant_id=?",
		p.Name, p.Category, p.PriceCents, p.Stock, p.Unit, p.Description, p.Status, p.ID, merchantID)
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

// SetStatus changes only the shelf status, enforcing ownership.
func (r *ProductRepo) SetStatus(ctx context.Context, merchantID, productID uint64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE products SET status=? WHERE id=? AND merchant_id=?", status, productID, merchantID)
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

// DecrementStockTx atomically takes qty units of stock. The stock>=qty guard
// is the oversell barrier; a miss means another checkout got there first.
func (r *ProductRepo) DecrementStockTx(ctx context.Context, tx *sql.Tx, productID uint64, qty int) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE products SET stock=stock-? WHERE id=? AND stock>=?",
		qty, productID, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrInsufficientStock
	}
	// Flip to sold_out when the last unit went.
	_, err = tx.ExecContext(ctx,
		"UPDATE products SET status=? WHERE id=? AND stock=0 AND status=?",
		model.ProductSoldOut, productID, model.ProductAvailable)
	return err
}

// RestoreStockTx returns qty units, e.g. when an order is cancelled.
func (r *ProductRepo) RestoreStockTx(ctx context.Context, tx *sql.Tx, productID uint64, qty int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE products SET stock=stock+?, status=IF(status=?, ?, status) WHERE id=?",
		qty, model.ProductSoldOut, model.ProductAvailable, productID)
	return err
}

// IncrementSalesTx bumps the sales counter after a successful payment.
func (r *ProductRepo) IncrementSalesTx(ctx context.Context, tx *sql.Tx, productID uint64, qty int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE products SET sales_count=sales_count+? WHERE id=?", qty, productID)
	return err
}
