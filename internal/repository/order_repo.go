package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/driftdock/marina-api/internal/model"
)

// OrderRepo persists product orders and their item snapshots. Like bookings,
// all status transitions are compare-and-set UPDATEs.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderCols = `id,order_number,user_id,merchant_id,total_cents,shipping_cents,final_cents,status,
	payment_ref,carrier,tracking_no,receiver_name,receiver_phone,receiver_address,user_notes,
	cancel_reason,created_at,updated_at,paid_at,shipped_at,completed_at,cancelled_at`

func scanOrder(scan func(dest ...interface{}) error) (model.Order, error) {
	var o model.Order
	var paid, shipped, completed, cancelled sql.NullTime
	err := scan(&o.ID, &o.OrderNumber, &o.UserID, &o.MerchantID, &o.TotalCents,
		&o.ShippingCents, &o.FinalCents, &o.Status, &o.PaymentRef, &o.Carrier,
		&o.TrackingNo, &o.ReceiverName, &o.ReceiverPhone, &o.ReceiverAddress,
		&o.UserNotes, &o.CancelReason, &o.CreatedAt, &o.UpdatedAt,
		&paid, &shipped, &completed, &cancelled)
	if errors.Is(err, sql.ErrNoRows) {
		return o, model.ErrNotFound
	}
	if err != nil {
		return o, err
	}
	if paid.Valid {
		t := paid.Time
		o.PaidAt = &t
	}
	if shipped.Valid {
		t := shipped.Time
		o.ShippedAt = &t
	}
	if completed.Valid {
		t := completed.Time
		o.CompletedAt = &t
	}
	if cancelled.Valid {
		t := cancelled.Time
		o.CancelledAt = &t
	}
	return o, nil
}

// CreateTx inserts an order and its item snapshots within the caller's
// transaction. The caller has already decremented stock for every line.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (order_number, user_id, merchant_id, total_cents, shipping_cents,
			final_cents, status, receiver_name, receiver_phone, receiver_address, user_notes)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		o.OrderNumber, o.UserID, o.MerchantID, o.TotalCents, o.ShippingCents,
		o.FinalCents, o.Status, o.ReceiverName, o.ReceiverPhone, o.ReceiverAddress, o.UserNotes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		ires, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, product_unit,
				quantity, unit_price_cents, total_cents)
			VALUES (?,?,?,?,?,?,?)`,
			o.ID, o.Items[i].ProductID, o.Items[i].ProductName, o.Items[i].ProductUnit,
			o.Items[i].Quantity, o.Items[i].UnitPriceCents, o.Items[i].TotalCents)
		if err != nil {
			return err
		}
		iid, err := ires.LastInsertId()
		if err != nil {
			return err
		}
		o.Items[i].ID = uint64(iid)
	}
	return nil
}

// GetByID fetches an order with its items.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE id=? LIMIT 1", id)
	o, err := scanOrder(row.Scan)
	if err != nil {
		return o, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

// GetByIDTx fetches an order with its items inside a transaction.
func (r *OrderRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Order, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE id=? LIMIT 1", id)
	o, err := scanOrder(row.Scan)
	if err != nil {
		return o, err
	}
	rows, err := tx.QueryContext(ctx,
		"SELECT id,order_id,product_id,product_name,product_unit,quantity,unit_price_cents,total_cents,created_at FROM order_items WHERE order_id=?",
		id)
	if err != nil {
		return o, err
	}
	defer rows.Close()
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.ProductUnit, &it.Quantity, &it.UnitPriceCents, &it.TotalCents, &it.CreatedAt); err != nil {
			return o, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

func (r *OrderRepo) listItems(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,order_id,product_id,product_name,product_unit,quantity,unit_price_cents,total_cents,created_at FROM order_items WHERE order_id=?",
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.ProductUnit, &it.Quantity, &it.UnitPriceCents, &it.TotalCents, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListByUser returns the buyer's orders, newest first, without items.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64, status string) ([]model.Order, error) {
	q := "SELECT " + orderCols + " FROM orders WHERE user_id=?"
	args := []interface{}{userID}
	if status != "" {
		q += " AND status=?"
		args = append(args, status)
	}
	q += " ORDER BY created_at DESC"
	return r.list(ctx, q, args...)
}

// ListByMerchant returns a merchant's inbound orders, newest first.
func (r *OrderRepo) ListByMerchant(ctx context.Context, merchantID uint64, status string) ([]model.Order, error) {
	q := "SELECT " + orderCols + " FROM orders WHERE merchant_id=?"
	args := []interface{}{merchantID}
	if status != "" {
		q += " AND status=?"
		args = append(args, status)
	}
	q += " ORDER BY created_at DESC"
	return r.list(ctx, q, args...)
}

func (r *OrderRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepo) casTx(ctx context.Context, tx *sql.Tx, q string, event string, id uint64, args ...interface{}) error {
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var cur string
		if err := tx.QueryRowContext(ctx,
			"SELECT status FROM orders WHERE id=?", id).Scan(&cur); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrNotFound
			}
			return err
		}
		return &model.StateError{Entity: "order", Event: event, Current: cur}
	}
	return nil
}

// MarkPaidTx moves pending_payment -> paid, recording the capture ref.
func (r *OrderRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, id uint64, paymentRef string) error {
	return r.casTx(ctx, tx, `
		UPDATE orders SET status=?, payment_ref=?, paid_at=?
		WHERE id=? AND status=?`,
		"pay", id,
		model.OrderPaid, paymentRef, time.Now().UTC(), id, model.OrderPendingPayment)
}

// MarkShippedTx moves paid -> shipped, recording carrier and tracking.
func (r *OrderRepo) MarkShippedTx(ctx context.Context, tx *sql.Tx, id uint64, carrier, trackingNo string) error {
	return r.casTx(ctx, tx, `
		UPDATE orders SET status=?, carrier=?, tracking_no=?, shipped_at=?
		WHERE id=? AND status=?`,
		"ship", id,
		model.OrderShipped, carrier, trackingNo, time.Now().UTC(), id, model.OrderPaid)
}

// MarkCompletedTx moves shipped -> completed.
func (r *OrderRepo) MarkCompletedTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	return r.casTx(ctx, tx, `
		UPDATE orders SET status=?, completed_at=?
		WHERE id=? AND status=?`,
		"complete", id,
		model.OrderCompleted, time.Now().UTC(), id, model.OrderShipped)
}

// CancelTx cancels from the pinned fromStatus (pending_payment or paid).
func (r *OrderRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64, fromStatus, reason string) error {
	return r.casTx(ctx, tx, `
		UPDATE orders SET status=?, cancel_reason=?, cancelled_at=?
		WHERE id=? AND status=?`,
		"cancel", id,
		model.OrderCancelled, reason, time.Now().UTC(), id, fromStatus)
}
