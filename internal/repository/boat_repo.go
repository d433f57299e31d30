package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/driftdock/marina-api/internal/model"
)

// BoatRepo manages the boat catalog.
type BoatRepo struct{ DB *sql.DB }

func NewBoatRepo(db *sql.DB) *BoatRepo { return &BoatRepo{DB: db} }

const boatCols = "id,merchant_id,name,boat_type,capacity,hourly_rate_cents,description,status,created_at,updated_at"

func scanBoat(scan func(dest ...interface{}) error) (model.Boat, error) {
	var b model.Boat
	var desc sql.NullString
	err := scan(&b.ID, &b.MerchantID, &b.Name, &b.BoatType, &b.Capacity,
		&b.HourlyRateCents, &desc, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return b, model.ErrNotFound
	}
	b.Description = desc.String
	return b, err
}

// Create inserts a boat and returns its ID.
func (r *BoatRepo) Create(ctx context.Context, b *model.Boat) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO boats (merchant_id, name, boat_type, capacity, hourly_rate_cents, description, status) VALUES (?,?,?,?,?,?,?)",
		b.MerchantID, b.Name, b.BoatType, b.Capacity, b.HourlyRateCents, b.Description, b.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// GetByID fetches a boat by id.
func (r *BoatRepo) GetByID(ctx context.Context, id uint64) (model.Boat, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+boatCols+" FROM boats WHERE id=? LIMIT 1", id)
	return scanBoat(row.Scan)
}

// ListPublic returns available boats, optionally filtered by type and
// capacity, newest first. Retired and maintenance boats never appear.
func (r *BoatRepo) ListPublic(ctx context.Context, boatType string, minCapacity int) ([]model.Boat, error) {
	q := "SELECT " + boatCols + " FROM boats WHERE status=?"
	args := []interface{}{model.BoatAvailable}
	if boatType != "" {
		q += " AND boat_type=?"
		args = append(args, boatType)
	}
	if minCapacity > 0 {
		q += " AND capacity>=?"
		args = append(args, minCapacity)
	}
	q += " ORDER BY created_at DESC"
	return r.list(ctx, q, args...)
}

// ListByMerchant returns every boat of a merchant regardless of status.
func (r *BoatRepo) ListByMerchant(ctx context.Context, merchantID uint64) ([]model.Boat, error) {
	return r.list(ctx,
		"SELECT "+boatCols+" FROM boats WHERE merchant_id=? ORDER BY created_at DESC", merchantID)
}

func (r *BoatRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Boat, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Boat, 0)
	for rows.Next() {
		b, err := scanBoat(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update edits a boat's mutable fields, enforcing ownership.
func (r *BoatRepo) Update(ctx context.Context, merchantID uint64, b *model.Boat) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE boats SET name=?, boat_type=?, capacity=?, hourly_rate_cents=?, description=?, status=? WHERE id=? AND merchant_id=?",
		b.Name, b.BoatType, b.Capacity, b.HourlyRateCents, b.Description, b.Status, b.ID, merchantID)
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

// SetStatus changes only the availability status, enforcing ownership.
func (r *BoatRepo) SetStatus(ctx context.Context, merchantID, boatID uint64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE boats SET status=? WHERE id=? AND merchant_id=?", status, boatID, merchantID)
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

// LockTx loads a boat row FOR UPDATE. The booking engine serializes its
// overlap check and insert on this row lock.
func (r *BoatRepo) LockTx(ctx context.Context, tx *sql.Tx, boatID uint64) (model.Boat, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+boatCols+" FROM boats WHERE id=? FOR UPDATE", boatID)
	return scanBoat(row.Scan)
}
