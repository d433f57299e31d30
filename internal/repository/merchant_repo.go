package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/driftdock/marina-api/internal/model"
)

var ErrLicenseExists = errors.New("license number already registered")

// MerchantRepo manages merchant onboarding rows. A merchants row doubles as
// the application: it is created in 'pending' and flipped by an admin
// decision.
type MerchantRepo struct{ DB *sql.DB }

func NewMerchantRepo(db *sql.DB) *MerchantRepo { return &MerchantRepo{DB: db} }

// Apply creates a pending merchant application for the user. A user can hold
// at most one application; re-applying after rejection resets the row.
func (r *MerchantRepo) Apply(ctx context.Context, m *model.Merchant) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO merchants (user_id, name, license_number, contact_phone, address, description, status)
		VALUES (?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE
			name=IF(status='rejected', VALUES(name), name),
			license_number=IF(status='rejected', VALUES(license_number), license_number),
			contact_phone=IF(status='rejected', VALUES(contact_phone), contact_phone),
			address=IF(status='rejected', VALUES(address), address),
			description=IF(status='rejected', VALUES(description), description),
			status=IF(status='rejected', 'pending', status)`,
		m.UserID, m.Name, m.LicenseNumber, m.ContactPhone, m.Address, m.Description, model.MerchantPending)
	if isDup(err) {
		return ErrLicenseExists
	}
	return err
}

const merchantCols = "user_id,name,license_number,contact_phone,address,description,status,created_at,updated_at"

func scanMerchant(row *sql.Row) (model.Merchant, error) {
	var m model.Merchant
	var desc sql.NullString
	err := row.Scan(&m.UserID, &m.Name, &m.LicenseNumber, &m.ContactPhone,
		&m.Address, &desc, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return m, model.ErrNotFound
	}
	m.Description = desc.String
	return m, err
}

// GetByUserID fetches the merchant row for a user.
func (r *MerchantRepo) GetByUserID(ctx context.Context, userID uint64) (model.Merchant, error) {
	return scanMerchant(r.DB.QueryRowContext(ctx,
		"SELECT "+merchantCols+" FROM merchants WHERE user_id=? LIMIT 1", userID))
}

// ListByStatus returns merchants in a given status, newest first. An empty
// status returns everything.
func (r *MerchantRepo) ListByStatus(ctx context.Context, status string) ([]model.Merchant, error) {
	q := "SELECT " + merchantCols + " FROM merchants"
	args := []interface{}{}
	if status != "" {
		q += " WHERE status=?"
		args = append(args, status)
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Merchant, 0)
	for rows.Next() {
		var m model.Merchant
		var desc sql.NullString
		if err := rows.Scan(&m.UserID, &m.Name, &m.LicenseNumber, &m.ContactPhone,
			&m.Address, &desc, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Description = desc.String
		out = append(out, m)
	}
	return out, rows.Err()
}

// DecideTx resolves a pending application inside a transaction. The status
// guard makes concurrent double-decisions lose with a StateError.
func (r *MerchantRepo) DecideTx(ctx context.Context, tx *sql.Tx, userID uint64, approve bool) error {
	next := model.MerchantRejected
	if approve {
		next = model.MerchantActive
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE merchants SET status=? WHERE user_id=? AND status=?",
		next, userID, model.MerchantPending)
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
			"SELECT status FROM merchants WHERE user_id=?", userID).Scan(&cur); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrNotFound
			}
			return err
		}
		return &model.StateError{Entity: "merchant application", Event: "decide", Current: cur}
	}
	return nil
}

// UpdateProfile lets an active merchant edit storefront fields.
func (r *MerchantRepo) UpdateProfile(ctx context.Context, userID uint64, name, contactPhone, address, description string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE merchants SET name=?, contact_phone=?, address=?, description=? WHERE user_id=? AND status=?",
		name, contactPhone, address, description, userID, model.MerchantActive)
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
