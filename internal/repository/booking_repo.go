package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/driftdock/marina-api/internal/model"
)

// BookingRepo persists boat bookings. Status changes are compare-and-set
// UPDATEs guarded by the expected current status, so concurrent transitions
// on the same booking resolve to exactly one winner.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingCols = `id,booking_number,user_id,boat_id,merchant_id,crew_id,start_at,end_at,
	passenger_count,hourly_rate_cents,total_cents,status,contact_name,contact_phone,user_notes,
	merchant_notes,cancel_reason,created_at,updated_at,confirmed_at,completed_at,cancelled_at`

func scanBooking(scan func(dest ...interface{}) error) (model.Booking, error) {
	var b model.Booking
	var crewID sql.NullInt64
	var confirmed, completed, cancelled sql.NullTime
	err := scan(&b.ID, &b.BookingNumber, &b.UserID, &b.BoatID, &b.MerchantID, &crewID,
		&b.StartAt, &b.EndAt, &b.PassengerCount, &b.HourlyRateCents, &b.TotalCents, &b.Status,
		&b.ContactName, &b.ContactPhone, &b.UserNotes, &b.MerchantNotes,
		&b.CancelReason, &b.CreatedAt, &b.UpdatedAt, &confirmed, &completed, &cancelled)
	if errors.Is(err, sql.ErrNoRows) {
		return b, model.ErrNotFound
	}
	if err != nil {
		return b, err
	}
	if crewID.Valid {
		id := uint64(crewID.Int64)
		b.CrewID = &id
	}
	if confirmed.Valid {
		t := confirmed.Time
		b.ConfirmedAt = &t
	}
	if completed.Valid {
		t := completed.Time
		b.CompletedAt = &t
	}
	if cancelled.Valid {
		t := cancelled.Time
		b.CancelledAt = &t
	}
	return b, nil
}

// CreateTx inserts a booking within the caller's transaction and populates
// the generated ID. The caller holds the boat row lock and has already run
// the overlap check.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	var crewID interface{}
	if b.CrewID != nil {
		crewID = *b.CrewID
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (booking_number, user_id, boat_id, merchant_id, crew_id,
			start_at, end_at, passenger_count, hourly_rate_cents, total_cents, status,
			contact_name, contact_phone, user_notes)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.BookingNumber, b.UserID, b.BoatID, b.MerchantID, crewID,
		b.StartAt, b.EndAt, b.PassengerCount, b.HourlyRateCents, b.TotalCents, b.Status,
		b.ContactName, b.ContactPhone, b.UserNotes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// HasOverlapTx reports whether any active booking on the boat intersects the
// half-open window [start, end). Must run under the boat row lock.
func (r *BookingRepo) HasOverlapTx(ctx context.Context, tx *sql.Tx, boatID uint64, start, end time.Time) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE boat_id=? AND status IN (?,?) AND start_at < ? AND ? < end_at`,
		boatID, model.BookingPending, model.BookingConfirmed, end, start).Scan(&n)
	return n > 0, err
}

// HasCrewOverlapTx is the same check keyed on the assigned crew member.
func (r *BookingRepo) HasCrewOverlapTx(ctx context.Context, tx *sql.Tx, crewID uint64, start, end time.Time) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE crew_id=? AND status IN (?,?) AND start_at < ? AND ? < end_at`,
		crewID, model.BookingPending, model.BookingConfirmed, end, start).Scan(&n)
	return n > 0, err
}

// GetByID fetches a booking by id.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=? LIMIT 1", id)
	return scanBooking(row.Scan)
}

// GetByIDTx is GetByID inside a transaction.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=? LIMIT 1", id)
	return scanBooking(row.Scan)
}

// ListByUser returns the buyer's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, status string) ([]model.Booking, error) {
	q := "SELECT " + bookingCols + " FROM bookings WHERE user_id=?"
	args := []interface{}{userID}
	if status != "" {
		q += " AND status=?"
		args = append(args, status)
	}
	q += " ORDER BY created_at DESC"
	return r.list(ctx, q, args...)
}

// ListByMerchant returns bookings on a merchant's boats, newest first.
func (r *BookingRepo) ListByMerchant(ctx context.Context, merchantID uint64, status string) ([]model.Booking, error) {
	q := "SELECT " + bookingCols + " FROM bookings WHERE merchant_id=?"
	args := []interface{}{merchantID}
	if status != "" {
		q += " AND status=?"
		args = append(args, status)
	}
	q += " ORDER BY created_at DESC"
	return r.list(ctx, q, args...)
}

// ListByCrew returns bookings a crew member is assigned to, soonest first.
func (r *BookingRepo) ListByCrew(ctx context.Context, crewID uint64, status string) ([]model.Booking, error) {
	q := "SELECT " + bookingCols + " FROM bookings WHERE crew_id=?"
	args := []interface{}{crewID}
	if status != "" {
		q += " AND status=?"
		args = append(args, status)
	}
	q += " ORDER BY start_at ASC"
	return r.list(ctx, q, args...)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// casTx runs a compare-and-set status UPDATE. A zero-row result means the
// booking either does not exist or is no longer in the expected status; the
// follow-up read distinguishes the two.
func (r *BookingRepo) casTx(ctx context.Context, tx *sql.Tx, q string, event string, id uint64, args ...interface{}) error {
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
			"SELECT status FROM bookings WHERE id=?", id).Scan(&cur); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrNotFound
			}
			return err
		}
		return &model.StateError{Entity: "booking", Event: event, Current: cur}
	}
	return nil
}

// ConfirmTx moves pending -> confirmed, optionally assigning crew and
// recording merchant notes.
func (r *BookingRepo) ConfirmTx(ctx context.Context, tx *sql.Tx, id uint64, crewID *uint64, merchantNotes string) error {
	var crew interface{}
	if crewID != nil {
		crew = *crewID
	}
	return r.casTx(ctx, tx, `
		UPDATE bookings SET status=?, crew_id=COALESCE(?, crew_id), merchant_notes=?, confirmed_at=?
		WHERE id=? AND status=?`,
		"confirm", id,
		model.BookingConfirmed, crew, merchantNotes, time.Now().UTC(), id, model.BookingPending)
}

// CancelTx moves pending|confirmed -> cancelled. fromStatus pins the
// expected current status so the caller controls which edge it takes.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64, fromStatus, reason string) error {
	return r.casTx(ctx, tx, `
		UPDATE bookings SET status=?, cancel_reason=?, cancelled_at=?
		WHERE id=? AND status=?`,
		"cancel", id,
		model.BookingCancelled, reason, time.Now().UTC(), id, fromStatus)
}

// CompleteTx moves confirmed -> completed.
func (r *BookingRepo) CompleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	return r.casTx(ctx, tx, `
		UPDATE bookings SET status=?, completed_at=?
		WHERE id=? AND status=?`,
		"complete", id,
		model.BookingCompleted, time.Now().UTC(), id, model.BookingConfirmed)
}

// ListExpiredPending returns IDs of pending bookings created at or before
// the cutoff. The sweep cancels them one by one.
func (r *BookingRepo) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id FROM bookings WHERE status=? AND created_at<=?",
		model.BookingPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
