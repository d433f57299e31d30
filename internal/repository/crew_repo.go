package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/driftdock/marina-api/internal/model"
)

var ErrOpenApplication = errors.New("an application is already pending")

// CrewRepo manages crew applications and the roster of approved crew
// members. Applications target a specific merchant; approval creates (or
// re-activates) the crews row and promotes the user's role.
type CrewRepo struct{ DB *sql.DB }

func NewCrewRepo(db *sql.DB) *CrewRepo { return &CrewRepo{DB: db} }

// Apply files a crew application. Only one pending application per user is
// allowed at a time.
func (r *CrewRepo) Apply(ctx context.Context, a *model.CrewApplication) (uint64, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM crew_applications WHERE user_id=? AND status=?",
		a.UserID, model.CrewApplicationPending).Scan(&n)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, ErrOpenApplication
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO crew_applications (user_id, merchant_id, cert_number, years_at_sea, intro, status) VALUES (?,?,?,?,?,?)",
		a.UserID, a.MerchantID, a.CertNumber, a.YearsAtSea, a.Intro, model.CrewApplicationPending)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

const crewAppCols = "id,user_id,merchant_id,cert_number,years_at_sea,intro,status,reason,handled_at,created_at"

func scanCrewApp(scan func(dest ...interface{}) error) (model.CrewApplication, error) {
	var a model.CrewApplication
	var intro sql.NullString
	var handled sql.NullTime
	err := scan(&a.ID, &a.UserID, &a.MerchantID, &a.CertNumber, &a.YearsAtSea,
		&intro, &a.Status, &a.Reason, &handled, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return a, model.ErrNotFound
	}
	a.Intro = intro.String
	if handled.Valid {
		t := handled.Time
		a.HandledAt = &t
	}
	return a, err
}

// GetApplication fetches a single application by id.
func (r *CrewRepo) GetApplication(ctx context.Context, id uint64) (model.CrewApplication, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+crewAppCols+" FROM crew_applications WHERE id=? LIMIT 1", id)
	return scanCrewApp(row.Scan)
}

// ListApplicationsForMerchant returns a merchant's inbound applications,
// optionally filtered by status.
func (r *CrewRepo) ListApplicationsForMerchant(ctx context.Context, merchantID uint64, status string) ([]model.CrewApplication, error) {
	q := "SELECT " + crewAppCols + " FROM crew_applications WHERE merchant_id=?"
	args := []interface{}{merchantID}
	if status != "" {
		q += " AND status=?"
		args = append(args, status)
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CrewApplication, 0)
	for rows.Next() {
		a, err := scanCrewApp(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListApplicationsForUser returns the user's own application history.
func (r *CrewRepo) ListApplicationsForUser(ctx context.Context, userID uint64) ([]model.CrewApplication, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+crewAppCols+" FROM crew_applications WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CrewApplication, 0)
	for rows.Next() {
		a, err := scanCrewApp(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DecideApplicationTx resolves a pending application inside a transaction.
// The status guard loses races against a concurrent decision.
func (r *CrewRepo) DecideApplicationTx(ctx context.Context, tx *sql.Tx, id uint64, approve bool, reason string) error {
	next := model.CrewApplicationRejected
	if approve {
		next = model.CrewApplicationApproved
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE crew_applications SET status=?, reason=?, handled_at=? WHERE id=? AND status=?",
		next, reason, time.Now().UTC(), id, model.CrewApplicationPending)
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
			"SELECT status FROM crew_applications WHERE id=?", id).Scan(&cur); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrNotFound
			}
			return err
		}
		return &model.StateError{Entity: "crew application", Event: "decide", Current: cur}
	}
	return nil
}

// UpsertCrewTx creates the roster row on approval, or re-activates a
// previously deactivated one.
func (r *CrewRepo) UpsertCrewTx(ctx context.Context, tx *sql.Tx, a model.CrewApplication) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO crews (user_id, merchant_id, cert_number, years_at_sea, intro, status)
		VALUES (?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE
			merchant_id=VALUES(merchant_id),
			cert_number=VALUES(cert_number),
			years_at_sea=VALUES(years_at_sea),
			intro=VALUES(intro),
			status=VALUES(status)`,
		a.UserID, a.MerchantID, a.CertNumber, a.YearsAtSea, a.Intro, model.CrewActive)
	return err
}

const crewCols = "user_id,merchant_id,cert_number,years_at_sea,intro,status,rating_avg,rating_count,joined_at"

func scanCrew(scan func(dest ...interface{}) error) (model.Crew, error) {
	var c model.Crew
	var intro sql.NullString
	err := scan(&c.UserID, &c.MerchantID, &c.CertNumber, &c.YearsAtSea,
		&intro, &c.Status, &c.RatingAvg, &c.RatingCount, &c.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, model.ErrNotFound
	}
	c.Intro = intro.String
	return c, err
}

// GetCrew fetches a roster row by user id.
func (r *CrewRepo) GetCrew(ctx context.Context, userID uint64) (model.Crew, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+crewCols+" FROM crews WHERE user_id=? LIMIT 1", userID)
	return scanCrew(row.Scan)
}

// ListCrewForMerchant returns a merchant's roster, active members first.
func (r *CrewRepo) ListCrewForMerchant(ctx context.Context, merchantID uint64) ([]model.Crew, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+crewCols+" FROM crews WHERE merchant_id=? ORDER BY status ASC, joined_at DESC", merchantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Crew, 0)
	for rows.Next() {
		c, err := scanCrew(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SetCrewStatus toggles a roster member between active and inactive. Only
// the employing merchant may do this; the merchant_id guard enforces it.
func (r *CrewRepo) SetCrewStatus(ctx context.Context, merchantID, userID uint64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE crews SET status=? WHERE user_id=? AND merchant_id=?",
		status, userID, merchantID)
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

// ApplyRatingTx folds a new rating into the crew's running average.
func (r *CrewRepo) ApplyRatingTx(ctx context.Context, tx *sql.Tx, crewID uint64, rating int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE crews
		SET rating_avg = (rating_avg*rating_count + ?) / (rating_count + 1),
		    rating_count = rating_count + 1
		WHERE user_id = ?`,
		rating, crewID)
	return err
}
