package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/driftdock/marina-api/internal/model"
)

// SplitRepo manages revenue-sharing rules and the immutable settlement
// ledger. Ledger rows are unique per (kind, source id); a duplicate insert
// means the transaction was already settled and callers get the existing
// record back.
type SplitRepo struct{ DB *sql.DB }

func NewSplitRepo(db *sql.DB) *SplitRepo { return &SplitRepo{DB: db} }

const ruleCols = "id,kind,platform_bps,merchant_bps,crew_bps,description,is_active,created_at"

func scanRule(scan func(dest ...interface{}) error) (model.SplitRule, error) {
	var r model.SplitRule
	err := scan(&r.ID, &r.Kind, &r.PlatformBps, &r.MerchantBps, &r.CrewBps,
		&r.Description, &r.IsActive, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r, model.ErrNoActiveRule
	}
	return r, err
}

// GetActiveRule returns the newest active rule for a kind.
func (r *SplitRepo) GetActiveRule(ctx context.Context, kind string) (model.SplitRule, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+ruleCols+" FROM split_rules WHERE kind=? AND is_active=1 ORDER BY created_at DESC, id DESC LIMIT 1",
		kind)
	return scanRule(row.Scan)
}

// CreateRule inserts a new rule and deactivates prior rules of the same
// kind, so exactly one rule is active per kind at a time.
func (r *SplitRepo) CreateRule(ctx context.Context, rule *model.SplitRule) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		"UPDATE split_rules SET is_active=0 WHERE kind=? AND is_active=1", rule.Kind); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO split_rules (kind, platform_bps, merchant_bps, crew_bps, description, is_active) VALUES (?,?,?,?,?,1)",
		rule.Kind, rule.PlatformBps, rule.MerchantBps, rule.CrewBps, rule.Description)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// ListRules returns all rules for a kind, newest first. Empty kind lists
// everything.
func (r *SplitRepo) ListRules(ctx context.Context, kind string) ([]model.SplitRule, error) {
	q := "SELECT " + ruleCols + " FROM split_rules"
	args := []interface{}{}
	if kind != "" {
		q += " WHERE kind=?"
		args = append(args, kind)
	}
	q += " ORDER BY created_at DESC, id DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.SplitRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

const recordCols = "id,split_number,kind,source_id,rule_id,merchant_id,crew_id,gross_cents,platform_cents,merchant_cents,crew_cents,created_at"

func scanRecord(scan func(dest ...interface{}) error) (model.SplitRecord, error) {
	var rec model.SplitRecord
	var crewID sql.NullInt64
	err := scan(&rec.ID, &rec.SplitNumber, &rec.Kind, &rec.SourceID, &rec.RuleID,
		&rec.MerchantID, &crewID, &rec.GrossCents, &rec.PlatformCents,
		&rec.MerchantCents, &rec.CrewCents, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, model.ErrNotFound
	}
	if crewID.Valid {
		id := uint64(crewID.Int64)
		rec.CrewID = &id
	}
	return rec, err
}

// CreateRecord inserts a ledger row. When the (kind, source) pair is already
// settled the existing record is returned instead, making settlement
// idempotent.
func (r *SplitRepo) CreateRecord(ctx context.Context, rec *model.SplitRecord) (model.SplitRecord, error) {
	var crewID interface{}
	if rec.CrewID != nil {
		crewID = *rec.CrewID
	}
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO split_records (split_number, kind, source_id, rule_id, merchant_id, crew_id,
			gross_cents, platform_cents, merchant_cents, crew_cents)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rec.SplitNumber, rec.Kind, rec.SourceID, rec.RuleID, rec.MerchantID, crewID,
		rec.GrossCents, rec.PlatformCents, rec.MerchantCents, rec.CrewCents)
	if err != nil {
		if isDup(err) {
			return r.GetRecordBySource(ctx, rec.Kind, rec.SourceID)
		}
		return model.SplitRecord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.SplitRecord{}, err
	}
	rec.ID = uint64(id)
	return *rec, nil
}

// GetRecordBySource fetches the ledger row for a settled transaction.
func (r *SplitRepo) GetRecordBySource(ctx context.Context, kind string, sourceID uint64) (model.SplitRecord, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+recordCols+" FROM split_records WHERE kind=? AND source_id=? LIMIT 1",
		kind, sourceID)
	return scanRecord(row.Scan)
}

// ListRecordsForMerchant returns a merchant's settlement history, newest
// first.
func (r *SplitRepo) ListRecordsForMerchant(ctx context.Context, merchantID uint64) ([]model.SplitRecord, error) {
	return r.listRecords(ctx,
		"SELECT "+recordCols+" FROM split_records WHERE merchant_id=? ORDER BY created_at DESC, id DESC", merchantID)
}

// ListRecordsForCrew returns a crew member's settlement history.
func (r *SplitRepo) ListRecordsForCrew(ctx context.Context, crewID uint64) ([]model.SplitRecord, error) {
	return r.listRecords(ctx,
		"SELECT "+recordCols+" FROM split_records WHERE crew_id=? ORDER BY created_at DESC, id DESC", crewID)
}

// ListRecords returns the full ledger for admins.
func (r *SplitRepo) ListRecords(ctx context.Context, kind string) ([]model.SplitRecord, error) {
	q := "SELECT " + recordCols + " FROM split_records"
	args := []interface{}{}
	if kind != "" {
		q += " WHERE kind=?"
		args = append(args, kind)
	}
	q += " ORDER BY created_at DESC, id DESC"
	return r.listRecords(ctx, q, args...)
}

func (r *SplitRepo) listRecords(ctx context.Context, q string, args ...interface{}) ([]model.SplitRecord, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.SplitRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
