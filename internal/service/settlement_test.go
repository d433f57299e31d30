package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/repository"
)

func testBookingRule() model.SplitRule {
	return model.SplitRule{
		ID:          1,
		Kind:        model.KindBookingService,
		PlatformBps: 500,
		MerchantBps: 3500,
		CrewBps:     6000,
		IsActive:    true,
	}
}

func TestSettlementRule(t *testing.T) {
	cases := []struct {
		name         string
		hasCrew      bool
		wantMerchant int
		wantCrew     int
	}{
		{"crew assigned keeps the rule", true, 3500, 6000},
		{"no crew folds the crew share into the merchant", false, 9500, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := settlementRule(testBookingRule(), tc.hasCrew)
			assert.Equal(t, 500, rule.PlatformBps)
			assert.Equal(t, tc.wantMerchant, rule.MerchantBps)
			assert.Equal(t, tc.wantCrew, rule.CrewBps)
			assert.NoError(t, rule.Validate())
		})
	}
}

func TestComputeSplitCrewlessBooking(t *testing.T) {
	split := model.ComputeSplit(10000, settlementRule(testBookingRule(), false))
	assert.Equal(t, int64(500), split.PlatformCents)
	assert.Equal(t, int64(9500), split.MerchantCents)
	assert.Equal(t, int64(0), split.CrewCents)
}

func newTestSettler(t *testing.T) (*Settler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Settler{
		Splits:   repository.NewSplitRepo(db),
		Bookings: repository.NewBookingRepo(db),
		Orders:   repository.NewOrderRepo(db),
	}, mock
}

var bookingRowColumns = []string{
	"id", "booking_number", "user_id", "boat_id", "merchant_id", "crew_id",
	"start_at", "end_at", "passenger_count", "hourly_rate_cents", "total_cents",
	"status", "contact_name", "contact_phone", "user_notes", "merchant_notes",
	"cancel_reason", "created_at", "updated_at", "confirmed_at", "completed_at",
	"cancelled_at",
}

func completedBookingRow(id uint64, crewID interface{}, totalCents int64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(bookingRowColumns).AddRow(
		id, "BK20250601090000AAAA1111", 10, 20, 30, crewID,
		now.Add(-3*time.Hour), now.Add(-time.Hour), 2, 5000, totalCents,
		model.BookingCompleted, "Ann", "555-0100", "", "", "",
		now, now, now, now, nil)
}

func activeRuleRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "kind", "platform_bps", "merchant_bps", "crew_bps",
		"description", "is_active", "created_at",
	}).AddRow(1, model.KindBookingService, 500, 3500, 6000, "", true, time.Now().UTC())
}

// A completed booking that never got a crew member settles with the crew
// share folded into the merchant; nothing is booked against a missing crew.
func TestSettleCrewlessBooking(t *testing.T) {
	s, mock := newTestSettler(t)

	mock.ExpectQuery("FROM bookings WHERE id=").
		WillReturnRows(completedBookingRow(77, nil, 10000))
	mock.ExpectQuery("FROM split_rules WHERE kind=").
		WithArgs(model.KindBookingService).
		WillReturnRows(activeRuleRow())
	mock.ExpectExec("INSERT INTO split_records").
		WithArgs(sqlmock.AnyArg(), model.KindBookingService, sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), nil,
			int64(10000), int64(500), int64(9500), int64(0)).
		WillReturnResult(sqlmock.NewResult(501, 1))

	rec, err := s.Settle(context.Background(), model.KindBookingService, 77)
	require.NoError(t, err)
	assert.EqualValues(t, 501, rec.ID)
	assert.Nil(t, rec.CrewID)
	assert.Equal(t, int64(9500), rec.MerchantCents)
	assert.Equal(t, int64(0), rec.CrewCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Re-settling an already settled booking hits the uq(kind, source_id) index
// and returns the existing ledger row unchanged.
func TestSettleIdempotent(t *testing.T) {
	s, mock := newTestSettler(t)

	mock.ExpectQuery("FROM bookings WHERE id=").
		WillReturnRows(completedBookingRow(88, 4, 15000))
	mock.ExpectQuery("FROM split_rules WHERE kind=").
		WillReturnRows(activeRuleRow())
	mock.ExpectExec("INSERT INTO split_records").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'booking_service-88' for key 'uq_split_source'"))
	mock.ExpectQuery("FROM split_records WHERE kind=").
		WithArgs(model.KindBookingService, uint64(88)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "split_number", "kind", "source_id", "rule_id", "merchant_id",
			"crew_id", "gross_cents", "platform_cents", "merchant_cents",
			"crew_cents", "created_at",
		}).AddRow(42, "SP20250601100000BBBB2222", model.KindBookingService,
			88, 1, 30, 4, 15000, 750, 5250, 9000, time.Now().UTC()))

	rec, err := s.Settle(context.Background(), model.KindBookingService, 88)
	require.NoError(t, err)
	assert.EqualValues(t, 42, rec.ID)
	assert.Equal(t, "SP20250601100000BBBB2222", rec.SplitNumber)
	assert.Equal(t, int64(9000), rec.CrewCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}
