package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/repository"
)

// One sweep pass over three stale pending bookings: the first vanished
// before the cancel landed, the second lost the race to a concurrent
// confirm, the third expires normally. A failure on one booking never
// blocks the rest, and losing the race does not count as a failure.
func TestSweepExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := &BookingService{
		DB:         db,
		Bookings:   repository.NewBookingRepo(db),
		PendingTTL: 20 * time.Minute,
	}

	mock.ExpectQuery(`SELECT id FROM bookings WHERE status=\? AND created_at<=\?`).
		WithArgs(model.BookingPending, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7).AddRow(8).AddRow(9))

	// 7: the row is gone by the time the cancel runs.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status=").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM bookings WHERE id=").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	// 8: a concurrent confirm won.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status=").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM bookings WHERE id=").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.BookingConfirmed))
	mock.ExpectRollback()

	// 9: expires.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status=").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM bookings WHERE id=").WillReturnError(sql.ErrNoRows)

	swept := svc.SweepExpired(context.Background())
	assert.Equal(t, 2, swept)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A listing failure aborts the pass without cancelling anything.
func TestSweepExpiredListFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := &BookingService{
		DB:         db,
		Bookings:   repository.NewBookingRepo(db),
		PendingTTL: 20 * time.Minute,
	}

	mock.ExpectQuery("SELECT id FROM bookings WHERE status=").
		WillReturnError(sql.ErrConnDone)

	assert.Equal(t, 0, svc.SweepExpired(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
