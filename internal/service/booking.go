package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/queue"
	"github.com/driftdock/marina-api/internal/repository"
	"github.com/driftdock/marina-api/internal/utils"
)

var (
	ErrInvalidWindow   = errors.New("end time must be after start time")
	ErrWindowInPast    = errors.New("start time must be in the future")
	ErrBoatNotOpen     = errors.New("boat is not available for booking")
	ErrCrewNotEligible = errors.New("crew member is not active for this merchant")
	ErrOverCapacity    = errors.New("passenger count exceeds boat capacity")
)

// BookingService drives the booking lifecycle: creation with conflict
// detection, the confirm/cancel/complete transitions, and the background
// sweep that expires stale pending bookings.
type BookingService struct {
	DB       *sql.DB
	Boats    *repository.BoatRepo
	Bookings *repository.BookingRepo
	Crews    *repository.CrewRepo
	Notifier *Notifier
	Settler  *Settler

	PendingTTL time.Duration
}

// CreateBookingInput is everything a buyer supplies when booking a boat.
type CreateBookingInput struct {
	BoatID       uint64
	CrewID       *uint64 // optional crew request
	StartAt      time.Time
	EndAt        time.Time
	Passengers   int
	ContactName  string
	ContactPhone string
	Notes        string
}

// BookingTotal prices a window at an hourly rate, rounding partial hours up.
func BookingTotal(hourlyRateCents int64, start, end time.Time) int64 {
	d := end.Sub(start)
	hours := int64(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}
	return hourlyRateCents * hours
}

// Create places a pending booking. The boat row is locked for the duration
// of the overlap check and insert, so two buyers racing for the same window
// serialize and exactly one wins.
func (s *BookingService) Create(ctx context.Context, userID uint64, in CreateBookingInput) (model.Booking, error) {
	if !in.EndAt.After(in.StartAt) {
		return model.Booking{}, ErrInvalidWindow
	}
	if !in.StartAt.After(time.Now().UTC()) {
		return model.Booking{}, ErrWindowInPast
	}
	if in.Passengers < 1 {
		in.Passengers = 1
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	boat, err := s.Boats.LockTx(ctx, tx, in.BoatID)
	if err != nil {
		return model.Booking{}, err
	}
	if boat.Status != model.BoatAvailable {
		return model.Booking{}, ErrBoatNotOpen
	}
	if in.Passengers > boat.Capacity {
		return model.Booking{}, ErrOverCapacity
	}

	overlap, err := s.Bookings.HasOverlapTx(ctx, tx, boat.ID, in.StartAt, in.EndAt)
	if err != nil {
		return model.Booking{}, err
	}
	if overlap {
		return model.Booking{}, model.ErrOverlapConflict
	}

	if in.CrewID != nil {
		if err := s.checkCrewTx(ctx, tx, boat.MerchantID, *in.CrewID, in.StartAt, in.EndAt); err != nil {
			return model.Booking{}, err
		}
	}

	b := model.Booking{
		BookingNumber:   utils.RefNumber("BK"),
		UserID:          userID,
		BoatID:          boat.ID,
		MerchantID:      boat.MerchantID,
		CrewID:          in.CrewID,
		StartAt:         in.StartAt.UTC(),
		EndAt:           in.EndAt.UTC(),
		PassengerCount:  in.Passengers,
		HourlyRateCents: boat.HourlyRateCents,
		TotalCents:      BookingTotal(boat.HourlyRateCents, in.StartAt, in.EndAt),
		Status:          model.BookingPending,
		ContactName:     in.ContactName,
		ContactPhone:    in.ContactPhone,
		UserNotes:       in.Notes,
	}
	if err := s.Bookings.CreateTx(ctx, tx, &b); err != nil {
		return model.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, err
	}
	committed = true

	s.Notifier.Notify(ctx, b.MerchantID, s.event(b, model.NotifyBookingCreated,
		"New booking request",
		fmt.Sprintf("Booking %s for %s awaits your confirmation.", b.BookingNumber, boat.Name)))
	return b, nil
}

func (s *BookingService) checkCrewTx(ctx context.Context, tx *sql.Tx, merchantID, crewID uint64, start, end time.Time) error {
	crew, err := s.Crews.GetCrew(ctx, crewID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrCrewNotEligible
		}
		return err
	}
	if crew.MerchantID != merchantID || crew.Status != model.CrewActive {
		return ErrCrewNotEligible
	}
	busy, err := s.Bookings.HasCrewOverlapTx(ctx, tx, crewID, start, end)
	if err != nil {
		return err
	}
	if busy {
		return model.ErrOverlapConflict
	}
	return nil
}

// Confirm moves a pending booking to confirmed on behalf of the owning
// merchant, optionally assigning (or replacing) the crew member.
func (s *BookingService) Confirm(ctx context.Context, merchantID, bookingID uint64, crewID *uint64, notes string) (model.Booking, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := s.Bookings.GetByIDTx(ctx, tx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if b.MerchantID != merchantID {
		return model.Booking{}, model.ErrForbidden
	}
	if crewID != nil {
		if err := s.checkCrewTx(ctx, tx, merchantID, *crewID, b.StartAt, b.EndAt); err != nil {
			return model.Booking{}, err
		}
	}
	if err := s.Bookings.ConfirmTx(ctx, tx, bookingID, crewID, notes); err != nil {
		return model.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, err
	}
	committed = true

	b, _ = s.Bookings.GetByID(ctx, bookingID)
	s.Notifier.Notify(ctx, b.UserID, s.event(b, model.NotifyBookingConfirmed,
		"Booking confirmed",
		fmt.Sprintf("Your booking %s is confirmed for %s.", b.BookingNumber, b.StartAt.Format(time.RFC3339))))
	s.Notifier.Email(ctx, b.UserID, "Your booking is confirmed",
		fmt.Sprintf("Booking %s is confirmed.\nStart: %s\nEnd: %s\nTotal: %.2f",
			b.BookingNumber, b.StartAt.Format(time.RFC3339), b.EndAt.Format(time.RFC3339),
			float64(b.TotalCents)/100))
	return b, nil
}

// Cancel cancels a pending or confirmed booking. Buyers cancel their own
// bookings; merchants cancel bookings on their boats.
func (s *BookingService) Cancel(ctx context.Context, actorID uint64, actorRole string, bookingID uint64, reason string) (model.Booking, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := s.Bookings.GetByIDTx(ctx, tx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if !CanCancelBooking(b, actorID, actorRole) {
		return model.Booking{}, model.ErrForbidden
	}
	if !model.BookingCanTransition(b.Status, model.BookingCancelled) {
		return model.Booking{}, &model.StateError{Entity: "booking", Event: "cancel", Current: b.Status}
	}
	if err := s.Bookings.CancelTx(ctx, tx, bookingID, b.Status, reason); err != nil {
		return model.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, err
	}
	committed = true

	b, _ = s.Bookings.GetByID(ctx, bookingID)
	// Tell the counterparty, not the actor.
	recipient := b.MerchantID
	if actorID != b.UserID {
		recipient = b.UserID
	}
	s.Notifier.Notify(ctx, recipient, s.event(b, model.NotifyBookingCancelled,
		"Booking cancelled",
		fmt.Sprintf("Booking %s was cancelled: %s", b.BookingNumber, reason)))
	return b, nil
}

// Complete marks a confirmed booking as completed and settles it. The
// owning merchant or the assigned crew member completes, and only after
// the booked window has ended.
func (s *BookingService) Complete(ctx context.Context, actorID, bookingID uint64) (model.Booking, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := s.Bookings.GetByIDTx(ctx, tx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if b.MerchantID != actorID && (b.CrewID == nil || *b.CrewID != actorID) {
		return model.Booking{}, model.ErrForbidden
	}
	if time.Now().UTC().Before(b.EndAt) {
		return model.Booking{}, fmt.Errorf("booking %s has not ended yet", b.BookingNumber)
	}
	if err := s.Bookings.CompleteTx(ctx, tx, bookingID); err != nil {
		return model.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, err
	}
	committed = true

	s.Settler.settleBestEffort(model.KindBookingService, bookingID)

	b, _ = s.Bookings.GetByID(ctx, bookingID)
	s.Notifier.Notify(ctx, b.UserID, s.event(b, model.NotifyBookingCompleted,
		"Trip completed",
		fmt.Sprintf("Booking %s is complete. You can now rate your crew.", b.BookingNumber)))
	return b, nil
}

// SweepExpired cancels pending bookings older than PendingTTL. Each booking
// is cancelled in its own transaction so one failure never blocks the rest.
// Returns the number of bookings cancelled.
func (s *BookingService) SweepExpired(ctx context.Context) int {
	cutoff := time.Now().UTC().Add(-s.PendingTTL)
	ids, err := s.Bookings.ListExpiredPending(ctx, cutoff)
	if err != nil {
		logrus.WithError(err).Error("sweep: listing expired bookings failed")
		return 0
	}
	swept := 0
	for _, id := range ids {
		if err := s.expireOne(ctx, id); err != nil {
			logrus.WithError(err).WithField("booking_id", id).Warn("sweep: cancel failed")
			continue
		}
		swept++
	}
	if swept > 0 {
		logrus.WithField("count", swept).Info("sweep: expired pending bookings cancelled")
	}
	return swept
}

func (s *BookingService) expireOne(ctx context.Context, id uint64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.Bookings.CancelTx(ctx, tx, id, model.BookingPending, "confirmation window expired"); err != nil {
		// Lost the race to a concurrent confirm or cancel; not a failure.
		if model.IsStateError(err) {
			return nil
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	if b, err := s.Bookings.GetByID(ctx, id); err == nil {
		s.Notifier.Notify(ctx, b.UserID, s.event(b, model.NotifyBookingCancelled,
			"Booking expired",
			fmt.Sprintf("Booking %s expired before the merchant confirmed it.", b.BookingNumber)))
	}
	return nil
}

// RunSweep runs SweepExpired on a ticker until ctx is cancelled.
func (s *BookingService) RunSweep(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.SweepExpired(ctx)
		}
	}
}

func (s *BookingService) event(b model.Booking, kind, title, body string) queue.LifecycleEvent {
	ev := queue.LifecycleEvent{
		Kind:        kind,
		SourceType:  "booking",
		SourceID:    b.ID,
		RefNumber:   b.BookingNumber,
		MerchantID:  b.MerchantID,
		AmountCents: b.TotalCents,
		Title:       title,
		Body:        body,
	}
	if b.CrewID != nil {
		ev.CrewID = *b.CrewID
	}
	return ev
}
