package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/repository"
	"github.com/driftdock/marina-api/internal/utils"
)

// Settler writes split-ledger records for completed bookings and paid
// orders. Settlement is idempotent per (kind, source): re-settling an
// already settled transaction returns the existing record unchanged.
type Settler struct {
	Splits   *repository.SplitRepo
	Bookings *repository.BookingRepo
	Orders   *repository.OrderRepo
}

func NewSettler(splits *repository.SplitRepo, bookings *repository.BookingRepo, orders *repository.OrderRepo) *Settler {
	return &Settler{Splits: splits, Bookings: bookings, Orders: orders}
}

// Settle computes and records the three-way split for a transaction. The
// source must already be in its revenue-bearing state (booking completed,
// order paid or later); gross is the amount the buyer actually paid.
func (s *Settler) Settle(ctx context.Context, kind string, sourceID uint64) (model.SplitRecord, error) {
	var (
		gross      int64
		merchantID uint64
		crewID     *uint64
	)
	switch kind {
	case model.KindBookingService:
		b, err := s.Bookings.GetByID(ctx, sourceID)
		if err != nil {
			return model.SplitRecord{}, err
		}
		if b.Status != model.BookingCompleted {
			return model.SplitRecord{}, &model.StateError{Entity: "booking", Event: "settle", Current: b.Status}
		}
		gross, merchantID, crewID = b.TotalCents, b.MerchantID, b.CrewID
	case model.KindProductOrder:
		o, err := s.Orders.GetByID(ctx, sourceID)
		if err != nil {
			return model.SplitRecord{}, err
		}
		if o.Status == model.OrderPendingPayment || o.Status == model.OrderCancelled {
			return model.SplitRecord{}, &model.StateError{Entity: "order", Event: "settle", Current: o.Status}
		}
		gross, merchantID = o.FinalCents, o.MerchantID
	default:
		return model.SplitRecord{}, fmt.Errorf("unknown transaction kind %q", kind)
	}

	rule, err := s.Splits.GetActiveRule(ctx, kind)
	if err != nil {
		return model.SplitRecord{}, err
	}
	rule = settlementRule(rule, crewID != nil)
	split := model.ComputeSplit(gross, rule)
	rec := &model.SplitRecord{
		SplitNumber:   utils.RefNumber("SP"),
		Kind:          kind,
		SourceID:      sourceID,
		RuleID:        rule.ID,
		MerchantID:    merchantID,
		CrewID:        crewID,
		GrossCents:    gross,
		PlatformCents: split.PlatformCents,
		MerchantCents: split.MerchantCents,
		CrewCents:     split.CrewCents,
	}
	return s.Splits.CreateRecord(ctx, rec)
}

// settlementRule adjusts the active rule for the transaction at hand: when
// no crew member is attached the crew share moves to the merchant, so no
// money is ever booked against a missing crew.
func settlementRule(rule model.SplitRule, hasCrew bool) model.SplitRule {
	if !hasCrew {
		rule.MerchantBps += rule.CrewBps
		rule.CrewBps = 0
	}
	return rule
}

// settleBestEffort is the wrapper used right after a lifecycle transition
// commits. A settlement failure must never undo the transition; it is
// logged and can be replayed through the admin re-settle endpoint.
func (s *Settler) settleBestEffort(kind string, sourceID uint64) {
	if _, err := s.Settle(context.Background(), kind, sourceID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"kind": kind, "source_id": sourceID,
		}).Error("settlement failed; re-settle via admin endpoint")
	}
}
