package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/queue"
	"github.com/driftdock/marina-api/internal/repository"
)

// OnboardingService resolves merchant and crew applications. Approval flips
// the application status and promotes the user's role in one transaction so
// a half-applied decision can never be observed.
type OnboardingService struct {
	DB        *sql.DB
	Users     *repository.UserRepo
	Merchants *repository.MerchantRepo
	Crews     *repository.CrewRepo
	Notifier  *Notifier
}

// DecideMerchant resolves a pending merchant application (admin only,
// enforced at the route).
func (s *OnboardingService) DecideMerchant(ctx context.Context, applicantID uint64, approve bool) error {
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

	if err := s.Merchants.DecideTx(ctx, tx, applicantID, approve); err != nil {
		return err
	}
	if approve {
		if err := s.Users.SetRoleTx(ctx, tx, applicantID, model.RoleMerchant); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	verdict := "rejected"
	if approve {
		verdict = "approved"
	}
	s.Notifier.Notify(ctx, applicantID, queue.LifecycleEvent{
		Kind:       "merchant_application_" + verdict,
		SourceType: "merchant_application",
		SourceID:   applicantID,
		Title:      "Merchant application " + verdict,
		Body:       fmt.Sprintf("Your merchant application was %s.", verdict),
	})
	return nil
}

// DecideCrew resolves a crew application on behalf of the targeted merchant.
// Approval creates (or re-activates) the roster row and promotes the
// applicant to the crew role.
func (s *OnboardingService) DecideCrew(ctx context.Context, merchantID, applicationID uint64, approve bool, reason string) error {
	app, err := s.Crews.GetApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.MerchantID != merchantID {
		return model.ErrForbidden
	}

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

	if err := s.Crews.DecideApplicationTx(ctx, tx, applicationID, approve, reason); err != nil {
		return err
	}
	if approve {
		if err := s.Crews.UpsertCrewTx(ctx, tx, app); err != nil {
			return err
		}
		if err := s.Users.SetRoleTx(ctx, tx, app.UserID, model.RoleCrew); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	verdict := "rejected"
	if approve {
		verdict = "approved"
	}
	s.Notifier.Notify(ctx, app.UserID, queue.LifecycleEvent{
		Kind:       "crew_application_" + verdict,
		SourceType: "crew_application",
		SourceID:   applicationID,
		MerchantID: merchantID,
		Title:      "Crew application " + verdict,
		Body:       fmt.Sprintf("Your crew application was %s. %s", verdict, reason),
	})
	return nil
}
