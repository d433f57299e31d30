package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/repository"
)

var ErrBadRating = errors.New("rating must be between 1 and 5")

// ReviewService records post-trip crew ratings and product reviews on
// completed order lines. The crew rating row and the crew's running average
// update commit together.
type ReviewService struct {
	DB       *sql.DB
	Bookings *repository.BookingRepo
	Orders   *repository.OrderRepo
	Reviews  *repository.ReviewRepo
	Crews    *repository.CrewRepo
}

// Rate attaches a 1..5 rating to a completed booking. One rating per
// booking; only the buyer of the booking may rate, and only when crew was
// assigned.
func (s *ReviewService) Rate(ctx context.Context, userID, bookingID uint64, rating int, comment string) (model.CrewRating, error) {
	if rating < 1 || rating > 5 {
		return model.CrewRating{}, ErrBadRating
	}
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return model.CrewRating{}, err
	}
	if b.UserID != userID {
		return model.CrewRating{}, model.ErrForbidden
	}
	if !CanRateBooking(b, userID) {
		return model.CrewRating{}, &model.StateError{Entity: "booking", Event: "rate", Current: b.Status}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.CrewRating{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cr := model.CrewRating{
		BookingID: bookingID,
		UserID:    userID,
		CrewID:    *b.CrewID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.Reviews.CreateTx(ctx, tx, &cr); err != nil {
		return model.CrewRating{}, err
	}
	if err := s.Crews.ApplyRatingTx(ctx, tx, cr.CrewID, rating); err != nil {
		return model.CrewRating{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.CrewRating{}, err
	}
	committed = true
	return cr, nil
}

// RateProduct attaches a 1..5 review to one line of the buyer's completed
// order. One review per order item.
func (s *ReviewService) RateProduct(ctx context.Context, userID, orderID, itemID uint64, rating int, comment string) (model.ProductReview, error) {
	if rating < 1 || rating > 5 {
		return model.ProductReview{}, ErrBadRating
	}
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return model.ProductReview{}, err
	}
	if o.UserID != userID {
		return model.ProductReview{}, model.ErrForbidden
	}
	if o.Status != model.OrderCompleted {
		return model.ProductReview{}, &model.StateError{Entity: "order", Event: "review", Current: o.Status}
	}
	var item *model.OrderItem
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			item = &o.Items[i]
			break
		}
	}
	if item == nil {
		return model.ProductReview{}, model.ErrNotFound
	}

	pr := model.ProductReview{
		OrderItemID: item.ID,
		OrderID:     o.ID,
		ProductID:   item.ProductID,
		UserID:      userID,
		Rating:      rating,
		Comment:     comment,
	}
	if err := s.Reviews.CreateProductReview(ctx, &pr); err != nil {
		return model.ProductReview{}, err
	}
	return pr, nil
}
