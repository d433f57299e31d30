package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/driftdock/marina-api/internal/model"
)

var (
	ErrAlreadyRated    = errors.New("booking already rated")
	ErrAlreadyReviewed = errors.New("order item already reviewed")
)

// ReviewRepo persists crew ratings and product reviews. One rating per
// booking and one review per order item, each enforced by a unique index;
// the rating insert and the crew average update share a transaction.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// CreateTx inserts a rating row inside the caller's transaction.
func (r *ReviewRepo) CreateTx(ctx context.Context, tx *sql.Tx, rating *model.CrewRating) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO crew_ratings (booking_id, user_id, crew_id, rating, comment) VALUES (?,?,?,?,?)",
		rating.BookingID, rating.UserID, rating.CrewID, rating.Rating, rating.Comment)
	if err != nil {
		if isDup(err) {
			return ErrAlreadyRated
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rating.ID = uint64(id)
	return nil
}

// ListForCrew returns a crew member's ratings, newest first.
func (r *ReviewRepo) ListForCrew(ctx context.Context, crewID uint64) ([]model.CrewRating, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,booking_id,user_id,crew_id,rating,comment,created_at FROM crew_ratings WHERE crew_id=? ORDER BY created_at DESC LIMIT 100",
		crewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CrewRating, 0)
	for rows.Next() {
		var cr model.CrewRating
		if err := rows.Scan(&cr.ID, &cr.BookingID, &cr.UserID, &cr.CrewID,
			&cr.Rating, &cr.Comment, &cr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

// GetByBooking returns the rating for a booking, if any.
func (r *ReviewRepo) GetByBooking(ctx context.Context, bookingID uint64) (model.CrewRating, error) {
	var cr model.CrewRating
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,booking_id,user_id,crew_id,rating,comment,created_at FROM crew_ratings WHERE booking_id=? LIMIT 1",
		bookingID).Scan(&cr.ID, &cr.BookingID, &cr.UserID, &cr.CrewID,
		&cr.Rating, &cr.Comment, &cr.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return cr, model.ErrNotFound
	}
	return cr, err
}

// CreateProductReview inserts a review for one order item.
func (r *ReviewRepo) CreateProductReview(ctx context.Context, pr *model.ProductReview) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO product_reviews (order_item_id, order_id, product_id, user_id, rating, comment) VALUES (?,?,?,?,?,?)",
		pr.OrderItemID, pr.OrderID, pr.ProductID, pr.UserID, pr.Rating, pr.Comment)
	if err != nil {
		if isDup(err) {
			return ErrAlreadyReviewed
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	pr.ID = uint64(id)
	return nil
}

// ListForProduct returns a product's reviews, newest first.
func (r *ReviewRepo) ListForProduct(ctx context.Context, productID uint64) ([]model.ProductReview, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,order_item_id,order_id,product_id,user_id,rating,comment,created_at FROM product_reviews WHERE product_id=? ORDER BY created_at DESC LIMIT 100",
		productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ProductReview, 0)
	for rows.Next() {
		var pr model.ProductReview
		if err := rows.Scan(&pr.ID, &pr.OrderItemID, &pr.OrderID, &pr.ProductID,
			&pr.UserID, &pr.Rating, &pr.Comment, &pr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}
