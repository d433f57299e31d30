package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/repository"
	"github.com/driftdock/marina-api/internal/service"
)

// ReviewHandler covers post-trip crew ratings and product reviews.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Svc     *service.ReviewService
}

type rateReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Rate attaches a 1..5 rating to a completed booking.
func (h *ReviewHandler) Rate(c echo.Context) error {
	bookingID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req rateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cr, err := h.Svc.Rate(c.Request().Context(), getUserID(c), bookingID, req.Rating, req.Comment)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, cr)
}

// ForBooking returns the rating attached to a booking, if any.
func (h *ReviewHandler) ForBooking(c echo.Context) error {
	bookingID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cr, err := h.Reviews.GetByBooking(c.Request().Context(), bookingID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, cr)
}

// RateProduct attaches a 1..5 review to one line of a completed order.
func (h *ReviewHandler) RateProduct(c echo.Context) error {
	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := parseID(c, "item_id")
	if err != nil {
		return err
	}
	var req rateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	pr, err := h.Svc.RateProduct(c.Request().Context(), getUserID(c), orderID, itemID, req.Rating, req.Comment)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, pr)
}

// ForProduct returns a product's reviews, newest first.
func (h *ReviewHandler) ForProduct(c echo.Context) error {
	productID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	prs, err := h.Reviews.ListForProduct(c.Request().Context(), productID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, prs)
}
