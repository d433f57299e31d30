package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/repository"
	"github.com/driftdock/marina-api/internal/service"
)

// BookingHandler covers the booking lifecycle for buyers, merchants and
// crew.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Svc      *service.BookingService
}

type createBookingReq struct {
	BoatID       uint64  `json:"boat_id"`
	CrewID       *uint64 `json:"crew_id"`
	StartAt      string  `json:"start_at"` // RFC3339
	EndAt        string  `json:"end_at"`
	Passengers   int     `json:"passenger_count"`
	ContactName  string  `json:"contact_name"`
	ContactPhone string  `json:"contact_phone"`
	Notes        string  `json:"notes"`
}

// Create places a pending booking for the current user.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.BoatID == 0 || req.ContactName == "" || req.ContactPhone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "boat_id, contact_name and contact_phone are required"})
	}
	start, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_at must be RFC3339"})
	}
	end, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_at must be RFC3339"})
	}
	b, err := h.Svc.Create(c.Request().Context(), getUserID(c), service.CreateBookingInput{
		BoatID:       req.BoatID,
		CrewID:       req.CrewID,
		StartAt:      start.UTC(),
		EndAt:        end.UTC(),
		Passengers:   req.Passengers,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		Notes:        req.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// Get returns one booking, visible to its buyer, merchant, assigned crew
// and admins.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	if !service.CanViewBooking(b, getUserID(c), getRole(c)) {
		return fail(c, model.ErrForbidden)
	}
	return c.JSON(http.StatusOK, b)
}

// ListMine returns the caller's bookings as a buyer.
func (h *BookingHandler) ListMine(c echo.Context) error {
	bs, err := h.Bookings.ListByUser(c.Request().Context(), getUserID(c), c.QueryParam("status"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, bs)
}

// ListForMerchant returns bookings on the calling merchant's boats.
func (h *BookingHandler) ListForMerchant(c echo.Context) error {
	bs, err := h.Bookings.ListByMerchant(c.Request().Context(), getUserID(c), c.QueryParam("status"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, bs)
}

// ListForCrew returns the calling crew member's assignments.
func (h *BookingHandler) ListForCrew(c echo.Context) error {
	bs, err := h.Bookings.ListByCrew(c.Request().Context(), getUserID(c), c.QueryParam("status"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, bs)
}

type confirmReq struct {
	CrewID *uint64 `json:"crew_id"`
	Notes  string  `json:"notes"`
}

// Confirm moves a pending booking to confirmed (merchant only).
func (h *BookingHandler) Confirm(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req confirmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b, err := h.Svc.Confirm(c.Request().Context(), getUserID(c), id, req.CrewID, req.Notes)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

type cancelReq struct {
	Reason string `json:"reason"`
}

// Cancel cancels a pending or confirmed booking (buyer or merchant).
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b, err := h.Svc.Cancel(c.Request().Context(), getUserID(c), getRole(c), id, req.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Complete marks a confirmed booking as completed (merchant or assigned
// crew).
func (h *BookingHandler) Complete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.Svc.Complete(c.Request().Context(), getUserID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
