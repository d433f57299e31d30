package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/repository"
)

// BoatHandler covers the boat catalog: public browsing plus merchant
// management.
type BoatHandler struct {
	Boats *repository.BoatRepo
}

type boatReq struct {
	Name            string `json:"name"`
	BoatType        string `json:"boat_type"`
	Capacity        int    `json:"capacity"`
	HourlyRateCents int64  `json:"hourly_rate_cents"`
	Description     string `json:"description"`
	Status          string `json:"status"`
}

func (r boatReq) validate() error {
	if r.Name == "" || r.BoatType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and boat_type are required")
	}
	if r.Capacity <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "capacity must be positive")
	}
	if r.HourlyRateCents <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "hourly_rate_cents must be positive")
	}
	return nil
}

// Create adds a boat to the calling merchant's fleet.
func (h *BoatHandler) Create(c echo.Context) error {
	var req boatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return err
	}
	status := req.Status
	if status == "" {
		status = model.BoatAvailable
	}
	b := &model.Boat{
		MerchantID:      getUserID(c),
		Name:            req.Name,
		BoatType:        req.BoatType,
		Capacity:        req.Capacity,
		HourlyRateCents: req.HourlyRateCents,
		Description:     req.Description,
		Status:          status,
	}
	id, err := h.Boats.Create(c.Request().Context(), b)
	if err != nil {
		return fail(c, err)
	}
	b.ID = id
	return c.JSON(http.StatusCreated, b)
}

// ListPublic returns available boats, filterable by type and capacity.
func (h *BoatHandler) ListPublic(c echo.Context) error {
	minCap := 0
	if s := c.QueryParam("min_capacity"); s != "" {
		minCap, _ = strconv.Atoi(s)
	}
	boats, err := h.Boats.ListPublic(c.Request().Context(), c.QueryParam("type"), minCap)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, boats)
}

// Get returns one boat.
func (h *BoatHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.Boats.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// ListMine returns the calling merchant's whole fleet.
func (h *BoatHandler) ListMine(c echo.Context) error {
	boats, err := h.Boats.ListByMerchant(c.Request().Context(), getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, boats)
}

// Update edits one of the merchant's boats.
func (h *BoatHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req boatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return err
	}
	if req.Status == "" {
		req.Status = model.BoatAvailable
	}
	b := &model.Boat{
		ID:              id,
		Name:            req.Name,
		BoatType:        req.BoatType,
		Capacity:        req.Capacity,
		HourlyRateCents: req.HourlyRateCents,
		Description:     req.Description,
		Status:          req.Status,
	}
	if err := h.Boats.Update(c.Request().Context(), getUserID(c), b); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type boatStatusReq struct {
	Status string `json:"status"`
}

// SetStatus flips a boat between available, maintenance and retired.
func (h *BoatHandler) SetStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req boatStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch req.Status {
	case model.BoatAvailable, model.BoatMaintenance, model.BoatRetired:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if err := h.Boats.SetStatus(c.Request().Context(), getUserID(c), id, req.Status); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
