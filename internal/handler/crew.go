package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/repository"
	"github.com/driftdock/marina-api/internal/service"
)

// CrewHandler covers crew applications and roster management.
type CrewHandler struct {
	Crews      *repository.CrewRepo
	Merchants  *repository.MerchantRepo
	Reviews    *repository.ReviewRepo
	Onboarding *service.OnboardingService
}

type crewApplyReq struct {
	MerchantID uint64 `json:"merchant_id"`
	CertNumber string `json:"cert_number"`
	YearsAtSea int    `json:"years_at_sea"`
	Intro      string `json:"intro"`
}

// Apply files a crew application targeting an active merchant.
func (h *CrewHandler) Apply(c echo.Context) error {
	var req crewApplyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MerchantID == 0 || req.CertNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "merchant_id and cert_number are required"})
	}
	m, err := h.Merchants.GetByUserID(c.Request().Context(), req.MerchantID)
	if err != nil {
		return fail(c, err)
	}
	if m.Status != model.MerchantActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "merchant is not active"})
	}
	a := &model.CrewApplication{
		UserID:     getUserID(c),
		MerchantID: req.MerchantID,
		CertNumber: req.CertNumber,
		YearsAtSea: req.YearsAtSea,
		Intro:      req.Intro,
	}
	id, err := h.Crews.Apply(c.Request().Context(), a)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "status": model.CrewApplicationPending})
}

// MyApplications returns the caller's application history.
func (h *CrewHandler) MyApplications(c echo.Context) error {
	apps, err := h.Crews.ListApplicationsForUser(c.Request().Context(), getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, apps)
}

// ListApplications returns applications targeting the calling merchant.
func (h *CrewHandler) ListApplications(c echo.Context) error {
	apps, err := h.Crews.ListApplicationsForMerchant(c.Request().Context(),
		getUserID(c), c.QueryParam("status"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, apps)
}

// Decide resolves a crew application on behalf of the calling merchant.
func (h *CrewHandler) Decide(c echo.Context) error {
	appID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req decideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Onboarding.DecideCrew(c.Request().Context(), getUserID(c), appID, req.Approve, req.Reason); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Roster lists the calling merchant's crew members.
func (h *CrewHandler) Roster(c echo.Context) error {
	crews, err := h.Crews.ListCrewForMerchant(c.Request().Context(), getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, crews)
}

type crewStatusReq struct {
	Status string `json:"status"` // active | inactive
}

// SetStatus activates or deactivates one of the merchant's crew members.
func (h *CrewHandler) SetStatus(c echo.Context) error {
	crewID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req crewStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != model.CrewActive && req.Status != model.CrewInactive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be active or inactive"})
	}
	if err := h.Crews.SetCrewStatus(c.Request().Context(), getUserID(c), crewID, req.Status); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Profile returns a crew member's public profile with recent ratings.
func (h *CrewHandler) Profile(c echo.Context) error {
	crewID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	crew, err := h.Crews.GetCrew(c.Request().Context(), crewID)
	if err != nil {
		return fail(c, err)
	}
	ratings, err := h.Reviews.ListForCrew(c.Request().Context(), crewID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"crew": crew, "ratings": ratings})
}
