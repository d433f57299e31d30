package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/repository"
	"github.com/driftdock/marina-api/internal/service"
)

// MerchantHandler covers merchant onboarding and storefront profile
// management.
type MerchantHandler struct {
	Merchants  *repository.MerchantRepo
	Onboarding *service.OnboardingService
}

type merchantApplyReq struct {
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
	ContactPhone  string `json:"contact_phone"`
	Address       string `json:"address"`
	Description   string `json:"description"`
}

// Apply files a merchant application for the current user.
func (h *MerchantHandler) Apply(c echo.Context) error {
	var req merchantApplyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.LicenseNumber == "" || req.ContactPhone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, license_number and contact_phone are required"})
	}
	m := &model.Merchant{
		UserID:        getUserID(c),
		Name:          req.Name,
		LicenseNumber: req.LicenseNumber,
		ContactPhone:  req.ContactPhone,
		Address:       req.Address,
		Description:   req.Description,
	}
	if err := h.Merchants.Apply(c.Request().Context(), m); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": model.MerchantPending})
}

// MyApplication returns the caller's merchant row (application or profile).
func (h *MerchantHandler) MyApplication(c echo.Context) error {
	m, err := h.Merchants.GetByUserID(c.Request().Context(), getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// ListPending lists applications awaiting an admin decision.
func (h *MerchantHandler) ListPending(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = model.MerchantPending
	}
	ms, err := h.Merchants.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ms)
}

type decideReq struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// Decide resolves a pending merchant application (admin only).
func (h *MerchantHandler) Decide(c echo.Context) error {
	applicantID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req decideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Onboarding.DecideMerchant(c.Request().Context(), applicantID, req.Approve); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type merchantUpdateReq struct {
	Name         string `json:"name"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
	Description  string `json:"description"`
}

// UpdateProfile edits the active merchant's storefront fields.
func (h *MerchantHandler) UpdateProfile(c echo.Context) error {
	var req merchantUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.ContactPhone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and contact_phone are required"})
	}
	err := h.Merchants.UpdateProfile(c.Request().Context(), getUserID(c),
		req.Name, req.ContactPhone, req.Address, req.Description)
	if err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PublicProfile exposes an active merchant's storefront to everyone.
func (h *MerchantHandler) PublicProfile(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	m, err := h.Merchants.GetByUserID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	if m.Status != model.MerchantActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	// License stays private.
	m.LicenseNumber = ""
	return c.JSON(http.StatusOK, m)
}
