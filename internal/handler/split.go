package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/repository"
	"github.com/driftdock/marina-api/internal/service"
)

// SplitHandler covers split-rule administration and the settlement ledger.
type SplitHandler struct {
	Splits  *repository.SplitRepo
	Settler *service.Settler
}

type splitRuleReq struct {
	Kind        string `json:"kind"`
	PlatformBps int    `json:"platform_bps"`
	MerchantBps int    `json:"merchant_bps"`
	CrewBps     int    `json:"crew_bps"`
	Description string `json:"description"`
}

// CreateRule installs a new active rule for a kind, superseding the old one
// (admin only). Existing ledger records keep the rule they were settled
// under.
func (h *SplitHandler) CreateRule(c echo.Context) error {
	var req splitRuleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	rule := model.SplitRule{
		Kind:        req.Kind,
		PlatformBps: req.PlatformBps,
		MerchantBps: req.MerchantBps,
		CrewBps:     req.CrewBps,
		Description: req.Description,
	}
	if err := rule.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	id, err := h.Splits.CreateRule(c.Request().Context(), &rule)
	if err != nil {
		return fail(c, err)
	}
	rule.ID = id
	rule.IsActive = true
	return c.JSON(http.StatusCreated, rule)
}

// ListRules lists rules, filterable by kind (admin only).
func (h *SplitHandler) ListRules(c echo.Context) error {
	rules, err := h.Splits.ListRules(c.Request().Context(), c.QueryParam("kind"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rules)
}

// ListRecords lists the whole ledger (admin only).
func (h *SplitHandler) ListRecords(c echo.Context) error {
	recs, err := h.Splits.ListRecords(c.Request().Context(), c.QueryParam("kind"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}

// MyMerchantRecords lists the calling merchant's settlements.
func (h *SplitHandler) MyMerchantRecords(c echo.Context) error {
	recs, err := h.Splits.ListRecordsForMerchant(c.Request().Context(), getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}

// MyCrewRecords lists the calling crew member's settlements.
func (h *SplitHandler) MyCrewRecords(c echo.Context) error {
	recs, err := h.Splits.ListRecordsForCrew(c.Request().Context(), getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}

type settleReq struct {
	Kind     string `json:"kind"`
	SourceID uint64 `json:"source_id"`
}

// Settle re-runs settlement for a transaction whose automatic settlement
// failed (admin only). Idempotent: an already settled transaction returns
// its existing record.
func (h *SplitHandler) Settle(c echo.Context) error {
	var req settleReq
	if err := c.Bind(&req); err != nil || req.SourceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind and source_id are required"})
	}
	rec, err := h.Settler.Settle(c.Request().Context(), req.Kind, req.SourceID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}
