// Package handler contains the HTTP layer: request DTOs, parameter parsing
// and the mapping from domain errors to status codes. Business rules live in
// the service package.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/repository"
	"github.com/driftdock/marina-api/internal/service"
)

// getUserID pulls the authenticated user id set by the JWT middleware. JWT
// numeric claims decode as float64.
func getUserID(c echo.Context) uint64 {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v)
	case uint64:
		return v
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func getRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// fail translates a domain error into an HTTP response. Unknown errors are
// surfaced as 500 without leaking internals.
func fail(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	switch {
	case errors.Is(err, model.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, model.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, model.ErrOverlapConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "time window conflicts with an existing booking"})
	case errors.Is(err, model.ErrInsufficientStock):
		return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient stock"})
	case errors.Is(err, model.ErrNoActiveRule):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no active split rule for this transaction kind"})
	case model.IsStateError(err):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrUsernameExists),
		errors.Is(err, repository.ErrLicenseExists),
		errors.Is(err, repository.ErrOpenApplication),
		errors.Is(err, repository.ErrAlreadyRated),
		errors.Is(err, repository.ErrAlreadyReviewed):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidWindow),
		errors.Is(err, service.ErrWindowInPast),
		errors.Is(err, service.ErrBadQuantity),
		errors.Is(err, service.ErrBadRating),
		errors.Is(err, service.ErrEmptyCart):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrBoatNotOpen),
		errors.Is(err, service.ErrProductNotOpen),
		errors.Is(err, service.ErrOverCapacity),
		errors.Is(err, service.ErrCrewNotEligible):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
