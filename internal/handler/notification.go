package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/repository"
)

// NotificationHandler covers the per-user inbox.
type NotificationHandler struct {
	Inbox *repository.NotificationRepo
}

// List returns the caller's inbox; ?unread=1 filters to unread.
func (h *NotificationHandler) List(c echo.Context) error {
	unreadOnly := c.QueryParam("unread") == "1"
	ns, err := h.Inbox.ListForUser(c.Request().Context(), getUserID(c), unreadOnly)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ns)
}

// UnreadCount returns the badge count.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	n, err := h.Inbox.CountUnread(c.Request().Context(), getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": n})
}

// MarkRead marks one notification as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Inbox.MarkRead(c.Request().Context(), getUserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead clears the whole inbox.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.Inbox.MarkAllRead(c.Request().Context(), getUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
