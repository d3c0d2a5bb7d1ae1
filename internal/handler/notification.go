package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devboard/devboard/internal/auth"
	"github.com/devboard/devboard/internal/model"
	"github.com/devboard/devboard/internal/repository"
)

// NotificationStore is the slice of the notification repository the
// handlers use.
type NotificationStore interface {
	GetByID(ctx context.Context, id uint64) (model.Notification, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Notification, error)
	MarkRead(ctx context.Context, id uint64) error
}

// NotificationHandler serves the notification feed in the notifier service.
type NotificationHandler struct {
	Notifications NotificationStore
}

func NewNotificationHandler(notifs NotificationStore) *NotificationHandler {
	return &NotificationHandler{Notifications: notifs}
}

type notificationPart struct {
	ID        uint64    `json:"id"`
	PostID    uint64    `json:"postId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// List handles GET /api/notifications: the caller's own feed, newest first.
func (h *NotificationHandler) List(c echo.Context) error {
	p, err := auth.RequireAuthenticated(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	notifs, err := h.Notifications.ListByUser(ctx, p.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list notifications failed"})
	}
	out := make([]notificationPart, 0, len(notifs))
	for _, n := range notifs {
		out = append(out, notificationPart{
			ID: n.ID, PostID: n.PostID, Message: n.Message, Read: n.Read, CreatedAt: n.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// MarkRead handles POST /api/notifications/:id/read. Only the recipient may
// mark their notification.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if _, err := auth.RequireAuthenticated(c.Request().Context()); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mark read failed"})
	}
	if err := auth.RequireOwner(c.Request().Context(), n); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Notifications.MarkRead(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mark read failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
