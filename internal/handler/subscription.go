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

// SubscriptionStore is the slice of the subscription repository the
// handlers use.
type SubscriptionStore interface {
	Exists(ctx context.Context, userID, themeID uint64) (bool, error)
	Create(ctx context.Context, userID, themeID uint64) error
	Delete(ctx context.Context, userID, themeID uint64) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Subscription, error)
}

type SubscriptionHandler struct {
	Subs   SubscriptionStore
	Themes ThemeStore
}

func NewSubscriptionHandler(subs SubscriptionStore, themes ThemeStore) *SubscriptionHandler {
	return &SubscriptionHandler{Subs: subs, Themes: themes}
}

type subscriptionPart struct {
	UserID       uint64    `json:"userId"`
	ThemeID      uint64    `json:"themeId"`
	ThemeTitle   string    `json:"themeTitle"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// List handles GET /api/subscriptions: the caller's own subscriptions only.
func (h *SubscriptionHandler) List(c echo.Context) error {
	p, err := auth.RequireAuthenticated(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	subs, err := h.Subs.ListByUser(ctx, p.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list subscriptions failed"})
	}
	out := make([]subscriptionPart, 0, len(subs))
	for _, s := range subs {
		out = append(out, subscriptionPart{
			UserID: s.UserID, ThemeID: s.ThemeID, ThemeTitle: s.ThemeTitle, SubscribedAt: s.SubscribedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Subscribe handles POST /api/themes/:id/subscribe. The existence check
// fails fast with 409; under a concurrent duplicate the composite primary
// key surfaces the same 409 from the repository.
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	p, err := auth.RequireAuthenticated(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	themeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if ok, err := h.Themes.Exists(ctx, themeID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "subscribe failed"})
	} else if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
	}

	if exists, err := h.Subs.Exists(ctx, p.UserID, themeID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "subscribe failed"})
	} else if exists {
		return c.JSON(http.StatusConflict, echo.Map{"error": "already subscribed"})
	}

	if err := h.Subs.Create(ctx, p.UserID, themeID); err != nil {
		if errors.Is(err, repository.ErrAlreadySubscribed) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "already subscribed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "subscribe failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"userId": p.UserID, "themeId": themeID})
}

// Unsubscribe handles DELETE /api/themes/:id/subscribe.
func (h *SubscriptionHandler) Unsubscribe(c echo.Context) error {
	p, err := auth.RequireAuthenticated(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	themeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Subs.Delete(ctx, p.UserID, themeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subscription not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unsubscribe failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
