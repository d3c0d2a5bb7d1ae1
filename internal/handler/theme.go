package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devboard/devboard/internal/model"
	"github.com/devboard/devboard/internal/repository"
)

// ThemeStore is the slice of the theme repository the handlers use.
type ThemeStore interface {
	List(ctx context.Context) ([]model.Theme, error)
	GetByID(ctx context.Context, id uint64) (model.Theme, error)
	Exists(ctx context.Context, id uint64) (bool, error)
}

// ThemeHandler serves theme reads. Themes are seeded data; there is no
// create or update endpoint.
type ThemeHandler struct {
	Themes ThemeStore
}

func NewThemeHandler(themes ThemeStore) *ThemeHandler {
	return &ThemeHandler{Themes: themes}
}

type themePart struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// List handles GET /api/themes. It is public (the landing page shows topics
// before login) and sits behind the response cache.
func (h *ThemeHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	themes, err := h.Themes.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list themes failed"})
	}
	out := make([]themePart, 0, len(themes))
	for _, t := range themes {
		out = append(out, themePart{ID: t.ID, Title: t.Title, Description: t.Description})
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/themes/:id.
func (h *ThemeHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Themes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load theme failed"})
	}
	return c.JSON(http.StatusOK, themePart{ID: t.ID, Title: t.Title, Description: t.Description})
}
