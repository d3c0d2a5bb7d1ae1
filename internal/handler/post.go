package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devboard/devboard/internal/auth"
	"github.com/devboard/devboard/internal/model"
	"github.com/devboard/devboard/internal/queue"
	"github.com/devboard/devboard/internal/repository"
)

// PostStore is the slice of the post repository the handlers use.
type PostStore interface {
	Create(ctx context.Context, themeID, authorID uint64, title, content string) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.Post, error)
	Feed(ctx context.Context, userID uint64) ([]model.Post, error)
	ListByTheme(ctx context.Context, themeID uint64) ([]model.Post, error)
	Update(ctx context.Context, id uint64, title, content string) error
	Delete(ctx context.Context, id uint64) error
}

// EventPublisher publishes domain events. Publishing is best effort: a
// broker outage must not fail the request that created the post.
type EventPublisher interface {
	PublishPostCreated(ctx context.Context, ev queue.PostCreatedEvent) error
}

// PostHandler serves the post feed and CRUD. Mutations go through the
// ownership guard; creation publishes a post.created event consumed by the
// notifier.
type PostHandler struct {
	Posts     PostStore
	Themes    ThemeStore
	Publisher EventPublisher
}

func NewPostHandler(posts PostStore, themes ThemeStore, pub EventPublisher) *PostHandler {
	return &PostHandler{Posts: posts, Themes: themes, Publisher: pub}
}

type postReq struct {
	ThemeID uint64 `json:"themeId"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
type postUpdateReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type postPart struct {
	ID        uint64    `json:"id"`
	ThemeID   uint64    `json:"themeId"`
	AuthorID  uint64    `json:"authorId"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toPostPart(p model.Post) postPart {
	return postPart{
		ID: p.ID, ThemeID: p.ThemeID, AuthorID: p.AuthorID, Author: p.AuthorName,
		Title: p.Title, Content: p.Content, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

// Feed handles GET /api/posts: posts from the caller's subscribed themes,
// newest first.
func (h *PostHandler) Feed(c echo.Context) error {
	p, err := auth.RequireAuthenticated(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, err := h.Posts.Feed(ctx, p.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load feed failed"})
	}
	out := make([]postPart, 0, len(posts))
	for _, po := range posts {
		out = append(out, toPostPart(po))
	}
	return c.JSON(http.StatusOK, out)
}

// ListByTheme handles GET /api/themes/:id/posts.
func (h *PostHandler) ListByTheme(c echo.Context) error {
	if _, err := auth.RequireAuthenticated(c.Request().Context()); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	themeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if ok, err := h.Themes.Exists(ctx, themeID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load posts failed"})
	} else if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
	}
	posts, err := h.Posts.ListByTheme(ctx, themeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load posts failed"})
	}
	out := make([]postPart, 0, len(posts))
	for _, po := range posts {
		out = append(out, toPostPart(po))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/posts/:id.
func (h *PostHandler) Get(c echo.Context) error {
	if _, err := auth.RequireAuthenticated(c.Request().Context()); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	po, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load post failed"})
	}
	return c.JSON(http.StatusOK, toPostPart(po))
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(c echo.Context) error {
	p, err := auth.RequireAuthenticated(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req postReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.ThemeID == 0 || req.Title == "" || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "themeId, title and content required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	theme, err := h.Themes.GetByID(ctx, req.ThemeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}

	id, err := h.Posts.Create(ctx, req.ThemeID, p.UserID, req.Title, req.Content)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}
	po, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}

	if h.Publisher != nil {
		ev := queue.NewPostCreatedEvent(po, theme.Title)
		if err := h.Publisher.PublishPostCreated(ctx, ev); err != nil {
			log.Printf("post: publish post.created failed: %v", err)
		}
	}
	return c.JSON(http.StatusCreated, toPostPart(po))
}

// Update handles PUT /api/posts/:id. Only the author may edit.
func (h *PostHandler) Update(c echo.Context) error {
	if _, err := auth.RequireAuthenticated(c.Request().Context()); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req postUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	po, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update post failed"})
	}
	if err := auth.RequireOwner(c.Request().Context(), po); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Posts.Update(ctx, id, req.Title, req.Content); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update post failed"})
	}
	po, err = h.Posts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update post failed"})
	}
	return c.JSON(http.StatusOK, toPostPart(po))
}

// Delete handles DELETE /api/posts/:id. Only the author may delete.
func (h *PostHandler) Delete(c echo.Context) error {
	if _, err := auth.RequireAuthenticated(c.Request().Context()); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	po, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete post failed"})
	}
	if err := auth.RequireOwner(c.Request().Context(), po); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Posts.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete post failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
