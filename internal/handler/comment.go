package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devboard/devboard/internal/auth"
	"github.com/devboard/devboard/internal/model"
	"github.com/devboard/devboard/internal/repository"
)

// CommentStore is the slice of the comment repository the handlers use.
type CommentStore interface {
	Create(ctx context.Context, postID, authorID uint64, content string) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.Comment, error)
	ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error)
	Update(ctx context.Context, id uint64, content string) error
	Delete(ctx context.Context, id uint64) error
}

// PostLookup is the minimal post access comments need: existence of the
// parent post.
type PostLookup interface {
	GetByID(ctx context.Context, id uint64) (model.Post, error)
}

type CommentHandler struct {
	Comments CommentStore
	Posts    PostLookup
}

func NewCommentHandler(comments CommentStore, posts PostLookup) *CommentHandler {
	return &CommentHandler{Comments: comments, Posts: posts}
}

type commentReq struct {
	Content string `json:"content"`
}

type commentPart struct {
	ID        uint64    `json:"id"`
	PostID    uint64    `json:"postId"`
	AuthorID  uint64    `json:"authorId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCommentPart(cm model.Comment) commentPart {
	return commentPart{
		ID: cm.ID, PostID: cm.PostID, AuthorID: cm.AuthorID, Author: cm.AuthorName,
		Content: cm.Content, CreatedAt: cm.CreatedAt, UpdatedAt: cm.UpdatedAt,
	}
}

// ListByPost handles GET /api/posts/:id/comments.
func (h *CommentHandler) ListByPost(c echo.Context) error {
	if _, err := auth.RequireAuthenticated(c.Request().Context()); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load comments failed"})
	}
	comments, err := h.Comments.ListByPost(ctx, postID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load comments failed"})
	}
	out := make([]commentPart, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toCommentPart(cm))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/posts/:id/comments.
func (h *CommentHandler) Create(c echo.Context) error {
	p, err := auth.RequireAuthenticated(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}

	id, err := h.Comments.Create(ctx, postID, p.UserID, req.Content)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}
	cm, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}
	return c.JSON(http.StatusCreated, toCommentPart(cm))
}

// Update handles PUT /api/comments/:id. Only the author may edit.
func (h *CommentHandler) Update(c echo.Context) error {
	if _, err := auth.RequireAuthenticated(c.Request().Context()); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cm, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update comment failed"})
	}
	if err := auth.RequireOwner(c.Request().Context(), cm); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Comments.Update(ctx, id, req.Content); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update comment failed"})
	}
	cm, err = h.Comments.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update comment failed"})
	}
	return c.JSON(http.StatusOK, toCommentPart(cm))
}

// Delete handles DELETE /api/comments/:id. Only the author may delete.
func (h *CommentHandler) Delete(c echo.Context) error {
	if _, err := auth.RequireAuthenticated(c.Request().Context()); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cm, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete comment failed"})
	}
	if err := auth.RequireOwner(c.Request().Context(), cm); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Comments.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete comment failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
