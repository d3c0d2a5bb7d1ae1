package handler

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devboard/devboard/internal/auth"
	"github.com/devboard/devboard/internal/config"
	"github.com/devboard/devboard/internal/model"
	"github.com/devboard/devboard/internal/repository"
)

// UserStore is the credential store boundary the auth endpoints depend on.
// *repository.UserRepo satisfies it; tests substitute an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, email, username, passwordHash string) (uint64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateProfile(ctx context.Context, id uint64, email, username, passwordHash string) error
}

// AuthHandler implements registration, login and profile management. It is
// the only place tokens are minted; verification happens in the identity
// middleware of whichever service receives the token.
type AuthHandler struct {
	Cfg   config.Config
	Codec *auth.Codec
	Users UserStore
}

func NewAuthHandler(cfg config.Config, codec *auth.Codec, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Codec: codec, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type updateProfileReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"` // optional; empty keeps the current one
}

type userPart struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// authResp is the wire shape of every issuance response. A null token
// signals failure; the message carries the human-readable reason.
type authResp struct {
	Token   *string   `json:"token"`
	Message string    `json:"message"`
	User    *userPart `json:"user,omitempty"`
}

func tokenResp(token string, msg string, u userPart) authResp {
	return authResp{Token: &token, Message: msg, User: &u}
}

// loginFailed is the single response used for unknown email and wrong
// password alike, so the two are not distinguishable by the caller.
var loginFailed = authResp{Message: "invalid credentials"}

// Register creates an account and returns a token immediately; registration
// implies login, there is no separate step.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResp{Message: "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if msg := validateRegistration(req.Email, req.Username, req.Password); msg != "" {
		return c.JSON(http.StatusBadRequest, authResp{Message: msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Email and username are checked independently so the caller learns
	// which field conflicted. This is fine at registration; only login must
	// hide whether an email is known.
	if taken, err := h.Users.ExistsByEmail(ctx, req.Email); err != nil {
		return c.JSON(http.StatusInternalServerError, authResp{Message: "registration failed"})
	} else if taken {
		return c.JSON(http.StatusConflict, authResp{Message: "email already in use"})
	}
	if taken, err := h.Users.ExistsByUsername(ctx, req.Username); err != nil {
		return c.JSON(http.StatusInternalServerError, authResp{Message: "registration failed"})
	} else if taken {
		return c.JSON(http.StatusConflict, authResp{Message: "username already in use"})
	}

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, authResp{Message: "registration failed"})
	}
	uid, err := h.Users.Create(ctx, req.Email, req.Username, hash)
	if err != nil {
		// The unique indexes are the backstop for concurrent registrations.
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return c.JSON(http.StatusConflict, authResp{Message: "email already in use"})
		case errors.Is(err, repository.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, authResp{Message: "username already in use"})
		}
		return c.JSON(http.StatusInternalServerError, authResp{Message: "registration failed"})
	}

	token, err := h.Codec.Encode(req.Email, uid, req.Username, h.tokenTTL())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, authResp{Message: "registration failed"})
	}
	return c.JSON(http.StatusCreated, tokenResp(token, "account created",
		userPart{ID: uid, Email: req.Email, Username: req.Username}))
}

// Login verifies credentials and mints a token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResp{Message: "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, authResp{Message: "email and password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, loginFailed)
		}
		return c.JSON(http.StatusInternalServerError, authResp{Message: "login failed"})
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, loginFailed)
	}

	token, err := h.Codec.Encode(u.Email, u.ID, u.Username, h.tokenTTL())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, authResp{Message: "login failed"})
	}
	return c.JSON(http.StatusOK, tokenResp(token, "logged in",
		userPart{ID: u.ID, Email: u.Email, Username: u.Username}))
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := auth.RequireAuthenticated(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Token outlived the account.
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, userPart{ID: u.ID, Email: u.Email, Username: u.Username})
}

// UpdateProfile changes email, username and optionally the password, then
// re-issues a token because the claims embed the identity being changed.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	p, err := auth.RequireAuthenticated(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResp{Message: "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Username == "" {
		return c.JSON(http.StatusBadRequest, authResp{Message: "email and username required"})
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return c.JSON(http.StatusBadRequest, authResp{Message: "email is not valid"})
	}
	if req.Password != "" && len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, authResp{Message: "password must be at least 8 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var hash string
	if req.Password != "" {
		if hash, err = auth.HashPassword(req.Password, h.Cfg.BcryptCost); err != nil {
			return c.JSON(http.StatusInternalServerError, authResp{Message: "update failed"})
		}
	}
	if err := h.Users.UpdateProfile(ctx, p.UserID, req.Email, req.Username, hash); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return c.JSON(http.StatusConflict, authResp{Message: "email already in use"})
		case errors.Is(err, repository.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, authResp{Message: "username already in use"})
		}
		return c.JSON(http.StatusInternalServerError, authResp{Message: "update failed"})
	}

	token, err := h.Codec.Encode(req.Email, p.UserID, req.Username, h.tokenTTL())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, authResp{Message: "update failed"})
	}
	return c.JSON(http.StatusOK, tokenResp(token, "profile updated",
		userPart{ID: p.UserID, Email: req.Email, Username: req.Username}))
}

func (h *AuthHandler) tokenTTL() time.Duration {
	return time.Duration(h.Cfg.TokenTTLMin) * time.Minute
}

func validateRegistration(email, username, password string) string {
	if email == "" || username == "" || password == "" {
		return "email, username and password required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "email is not valid"
	}
	if len(password) < 8 {
		return "password must be at least 8 characters"
	}
	return ""
}
