// Package gateway is the public edge of devboard. It forwards traffic to
// the core API and the notifier, injecting the static GitHub integration
// token so the inner services never hold that credential themselves.
package gateway

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/devboard/devboard/internal/auth"
	"github.com/devboard/devboard/internal/config"
	"github.com/devboard/devboard/internal/handler"
	"github.com/devboard/devboard/internal/middleware"
)

// New builds the gateway router. Notification paths go to the notifier,
// everything else under /api goes to the core server. The explicit
// /api/auth/validate route wins over the /api proxy group.
func New(cfg config.Config, codec *auth.Codec) (*echo.Echo, error) {
	serverURL, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("gateway: bad server url %q: %w", cfg.ServerURL, err)
	}
	notifierURL, err := url.Parse(cfg.NotifierURL)
	if err != nil {
		return nil, fmt.Errorf("gateway: bad notifier url %q: %w", cfg.NotifierURL, err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(GithubTokenHeader(cfg.GithubToken))
	e.Use(middleware.Identity(codec))

	e.GET("/healthz", handler.Health)
	e.GET("/api/auth/validate", Validate(codec))

	notif := e.Group("/api/notifications")
	notif.Use(echomw.Proxy(echomw.NewRoundRobinBalancer([]*echomw.ProxyTarget{{URL: notifierURL}})))

	api := e.Group("/api")
	api.Use(echomw.Proxy(echomw.NewRoundRobinBalancer([]*echomw.ProxyTarget{{URL: serverURL}})))

	return e, nil
}

// GithubTokenHeader stamps the integration token on every forwarded
// request. The value overwrites anything the client sent, so an outside
// caller cannot smuggle its own token past the edge.
func GithubTokenHeader(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Request().Header.Set("X-Github-Token", token)
			return next(c)
		}
	}
}

// Validate answers whether the presented bearer token is currently
// valid. The body carries only the verdict, no claims.
func Validate(codec *auth.Codec) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.JSON(http.StatusOK, echo.Map{"valid": false})
		}
		if _, err := codec.Decode(strings.TrimPrefix(header, "Bearer ")); err != nil {
			return c.JSON(http.StatusOK, echo.Map{"valid": false})
		}
		return c.JSON(http.StatusOK, echo.Map{"valid": true})
	}
}
