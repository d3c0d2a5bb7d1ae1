// Package router wires HTTP routes to handlers for the devboard services.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/devboard/devboard/internal/auth"
	"github.com/devboard/devboard/internal/config"
	"github.com/devboard/devboard/internal/handler"
	"github.com/devboard/devboard/internal/middleware"
)

// RegisterAPI registers the core API server routes. The identity filter
// runs on every request and never rejects; endpoints that need a caller
// enforce it themselves, which keeps login, register, the theme list and
// the health check usable without a token.
func RegisterAPI(e *echo.Echo, codec *auth.Codec, rdb *redis.Client,
	a *handler.AuthHandler, th *handler.ThemeHandler, po *handler.PostHandler,
	cm *handler.CommentHandler, sub *handler.SubscriptionHandler) {

	e.Use(middleware.Identity(codec))

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e.GET("/healthz", handler.Health)

	// Credential endpoints. Only these two are rate limited: they are the
	// ones where unlimited anonymous attempts have value to an attacker.
	g := e.Group("/api/auth")
	g.POST("/register", a.Register, limiter)
	g.POST("/login", a.Login, limiter)
	g.GET("/me", a.Me)

	e.PUT("/api/users/me", a.UpdateProfile)

	e.GET("/api/themes", th.List, cache)
	e.GET("/api/themes/:id", th.Get)
	e.GET("/api/themes/:id/posts", po.ListByTheme)
	e.POST("/api/themes/:id/subscribe", sub.Subscribe)
	e.DELETE("/api/themes/:id/subscribe", sub.Unsubscribe)

	e.GET("/api/subscriptions", sub.List)

	e.GET("/api/posts", po.Feed)
	e.POST("/api/posts", po.Create)
	e.GET("/api/posts/:id", po.Get)
	e.PUT("/api/posts/:id", po.Update)
	e.DELETE("/api/posts/:id", po.Delete)

	e.GET("/api/posts/:id/comments", cm.ListByPost)
	e.POST("/api/posts/:id/comments", cm.Create)
	e.PUT("/api/comments/:id", cm.Update)
	e.DELETE("/api/comments/:id", cm.Delete)
}

// RegisterNotifier registers the notification service routes.
func RegisterNotifier(e *echo.Echo, codec *auth.Codec, n *handler.NotificationHandler) {
	e.Use(middleware.Identity(codec))

	e.GET("/healthz", handler.Health)
	e.GET("/api/notifications", n.List)
	e.POST("/api/notifications/:id/read", n.MarkRead)
}
