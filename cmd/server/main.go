package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/devboard/devboard/internal/auth"
	"github.com/devboard/devboard/internal/config"
	"github.com/devboard/devboard/internal/database"
	"github.com/devboard/devboard/internal/handler"
	"github.com/devboard/devboard/internal/queue"
	"github.com/devboard/devboard/internal/repository"
	"github.com/devboard/devboard/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	codec, err := auth.NewCodec(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	rdb := config.NewRedisClient()

	users := &repository.UserRepo{DB: db}
	themes := &repository.ThemeRepo{DB: db}
	posts := &repository.PostRepo{DB: db}
	comments := &repository.CommentRepo{DB: db}
	subs := &repository.SubscriptionRepo{DB: db}

	publisher := queue.NewPublisher(cfg.RabbitURL)

	authH := handler.NewAuthHandler(cfg, codec, users)
	themeH := handler.NewThemeHandler(themes)
	postH := handler.NewPostHandler(posts, themes, publisher)
	commentH := handler.NewCommentHandler(comments, posts)
	subH := handler.NewSubscriptionHandler(subs, themes)

	e := echo.New()
	e.HideBanner = true
	router.RegisterAPI(e, codec, rdb, authH, themeH, postH, commentH, subH)

	addr := ":" + cfg.Port
	log.Printf("server listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
