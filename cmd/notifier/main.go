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
	cfg := config.LoadNotifier()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	codec, err := auth.NewCodec(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	notifs := &repository.NotificationRepo{DB: db}
	subs := &repository.SubscriptionRepo{DB: db}

	// Consumes post.created events and fans them out to subscribers. Runs
	// for the lifetime of the process, reconnecting on broker failures.
	go queue.StartPostCreatedConsumer(cfg.RabbitURL, subs, notifs)

	notifH := handler.NewNotificationHandler(notifs)

	e := echo.New()
	e.HideBanner = true
	router.RegisterNotifier(e, codec, notifH)

	addr := ":" + cfg.Port
	log.Printf("notifier listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
