package main

import (
	"log"

	"github.com/devboard/devboard/internal/auth"
	"github.com/devboard/devboard/internal/config"
	"github.com/devboard/devboard/internal/gateway"
)

func main() {
	cfg := config.LoadGateway()

	codec, err := auth.NewCodec(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	e, err := gateway.New(cfg, codec)
	if err != nil {
		log.Fatal(err)
	}

	addr := ":" + cfg.Port
	log.Printf("gateway listening on %s (env=%s, server=%s, notifier=%s)",
		addr, cfg.Env, cfg.ServerURL, cfg.NotifierURL)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
