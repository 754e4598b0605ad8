package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"vms-chat-relay/internal/app"
	"vms-chat-relay/internal/config"
	"vms-chat-relay/internal/logging"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogFormat, cfg.SlogLevel())
	slog.SetDefault(log)

	// ---- Handler ----
	h, err := app.NewHandler(ctx, cfg, log)
	if err != nil {
		log.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
