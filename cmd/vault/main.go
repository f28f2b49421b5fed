package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/harinadareddy11/account-vault/internal/cli"
	"github.com/harinadareddy11/account-vault/internal/config"
	"github.com/harinadareddy11/account-vault/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
