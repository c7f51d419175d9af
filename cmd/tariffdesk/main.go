package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"os/user"

	"github.com/joho/godotenv"

	"github.com/tariffdesk/tariffdesk-backend/internal/desk"
	"github.com/tariffdesk/tariffdesk-backend/pkg/config"
	"github.com/tariffdesk/tariffdesk-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "tariffdesk", Output: os.Stderr})

	_ = godotenv.Load()

	cfg, err := config.LoadDesk()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "tariffdesk",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Output:      os.Stderr,
	})

	actor := cfg.User
	if actor == "" {
		if u, err := user.Current(); err == nil {
			actor = u.Username
		}
	}

	client, err := desk.NewClient(cfg.APIURL,
		desk.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		desk.WithActor(actor),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create api client", err)
		os.Exit(1)
	}
	session, err := desk.NewSession(client, desk.NewCache(cfg.CacheTTL), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create session", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := desk.NewConsole(session, os.Stdin, os.Stdout).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "console stopped", err)
		os.Exit(1)
	}
}
