package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"urlshortener/internal/cli"
	"urlshortener/internal/client/api"
	"urlshortener/internal/client/gateway"
	"urlshortener/internal/client/links"
	"urlshortener/internal/client/session"
	"urlshortener/internal/client/tokenstore"
	"urlshortener/internal/config"
	"urlshortener/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, args, err := config.NewClientConfig(os.Args[1:], config.EnvWithDotenv(".env"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 2
	}

	log := logger.NewLogger(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := tokenstore.NewFileStore(cfg.TokenPath, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to open token store")
		return 1
	}

	sessionManager, err := session.NewManager(store, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to create session")
		return 1
	}

	// запросы отменяет только сигнал, своего таймаута у клиента нет
	gw, err := gateway.New(cfg.APIBaseURL, nil, store, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to create gateway")
		return 1
	}

	client, err := api.NewClient(gw)
	if err != nil {
		log.Error().Err(err).Msg("failed to create api client")
		return 1
	}

	collection, err := links.NewCollection(client, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to create links view")
		return 1
	}

	app, err := cli.NewApp(cli.Deps{
		Session:  sessionManager,
		Accounts: client,
		Links:    collection,
		In:       os.Stdin,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Log:      log,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create app")
		return 1
	}
	defer app.Close()

	log.Debug().Str("api_url", cfg.APIBaseURL).Str("token_path", cfg.TokenPath).Msg("client started")

	if err := app.Run(ctx, args); err != nil {
		return 1
	}
	return 0
}
