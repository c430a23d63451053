package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"urlshortener/internal/config"
	"urlshortener/internal/http/server"
	"urlshortener/internal/logger"
	"urlshortener/internal/repository/inmemory"
	"urlshortener/internal/repository/postgres"
	"urlshortener/internal/services/accounts"
	"urlshortener/internal/services/links"

	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

// storage - все, что нужно сервисам от хранилища
type storage interface {
	accounts.UserStorage
	links.LinkStorage
	io.Closer
}

func main() {
	log := logger.NewLogger("info", os.Stdout)

	cfg, err := config.LoadServerConfig(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	log = logger.NewLogger(cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.ServerConfig, log *zerolog.Logger) error {
	store, err := newStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	accountsService, err := accounts.NewAccounts(store, cfg.JWTSecretKey, cfg.JWTAccessExpire, cfg.JWTRefreshExpire)
	if err != nil {
		return err
	}

	linkService, err := links.NewLinkShortener(store, cfg.BaseURL)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(log, *cfg, linkService, accountsService)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func newStorage(ctx context.Context, cfg *config.ServerConfig, log *zerolog.Logger) (storage, error) {
	if cfg.DatabaseDSN == "" {
		log.Info().Msg("Using in-memory storage")
		return inmemory.NewStorage(), nil
	}

	log.Info().Msg("Using PostgreSQL storage")
	return postgres.NewStorage(ctx, cfg.DatabaseDSN)
}
