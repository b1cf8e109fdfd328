package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vncsmyrnk/queridometro/internal/adapters/handler/http"
	"github.com/vncsmyrnk/queridometro/internal/adapters/repository"
	"github.com/vncsmyrnk/queridometro/internal/config"
	"github.com/vncsmyrnk/queridometro/internal/core/services"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	if !cfg.EnvFileLoaded {
		logger.Info("No .env file found")
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret, err = ephemeralSecret()
		if err != nil {
			return err
		}
		logger.Warn("JWT_SECRET is empty, sessions will not survive a restart")
	}

	roster, err := config.LoadRoster(cfg.RosterFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := repository.Open(ctx, cfg, true, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	clock := services.NewSessionClock(services.SystemClock{}, cfg.Location)
	session := services.NewDaySession(clock)
	tokens := services.NewTokenService(secret, cfg.TokenTTL, clock)
	ledger := services.NewLedgerService(stores.Votes, roster, session, cfg.StoreTimeout, logger)
	tally := services.NewTallyService(stores.Votes, roster, session, cfg.Quorum, cfg.StoreTimeout, logger)
	identity := services.NewIdentityService(stores.Credentials, ledger, tokens, roster, clock, cfg.StoreTimeout, logger)

	handler := http.NewHandler(http.Handlers{
		Auth:    http.NewAuthHandler(identity, cfg.CookieDomain, cfg.CookieSecure, stdhttp.SameSiteLaxMode, cfg.TokenTTL),
		Ballots: http.NewBallotHandler(ledger, clock),
		Results: http.NewResultsHandler(tally, roster, clock),
		Tokens:  tokens,
	})
	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "store", cfg.Store, "day", clock.CurrentDayKey(), "people", roster.Size())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	logger.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func ephemeralSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
