package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vncsmyrnk/queridometro/internal/adapters/repository"
	"github.com/vncsmyrnk/queridometro/internal/config"
	"github.com/vncsmyrnk/queridometro/internal/core/domain"
	"github.com/vncsmyrnk/queridometro/internal/core/services"
)

type report struct {
	Day        domain.DayKey             `json:"day"`
	Disclosure *domain.Disclosure        `json:"disclosure"`
	Warnings   []domain.IntegrityWarning `json:"warnings"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("tally failed", "error", err, "retryable", domain.Retryable(err))
		os.Exit(1)
	}
}

func run() error {
	fset := flag.NewFlagSet("tally", flag.ExitOnError)
	dayFlag := fset.String("day", "", "day to tally as YYYY-MM-DD, today when empty")
	force := fset.Bool("force", false, "print the tally even when quorum is not reached")

	cfg, err := config.Load(fset, os.Args[1:])
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	roster, err := config.LoadRoster(cfg.RosterFile)
	if err != nil {
		return err
	}

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stores, err := repository.Open(ctx, cfg, false, logger)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	defer stores.Close()

	clock := services.NewSessionClock(services.SystemClock{}, cfg.Location)
	session := services.NewDaySession(clock)
	tally := services.NewTallyService(stores.Votes, roster, session, cfg.Quorum, cfg.StoreTimeout, logger)

	day := clock.CurrentDayKey()
	if *dayFlag != "" {
		day, err = domain.ParseDayKey(*dayFlag)
		if err != nil {
			return err
		}
	}

	disclosure, err := tally.Disclose(ctx, day)
	if err != nil {
		return err
	}
	full, err := tally.ComputeTally(ctx, day)
	if err != nil {
		return err
	}
	if *force && disclosure.Withheld {
		logger.Warn("quorum not reached, printing tally anyway", "voters", disclosure.Voters, "threshold", disclosure.Threshold)
		disclosure.Tally = full
	}

	out := report{Day: day, Disclosure: disclosure, Warnings: full.Skipped}
	if out.Warnings == nil {
		out.Warnings = []domain.IntegrityWarning{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
