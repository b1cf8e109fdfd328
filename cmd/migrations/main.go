package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vncsmyrnk/queridometro/internal/adapters/repository"
	"github.com/vncsmyrnk/queridometro/internal/config"
)

func main() {
	fset := flag.NewFlagSet("migrations", flag.ExitOnError)
	fset.Usage = func() {
		fmt.Fprintf(fset.Output(), "usage: migrations [flags] up|down|status\n")
		fset.PrintDefaults()
	}

	cfg, err := config.Load(fset, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if fset.NArg() != 1 {
		fset.Usage()
		os.Exit(2)
	}
	command := fset.Arg(0)

	logger := cfg.NewLogger(os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stores, err := repository.Open(ctx, cfg, false, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer stores.Close()

	provider, err := stores.Migrator()
	if err != nil {
		log.Fatal(err)
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		for _, r := range results {
			fmt.Println(r)
		}
		fmt.Println("Migrations applied successfully.")
	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			log.Fatalf("Failed to roll back migration: %v", err)
		}
		fmt.Println(result)
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			log.Fatal(err)
		}
		for _, s := range statuses {
			applied := "pending"
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.Format(time.RFC3339)
			}
			fmt.Printf("%-10s %-40s %s\n", s.State, s.Source.Path, applied)
		}
	default:
		fset.Usage()
		os.Exit(2)
	}
}
