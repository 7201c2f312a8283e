package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cerebrin.app/backend/common/logger"
	"cerebrin.app/backend/core/config"
	"cerebrin.app/backend/core/db"
)

const usage = "usage: migrate [up|down|status]"

func main() {
	ctx := context.Background()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg)

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	migrator, err := database.Migrator()
	if err != nil {
		slog.ErrorContext(ctx, "failed to create migrator", "error", err)
		os.Exit(1)
	}
	defer migrator.Close()

	if err := run(ctx, migrator, command); err != nil {
		slog.ErrorContext(ctx, "migration failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, m *db.Migrator, command string) error {
	switch command {
	case "up":
		results, err := m.Up(ctx)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			slog.InfoContext(ctx, "no migrations to apply")
		}
		for _, r := range results {
			slog.InfoContext(ctx, "applied migration", "version", r.Source.Version, "duration", r.Duration)
		}
	case "down":
		r, err := m.Down(ctx)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "rolled back migration", "version", r.Source.Version)
	case "status":
		statuses, err := m.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			fmt.Printf("%-6d %-10s %s\n", s.Source.Version, s.State, s.Source.Path)
		}
	default:
		return fmt.Errorf("unknown command %q: %s", command, usage)
	}
	return nil
}
