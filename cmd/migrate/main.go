// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/oonkoo/dashboard-api/internal/config"
	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/migrate"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	target := flag.Int64("target", 0, "version for up-to and down-to")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, command, *target, logger); err != nil {
		logger.Error("migration failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func run(configPath, command string, target int64, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exits right after

	return migrate.Run(ctx, db.DB.DB, migrate.Options{
		Command: command,
		Target:  target,
		Logger:  logger,
	})
}
