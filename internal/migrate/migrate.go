// AngelaMos | 2026
// migrate.go

package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

const (
	dir       = "sql"
	tableName = "schema_migrations"
)

// Options selects the goose command. Target is used by up-to and down-to.
type Options struct {
	Command string
	Target  int64
	Logger  *slog.Logger
}

func configure(logger *slog.Logger) error {
	if logger != nil {
		goose.SetLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(tableName)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

func Run(ctx context.Context, db *sql.DB, opts Options) error {
	if err := configure(opts.Logger); err != nil {
		return err
	}

	var err error
	switch strings.ToLower(strings.TrimSpace(opts.Command)) {
	case "", "up":
		err = goose.UpContext(ctx, db, dir)
	case "down":
		err = goose.DownContext(ctx, db, dir)
	case "status":
		err = goose.StatusContext(ctx, db, dir)
	case "version":
		err = goose.VersionContext(ctx, db, dir)
	case "up-to":
		err = goose.UpToContext(ctx, db, dir, opts.Target)
	case "down-to":
		err = goose.DownToContext(ctx, db, dir, opts.Target)
	case "redo":
		err = goose.RedoContext(ctx, db, dir)
	case "reset":
		err = goose.ResetContext(ctx, db, dir)
	default:
		return fmt.Errorf("unknown migration command %q", opts.Command)
	}

	if err != nil {
		return fmt.Errorf("migrate %s: %w", opts.Command, err)
	}
	return nil
}

// Up applies every pending migration. cmd/api calls it when
// database.migrate_on_start is set.
func Up(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	return Run(ctx, db, Options{Command: "up", Logger: logger})
}

// Files lists the embedded migration file names in apply order.
func Files() ([]string, error) {
	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
