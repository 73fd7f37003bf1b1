package migrate

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/openshophq/openshop-backend/pkg/db"
	"github.com/openshophq/openshop-backend/pkg/logger"
)

// DefaultDir is where the goose SQL migrations live relative to the repo root.
const DefaultDir = "pkg/migrate/migrations"

// Run applies a goose command (up, down, status, ...) against the client's
// underlying sql.DB.
func Run(ctx context.Context, client *db.Client, dir, command string, args ...string) error {
	if dir == "" {
		dir = DefaultDir
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("acquiring sql.DB: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, sqlDB, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MaybeRunDev runs `up` when the auto-migrate flag is set. Intended for dev
// environments only; production applies migrations via cmd/migrate.
func MaybeRunDev(ctx context.Context, client *db.Client, logg *logger.Logger, enabled bool, dir string) error {
	if !enabled {
		return nil
	}
	logg.Info(ctx, "auto-migrate enabled, applying pending migrations")
	return Run(ctx, client, dir, "up")
}
