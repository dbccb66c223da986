package postgresql

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every embedded schema file in name order. The statements
// are idempotent, so running it on each start is safe.
func Migrate(ctx context.Context, db *database.DB) error {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(files)

	return WithTransaction(ctx, db, func(ctx context.Context, tx pgx.Tx) error {
		for _, name := range files {
			sql, err := migrationsFS.ReadFile(name)
			if err != nil {
				return fmt.Errorf("failed to read migration %s: %w", name, err)
			}
			if _, err := tx.Exec(ctx, string(sql)); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", name, err)
			}
		}
		return nil
	})
}
