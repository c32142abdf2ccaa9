package frameflow

import (
	"context"
	"io/fs"
	"sort"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

const migrationsDir = "data/sql/migrations"

// RunMigrations applies the embedded migration files in lexical order.
// Applied file names are tracked in a bookkeeping table, so reruns are
// no-ops.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to prepare migrations table")
	}

	migrations := GetMigrationsFS()

	entries, err := fs.ReadDir(migrations, migrationsDir)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to read embedded migrations")
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		applied, err := migrationApplied(ctx, db, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		script, err := fs.ReadFile(migrations, migrationsDir+"/"+name)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to read migration "+name)
		}

		err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, string(script)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (name) VALUES (?)", name)
			return err
		})
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to apply migration "+name)
		}
	}

	return nil
}

func migrationApplied(ctx context.Context, db *bun.DB, name string) (bool, error) {
	var count int
	err := db.NewRaw("SELECT COUNT(*) FROM schema_migrations WHERE name = ?", name).Scan(ctx, &count)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryOperation, "failed to check migration state")
	}
	return count > 0, nil
}
