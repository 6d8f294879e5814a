package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/lyzr/roster/common/logger"
)

// migrationsFS holds one directory of *.up.sql files per driver.
//
//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// MigrationFiles lists the migration files for a driver in apply order
func MigrationFiles(driver string) ([]string, error) {
	dir := path.Join("migrations", driver)
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("unknown migration dialect %q: %w", driver, err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	return files, nil
}

// applyMigrations executes every migration for the driver in order.
// Each file only uses IF NOT EXISTS statements, so running it twice is a no-op.
func applyMigrations(ctx context.Context, driver string, exec func(context.Context, string) error, log *logger.Logger) error {
	files, err := MigrationFiles(driver)
	if err != nil {
		return err
	}

	for _, file := range files {
		body, err := migrationsFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if err := exec(ctx, string(body)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}

		log.Info("migration applied", "driver", driver, "file", path.Base(file))
	}

	return nil
}
