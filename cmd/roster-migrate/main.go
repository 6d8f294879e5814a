package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lyzr/roster/common/bootstrap"
	"github.com/lyzr/roster/common/db"
)

// roster-migrate applies the embedded schema migrations for DB_DRIVER and exits
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	components, err := bootstrap.Setup(ctx, "roster-migrate",
		bootstrap.WithoutQueue(),
		bootstrap.WithoutRedis(),
		bootstrap.WithoutTelemetry(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap roster-migrate: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	driver := components.Config.Database.Driver
	files, err := db.MigrationFiles(driver)
	if err != nil {
		components.Logger.Error("failed to list migrations", "error", err)
		os.Exit(1)
	}

	components.Logger.Info("applying migrations", "driver", driver, "count", len(files))
	if err := components.Migrate(ctx); err != nil {
		components.Logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	components.Logger.Info("migrations complete", "driver", driver)
}
