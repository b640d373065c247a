// scancore is the backend for the scanwise barcode scanner desktop app:
// a local SQLite-backed store of user accounts and products, fronted by a
// line-oriented command session on stdin with level-gated operations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/scanwise/scancore/migrations"

	"github.com/scanwise/scancore/internal/auth"
	"github.com/scanwise/scancore/internal/infrastructure/config"
	"github.com/scanwise/scancore/internal/infrastructure/database"
	"github.com/scanwise/scancore/internal/infrastructure/logging"
	"github.com/scanwise/scancore/internal/product"
	"github.com/scanwise/scancore/internal/repl"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting scancore",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Seed the first admin account on an empty install
	users := auth.NewUserStore(db.DB)
	if _, seedErr := auth.SeedAdmin(ctx, users, log.Logger); seedErr != nil {
		return fmt.Errorf("seeding admin account: %w", seedErr)
	}

	// Warm the in-memory directory
	if refreshErr := users.Refresh(ctx); refreshErr != nil {
		return fmt.Errorf("loading user directory: %w", refreshErr)
	}
	log.Info("user directory loaded", "users", users.Directory().Len())

	products := product.NewStore(db.DB)

	// Verify the connection is healthy before accepting commands
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete")

	// Run the command session over stdin until exit, EOF, or a signal.
	session := repl.NewSession(users, products, os.Stdout)
	errCh := make(chan error, 1)
	go func() {
		errCh <- session.Run(ctx, os.Stdin)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("command session: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received, cleaning up")
		// Unblock the pending stdin read and wait for the session to
		// finish, so the deferred database close runs after the last
		// in-flight command. The session's own error is just the
		// interrupted read at this point.
		os.Stdin.Close() //nolint:errcheck // Best effort: unblocks the scanner
		<-errCh
	}

	log.Info("scancore stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SCANCORE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SCANCORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
