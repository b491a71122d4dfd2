package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/config"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

const seedsPath = "db/seeds"

var (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

// MigrationRunner applies the embedded SQL migrations and optional seed files.
type MigrationRunner struct {
	db        *sql.DB
	driver    string
	source    fs.FS
	seedsPath string
	logger    *slog.Logger
}

// NewMigrationRunner creates a runner for db, which must be opened with the
// driver named by driver (postgres or sqlite).
func NewMigrationRunner(db *sql.DB, driver string, logger *slog.Logger) *MigrationRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &MigrationRunner{
		db:        db,
		driver:    driver,
		source:    migrationsFS,
		seedsPath: seedsPath,
		logger:    logger,
	}
}

// OpenMigrationDB opens a dedicated database/sql connection for migrations:
// lib/pq for postgres, modernc for sqlite.
func OpenMigrationDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return sql.Open("postgres", cfg.MigrationURL())
	case config.DriverSQLite:
		return sql.Open("sqlite", cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// WaitForDatabase waits for the database to be ready
func (mr *MigrationRunner) WaitForDatabase() error {
	mr.logger.Info("waiting for database")

	for i := 0; i < maxRetries; i++ {
		err := mr.db.Ping()
		if err == nil {
			mr.logger.Info("database is ready")
			return nil
		}

		mr.logger.Warn("database not ready", "attempt", i+1, "max_attempts", maxRetries, "error", err)
		time.Sleep(retryInterval)
	}

	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}

func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(mr.source, "migrations/"+mr.driver)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}

	var driver migratedb.Driver
	switch mr.driver {
	case config.DriverPostgres:
		driver, err = postgres.WithInstance(mr.db, &postgres.Config{})
	case config.DriverSQLite:
		driver, err = sqlite.WithInstance(mr.db, &sqlite.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", mr.driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s driver: %w", mr.driver, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, mr.driver, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// RunMigrations executes all pending migrations
func (mr *MigrationRunner) RunMigrations() error {
	m, err := mr.newMigrate()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if dirty {
		mr.logger.Warn("database is in dirty state, forcing version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		mr.logger.Info("no new migrations to apply", "version", version)
	case err != nil:
		return fmt.Errorf("migration failed: %w", err)
	default:
		newVersion, _, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get new migration version: %w", err)
		}
		mr.logger.Info("applied migrations", "version", newVersion)
	}

	return nil
}

// LoadSeeds executes every *.sql file in the seeds directory when
// SEED_DATABASE=true. A failing file is logged and skipped.
func (mr *MigrationRunner) LoadSeeds() error {
	if os.Getenv("SEED_DATABASE") != "true" {
		return nil
	}

	if _, err := os.Stat(mr.seedsPath); os.IsNotExist(err) {
		mr.logger.Info("seeds directory not found, skipping", "path", mr.seedsPath)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(mr.seedsPath, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to find seed files: %w", err)
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read seed file %s: %w", file, err)
		}

		if _, err := mr.db.Exec(string(content)); err != nil {
			mr.logger.Warn("seed file failed", "file", filepath.Base(file), "error", err)
			continue
		}
		mr.logger.Info("seed file applied", "file", filepath.Base(file))
	}

	return nil
}

// GetMigrationStatus returns the current migration status
func (mr *MigrationRunner) GetMigrationStatus() (version uint, dirty bool, err error) {
	m, err := mr.newMigrate()
	if err != nil {
		return 0, false, err
	}
	return m.Version()
}

// RunMigrationsIfEnabled runs migrations on a dedicated connection when
// cfg.AutoMigrate is set.
func RunMigrationsIfEnabled(cfg *config.DatabaseConfig, logger *slog.Logger) error {
	if !cfg.AutoMigrate {
		return nil
	}

	db, err := OpenMigrationDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	return Migrate(db, cfg.Driver, logger)
}

// Migrate waits for db, applies migrations and loads seeds.
func Migrate(db *sql.DB, driver string, logger *slog.Logger) error {
	runner := NewMigrationRunner(db, driver, logger)

	if err := runner.WaitForDatabase(); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}

	if err := runner.RunMigrations(); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}

	if err := runner.LoadSeeds(); err != nil {
		runner.logger.Warn("seed data loading failed", "error", err)
	}

	return nil
}
