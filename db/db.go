package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adesokan/walletcore/config"
	"github.com/adesokan/walletcore/utils"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// InitPostgres opens the database, waits for it to come up, and applies
// pending migrations.
func InitPostgres(cfg config.Config) (*sql.DB, error) {
	dbConn, err := openAndPingDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := applyMigrations(dbConn); err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	utils.Logger.Info().Msg("migrations applied successfully")
	return dbConn, nil
}

func openAndPingDB(dsn string) (*sql.DB, error) {
	const maxAttempts = 10
	const retryDelay = 2 * time.Second

	dbConn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db.Open failed: %w", err)
	}

	for i := 1; i <= maxAttempts; i++ {
		if err = dbConn.Ping(); err == nil {
			return dbConn, nil
		}
		utils.Logger.Warn().Err(err).Int("attempt", i).Dur("retry_delay", retryDelay).Msg("Database ping failed, retrying")
		time.Sleep(retryDelay)
	}

	_ = dbConn.Close()
	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", maxAttempts, err)
}

func applyMigrations(dbConn *sql.DB) error {
	drv, err := postgres.WithInstance(dbConn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrationsPath, err := findMigrationsPath()
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func findMigrationsPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("could not get working directory: %w", err)
	}

	candidate := filepath.Join(wd, "db", "migrations")
	if fileExists(candidate) {
		return candidate, nil
	}

	repoRoot := wd
	for !fileExists(filepath.Join(repoRoot, "go.mod")) && repoRoot != "/" {
		repoRoot = filepath.Dir(repoRoot)
	}
	candidate = filepath.Join(repoRoot, "db", "migrations")
	if fileExists(candidate) {
		return candidate, nil
	}
	return "", fmt.Errorf("migrations directory not found from %s", wd)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
