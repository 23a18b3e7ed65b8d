package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/niksmo/petshop-storefront/internal/adapter/mockdata"
	"github.com/niksmo/petshop-storefront/internal/adapter/storage"
	"github.com/spf13/pflag"
)

const (
	storagePathFlag   = "storage-path"
	migrationPathFlag = "migrations-path"
	seedFlag          = "seed"

	seedTimeout = 10 * time.Second
)

type flags struct {
	storagePath    string
	migrationsPath string
	seed           bool
}

func main() {
	if err := run(getFlagsValues()); err != nil {
		slog.Error("migrator failed", "err", err)
		os.Exit(2)
	}
}

func run(f flags) error {
	if err := validateFlags(f); err != nil {
		return err
	}
	if err := makeMigrations(f.storagePath, f.migrationsPath); err != nil {
		return err
	}
	if f.seed {
		return seedProducts(f.storagePath)
	}
	return nil
}

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger() *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.Default(),
		verbose: true,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(fmt.Sprintf(format, v...))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

func getFlagsValues() flags {
	var f flags
	pflag.StringVarP(&f.storagePath, storagePathFlag, "s", "",
		"postgres address without scheme: user:pass@host:port/db")
	pflag.StringVarP(&f.migrationsPath, migrationPathFlag, "m", "", "migrations directory")
	pflag.BoolVar(&f.seed, seedFlag, false, "upsert the fixture catalog after migrating")
	pflag.Parse()
	return f
}

func validateFlags(f flags) error {
	var errs []error

	if f.storagePath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", storagePathFlag))
	}

	if f.migrationsPath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", migrationPathFlag))
	}

	if len(errs) != 0 {
		return fmt.Errorf("too few args: %w", errors.Join(errs...))
	}
	return nil
}

func makeMigrations(storagePath, migrationsPath string) error {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		fmt.Sprintf("pgx5://%s", storagePath),
	)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	defer m.Close()

	m.Log = NewMigrationLogger()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return nil
		}
		return fmt.Errorf("failed to migrate: %w", err)
	}
	m.Log.Printf("migration applied")
	return nil
}

func seedProducts(storagePath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	db, err := storage.NewSQLDB(ctx, "postgres://"+storagePath)
	if err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	defer db.Close()

	repo := storage.NewProductsRepository(db)
	if err := repo.StoreProducts(ctx, mockdata.Products()); err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	return nil
}
