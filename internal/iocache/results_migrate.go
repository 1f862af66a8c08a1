package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/utilstudy/schema"
)

// Column types differ per backend, so each one has its own migration directory.
//
//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// ErrNoSchema is returned when migrating a backend without tables.
var ErrNoSchema = errors.New("results backend none has no schema to migrate")

// MigrateResults moves the results schema to targetVersion. A negative target
// means the latest version and zero rolls every migration back.
func MigrateResults(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return ErrNoSchema
	}

	db, err := openDB(backend, connStr, GetResultsDBFilePath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	m, err := newMigrator(db, backend)
	if err != nil {
		return err
	}

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read results schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("results schema is dirty at version %d, force a version before migrating", from)
	}

	var step func() error
	switch {
	case targetVersion < 0:
		step = m.Up
	case targetVersion == 0:
		step = m.Down
	default:
		step = func() error { return m.Migrate(uint(targetVersion)) }
	}

	if err := step(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("Results schema already at version %d\n", from)
			return nil
		}
		return fmt.Errorf("failed to migrate results schema from version %d: %w", from, err)
	}

	to, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		to, err = 0, nil
	}
	if err != nil {
		return fmt.Errorf("failed to read results schema version: %w", err)
	}
	fmt.Printf("Migrated results schema from version %d to version %d\n", from, to)
	return nil
}

// newMigrator binds the embedded migrations of backend to db.
func newMigrator(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, error) {
	var (
		driver database.Driver
		err    error
	)
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		return nil, fmt.Errorf("unsupported results backend %q", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	dir, err := fs.Sub(migrationsFS, path.Join("migrations", string(backend)))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s migrations: %w", backend, err)
	}
	source, err := iofs.New(dir, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "utilstudy", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
