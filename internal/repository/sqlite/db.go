package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/elsanchez/free-games-claimer/internal/domain"
	"github.com/elsanchez/free-games-claimer/internal/repository"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DBFile is the database file name inside the data directory
const DBFile = "prime-gaming.db"

// Database wraps the SQLite connection
type Database struct {
	DB        *sqlx.DB
	ClaimRepo *ClaimRepository
}

// NewDatabase opens (creating if needed) the database in dataDir and runs migrations
func NewDatabase(dataDir string) (*Database, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFile)

	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := runMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db := sqlx.NewDb(sqlDB, "sqlite3")

	// SQLite has a single writer
	db.SetMaxOpenConns(1)

	return &Database{
		DB:        db,
		ClaimRepo: NewClaimRepository(db),
	}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Compiletime check: the database is usable directly as the claim store
var _ repository.ClaimRepository = (*Database)(nil)

// Load delegates to the claim repository
func (d *Database) Load(ctx context.Context) (domain.Library, error) {
	return d.ClaimRepo.Load(ctx)
}

// Save delegates to the claim repository
func (d *Database) Save(ctx context.Context, lib domain.Library) error {
	return d.ClaimRepo.Save(ctx, lib)
}

// Close closes the connection
func (d *Database) Close() error {
	return d.DB.Close()
}
