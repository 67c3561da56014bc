// Package store persists accounts and their ledger entries in SQLite.
package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the SQLite database holding all accounts and transactions.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and brings the
// schema up to date.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("creating migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("creating migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// EnsureAccount returns the ID of the named account, creating it first
// if it does not exist.
func (s *Store) EnsureAccount(name string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM accounts WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("querying account %q: %w", name, err)
	}

	err = s.db.QueryRow(`INSERT INTO accounts (name) VALUES (?) RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating account %q: %w", name, err)
	}
	return id, nil
}

// AccountNames returns all account names, sorted.
func (s *Store) AccountNames() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning account name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Ledger returns the ledger view scoped to one account.
func (s *Store) Ledger(accountID int64) *AccountLedger {
	return &AccountLedger{db: s.db, accountID: accountID}
}
