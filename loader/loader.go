package loader

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"auditform/database"
	"auditform/parsers"
)

//go:embed schema.sql
var schemaSQL string

// OpenDatabase opens the sqlite file with the same pragmas the server uses.
func OpenDatabase(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := InitDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitDatabase applies the schema. It is safe to run on every start.
func InitDatabase(db *sqlx.DB) error {
	slog.Debug("Applying database schema")
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// LoadCatalogFile imports a device catalog CSV from disk.
func LoadCatalogFile(db *sqlx.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("could not open file %s: %w", path, err)
	}
	defer f.Close()
	return LoadCatalog(db, f)
}

// LoadCatalog parses r and upserts every device in one transaction.
func LoadCatalog(db *sqlx.DB, r io.Reader) (n int, err error) {
	devices, err := parsers.ParseCatalogCSV(r)
	if err != nil {
		return 0, err
	}
	if len(devices) == 0 {
		return 0, fmt.Errorf("no catalog rows found")
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			slog.Warn("Rolling back catalog import", "error", err)
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, dev := range devices {
		if err = database.UpsertCatalogDeviceInTx(tx, dev); err != nil {
			return 0, err
		}
	}

	slog.Info("Catalog imported", "rows", len(devices))
	return len(devices), nil
}
