package credstore

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
	_ "modernc.org/sqlite"
)

const (
	dbFile  = "state.db"
	keyFile = "state.key"
)

// Open creates dir if needed, opens the sqlite state file inside it, ensures
// the schema, and loads (or generates) the seal key kept beside it.
func Open(dir string) (*Store, *sql.DB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, dbFile))
	if err != nil {
		return nil, nil, fmt.Errorf("open state db: %w", err)
	}
	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS credentials (
			k TEXT PRIMARY KEY,
			v BLOB NOT NULL
		)`); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init state schema: %w", err)
	}

	key, err := loadOrCreateKey(filepath.Join(dir, keyFile))
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	store, err := New(db, key)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, db, nil
}

func loadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != chacha20poly1305.KeySize {
			return nil, errBadSealKey
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read seal key: %w", err)
	}

	key = make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate seal key: %w", err)
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("write seal key: %w", err)
	}
	return key, nil
}
