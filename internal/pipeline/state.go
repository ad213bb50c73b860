package pipeline

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// StateDB tracks which input files have already been processed so repeated
// runs over unchanged exports can be skipped.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS processed_inputs (
		path         TEXT PRIMARY KEY,
		size         INTEGER NOT NULL,
		hash         TEXT NOT NULL,
		processed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// IsProcessed checks if an input file was already processed with the same
// size and hash.
func (s *StateDB) IsProcessed(path string, size int64, hash string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM processed_inputs WHERE path = ? AND size = ? AND hash = ?`,
		path, size, hash,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkProcessed records that an input file was successfully processed.
func (s *StateDB) MarkProcessed(path string, size int64, hash string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO processed_inputs (path, size, hash) VALUES (?, ?, ?)`,
		path, size, hash,
	)
	return err
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// InputFingerprint stats and hashes an input file for the state cache.
func InputFingerprint(path string) (size int64, hash string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, "", fmt.Errorf("stat %s: %w", path, err)
	}
	hash, err = HashFile(path)
	if err != nil {
		return 0, "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return info.Size(), hash, nil
}
