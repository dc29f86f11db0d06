package upload

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// StateDB remembers which export files reached the server, keyed by path,
// so an unchanged export is never sent twice.
type StateDB struct {
	db *sql.DB
}

// Upload is one recorded upload.
type Upload struct {
	Path       string
	Size       int64
	Hash       string
	Inserted   int
	UploadedAt time.Time
}

// OpenStateDB opens (or creates) the SQLite state database at dir/upload_state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "upload_state.db"))
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS uploaded_exports (
		path        TEXT PRIMARY KEY,
		size        INTEGER NOT NULL,
		hash        TEXT NOT NULL,
		inserted    INTEGER NOT NULL DEFAULT 0,
		uploaded_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// IsUploaded reports whether the file at relPath was sent with the same size and hash.
func (s *StateDB) IsUploaded(relPath string, size int64, hash string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM uploaded_exports WHERE path = ? AND size = ? AND hash = ?`,
		relPath, size, hash,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", relPath, err)
	}
	return count > 0, nil
}

// MarkUploaded records a successful upload, replacing any earlier record for the path.
func (s *StateDB) MarkUploaded(relPath string, size int64, hash string, inserted int) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO uploaded_exports (path, size, hash, inserted, uploaded_at) VALUES (?, ?, ?, ?, ?)`,
		relPath, size, hash, inserted, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", relPath, err)
	}
	return nil
}

// Uploads lists every recorded upload, most recent first.
func (s *StateDB) Uploads() ([]Upload, error) {
	rows, err := s.db.Query(`SELECT path, size, hash, inserted, uploaded_at FROM uploaded_exports ORDER BY uploaded_at DESC, path`)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	defer rows.Close()

	var out []Upload
	for rows.Next() {
		var u Upload
		var at string
		if err := rows.Scan(&u.Path, &u.Size, &u.Hash, &u.Inserted, &at); err != nil {
			return nil, err
		}
		u.UploadedAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, u)
	}
	return out, rows.Err()
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
