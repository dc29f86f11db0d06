package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store keeps one live session per user in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the session database at dir/sessions.db.
func OpenStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "sessions.db"))
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}
	// A single connection serializes writers.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		user_id    INTEGER PRIMARY KEY,
		data       TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions table: %w", err)
	}

	return &Store{db: db}, nil
}

// Load returns the user's session, or ErrNoSession.
func (s *Store) Load(ctx context.Context, userID int) (*Session, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE user_id = ?`, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("loading session for user %d: %w", userID, err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decoding session for user %d: %w", userID, err)
	}
	return &sess, nil
}

// Save writes the session, replacing any previous one for the user.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (user_id, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		sess.UserID, string(data),
	)
	if err != nil {
		return fmt.Errorf("saving session for user %d: %w", sess.UserID, err)
	}
	return nil
}

// Delete removes the user's session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, userID int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("deleting session for user %d: %w", userID, err)
	}
	return nil
}

// Close closes the session database.
func (s *Store) Close() error {
	return s.db.Close()
}
