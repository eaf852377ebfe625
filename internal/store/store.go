package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides access to the screencast SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id        TEXT PRIMARY KEY,
	startedAt INTEGER NOT NULL,
	endedAt   INTEGER,
	display   TEXT NOT NULL DEFAULT '',
	webcam    INTEGER NOT NULL DEFAULT 0,
	bytes     INTEGER NOT NULL DEFAULT 0,
	status    TEXT NOT NULL DEFAULT 'active',
	path      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sessions_startedAt ON sessions(startedAt);
`

// Open opens (creating if needed) the database with WAL enabled.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert records a newly started session.
func (s *Store) Insert(sess Session) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, startedAt, display, webcam, status)
		VALUES (?, ?, ?, ?, ?)
	`, sess.ID, sess.StartedAt.Unix(), sess.Display, boolToInt(sess.Webcam), StatusActive)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Finish marks a session as done with its final size.
func (s *Store) Finish(id string, endedAt time.Time, bytes int64) error {
	_, err := s.db.Exec(`
		UPDATE sessions SET endedAt = ?, bytes = ?, status = ?
		WHERE id = ?
	`, endedAt.Unix(), bytes, StatusDone, id)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// MarkExported records the export path for a session.
func (s *Store) MarkExported(id, path string) error {
	_, err := s.db.Exec(`
		UPDATE sessions SET status = ?, path = ?
		WHERE id = ?
	`, StatusExported, path, id)
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	return nil
}

// Recent returns up to n sessions, newest first.
func (s *Store) Recent(n int) ([]Session, error) {
	rows, err := s.db.Query(`
		SELECT id, startedAt, endedAt, display, webcam, bytes, status, path
		FROM sessions
		ORDER BY startedAt DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		var startedAt int64
		var endedAt sql.NullInt64
		var webcam int
		if err := rows.Scan(&sess.ID, &startedAt, &endedAt, &sess.Display,
			&webcam, &sess.Bytes, &sess.Status, &sess.Path); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.StartedAt = time.Unix(startedAt, 0)
		if endedAt.Valid {
			t := time.Unix(endedAt.Int64, 0)
			sess.EndedAt = &t
		}
		sess.Webcam = webcam != 0
		out = append(out, sess)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
