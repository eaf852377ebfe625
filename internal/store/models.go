// Package store keeps the session history in SQLite. Metadata only: the
// recording bytes themselves never touch the database.
package store

import "time"

// Session is one recording session's metadata.
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
	Display   string
	Webcam    bool
	Bytes     int64
	Status    string // "active", "done", "exported"
	Path      string // export path, once exported
}

// Session statuses.
const (
	StatusActive   = "active"
	StatusDone     = "done"
	StatusExported = "exported"
)
