package session

import (
	"time"

	"github.com/Trucker2827/sb1-wf5mkd/internal/capture"
)

// State is the full application state snapshot the view reflects. The
// original kept these as loose flags; gathering them in one struct keeps
// every control a pure function of this value.
type State struct {
	Recording     bool
	WebcamVisible bool
	WebcamState   capture.ResourceState

	PreviewAttached bool
	PreviewFloating bool

	ArtifactChunks int
	ArtifactBytes  int

	SessionID      string
	StartedAt      time.Time
	Display        string
	LastExportPath string
}

// HasArtifact reports whether there is anything to export.
func (s State) HasArtifact() bool {
	return s.ArtifactBytes > 0
}

// Elapsed returns the duration of the in-progress recording, or zero.
func (s State) Elapsed(now time.Time) time.Duration {
	if !s.Recording || s.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(s.StartedAt)
}
