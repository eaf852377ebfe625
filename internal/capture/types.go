// Package capture acquires and releases the screen and webcam sources and
// merges them into a single recording source.
package capture

import (
	"sync"

	"github.com/google/uuid"
)

// TrackKind distinguishes video from audio tracks.
type TrackKind int

const (
	TrackVideo TrackKind = iota
	TrackAudio
)

func (k TrackKind) String() string {
	switch k {
	case TrackVideo:
		return "video"
	case TrackAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// TrackOrigin records which capture source produced a track.
type TrackOrigin int

const (
	OriginDisplay TrackOrigin = iota
	OriginWebcam
	OriginSystemAudio
)

func (o TrackOrigin) String() string {
	switch o {
	case OriginDisplay:
		return "display"
	case OriginWebcam:
		return "webcam"
	case OriginSystemAudio:
		return "system-audio"
	default:
		return "unknown"
	}
}

// Track is one live media track of a stream.
type Track struct {
	ID     string
	Kind   TrackKind
	Origin TrackOrigin
	Label  string

	mu   sync.Mutex
	live bool
}

// NewTrack returns a live track.
func NewTrack(kind TrackKind, origin TrackOrigin, label string) *Track {
	return &Track{
		ID:     uuid.NewString(),
		Kind:   kind,
		Origin: origin,
		Label:  label,
		live:   true,
	}
}

// Live reports whether the track has not been stopped.
func (t *Track) Live() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}

// Stop marks the track as ended. Idempotent.
func (t *Track) Stop() {
	t.mu.Lock()
	t.live = false
	t.mu.Unlock()
}

// Stream is an ordered set of tracks owned by one capture source, or by a
// recording session in the combined case.
type Stream struct {
	ID     string
	tracks []*Track
}

// NewStream builds a stream over the given tracks.
func NewStream(tracks ...*Track) *Stream {
	return &Stream{ID: uuid.NewString(), tracks: tracks}
}

// Tracks returns the track set in order.
func (s *Stream) Tracks() []*Track {
	return s.tracks
}

// StopAll stops every track of the stream.
func (s *Stream) StopAll() {
	for _, t := range s.tracks {
		t.Stop()
	}
}

// Live reports whether any track of the stream is still live.
func (s *Stream) Live() bool {
	for _, t := range s.tracks {
		if t.Live() {
			return true
		}
	}
	return false
}

// HasOrigin reports whether any track came from the given origin.
func (s *Stream) HasOrigin(o TrackOrigin) bool {
	for _, t := range s.tracks {
		if t.Origin == o {
			return true
		}
	}
	return false
}
