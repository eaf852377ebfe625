package session

// EventKind labels controller events.
type EventKind string

const (
	EventRecordingStarted EventKind = "recording-started"
	EventRecordingStopped EventKind = "recording-stopped"
	// EventSourceEnded is a recording stop forced by the platform ending
	// the capture, not by the user.
	EventSourceEnded    EventKind = "source-ended"
	EventWebcamChanged  EventKind = "webcam-changed"
	EventPreviewChanged EventKind = "preview-changed"
	EventExported       EventKind = "exported"
	EventError          EventKind = "error"
)

// Event is published by the controller for the view and the MCP surface.
type Event struct {
	Kind      EventKind
	SessionID string
	Path      string // export path, for EventExported
	Message   string // human-readable, for EventError
	Transient bool
}
