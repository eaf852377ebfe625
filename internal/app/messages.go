package app

import "github.com/Trucker2827/sb1-wf5mkd/internal/session"

// ControllerEventMsg wraps an event from the session controller.
type ControllerEventMsg struct {
	Event session.Event
}

// EventStreamClosedMsg is sent when the controller's event channel closes.
type EventStreamClosedMsg struct{}

// OpDoneMsg carries the result of a controller operation issued by a key
// press. Failures were already logged and evented by the controller; the
// view only needs to refresh.
type OpDoneMsg struct {
	Err error
}

// ExportDoneMsg carries the result of an export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// TickMsg drives the elapsed-time display while recording.
type TickMsg struct{}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
