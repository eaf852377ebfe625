// Package app is the interactive surface: one screen, four controls, all
// of them pure reflections of the session controller's state.
package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Trucker2827/sb1-wf5mkd/internal/session"
)

// Model is the root bubbletea model.
type Model struct {
	ctrl *session.Controller

	state session.State

	// UI state
	width  int
	height int

	statusText     string
	errorMessage   string
	errorTransient bool

	quitting bool
}

// New creates a Model over the controller.
func New(ctrl *session.Controller) Model {
	m := Model{
		ctrl:       ctrl,
		statusText: "Ready.",
	}
	if ctrl != nil {
		m.state = ctrl.Snapshot()
	}
	return m
}

// Init starts the controller event listener and the clock tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(listenCmd(m.ctrl), tickCmd())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ControllerEventMsg:
		cmd := m.handleEvent(msg.Event)
		m.refresh()
		return m, tea.Batch(listenCmd(m.ctrl), cmd)

	case EventStreamClosedMsg:
		return m, nil

	case OpDoneMsg:
		m.refresh()
		return m, nil

	case ExportDoneMsg:
		m.refresh()
		if msg.Err == nil && msg.Path != "" {
			m.statusText = fmt.Sprintf("Saved %s", msg.Path)
		}
		return m, nil

	case TickMsg:
		// Keep the elapsed time and captured-bytes readout moving between
		// controller events.
		m.refresh()
		return m, tickCmd()

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case KeyRecord, KeyRecordUpper:
		return m, toggleRecordCmd(m.ctrl, m.state.Recording)

	case KeyWebcam, KeyWebcamUpper:
		return m, toggleWebcamCmd(m.ctrl)

	case KeyFloating, KeyFloatingUpper:
		// Control is disabled while no stream is attached.
		if !m.state.PreviewAttached {
			return m, nil
		}
		return m, toggleFloatingCmd(m.ctrl)

	case KeyDownload, KeyDownloadUpper:
		// Control is hidden until something was recorded.
		if !m.state.HasArtifact() {
			return m, nil
		}
		return m, exportCmd(m.ctrl)
	}

	return m, nil
}

// handleEvent updates transient UI text from a controller event. State
// flags come from the snapshot refresh, not from the event payload.
func (m *Model) handleEvent(ev session.Event) tea.Cmd {
	switch ev.Kind {
	case session.EventRecordingStarted:
		m.statusText = "Recording..."
	case session.EventRecordingStopped:
		m.statusText = "Recording stopped."
	case session.EventSourceEnded:
		m.statusText = "Capture ended by the system; recording stopped."
	case session.EventWebcamChanged, session.EventPreviewChanged:
		// Snapshot refresh covers these.
	case session.EventExported:
		m.statusText = fmt.Sprintf("Saved %s", ev.Path)
	case session.EventError:
		m.errorMessage = ev.Message
		m.errorTransient = ev.Transient
		if ev.Transient {
			return clearTransientErrorCmd()
		}
	}
	return nil
}

func (m *Model) refresh() {
	if m.ctrl != nil {
		m.state = m.ctrl.Snapshot()
	}
}

// listenCmd waits for the next controller event.
func listenCmd(ctrl *session.Controller) tea.Cmd {
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ctrl.Events()
		if !ok {
			return EventStreamClosedMsg{}
		}
		return ControllerEventMsg{Event: ev}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

func toggleRecordCmd(ctrl *session.Controller, recording bool) tea.Cmd {
	return func() tea.Msg {
		if recording {
			return OpDoneMsg{Err: ctrl.StopRecording()}
		}
		return OpDoneMsg{Err: ctrl.StartRecording(context.Background())}
	}
}

func toggleWebcamCmd(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		return OpDoneMsg{Err: ctrl.ToggleWebcam(context.Background())}
	}
}

func toggleFloatingCmd(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		return OpDoneMsg{Err: ctrl.ToggleFloating(context.Background())}
	}
}

func exportCmd(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		path, err := ctrl.Export()
		return ExportDoneMsg{Path: path, Err: err}
	}
}

func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}
