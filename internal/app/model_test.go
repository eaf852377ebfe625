package app

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Trucker2827/sb1-wf5mkd/internal/config"
	"github.com/Trucker2827/sb1-wf5mkd/internal/logging"
	"github.com/Trucker2827/sb1-wf5mkd/internal/session"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	m := New(nil)
	if m.state.Recording {
		t.Error("new model should not be recording")
	}
	if m.state.WebcamVisible {
		t.Error("new model should not show the webcam")
	}
	if m.quitting {
		t.Error("new model should not be quitting")
	}
}

func TestQuitKey(t *testing.T) {
	m := New(nil)
	m.width = 80
	m.height = 24

	updated, cmd := m.Update(keyMsg("q"))
	model := updated.(Model)

	if !model.quitting {
		t.Error("q should set quitting")
	}
	if cmd == nil {
		t.Error("q should return the quit command")
	}
}

func TestDownloadHiddenWithoutArtifact(t *testing.T) {
	m := New(nil)
	m.width = 80
	m.height = 24

	_, cmd := m.Update(keyMsg("d"))
	if cmd != nil {
		t.Error("download key must be inert with nothing recorded")
	}
}

func TestFloatingDisabledWithoutAttachedStream(t *testing.T) {
	m := New(nil)
	m.width = 80
	m.height = 24

	_, cmd := m.Update(keyMsg("p"))
	if cmd != nil {
		t.Error("floating key must be inert with nothing attached")
	}
}

func TestErrorEventIsTransient(t *testing.T) {
	m := New(nil)
	m.width = 80
	m.height = 24

	updated, _ := m.Update(ControllerEventMsg{Event: session.Event{
		Kind:      session.EventError,
		Message:   "permission denied",
		Transient: true,
	}})
	model := updated.(Model)

	if model.errorMessage != "permission denied" {
		t.Errorf("errorMessage = %q", model.errorMessage)
	}

	updated, _ = model.Update(ClearTransientErrorMsg{})
	model = updated.(Model)
	if model.errorMessage != "" {
		t.Error("transient error should clear")
	}
}

func TestSourceEndedStatus(t *testing.T) {
	m := New(nil)
	m.width = 80
	m.height = 24

	updated, _ := m.Update(ControllerEventMsg{Event: session.Event{
		Kind: session.EventSourceEnded,
	}})
	model := updated.(Model)

	if !strings.Contains(model.statusText, "recording stopped") {
		t.Errorf("statusText = %q", model.statusText)
	}
}

func TestTickRefreshesSnapshot(t *testing.T) {
	ctrl := session.New(logging.Discard(), &config.Config{}, nil, nil, nil, nil)
	m := New(ctrl)
	m.width = 80
	m.height = 24

	// A stale view of the controller: the tick must resync it so the
	// status panel tracks the recording without waiting for an event.
	m.state.Recording = true
	m.state.ArtifactBytes = 4096

	updated, cmd := m.Update(TickMsg{})
	model := updated.(Model)

	if model.state.Recording {
		t.Error("tick should resync the snapshot from the controller")
	}
	if model.state.ArtifactBytes != 0 {
		t.Errorf("ArtifactBytes = %d, want 0 after resync", model.state.ArtifactBytes)
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
}

func TestViewReflectsState(t *testing.T) {
	m := New(nil)
	m.width = 100
	m.height = 40

	// Idle, no artifact: download hidden, floating dimmed, start label.
	view := m.View()
	if !strings.Contains(view, "start recording") {
		t.Error("idle view should offer to start recording")
	}
	if strings.Contains(view, "[d] download") {
		t.Error("download control should be hidden with no artifact")
	}
	if !strings.Contains(view, "FEATURES") || !strings.Contains(view, "PLATFORM NOTES") {
		t.Error("informational panels should always render")
	}

	// Recording with an artifact in flight.
	m.state.Recording = true
	m.state.WebcamVisible = true
	m.state.PreviewAttached = true
	m.state.ArtifactBytes = 2048
	m.state.ArtifactChunks = 3

	view = m.View()
	if !strings.Contains(view, "stop recording") {
		t.Error("recording view should offer to stop")
	}
	if !strings.Contains(view, "disable webcam") {
		t.Error("webcam-on view should offer to disable")
	}
	if !strings.Contains(view, "● REC") {
		t.Error("recording view should show the red dot")
	}

	// Stopped with an artifact: download appears.
	m.state.Recording = false
	view = m.View()
	if !strings.Contains(view, "[d]") {
		t.Error("download control should appear once an artifact exists")
	}
}

func TestZeroWidthView(t *testing.T) {
	m := New(nil)
	if m.View() != "Initializing..." {
		t.Error("zero-width view should render the placeholder")
	}
}
