package capture

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// ResourceState is the per-source in-flight guard. It makes rapid toggles
// deterministic: a request issued while another is pending is rejected
// instead of racing it.
type ResourceState int

const (
	ResourceIdle ResourceState = iota
	ResourceRequesting
	ResourceActive
)

func (s ResourceState) String() string {
	switch s {
	case ResourceIdle:
		return "idle"
	case ResourceRequesting:
		return "requesting"
	case ResourceActive:
		return "active"
	default:
		return "unknown"
	}
}

// ErrRequestPending is returned when a webcam toggle arrives while a prior
// acquisition is still waiting on the platform.
var ErrRequestPending = errors.New("capture request already pending")

// PreviewSink receives the webcam stream for on-screen monitoring.
// Implemented by preview.Surface.
type PreviewSink interface {
	Attach(ctx context.Context, s *Stream) error
	Detach()
}

// Manager owns the screen and webcam streams. At most one of each is live
// at any time.
type Manager struct {
	log    *logrus.Entry
	prober Prober

	displayIndex int
	webcamDevice string

	webcamSink PreviewSink // may be nil (headless)

	// Calls are serialized by the session controller; the Requesting
	// window is the only cross-goroutine hazard and is covered by the
	// state checks below.
	screen      *Stream
	webcam      *Stream
	screenState ResourceState
	webcamState ResourceState
}

// NewManager builds a Manager for the configured display and webcam device.
func NewManager(log *logrus.Logger, prober Prober, displayIndex int, webcamDevice string, webcamSink PreviewSink) *Manager {
	return &Manager{
		log:          log.WithField("component", "capture"),
		prober:       prober,
		displayIndex: displayIndex,
		webcamDevice: webcamDevice,
		webcamSink:   webcamSink,
	}
}

// WebcamVisible reports whether the webcam overlay is currently shown.
func (m *Manager) WebcamVisible() bool {
	return m.webcamState == ResourceActive && m.webcam != nil && m.webcam.Live()
}

// WebcamState returns the webcam acquisition guard state.
func (m *Manager) WebcamState() ResourceState {
	return m.webcamState
}

// WebcamStream returns the live webcam stream, or nil.
func (m *Manager) WebcamStream() *Stream {
	return m.webcam
}

// EnableWebcam requests camera access (video only, no audio). Failures are
// logged and leave state unchanged; the caller treats the whole operation
// as fire-and-forget.
func (m *Manager) EnableWebcam(ctx context.Context) error {
	switch m.webcamState {
	case ResourceRequesting:
		m.log.Warn("webcam enable ignored: request already pending")
		return ErrRequestPending
	case ResourceActive:
		return nil
	}

	m.webcamState = ResourceRequesting
	label, err := m.prober.ProbeWebcam(ctx, m.webcamDevice)
	if err != nil {
		m.webcamState = ResourceIdle
		m.log.WithError(err).Warn("webcam acquisition failed")
		return err
	}

	stream := NewStream(NewTrack(TrackVideo, OriginWebcam, label))
	m.webcam = stream
	m.webcamState = ResourceActive
	m.log.WithField("device", label).Info("webcam enabled")

	if m.webcamSink != nil {
		if err := m.webcamSink.Attach(ctx, stream); err != nil {
			// Preview failure does not revoke the acquired camera.
			m.log.WithError(err).Warn("webcam preview attach failed")
		}
	}
	return nil
}

// DisableWebcam stops every webcam track and releases the stream.
// Idempotent: calling with no active webcam is a no-op.
func (m *Manager) DisableWebcam() {
	if m.webcam == nil {
		m.webcamState = ResourceIdle
		return
	}
	m.webcam.StopAll()
	m.webcam = nil
	m.webcamState = ResourceIdle
	if m.webcamSink != nil {
		m.webcamSink.Detach()
	}
	m.log.Info("webcam disabled")
}

// ToggleWebcam disables the webcam if visible, else enables it. A toggle
// while an acquisition is pending is rejected.
func (m *Manager) ToggleWebcam(ctx context.Context) error {
	if m.webcamState == ResourceRequesting {
		return ErrRequestPending
	}
	if m.WebcamVisible() {
		m.DisableWebcam()
		return nil
	}
	return m.EnableWebcam(ctx)
}

// AcquireScreen requests display capture (one whole monitor plus system
// audio) and returns the recording source. If the webcam is live at this
// instant, the source is a new combined stream over the union of the
// display and webcam tracks; the webcam tracks themselves are shared, so
// stopping the combined stream stops the webcam too.
func (m *Manager) AcquireScreen(ctx context.Context) (*Stream, error) {
	if m.screenState == ResourceRequesting {
		return nil, ErrRequestPending
	}
	if m.screen != nil && m.screen.Live() {
		return nil, errors.New("screen capture already live")
	}

	m.screenState = ResourceRequesting
	display, err := m.prober.ProbeDisplay(ctx, m.displayIndex)
	if err != nil {
		m.screenState = ResourceIdle
		m.log.WithError(err).Warn("display acquisition failed")
		return nil, err
	}

	screen := NewStream(
		NewTrack(TrackVideo, OriginDisplay, display.Label()),
		NewTrack(TrackAudio, OriginSystemAudio, "system audio"),
	)
	m.screen = screen
	m.screenState = ResourceActive
	m.log.WithField("display", display.Label()).Info("screen capture acquired")

	if !m.WebcamVisible() {
		return screen, nil
	}

	union := append([]*Track{}, screen.Tracks()...)
	union = append(union, m.webcam.Tracks()...)
	return NewStream(union...), nil
}

// Display returns the monitor the manager captures.
func (m *Manager) Display(ctx context.Context) (Display, error) {
	return m.prober.ProbeDisplay(ctx, m.displayIndex)
}

// ReleaseScreen clears the screen stream after its tracks were stopped.
func (m *Manager) ReleaseScreen() {
	if m.screen != nil {
		m.screen.StopAll()
		m.screen = nil
	}
	m.screenState = ResourceIdle
}

// Reconcile drops the webcam if its tracks were stopped out from under it,
// which happens when a combined-stream recording stops. The webcam-visible
// flag then reflects reality in the view.
func (m *Manager) Reconcile() (webcamDropped bool) {
	if m.webcam != nil && !m.webcam.Live() {
		m.webcam = nil
		m.webcamState = ResourceIdle
		if m.webcamSink != nil {
			m.webcamSink.Detach()
		}
		m.log.Info("webcam released by recording stop")
		return true
	}
	return false
}
