// Package preview renders a live capture stream into an on-screen video
// window, embedded or floating always-on-top.
package preview

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Trucker2827/sb1-wf5mkd/internal/capture"
)

// ErrNothingAttached is returned when a floating toggle arrives with no
// stream attached.
var ErrNothingAttached = errors.New("no stream attached to preview")

// PlayerSpec tells the player what to show and how.
type PlayerSpec struct {
	Origin       capture.TrackOrigin // display or webcam
	DisplayIndex int
	WebcamDevice string
	Floating     bool // borderless, always-on-top
	Title        string
}

// Player spawns and kills the playback window. Production uses ffplay;
// tests substitute a fake.
type Player interface {
	Start(ctx context.Context, spec PlayerSpec) (stop func() error, err error)
}

// Surface binds a live stream to a visible playback window. It is always
// muted: the preview monitors, it never plays audio back.
type Surface struct {
	log    *logrus.Entry
	player Player

	displayIndex int
	webcamDevice string
	title        string

	attached *capture.Stream
	floating bool
	stop     func() error
}

// NewSurface builds a Surface for the configured display and webcam.
func NewSurface(log *logrus.Logger, player Player, displayIndex int, webcamDevice, title string) *Surface {
	return &Surface{
		log:          log.WithField("component", "preview"),
		player:       player,
		displayIndex: displayIndex,
		webcamDevice: webcamDevice,
		title:        title,
	}
}

// Attach binds a stream as the source of the playback window, replacing
// any current binding.
func (s *Surface) Attach(ctx context.Context, stream *capture.Stream) error {
	s.halt()

	origin := capture.OriginDisplay
	if stream.HasOrigin(capture.OriginWebcam) && !stream.HasOrigin(capture.OriginDisplay) {
		origin = capture.OriginWebcam
	}

	stop, err := s.player.Start(ctx, s.spec(origin, false))
	if err != nil {
		s.log.WithError(err).Warn("preview attach failed")
		return err
	}

	s.attached = stream
	s.floating = false
	s.stop = stop
	s.log.WithField("stream", stream.ID).Debug("preview attached")
	return nil
}

// DetachToFloating moves the attached surface into a floating
// always-on-top window, or back to embedded if already floating. Fails
// without state change when nothing is attached.
func (s *Surface) DetachToFloating(ctx context.Context) error {
	if s.attached == nil {
		s.log.Warn("floating preview requested with nothing attached")
		return ErrNothingAttached
	}

	origin := capture.OriginDisplay
	if s.attached.HasOrigin(capture.OriginWebcam) && !s.attached.HasOrigin(capture.OriginDisplay) {
		origin = capture.OriginWebcam
	}

	s.halt()
	stop, err := s.player.Start(ctx, s.spec(origin, !s.floating))
	if err != nil {
		s.log.WithError(err).Warn("floating preview failed")
		return err
	}
	s.floating = !s.floating
	s.stop = stop
	return nil
}

// Detach stops the playback window and clears the binding.
func (s *Surface) Detach() {
	s.halt()
	s.attached = nil
	s.floating = false
}

// Attached reports whether a stream is currently bound.
func (s *Surface) Attached() bool {
	return s.attached != nil
}

// Floating reports whether the window is in floating mode.
func (s *Surface) Floating() bool {
	return s.floating
}

func (s *Surface) spec(origin capture.TrackOrigin, floating bool) PlayerSpec {
	return PlayerSpec{
		Origin:       origin,
		DisplayIndex: s.displayIndex,
		WebcamDevice: s.webcamDevice,
		Floating:     floating,
		Title:        s.title,
	}
}

func (s *Surface) halt() {
	if s.stop != nil {
		if err := s.stop(); err != nil {
			s.log.WithError(err).Debug("stopping preview window")
		}
		s.stop = nil
	}
}
