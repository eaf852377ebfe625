// Package session owns the application state and wires capture, record,
// preview, export, and history together.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Trucker2827/sb1-wf5mkd/internal/capture"
	"github.com/Trucker2827/sb1-wf5mkd/internal/config"
	"github.com/Trucker2827/sb1-wf5mkd/internal/export"
	"github.com/Trucker2827/sb1-wf5mkd/internal/preview"
	"github.com/Trucker2827/sb1-wf5mkd/internal/record"
	"github.com/Trucker2827/sb1-wf5mkd/internal/store"
)

// Controller coordinates the recorder lifecycle. Every public method
// isolates its own failures: nothing here is fatal and nothing is retried.
type Controller struct {
	log *logrus.Entry
	cfg *config.Config

	captures    *capture.Manager
	recorder    *record.Recorder
	mainPreview *preview.Surface
	camPreview  *preview.Surface
	exporter    *export.Exporter
	store       *store.Store // nil when history is disabled

	mu            sync.Mutex
	sessionID     string
	startedAt     time.Time
	sessionWebcam bool
	display       string
	lastExport    string

	events chan Event
}

// New wires a Controller from its collaborators. st may be nil.
func New(log *logrus.Logger, cfg *config.Config, prober capture.Prober, runner record.Runner, player preview.Player, st *store.Store) *Controller {
	c := &Controller{
		log:    log.WithField("component", "session"),
		cfg:    cfg,
		store:  st,
		events: make(chan Event, 32),
	}

	c.camPreview = preview.NewSurface(log, player, cfg.DisplayIndex, cfg.WebcamDevice, "Webcam Preview")
	c.mainPreview = preview.NewSurface(log, player, cfg.DisplayIndex, cfg.WebcamDevice, "Screen Recording")
	c.captures = capture.NewManager(log, prober, cfg.DisplayIndex, cfg.WebcamDevice, c.camPreview)
	c.recorder = record.NewRecorder(log, runner, c.handleStopped)
	c.exporter = export.NewExporter(log, cfg.OutputDir)

	return c
}

// Events returns the controller's event stream.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Snapshot returns the current application state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Recording:       c.recorder.Recording(),
		WebcamVisible:   c.captures.WebcamVisible(),
		WebcamState:     c.captures.WebcamState(),
		PreviewAttached: c.mainPreview.Attached(),
		PreviewFloating: c.mainPreview.Floating(),
		SessionID:       c.sessionID,
		StartedAt:       c.startedAt,
		Display:         c.display,
		LastExportPath:  c.lastExport,
	}
	if a := c.recorder.Artifact(); a != nil {
		st.ArtifactChunks = a.Count()
		st.ArtifactBytes = a.Bytes()
	}
	return st
}

// StartRecording acquires the recording source (screen plus webcam if one
// is live right now), opens the recorder over it, and routes it to the
// main preview. Any failure leaves everything idle.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()

	if c.recorder.Recording() {
		c.mu.Unlock()
		return record.ErrAlreadyRecording
	}

	src, err := c.captures.AcquireScreen(ctx)
	if err != nil {
		c.mu.Unlock()
		c.log.WithError(err).Warn("start recording aborted")
		c.publish(Event{Kind: EventError, Message: err.Error(), Transient: true})
		return err
	}

	spec := record.EncodeSpec{
		Framerate:     c.cfg.Framerate,
		WebcamDevice:  c.cfg.WebcamDevice,
		IncludeWebcam: src.HasOrigin(capture.OriginWebcam),
		IncludeAudio:  true,
	}
	if d, derr := c.captures.Display(ctx); derr == nil {
		spec.Display = d
	}

	if err := c.recorder.Start(ctx, src, spec); err != nil {
		c.captures.ReleaseScreen()
		c.mu.Unlock()
		c.publish(Event{Kind: EventError, Message: err.Error(), Transient: true})
		return err
	}

	c.sessionID = uuid.NewString()
	c.startedAt = time.Now()
	c.sessionWebcam = spec.IncludeWebcam
	c.display = spec.Display.Label()

	if c.store != nil {
		err := c.store.Insert(store.Session{
			ID:        c.sessionID,
			StartedAt: c.startedAt,
			Display:   c.display,
			Webcam:    c.sessionWebcam,
		})
		if err != nil {
			c.log.WithError(err).Warn("recording session history insert failed")
		}
	}

	if err := c.mainPreview.Attach(ctx, src); err != nil {
		id := c.sessionID
		c.mu.Unlock()
		// Preview routing is part of the start sequence; roll back.
		_ = c.recorder.Stop()
		c.log.WithError(err).WithField("session", id).Warn("start recording aborted at preview")
		c.publish(Event{Kind: EventError, Message: err.Error(), Transient: true})
		return err
	}

	id := c.sessionID
	c.mu.Unlock()

	c.publish(Event{Kind: EventRecordingStarted, SessionID: id})
	return nil
}

// StopRecording asks the recorder to finish. No-op while idle.
func (c *Controller) StopRecording() error {
	return c.recorder.Stop()
}

// handleStopped runs after every session end, explicit or platform-forced.
// The recording source's tracks are already stopped; because a combined
// stream shares the webcam's tracks, the webcam may have been severed too,
// and the reconcile below makes the flag reflect that.
func (c *Controller) handleStopped(reason record.StopReason) {
	c.mu.Lock()
	c.captures.ReleaseScreen()
	dropped := c.captures.Reconcile()
	c.mainPreview.Detach()

	id := c.sessionID
	var bytes int64
	if a := c.recorder.Artifact(); a != nil {
		bytes = int64(a.Bytes())
	}
	if c.store != nil && id != "" {
		if err := c.store.Finish(id, time.Now(), bytes); err != nil {
			c.log.WithError(err).Warn("recording session history update failed")
		}
	}
	c.mu.Unlock()

	kind := EventRecordingStopped
	if reason == record.SourceEnded {
		kind = EventSourceEnded
	}
	c.publish(Event{Kind: kind, SessionID: id})
	if dropped {
		c.publish(Event{Kind: EventWebcamChanged})
	}
	c.publish(Event{Kind: EventPreviewChanged})
}

// ToggleWebcam enables or disables the webcam overlay. An in-progress
// recording is unaffected either way; only the next start samples the
// webcam state.
func (c *Controller) ToggleWebcam(ctx context.Context) error {
	c.mu.Lock()
	err := c.captures.ToggleWebcam(ctx)
	c.mu.Unlock()

	if err != nil {
		c.publish(Event{Kind: EventError, Message: err.Error(), Transient: true})
		return err
	}
	c.publish(Event{Kind: EventWebcamChanged})
	return nil
}

// ToggleFloating pops the main preview into a floating always-on-top
// window, or back. Fails without state change when nothing is attached.
func (c *Controller) ToggleFloating(ctx context.Context) error {
	c.mu.Lock()
	err := c.mainPreview.DetachToFloating(ctx)
	c.mu.Unlock()

	if err != nil {
		c.publish(Event{Kind: EventError, Message: err.Error(), Transient: true})
		return err
	}
	c.publish(Event{Kind: EventPreviewChanged})
	return nil
}

// Export writes the current artifact to the output directory. With nothing
// recorded yet this returns ("", nil) and does nothing.
func (c *Controller) Export() (string, error) {
	c.mu.Lock()
	path, err := c.exporter.Export(c.recorder.Artifact())
	if err != nil {
		c.mu.Unlock()
		c.publish(Event{Kind: EventError, Message: err.Error(), Transient: true})
		return "", err
	}
	if path == "" {
		c.mu.Unlock()
		return "", nil
	}

	c.lastExport = path
	id := c.sessionID
	if c.store != nil && id != "" {
		if err := c.store.MarkExported(id, path); err != nil {
			c.log.WithError(err).Warn("recording session history update failed")
		}
	}
	c.mu.Unlock()

	c.publish(Event{Kind: EventExported, SessionID: id, Path: path})
	return path, nil
}

// Recent returns session history, newest first. Empty without a store.
func (c *Controller) Recent(n int) ([]store.Session, error) {
	if c.store == nil {
		return nil, nil
	}
	return c.store.Recent(n)
}

// Close stops any active recording and releases every capture resource.
func (c *Controller) Close() error {
	_ = c.recorder.Stop()

	c.mu.Lock()
	c.captures.DisableWebcam()
	c.mainPreview.Detach()
	c.mu.Unlock()

	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

// publish never blocks; if no consumer keeps up the event is dropped.
func (c *Controller) publish(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.log.WithField("kind", string(ev.Kind)).Debug("event dropped")
	}
}
