package record

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Trucker2827/sb1-wf5mkd/internal/capture"
)

// State is the recorder lifecycle. Two states only; there is no pause.
type State int

const (
	StateIdle State = iota
	StateRecording
)

func (s State) String() string {
	if s == StateRecording {
		return "recording"
	}
	return "idle"
}

// StopReason says why a session ended.
type StopReason int

const (
	// StopRequested is an explicit Stop call.
	StopRequested StopReason = iota
	// SourceEnded means the encoder child exited on its own, e.g. the
	// platform revoked the capture. Handled identically to Stop.
	SourceEnded
)

func (r StopReason) String() string {
	if r == SourceEnded {
		return "source ended"
	}
	return "requested"
}

// ErrAlreadyRecording is returned by Start while a session is active.
var ErrAlreadyRecording = errors.New("recording already in progress")

// Recorder owns one recording session at a time: the encoder child, the
// recording source stream, and the chunk sequence.
type Recorder struct {
	log       *logrus.Entry
	runner    Runner
	onStopped func(reason StopReason)

	mu            sync.Mutex
	state         State
	chunks        *Chunks
	source        *capture.Stream
	proc          *Proc
	stopRequested bool
	finalized     chan struct{}
}

// NewRecorder builds a Recorder. onStopped fires after every session ends,
// whatever the reason; it runs before Stop returns.
func NewRecorder(log *logrus.Logger, runner Runner, onStopped func(StopReason)) *Recorder {
	return &Recorder{
		log:       log.WithField("component", "record"),
		runner:    runner,
		onStopped: onStopped,
	}
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Recording reports whether a session is accumulating chunks.
func (r *Recorder) Recording() bool {
	return r.State() == StateRecording
}

// Artifact returns the chunk sequence of the current or most recent
// session. Nil until the first Start.
func (r *Recorder) Artifact() *Chunks {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chunks
}

// Start opens an encoder against the source and begins a new, empty chunk
// sequence, replacing the previous session's artifact. Valid only from
// idle. On failure nothing is started and the recorder stays idle.
func (r *Recorder) Start(ctx context.Context, source *capture.Stream, spec EncodeSpec) error {
	r.mu.Lock()
	if r.state == StateRecording {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}

	proc, err := r.runner.Start(ctx, spec)
	if err != nil {
		r.mu.Unlock()
		r.log.WithError(err).Warn("encoder start failed")
		return err
	}

	// The previous artifact stays exportable until a session actually opens.
	r.chunks = NewChunks()
	r.state = StateRecording
	r.source = source
	r.proc = proc
	r.stopRequested = false
	r.finalized = make(chan struct{})

	readerDone := make(chan struct{})
	go r.readLoop(proc.Output, r.chunks, readerDone)
	go r.waitLoop(proc, readerDone)
	r.mu.Unlock()

	r.log.WithField("stream", source.ID).Info("recording started")
	return nil
}

// Stop signals the encoder to finish and blocks until the session is
// finalized: all source tracks stopped, chunk sequence closed out as the
// exportable artifact. Calling while idle is a no-op.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return nil
	}
	r.stopRequested = true
	proc := r.proc
	fin := r.finalized
	r.mu.Unlock()

	if err := proc.Stop(); err != nil {
		// Child may have already exited; finalization still runs.
		r.log.WithError(err).Debug("encoder stop signal failed")
	}
	<-fin
	return nil
}

func (r *Recorder) readLoop(out io.ReadCloser, chunks *Chunks, done chan<- struct{}) {
	defer close(done)
	buf := make([]byte, 32*1024)
	for {
		n, err := out.Read(buf)
		if n > 0 {
			chunks.Append(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func (r *Recorder) waitLoop(proc *Proc, readerDone <-chan struct{}) {
	err := <-proc.Done
	// Everything the encoder delivered before exiting must land in the
	// chunk sequence before the session finalizes.
	<-readerDone
	r.finalize(err)
}

func (r *Recorder) finalize(exitErr error) {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return
	}
	reason := SourceEnded
	if r.stopRequested {
		reason = StopRequested
	}
	r.source.StopAll()
	r.source = nil
	r.proc = nil
	r.state = StateIdle
	fin := r.finalized
	chunks := r.chunks
	r.mu.Unlock()

	entry := r.log.WithFields(logrus.Fields{
		"reason": reason.String(),
		"chunks": chunks.Count(),
		"bytes":  chunks.Bytes(),
	})
	if exitErr != nil && reason == SourceEnded {
		entry = entry.WithError(exitErr)
	}
	entry.Info("recording stopped")

	if r.onStopped != nil {
		r.onStopped(reason)
	}
	close(fin)
}
