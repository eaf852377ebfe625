package record

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Trucker2827/sb1-wf5mkd/internal/capture"
	"github.com/Trucker2827/sb1-wf5mkd/internal/logging"
)

// fakeRunner hands out in-memory encoder processes the test feeds by hand.
type fakeRunner struct {
	mu       sync.Mutex
	startErr error
	current  *fakeProc
	starts   int
}

type fakeProc struct {
	w    *io.PipeWriter
	done chan error
}

func (r *fakeRunner) Start(ctx context.Context, spec EncodeSpec) (*Proc, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return nil, r.startErr
	}
	pr, pw := io.Pipe()
	p := &fakeProc{w: pw, done: make(chan error, 1)}
	r.current = p
	r.starts++

	stop := func() error {
		pw.Close()
		p.done <- nil
		return nil
	}
	return &Proc{Output: pr, Done: p.done, Stop: stop}, nil
}

// crash simulates the platform revoking the capture: the child exits on
// its own, without a stop request.
func (p *fakeProc) crash(err error) {
	p.w.Close()
	p.done <- err
}

func (p *fakeProc) emit(t *testing.T, data []byte) {
	t.Helper()
	if _, err := p.w.Write(data); err != nil {
		t.Fatalf("emit chunk: %v", err)
	}
}

func testSource() *capture.Stream {
	return capture.NewStream(
		capture.NewTrack(capture.TrackVideo, capture.OriginDisplay, "display 0"),
		capture.NewTrack(capture.TrackAudio, capture.OriginSystemAudio, "system audio"),
	)
}

func newTestRecorder(r Runner, onStopped func(StopReason)) *Recorder {
	return NewRecorder(logging.Discard(), r, onStopped)
}

func TestStopWhileIdleIsNoOp(t *testing.T) {
	rec := newTestRecorder(&fakeRunner{}, nil)

	if err := rec.Stop(); err != nil {
		t.Fatalf("stop while idle: %v", err)
	}
	if rec.Artifact() != nil {
		t.Error("stop must not create a chunk sequence")
	}
}

func TestRecordStopCycle(t *testing.T) {
	runner := &fakeRunner{}
	var reason StopReason
	rec := newTestRecorder(runner, func(r StopReason) { reason = r })
	src := testSource()

	if err := rec.Start(context.Background(), src, EncodeSpec{Framerate: 30}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if rec.State() != StateRecording {
		t.Fatalf("state = %v, want recording", rec.State())
	}

	runner.current.emit(t, []byte("chunk-one"))
	runner.current.emit(t, []byte("chunk-two"))

	if err := rec.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if rec.State() != StateIdle {
		t.Errorf("state = %v, want idle", rec.State())
	}
	if reason != StopRequested {
		t.Errorf("reason = %v, want requested", reason)
	}

	a := rec.Artifact()
	if a.Count() != 2 {
		t.Errorf("chunks = %d, want 2", a.Count())
	}
	if string(a.Concat()) != "chunk-onechunk-two" {
		t.Errorf("artifact = %q", a.Concat())
	}

	// Every track of the recording source must be released.
	for _, tr := range src.Tracks() {
		if tr.Live() {
			t.Errorf("track %s (%s) still live after stop", tr.ID, tr.Origin)
		}
	}
}

func TestSecondSessionReplacesFirst(t *testing.T) {
	runner := &fakeRunner{}
	rec := newTestRecorder(runner, nil)

	if err := rec.Start(context.Background(), testSource(), EncodeSpec{}); err != nil {
		t.Fatalf("first start: %v", err)
	}
	runner.current.emit(t, []byte("first-session"))
	if err := rec.Stop(); err != nil {
		t.Fatalf("first stop: %v", err)
	}

	if err := rec.Start(context.Background(), testSource(), EncodeSpec{}); err != nil {
		t.Fatalf("second start: %v", err)
	}
	runner.current.emit(t, []byte("second"))
	if err := rec.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}

	got := string(rec.Artifact().Concat())
	if got != "second" {
		t.Errorf("artifact = %q, want only second-session data", got)
	}
}

func TestStopWaitsForDeliveredChunks(t *testing.T) {
	runner := &fakeRunner{}
	rec := newTestRecorder(runner, nil)

	if err := rec.Start(context.Background(), testSource(), EncodeSpec{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	runner.current.emit(t, []byte("head"))
	runner.current.emit(t, []byte("tail"))

	if err := rec.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	// Stop returns only after the read side drained to EOF, so every chunk
	// the encoder delivered is already in the artifact.
	if got := string(rec.Artifact().Concat()); got != "headtail" {
		t.Errorf("artifact after stop = %q, want %q", got, "headtail")
	}
}

func TestStartWhileRecording(t *testing.T) {
	runner := &fakeRunner{}
	rec := newTestRecorder(runner, nil)

	if err := rec.Start(context.Background(), testSource(), EncodeSpec{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer rec.Stop()

	if err := rec.Start(context.Background(), testSource(), EncodeSpec{}); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("second start: err = %v, want ErrAlreadyRecording", err)
	}
	if runner.starts != 1 {
		t.Errorf("runner started %d times, want 1", runner.starts)
	}
}

func TestStartFailureStaysIdle(t *testing.T) {
	rec := newTestRecorder(&fakeRunner{startErr: errors.New("no capture source chosen")}, nil)

	if err := rec.Start(context.Background(), testSource(), EncodeSpec{}); err == nil {
		t.Fatal("expected error")
	}
	if rec.State() != StateIdle {
		t.Errorf("state = %v, want idle after failed start", rec.State())
	}
}

func TestFailedStartKeepsPreviousArtifact(t *testing.T) {
	runner := &fakeRunner{}
	rec := newTestRecorder(runner, nil)

	if err := rec.Start(context.Background(), testSource(), EncodeSpec{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	runner.current.emit(t, []byte("kept"))
	if err := rec.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	runner.startErr = errors.New("device busy")
	if err := rec.Start(context.Background(), testSource(), EncodeSpec{}); err == nil {
		t.Fatal("expected error")
	}

	if got := string(rec.Artifact().Concat()); got != "kept" {
		t.Errorf("artifact = %q, want the previous session preserved", got)
	}
}

func TestSourceEndedFinalizesLikeStop(t *testing.T) {
	runner := &fakeRunner{}
	stopped := make(chan StopReason, 1)
	rec := newTestRecorder(runner, func(r StopReason) { stopped <- r })
	src := testSource()

	if err := rec.Start(context.Background(), src, EncodeSpec{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	runner.current.emit(t, []byte("partial"))

	// The user killed the native capture: the encoder exits on its own.
	runner.current.crash(errors.New("display gone"))

	select {
	case reason := <-stopped:
		if reason != SourceEnded {
			t.Errorf("reason = %v, want source ended", reason)
		}
	case <-time.After(time.Second):
		t.Fatal("recorder never finalized")
	}

	if rec.State() != StateIdle {
		t.Errorf("state = %v, want idle", rec.State())
	}
	if string(rec.Artifact().Concat()) != "partial" {
		t.Errorf("artifact = %q, want the chunks delivered before the exit", rec.Artifact().Concat())
	}
	for _, tr := range src.Tracks() {
		if tr.Live() {
			t.Errorf("track %s still live after implicit stop", tr.ID)
		}
	}
}

func TestChunksDropEmptyBuffers(t *testing.T) {
	c := NewChunks()
	c.Append(nil)
	c.Append([]byte{})
	c.Append([]byte("data"))

	if c.Count() != 1 {
		t.Errorf("count = %d, want 1", c.Count())
	}
	if c.Bytes() != 4 {
		t.Errorf("bytes = %d, want 4", c.Bytes())
	}
}

func TestChunksCopyOnAppend(t *testing.T) {
	c := NewChunks()
	buf := []byte("abcd")
	c.Append(buf)
	buf[0] = 'x'

	if string(c.Concat()) != "abcd" {
		t.Errorf("chunk aliased the caller's buffer: %q", c.Concat())
	}
}
