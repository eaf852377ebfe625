package record

import (
	"context"
	"io"

	"github.com/Trucker2827/sb1-wf5mkd/internal/capture"
)

// EncodeSpec tells the runner what to capture and encode.
type EncodeSpec struct {
	Display       capture.Display
	Framerate     int
	WebcamDevice  string
	IncludeWebcam bool // overlay the webcam onto the display capture
	IncludeAudio  bool
}

// Proc is a running encoder child. Output delivers the encoded container
// bytes as an ordered chunk stream; Done fires once when the child exits,
// whether asked to stop or not.
type Proc struct {
	Output io.ReadCloser
	Done   <-chan error
	Stop   func() error // ask for graceful finalization
}

// Runner launches an encoder child for a spec. The production runner
// shells out to ffmpeg; tests substitute an in-memory fake.
type Runner interface {
	Start(ctx context.Context, spec EncodeSpec) (*Proc, error)
}
