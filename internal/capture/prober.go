package capture

import (
	"context"
	"fmt"
	"os"
	"runtime"
)

// Prober answers whether a capture source is actually available. The
// platform implementation is best-effort: the encoder is the final
// authority and fails on its own if a device disappears between the probe
// and the capture.
type Prober interface {
	ProbeDisplay(ctx context.Context, index int) (Display, error)
	ProbeWebcam(ctx context.Context, device string) (label string, err error)
}

// PlatformProber probes the local machine.
type PlatformProber struct{}

func (PlatformProber) ProbeDisplay(ctx context.Context, index int) (Display, error) {
	return DisplayAt(index)
}

func (PlatformProber) ProbeWebcam(ctx context.Context, device string) (string, error) {
	switch runtime.GOOS {
	case "linux":
		if _, err := os.Stat(device); err != nil {
			return "", fmt.Errorf("webcam %s: %w", device, err)
		}
		return device, nil
	default:
		// macOS and Windows identify cameras by index or name strings the
		// encoder resolves itself; accept and let it fail there.
		return device, nil
	}
}
