package preview

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/Trucker2827/sb1-wf5mkd/internal/capture"
)

// FFplayPlayer shows the capture in an ffplay window. The player opens its
// own read of the capture device, so preview and recording never contend
// for one pipe.
type FFplayPlayer struct {
	Path string
	Log  *logrus.Logger
}

// CheckBinary verifies the ffplay binary is reachable.
func (p *FFplayPlayer) CheckBinary() error {
	if _, err := exec.LookPath(p.Path); err != nil {
		return fmt.Errorf("ffplay not found at %q: %w", p.Path, err)
	}
	return nil
}

// Start spawns the ffplay window and returns a stop function that kills it.
func (p *FFplayPlayer) Start(ctx context.Context, spec PlayerSpec) (func() error, error) {
	args, err := p.buildArgs(spec)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, p.Path, args...)
	if p.Log != nil {
		cmd.Stderr = p.Log.WriterLevel(logrus.DebugLevel)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting preview window: %w", err)
	}

	// Reap the child whenever it exits, including user-closed windows.
	go func() { _ = cmd.Wait() }()

	return func() error {
		return cmd.Process.Kill()
	}, nil
}

func (p *FFplayPlayer) buildArgs(spec PlayerSpec) ([]string, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-window_title", spec.Title,
		"-an", // muted to avoid feedback
		"-fflags", "nobuffer",
	}
	if spec.Floating {
		args = append(args, "-alwaysontop", "-noborder")
	}

	switch {
	case spec.Origin == capture.OriginWebcam:
		switch runtime.GOOS {
		case "linux":
			args = append(args, "-f", "v4l2", "-i", spec.WebcamDevice)
		case "darwin":
			args = append(args, "-f", "avfoundation", "-i", spec.WebcamDevice)
		case "windows":
			args = append(args, "-f", "dshow", "-i", spec.WebcamDevice)
		default:
			return nil, fmt.Errorf("unsupported platform %s", runtime.GOOS)
		}
	default:
		switch runtime.GOOS {
		case "linux":
			display := os.Getenv("DISPLAY")
			if display == "" {
				display = ":0.0"
			}
			args = append(args, "-f", "x11grab", "-i", display)
		case "darwin":
			// Screens are their own avfoundation devices; address by name.
			args = append(args, "-f", "avfoundation", "-i", fmt.Sprintf("Capture screen %d", spec.DisplayIndex))
		case "windows":
			args = append(args, "-f", "gdigrab", "-i", "desktop")
		default:
			return nil, fmt.Errorf("unsupported platform %s", runtime.GOOS)
		}
	}

	return args, nil
}
