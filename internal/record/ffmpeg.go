package record

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/sirupsen/logrus"
)

// FFmpegRunner encodes through an ffmpeg child process writing WebM to its
// stdout, so chunk delivery is just reading the pipe.
type FFmpegRunner struct {
	Path string // ffmpeg binary
	Log  *logrus.Logger
}

// CheckBinary verifies the ffmpeg binary is reachable.
func (r *FFmpegRunner) CheckBinary() error {
	if _, err := exec.LookPath(r.Path); err != nil {
		return fmt.Errorf("ffmpeg not found at %q: %w", r.Path, err)
	}
	return nil
}

// Start launches ffmpeg for the spec. The child's stderr goes to the log
// file for diagnostics.
func (r *FFmpegRunner) Start(ctx context.Context, spec EncodeSpec) (*Proc, error) {
	args, err := buildArgs(spec)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, r.Path, args...)
	if r.Log != nil {
		cmd.Stderr = r.Log.WriterLevel(logrus.DebugLevel)
	}

	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("encoder stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting encoder: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	stop := func() error {
		if runtime.GOOS == "windows" {
			return cmd.Process.Kill()
		}
		// SIGINT lets ffmpeg flush and close the container.
		return cmd.Process.Signal(os.Interrupt)
	}

	return &Proc{Output: out, Done: done, Stop: stop}, nil
}

// buildArgs assembles the platform capture inputs and the WebM encode to
// stdout. Input selection per OS: x11grab/pulse/v4l2 on Linux,
// avfoundation on macOS, gdigrab/dshow on Windows.
func buildArgs(spec EncodeSpec) ([]string, error) {
	return buildArgsFor(runtime.GOOS, spec)
}

func buildArgsFor(goos string, spec EncodeSpec) ([]string, error) {
	if spec.Framerate <= 0 {
		spec.Framerate = 30
	}

	var args []string
	args = append(args, "-hide_banner", "-loglevel", "error")

	b := spec.Display.Bounds
	fr := fmt.Sprintf("%d", spec.Framerate)

	// The input holding the webcam and the stream holding the audio differ
	// per platform; the overlay filter below needs both.
	camInput := -1
	audioMap := ""

	switch goos {
	case "linux":
		args = append(args,
			"-f", "x11grab",
			"-framerate", fr,
			"-video_size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
			"-i", fmt.Sprintf("%s+%d,%d", displayEnv(), b.Min.X, b.Min.Y),
		)
		next := 1
		if spec.IncludeAudio {
			// The monitor of the default sink is what is playing; plain
			// "default" would record the microphone.
			args = append(args, "-f", "pulse", "-i", "@DEFAULT_MONITOR@")
			audioMap = fmt.Sprintf("%d:a", next)
			next++
		}
		if spec.IncludeWebcam {
			args = append(args, "-f", "v4l2", "-i", spec.WebcamDevice)
			camInput = next
		}
	case "darwin":
		// avfoundation lists screens as separate devices after the cameras,
		// so a raw index would pick a camera; address the screen by name.
		// Audio rides along in input 0 as "<video>:<audio>".
		input := fmt.Sprintf("Capture screen %d", spec.Display.Index)
		if spec.IncludeAudio {
			input += ":default"
			audioMap = "0:a"
		}
		args = append(args,
			"-f", "avfoundation",
			"-framerate", fr,
			"-capture_cursor", "1",
			"-i", input,
		)
		if spec.IncludeWebcam {
			args = append(args, "-f", "avfoundation", "-framerate", fr, "-i", spec.WebcamDevice)
			camInput = 1
		}
	case "windows":
		args = append(args,
			"-f", "gdigrab",
			"-framerate", fr,
			"-offset_x", fmt.Sprintf("%d", b.Min.X),
			"-offset_y", fmt.Sprintf("%d", b.Min.Y),
			"-video_size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
			"-i", "desktop",
		)
		next := 1
		if spec.IncludeAudio {
			args = append(args, "-f", "dshow", "-i", "audio=virtual-audio-capturer")
			audioMap = fmt.Sprintf("%d:a", next)
			next++
		}
		if spec.IncludeWebcam {
			args = append(args, "-f", "dshow", "-i", spec.WebcamDevice)
			camInput = next
		}
	default:
		return nil, fmt.Errorf("unsupported platform %s", goos)
	}

	if spec.IncludeWebcam {
		// Webcam overlaid bottom-right at quarter size, mirroring the
		// picture-in-picture layout.
		filter := fmt.Sprintf(
			"[%d:v]scale=iw/4:-1[cam];[0:v][cam]overlay=main_w-overlay_w-16:main_h-overlay_h-16[out]",
			camInput,
		)
		args = append(args, "-filter_complex", filter, "-map", "[out]")
		if spec.IncludeAudio {
			args = append(args, "-map", audioMap)
		}
	}

	args = append(args,
		"-c:v", "libvpx",
		"-deadline", "realtime",
		"-cpu-used", "8",
	)
	if spec.IncludeAudio {
		args = append(args, "-c:a", "libopus")
	}
	args = append(args, "-f", "webm", "pipe:1")

	return args, nil
}

func displayEnv() string {
	if d := os.Getenv("DISPLAY"); d != "" {
		return d
	}
	return ":0.0"
}
