package record

import (
	"image"
	"strings"
	"testing"

	"github.com/Trucker2827/sb1-wf5mkd/internal/capture"
)

func argsFor(t *testing.T, goos string, spec EncodeSpec) string {
	t.Helper()
	args, err := buildArgsFor(goos, spec)
	if err != nil {
		t.Fatalf("buildArgsFor(%s): %v", goos, err)
	}
	return strings.Join(args, " ")
}

func testDisplay() capture.Display {
	return capture.Display{Index: 0, Bounds: image.Rect(0, 0, 1920, 1080)}
}

func TestBuildArgsEncodesWebMToStdout(t *testing.T) {
	joined := argsFor(t, "linux", EncodeSpec{Display: testDisplay(), Framerate: 30})

	for _, want := range []string{"-c:v libvpx", "-f webm pipe:1"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
	if strings.Contains(joined, "filter_complex") {
		t.Errorf("no webcam requested, got overlay filter: %s", joined)
	}
}

func TestBuildArgsWebcamOverlay(t *testing.T) {
	joined := argsFor(t, "linux", EncodeSpec{
		Display:       testDisplay(),
		Framerate:     30,
		WebcamDevice:  "/dev/video0",
		IncludeWebcam: true,
	})

	if !strings.Contains(joined, "-filter_complex") {
		t.Errorf("webcam requested but no overlay filter: %s", joined)
	}
	if !strings.Contains(joined, "overlay=main_w-overlay_w-16:main_h-overlay_h-16") {
		t.Errorf("overlay should sit bottom-right: %s", joined)
	}
	// Without an audio input the webcam is input 1.
	if !strings.Contains(joined, "[1:v]scale") {
		t.Errorf("overlay should read the webcam input: %s", joined)
	}
}

func TestBuildArgsLinuxWebcamWithAudio(t *testing.T) {
	joined := argsFor(t, "linux", EncodeSpec{
		Display:       testDisplay(),
		Framerate:     30,
		WebcamDevice:  "/dev/video0",
		IncludeWebcam: true,
		IncludeAudio:  true,
	})

	// Inputs: 0 screen, 1 pulse, 2 webcam.
	if !strings.Contains(joined, "[2:v]scale") {
		t.Errorf("overlay should read input 2: %s", joined)
	}
	if !strings.Contains(joined, "-map 1:a") {
		t.Errorf("audio should map the pulse input: %s", joined)
	}
}

func TestBuildArgsLinuxSystemAudioSource(t *testing.T) {
	joined := argsFor(t, "linux", EncodeSpec{Display: testDisplay(), Framerate: 30, IncludeAudio: true})

	// The sink monitor carries what is playing; "default" is the mic.
	if !strings.Contains(joined, "-f pulse -i @DEFAULT_MONITOR@") {
		t.Errorf("audio input should be the default sink monitor: %s", joined)
	}
	if !strings.Contains(joined, "-c:a libopus") {
		t.Errorf("audio requested but no opus encode: %s", joined)
	}
}

func TestBuildArgsDarwinWebcamWithAudio(t *testing.T) {
	joined := argsFor(t, "darwin", EncodeSpec{
		Display:       testDisplay(),
		Framerate:     30,
		WebcamDevice:  "0",
		IncludeWebcam: true,
		IncludeAudio:  true,
	})

	// Audio rides in input 0, so the webcam is input 1.
	if !strings.Contains(joined, "[1:v]scale") {
		t.Errorf("overlay should read input 1: %s", joined)
	}
	if !strings.Contains(joined, "-map 0:a") {
		t.Errorf("audio should map the screen input: %s", joined)
	}
	if !strings.Contains(joined, "-i Capture screen 0:default") {
		t.Errorf("screen should be addressed by device name: %s", joined)
	}
}

func TestBuildArgsDarwinScreenByName(t *testing.T) {
	joined := argsFor(t, "darwin", EncodeSpec{
		Display:   capture.Display{Index: 1, Bounds: image.Rect(0, 0, 1440, 900)},
		Framerate: 30,
	})

	// A raw index would select a camera, not the monitor.
	if !strings.Contains(joined, "-i Capture screen 1") {
		t.Errorf("screen should be addressed by device name: %s", joined)
	}
}

func TestBuildArgsDefaultFramerate(t *testing.T) {
	joined := argsFor(t, "linux", EncodeSpec{Display: testDisplay()})

	if !strings.Contains(joined, "-framerate 30") {
		t.Errorf("zero framerate should default to 30: %s", joined)
	}
}

func TestBuildArgsUnsupportedPlatform(t *testing.T) {
	if _, err := buildArgsFor("plan9", EncodeSpec{Display: testDisplay()}); err == nil {
		t.Error("expected error for unsupported platform")
	}
}
