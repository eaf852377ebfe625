package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("SCREENCAST_OUTPUT_DIR", filepath.Join(dir, "out"))
	t.Setenv("SCREENCAST_DATA_DIR", filepath.Join(dir, "state"))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.FFmpegPath != "ffmpeg" {
		t.Errorf("FFmpegPath = %q", cfg.FFmpegPath)
	}
	if cfg.Framerate != 30 {
		t.Errorf("Framerate = %d, want 30", cfg.Framerate)
	}
	if cfg.DisplayIndex != 0 {
		t.Errorf("DisplayIndex = %d, want 0", cfg.DisplayIndex)
	}
	if cfg.WebcamDevice == "" {
		t.Error("WebcamDevice should have a platform default")
	}

	// Both directories must exist after Load.
	for _, dir := range []string{cfg.OutputDir, cfg.DataDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("directory %s not created: %v", dir, err)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SCREENCAST_FRAMERATE", "60")
	t.Setenv("SCREENCAST_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("SCREENCAST_WEBCAM", "/dev/video2")
	t.Setenv("SCREENCAST_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Framerate != 60 {
		t.Errorf("Framerate = %d, want 60", cfg.Framerate)
	}
	if cfg.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("FFmpegPath = %q", cfg.FFmpegPath)
	}
	if cfg.WebcamDevice != "/dev/video2" {
		t.Errorf("WebcamDevice = %q", cfg.WebcamDevice)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestConfigFile(t *testing.T) {
	dir := isolate(t)

	configDir := filepath.Join(dir, "config", "screencast")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "framerate = 24\nwebcam_device = \"/dev/video1\"\nlog_level = \"warn\"\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Framerate != 24 {
		t.Errorf("Framerate = %d, want 24", cfg.Framerate)
	}
	if cfg.WebcamDevice != "/dev/video1" {
		t.Errorf("WebcamDevice = %q", cfg.WebcamDevice)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestInvalidFramerateEnvIgnored(t *testing.T) {
	isolate(t)
	t.Setenv("SCREENCAST_FRAMERATE", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Framerate != 30 {
		t.Errorf("Framerate = %d, want default 30", cfg.Framerate)
	}
}
