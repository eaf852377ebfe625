// Package config loads the screencast configuration from a TOML file with
// environment variable overrides.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all runtime settings.
type Config struct {
	OutputDir    string // where exported recordings land
	DataDir      string // log file + session database
	FFmpegPath   string
	FFplayPath   string
	Framerate    int
	DisplayIndex int    // which monitor to capture
	WebcamDevice string // platform device identifier
	LogLevel     string
}

type fileConfig struct {
	OutputDir    string `toml:"output_dir"`
	DataDir      string `toml:"data_dir"`
	FFmpegPath   string `toml:"ffmpeg_path"`
	FFplayPath   string `toml:"ffplay_path"`
	Framerate    int    `toml:"framerate"`
	DisplayIndex int    `toml:"display_index"`
	WebcamDevice string `toml:"webcam_device"`
	LogLevel     string `toml:"log_level"`
}

// Load reads the config file (if present), applies env overrides, and
// ensures the output and data directories exist.
func Load() (*Config, error) {
	cfg := &Config{
		OutputDir:    defaultOutputDir(),
		DataDir:      defaultDataDir(),
		FFmpegPath:   "ffmpeg",
		FFplayPath:   "ffplay",
		Framerate:    30,
		DisplayIndex: 0,
		WebcamDevice: defaultWebcamDevice(),
		LogLevel:     "info",
	}

	if path := configFilePath(); path != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(path, &fc); err == nil {
			if fc.OutputDir != "" {
				cfg.OutputDir = expandTilde(fc.OutputDir)
			}
			if fc.DataDir != "" {
				cfg.DataDir = expandTilde(fc.DataDir)
			}
			if fc.FFmpegPath != "" {
				cfg.FFmpegPath = fc.FFmpegPath
			}
			if fc.FFplayPath != "" {
				cfg.FFplayPath = fc.FFplayPath
			}
			if fc.Framerate > 0 {
				cfg.Framerate = fc.Framerate
			}
			if fc.DisplayIndex > 0 {
				cfg.DisplayIndex = fc.DisplayIndex
			}
			if fc.WebcamDevice != "" {
				cfg.WebcamDevice = fc.WebcamDevice
			}
			if fc.LogLevel != "" {
				cfg.LogLevel = fc.LogLevel
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LogPath returns the log file location inside the data directory.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "screencast.log")
}

// DBPath returns the session database location inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "screencast.sqlite")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCREENCAST_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = expandTilde(v)
	}
	if v := os.Getenv("SCREENCAST_DATA_DIR"); v != "" {
		cfg.DataDir = expandTilde(v)
	}
	if v := os.Getenv("SCREENCAST_FFMPEG"); v != "" {
		cfg.FFmpegPath = v
	}
	if v := os.Getenv("SCREENCAST_FFPLAY"); v != "" {
		cfg.FFplayPath = v
	}
	if v := os.Getenv("SCREENCAST_FRAMERATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Framerate = n
		}
	}
	if v := os.Getenv("SCREENCAST_DISPLAY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.DisplayIndex = n
		}
	}
	if v := os.Getenv("SCREENCAST_WEBCAM"); v != "" {
		cfg.WebcamDevice = v
	}
	if v := os.Getenv("SCREENCAST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func configFilePath() string {
	var configDir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configDir = filepath.Join(xdg, "screencast")
	} else if home, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(home, ".config", "screencast")
	} else {
		return ""
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func defaultOutputDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Videos", "screencast")
	}
	return filepath.Join(".", "recordings")
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "screencast")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "screencast")
	}
	return filepath.Join(".", ".screencast")
}

func defaultWebcamDevice() string {
	switch runtime.GOOS {
	case "darwin":
		return "0"
	case "windows":
		return "video=Integrated Camera"
	default:
		return "/dev/video0"
	}
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
