// Package config resolves, parses, validates, and defaults mediaosd configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Config is the fully materialized runtime configuration.
type Config struct {
	Session   SessionConfig   `toml:"session"`
	Display   DisplayConfig   `toml:"display"`
	Progress  ProgressConfig  `toml:"progress"`
	Audio     AudioConfig     `toml:"audio"`
	Backlight BacklightConfig `toml:"backlight"`
	Feedback  FeedbackConfig  `toml:"feedback"`
}

// SessionConfig controls the singleton rendezvous and the overlay lifetime.
type SessionConfig struct {
	Dir          string   `toml:"dir"`  // runtime directory for the lock and socket
	Name         string   `toml:"name"` // base name of <name>.lock and <name>.sock
	Duration     Duration `toml:"duration"`
	RetryAsOwner bool     `toml:"retry_as_owner"`
	ReadTimeout  Duration `toml:"read_timeout"`
	SendTimeout  Duration `toml:"send_timeout"`
}

// LockPath returns <dir>/<name>.lock.
func (s SessionConfig) LockPath() string {
	return filepath.Join(s.runtimeDir(), s.Name+".lock")
}

// SocketPath returns <dir>/<name>.sock.
func (s SessionConfig) SocketPath() string {
	return filepath.Join(s.runtimeDir(), s.Name+".sock")
}

func (s SessionConfig) runtimeDir() string {
	if dir := strings.TrimSpace(s.Dir); dir != "" {
		return dir
	}
	return os.TempDir()
}

// DisplayConfig controls how the label is put on screen.
type DisplayConfig struct {
	Backend         string   `toml:"backend"`
	Color           string   `toml:"color"`
	FontDescription string   `toml:"font_description"`
	PollInterval    Duration `toml:"poll_interval"`
	AppName         string   `toml:"app_name"`
}

// ProgressConfig holds the progress bar glyphs. Each must be a single character.
type ProgressConfig struct {
	Filled     string `toml:"filled"`
	HalfFilled string `toml:"half_filled"`
	Empty      string `toml:"empty"`
}

// AudioConfig names the Pulse devices. "default" follows the server default.
type AudioConfig struct {
	Sink   string `toml:"sink"`
	Source string `toml:"source"`
}

// BacklightConfig names the brightnessctl device. Empty lets brightnessctl choose.
type BacklightConfig struct {
	Device string `toml:"device"`
}

// FeedbackConfig controls the audible cue after volume and microphone changes.
type FeedbackConfig struct {
	Enable bool   `toml:"enable"`
	File   string `toml:"file"` // played with pw-play instead of the built-in tone
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
