package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rbright/mediaosd/internal/label"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
}

func TestSessionPaths(t *testing.T) {
	s := SessionConfig{Dir: "/run/user/1000", Name: "mediaosd"}
	require.Equal(t, "/run/user/1000/mediaosd.lock", s.LockPath())
	require.Equal(t, "/run/user/1000/mediaosd.sock", s.SocketPath())

	s.Dir = ""
	require.Equal(t, filepath.Join(os.TempDir(), "mediaosd.sock"), s.SocketPath())
}

func TestResolvePathPrecedence(t *testing.T) {
	explicit := "/tmp/custom.toml"
	resolved, err := ResolvePath(explicit)
	require.NoError(t, err)
	require.Equal(t, explicit, resolved)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	resolved, err = ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(xdg, "mediaosd", "config.toml"), resolved)

	t.Setenv("XDG_CONFIG_HOME", "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	resolved, err = ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "mediaosd", "config.toml"), resolved)
}

func TestLoadMissingConfigUsesDefaultsWithWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, loaded.Path)
	require.False(t, loaded.Exists)
	require.Equal(t, Default(), loaded.Config)
	require.Len(t, loaded.Warnings, 1)
	require.Contains(t, loaded.Warnings[0].Message, "not found")
}

func TestLoadExistingTOMLOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
[session]
dir = "/run/user/1000"
duration = "1500ms"
retry_as_owner = false

[display]
backend = "desktop"
color = "#89b4fa"

[progress]
filled = "="
empty = "-"

[audio]
sink = "alsa_output.usb-dac"

[backlight]
device = "intel_backlight"

[feedback]
enable = true
file = "~/sounds/pop.wav"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)

	cfg := loaded.Config
	require.Equal(t, "/run/user/1000", cfg.Session.Dir)
	require.Equal(t, "mediaosd", cfg.Session.Name)
	require.Equal(t, 1500*time.Millisecond, cfg.Session.Duration.Duration())
	require.False(t, cfg.Session.RetryAsOwner)
	require.Equal(t, "desktop", cfg.Display.Backend)
	require.Equal(t, "#89b4fa", cfg.Display.Color)
	require.Equal(t, "Monospace 13", cfg.Display.FontDescription)
	require.Equal(t, "alsa_output.usb-dac", cfg.Audio.Sink)
	require.Equal(t, "default", cfg.Audio.Source)
	require.Equal(t, "intel_backlight", cfg.Backlight.Device)
	require.Equal(t, label.Bar{Filled: '=', HalfFilled: '▌', Empty: '-'}, cfg.Progress.Bar())

	player := cfg.FeedbackPlayer()
	require.NotNil(t, player)
	require.Equal(t, "~/sounds/pop.wav", player.File)
}

func TestParseRejectsUnknownKeysWithPosition(t *testing.T) {
	_, _, err := Parse("[session]\nname = \"osd\"\nlifetime = \"2s\"\n", Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown key")
	require.Contains(t, err.Error(), "session.lifetime")
	require.Contains(t, err.Error(), "line 3")
}

func TestParseReportsSyntaxErrorPosition(t *testing.T) {
	_, _, err := Parse("[session\nname = 1\n", Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 1")
}

func TestParseEmptyContentKeepsBase(t *testing.T) {
	cfg, warnings, err := Parse("  \n", Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, Default(), cfg)
}

func TestDurationSyntax(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{in: "2s", want: 2 * time.Second},
		{in: "1500ms", want: 1500 * time.Millisecond},
		{in: "2", want: 2 * time.Second},
		{in: "0.25", want: 250 * time.Millisecond},
	}
	for _, tc := range tests {
		var d Duration
		require.NoError(t, d.Set(tc.in), tc.in)
		require.Equal(t, tc.want, d.Duration(), tc.in)
	}

	var d Duration
	err := d.Set("soon")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid duration")
	require.Equal(t, "duration", d.Type())
}

func TestValidateRejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "empty name", mutate: func(c *Config) { c.Session.Name = " " }, wantErr: "session.name"},
		{name: "name with slash", mutate: func(c *Config) { c.Session.Name = "a/b" }, wantErr: "session.name"},
		{name: "zero duration", mutate: func(c *Config) { c.Session.Duration = 0 }, wantErr: "session.duration"},
		{name: "zero read timeout", mutate: func(c *Config) { c.Session.ReadTimeout = 0 }, wantErr: "read_timeout"},
		{name: "zero send timeout", mutate: func(c *Config) { c.Session.SendTimeout = 0 }, wantErr: "send_timeout"},
		{name: "unknown backend", mutate: func(c *Config) { c.Display.Backend = "gtk" }, wantErr: "display.backend"},
		{name: "empty backend", mutate: func(c *Config) { c.Display.Backend = "" }, wantErr: "display.backend"},
		{name: "desktop without app name", mutate: func(c *Config) {
			c.Display.Backend = "desktop"
			c.Display.AppName = ""
		}, wantErr: "display.app_name"},
		{name: "bad color", mutate: func(c *Config) { c.Display.Color = "black" }, wantErr: "display.color"},
		{name: "zero poll", mutate: func(c *Config) { c.Display.PollInterval = 0 }, wantErr: "poll_interval"},
		{name: "two-char glyph", mutate: func(c *Config) { c.Progress.Filled = "##" }, wantErr: "progress.filled"},
		{name: "empty glyph", mutate: func(c *Config) { c.Progress.Empty = "" }, wantErr: "progress.empty"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateWarnings(t *testing.T) {
	cfg := Default()
	cfg.Display.PollInterval = Duration(5 * time.Second)
	cfg.Display.FontDescription = "Monospace"

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	require.Contains(t, warnings[0].Message, "poll_interval")
	require.Contains(t, warnings[1].Message, "no point size")
}

func TestOverridesApply(t *testing.T) {
	d := Duration(3 * time.Second)
	backend := "none"
	filled := "#"

	cfg := Overrides{Duration: &d, Backend: &backend, Filled: &filled}.Apply(Default())
	require.Equal(t, 3*time.Second, cfg.Session.Duration.Duration())
	require.Equal(t, "none", cfg.Display.Backend)
	require.Equal(t, "#", cfg.Progress.Filled)
	require.Equal(t, Default().Display.Color, cfg.Display.Color)
}

func TestDisplayOptionsTimeoutCoversLongestSession(t *testing.T) {
	opts := Default().DisplayOptions()
	require.Equal(t, 6*time.Second, opts.Timeout)
	require.Equal(t, "hypr", opts.Backend)
	require.Equal(t, uint8(0xff), opts.Color.A)
}

func TestFeedbackDisabledByDefault(t *testing.T) {
	require.False(t, Default().Feedback.Enable)
	require.Nil(t, Default().FeedbackPlayer())
}
