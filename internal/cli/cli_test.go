package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/rbright/mediaosd/internal/action"
	"github.com/stretchr/testify/require"
)

func TestParseActionCommands(t *testing.T) {
	tests := []struct {
		args []string
		want action.Action
	}{
		{args: []string{"v", "up", "5"}, want: action.VolumeUp(5)},
		{args: []string{"v", "down", "10"}, want: action.VolumeDown(10)},
		{args: []string{"v", "mute"}, want: action.VolumeToggleMute()},
		{args: []string{"m", "mute"}, want: action.MicrophoneToggleMute()},
		{args: []string{"b", "up", "3"}, want: action.BrightnessUp(3)},
		{args: []string{"b", "down", "7"}, want: action.BrightnessDown(7)},
	}

	for _, tc := range tests {
		inv, err := Parse(tc.args, &bytes.Buffer{})
		require.NoError(t, err, tc.args)
		require.Equal(t, CommandAction, inv.Command, tc.args)
		require.Equal(t, tc.want, inv.Action, tc.args)
	}
}

func TestParseFlagsBecomeOverridesOnlyWhenSet(t *testing.T) {
	inv, err := Parse([]string{
		"--config", "/tmp/osd.toml",
		"--verbose",
		"--duration", "3",
		"--color", "#FF0000",
		"--filled", "=",
		"v", "up", "5",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	require.Equal(t, "/tmp/osd.toml", inv.ConfigPath)
	require.True(t, inv.Verbose)
	require.NotNil(t, inv.Overrides.Duration)
	require.Equal(t, 3*time.Second, inv.Overrides.Duration.Duration())
	require.Equal(t, "#FF0000", *inv.Overrides.Color)
	require.Equal(t, "=", *inv.Overrides.Filled)
	require.Nil(t, inv.Overrides.Backend)
	require.Nil(t, inv.Overrides.Empty)
	require.Nil(t, inv.Overrides.FontDescription)
}

func TestParseFlagsAfterSubcommand(t *testing.T) {
	inv, err := Parse([]string{"b", "up", "5", "--backend", "none"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, action.BrightnessUp(5), inv.Action)
	require.Equal(t, "none", *inv.Overrides.Backend)
}

func TestParseDoctorAndVersion(t *testing.T) {
	inv, err := Parse([]string{"doctor", "--config", "/x.toml"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, CommandDoctor, inv.Command)
	require.Equal(t, "/x.toml", inv.ConfigPath)

	inv, err = Parse([]string{"version"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, CommandVersion, inv.Command)
}

func TestParseHelp(t *testing.T) {
	var out bytes.Buffer
	inv, err := Parse(nil, &out)
	require.NoError(t, err)
	require.Equal(t, CommandHelp, inv.Command)
	require.Contains(t, out.String(), "Usage:")
	require.Contains(t, out.String(), "mediaosd v up 5")

	out.Reset()
	inv, err = Parse([]string{"--help"}, &out)
	require.NoError(t, err)
	require.Equal(t, CommandHelp, inv.Command)
	require.Contains(t, out.String(), "--duration")
}

func TestParseUsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown command", args: []string{"not-a-command"}, wantErr: "unknown command"},
		{name: "brightness mute", args: []string{"b", "mute"}, wantErr: "accepts 2 arg"},
		{name: "bad amount", args: []string{"v", "up", "loud"}, wantErr: "invalid amount"},
		{name: "mic up", args: []string{"m", "up"}, wantErr: "unknown action"},
		{name: "bad duration", args: []string{"--duration", "soon", "v", "mute"}, wantErr: "invalid duration"},
		{name: "unknown flag", args: []string{"--nope", "v", "mute"}, wantErr: "unknown flag"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)
			require.True(t, IsUsageError(err))
			require.Contains(t, err.Error(), tc.wantErr)
			require.Contains(t, FormatUsageError(err), "Usage:")
		})
	}
}
