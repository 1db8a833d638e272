// Package feedback plays a short audible cue after a volume or microphone change.
package feedback

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jfreymuth/pulse"

	"github.com/rbright/mediaosd/internal/action"
)

// Cue identifies which tone to play.
type Cue int

const (
	CueNone Cue = iota
	CueRaise
	CueLower
	CueToggle
)

const sampleRate = 16000

type toneSpec struct {
	frequencyHz float64
	duration    time.Duration
	volume      float64
}

var (
	raisePCM = synthesize([]toneSpec{
		{frequencyHz: 988, duration: 45 * time.Millisecond, volume: 0.16},
	})
	lowerPCM = synthesize([]toneSpec{
		{frequencyHz: 660, duration: 45 * time.Millisecond, volume: 0.16},
	})
	togglePCM = synthesize([]toneSpec{
		{frequencyHz: 740, duration: 40 * time.Millisecond, volume: 0.16},
		{frequencyHz: 554, duration: 55 * time.Millisecond, volume: 0.16},
	})
)

// CueFor maps an action onto its cue. Brightness changes are silent.
func CueFor(a action.Action) Cue {
	switch a.Kind {
	case action.KindVolumeUp:
		return CueRaise
	case action.KindVolumeDown:
		return CueLower
	case action.KindVolumeToggleMute, action.KindMicrophoneToggleMute:
		return CueToggle
	default:
		return CueNone
	}
}

// Player emits cues. A configured sound file wins over the synthesized tone.
type Player struct {
	// File is played with pw-play. "~/" expands to the user home.
	File string
}

// Play emits cue and returns once it finished playing.
func (p Player) Play(ctx context.Context, cue Cue) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cue == CueNone {
		return nil
	}

	if path := expandUserPath(p.File); path != "" {
		if err := playFile(ctx, path); err == nil {
			return nil
		}
	}

	samples := samplesFor(cue)
	if len(samples) == 0 {
		return nil
	}
	return playSynth(samples)
}

func samplesFor(cue Cue) []int16 {
	switch cue {
	case CueRaise:
		return raisePCM
	case CueLower:
		return lowerPCM
	case CueToggle:
		return togglePCM
	default:
		return nil
	}
}

func expandUserPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if raw != "~" && !strings.HasPrefix(raw, "~/") {
		return raw
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return raw
	}
	return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(raw, "~"), "/"))
}

func playFile(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("stat feedback file %q: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "pw-play", "--media-role", "Notification", path)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play feedback file %q: %w", path, err)
	}
	return nil
}

func playSynth(samples []int16) error {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("mediaosd"),
		pulse.ClientApplicationIconName("audio-volume-high"),
	)
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	cursor := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if cursor >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, samples[cursor:])
		cursor += n
		if cursor >= len(samples) {
			return n, pulse.EndOfData
		}
		return n, nil
	})

	stream, err := client.NewPlayback(
		reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(sampleRate),
		pulse.PlaybackLatency(0.02),
		pulse.PlaybackMediaName("mediaosd feedback"),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("play feedback stream: %w", err)
	}
	return nil
}

func synthesize(parts []toneSpec) []int16 {
	gap := samplesForDuration(15 * time.Millisecond)
	var pcm []int16
	for i, part := range parts {
		pcm = append(pcm, synthesizeTone(part)...)
		if i < len(parts)-1 {
			pcm = append(pcm, make([]int16, gap)...)
		}
	}
	return pcm
}

func synthesizeTone(spec toneSpec) []int16 {
	n := samplesForDuration(spec.duration)
	if n <= 0 || spec.frequencyHz <= 0 || spec.volume <= 0 {
		return nil
	}

	// 5ms ramps keep the tone from clicking.
	ramp := min(n/10, sampleRate/200)
	ramp = max(ramp, 1)

	pcm := make([]int16, n)
	for i := 0; i < n; i++ {
		envelope := 1.0
		if i < ramp {
			envelope = float64(i) / float64(ramp)
		}
		if tail := n - i - 1; tail < ramp {
			envelope = min(envelope, float64(tail)/float64(ramp))
		}
		t := float64(i) / sampleRate
		pcm[i] = int16(math.Round(math.Sin(2*math.Pi*spec.frequencyHz*t) * spec.volume * envelope * 32767))
	}
	return pcm
}

func samplesForDuration(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * sampleRate))
}
