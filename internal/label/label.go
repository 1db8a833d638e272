// Package label renders the status text shown by the OSD after an action.
package label

import (
	"context"
	"fmt"
	"strings"

	"github.com/rbright/mediaosd/internal/action"
)

const barCells = 10

// Bar holds the progress bar glyphs.
type Bar struct {
	Filled     rune
	HalfFilled rune
	Empty      rune
}

// DefaultBar is the block-glyph bar.
func DefaultBar() Bar {
	return Bar{Filled: '█', HalfFilled: '▌', Empty: ' '}
}

// Source is the state query subset of the action executor.
type Source interface {
	VolumeMuted(context.Context) (bool, error)
	MicrophoneMuted(context.Context) (bool, error)
	Volume(context.Context) (uint8, error)
	Brightness(context.Context) (uint8, error)
}

// For computes the post-action label for a.
func For(ctx context.Context, src Source, a action.Action, bar Bar) (string, error) {
	if a.Kind == action.KindMicrophoneToggleMute {
		muted, err := src.MicrophoneMuted(ctx)
		if err != nil {
			return "", fmt.Errorf("query microphone mute: %w", err)
		}
		if muted {
			return "MIC OFF", nil
		}
		return "MIC ON", nil
	}

	if !a.IsVolumeKind() {
		brightness, err := src.Brightness(ctx)
		if err != nil {
			return "", fmt.Errorf("query brightness: %w", err)
		}
		return "BRT: " + Progress(brightness, bar), nil
	}

	muted, err := src.VolumeMuted(ctx)
	if err != nil {
		return "", fmt.Errorf("query volume mute: %w", err)
	}
	if muted {
		return "MUTED", nil
	}
	volume, err := src.Volume(ctx)
	if err != nil {
		return "", fmt.Errorf("query volume: %w", err)
	}
	return "VOL: " + Progress(volume, bar), nil
}

// Progress draws a ten-cell bar followed by the right-aligned percentage.
// Values above 100 are clamped.
func Progress(percentage uint8, bar Bar) string {
	if percentage > 100 {
		percentage = 100
	}

	filled := int(percentage) / 10
	var b strings.Builder
	b.WriteString(strings.Repeat(string(bar.Filled), filled))
	if percentage != 100 {
		// Remainders of 1 through 5 within a decade draw the half cell.
		rem := percentage % 10
		if rem > 0 && rem <= 5 {
			b.WriteRune(bar.HalfFilled)
		} else {
			b.WriteRune(bar.Empty)
		}
	}
	if empty := barCells - filled - 1; empty > 0 {
		b.WriteString(strings.Repeat(string(bar.Empty), empty))
	}
	fmt.Fprintf(&b, "%4d%%", percentage)
	return b.String()
}
