// Package action defines the control actions an invocation performs before it shows the OSD.
package action

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	KindVolumeToggleMute Kind = iota
	KindMicrophoneToggleMute
	KindVolumeUp
	KindVolumeDown
	KindBrightnessUp
	KindBrightnessDown
)

func (k Kind) String() string {
	switch k {
	case KindVolumeToggleMute:
		return "volume-toggle-mute"
	case KindMicrophoneToggleMute:
		return "microphone-toggle-mute"
	case KindVolumeUp:
		return "volume-up"
	case KindVolumeDown:
		return "volume-down"
	case KindBrightnessUp:
		return "brightness-up"
	case KindBrightnessDown:
		return "brightness-down"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Action is one parsed control request. Amount is only meaningful for up/down kinds.
type Action struct {
	Kind   Kind
	Amount uint8
}

func VolumeToggleMute() Action {
	return Action{Kind: KindVolumeToggleMute}
}

func MicrophoneToggleMute() Action {
	return Action{Kind: KindMicrophoneToggleMute}
}

func VolumeUp(n uint8) Action {
	return Action{Kind: KindVolumeUp, Amount: n}
}

func VolumeDown(n uint8) Action {
	return Action{Kind: KindVolumeDown, Amount: n}
}

func BrightnessUp(n uint8) Action {
	return Action{Kind: KindBrightnessUp, Amount: n}
}

func BrightnessDown(n uint8) Action {
	return Action{Kind: KindBrightnessDown, Amount: n}
}

// IsVolumeKind reports whether the action reports audio state rather than backlight state.
func (a Action) IsVolumeKind() bool {
	switch a.Kind {
	case KindVolumeToggleMute, KindMicrophoneToggleMute, KindVolumeUp, KindVolumeDown:
		return true
	default:
		return false
	}
}

// Delta returns the signed adjustment applied by up/down actions, zero otherwise.
func (a Action) Delta() int {
	switch a.Kind {
	case KindVolumeUp, KindBrightnessUp:
		return int(a.Amount)
	case KindVolumeDown, KindBrightnessDown:
		return -int(a.Amount)
	default:
		return 0
	}
}

func (a Action) String() string {
	switch a.Kind {
	case KindVolumeUp, KindVolumeDown, KindBrightnessUp, KindBrightnessDown:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Amount)
	default:
		return a.Kind.String()
	}
}

// Parse reads the positional action grammar:
//
//	v mute | m mute | v up|down N | b up|down N
func Parse(args []string) (Action, error) {
	switch len(args) {
	case 2:
		target, verb := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
		if verb != "mute" {
			return Action{}, fmt.Errorf("unknown action %q", strings.Join(args, " "))
		}
		switch target {
		case "v":
			return VolumeToggleMute(), nil
		case "m":
			return MicrophoneToggleMute(), nil
		default:
			return Action{}, fmt.Errorf("mute is not supported for target %q", target)
		}
	case 3:
		amount, err := strconv.ParseUint(strings.TrimSpace(args[2]), 10, 8)
		if err != nil {
			return Action{}, fmt.Errorf("invalid amount %q: must be 0-255", args[2])
		}
		n := uint8(amount)
		switch strings.TrimSpace(args[0]) + " " + strings.TrimSpace(args[1]) {
		case "v up":
			return VolumeUp(n), nil
		case "v down":
			return VolumeDown(n), nil
		case "b up":
			return BrightnessUp(n), nil
		case "b down":
			return BrightnessDown(n), nil
		default:
			return Action{}, fmt.Errorf("unknown action %q", strings.Join(args, " "))
		}
	default:
		return Action{}, fmt.Errorf("expected 2 or 3 action arguments, got %d", len(args))
	}
}
