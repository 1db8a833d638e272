package display

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGBA value parsed from #RRGGBB or #RRGGBBAA.
type Color struct {
	R, G, B, A uint8
}

// ParseColor reads a hex color. A missing alpha channel means opaque.
func ParseColor(hex string) (Color, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		return Color{}, fmt.Errorf("invalid color %q: must start with #", hex)
	}
	s = s[1:]
	if len(s) != 6 && len(s) != 8 {
		return Color{}, fmt.Errorf("invalid color %q: expected #RRGGBB or #RRGGBBAA", hex)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// Hex renders the color as #RRGGBBAA.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// Hypr renders the color in hyprctl's rgba() syntax.
func (c Color) Hypr() string {
	return fmt.Sprintf("rgba(%02x%02x%02x%02x)", c.R, c.G, c.B, c.A)
}

func (c Color) String() string { return c.Hex() }
