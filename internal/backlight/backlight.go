// Package backlight reads and adjusts screen brightness through brightnessctl.
package backlight

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Controller drives one backlight device. An empty Device lets brightnessctl pick.
type Controller struct {
	Device string
}

// Brightness returns the current level as a percentage of the device maximum.
func (c Controller) Brightness(ctx context.Context) (uint8, error) {
	out, err := c.run(ctx, "-m", "info")
	if err != nil {
		return 0, err
	}
	return parseMachineInfo(out)
}

// Adjust moves brightness by delta percent. Zero is a no-op.
func (c Controller) Adjust(ctx context.Context, delta int) error {
	if delta == 0 {
		return nil
	}
	_, err := c.run(ctx, "-q", "set", formatDelta(delta))
	return err
}

func (c Controller) run(ctx context.Context, args ...string) ([]byte, error) {
	if device := strings.TrimSpace(c.Device); device != "" {
		args = append([]string{"-d", device}, args...)
	}
	cmd := exec.CommandContext(ctx, "brightnessctl", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return nil, fmt.Errorf("brightnessctl %v failed: %w", args, err)
		}
		return nil, fmt.Errorf("brightnessctl %v failed: %w (%s)", args, err, trimmed)
	}
	return out, nil
}

// formatDelta renders brightnessctl's relative percent syntax, e.g. "5%+".
func formatDelta(delta int) string {
	if delta < 0 {
		return strconv.Itoa(-delta) + "%-"
	}
	return strconv.Itoa(delta) + "%+"
}

// parseMachineInfo reads the first line of `brightnessctl -m info`:
//
//	device,class,current,percent%,max
func parseMachineInfo(out []byte) (uint8, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) < 5 {
		return 0, fmt.Errorf("brightnessctl invalid machine output: %q", line)
	}

	current, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("brightnessctl parse current %q: %w", fields[2], err)
	}
	maximum, err := strconv.ParseUint(fields[4], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("brightnessctl parse max %q: %w", fields[4], err)
	}
	if maximum == 0 {
		return 0, fmt.Errorf("brightnessctl reported zero max brightness for %q", fields[0])
	}

	pct := (current*100 + maximum/2) / maximum
	if pct > 100 {
		pct = 100
	}
	return uint8(pct), nil
}
