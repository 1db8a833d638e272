package config

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rbright/mediaosd/internal/display"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	name := strings.TrimSpace(cfg.Session.Name)
	if name == "" {
		return nil, fmt.Errorf("session.name must not be empty")
	}
	if strings.ContainsRune(name, '/') {
		return nil, fmt.Errorf("session.name must not contain '/'")
	}
	if cfg.Session.Duration.Duration() < time.Millisecond {
		return nil, fmt.Errorf("session.duration must be at least 1ms (use a string such as \"2s\")")
	}
	if cfg.Session.ReadTimeout.Duration() <= 0 {
		return nil, fmt.Errorf("session.read_timeout must be > 0")
	}
	if cfg.Session.SendTimeout.Duration() <= 0 {
		return nil, fmt.Errorf("session.send_timeout must be > 0")
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Display.Backend))
	switch backend {
	case display.BackendHypr, display.BackendDesktop, display.BackendNone:
	case "":
		return nil, fmt.Errorf("display.backend must not be empty")
	default:
		return nil, fmt.Errorf("display.backend must be one of: hypr, desktop, none")
	}
	if backend == display.BackendDesktop && strings.TrimSpace(cfg.Display.AppName) == "" {
		return nil, fmt.Errorf("display.app_name must not be empty when display.backend=desktop")
	}
	if _, err := display.ParseColor(cfg.Display.Color); err != nil {
		return nil, fmt.Errorf("display.color: %w", err)
	}
	if cfg.Display.PollInterval.Duration() <= 0 {
		return nil, fmt.Errorf("display.poll_interval must be > 0")
	}
	if cfg.Display.PollInterval.Duration() >= cfg.Session.Duration.Duration() {
		warnings = append(warnings, Warning{Message: fmt.Sprintf(
			"display.poll_interval %s is not shorter than session.duration %s; refreshes may never be drawn",
			cfg.Display.PollInterval, cfg.Session.Duration,
		)})
	}
	if backend == display.BackendHypr && display.FontSize(cfg.Display.FontDescription) == 0 {
		warnings = append(warnings, Warning{Message: fmt.Sprintf(
			"display.font_description %q has no point size; using the compositor default",
			cfg.Display.FontDescription,
		)})
	}

	for key, glyph := range map[string]string{
		"progress.filled":      cfg.Progress.Filled,
		"progress.half_filled": cfg.Progress.HalfFilled,
		"progress.empty":       cfg.Progress.Empty,
	} {
		if utf8.RuneCountInString(glyph) != 1 {
			return nil, fmt.Errorf("%s must be exactly one character, got %q", key, glyph)
		}
	}

	return warnings, nil
}
