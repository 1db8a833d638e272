package display

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/rbright/mediaosd/internal/hypr"
	"github.com/rbright/mediaosd/internal/notify"
)

// Backend names accepted by New.
const (
	BackendHypr    = "hypr"
	BackendDesktop = "desktop"
	BackendNone    = "none"
)

// Renderer puts a label on screen and takes it down again.
type Renderer interface {
	Render(ctx context.Context, label string) error
	Clear(ctx context.Context) error
}

// Options configures the backend renderers.
type Options struct {
	Backend         string
	Color           Color
	FontDescription string
	AppName         string
	// Timeout is how long the backend keeps a notification alive without a re-render.
	Timeout time.Duration
}

// New builds the renderer for opts.Backend.
func New(opts Options) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendHypr:
		return &HyprRenderer{
			Color:    opts.Color,
			FontSize: FontSize(opts.FontDescription),
			Timeout:  opts.Timeout,
		}, nil
	case BackendDesktop:
		n, err := notify.Connect(opts.AppName)
		if err != nil {
			return nil, err
		}
		return &DesktopRenderer{Notifier: n, Color: opts.Color, AppName: opts.AppName, Timeout: opts.Timeout}, nil
	case BackendNone:
		return NopRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown display backend %q", opts.Backend)
	}
}

// HyprRenderer shows the label as a Hyprland notification.
type HyprRenderer struct {
	Color    Color
	FontSize int
	Timeout  time.Duration
}

func (r *HyprRenderer) Render(ctx context.Context, label string) error {
	// hyprctl notify stacks, so the previous label is dismissed first.
	if err := hypr.DismissNotify(ctx); err != nil {
		return err
	}
	text := label
	if r.FontSize > 0 {
		text = "fontsize:" + strconv.Itoa(r.FontSize) + " " + label
	}
	return hypr.Notify(ctx, hypr.NoIcon, int(r.Timeout.Milliseconds()), r.Color.Hypr(), text)
}

func (r *HyprRenderer) Clear(ctx context.Context) error {
	return hypr.DismissNotify(ctx)
}

// DesktopRenderer shows the label as a transient freedesktop notification replaced in place.
type DesktopRenderer struct {
	Notifier *notify.Notifier
	Color    Color
	AppName  string
	Timeout  time.Duration
}

func (r *DesktopRenderer) Render(ctx context.Context, label string) error {
	hints := map[string]dbus.Variant{
		"transient":                       dbus.MakeVariant(true),
		"urgency":                         dbus.MakeVariant(byte(0)),
		"x-canonical-private-synchronous": dbus.MakeVariant(r.AppName),
		"x-dunst-stack-tag":               dbus.MakeVariant(r.AppName),
		"bgcolor":                         dbus.MakeVariant(r.Color.Hex()),
	}
	if pct, ok := Percentage(label); ok {
		hints["value"] = dbus.MakeVariant(int32(pct))
	}
	return r.Notifier.Show(ctx, label, hints, r.Timeout)
}

func (r *DesktopRenderer) Clear(ctx context.Context) error {
	return r.Notifier.Close(ctx)
}

// NopRenderer draws nothing. Useful on headless hosts where only stdout matters.
type NopRenderer struct{}

func (NopRenderer) Render(context.Context, string) error { return nil }
func (NopRenderer) Clear(context.Context) error          { return nil }

// FontSize extracts the trailing point size from a Pango-style description such as "Monospace 13".
func FontSize(description string) int {
	fields := strings.Fields(description)
	if len(fields) == 0 {
		return 0
	}
	size, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || size <= 0 {
		return 0
	}
	return size
}

// Percentage reads the trailing "NN%" of a progress label.
func Percentage(label string) (int, bool) {
	trimmed := strings.TrimSpace(label)
	if !strings.HasSuffix(trimmed, "%") {
		return 0, false
	}
	fields := strings.Fields(strings.TrimSuffix(trimmed, "%"))
	if len(fields) == 0 {
		return 0, false
	}
	last := fields[len(fields)-1]
	// The bar glyphs may run into the number when the percentage has three digits.
	start := len(last)
	for start > 0 && last[start-1] >= '0' && last[start-1] <= '9' {
		start--
	}
	pct, err := strconv.Atoi(last[start:])
	if err != nil {
		return 0, false
	}
	return pct, true
}
