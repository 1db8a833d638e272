package config

import (
	"unicode/utf8"

	"github.com/rbright/mediaosd/internal/audio"
	"github.com/rbright/mediaosd/internal/backlight"
	"github.com/rbright/mediaosd/internal/display"
	"github.com/rbright/mediaosd/internal/feedback"
	"github.com/rbright/mediaosd/internal/label"
	"github.com/rbright/mediaosd/internal/session"
)

// Bar returns the progress glyphs. Call after Validate.
func (p ProgressConfig) Bar() label.Bar {
	return label.Bar{
		Filled:     firstRune(p.Filled),
		HalfFilled: firstRune(p.HalfFilled),
		Empty:      firstRune(p.Empty),
	}
}

// DisplayOptions builds renderer options. The notification timeout covers the longest
// possible session so the backend never drops the label before the owner exits.
func (c Config) DisplayOptions() display.Options {
	color, err := display.ParseColor(c.Display.Color)
	if err != nil {
		color = display.Color{A: 0xff}
	}
	return display.Options{
		Backend:         c.Display.Backend,
		Color:           color,
		FontDescription: c.Display.FontDescription,
		AppName:         c.Display.AppName,
		Timeout:         c.Session.Duration.Duration() * (session.MaxCounter + 1),
	}
}

// AudioOptions selects the Pulse devices.
func (c Config) AudioOptions() audio.Options {
	return audio.Options{Sink: c.Audio.Sink, Source: c.Audio.Source}
}

// BacklightController builds the brightnessctl controller.
func (c Config) BacklightController() backlight.Controller {
	return backlight.Controller{Device: c.Backlight.Device}
}

// FeedbackPlayer builds the cue player, or nil when feedback is disabled.
func (c Config) FeedbackPlayer() *feedback.Player {
	if !c.Feedback.Enable {
		return nil
	}
	return &feedback.Player{File: c.Feedback.File}
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
