// Package control applies parsed actions to the audio and backlight devices.
package control

import (
	"context"
	"fmt"
	"sync"

	"github.com/rbright/mediaosd/internal/action"
	"github.com/rbright/mediaosd/internal/audio"
	"github.com/rbright/mediaosd/internal/backlight"
)

// Executor is the device contract an invocation needs: state queries for the label
// and the mutations behind each action kind.
type Executor interface {
	VolumeMuted(context.Context) (bool, error)
	MicrophoneMuted(context.Context) (bool, error)
	Volume(context.Context) (uint8, error)
	Brightness(context.Context) (uint8, error)

	ToggleVolumeMute(context.Context) error
	ToggleMicrophoneMute(context.Context) error
	AdjustVolume(ctx context.Context, delta int) error
	AdjustBrightness(ctx context.Context, delta int) error
}

// Perform applies a to ex.
func Perform(ctx context.Context, ex Executor, a action.Action) error {
	var err error
	switch a.Kind {
	case action.KindVolumeToggleMute:
		err = ex.ToggleVolumeMute(ctx)
	case action.KindMicrophoneToggleMute:
		err = ex.ToggleMicrophoneMute(ctx)
	case action.KindVolumeUp, action.KindVolumeDown:
		err = ex.AdjustVolume(ctx, a.Delta())
	case action.KindBrightnessUp, action.KindBrightnessDown:
		err = ex.AdjustBrightness(ctx, a.Delta())
	default:
		return fmt.Errorf("unsupported action %s", a)
	}
	if err != nil {
		return fmt.Errorf("perform %s: %w", a, err)
	}
	return nil
}

// System is the live Executor. The Pulse connection opens on first audio use so
// brightness-only invocations never touch the sound server.
type System struct {
	audioOpts audio.Options
	backlight backlight.Controller

	once     sync.Once
	mixer    *audio.Mixer
	mixerErr error
}

// NewSystem builds a System for the configured devices.
func NewSystem(audioOpts audio.Options, bl backlight.Controller) *System {
	return &System{audioOpts: audioOpts, backlight: bl}
}

// Close releases the Pulse connection when one was opened.
func (s *System) Close() {
	if s.mixer != nil {
		s.mixer.Close()
	}
}

func (s *System) audio(ctx context.Context) (*audio.Mixer, error) {
	s.once.Do(func() {
		s.mixer, s.mixerErr = audio.Open(ctx, s.audioOpts)
	})
	return s.mixer, s.mixerErr
}

func (s *System) VolumeMuted(ctx context.Context) (bool, error) {
	m, err := s.audio(ctx)
	if err != nil {
		return false, err
	}
	return m.VolumeMuted(ctx)
}

func (s *System) MicrophoneMuted(ctx context.Context) (bool, error) {
	m, err := s.audio(ctx)
	if err != nil {
		return false, err
	}
	return m.MicrophoneMuted(ctx)
}

func (s *System) Volume(ctx context.Context) (uint8, error) {
	m, err := s.audio(ctx)
	if err != nil {
		return 0, err
	}
	return m.Volume(ctx)
}

func (s *System) Brightness(ctx context.Context) (uint8, error) {
	return s.backlight.Brightness(ctx)
}

func (s *System) ToggleVolumeMute(ctx context.Context) error {
	m, err := s.audio(ctx)
	if err != nil {
		return err
	}
	return m.ToggleVolumeMute(ctx)
}

func (s *System) ToggleMicrophoneMute(ctx context.Context) error {
	m, err := s.audio(ctx)
	if err != nil {
		return err
	}
	return m.ToggleMicrophoneMute(ctx)
}

func (s *System) AdjustVolume(ctx context.Context, delta int) error {
	m, err := s.audio(ctx)
	if err != nil {
		return err
	}
	return m.AdjustVolume(ctx, delta)
}

func (s *System) AdjustBrightness(ctx context.Context, delta int) error {
	return s.backlight.Adjust(ctx, delta)
}
