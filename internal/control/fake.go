package control

import (
	"context"
	"sync"
)

// Fake is an in-memory Executor that follows the same volume rules as System.
type Fake struct {
	mu sync.Mutex

	VolumeMute     bool
	MicrophoneMute bool
	VolumeLevel    uint8
	BrightnessPct  uint8

	// Err, when set, fails every call.
	Err   error
	Calls []string
}

func (f *Fake) record(call string) error {
	f.Calls = append(f.Calls, call)
	return f.Err
}

func (f *Fake) VolumeMuted(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.VolumeMute, f.record("volume-muted")
}

func (f *Fake) MicrophoneMuted(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.MicrophoneMute, f.record("microphone-muted")
}

func (f *Fake) Volume(context.Context) (uint8, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.VolumeLevel, f.record("volume")
}

func (f *Fake) Brightness(context.Context) (uint8, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.BrightnessPct, f.record("brightness")
}

func (f *Fake) ToggleVolumeMute(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("toggle-volume-mute"); err != nil {
		return err
	}
	f.VolumeMute = !f.VolumeMute
	return nil
}

func (f *Fake) ToggleMicrophoneMute(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("toggle-microphone-mute"); err != nil {
		return err
	}
	f.MicrophoneMute = !f.MicrophoneMute
	return nil
}

func (f *Fake) AdjustVolume(_ context.Context, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("adjust-volume"); err != nil {
		return err
	}
	f.VolumeMute = false
	if delta > 0 && f.VolumeLevel >= 100 {
		return nil
	}
	f.VolumeLevel = clampPercent(int(f.VolumeLevel) + delta)
	return nil
}

func (f *Fake) AdjustBrightness(_ context.Context, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("adjust-brightness"); err != nil {
		return err
	}
	f.BrightnessPct = clampPercent(int(f.BrightnessPct) + delta)
	return nil
}

func clampPercent(v int) uint8 {
	return uint8(max(0, min(v, 100)))
}
