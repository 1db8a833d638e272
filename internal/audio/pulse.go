// Package audio reads and adjusts the output sink and input source through PulseAudio.
package audio

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

const (
	// volumeNorm is the Pulse channel volume that corresponds to 100%.
	volumeNorm = 0x10000
	// undefinedIndex selects a device by name rather than by index.
	undefinedIndex = 0xFFFFFFFF
)

// Options selects the devices a Mixer operates on. Empty names resolve to the server defaults.
type Options struct {
	Sink   string
	Source string
}

// Mixer owns one Pulse client connection.
type Mixer struct {
	client *pulse.Client

	mu     sync.Mutex
	sink   string
	source string
}

// Open connects to the Pulse server and resolves the configured devices.
func Open(_ context.Context, opts Options) (*Mixer, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("mediaosd"),
		pulse.ClientApplicationIconName("audio-volume-high"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}

	m := &Mixer{
		client: client,
		sink:   strings.TrimSpace(opts.Sink),
		source: strings.TrimSpace(opts.Source),
	}
	if m.sink == "" || m.sink == "default" {
		sink, err := client.DefaultSink()
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("read default sink: %w", err)
		}
		m.sink = sink.ID()
	}
	if m.source == "" || m.source == "default" {
		source, err := client.DefaultSource()
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("read default source: %w", err)
		}
		m.source = source.ID()
	}
	return m, nil
}

// Close releases the Pulse connection.
func (m *Mixer) Close() {
	if m == nil || m.client == nil {
		return
	}
	m.client.Close()
}

// SinkName returns the resolved output device.
func (m *Mixer) SinkName() string { return m.sink }

// SourceName returns the resolved input device.
func (m *Mixer) SourceName() string { return m.source }

// VolumeMuted reports the sink mute flag.
func (m *Mixer) VolumeMuted(_ context.Context) (bool, error) {
	info, err := m.sinkInfo()
	if err != nil {
		return false, err
	}
	return info.Mute, nil
}

// Volume reports the sink volume as a rounded percentage of the channel average.
func (m *Mixer) Volume(_ context.Context) (uint8, error) {
	info, err := m.sinkInfo()
	if err != nil {
		return 0, err
	}
	return percentOf(average(info.ChannelVolumes)), nil
}

// MicrophoneMuted reports the source mute flag.
func (m *Mixer) MicrophoneMuted(_ context.Context) (bool, error) {
	info, err := m.sourceInfo()
	if err != nil {
		return false, err
	}
	return info.Mute, nil
}

// ToggleVolumeMute flips the sink mute flag.
func (m *Mixer) ToggleVolumeMute(ctx context.Context) error {
	muted, err := m.VolumeMuted(ctx)
	if err != nil {
		return err
	}
	return m.setSinkMute(!muted)
}

// ToggleMicrophoneMute flips the source mute flag.
func (m *Mixer) ToggleMicrophoneMute(ctx context.Context) error {
	muted, err := m.MicrophoneMuted(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.client.RawRequest(&pulseproto.SetSourceMute{
		SourceIndex: undefinedIndex,
		SourceName:  m.source,
		Mute:        !muted,
	}, nil); err != nil {
		return fmt.Errorf("set source %q mute: %w", m.source, err)
	}
	return nil
}

// AdjustVolume unmutes the sink and moves every channel by delta percent.
// Raising an already full sink leaves it unchanged.
func (m *Mixer) AdjustVolume(_ context.Context, delta int) error {
	if err := m.setSinkMute(false); err != nil {
		return err
	}

	info, err := m.sinkInfo()
	if err != nil {
		return err
	}
	current := percentOf(average(info.ChannelVolumes))
	target, ok := nextVolume(current, delta)
	if !ok {
		return nil
	}

	volumes := append(pulseproto.ChannelVolumes(nil), info.ChannelVolumes...)
	setAll(volumes, fromPercent(target))

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.client.RawRequest(&pulseproto.SetSinkVolume{
		SinkIndex:      undefinedIndex,
		SinkName:       m.sink,
		ChannelVolumes: volumes,
	}, nil); err != nil {
		return fmt.Errorf("set sink %q volume: %w", m.sink, err)
	}
	return nil
}

func (m *Mixer) setSinkMute(mute bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.client.RawRequest(&pulseproto.SetSinkMute{
		SinkIndex: undefinedIndex,
		SinkName:  m.sink,
		Mute:      mute,
	}, nil); err != nil {
		return fmt.Errorf("set sink %q mute: %w", m.sink, err)
	}
	return nil
}

func (m *Mixer) sinkInfo() (*pulseproto.GetSinkInfoReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var reply pulseproto.GetSinkInfoReply
	if err := m.client.RawRequest(&pulseproto.GetSinkInfo{
		SinkIndex: undefinedIndex,
		SinkName:  m.sink,
	}, &reply); err != nil {
		return nil, fmt.Errorf("read sink %q: %w", m.sink, err)
	}
	return &reply, nil
}

func (m *Mixer) sourceInfo() (*pulseproto.GetSourceInfoReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var reply pulseproto.GetSourceInfoReply
	if err := m.client.RawRequest(&pulseproto.GetSourceInfo{
		SourceIndex: undefinedIndex,
		SourceName:  m.source,
	}, &reply); err != nil {
		return nil, fmt.Errorf("read source %q: %w", m.source, err)
	}
	return &reply, nil
}

// nextVolume applies delta to current and clamps the result to 0-100.
// ok is false when nothing should change.
func nextVolume(current uint8, delta int) (uint8, bool) {
	if delta == 0 {
		return current, false
	}
	if delta > 0 && current >= 100 {
		return current, false
	}
	target := int(current) + delta
	switch {
	case target < 0:
		target = 0
	case target > 100 && delta > 0:
		target = 100
	}
	return uint8(min(target, 255)), true
}

func average[T ~uint32](volumes []T) uint32 {
	if len(volumes) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range volumes {
		sum += uint64(v)
	}
	return uint32(sum / uint64(len(volumes)))
}

func setAll[T ~uint32](volumes []T, value uint32) {
	for i := range volumes {
		volumes[i] = T(value)
	}
}

func percentOf(volume uint32) uint8 {
	pct := (uint64(volume)*100 + volumeNorm/2) / volumeNorm
	if pct > 255 {
		return 255
	}
	return uint8(pct)
}

func fromPercent(pct uint8) uint32 {
	return uint32((uint64(pct)*volumeNorm + 50) / 100)
}
