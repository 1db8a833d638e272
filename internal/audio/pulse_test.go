package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPercentConversionRoundTrips(t *testing.T) {
	for pct := 0; pct <= 150; pct++ {
		require.Equal(t, uint8(pct), percentOf(fromPercent(uint8(pct))), "pct=%d", pct)
	}
	require.Equal(t, uint8(100), percentOf(volumeNorm))
	require.Equal(t, uint8(0), percentOf(0))
}

func TestAverageOfChannels(t *testing.T) {
	require.Equal(t, uint32(0), average([]uint32{}))
	require.Equal(t, uint32(volumeNorm/2), average([]uint32{0, volumeNorm}))
	require.Equal(t, uint32(7), average([]uint32{7, 7, 7}))
}

func TestSetAllChannels(t *testing.T) {
	volumes := []uint32{1, 2, 3}
	setAll(volumes, 42)
	require.Equal(t, []uint32{42, 42, 42}, volumes)
}

func TestNextVolume(t *testing.T) {
	tests := []struct {
		name    string
		current uint8
		delta   int
		want    uint8
		wantOK  bool
	}{
		{name: "raise", current: 40, delta: 5, want: 45, wantOK: true},
		{name: "lower", current: 40, delta: -5, want: 35, wantOK: true},
		{name: "raise clamps at full", current: 98, delta: 5, want: 100, wantOK: true},
		{name: "raise at full is a no-op", current: 100, delta: 5, want: 100, wantOK: false},
		{name: "raise above full is a no-op", current: 120, delta: 1, want: 120, wantOK: false},
		{name: "lower from above full", current: 120, delta: -10, want: 110, wantOK: true},
		{name: "lower clamps at zero", current: 3, delta: -10, want: 0, wantOK: true},
		{name: "zero delta", current: 50, delta: 0, want: 50, wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := nextVolume(tc.current, tc.delta)
			require.Equal(t, tc.wantOK, ok)
			require.Equal(t, tc.want, got)
		})
	}
}
