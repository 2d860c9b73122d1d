package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSilenceYieldsZeroBins(t *testing.T) {
	s := NewSpectrum(128)
	bins := s.Bins(make([]float32, 256))
	assert.Len(t, bins, 128)
	for i, b := range bins {
		assert.Zerof(t, b, "bin %d", i)
	}
}

func TestEmptyInputYieldsZeroBins(t *testing.T) {
	s := NewSpectrum(128)
	for _, b := range s.Bins(nil) {
		assert.Zero(t, b)
	}
}

func TestSineConcentratesEnergyNearItsBin(t *testing.T) {
	const bins = 128
	s := NewSpectrum(bins)
	size := bins * 2

	// Bin k of a size-point FFT corresponds to k cycles per window.
	const cycles = 16
	samples := make([]float32, size)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * cycles * float64(i) / float64(size)))
	}

	out := s.Bins(samples)
	peak := 0
	for i := range out {
		if out[i] > out[peak] {
			peak = i
		}
	}
	assert.InDelta(t, cycles, peak, 1)
	assert.Greater(t, out[peak], byte(128))
}

func TestBinCountDefaultsWhenInvalid(t *testing.T) {
	s := NewSpectrum(0)
	assert.Len(t, s.Bins(nil), 128)
}
