package app

import (
	"math"
	"math/rand"
	"time"
)

// fakeSpectrum synthesizes frequency-bin snapshots so the full audio
// pipeline runs without a microphone: a slow amplitude swell, a wandering
// spectral peak and a little noise.
type fakeSpectrum struct {
	rng       *rand.Rand
	bins      []byte
	phaseAmp  float64
	phasePeak float64
}

func newFakeSpectrum(bins int) *fakeSpectrum {
	if bins <= 0 {
		bins = 128
	}
	return &fakeSpectrum{
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		bins: make([]byte, bins),
	}
}

// Next produces one synthetic snapshot. The returned slice is reused.
func (f *fakeSpectrum) Next(delta float64) []byte {
	f.phaseAmp += delta * 0.4
	f.phasePeak += delta * 0.15

	level := 0.35 + 0.3*math.Sin(f.phaseAmp)
	peak := (0.5 + 0.35*math.Sin(f.phasePeak)) * float64(len(f.bins))
	width := float64(len(f.bins)) * 0.12

	for i := range f.bins {
		d := (float64(i) - peak) / width
		mag := level * math.Exp(-d*d)
		mag += f.rng.Float64() * 0.03
		if mag < 0 {
			mag = 0
		}
		if mag > 1 {
			mag = 1
		}
		f.bins[i] = byte(mag * 255)
	}
	return f.bins
}
