// Package analyzer extracts amplitude and spectral-centroid features from
// fixed-length frequency-bin snapshots on the audio tick.
package analyzer

import (
	"github.com/mvaldes/emoscape/internal/smooth"
)

// Extractor turns one frequency-domain snapshot per tick into smoothed
// audio features. It runs on the audio clock, fully decoupled from the
// vision pipeline.
type Extractor struct {
	amplitude *smooth.EMA
}

// Config controls Extractor behavior.
type Config struct {
	// AmplitudeAlpha is the EMA blend factor applied to the per-tick mean
	// amplitude before it reaches shared state.
	AmplitudeAlpha float64
}

// NewExtractor creates an Extractor with defaults for zero-valued config.
func NewExtractor(cfg Config) *Extractor {
	if cfg.AmplitudeAlpha <= 0 || cfg.AmplitudeAlpha > 1 {
		cfg.AmplitudeAlpha = 0.1
	}
	return &Extractor{
		amplitude: smooth.NewEMA(cfg.AmplitudeAlpha),
	}
}

// Analyze computes features for one snapshot of unsigned 8-bit magnitude
// bins. An empty or all-zero snapshot yields zero features without a
// division fault.
func (e *Extractor) Analyze(bins []byte) Features {
	if len(bins) == 0 {
		return Features{Amplitude: e.amplitude.Value()}
	}

	var sum, weighted float64
	for i, v := range bins {
		mag := float64(v)
		sum += mag
		weighted += float64(i) * mag
	}

	raw := sum / float64(len(bins)) / 255.0

	centroid := 0.0
	if sum > 0 {
		centroid = weighted / sum / float64(len(bins))
	}

	return Features{
		Amplitude: e.amplitude.Update(raw),
		Centroid:  smooth.Clamp(centroid, 0, 1),
	}
}

// Reset clears the amplitude filter at session start.
func (e *Extractor) Reset() {
	e.amplitude.Reset()
}
