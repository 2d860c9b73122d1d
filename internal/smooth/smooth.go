// Package smooth provides exponential-moving-average filtering for noisy
// per-frame scalar features.
package smooth

// EMA nudges a running value toward each new sample by a fixed fraction.
// The first sample primes the filter directly so a fresh session does not
// ramp up from zero.
type EMA struct {
	alpha  float64
	value  float64
	primed bool
}

// NewEMA creates a filter with the given blend factor in (0,1].
func NewEMA(alpha float64) *EMA {
	if alpha <= 0 || alpha > 1 {
		alpha = 0.1
	}
	return &EMA{alpha: alpha}
}

// Update folds a new sample into the running value and returns it.
func (e *EMA) Update(sample float64) float64 {
	if !e.primed {
		e.value = sample
		e.primed = true
		return e.value
	}
	e.value = e.value*(1-e.alpha) + sample*e.alpha
	return e.value
}

// Value returns the current smoothed value without updating it.
func (e *EMA) Value() float64 {
	return e.value
}

// Alpha returns the configured blend factor.
func (e *EMA) Alpha() float64 {
	return e.alpha
}

// Reset clears the filter so the next sample primes it again.
func (e *EMA) Reset() {
	e.value = 0
	e.primed = false
}

// Lerp blends current toward target by factor and is the single-step
// equivalent of an EMA tick.
func Lerp(current, target, factor float64) float64 {
	return current*(1-factor) + target*factor
}

// Clamp bounds v to [minVal, maxVal].
func Clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
