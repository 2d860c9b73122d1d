package analyzer

// Features describes one audio tick: overall loudness and the normalized
// amplitude-weighted average bin index, a coarse brightness indicator.
type Features struct {
	Amplitude float64 `json:"amplitude"`
	Centroid  float64 `json:"centroid"`
}
