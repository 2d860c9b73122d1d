package audio

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum converts time-domain samples into N unsigned 8-bit magnitude
// bins, one snapshot per audio tick. A Hann window is applied before the
// FFT; magnitudes are normalized by the window length and mapped onto a dB
// range so quiet input still produces usable bin values.
type Spectrum struct {
	bins   int
	buffer []complex128
	window []float64
	out    []byte
}

const (
	spectrumFloorDB = -90.0
	spectrumCeilDB  = -10.0
)

// NewSpectrum creates a Spectrum producing the given number of bins.
func NewSpectrum(bins int) *Spectrum {
	if bins <= 0 {
		bins = 128
	}
	size := bins * 2
	s := &Spectrum{
		bins:   bins,
		buffer: make([]complex128, size),
		window: make([]float64, size),
		out:    make([]byte, bins),
	}
	sizeF := float64(size)
	for i := range s.window {
		s.window[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/sizeF))
	}
	return s
}

// Bins returns the byte-magnitude snapshot for the provided mono samples.
// Too few samples are zero-padded; an empty slice yields all-zero bins. The
// returned slice is reused between calls.
func (s *Spectrum) Bins(samples []float32) []byte {
	size := len(s.buffer)
	for i := 0; i < size; i++ {
		if i < len(samples) {
			s.buffer[i] = complex(float64(samples[i])*s.window[i], 0)
		} else {
			s.buffer[i] = 0
		}
	}

	res := fft.FFT(s.buffer)

	norm := 2.0 / float64(size)
	for i := 0; i < s.bins; i++ {
		mag := cmag(res[i]) * norm
		s.out[i] = magToByte(mag)
	}
	return s.out
}

// magToByte maps a linear magnitude onto the 0..255 dB scale used by the
// feature extractor, with silence pinned to 0.
func magToByte(mag float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	if db <= spectrumFloorDB {
		return 0
	}
	if db >= spectrumCeilDB {
		return 255
	}
	scaled := (db - spectrumFloorDB) / (spectrumCeilDB - spectrumFloorDB)
	return byte(scaled * 255)
}

func cmag(c complex128) float64 {
	return math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
}
