//go:build !sdl

package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewSurfacesWindowUnavailability(t *testing.T) {
	_, err := New(Config{
		DisableTracker: true,
		DisableAudio:   true,
		UseWindow:      true,
		Log:            zerolog.Nop(),
	})
	assert.ErrorContains(t, err, "sdl")
}
