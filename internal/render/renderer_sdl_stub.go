//go:build !sdl

package render

import (
	"errors"

	"github.com/mvaldes/emoscape/internal/blend"
	"github.com/mvaldes/emoscape/internal/state"
)

// ErrWindowClosed reports that the user closed the SDL window.
var ErrWindowClosed = errors.New("window closed")

type sdlState struct{}

// OpenWindow fails: this build has no SDL backend.
func (r *Renderer) OpenWindow(string) error {
	return errors.New("SDL backend not enabled; rebuild with -tags sdl")
}

// RenderWindow is unavailable without the sdl build tag.
func (r *Renderer) RenderWindow(blend.Environment, state.Snapshot, float64) error {
	return ErrWindowClosed
}

// CloseWindow is a no-op without the sdl build tag.
func (r *Renderer) CloseWindow() {}

// Windowed reports whether the SDL backend is active.
func (r *Renderer) Windowed() bool { return false }

// SupportsWindow reports SDL availability in this build.
func SupportsWindow() bool { return false }
