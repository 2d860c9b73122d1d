//go:build !sdl

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvaldes/emoscape/internal/state"
)

func TestWindowBackendUnavailableWithoutBuildTag(t *testing.T) {
	r, err := New(40, 12, false)
	require.NoError(t, err)

	assert.False(t, SupportsWindow())
	assert.Error(t, r.OpenWindow("test"))
	assert.False(t, r.Windowed())
	assert.ErrorIs(t, r.RenderWindow(testEnvironment(), state.Snapshot{}, 0), ErrWindowClosed)
	r.CloseWindow()
}
