package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvaldes/emoscape/internal/blend"
	"github.com/mvaldes/emoscape/internal/emotion"
	"github.com/mvaldes/emoscape/internal/state"
)

func testEnvironment() blend.Environment {
	return blend.Environment{
		BaseColor:    mgl64.Vec3{0.1, 0.4, 0.1},
		TipColor:     mgl64.Vec3{0.4, 0.8, 0.3},
		AmbientColor: mgl64.Vec3{0.2, 0.2, 0.4},
		WeatherColor: mgl64.Vec3{0.9, 0.9, 1.0},
		HaloColor:    mgl64.Vec3{1.0, 0.9, 0.6},
		WindStrength: 0.4,
		WeatherSpeed: 1.0,
		WeatherSway:  0.5,
		WeatherSize:  0.4,
		PlaybackRate: 1.0,
	}
}

func TestNewRejectsInvalidDimensions(t *testing.T) {
	_, err := New(0, 24, false)
	assert.Error(t, err)
	_, err = New(80, -1, false)
	assert.Error(t, err)
}

func TestRenderProducesRequestedDimensions(t *testing.T) {
	r, err := New(40, 12, false)
	require.NoError(t, err)

	frame := r.Render(testEnvironment(), state.Snapshot{}, 1.5, 30)
	require.Len(t, frame.Lines, 12)
	for _, line := range frame.Lines {
		assert.Len(t, []rune(line), 40)
	}
}

func TestRenderIsDeterministicForFixedClock(t *testing.T) {
	r, err := New(40, 12, true)
	require.NoError(t, err)

	env := testEnvironment()
	snap := state.Snapshot{Emotion: emotion.Happy}

	first := r.Render(env, snap, 3.25, 30)
	second := r.Render(env, snap, 3.25, 30)
	assert.Equal(t, first, second, "a frozen scene clock must render identical frames")
}

func TestRenderAdvancesWithClock(t *testing.T) {
	r, err := New(40, 12, false)
	require.NoError(t, err)

	env := testEnvironment()
	first := r.Render(env, state.Snapshot{}, 0.0, 30)
	second := r.Render(env, state.Snapshot{}, 2.0, 30)
	assert.NotEqual(t, first.Lines, second.Lines)
}

func TestStatusReportsEmotionAndFist(t *testing.T) {
	r, err := New(40, 12, false)
	require.NoError(t, err)

	snap := state.Snapshot{
		Emotion:        emotion.Sad,
		MouthOpenness:  0.31,
		SoundAmplitude: 0.52,
		IsFist:         true,
	}
	frame := r.Render(testEnvironment(), snap, 0, 29.97)

	assert.Contains(t, frame.Status, "SAD")
	assert.Contains(t, frame.Status, "FIST")
	assert.Contains(t, frame.Status, "amp 0.52")
	assert.Contains(t, frame.Status, "fps 30.0")
}

func TestResizeChangesFrameSize(t *testing.T) {
	r, err := New(40, 12, false)
	require.NoError(t, err)

	r.Resize(20, 6)
	frame := r.Render(testEnvironment(), state.Snapshot{}, 0, 30)
	require.Len(t, frame.Lines, 6)
	assert.Len(t, []rune(frame.Lines[0]), 20)
}

func TestRGBToANSIMapsExtremes(t *testing.T) {
	assert.Equal(t, 232, rgbToANSI(0, 0, 0))
	assert.Equal(t, 255, rgbToANSI(1, 1, 1))
	assert.Equal(t, 16+36*5, rgbToANSI(1, 0, 0))
	assert.Equal(t, 16+5, rgbToANSI(0, 0, 1))
}
