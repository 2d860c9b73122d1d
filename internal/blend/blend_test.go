package blend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvaldes/emoscape/internal/config"
	"github.com/mvaldes/emoscape/internal/emotion"
	"github.com/mvaldes/emoscape/internal/state"
)

const tick = 1.0 / 60.0

func TestSustainedEmotionDrivesTargetsMonotonically(t *testing.T) {
	cfg := config.Default()
	b := New(cfg)
	happy := cfg.Profile(emotion.Happy)
	snap := state.Snapshot{Emotion: emotion.Happy}

	prevDist := math.Inf(1)
	prevRate := b.Current().PlaybackRate
	for i := 0; i < 600; i++ {
		env := b.Step(snap, tick)

		dist := env.BaseColor.Sub(happy.BaseColor.Vec3()).Len()
		assert.LessOrEqual(t, dist, prevDist, "color must approach target monotonically")
		prevDist = dist

		assert.GreaterOrEqual(t, env.PlaybackRate, prevRate, "rate must rise toward happy rate")
		assert.LessOrEqual(t, env.PlaybackRate, happy.AudioRate, "rate must not overshoot")
		prevRate = env.PlaybackRate
	}

	env := b.Current()
	assert.InDelta(t, happy.AudioRate, env.PlaybackRate, 1e-3)
	assert.InDelta(t, 0, env.BaseColor.Sub(happy.BaseColor.Vec3()).Len(), 1e-3)
	assert.InDelta(t, happy.WeatherSpeed, env.WeatherSpeed, 1e-3)
}

func TestEmotionBoundaryNeverSnaps(t *testing.T) {
	cfg := config.Default()
	b := New(cfg)
	for i := 0; i < 100; i++ {
		b.Step(state.Snapshot{Emotion: emotion.Sad}, tick)
	}
	before := b.Current().BaseColor
	after := b.Step(state.Snapshot{Emotion: emotion.Happy}, tick).BaseColor

	// One tick moves at most the blend fraction of the full gap.
	gap := cfg.Profile(emotion.Happy).BaseColor.Vec3().Sub(before).Len()
	moved := after.Sub(before).Len()
	assert.LessOrEqual(t, moved, gap*cfg.BlendFactor+1e-9)
}

func TestWindTracksAmplitude(t *testing.T) {
	cfg := config.Default()
	b := New(cfg)

	quiet := b.Step(state.Snapshot{}, tick).WindStrength
	assert.InDelta(t, cfg.BaseWind, quiet, 1e-9)

	loud := b.Step(state.Snapshot{SoundAmplitude: 1.0}, tick).WindStrength
	assert.InDelta(t, cfg.BaseWind+cfg.WindGain, loud, 1e-9)
}

func TestDeadzoneYieldsNoMovement(t *testing.T) {
	cfg := config.Default()
	b := New(cfg)
	snap := state.Snapshot{HandX: 0.05, HandY: 0.05}
	for i := 0; i < 200; i++ {
		env := b.Step(snap, tick)
		assert.Zero(t, env.Forward)
	}
	assert.Zero(t, b.Current().Position.Len())
}

func TestHandBeyondDeadzoneMovesForward(t *testing.T) {
	cfg := config.Default()
	b := New(cfg)
	snap := state.Snapshot{HandY: 0.8}
	var env Environment
	for i := 0; i < 120; i++ {
		env = b.Step(snap, tick)
	}
	assert.Positive(t, env.Forward)
	assert.Positive(t, env.Position.Len())
}

func TestFistReversesDirection(t *testing.T) {
	cfg := config.Default()
	forward := New(cfg)
	reverse := New(cfg)
	for i := 0; i < 120; i++ {
		forward.Step(state.Snapshot{HandY: 0.8}, tick)
		reverse.Step(state.Snapshot{HandY: 0.8, IsFist: true}, tick)
	}
	assert.Positive(t, forward.Current().Forward)
	assert.Negative(t, reverse.Current().Forward)
	assert.InDelta(t, forward.Current().Forward, -reverse.Current().Forward, 1e-9)
}

func TestPositionClampedToWorldRadius(t *testing.T) {
	cfg := config.Default()
	cfg.WorldRadius = 2
	b := New(cfg)
	snap := state.Snapshot{HandY: 1.0}
	for i := 0; i < 5000; i++ {
		b.Step(snap, tick)
	}
	assert.LessOrEqual(t, b.Current().Position.Len(), cfg.WorldRadius+1e-9)
}

func TestControlInputIsSmoothed(t *testing.T) {
	cfg := config.Default()
	b := New(cfg)
	// Prime with centered hand, then jump to full deflection: the first
	// tick must not see the full control magnitude.
	b.Step(state.Snapshot{}, tick)
	env := b.Step(state.Snapshot{HandY: 1.0}, tick)
	full := cfg.Profile(emotion.Calm).MoveSpeed
	require.Less(t, env.Forward, full*0.5)
}

func TestResetRestoresCalmEnvironment(t *testing.T) {
	cfg := config.Default()
	b := New(cfg)
	for i := 0; i < 200; i++ {
		b.Step(state.Snapshot{Emotion: emotion.Sad, HandY: 1}, tick)
	}
	b.Reset()
	fresh := New(cfg)
	assert.Equal(t, fresh.Current(), b.Current())
}
