// Package blend maps the shared controller state into continuous
// environment parameters: colors, wind and weather, audio playback rate and
// hand-driven movement. Every target is approached exponentially so an
// emotion transition never snaps on screen.
package blend

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mvaldes/emoscape/internal/config"
	"github.com/mvaldes/emoscape/internal/emotion"
	"github.com/mvaldes/emoscape/internal/smooth"
	"github.com/mvaldes/emoscape/internal/state"
)

// Environment is the continuously updated named-parameter set consumed by
// rendering and audio-output collaborators.
type Environment struct {
	BaseColor    mgl64.Vec3 `json:"baseColor"`
	TipColor     mgl64.Vec3 `json:"tipColor"`
	AmbientColor mgl64.Vec3 `json:"ambientColor"`
	WeatherColor mgl64.Vec3 `json:"weatherColor"`
	HaloColor    mgl64.Vec3 `json:"haloColor"`

	WindStrength float64 `json:"windStrength"`
	WeatherSpeed float64 `json:"weatherSpeed"`
	WeatherSway  float64 `json:"weatherSway"`
	WeatherSize  float64 `json:"weatherSize"`

	PlaybackRate float64 `json:"playbackRate"`

	Position mgl64.Vec2 `json:"position"`
	Heading  float64    `json:"heading"`
	Forward  float64    `json:"forward"`
}

// Blender holds the current environment and nudges it toward per-tick
// targets. It keeps no discrete state of its own; given the same previous
// output and the same targets it produces the same next output.
type Blender struct {
	cfg *config.Config
	env Environment

	controlX *smooth.EMA
	controlY *smooth.EMA
}

// New creates a Blender seeded from the calm profile so the first frames
// blend from sensible values instead of black.
func New(cfg *config.Config) *Blender {
	calm := cfg.Profile(emotion.Calm)
	b := &Blender{
		cfg:      cfg,
		controlX: smooth.NewEMA(cfg.ControlAlpha),
		controlY: smooth.NewEMA(cfg.ControlAlpha),
	}
	b.env = Environment{
		BaseColor:    calm.BaseColor.Vec3(),
		TipColor:     calm.TipColor.Vec3(),
		AmbientColor: calm.AmbientColor.Vec3(),
		WeatherColor: calm.WeatherColor.Vec3(),
		HaloColor:    calm.HaloColor.Vec3(),
		WeatherSpeed: calm.WeatherSpeed,
		WeatherSway:  calm.WeatherSway,
		WeatherSize:  calm.WeatherSize,
		WindStrength: cfg.BaseWind,
		PlaybackRate: 1.0,
	}
	return b
}

// Current returns the last blended environment.
func (b *Blender) Current() Environment {
	return b.env
}

// Step reads the snapshot, recomputes targets and advances the environment
// one tick. delta is the wall-clock frame time in seconds and only scales
// movement integration; blend factors are per-tick constants.
func (b *Blender) Step(snap state.Snapshot, delta float64) Environment {
	profile := b.cfg.Profile(snap.Emotion)
	k := b.cfg.BlendFactor

	b.env.BaseColor = lerpVec(b.env.BaseColor, profile.BaseColor.Vec3(), k)
	b.env.TipColor = lerpVec(b.env.TipColor, profile.TipColor.Vec3(), k)
	b.env.AmbientColor = lerpVec(b.env.AmbientColor, profile.AmbientColor.Vec3(), k)
	b.env.WeatherColor = lerpVec(b.env.WeatherColor, profile.WeatherColor.Vec3(), k)
	b.env.HaloColor = lerpVec(b.env.HaloColor, profile.HaloColor.Vec3(), k)

	b.env.WindStrength = b.cfg.BaseWind + snap.SoundAmplitude*b.cfg.WindGain
	b.env.WeatherSpeed = smooth.Lerp(b.env.WeatherSpeed, profile.WeatherSpeed, k)
	b.env.WeatherSway = smooth.Lerp(b.env.WeatherSway, profile.WeatherSway, k)
	b.env.WeatherSize = smooth.Lerp(b.env.WeatherSize, profile.WeatherSize, k)

	b.env.PlaybackRate += (profile.AudioRate - b.env.PlaybackRate) * k

	b.stepMovement(snap, profile, delta)

	return b.env
}

// Reset restores the session-start environment.
func (b *Blender) Reset() {
	*b = *New(b.cfg)
}

func (b *Blender) stepMovement(snap state.Snapshot, profile config.Profile, delta float64) {
	if delta < 0 {
		delta = 0
	}

	cx := b.controlX.Update(snap.HandX)
	cy := b.controlY.Update(snap.HandY)

	magnitude := math.Hypot(cx, cy)
	forward := 0.0
	if magnitude > b.cfg.Deadzone {
		span := 1 - b.cfg.Deadzone
		scaled := smooth.Clamp((magnitude-b.cfg.Deadzone)/span, 0, 1)
		forward = scaled * profile.MoveSpeed
		if snap.IsFist {
			forward = -forward
		}
	}
	turn := cx * b.cfg.TurnRate

	b.env.Forward = forward
	b.env.Heading += turn * delta

	dir := mgl64.Vec2{math.Sin(b.env.Heading), math.Cos(b.env.Heading)}
	b.env.Position = b.env.Position.Add(dir.Mul(forward * delta))

	// Keep the player inside the world disc.
	if r := b.env.Position.Len(); r > b.cfg.WorldRadius && r > 0 {
		b.env.Position = b.env.Position.Mul(b.cfg.WorldRadius / r)
	}
}

func lerpVec(current, target mgl64.Vec3, factor float64) mgl64.Vec3 {
	return current.Mul(1 - factor).Add(target.Mul(factor))
}
