// Package config loads the immutable visualizer configuration: per-emotion
// environment profiles, classification thresholds, smoothing factors and
// world geometry. The file is read once at session start and never
// hot-reloaded.
package config

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/viper"

	"github.com/mvaldes/emoscape/internal/emotion"
)

// Color is an RGB triple with components in [0,1].
type Color [3]float64

// Vec3 converts the color into a blendable vector.
func (c Color) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{c[0], c[1], c[2]}
}

// Profile describes the environment targets one emotion selects.
type Profile struct {
	BaseColor    Color   `mapstructure:"base_color"`
	TipColor     Color   `mapstructure:"tip_color"`
	AmbientColor Color   `mapstructure:"ambient_color"`
	WeatherColor Color   `mapstructure:"weather_color"`
	HaloColor    Color   `mapstructure:"halo_color"`
	WeatherSpeed float64 `mapstructure:"weather_speed"`
	WeatherSway  float64 `mapstructure:"weather_sway"`
	WeatherSize  float64 `mapstructure:"weather_size"`
	MoveSpeed    float64 `mapstructure:"move_speed"`
	AudioRate    float64 `mapstructure:"audio_rate"`
}

// Config is the full session configuration.
type Config struct {
	ParticleCount int `mapstructure:"particle_count"`
	InstanceCount int `mapstructure:"instance_count"`

	WorldRadius  float64 `mapstructure:"world_radius"`
	SphereRadius float64 `mapstructure:"sphere_radius"`

	MouthThreshold float64 `mapstructure:"mouth_threshold"`
	FistThreshold  float64 `mapstructure:"fist_threshold"`

	OpennessAlpha  float64 `mapstructure:"openness_alpha"`
	CurvatureAlpha float64 `mapstructure:"curvature_alpha"`
	AmplitudeAlpha float64 `mapstructure:"amplitude_alpha"`
	ControlAlpha   float64 `mapstructure:"control_alpha"`

	HappyBelow float64 `mapstructure:"happy_below"`
	SadAbove   float64 `mapstructure:"sad_above"`
	HoldFrames int     `mapstructure:"hold_frames"`

	BlendFactor float64 `mapstructure:"blend_factor"`
	BaseWind    float64 `mapstructure:"base_wind"`
	WindGain    float64 `mapstructure:"wind_gain"`

	Deadzone float64 `mapstructure:"deadzone"`
	TurnRate float64 `mapstructure:"turn_rate"`

	SpectrumBins int    `mapstructure:"spectrum_bins"`
	MusicSource  string `mapstructure:"music_source"`

	Profiles map[string]Profile `mapstructure:"profiles"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ParticleCount: 600,
		InstanceCount: 220,
		WorldRadius:   40,
		SphereRadius:  6,

		MouthThreshold: 0.35,
		FistThreshold:  0.35,

		OpennessAlpha:  0.15,
		CurvatureAlpha: 0.1,
		AmplitudeAlpha: 0.1,
		ControlAlpha:   0.12,

		HappyBelow: -0.06,
		SadAbove:   0.06,
		HoldFrames: 5,

		BlendFactor: 0.05,
		BaseWind:    0.2,
		WindGain:    1.4,

		Deadzone: 0.15,
		TurnRate: 1.6,

		SpectrumBins: 128,
		MusicSource:  "ambient.ogg",

		Profiles: map[string]Profile{
			emotion.Happy.String(): {
				BaseColor:    Color{0.95, 0.72, 0.25},
				TipColor:     Color{1.0, 0.9, 0.55},
				AmbientColor: Color{0.9, 0.8, 0.6},
				WeatherColor: Color{1.0, 0.95, 0.7},
				HaloColor:    Color{1.0, 0.85, 0.4},
				WeatherSpeed: 1.6,
				WeatherSway:  0.8,
				WeatherSize:  0.6,
				MoveSpeed:    4.5,
				AudioRate:    1.15,
			},
			emotion.Calm.String(): {
				BaseColor:    Color{0.25, 0.55, 0.4},
				TipColor:     Color{0.55, 0.85, 0.65},
				AmbientColor: Color{0.5, 0.65, 0.6},
				WeatherColor: Color{0.75, 0.85, 0.8},
				HaloColor:    Color{0.6, 0.8, 0.7},
				WeatherSpeed: 0.9,
				WeatherSway:  0.4,
				WeatherSize:  0.45,
				MoveSpeed:    3.0,
				AudioRate:    1.0,
			},
			emotion.Sad.String(): {
				BaseColor:    Color{0.2, 0.28, 0.5},
				TipColor:     Color{0.35, 0.45, 0.7},
				AmbientColor: Color{0.3, 0.35, 0.5},
				WeatherColor: Color{0.55, 0.6, 0.75},
				HaloColor:    Color{0.4, 0.45, 0.65},
				WeatherSpeed: 0.5,
				WeatherSway:  0.25,
				WeatherSize:  0.35,
				MoveSpeed:    2.0,
				AudioRate:    0.85,
			},
		},
	}
}

// Load reads the configuration from path, layered over the defaults. An
// empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("particle_count", cfg.ParticleCount)
	v.SetDefault("instance_count", cfg.InstanceCount)
	v.SetDefault("world_radius", cfg.WorldRadius)
	v.SetDefault("sphere_radius", cfg.SphereRadius)
	v.SetDefault("mouth_threshold", cfg.MouthThreshold)
	v.SetDefault("fist_threshold", cfg.FistThreshold)
	v.SetDefault("openness_alpha", cfg.OpennessAlpha)
	v.SetDefault("curvature_alpha", cfg.CurvatureAlpha)
	v.SetDefault("amplitude_alpha", cfg.AmplitudeAlpha)
	v.SetDefault("control_alpha", cfg.ControlAlpha)
	v.SetDefault("happy_below", cfg.HappyBelow)
	v.SetDefault("sad_above", cfg.SadAbove)
	v.SetDefault("hold_frames", cfg.HoldFrames)
	v.SetDefault("blend_factor", cfg.BlendFactor)
	v.SetDefault("base_wind", cfg.BaseWind)
	v.SetDefault("wind_gain", cfg.WindGain)
	v.SetDefault("deadzone", cfg.Deadzone)
	v.SetDefault("turn_rate", cfg.TurnRate)
	v.SetDefault("spectrum_bins", cfg.SpectrumBins)
	v.SetDefault("music_source", cfg.MusicSource)
}

// Validate rejects configurations the controller cannot run on.
func (c *Config) Validate() error {
	if c.WorldRadius <= 0 {
		return fmt.Errorf("world_radius must be positive (got %f)", c.WorldRadius)
	}
	if c.SpectrumBins < 16 {
		return fmt.Errorf("spectrum_bins too small (got %d)", c.SpectrumBins)
	}
	if c.Deadzone < 0 || c.Deadzone >= 1 {
		return fmt.Errorf("deadzone must be in [0,1) (got %f)", c.Deadzone)
	}
	if c.HoldFrames <= 0 {
		return fmt.Errorf("hold_frames must be positive (got %d)", c.HoldFrames)
	}
	if c.HappyBelow >= c.SadAbove {
		return fmt.Errorf("happy_below (%f) must sit below sad_above (%f)", c.HappyBelow, c.SadAbove)
	}
	for _, alpha := range []float64{c.OpennessAlpha, c.CurvatureAlpha, c.AmplitudeAlpha, c.ControlAlpha, c.BlendFactor} {
		if alpha <= 0 || alpha > 1 {
			return fmt.Errorf("smoothing factors must be in (0,1] (got %f)", alpha)
		}
	}
	for _, name := range []string{emotion.Happy.String(), emotion.Calm.String(), emotion.Sad.String()} {
		if _, ok := c.Profiles[name]; !ok {
			return fmt.Errorf("missing profile for %s", name)
		}
	}
	return nil
}

// Profile returns the environment profile for an emotion, falling back to
// calm when the lookup misses.
func (c *Config) Profile(e emotion.Emotion) Profile {
	if p, ok := c.Profiles[strings.ToLower(e.String())]; ok {
		return p
	}
	return c.Profiles[emotion.Calm.String()]
}
