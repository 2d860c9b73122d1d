// Package render is the bundled display consumer: it draws the blended
// environment as a colored terminal scene. An SDL window backend is
// available behind the sdl build tag.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mvaldes/emoscape/internal/blend"
	"github.com/mvaldes/emoscape/internal/state"
)

// Renderer converts an environment into terminal frames. It reads shared
// state once per frame and owns no controller fields.
type Renderer struct {
	width   int
	height  int
	palette []rune
	useANSI bool

	sdl *sdlState

	statusBuilder strings.Builder
}

// Frame contains the rendered lines and a status summary.
type Frame struct {
	Lines  []string
	Status string
}

// cell is one sampled scene point before backend-specific encoding.
type cell struct {
	glyph   rune
	r, g, b float64
}

var (
	resetANSI       = "\x1b[0m"
	precomputedANSI [256]string
)

func init() {
	for i := range precomputedANSI {
		precomputedANSI[i] = "\x1b[38;5;" + strconv.Itoa(i) + "m"
	}
}

// New creates a Renderer.
func New(width, height int, useANSI bool) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: width=%d height=%d", width, height)
	}
	return &Renderer{
		width:   width,
		height:  height,
		palette: scenePalette,
		useANSI: useANSI,
	}, nil
}

// Resize updates the framebuffer dimensions.
func (r *Renderer) Resize(width, height int) {
	if width > 0 {
		r.width = width
	}
	if height > 0 {
		r.height = height
	}
}

// Render draws one frame of the environment. t is the scene clock in
// seconds; it only moves while the session is unpaused, so a paused session
// renders identical frames.
func (r *Renderer) Render(env blend.Environment, snap state.Snapshot, t, fps float64) Frame {
	if r.width <= 0 || r.height <= 0 {
		return Frame{}
	}

	lines := make([]string, r.height)
	for y := 0; y < r.height; y++ {
		var builder strings.Builder
		builder.Grow(r.width * 8)
		lastColor := -1
		for x := 0; x < r.width; x++ {
			c := r.sampleCell(x, y, env, t)
			if r.useANSI {
				color := rgbToANSI(c.r, c.g, c.b)
				if color != lastColor {
					builder.WriteString(colorCode(color))
					lastColor = color
				}
			}
			builder.WriteRune(c.glyph)
		}
		if r.useANSI {
			builder.WriteString(resetANSI)
		}
		lines[y] = builder.String()
	}

	return Frame{
		Lines:  lines,
		Status: r.buildStatus(env, snap, fps),
	}
}

// sampleCell computes the glyph and color for one scene point. The upper
// band is sky lit by the ambient color, the lower band a field graded from
// base to tip color and swayed by the wind; weather particles overlay both.
func (r *Renderer) sampleCell(x, y int, env blend.Environment, t float64) cell {
	u := float64(x) / float64(r.width)
	v := float64(y) / float64(r.height)

	horizon := 0.42
	if v < horizon {
		return r.sampleSky(u, v/horizon, env, t)
	}
	return r.sampleField(u, (v-horizon)/(1-horizon), env, t)
}

func (r *Renderer) sampleSky(u, v float64, env blend.Environment, t float64) cell {
	glow := math.Max(0, 1-math.Hypot(u-0.5, v-0.35)*2.2)
	drift := 0.5 + 0.5*math.Sin(u*7+t*env.WeatherSpeed*0.6)

	color := scaleVec(env.AmbientColor, 0.25+0.35*v)
	color = addVec(color, scaleVec(env.HaloColor, glow*0.6))

	brightness := clamp01(0.15 + glow*0.5 + drift*0.1)
	c := r.glyphFor(brightness * 0.6)

	if r.isParticle(u, v*0.4, env, t) {
		color = env.WeatherColor
		c = particleGlyph(env.WeatherSize)
	}
	return cell{glyph: c, r: clamp01(color.X()), g: clamp01(color.Y()), b: clamp01(color.Z())}
}

func (r *Renderer) sampleField(u, v float64, env blend.Environment, t float64) cell {
	sway := math.Sin(u*9+t*env.WeatherSpeed+env.WeatherSway*math.Sin(t*0.7)) * env.WindStrength
	wave := 0.5 + 0.5*math.Sin(u*14+v*6+sway*3)

	color := lerpVec(env.BaseColor, env.TipColor, clamp01(wave*0.6+v*0.4))
	brightness := clamp01(0.3 + wave*0.5 + env.WindStrength*0.15)
	c := r.glyphFor(brightness)

	if r.isParticle(u, 0.4+v*0.6, env, t) {
		color = env.WeatherColor
		c = particleGlyph(env.WeatherSize)
	}
	return cell{glyph: c, r: clamp01(color.X()), g: clamp01(color.Y()), b: clamp01(color.Z())}
}

// isParticle scatters weather particles falling with the configured speed
// and drifting with the sway.
func (r *Renderer) isParticle(u, v float64, env blend.Environment, t float64) bool {
	const cells = 24.0
	column := math.Floor(u*cells + math.Sin(t*env.WeatherSway+u*3)*0.8)
	fall := math.Mod(v*cells+t*env.WeatherSpeed*2+hash1(column), cells)
	return fall < env.WeatherSize*1.2 && hash1(column*13.7) > 0.55
}

func (r *Renderer) glyphFor(brightness float64) rune {
	index := int(clamp01(brightness) * float64(len(r.palette)-1))
	return r.palette[index]
}

func (r *Renderer) buildStatus(env blend.Environment, snap state.Snapshot, fps float64) string {
	builder := &r.statusBuilder
	builder.Reset()
	builder.Grow(128)
	builder.WriteString(strings.ToUpper(snap.Emotion.String()))
	builder.WriteString(" | mouth ")
	appendFloat(builder, snap.MouthOpenness, 2)
	builder.WriteString(" amp ")
	appendFloat(builder, snap.SoundAmplitude, 2)
	builder.WriteString(" wind ")
	appendFloat(builder, env.WindStrength, 2)
	builder.WriteString(" rate ")
	appendFloat(builder, env.PlaybackRate, 2)
	if snap.IsFist {
		builder.WriteString(" FIST")
	}
	builder.WriteString(" | fps ")
	appendFloat(builder, fps, 1)
	return builder.String()
}

var scenePalette = []rune(" .,:;+*%#@")

func particleGlyph(size float64) rune {
	if size > 0.5 {
		return '*'
	}
	return '.'
}

func hash1(v float64) float64 {
	return frac(math.Sin(v*127.1) * 43758.5453123)
}

func frac(v float64) float64 {
	return v - math.Floor(v)
}

func colorCode(index int) string {
	if index < 0 {
		index = 0
	} else if index >= len(precomputedANSI) {
		index = len(precomputedANSI) - 1
	}
	return precomputedANSI[index]
}

func rgbToANSI(r, g, b float64) int {
	r = clamp01(r)
	g = clamp01(g)
	b = clamp01(b)

	// Grayscale ramp for near-neutral colors.
	if math.Abs(r-g) < 0.02 && math.Abs(g-b) < 0.02 {
		gray := int(math.Round(r * 23))
		return 232 + gray
	}

	ri := int(clamp01(r)*5 + 0.5)
	gi := int(clamp01(g)*5 + 0.5)
	bi := int(clamp01(b)*5 + 0.5)
	return 16 + 36*ri + 6*gi + bi
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

func addVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return a.Add(b)
}

func scaleVec(a mgl64.Vec3, s float64) mgl64.Vec3 {
	return a.Mul(s)
}

func appendFloat(builder *strings.Builder, value float64, precision int) {
	var buf [32]byte
	b := strconv.AppendFloat(buf[:0], value, 'f', precision, 64)
	builder.Write(b)
}
