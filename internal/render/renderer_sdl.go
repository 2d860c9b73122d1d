//go:build sdl

package render

import (
	"errors"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/mvaldes/emoscape/internal/blend"
	"github.com/mvaldes/emoscape/internal/state"
)

// ErrWindowClosed reports that the user closed the SDL window.
var ErrWindowClosed = errors.New("window closed")

type sdlState struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte
	width    int
	height   int
}

// OpenWindow initializes the SDL video backend. Terminal output is disabled
// while a window is open.
func (r *Renderer) OpenWindow(title string) error {
	if r.sdl != nil {
		return nil
	}
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return err
	}
	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(r.width*8), int32(r.height*16),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return err
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return err
	}
	_ = renderer.SetLogicalSize(int32(r.width), int32(r.height))

	r.sdl = &sdlState{window: window, renderer: renderer}
	r.useANSI = false
	return nil
}

// RenderWindow draws one environment frame into the SDL window.
func (r *Renderer) RenderWindow(env blend.Environment, snap state.Snapshot, t float64) error {
	s := r.sdl
	if s == nil {
		return errors.New("SDL window not open")
	}
	if err := s.ensureTexture(r.width, r.height); err != nil {
		return err
	}

	pitch := s.width * 4
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := r.sampleCell(x, y, env, t)
			offset := y*pitch + x*4
			s.pixels[offset+0] = byte(clamp01(c.r) * 255)
			s.pixels[offset+1] = byte(clamp01(c.g) * 255)
			s.pixels[offset+2] = byte(clamp01(c.b) * 255)
			s.pixels[offset+3] = 255
		}
	}

	if err := s.texture.Update(nil, s.pixels, pitch); err != nil {
		return err
	}
	if err := s.renderer.Clear(); err != nil {
		return err
	}
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return err
	}
	s.renderer.Present()
	_ = s.window.SetTitle(r.buildStatus(env, snap, 0))

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if _, ok := event.(*sdl.QuitEvent); ok {
			return ErrWindowClosed
		}
	}
	return nil
}

// CloseWindow releases the SDL resources.
func (r *Renderer) CloseWindow() {
	s := r.sdl
	if s == nil {
		return
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.QuitSubSystem(sdl.INIT_VIDEO)
	r.sdl = nil
}

// Windowed reports whether the SDL backend is active.
func (r *Renderer) Windowed() bool { return r.sdl != nil }

// SupportsWindow reports SDL availability in this build.
func SupportsWindow() bool { return true }

func (s *sdlState) ensureTexture(width, height int) error {
	if s.texture != nil && s.width == width && s.height == height {
		return nil
	}
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}
	tex, err := s.renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		int32(width), int32(height),
	)
	if err != nil {
		return err
	}
	s.texture = tex
	s.width = width
	s.height = height
	s.pixels = make([]byte, width*height*4)
	return nil
}
