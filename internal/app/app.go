// Package app owns the session runtime: one event loop that consumes
// tracking results, ticks the audio pipeline, blends the environment and
// drives the terminal display. All shared-state writes happen on this loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/mvaldes/emoscape/internal/analyzer"
	"github.com/mvaldes/emoscape/internal/audio"
	"github.com/mvaldes/emoscape/internal/blend"
	"github.com/mvaldes/emoscape/internal/config"
	"github.com/mvaldes/emoscape/internal/emotion"
	"github.com/mvaldes/emoscape/internal/landmark"
	"github.com/mvaldes/emoscape/internal/render"
	"github.com/mvaldes/emoscape/internal/smooth"
	"github.com/mvaldes/emoscape/internal/state"
	"github.com/mvaldes/emoscape/internal/tracking"
	"github.com/mvaldes/emoscape/internal/web"
)

const (
	audioTickInterval = 50 * time.Millisecond
	uiTickInterval    = 200 * time.Millisecond
)

// Config configures the session runtime.
type Config struct {
	App *config.Config

	TrackerURL     string
	DisableTracker bool
	DisableAudio   bool
	DeviceName     string

	Width         int
	Height        int
	TargetFPS     float64
	UseANSI       bool
	UseWindow     bool
	ShowStatusBar bool

	Web *web.Server
	Log zerolog.Logger
}

type inputEvent int

const (
	inputEventPause inputEvent = iota
	inputEventQuit
)

// Session ties together tracking, audio analysis, blending and rendering.
type Session struct {
	cfg Config
	log zerolog.Logger

	store      *state.Store
	classifier *emotion.Classifier
	openness   *smooth.EMA
	curvature  *smooth.EMA
	blender    *blend.Blender
	renderer   *render.Renderer

	tracker   tracking.Tracker
	capture   *audio.Capture
	spectrum  *audio.Spectrum
	extractor *analyzer.Extractor
	fake      *fakeSpectrum

	results     chan tracking.Result
	inputEvents chan inputEvent

	paused       bool
	pauseLatched bool
	pausedSnap   state.Snapshot
	sceneClock   float64
	last         time.Time
	deviceLabel  string
	width        int
	height       int
	renderHeight int
}

// New constructs the session from the provided configuration. Audio and
// tracking failures here are initialization failures and abort the session.
func New(cfg Config) (*Session, error) {
	if cfg.App == nil {
		cfg.App = config.Default()
	}
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = 20
	}
	if cfg.Width <= 0 {
		cfg.Width = 80
	}
	if cfg.Height <= 0 {
		cfg.Height = 24
	}
	renderHeight := cfg.Height
	if cfg.ShowStatusBar && renderHeight > 1 {
		renderHeight--
	}

	renderer, err := render.New(cfg.Width, renderHeight, cfg.UseANSI)
	if err != nil {
		return nil, err
	}
	if cfg.UseWindow {
		if err := renderer.OpenWindow("emoscape"); err != nil {
			return nil, fmt.Errorf("window: %w", err)
		}
	}

	appCfg := cfg.App
	s := &Session{
		cfg:          cfg,
		log:          cfg.Log.With().Str("component", "session").Logger(),
		store:        state.NewStore(),
		classifier: emotion.NewClassifier(emotion.Config{
			HappyBelow: appCfg.HappyBelow,
			SadAbove:   appCfg.SadAbove,
			HoldFrames: appCfg.HoldFrames,
		}),
		openness:     smooth.NewEMA(appCfg.OpennessAlpha),
		curvature:    smooth.NewEMA(appCfg.CurvatureAlpha),
		blender:      blend.New(appCfg),
		renderer:     renderer,
		results:      make(chan tracking.Result, 8),
		width:        cfg.Width,
		height:       cfg.Height,
		renderHeight: renderHeight,
	}

	if cfg.DisableTracker {
		s.tracker = tracking.NewSynthetic(0)
		s.log.Info().Msg("tracking disabled, using synthetic landmark generator")
	} else {
		s.tracker = tracking.NewWSClient(cfg.TrackerURL, cfg.Log)
	}
	if err := s.tracker.Configure(tracking.Options{
		MinFacePoints: landmark.MinFacePoints,
		MinHandPoints: landmark.MinHandPoints,
	}); err != nil {
		return nil, fmt.Errorf("tracking: %w", err)
	}
	s.tracker.OnResult(func(res tracking.Result) {
		// Stale frames are dropped; the loop only ever needs the latest.
		select {
		case s.results <- res:
		default:
		}
	})

	if cfg.DisableAudio {
		s.fake = newFakeSpectrum(appCfg.SpectrumBins)
		s.log.Info().Msg("audio disabled, using synthetic spectrum generator")
	} else {
		capture, err := audio.NewCapture(audio.Config{
			DeviceName: cfg.DeviceName,
			Channels:   1,
		})
		if err != nil {
			return nil, fmt.Errorf("audio capture: %w", err)
		}
		s.capture = capture
		s.spectrum = audio.NewSpectrum(appCfg.SpectrumBins)
		if info := capture.Device(); info != nil {
			s.deviceLabel = info.Name
			s.log.Info().Str("device", info.Name).Float64("rate", capture.SampleRate()).Msg("audio capture started")
		}
	}
	s.extractor = analyzer.NewExtractor(analyzer.Config{AmplitudeAlpha: appCfg.AmplitudeAlpha})

	s.last = time.Now()
	return s, nil
}

// Run starts the event loop until context cancellation or a quit key.
func (s *Session) Run(ctx context.Context) error {
	frameDuration := time.Duration(float64(time.Second) / s.cfg.TargetFPS)
	renderTicker := time.NewTicker(frameDuration)
	defer renderTicker.Stop()
	audioTicker := time.NewTicker(audioTickInterval)
	defer audioTicker.Stop()
	uiTicker := time.NewTicker(uiTickInterval)
	defer uiTicker.Stop()

	if err := s.tracker.Start(ctx); err != nil {
		return fmt.Errorf("tracking: %w", err)
	}

	if !s.renderer.Windowed() {
		enterAltScreen()
		clearScreen()
		hideCursor()
		defer func() {
			showCursor()
			exitAltScreen()
		}()
	}

	inputCtx, cancelInput := context.WithCancel(ctx)
	defer cancelInput()
	s.startInputListener(inputCtx)
	if !s.renderer.Windowed() {
		s.ensureDimensions()
	}

	for {
		select {
		case <-ctx.Done():
			moveCursorHome()
			return ctx.Err()
		case evt, ok := <-s.inputEvents:
			if !ok {
				s.inputEvents = nil
				continue
			}
			switch evt {
			case inputEventPause:
				s.paused = !s.paused
				s.log.Debug().Bool("paused", s.paused).Msg("pause toggled")
			case inputEventQuit:
				moveCursorHome()
				return nil
			}
		case res := <-s.results:
			s.applyVision(res)
		case <-audioTicker.C:
			s.stepAudio()
		case <-uiTicker.C:
			if s.cfg.Web != nil {
				s.cfg.Web.Publish(s.store.Snapshot(), s.blender.Current())
			}
		case <-renderTicker.C:
			if err := s.stepFrame(); err != nil {
				if errors.Is(err, render.ErrWindowClosed) {
					return nil
				}
				return err
			}
		}
	}
}

// Close releases held resources.
func (s *Session) Close() error {
	var first error
	s.renderer.CloseWindow()
	if s.tracker != nil {
		first = s.tracker.Close()
	}
	if s.capture != nil {
		if err := s.capture.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// applyVision folds one tracking delivery into shared state. Missing landmark
// sets hold the previous values; only present signals advance their filters.
func (s *Session) applyVision(res tracking.Result) {
	if mouth, ok := landmark.MouthMetrics(res.Face); ok {
		s.store.MouthOpenness = s.openness.Update(mouth.Openness)
		s.store.MouthCurvature = s.curvature.Update(mouth.Curvature)
		s.store.Emotion = s.classifier.Observe(s.store.MouthCurvature)
	}
	if hand, ok := landmark.HandMetrics(res.Hand, s.cfg.App.FistThreshold); ok {
		s.store.HandX = hand.X
		s.store.HandY = hand.Y
		s.store.IsFist = hand.IsFist
	}
}

// stepAudio runs one audio tick: latest samples into bins, bins into
// features, features into shared state.
func (s *Session) stepAudio() {
	var bins []byte
	switch {
	case s.capture != nil:
		bins = s.spectrum.Bins(s.capture.Samples())
	case s.fake != nil:
		bins = s.fake.Next(audioTickInterval.Seconds())
	default:
		return
	}

	features := s.extractor.Analyze(bins)
	s.store.SoundAmplitude = features.Amplitude
	s.store.SoundFrequency = features.Centroid
}

// advanceScene steps the blender and scene clock and returns what the frame
// should show. While paused nothing advances and the snapshot latched at
// pause time is reused, so consecutive paused frames are identical even
// though the audio and vision producers keep writing shared state.
func (s *Session) advanceScene(delta float64) (blend.Environment, state.Snapshot, float64) {
	if s.paused {
		if !s.pauseLatched {
			s.pausedSnap = s.store.Snapshot()
			s.pauseLatched = true
		}
		return s.blender.Current(), s.pausedSnap, s.sceneClock
	}
	s.pauseLatched = false

	snap := s.store.Snapshot()
	if delta > 0 {
		s.sceneClock += delta
	}
	s.blender.Step(snap, delta)
	return s.blender.Current(), snap, s.sceneClock
}

// renderFrame advances the scene and produces one terminal frame.
func (s *Session) renderFrame(delta float64) render.Frame {
	fps := s.cfg.TargetFPS
	if !s.paused && delta > 0 {
		fps = 1.0 / delta
	}
	env, snap, clock := s.advanceScene(delta)
	return s.renderer.Render(env, snap, clock, fps)
}

func (s *Session) stepFrame() error {
	now := time.Now()
	delta := now.Sub(s.last).Seconds()
	if delta <= 0 {
		delta = 1.0 / s.cfg.TargetFPS
	}
	s.last = now

	if s.renderer.Windowed() {
		env, snap, clock := s.advanceScene(delta)
		return s.renderer.RenderWindow(env, snap, clock)
	}

	s.ensureDimensions()
	frame := s.renderFrame(delta)
	statusText := frame.Status
	if s.paused {
		statusText = "PAUSED | " + statusText
	}
	if s.deviceLabel != "" {
		statusText = fmt.Sprintf("%s | mic=%s", statusText, s.deviceLabel)
	}

	moveCursorHome()
	for _, line := range frame.Lines {
		fmt.Println(line)
	}
	if s.cfg.ShowStatusBar {
		fmt.Println(statusBar(statusText, s.width))
	}
	return nil
}

func (s *Session) ensureDimensions() {
	fd := int(os.Stdout.Fd())
	if fd < 0 {
		return
	}
	w, h, err := term.GetSize(fd)
	if err != nil || w <= 0 || h <= 0 {
		return
	}

	renderHeight := h
	if s.cfg.ShowStatusBar && renderHeight > 1 {
		renderHeight--
	}
	if renderHeight <= 0 {
		renderHeight = 1
	}

	if w == s.width && h == s.height && renderHeight == s.renderHeight {
		return
	}

	s.width = w
	s.height = h
	s.renderHeight = renderHeight
	s.renderer.Resize(w, renderHeight)
}

func (s *Session) startInputListener(ctx context.Context) {
	if err := keyboard.Open(); err != nil {
		s.log.Warn().Err(err).Msg("keyboard input disabled")
		s.inputEvents = nil
		return
	}

	events := make(chan inputEvent, 16)
	s.inputEvents = events

	closeOnce := &sync.Once{}
	go func() {
		<-ctx.Done()
		closeOnce.Do(func() {
			_ = keyboard.Close()
		})
	}()

	go func() {
		defer close(events)
		defer closeOnce.Do(func() {
			_ = keyboard.Close()
		})
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			switch {
			case key == keyboard.KeyEsc || key == keyboard.KeyCtrlC:
				events <- inputEventQuit
				return
			case char == 'q' || char == 'Q':
				events <- inputEventQuit
				return
			case char == 'p' || char == 'P':
				select {
				case events <- inputEventPause:
				default:
				}
			}
		}
	}()
}

func statusBar(text string, width int) string {
	if width <= 0 {
		return text
	}
	if len(text) >= width {
		return text[:width]
	}
	return text + strings.Repeat(" ", width-len(text))
}

func clearScreen() {
	fmt.Print("\x1b[2J")
	moveCursorHome()
}

func moveCursorHome() {
	fmt.Print("\x1b[H")
}

func hideCursor() {
	fmt.Print("\x1b[?25l")
}

func showCursor() {
	fmt.Print("\x1b[?25h")
}

func enterAltScreen() {
	fmt.Print("\x1b[?1049h")
}

func exitAltScreen() {
	fmt.Print("\x1b[?1049l\x1b[0m")
}
