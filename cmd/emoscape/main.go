package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/mvaldes/emoscape/internal/app"
	"github.com/mvaldes/emoscape/internal/audio"
	"github.com/mvaldes/emoscape/internal/config"
	"github.com/mvaldes/emoscape/internal/render"
	"github.com/mvaldes/emoscape/internal/web"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to a YAML configuration file (empty uses built-in defaults)")
		trackerURL = flag.String("tracker-url", "ws://127.0.0.1:9004/landmarks", "Websocket URL of the landmark tracking service")
		noTracker  = flag.Bool("no-tracker", false, "Run with synthetic landmarks (for testing)")
		noAudio    = flag.Bool("no-audio", false, "Run with a synthetic spectrum (for testing)")
		deviceName = flag.String("audio-device", "", "Optional PortAudio input device name (substring match)")
		listDevs   = flag.Bool("list-audio-devices", false, "List available audio input devices and exit")
		width      = flag.Int("width", 80, "Terminal frame width")
		height     = flag.Int("height", 24, "Terminal frame height")
		targetFPS  = flag.Float64("fps", 30, "Target frames per second")
		port       = flag.Int("port", 8080, "Status server port (0 disables it)")
		showStatus = flag.Bool("status", true, "Display status bar")
		window     = flag.Bool("window", false, "Render into an SDL window instead of the terminal (requires a build with -tags sdl)")
		noColor    = flag.Bool("no-color", false, "Disable ANSI color output")
		debug      = flag.Bool("debug", false, "Enable verbose logging")
	)

	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	if *debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	if *width <= 0 || *height <= 0 {
		logger.Fatal().Int("width", *width).Int("height", *height).Msg("invalid dimensions")
	}
	if *targetFPS <= 0 {
		logger.Fatal().Float64("fps", *targetFPS).Msg("fps must be positive")
	}
	if *window && !render.SupportsWindow() {
		logger.Fatal().Msg("this build has no SDL backend; rebuild with -tags sdl")
	}

	if fd := int(os.Stdout.Fd()); fd >= 0 {
		if w, h, err := term.GetSize(fd); err == nil {
			if w > 0 {
				*width = w
			}
			if h > 0 {
				*height = h
			}
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	needAudio := !*noAudio || *listDevs
	if needAudio {
		if err := audio.Initialize(); err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize PortAudio")
		}
		defer audio.Terminate()
	}

	if *listDevs {
		devices, err := audio.ListInputDevices()
		if err != nil {
			logger.Fatal().Err(err).Msg("list devices")
		}
		fmt.Printf("\n=== Audio Input Devices ===\n\n")
		for _, dev := range devices {
			marker := ""
			if dev.IsDefaultInput {
				marker = " (default)"
			}
			fmt.Printf("- %s [%s]%s\n    inputs:%d sample:%.0f Hz\n",
				dev.Name, dev.HostAPI, marker, dev.InputChannels, dev.SampleRateHz)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	var server *web.Server
	if *port > 0 {
		server = web.NewServer(cfg, logger)
		go func() {
			if err := server.Start(ctx, *port); err != nil {
				logger.Error().Err(err).Msg("status server stopped")
			}
		}()
	}

	session, err := app.New(app.Config{
		App:            cfg,
		TrackerURL:     *trackerURL,
		DisableTracker: *noTracker,
		DisableAudio:   *noAudio,
		DeviceName:     *deviceName,
		Width:          *width,
		Height:         *height,
		TargetFPS:      *targetFPS,
		UseANSI:        !*noColor,
		UseWindow:      *window,
		ShowStatusBar:  *showStatus,
		Web:            server,
		Log:            logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create session")
	}
	defer func() {
		if err := session.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "cleanup error: %v\n", err)
		}
	}()

	if err := session.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("\nExiting...")
			return
		}
		logger.Fatal().Err(err).Msg("runtime error")
	}

	time.Sleep(50 * time.Millisecond)
}
