package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/lednode/lednode/cmd"
	"github.com/lednode/lednode/internal/api"
	"github.com/lednode/lednode/internal/button"
	"github.com/lednode/lednode/internal/command"
	"github.com/lednode/lednode/internal/config"
	"github.com/lednode/lednode/internal/device"
	"github.com/lednode/lednode/internal/effects"
	"github.com/lednode/lednode/internal/events"
	"github.com/lednode/lednode/internal/logging"
	"github.com/lednode/lednode/internal/loop"
	"github.com/lednode/lednode/internal/metrics"
	"github.com/lednode/lednode/internal/nats"
	"github.com/lednode/lednode/internal/palette"
	"github.com/lednode/lednode/internal/persist"
	"github.com/lednode/lednode/internal/render"
	"github.com/lednode/lednode/internal/strip"
	"github.com/lednode/lednode/internal/systemd"
	"github.com/lednode/lednode/internal/updater"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Address for the HTTP API" short:"p" default:":8080" toml:"server.port" env:"SERVER_PORT"`

	// Auth settings (empty username disables basic auth)
	AuthUsername string `help:"Basic auth username" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Strip settings
	LedCount    int    `help:"Number of pixels on the strip" default:"30" toml:"strip.count" env:"STRIP_COUNT"`
	GpioPin     int    `help:"Data GPIO pin for the strip" default:"18" toml:"strip.gpio_pin" env:"STRIP_GPIO_PIN"`
	StripDriver string `help:"Strip driver (auto, ws281x, noop)" default:"auto" toml:"strip.driver" env:"STRIP_DRIVER"`

	// Render settings
	FPS              int `help:"Effect frame rate" default:"40" toml:"render.fps" env:"RENDER_FPS"`
	EffectBrightness int `help:"Global effect brightness 0-255" default:"128" toml:"render.effect_brightness" env:"RENDER_EFFECT_BRIGHTNESS"`

	// Palette settings
	PalettePath string `help:"Path of the persisted palette record" default:"palette.bin" toml:"palette.path" env:"PALETTE_PATH"`

	// Button settings (-1 disables the button)
	ButtonChip string `help:"GPIO chip for the push button" default:"gpiochip0" toml:"button.chip" env:"BUTTON_CHIP"`
	ButtonPin  int    `help:"GPIO line for the push button" default:"-1" toml:"button.pin" env:"BUTTON_PIN"`

	// NATS settings (empty URL with embedded disabled turns NATS off)
	NatsURL           string `help:"NATS server URL" default:"" toml:"nats.url" env:"NATS_URL"`
	NatsEmbedded      bool   `help:"Run an embedded NATS server" default:"false" toml:"nats.embedded" env:"NATS_EMBEDDED"`
	NatsPort          int    `help:"Embedded NATS server port" default:"4222" toml:"nats.port" env:"NATS_PORT"`
	NatsMaxReconnects int    `help:"Reconnect attempts before the process gives up" default:"30" toml:"nats.max_reconnects" env:"NATS_MAX_RECONNECTS"`

	// Update settings
	UpdateRepository string `help:"GitHub repository for self-updates" default:"lednode/lednode" toml:"update.repository" env:"UPDATE_REPOSITORY"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingLoop    string `help:"Device loop logging level" default:"info" toml:"logging.loop" env:"LOGGING_LOOP"`
	LoggingRender  string `help:"Render logging level" default:"info" toml:"logging.render" env:"LOGGING_RENDER"`
	LoggingNats    string `help:"NATS logging level" default:"info" toml:"logging.nats" env:"LOGGING_NATS"`
	LoggingHTTP    string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingButton  string `help:"Button logging level" default:"info" toml:"logging.button" env:"LOGGING_BUTTON"`
	LoggingStrip   string `help:"Strip driver logging level" default:"info" toml:"logging.strip" env:"LOGGING_STRIP"`
	LoggingPersist string `help:"Persistence logging level" default:"info" toml:"logging.persist" env:"LOGGING_PERSIST"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		// Initialize logging system
		loggingConfig := logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"loop":    opts.LoggingLoop,
				"render":  opts.LoggingRender,
				"nats":    opts.LoggingNats,
				"http":    opts.LoggingHTTP,
				"button":  opts.LoggingButton,
				"strip":   opts.LoggingStrip,
				"persist": opts.LoggingPersist,
			},
		}
		logging.Initialize(loggingConfig)

		logger := logging.GetLogger("main")

		// Event bus for in-process state/palette/gesture events
		bus := events.New()

		// Strip driver, auto-detected on Raspberry Pi hardware
		driver := strip.New(strip.Config{
			Driver:  opts.StripDriver,
			GpioPin: opts.GpioPin,
			Count:   opts.LedCount,
		}, logging.GetLogger("strip"))

		// Load the persisted palette record. Corrupt or missing records are
		// reset and re-committed; the device then boots as if fresh.
		store := persist.NewFile(opts.PalettePath)
		record := persist.LoadOrReset(store, logging.GetLogger("persist"))

		// The runtime always boots off with zero indices; only the saved
		// palette survives a restart.
		state := &device.State{}
		pal := palette.New()
		pal.Restore(record.Slots, int(record.Count))
		metrics.SetPaletteEntries(pal.Count())

		registry := effects.NewRegistry(opts.LedCount)
		processor := command.NewProcessor(state, pal, store, registry, bus)
		navigator := button.NewNavigator(state, pal, registry)
		scheduler := render.NewScheduler(state, pal, registry, driver, render.Config{
			FPS:              opts.FPS,
			EffectBrightness: uint8(opts.EffectBrightness),
		})

		// Physical push button, optional
		var buttonSource *button.GPIOSource
		var gestures <-chan button.Gesture
		if opts.ButtonPin >= 0 {
			source, btnErr := button.NewGPIOSource(opts.ButtonChip, opts.ButtonPin)
			if btnErr != nil {
				logger.Warn("Button unavailable", "chip", opts.ButtonChip, "pin", opts.ButtonPin, "error", btnErr)
			} else {
				buttonSource = source
				gestures = source.Gestures()
			}
		}

		deviceLoop := loop.New(processor, navigator, scheduler, state, bus, gestures)
		unobserve := metrics.ObserveBus(bus)

		// Self-update service; stays registered but disabled when the binary
		// location is not writable
		updateService, updErr := updater.NewService(&updater.Options{
			Repository: opts.UpdateRepository,
		})
		if updErr != nil {
			logger.Warn("Update service unavailable", "error", updErr)
		}

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Loop:              deviceLoop,
			Effects:           registry,
			UpdateService:     updateService,
			PrometheusHandler: metrics.Handler(),
		})

		// Optional embedded NATS server for single-box installs
		var natsServer *nats.Server
		natsURL := opts.NatsURL
		if opts.NatsEmbedded {
			natsServer = nats.NewServer(nats.ServerOptions{Port: opts.NatsPort})
			if natsURL == "" {
				natsURL = natsServer.ClientURL()
			}
		}

		var natsClient *nats.Client
		if natsURL != "" {
			natsClient = nats.NewClient(nats.Options{
				URL:           natsURL,
				MaxReconnects: opts.NatsMaxReconnects,
			}, deviceLoop, bus)
		}

		// Live log-level reload on config file edits
		watcher := config.NewConfigWatcher(
			opts.Config,
			func(path string) (logging.Config, error) {
				return config.LoadLoggingConfig(path), nil
			},
			logging.GetLogger("config"),
		)
		watcher.OnReload(func(cfg logging.Config) {
			logging.Reconfigure(cfg)
		})

		loopCtx, stopLoop := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			go deviceLoop.Run(loopCtx)

			if natsServer != nil {
				if startErr := natsServer.Start(); startErr != nil {
					logger.Error("Failed to start embedded NATS server", "error", startErr)
					os.Exit(1)
				}
			}

			if natsClient != nil {
				if connErr := natsClient.Connect(); connErr != nil {
					logger.Error("Failed to connect to NATS", "error", connErr)
					os.Exit(1)
				}
				// An exhausted reconnect budget is fatal; the supervisor
				// restarts the process.
				go func() {
					if fatalErr := <-natsClient.Fatal(); fatalErr != nil {
						logger.Error("NATS connection lost", "error", fatalErr)
						os.Exit(1)
					}
				}()
			}

			if watchErr := watcher.Start(); watchErr != nil {
				logger.Warn("Config watcher disabled", "error", watchErr)
			}

			systemd.NotifyReady()

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			systemd.NotifyStopping()
			logger.Info("Shutting down")

			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			if natsClient != nil {
				natsClient.Close()
			}
			if natsServer != nil {
				natsServer.Stop()
			}

			if stopErr := watcher.Stop(); stopErr != nil {
				logger.Warn("Error stopping config watcher", "error", stopErr)
			}

			stopLoop()
			if buttonSource != nil {
				buttonSource.Close()
			}
			unobserve()

			if closeErr := driver.Close(); closeErr != nil {
				logger.Warn("Error closing strip driver", "error", closeErr)
			}
		})
	})

	// Add offline inspection and update commands
	cli.Root().AddCommand(cmd.CreateEffectsCmd())
	cli.Root().AddCommand(cmd.CreatePaletteCmd())
	cli.Root().AddCommand(cmd.CreateUpdateCmd())

	// Run the CLI
	cli.Run()
}
