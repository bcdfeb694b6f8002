// paneld polls a Kodi instance over JSON-RPC and renders an info
// display for a small panel, with touch-cycled layout variants.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/mediapanel/internal/artwork"
	"github.com/genricoloni/mediapanel/internal/backlight"
	"github.com/genricoloni/mediapanel/internal/config"
	"github.com/genricoloni/mediapanel/internal/display"
	"github.com/genricoloni/mediapanel/internal/domain"
	"github.com/genricoloni/mediapanel/internal/engine"
	"github.com/genricoloni/mediapanel/internal/input"
	"github.com/genricoloni/mediapanel/internal/kodi"
	"github.com/genricoloni/mediapanel/internal/mode"
	"github.com/genricoloni/mediapanel/internal/render"
	"github.com/genricoloni/mediapanel/internal/snapshot"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var (
	configPath string
	demoMode   bool
	demoFrame  string
	fbDevice   string
	debugLog   bool
)

var rootCmd = &cobra.Command{
	Use:   "paneld",
	Short: "Media info panel daemon for Kodi",
	Long: "paneld polls a Kodi instance and renders now-playing info, cover art\n" +
		"and progress onto a small display, cycling layouts on touch.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "setup.toml", "path to the panel configuration")
	rootCmd.Flags().BoolVar(&demoMode, "demo", false, "render to a PNG file and take presses from stdin")
	rootCmd.Flags().StringVar(&demoFrame, "frame", "panel.png", "output file for --demo frames")
	rootCmd.Flags().StringVar(&fbDevice, "fb", "/dev/fb0", "framebuffer device")
	rootCmd.Flags().BoolVar(&debugLog, "debug", false, "verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	app := fx.New(
		AppOptions,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	return app.Stop(context.Background())
}

// AppOptions is the full dependency graph, shared with the tests.
var AppOptions = fx.Options(
	fx.Provide(
		newLogger,
		snapshot.NewRegistry,
		newConfig,
		newQuerier,
		newFetcher,
		newArtCache,
		newFonts,
		newResolver,
		render.NewRenderer,
		newBuilder,
		mode.NewController,
		newDisplay,
		newSource,
		newBacklight,
		engine.NewEngine,
	),
	fx.Invoke(registerHooks),
)

// newLogger creates the zap logger instance
func newLogger() (*zap.Logger, error) {
	if debugLog {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newConfig loads and validates the panel configuration.
func newConfig(registry *snapshot.Registry) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	env := config.NewEnv(snapshot.KnownKeys(cfg.Info.ExtraKeys), registry.Names())
	if err := cfg.Validate(env); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newQuerier(logger *zap.Logger, cfg *config.Config) domain.Querier {
	return kodi.NewClient(logger, cfg.RPCAddr, cfg.BaseURL)
}

func newFetcher(logger *zap.Logger) domain.Fetcher {
	return artwork.NewHTTPFetcher(logger)
}

func newArtCache(logger *zap.Logger, querier domain.Querier, fetcher domain.Fetcher, cfg *config.Config) *artwork.Cache {
	return artwork.NewCache(logger, querier, fetcher, cfg.DefaultImages)
}

func newFonts(cfg *config.Config) (*render.Fonts, error) {
	return render.LoadFonts(cfg.Fonts)
}

func newResolver(fonts *render.Fonts, registry *snapshot.Registry, cfg *config.Config) *render.Resolver {
	return render.NewResolver(fonts, registry, cfg.DisplayWidth)
}

func newBuilder(logger *zap.Logger, querier domain.Querier, cfg *config.Config) *snapshot.Builder {
	return snapshot.NewBuilder(logger, querier, cfg.Info.ExtraKeys)
}

func newDisplay(logger *zap.Logger, cfg *config.Config) (domain.Display, error) {
	if demoMode {
		return display.NewFileSink(logger, demoFrame, cfg.DisplayWidth, cfg.DisplayHeight), nil
	}
	return openHardwareDisplay(logger, cfg)
}

func newSource(logger *zap.Logger, cfg *config.Config) (domain.Source, error) {
	if demoMode {
		return input.NewReaderSource(logger, os.Stdin), nil
	}
	if cfg.TouchGPIO > 0 {
		return openGPIOSource(logger, cfg.TouchGPIO)
	}
	return input.NewNoopSource(), nil
}

func newBacklight(logger *zap.Logger, cfg *config.Config) domain.Backlight {
	if demoMode || !cfg.UseBacklight {
		return backlight.Noop{}
	}
	bl, err := openBacklight(logger)
	if err != nil {
		logger.Warn("Backlight control unavailable", zap.Error(err))
		return backlight.Noop{}
	}
	return bl
}

// registerHooks ties the engine to the application lifecycle
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, e *engine.Engine) {
	runCtx, stop := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Panel daemon started")
			return e.Start(runCtx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			stop()
			return e.Stop(ctx)
		},
	})
}
