package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/kbinani/screenshot"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/aircursor/internal/action"
	"github.com/ayusman/aircursor/internal/app"
	"github.com/ayusman/aircursor/internal/capture"
	"github.com/ayusman/aircursor/internal/config"
	"github.com/ayusman/aircursor/internal/detector"
	"github.com/ayusman/aircursor/internal/display"
	"github.com/ayusman/aircursor/internal/gesture"
	"github.com/ayusman/aircursor/internal/observability"
	"github.com/ayusman/aircursor/internal/pinch"
	"github.com/ayusman/aircursor/internal/plugin"
	"github.com/ayusman/aircursor/internal/pointer"
	"github.com/ayusman/aircursor/internal/server"
	"github.com/ayusman/aircursor/internal/store"
	"github.com/ayusman/aircursor/internal/tray"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Track the hand and drive the pointer (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, v)
			if err != nil {
				return err
			}
			logger, restore := observability.Install(cfg.Logger)
			defer restore()
			defer observability.Sync(logger)

			logger.Info("starting aircursor", zap.String("version", Version))
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = run(ctx, v, cfg, logger)
			if err != nil {
				logger.Error("aircursor stopped", zap.Error(err))
			}
			return err
		},
	}
}

// session is the per-run action backend plus the journal it writes to.
type session struct {
	id    string
	sink  action.Sink
	store *store.Store
}

func (s *session) close(logger *zap.Logger) {
	if s.store == nil {
		return
	}
	if err := s.store.Sessions().End(context.Background(), s.id); err != nil {
		logger.Warn("end session", zap.Error(err))
	}
	if err := s.store.Close(); err != nil {
		logger.Warn("close journal", zap.Error(err))
	}
}

func run(ctx context.Context, v *viper.Viper, cfg *config.Config, logger *zap.Logger) error {
	screen, err := screenBounds(cfg.Pointer.Display)
	if err != nil {
		return err
	}
	logger.Info("pointer target", zap.Stringer("bounds", screen))

	sess, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sess.close(logger)

	det, err := detector.NewMediaPipeDetector(detectorConfig(cfg.Detector), logger.Named("detector"))
	if err != nil {
		return fmt.Errorf("hand detector: %w", err)
	}

	appCfg := app.Config{
		Camera: capture.NewCamera(capture.Options{
			Device: cfg.Camera.Device,
			Width:  cfg.Camera.Width,
			Height: cfg.Camera.Height,
			FPS:    cfg.Loop.FPS,
			Mirror: cfg.Camera.Mirror,
		}),
		Detector:        det,
		Sink:            sess.sink,
		Annotate:        display.Annotate,
		Tuning:          tuningFrom(cfg),
		Screen:          screen,
		FPS:             cfg.Loop.FPS,
		ResetOnHandLoss: cfg.Loop.ResetOnHandLoss,
		Logger:          logger.Named("app"),
	}
	if cfg.Display.Enabled {
		appCfg.Renderer = display.NewPreview(cfg.Display.Title, cfg.Display.QuitKey)
	}

	var telemetry *server.Telemetry
	if cfg.Server.Enabled {
		telemetry = server.NewTelemetry(logger.Named("telemetry"))
		appCfg.Observers = append(appCfg.Observers, telemetry)
	}

	// The tray observes frames, so it is created before the app but bound
	// to it afterwards.
	var (
		menu *tray.Tray
		ctrl = &lateController{}
	)
	if cfg.Tray.Enabled {
		menu = tray.New(ctrl)
		appCfg.Observers = append(appCfg.Observers, menu)
	}

	a, err := app.New(appCfg)
	if err != nil {
		return err
	}
	ctrl.App = a

	if v.ConfigFileUsed() != "" {
		config.Watch(v, logger.Named("config"), func(c *config.Config) {
			a.Retune(tuningFrom(c))
		})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return a.Run(gctx)
	})

	if cfg.Server.Enabled {
		srv := server.New(server.Config{
			Controller: a,
			Store:      sess.store,
			Session:    sess.id,
			Telemetry:  telemetry,
			Logger:     logger.Named("server"),
		})
		g.Go(func() error {
			return srv.Serve(gctx, cfg.Server.Addr)
		})
	}

	if menu != nil {
		menu.OnQuit(a.Quit)
		g.Go(func() error {
			<-gctx.Done()
			menu.Quit()
			return nil
		})
		menu.Run()
		cancel()
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openSession builds the action sink: the desktop backend, optionally with
// window actions routed to a plugin, optionally journaled.
func openSession(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*session, error) {
	s := &session{id: uuid.NewString()}

	switch cfg.Actions.Backend {
	case config.BackendNoop:
		s.sink = action.NewNoop(logger.Named("actions"))
	default:
		s.sink = action.NewDesktop()
	}

	if name := cfg.Actions.WindowPlugin; name != "" {
		mgr := plugin.NewManager(cfg.Actions.PluginDir, logger.Named("plugins"))
		if err := mgr.Discover(); err != nil {
			return nil, fmt.Errorf("discover plugins: %w", err)
		}
		p, err := mgr.Get(name)
		if err != nil {
			return nil, fmt.Errorf("window plugin %q: %w", name, err)
		}
		s.sink = action.NewPluginWindows(s.sink, p, plugin.NewExecutor(cfg.Actions.PluginTimeout), s.id)
		logger.Info("window actions routed to plugin", zap.String("plugin", name))
	}

	if path := cfg.Journal.Path; path != "" {
		st, err := openStore(path)
		if err != nil {
			return nil, err
		}
		rec, err := st.Sessions().Start(ctx, cfg.Actions.Backend)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("start session: %w", err)
		}
		s.id = rec.ID
		s.store = st
		s.sink = action.NewJournaled(s.sink, st.Journal(rec.ID), logger.Named("journal"))
		logger.Info("journaling actions", zap.String("path", path), zap.String("session", rec.ID))
	}

	return s, nil
}

func openStore(path string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return st, nil
}

// screenBounds returns the bounds of the given monitor in desktop
// coordinates.
func screenBounds(index int) (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, errors.New("no active display")
	}
	if index < 0 || index >= n {
		return image.Rectangle{}, fmt.Errorf("display %d out of range (found %d)", index, n)
	}
	return screenshot.GetDisplayBounds(index), nil
}

func detectorConfig(c config.DetectorConfig) detector.Config {
	return detector.Config{
		MaxHands:        c.MaxHands,
		MinConfidence:   c.MinConfidence,
		MinTrackingConf: c.MinTrackingConfidence,
		ScriptPath:      c.Script,
		PythonPath:      c.Python,
		IdleTimeout:     c.IdleTimeout,
	}
}

func tuningFrom(c *config.Config) app.Tuning {
	return app.Tuning{
		Gesture: gesture.Thresholds{
			FingersTogether: c.Gesture.FingersTogetherThreshold,
			HandFlip:        c.Gesture.HandFlipThreshold,
		},
		GestureHold: c.Gesture.HoldFrames,
		Pinch: pinch.Thresholds{
			Press:      c.Pinch.Threshold,
			Release:    c.Pinch.ReleaseThreshold,
			Movement:   c.Pinch.MovementThreshold,
			HoldFrames: c.Pinch.HoldFrames,
		},
		Input:     pointer.Range{Min: c.Pointer.InputMin, Max: c.Pointer.InputMax},
		Smoothing: c.Pointer.Smoothing,
	}
}

// lateController lets the tray be constructed before the App it controls.
type lateController struct {
	*app.App
}

func (c *lateController) IsEnabled() bool {
	return c.App == nil || c.App.IsEnabled()
}

func (c *lateController) SetEnabled(enabled bool) {
	if c.App != nil {
		c.App.SetEnabled(enabled)
	}
}
