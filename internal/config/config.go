// Package config defines aircursor's configuration surface and loads it
// through viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Backends understood by actions.backend.
const (
	BackendRobotgo = "robotgo"
	BackendNoop    = "noop"
)

// Config is the full configuration tree.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Camera   CameraConfig   `mapstructure:"camera" yaml:"camera"`
	Loop     LoopConfig     `mapstructure:"loop" yaml:"loop"`
	Detector DetectorConfig `mapstructure:"detector" yaml:"detector"`
	Pointer  PointerConfig  `mapstructure:"pointer" yaml:"pointer"`
	Pinch    PinchConfig    `mapstructure:"pinch" yaml:"pinch"`
	Gesture  GestureConfig  `mapstructure:"gesture" yaml:"gesture"`
	Actions  ActionsConfig  `mapstructure:"actions" yaml:"actions"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Journal  JournalConfig  `mapstructure:"journal" yaml:"journal"`
	Tray     TrayConfig     `mapstructure:"tray" yaml:"tray"`
}

// LoggerConfig holds the logging settings.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

type CameraConfig struct {
	Device int  `mapstructure:"device" yaml:"device"`
	Width  int  `mapstructure:"width" yaml:"width"`
	Height int  `mapstructure:"height" yaml:"height"`
	Mirror bool `mapstructure:"mirror" yaml:"mirror"`
}

type LoopConfig struct {
	FPS             int  `mapstructure:"fps" yaml:"fps"`
	ResetOnHandLoss bool `mapstructure:"reset_on_hand_loss" yaml:"reset_on_hand_loss"`
}

type DetectorConfig struct {
	MaxHands              int           `mapstructure:"max_hands" yaml:"max_hands"`
	MinConfidence         float64       `mapstructure:"min_confidence" yaml:"min_confidence"`
	MinTrackingConfidence float64       `mapstructure:"min_tracking_confidence" yaml:"min_tracking_confidence"`
	Script                string        `mapstructure:"script" yaml:"script"`
	Python                string        `mapstructure:"python" yaml:"python"`
	IdleTimeout           time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
}

// PointerConfig tunes cursor mapping. Display selects the monitor whose
// bounds the cursor spans.
type PointerConfig struct {
	InputMin  float64 `mapstructure:"input_min" yaml:"input_min"`
	InputMax  float64 `mapstructure:"input_max" yaml:"input_max"`
	Smoothing float64 `mapstructure:"smoothing" yaml:"smoothing"`
	Display   int     `mapstructure:"display" yaml:"display"`
}

type PinchConfig struct {
	Threshold         float64 `mapstructure:"threshold" yaml:"threshold"`
	ReleaseThreshold  float64 `mapstructure:"release_threshold" yaml:"release_threshold"`
	HoldFrames        int     `mapstructure:"hold_frames" yaml:"hold_frames"`
	MovementThreshold float64 `mapstructure:"movement_threshold" yaml:"movement_threshold"`
}

type GestureConfig struct {
	FingersTogetherThreshold float64 `mapstructure:"fingers_together_threshold" yaml:"fingers_together_threshold"`
	HandFlipThreshold        float64 `mapstructure:"hand_flip_threshold" yaml:"hand_flip_threshold"`
	HoldFrames               int     `mapstructure:"hold_frames" yaml:"hold_frames"`
}

// ActionsConfig picks the desktop backend. WindowPlugin, when set, names a
// plugin under PluginDir that takes over minimize and close.
type ActionsConfig struct {
	Backend       string        `mapstructure:"backend" yaml:"backend"`
	WindowPlugin  string        `mapstructure:"window_plugin" yaml:"window_plugin"`
	PluginDir     string        `mapstructure:"plugin_dir" yaml:"plugin_dir"`
	PluginTimeout time.Duration `mapstructure:"plugin_timeout" yaml:"plugin_timeout"`
}

type DisplayConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Title   string `mapstructure:"title" yaml:"title"`
	QuitKey string `mapstructure:"quit_key" yaml:"quit_key"`
}

type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr"`
}

// JournalConfig enables the sqlite action journal when Path is set.
type JournalConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type TrayConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// NewDefaultConfig returns the configuration with every default applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "aircursor")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 20)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	v.SetDefault("camera.device", 0)
	v.SetDefault("camera.width", 640)
	v.SetDefault("camera.height", 480)
	v.SetDefault("camera.mirror", true)

	v.SetDefault("loop.fps", 30)
	v.SetDefault("loop.reset_on_hand_loss", false)

	v.SetDefault("detector.max_hands", 1)
	v.SetDefault("detector.min_confidence", 0.7)
	v.SetDefault("detector.min_tracking_confidence", 0.5)
	v.SetDefault("detector.script", "")
	v.SetDefault("detector.python", "")
	v.SetDefault("detector.idle_timeout", "30s")

	v.SetDefault("pointer.input_min", 0.2)
	v.SetDefault("pointer.input_max", 0.8)
	v.SetDefault("pointer.smoothing", 0.5)
	v.SetDefault("pointer.display", 0)

	v.SetDefault("pinch.threshold", 0.08)
	v.SetDefault("pinch.release_threshold", 0.12)
	v.SetDefault("pinch.hold_frames", 5)
	v.SetDefault("pinch.movement_threshold", 0.02)

	v.SetDefault("gesture.fingers_together_threshold", 0.04)
	v.SetDefault("gesture.hand_flip_threshold", 0.3)
	v.SetDefault("gesture.hold_frames", 10)

	v.SetDefault("actions.backend", BackendRobotgo)
	v.SetDefault("actions.window_plugin", "")
	v.SetDefault("actions.plugin_dir", "plugins")
	v.SetDefault("actions.plugin_timeout", "5s")

	v.SetDefault("display.enabled", true)
	v.SetDefault("display.title", "Air Cursor")
	v.SetDefault("display.quit_key", "q")

	v.SetDefault("server.enabled", false)
	v.SetDefault("server.addr", "127.0.0.1:8765")

	v.SetDefault("journal.path", "")

	v.SetDefault("tray.enabled", false)
}

// NewConfigFromViper unmarshals and validates v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Camera.Width > 0 && c.Camera.Height > 0, "camera.width and camera.height must be positive")
	check(c.Loop.FPS > 0, "loop.fps must be a positive integer")
	check(c.Detector.MaxHands > 0, "detector.max_hands must be a positive integer")
	check(c.Detector.MinConfidence >= 0 && c.Detector.MinConfidence <= 1, "detector.min_confidence must be between 0.0 and 1.0")

	errs = append(errs, c.ValidateTuning()...)

	check(c.Actions.Backend == BackendRobotgo || c.Actions.Backend == BackendNoop,
		"actions.backend must be %q or %q, got %q", BackendRobotgo, BackendNoop, c.Actions.Backend)
	check(c.Actions.PluginTimeout >= 0, "actions.plugin_timeout must not be negative")
	check(!c.Server.Enabled || c.Server.Addr != "", "server.addr is required when the server is enabled")

	return errors.Join(errs...)
}

// ValidateTuning checks the sections that can change while running.
func (c *Config) ValidateTuning() []error {
	var errs []error
	if c.Pointer.Smoothing <= 0 || c.Pointer.Smoothing > 1 {
		errs = append(errs, fmt.Errorf("pointer.smoothing must be in (0, 1], got %v", c.Pointer.Smoothing))
	}
	if c.Pointer.InputMin >= c.Pointer.InputMax {
		errs = append(errs, fmt.Errorf("pointer.input_min must be below pointer.input_max"))
	}
	if c.Pinch.Threshold >= c.Pinch.ReleaseThreshold {
		errs = append(errs, fmt.Errorf("pinch.threshold must be below pinch.release_threshold"))
	}
	if c.Pinch.HoldFrames <= 0 {
		errs = append(errs, fmt.Errorf("pinch.hold_frames must be a positive integer"))
	}
	if c.Pinch.MovementThreshold <= 0 {
		errs = append(errs, fmt.Errorf("pinch.movement_threshold must be positive"))
	}
	if c.Gesture.HoldFrames <= 0 {
		errs = append(errs, fmt.Errorf("gesture.hold_frames must be a positive integer"))
	}
	if c.Gesture.FingersTogetherThreshold <= 0 {
		errs = append(errs, fmt.Errorf("gesture.fingers_together_threshold must be positive"))
	}
	return errs
}
