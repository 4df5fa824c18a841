package config

import (
	"errors"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Watch re-reads v whenever its config file is written and passes each
// valid result to apply. Invalid edits are logged and skipped. apply runs
// on viper's watcher goroutine.
func Watch(v *viper.Viper, logger *zap.Logger, apply func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Reload(v)
		if err != nil {
			logger.Warn("ignoring config change", zap.String("file", e.Name), zap.Error(err))
			return
		}
		logger.Info("config reloaded", zap.String("file", e.Name))
		apply(cfg)
	})
	v.WatchConfig()
}

// Reload unmarshals v and validates only the live-tunable sections.
func Reload(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := errors.Join(cfg.ValidateTuning()...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
