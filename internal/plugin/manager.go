package plugin

import (
	"cmp"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// ErrPluginNotFound is returned when a requested plugin cannot be found.
var ErrPluginNotFound = errors.New("plugin not found")

// Manager discovers plugins under a directory. Each plugin lives in its own
// subdirectory with a plugin.json manifest.
type Manager struct {
	pluginDir string
	logger    *zap.Logger

	mu      sync.RWMutex
	plugins map[string]*Plugin
}

// NewManager creates a Manager rooted at pluginDir.
func NewManager(pluginDir string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		pluginDir: pluginDir,
		logger:    logger,
		plugins:   make(map[string]*Plugin),
	}
}

// Discover rescans the plugin directory, replacing the known set. A missing
// directory yields no plugins and no error. Unreadable or malformed
// manifests are skipped.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plugins = make(map[string]*Plugin)

	info, err := os.Stat(m.pluginDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(m.pluginDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		pluginPath := filepath.Join(m.pluginDir, entry.Name())
		manifestData, err := os.ReadFile(filepath.Join(pluginPath, "plugin.json"))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			m.logger.Warn("skipping plugin", zap.String("path", pluginPath), zap.Error(err))
			continue
		}

		var manifest Manifest
		if err := json.Unmarshal(manifestData, &manifest); err != nil {
			m.logger.Warn("skipping plugin with invalid manifest", zap.String("path", pluginPath), zap.Error(err))
			continue
		}
		if manifest.Name == "" {
			manifest.Name = entry.Name()
		}

		m.plugins[manifest.Name] = &Plugin{
			Manifest:   manifest,
			Path:       pluginPath,
			Executable: filepath.Join(pluginPath, manifest.Executable),
		}
		m.logger.Debug("discovered plugin",
			zap.String("name", manifest.Name),
			zap.String("version", manifest.Version),
			zap.Strings("actions", manifest.Actions))
	}

	return nil
}

// Get returns a plugin by name, or ErrPluginNotFound.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugin, ok := m.plugins[name]
	if !ok {
		return nil, ErrPluginNotFound
	}
	return plugin, nil
}

// List returns all discovered plugins sorted by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(m.plugins))
	for _, plugin := range m.plugins {
		plugins = append(plugins, plugin)
	}
	slices.SortFunc(plugins, func(a, b *Plugin) int {
		return cmp.Compare(a.Manifest.Name, b.Manifest.Name)
	})
	return plugins
}

// Dir returns the plugin directory.
func (m *Manager) Dir() string {
	return m.pluginDir
}
