package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, root, dir string, manifest Manifest) {
	t.Helper()
	pluginDir := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(pluginDir, 0o755))

	data, err := json.Marshal(manifest)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "plugin.json"), data, 0o644))
}

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "window-control", Manifest{
		Name:        "window-control",
		Version:     "1.0.0",
		Description: "Minimize and close the focused window",
		Executable:  "window-control",
		Actions:     []string{ActionMinimize, ActionClose},
	})

	manager := NewManager(root, nil)
	require.NoError(t, manager.Discover())

	plugins := manager.List()
	require.Len(t, plugins, 1)

	p := plugins[0]
	assert.Equal(t, "window-control", p.Manifest.Name)
	assert.Equal(t, filepath.Join(root, "window-control"), p.Path)
	assert.Equal(t, filepath.Join(root, "window-control", "window-control"), p.Executable)
	assert.True(t, p.Manifest.Supports(ActionClose))
}

func TestManager_Discover_MultiplePluginsSorted(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		writeManifest(t, root, name, Manifest{Name: name, Executable: name})
	}

	manager := NewManager(root, nil)
	require.NoError(t, manager.Discover())

	var names []string
	for _, p := range manager.List() {
		names = append(names, p.Manifest.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestManager_Discover_NameDefaultsToDir(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "unnamed", Manifest{Executable: "run"})

	manager := NewManager(root, nil)
	require.NoError(t, manager.Discover())

	_, err := manager.Get("unnamed")
	assert.NoError(t, err)
}

func TestManager_Discover_SkipsInvalid(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "good", Manifest{Name: "good", Executable: "good"})

	bad := filepath.Join(root, "bad")
	require.NoError(t, os.MkdirAll(bad, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bad, "plugin.json"), []byte("{not json"), 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "no-manifest"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray-file"), nil, 0o644))

	manager := NewManager(root, nil)
	require.NoError(t, manager.Discover())

	assert.Len(t, manager.List(), 1)
}

func TestManager_Discover_ReplacesPrevious(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "first", Manifest{Name: "first"})

	manager := NewManager(root, nil)
	require.NoError(t, manager.Discover())
	require.Len(t, manager.List(), 1)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "first")))
	require.NoError(t, manager.Discover())
	assert.Empty(t, manager.List())
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "missing"), nil)

	assert.NoError(t, manager.Discover())
	assert.Empty(t, manager.List())
}

func TestManager_Get_NotFound(t *testing.T) {
	manager := NewManager(t.TempDir(), nil)
	require.NoError(t, manager.Discover())

	_, err := manager.Get("window-control")
	assert.ErrorIs(t, err, ErrPluginNotFound)
}

func TestManager_Dir(t *testing.T) {
	assert.Equal(t, "/opt/aircursor/plugins", NewManager("/opt/aircursor/plugins", nil).Dir())
}
