package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrPluginNotFound is returned when no discovered plugin has the
// requested name.
var ErrPluginNotFound = errors.New("plugin not found")

// Manager indexes the plugins installed under a directory. Each plugin
// is a subdirectory holding a plugin.json manifest next to its
// executable.
type Manager struct {
	dir string

	mu      sync.RWMutex
	plugins map[string]*Plugin
}

// NewManager creates a Manager over the given plugin directory.
func NewManager(dir string) *Manager {
	return &Manager{
		dir:     dir,
		plugins: make(map[string]*Plugin),
	}
}

// Discover rescans the plugin directory, replacing the index. A missing
// directory leaves the index empty without error; a subdirectory with a
// broken or incomplete manifest is skipped with a log line so one bad
// install cannot hide the rest.
func (m *Manager) Discover() error {
	found := make(map[string]*Plugin)

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			m.mu.Lock()
			m.plugins = found
			m.mu.Unlock()
			return nil
		}
		return fmt.Errorf("read plugin dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		plug, err := loadPlugin(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			if !os.IsNotExist(err) {
				log.Printf("Skipping plugin %s: %v", entry.Name(), err)
			}
			continue
		}
		found[plug.Manifest.Name] = plug
	}

	m.mu.Lock()
	m.plugins = found
	m.mu.Unlock()
	return nil
}

// loadPlugin reads and validates one plugin directory. A missing
// plugin.json returns the raw os error so callers can tell "not a
// plugin" from "broken plugin".
func loadPlugin(dir string) (*Plugin, error) {
	data, err := os.ReadFile(filepath.Join(dir, "plugin.json"))
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if manifest.Name == "" {
		return nil, errors.New("manifest missing name")
	}
	if manifest.Executable == "" {
		return nil, errors.New("manifest missing executable")
	}

	return &Plugin{
		Manifest:   manifest,
		Path:       dir,
		Executable: filepath.Join(dir, manifest.Executable),
	}, nil
}

// Get returns a discovered plugin by manifest name.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plug, ok := m.plugins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, name)
	}
	return plug, nil
}

// List returns all discovered plugins ordered by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(m.plugins))
	for _, plug := range m.plugins {
		plugins = append(plugins, plug)
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Manifest.Name < plugins[j].Manifest.Name
	})
	return plugins
}

// PluginDir returns the directory this manager scans.
func (m *Manager) PluginDir() string {
	return m.dir
}
