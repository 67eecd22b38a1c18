// internal/theme/manager.go
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/textfinder/internal/logger"
)

// Manager holds loaded themes and manages the active theme.
type Manager struct {
	themes      map[string]*Theme // lower-cased name -> theme
	activeTheme *Theme
	mutex       sync.RWMutex
}

// NewManager creates a manager holding the built-in theme, active.
func NewManager() *Manager {
	builtin := DevComfortDark
	return &Manager{
		themes:      map[string]*Theme{strings.ToLower(builtin.Name): &builtin},
		activeTheme: &builtin,
	}
}

// DefaultDir returns the per-user themes directory, or "" if unknown.
func DefaultDir(appName string) string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, appName, "themes")
}

// LoadDir loads every .toml file in dir. A missing directory is not an error.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		logger.Debugf("Theme directory '%s' does not exist", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read theme directory '%s': %w", dir, err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".toml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		theme, err := LoadThemeFromFile(path)
		if err != nil {
			logger.Warnf("Failed to load theme from '%s': %v", path, err)
			continue
		}
		m.add(theme)
		loaded++
	}
	logger.Infof("Loaded %d custom theme(s) from %s", loaded, dir)
	return nil
}

// LoadFile loads a theme file and makes it active.
func (m *Manager) LoadFile(path string) (*Theme, error) {
	theme, err := LoadThemeFromFile(path)
	if err != nil {
		return nil, err
	}
	m.add(theme)
	if err := m.SetTheme(theme.Name); err != nil {
		return nil, err
	}
	return theme, nil
}

func (m *Manager) add(theme *Theme) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	key := strings.ToLower(theme.Name)
	if existing, ok := m.themes[key]; ok {
		logger.Warnf("Theme '%s' overrides existing theme '%s'", theme.Name, existing.Name)
	}
	m.themes[key] = theme
}

// Current returns the currently active theme.
func (m *Manager) Current() *Theme {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.activeTheme
}

// SetTheme sets the active theme by name (case-insensitive).
func (m *Manager) SetTheme(name string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	theme, ok := m.themes[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("theme '%s' not found", name)
	}
	if m.activeTheme != theme {
		m.activeTheme = theme
		logger.Infof("Active theme set to: %s", theme.Name)
	}
	return nil
}

// ListThemes returns the names of all loaded themes, sorted.
func (m *Manager) ListThemes() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	names := make([]string, 0, len(m.themes))
	for _, theme := range m.themes {
		names = append(names, theme.Name)
	}
	sort.Strings(names)
	return names
}

// GetTheme returns a specific theme by name (case-insensitive).
func (m *Manager) GetTheme(name string) (*Theme, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	theme, ok := m.themes[strings.ToLower(name)]
	return theme, ok
}
