// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/textfinder/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger    logger.Config   `toml:"logger"`
	Search    SearchConfig    `toml:"search"`
	Highlight HighlightConfig `toml:"highlight"`
}

// SearchConfig holds search options and panel behaviour toggles.
type SearchConfig struct {
	RegexMode            bool `toml:"regex_mode"`
	CaseSensitive        bool `toml:"case_sensitive"`
	UseSelectionAsSearch bool `toml:"use_selection_as_search"`
	ClearOnHide          bool `toml:"clear_on_hide"`
	ScrollToCenter       bool `toml:"scroll_to_center"`
	DebounceMs           int  `toml:"debounce_ms"`
}

// HighlightConfig selects how matches are styled.
type HighlightConfig struct {
	ThemeFile string `toml:"theme_file"`
	Color     bool   `toml:"color"`
}

// Debounce returns the configured debounce window.
func (s SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}

// NewDefaultConfig creates a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Search: SearchConfig{
			RegexMode:            DefaultRegexMode,
			CaseSensitive:        DefaultCaseSensitive,
			UseSelectionAsSearch: DefaultUseSelectionAsSearch,
			ClearOnHide:          DefaultClearOnHide,
			ScrollToCenter:       DefaultScrollToCenter,
			DebounceMs:           int(DefaultDebounce / time.Millisecond),
		},
		Highlight: HighlightConfig{
			Color: true,
		},
	}
}

// DefaultPath returns the per-user config file location, or "" if unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// loadFromFile decodes filePath over cfg. A missing file leaves cfg untouched.
func loadFromFile(filePath string, cfg *Config) error {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		logger.DebugTagf("config", "Config file not found: %s", filePath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	logger.DebugTagf("config", "Loaded configuration from: %s", filePath)
	return nil
}

// validate resets out-of-range values to their defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if _, ok := logger.ParseLevel(c.Logger.LogLevel); !ok {
		logger.Warnf("Config: invalid log level '%s', using '%s'", c.Logger.LogLevel, defaults.Logger.LogLevel)
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if c.Search.DebounceMs < 0 || time.Duration(c.Search.DebounceMs)*time.Millisecond > MaxDebounce {
		c.Search.DebounceMs = defaults.Search.DebounceMs
	}
}

// Load builds the effective configuration: defaults, then the TOML file at
// configFilePath (or the default location when empty), then flag overrides.
// A parse error is returned together with the defaults-plus-flags config.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		effectivePath = DefaultPath()
	}

	var loadErr error
	if effectivePath != "" {
		fileCfg := NewDefaultConfig()
		if err := loadFromFile(effectivePath, fileCfg); err != nil {
			loadErr = err
		} else {
			cfg = fileCfg
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()
	return cfg, loadErr
}
