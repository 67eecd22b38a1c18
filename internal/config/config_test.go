package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), nil)
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig(), cfg)
	assert.Equal(t, DefaultDebounce, cfg.Search.Debounce())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
[logger]
level = "debug"
disabled_tags = ["scan"]

[search]
regex_mode = true
case_sensitive = true
use_selection_as_search = false
clear_on_hide = true
debounce_ms = 100

[highlight]
theme_file = "match.toml"
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.Equal(t, []string{"scan"}, cfg.Logger.DisabledTags)
	assert.True(t, cfg.Search.RegexMode)
	assert.True(t, cfg.Search.CaseSensitive)
	assert.False(t, cfg.Search.UseSelectionAsSearch)
	assert.True(t, cfg.Search.ClearOnHide)
	assert.Equal(t, 100*time.Millisecond, cfg.Search.Debounce())
	assert.Equal(t, "match.toml", cfg.Highlight.ThemeFile)
	assert.True(t, cfg.Highlight.Color, "unset keys keep their defaults")
}

func TestLoadParseErrorFallsBackToDefaults(t *testing.T) {
	path := writeConfig(t, "[search\nregex_mode = ")
	cfg, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
	assert.Equal(t, NewDefaultConfig().Search, cfg.Search)
}

func TestValidateResetsBadValues(t *testing.T) {
	path := writeConfig(t, `
[logger]
level = "chatty"

[search]
debounce_ms = -4
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logger.LogLevel)
	assert.Equal(t, DefaultDebounce, cfg.Search.Debounce())
}

func TestFlagOverrides(t *testing.T) {
	path := writeConfig(t, `
[search]
regex_mode = false
`)
	var f Flags
	parser := flags.NewParser(&f, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs([]string{"--regex", "--loglevel", "warn", "--log-tags", "scan, replace", "--no-color"})
	require.NoError(t, err)
	assert.Nil(t, f.CaseSensitive)

	cfg, err := Load(path, &f)
	require.NoError(t, err)
	assert.True(t, cfg.Search.RegexMode)
	assert.False(t, cfg.Search.CaseSensitive)
	assert.Equal(t, "warn", cfg.Logger.LogLevel)
	assert.Equal(t, []string{"scan", "replace"}, cfg.Logger.EnabledTags)
	assert.False(t, cfg.Highlight.Color)
}

func TestSplitCommaList(t *testing.T) {
	assert.Nil(t, splitCommaList(""))
	assert.Equal(t, []string{"a", "b"}, splitCommaList(" a,, b ,"))
}
