// internal/config/flags.go
package config

import (
	"strings"

	"github.com/bethropolis/textfinder/internal/logger"
)

// Flags holds command-line overrides for the configuration.
// Pointer fields stay nil when the flag was not given.
type Flags struct {
	ConfigFilePath string  `long:"config" description:"Path to TOML configuration file (default ~/.config/textfinder/config.toml)"`
	LogLevel       *string `long:"loglevel" description:"Log level (debug, info, warn, error)"`
	LogFilePath    *string `long:"logfile" description:"Path to write log file (use '-' for stderr)"`
	EnableTags     *string `long:"log-tags" description:"Comma-separated list of log tags to enable"`
	DisableTags    *string `long:"log-disable-tags" description:"Comma-separated list of log tags to disable"`
	EnablePkgs     *string `long:"log-packages" description:"Comma-separated list of packages to enable"`
	DisablePkgs    *string `long:"log-disable-packages" description:"Comma-separated list of packages to disable"`
	RegexMode      *bool   `long:"regex" short:"E" description:"Treat the search text as a regular expression"`
	CaseSensitive  *bool   `long:"case-sensitive" short:"c" description:"Match case exactly"`
	ThemeFile      *string `long:"theme" description:"TOML theme file for match highlighting"`
	NoColor        *bool   `long:"no-color" description:"Disable coloured match output"`
}

// ApplyOverrides copies every flag that was set onto cfg.
func (f *Flags) ApplyOverrides(cfg *Config) {
	if f.LogLevel != nil && *f.LogLevel != "" {
		logger.DebugTagf("config", "Setting log level from flag: %s", *f.LogLevel)
		cfg.Logger.LogLevel = *f.LogLevel
	}
	if f.LogFilePath != nil {
		cfg.Logger.LogFilePath = *f.LogFilePath
	}
	if f.EnableTags != nil {
		cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
	}
	if f.DisableTags != nil {
		cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
	}
	if f.EnablePkgs != nil {
		cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
	}
	if f.DisablePkgs != nil {
		cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
	}
	if f.RegexMode != nil {
		logger.DebugTagf("config", "Setting regex mode from flag: %v", *f.RegexMode)
		cfg.Search.RegexMode = *f.RegexMode
	}
	if f.CaseSensitive != nil {
		logger.DebugTagf("config", "Setting case sensitivity from flag: %v", *f.CaseSensitive)
		cfg.Search.CaseSensitive = *f.CaseSensitive
	}
	if f.ThemeFile != nil {
		cfg.Highlight.ThemeFile = *f.ThemeFile
	}
	if f.NoColor != nil && *f.NoColor {
		cfg.Highlight.Color = false
	}
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
