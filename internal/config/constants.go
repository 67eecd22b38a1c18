package config

import "time"

// Base application details
const AppName = "textfinder"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "textfinder.log"

// Search behaviour defaults
const DefaultRegexMode = false
const DefaultCaseSensitive = false
const DefaultUseSelectionAsSearch = true
const DefaultClearOnHide = false
const DefaultScrollToCenter = false

// DefaultDebounce is the quiescence window for active-context notifications.
const DefaultDebounce = 250 * time.Millisecond

// MaxDebounce caps configured debounce windows.
const MaxDebounce = 5 * time.Second

// DefaultScrollOff is the number of lines kept visible around a revealed match.
const DefaultScrollOff = 3
