package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in    string
		want  slog.Level
		known bool
	}{
		{"debug", slog.LevelDebug, true},
		{"WARN", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"err", slog.LevelError, true},
		{"", slog.LevelInfo, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, known := ParseLevel(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.known, known)
		})
	}
}

func TestInitLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelWarn, &buf)
	defer Init(slog.LevelInfo, nil)

	Debugf("hidden %d", 1)
	Warnf("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "logger_test.go")
}

func TestTagFilters(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewConfig()
	cfg.LogLevel = "debug"
	cfg.DisabledTags = []string{"Scan"}
	InitWithConfig(cfg, &buf)
	defer Init(slog.LevelInfo, nil)

	DebugTagf("scan", "dropped")
	DebugTagf("replace", "kept")
	Debugf("untagged")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "tag=replace")
	assert.Contains(t, out, "untagged")
}

func TestEnabledTagsDropUntagged(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewConfig()
	cfg.LogLevel = "debug"
	cfg.EnabledTags = []string{"scan"}
	InitWithConfig(cfg, &buf)
	defer Init(slog.LevelInfo, nil)

	Debugf("untagged")
	DebugTagf("scan", "scanned")

	out := buf.String()
	assert.NotContains(t, out, "untagged")
	assert.Contains(t, out, "scanned")
}

func TestPackageFilters(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewConfig()
	cfg.LogLevel = "debug"
	cfg.DisabledPackages = []string{"logger"}
	InitWithConfig(cfg, &buf)
	defer Init(slog.LevelInfo, nil)

	Infof("from the logger package")
	assert.Empty(t, buf.String())
}
