// internal/theme/loader.go
package theme

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/textfinder/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// TomlStyleDef represents a single style definition in the TOML file
type TomlStyleDef struct {
	Fg        *string `toml:"fg"` // nil when unset
	Bg        *string `toml:"bg"`
	Bold      *bool   `toml:"bold"`
	Italic    *bool   `toml:"italic"`
	Underline *bool   `toml:"underline"`
	Reverse   *bool   `toml:"reverse"`
}

// TomlTheme represents the structure of a theme file
type TomlTheme struct {
	Name   string                  `toml:"name"`
	IsDark bool                    `toml:"is_dark"`
	Styles map[string]TomlStyleDef `toml:"styles"`
}

// LoadThemeFromFile decodes a TOML theme. Styles inherit unset properties
// from the file's Default style; styles that fail to parse are skipped.
// A theme without SearchHighlightCurrent gets a bold SearchHighlight.
func LoadThemeFromFile(filePath string) (*Theme, error) {
	var def TomlTheme
	metadata, err := toml.DecodeFile(filePath, &def)
	if err != nil {
		return nil, fmt.Errorf("failed to load theme file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Theme file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}

	theme := &Theme{
		Name:   def.Name,
		IsDark: def.IsDark,
		Styles: make(map[string]tcell.Style, len(def.Styles)+1),
	}

	base := tcell.StyleDefault
	if raw, ok := def.Styles["Default"]; ok {
		if base, err = convertTomlStyle(raw, tcell.StyleDefault); err != nil {
			logger.Warnf("Theme '%s': Bad 'Default' style, using terminal default: %v", theme.Name, err)
			base = tcell.StyleDefault
		}
	}
	theme.Styles["Default"] = base

	for name, raw := range def.Styles {
		if name == "Default" {
			continue
		}
		style, err := convertTomlStyle(raw, base)
		if err != nil {
			logger.Warnf("Theme '%s': Skipping style '%s': %v", theme.Name, name, err)
			continue
		}
		theme.Styles[name] = style
	}

	if _, ok := theme.Styles["SearchHighlightCurrent"]; !ok {
		if match, ok := theme.Styles["SearchHighlight"]; ok {
			theme.Styles["SearchHighlightCurrent"] = match.Bold(true)
		}
	}

	logger.Debugf("Loaded theme '%s' (%d styles) from '%s'", theme.Name, len(theme.Styles), filePath)
	return theme, nil
}

// convertTomlStyle converts the TOML definition to a tcell.Style, inheriting from a base
func convertTomlStyle(tomlStyle TomlStyleDef, baseStyle tcell.Style) (tcell.Style, error) {
	style := baseStyle

	if tomlStyle.Fg != nil {
		color, err := parseColorString(*tomlStyle.Fg)
		if err != nil {
			return style, fmt.Errorf("invalid foreground color '%s': %w", *tomlStyle.Fg, err)
		}
		style = style.Foreground(color)
	}

	if tomlStyle.Bg != nil {
		color, err := parseColorString(*tomlStyle.Bg)
		if err != nil {
			return style, fmt.Errorf("invalid background color '%s': %w", *tomlStyle.Bg, err)
		}
		style = style.Background(color)
	}

	if tomlStyle.Bold != nil {
		style = style.Bold(*tomlStyle.Bold)
	}
	if tomlStyle.Italic != nil {
		style = style.Italic(*tomlStyle.Italic)
	}
	if tomlStyle.Underline != nil {
		style = style.Underline(*tomlStyle.Underline)
	}
	if tomlStyle.Reverse != nil {
		style = style.Reverse(*tomlStyle.Reverse)
	}

	return style, nil
}

// parseColorString converts "#rrggbb", "reset", "default" or a W3C color
// name such as "orange" to a tcell.Color.
func parseColorString(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "#"):
		if len(s) != 7 {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color format '%s', must be #RRGGBB", s)
		}
		val, err := strconv.ParseInt(s[1:], 16, 32)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex value '%s': %w", s, err)
		}
		return tcell.NewHexColor(int32(val)), nil
	case s == "reset":
		return tcell.ColorReset, nil
	case s == "default":
		return tcell.ColorDefault, nil
	}

	if color, ok := tcell.ColorNames[s]; ok {
		return color, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color format or name '%s'", s)
}
