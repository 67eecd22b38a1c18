// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/bethropolis/textfinder/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Theme maps style names to tcell styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the named style, falling back to the part of the name
// before the first dot, then to "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		baseName := name[:dotIndex]
		if style, ok := t.Styles[baseName]; ok {
			logger.Debugf("Theme '%s': Style '%s' not found, using base '%s'", t.Name, name, baseName)
			return style
		}
	}

	if defStyle, ok := t.Styles["Default"]; ok {
		if name != "Default" {
			logger.Debugf("Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// DevComfortDark is the built-in theme.
var DevComfortDark = newDevComfortDark()

func newDevComfortDark() Theme {
	dcForeground := tcell.NewHexColor(0xc5cdd9) // Soft off-white (Default Text)
	dcComment := tcell.NewHexColor(0x5c6370)    // Muted Grey (line numbers)
	dcYellow := tcell.NewHexColor(0xe5c07b)     // Soft Yellow (current match)
	dcCyan := tcell.NewHexColor(0x56b6c2)       // Soft Cyan (file names)
	dcGreen := tcell.NewHexColor(0x98c379)      // Soft Green (summary)

	baseStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(dcForeground)

	return Theme{
		Name:   "DevComfort Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			"Default":                baseStyle,
			"Selection":              baseStyle.Reverse(true),
			"SearchHighlight":        tcell.StyleDefault.Background(tcell.ColorOrange).Foreground(tcell.ColorBlack),
			"SearchHighlightCurrent": tcell.StyleDefault.Background(dcYellow).Foreground(tcell.ColorBlack).Bold(true),
			"LineNumber":             baseStyle.Foreground(dcComment),
			"FilePath":               baseStyle.Foreground(dcCyan).Bold(true),
			"Summary":                baseStyle.Foreground(dcGreen),
		},
	}
}
