// Package render writes document lines with match highlighting as ANSI text.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bethropolis/textfinder/internal/theme"
	"github.com/bethropolis/textfinder/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

const reset = "\x1b[0m"

// Renderer styles lines with a theme. Without color it emits plain text.
type Renderer struct {
	theme *theme.Theme
	color bool
}

// NewRenderer creates a renderer for th.
func NewRenderer(th *theme.Theme, color bool) *Renderer {
	return &Renderer{theme: th, color: color}
}

// IsPositionWithin checks if pos is within the range [start, end). An end
// column of -1 extends the range to the end of its line.
func IsPositionWithin(pos, start, end types.Position) bool {
	if pos.Line < start.Line || pos.Line > end.Line {
		return false
	}
	if pos.Line == start.Line && pos.Col < start.Col {
		return false
	}
	if pos.Line == end.Line && end.Col >= 0 && pos.Col >= end.Col {
		return false
	}
	return true
}

// Line renders line number lineIdx, styling every grapheme cluster that
// starts inside a region.
func (r *Renderer) Line(line []byte, lineIdx int, regions []types.HighlightRegion) string {
	var sb strings.Builder
	current := "Default"
	if r.color {
		sb.WriteString(sgr(r.theme.GetStyle(current)))
	}

	runeIndex := 0
	gr := uniseg.NewGraphemes(string(line))
	for gr.Next() {
		name := "Default"
		pos := types.Position{Line: lineIdx, Col: runeIndex}
		for _, region := range regions {
			if IsPositionWithin(pos, region.Start, region.End) {
				name = region.Type.StyleName()
				if region.Type == types.HighlightSearchCurrent {
					break
				}
			}
		}
		if r.color && name != current {
			sb.WriteString(reset)
			sb.WriteString(sgr(r.theme.GetStyle(name)))
			current = name
		}
		sb.WriteString(gr.Str())
		runeIndex += len(gr.Runes())
	}
	if r.color {
		sb.WriteString(reset)
	}
	return sb.String()
}

// Styled wraps text in the named style.
func (r *Renderer) Styled(name, text string) string {
	if !r.color {
		return text
	}
	return sgr(r.theme.GetStyle(name)) + text + reset
}

// Match writes one "path:line: text" result row. Line numbers are 1-based.
func (r *Renderer) Match(w io.Writer, path string, lineIdx int, line []byte, regions []types.HighlightRegion) error {
	_, err := fmt.Fprintf(w, "%s:%s: %s\n",
		r.Styled("FilePath", path),
		r.Styled("LineNumber", strconv.Itoa(lineIdx+1)),
		r.Line(line, lineIdx, regions))
	return err
}

// sgr converts a tcell style to an ANSI select-graphic-rendition sequence.
func sgr(style tcell.Style) string {
	fg, bg, attrs := style.Decompose()
	codes := []string{"0"}
	if attrs&tcell.AttrBold != 0 {
		codes = append(codes, "1")
	}
	if attrs&tcell.AttrItalic != 0 {
		codes = append(codes, "3")
	}
	if attrs&tcell.AttrUnderline != 0 {
		codes = append(codes, "4")
	}
	if attrs&tcell.AttrReverse != 0 {
		codes = append(codes, "7")
	}
	if code, ok := colorCode(fg, 38); ok {
		codes = append(codes, code)
	}
	if code, ok := colorCode(bg, 48); ok {
		codes = append(codes, code)
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

// colorCode returns the 24-bit color parameter for c, or false for the
// terminal's own default.
func colorCode(c tcell.Color, base int) (string, bool) {
	if c == tcell.ColorDefault || c == tcell.ColorReset {
		return "", false
	}
	red, green, blue := c.RGB()
	if red < 0 {
		return "", false
	}
	return fmt.Sprintf("%d;2;%d;%d;%d", base, red, green, blue), true
}
