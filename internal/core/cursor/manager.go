package cursor

import (
	"unicode/utf8"

	"github.com/bethropolis/textfinder/internal/buffer"
	"github.com/bethropolis/textfinder/internal/logger"
	"github.com/bethropolis/textfinder/internal/types"
	"github.com/rivo/uniseg"
)

// Editor is the interface cursor manager expects from the editor
type Editor interface {
	GetBuffer() buffer.Buffer
}

// Manager handles cursor positioning and viewport management
type Manager struct {
	editor       Editor
	position     types.Position
	viewportTop  int
	viewportLeft int // visual column
	viewWidth    int
	viewHeight   int
	scrollOff    int
}

// NewManager creates a new cursor manager
func NewManager(editor Editor, scrollOff int) *Manager {
	return &Manager{
		editor:    editor,
		scrollOff: scrollOff,
	}
}

// SetViewSize updates the view dimensions
func (m *Manager) SetViewSize(width, height int) {
	m.viewWidth = width
	m.viewHeight = height
	m.ScrollToCursor()
}

// Viewport returns the top line and the leftmost visual column.
func (m *Manager) Viewport() (int, int) {
	return m.viewportTop, m.viewportLeft
}

// Position returns the current cursor position
func (m *Manager) Position() types.Position {
	return m.position
}

// SetPosition moves the cursor, clamped to the document.
func (m *Manager) SetPosition(pos types.Position) {
	buf := m.editor.GetBuffer()
	lineCount := buf.LineCount()
	if pos.Line >= lineCount {
		pos.Line = lineCount - 1
	}
	if pos.Line < 0 {
		pos.Line = 0
	}
	if pos.Col < 0 {
		pos.Col = 0
	}

	lineBytes, err := buf.Line(pos.Line)
	if err != nil {
		logger.Warnf("CursorManager.SetPosition: Failed to get line %d: %v", pos.Line, err)
		return
	}
	if maxCol := utf8.RuneCount(lineBytes); pos.Col > maxCol {
		pos.Col = maxCol
	}
	m.position = pos
}

// effectiveScrollOff caps the scroll-off at half the view height.
func (m *Manager) effectiveScrollOff() int {
	if m.scrollOff*2 >= m.viewHeight {
		return (m.viewHeight - 1) / 2
	}
	return m.scrollOff
}

// ScrollToCursor ensures the cursor is visible in the viewport
func (m *Manager) ScrollToCursor() {
	if m.viewHeight <= 0 || m.viewWidth <= 0 {
		return
	}

	scrollOff := m.effectiveScrollOff()
	if m.position.Line < m.viewportTop+scrollOff {
		m.viewportTop = m.position.Line - scrollOff
	} else if m.position.Line >= m.viewportTop+m.viewHeight-scrollOff {
		m.viewportTop = m.position.Line - m.viewHeight + 1 + scrollOff
	}
	if m.viewportTop < 0 {
		m.viewportTop = 0
	}

	m.scrollHorizontally()
}

// CenterOnCursor puts the cursor line in the middle of the view.
func (m *Manager) CenterOnCursor() {
	if m.viewHeight <= 0 || m.viewWidth <= 0 {
		return
	}
	m.viewportTop = m.position.Line - m.viewHeight/2
	if m.viewportTop < 0 {
		m.viewportTop = 0
	}
	m.scrollHorizontally()
}

func (m *Manager) scrollHorizontally() {
	visualCol := 0
	if lineBytes, err := m.editor.GetBuffer().Line(m.position.Line); err == nil {
		visualCol = VisualColumn(lineBytes, m.position.Col)
	}
	if visualCol < m.viewportLeft {
		m.viewportLeft = visualCol
	} else if visualCol >= m.viewportLeft+m.viewWidth {
		m.viewportLeft = visualCol - m.viewWidth + 1
	}
	if m.viewportLeft < 0 {
		m.viewportLeft = 0
	}
}

// VisualColumn computes the screen width of the first runeIndex runes of
// line, counting grapheme clusters with their display width.
func VisualColumn(line []byte, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	visualWidth := 0
	currentRuneIndex := 0
	gr := uniseg.NewGraphemes(string(line))
	for gr.Next() {
		if currentRuneIndex >= runeIndex {
			break
		}
		visualWidth += gr.Width()
		currentRuneIndex += len(gr.Runes())
	}
	return visualWidth
}
