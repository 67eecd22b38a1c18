package selection

import (
	"github.com/bethropolis/textfinder/internal/logger"
	"github.com/bethropolis/textfinder/internal/types"
)

// Manager handles text selection state and logic.
type Manager struct {
	editor EditorInterface

	selecting      bool
	selectionStart types.Position // Anchor point
	selectionEnd   types.Position // Usually follows cursor
}

// EditorInterface defines what the selection manager needs from editor.
type EditorInterface interface {
	GetCursor() types.Position
}

var noPosition = types.Position{Line: -1, Col: -1}

// NewManager creates a new selection manager.
func NewManager(editor EditorInterface) *Manager {
	return &Manager{
		editor:         editor,
		selectionStart: noPosition,
		selectionEnd:   noPosition,
	}
}

// HasSelection returns whether a non-empty range is selected.
func (m *Manager) HasSelection() bool {
	return m.selecting && m.selectionStart != m.selectionEnd
}

// GetSelection returns the normalized selection range (start <= end).
func (m *Manager) GetSelection() (start types.Position, end types.Position, ok bool) {
	if !m.HasSelection() {
		return noPosition, noPosition, false
	}
	start, end = m.selectionStart, m.selectionEnd
	if end.Before(start) {
		start, end = end, start
	}
	return start, end, true
}

// Select replaces the selection with [start, end).
func (m *Manager) Select(start, end types.Position) {
	m.selecting = true
	m.selectionStart = start
	m.selectionEnd = end
	logger.DebugTagf("core", "Selection Manager: Selected %v-%v", start, end)
}

// ClearSelection resets the selection state.
func (m *Manager) ClearSelection() {
	if m.selecting {
		logger.DebugTagf("core", "Selection Manager: Cleared")
	}
	m.selecting = false
	m.selectionStart = noPosition
	m.selectionEnd = noPosition
}

// StartOrUpdateSelection anchors a selection at the cursor, or extends the
// active one to it.
func (m *Manager) StartOrUpdateSelection() {
	currentCursor := m.editor.GetCursor()
	if !m.selecting {
		m.selectionStart = currentCursor
		m.selecting = true
		logger.DebugTagf("core", "Selection Manager: Started at %v", m.selectionStart)
	}
	m.selectionEnd = currentCursor
}

// IsSelecting returns the raw selecting flag state.
func (m *Manager) IsSelecting() bool {
	return m.selecting
}
