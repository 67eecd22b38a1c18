package history

import (
	"fmt"
	"sync"

	"github.com/bethropolis/textfinder/internal/logger"
	"github.com/bethropolis/textfinder/internal/types"
)

const DefaultMaxHistory = 100

// EditorInterface defines the methods the history manager needs from the editor.
type EditorInterface interface {
	// ReplayEdits applies a batch without recording it.
	ReplayEdits(edits []types.Edit) error
	SetCursorOffset(offset int)
}

// Manager handles the undo stack.
type Manager struct {
	editor       EditorInterface
	changes      []Change
	currentIndex int // Number of changes currently applied
	maxHistory   int
	mutex        sync.Mutex
}

// NewManager creates a history manager.
func NewManager(editor EditorInterface, maxHistory int) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Manager{
		editor:     editor,
		changes:    make([]Change, 0, maxHistory),
		maxHistory: maxHistory,
	}
}

// RecordChange adds a new change, dropping any undone ones.
func (m *Manager) RecordChange(change Change) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.currentIndex < len(m.changes) {
		m.changes = m.changes[:m.currentIndex]
	}
	m.changes = append(m.changes, change)
	if len(m.changes) > m.maxHistory {
		m.changes = m.changes[len(m.changes)-m.maxHistory:]
	}
	m.currentIndex = len(m.changes)

	logger.DebugTagf("history", "History: Recorded batch of %d edit(s). Index: %d, Count: %d",
		len(change.Edits), m.currentIndex, len(m.changes))
}

// Undo reverts the last recorded change.
// The editor is called without the history lock held.
func (m *Manager) Undo() (bool, error) {
	m.mutex.Lock()
	if m.currentIndex <= 0 {
		m.mutex.Unlock()
		logger.DebugTagf("history", "History: Nothing to undo.")
		return false, nil
	}
	m.currentIndex--
	change := m.changes[m.currentIndex]
	m.mutex.Unlock()

	if err := m.editor.ReplayEdits(change.Inverse); err != nil {
		m.mutex.Lock()
		m.currentIndex++
		m.mutex.Unlock()
		logger.Errorf("History: Error undoing batch: %v", err)
		return false, fmt.Errorf("undo failed: %w", err)
	}
	m.editor.SetCursorOffset(change.CursorBefore)
	logger.DebugTagf("history", "History: Undid batch of %d edit(s)", len(change.Inverse))
	return true, nil
}

// Clear resets the history stack. Call this on file load.
func (m *Manager) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.changes = m.changes[:0]
	m.currentIndex = 0
	logger.DebugTagf("history", "History: Cleared.")
}

// CanUndo returns true if there are changes that can be undone.
func (m *Manager) CanUndo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.currentIndex > 0
}
