// internal/core/editor.go
package core

import (
	"fmt"
	"sync"

	"github.com/bethropolis/textfinder/internal/buffer"
	"github.com/bethropolis/textfinder/internal/config"
	"github.com/bethropolis/textfinder/internal/core/clipboard"
	"github.com/bethropolis/textfinder/internal/core/cursor"
	"github.com/bethropolis/textfinder/internal/core/history"
	"github.com/bethropolis/textfinder/internal/core/selection"
	"github.com/bethropolis/textfinder/internal/event"
	"github.com/bethropolis/textfinder/internal/logger"
	"github.com/bethropolis/textfinder/internal/types"
	"github.com/google/uuid"
)

// Editor is an editing context: a document plus cursor, selection and
// undo history. It implements find.Host.
//
// Events are dispatched after the editor lock is released, so handlers may
// call back into the editor.
type Editor struct {
	id     string
	mutex  sync.RWMutex
	buffer buffer.Buffer

	eventManager     *event.Manager
	cursorManager    *cursor.Manager
	selectionManager *selection.Manager
	historyManager   *history.Manager
	clipboardManager *clipboard.Manager
}

// NewEditor creates a new Editor instance with a given buffer.
func NewEditor(buf buffer.Buffer) *Editor {
	e := &Editor{
		id:               uuid.NewString(),
		buffer:           buf,
		clipboardManager: clipboard.NewManager(false),
	}
	e.cursorManager = cursor.NewManager(e, config.DefaultScrollOff)
	e.selectionManager = selection.NewManager(e)
	e.historyManager = history.NewManager(e, history.DefaultMaxHistory)
	return e
}

// ID identifies the editing context in events.
func (e *Editor) ID() string {
	return e.id
}

// SetEventManager sets the event manager for dispatching events
func (e *Editor) SetEventManager(mgr *event.Manager) {
	e.eventManager = mgr
}

// SetClipboard replaces the clipboard manager.
func (e *Editor) SetClipboard(mgr *clipboard.Manager) {
	e.clipboardManager = mgr
}

// GetBuffer returns the editor's buffer. Callers outside the editor must
// not modify it directly.
func (e *Editor) GetBuffer() buffer.Buffer {
	return e.buffer
}

// GetCursor returns the current cursor position.
func (e *Editor) GetCursor() types.Position {
	return e.cursorManager.Position()
}

// SetCursor moves the cursor and keeps it visible.
func (e *Editor) SetCursor(pos types.Position) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.cursorManager.SetPosition(pos)
	e.cursorManager.ScrollToCursor()
}

// CursorOffset returns the cursor as a byte offset.
func (e *Editor) CursorOffset() int {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.buffer.PositionToOffset(e.cursorManager.Position())
}

// SetCursorOffset moves the cursor to a byte offset.
func (e *Editor) SetCursorOffset(offset int) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.cursorManager.SetPosition(e.buffer.OffsetToPosition(offset))
	e.cursorManager.ScrollToCursor()
}

// SetViewSize updates the view dimensions used for scrolling.
func (e *Editor) SetViewSize(width, height int) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.cursorManager.SetViewSize(width, height)
}

// GetViewport returns the top line and leftmost visual column.
func (e *Editor) GetViewport() (int, int) {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.cursorManager.Viewport()
}

// Text returns the whole document.
func (e *Editor) Text() string {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.buffer.Text()
}

// Len returns the document length in bytes.
func (e *Editor) Len() int {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.buffer.Len()
}

// OffsetToPosition converts a byte offset into a line and rune column.
func (e *Editor) OffsetToPosition(offset int) types.Position {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.buffer.OffsetToPosition(offset)
}

// ApplyEdits applies a batch atomically, records it for undo and notifies
// subscribers. The cursor ends after the last edit.
func (e *Editor) ApplyEdits(edits []types.Edit) error {
	if len(edits) == 0 {
		return nil
	}

	e.mutex.Lock()
	source := e.buffer.Text()
	cursorBefore := e.buffer.PositionToOffset(e.cursorManager.Position())
	infos, err := e.buffer.ApplyEdits(edits)
	if err != nil {
		e.mutex.Unlock()
		return fmt.Errorf("apply %d edit(s): %w", len(edits), err)
	}
	last := infos[len(infos)-1]
	e.cursorManager.SetPosition(e.buffer.OffsetToPosition(int(last.NewEndIndex)))
	e.selectionManager.ClearSelection()
	change := history.NewChange(source, edits, cursorBefore)
	e.mutex.Unlock()

	e.historyManager.RecordChange(change)
	logger.DebugTagf("core", "Editor %s: applied %d edit(s)", e.id, len(edits))
	e.dispatchModified(infos)
	return nil
}

// ReplayEdits applies a batch without recording it. Used by undo.
func (e *Editor) ReplayEdits(edits []types.Edit) error {
	e.mutex.Lock()
	infos, err := e.buffer.ApplyEdits(edits)
	if err == nil {
		e.selectionManager.ClearSelection()
	}
	e.mutex.Unlock()
	if err != nil {
		return err
	}
	e.dispatchModified(infos)
	return nil
}

func (e *Editor) dispatchModified(infos []types.EditInfo) {
	if e.eventManager == nil {
		return
	}
	e.eventManager.Dispatch(event.TypeBufferModified, event.BufferModifiedData{ContextID: e.id, Edits: infos})
	e.eventManager.Dispatch(event.TypeContentChanged, event.ContextData{ContextID: e.id})
}

// SetText replaces the whole document as one undoable edit.
func (e *Editor) SetText(text string) error {
	return e.ApplyEdits([]types.Edit{{From: 0, To: e.Len(), Insert: text}})
}

// Undo reverts the last edit batch.
func (e *Editor) Undo() (bool, error) {
	return e.historyManager.Undo()
}

// ScrollTo selects span and scrolls it into view, optionally centered.
func (e *Editor) ScrollTo(span types.MatchSpan, center bool) {
	e.mutex.Lock()
	start := e.buffer.OffsetToPosition(span.From)
	end := e.buffer.OffsetToPosition(span.To)
	e.selectionManager.Select(start, end)
	e.cursorManager.SetPosition(end)
	if center {
		e.cursorManager.CenterOnCursor()
	} else {
		e.cursorManager.ScrollToCursor()
	}
	e.mutex.Unlock()

	if e.eventManager != nil {
		e.eventManager.Dispatch(event.TypeScrollToMatch, event.ScrollToMatchData{
			ContextID: e.id,
			Span:      span,
			Position:  start,
			Center:    center,
		})
	}
}

// CollapseSelection drops the selection, leaving the cursor where it is.
func (e *Editor) CollapseSelection() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.selectionManager.ClearSelection()
}

// SelectRange selects [start, end) and moves the cursor to end.
func (e *Editor) SelectRange(start, end types.Position) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.selectionManager.Select(start, end)
	e.cursorManager.SetPosition(end)
}

// Selection returns the selected text, or "".
func (e *Editor) Selection() string {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	start, end, ok := e.selectionManager.GetSelection()
	if !ok {
		return ""
	}
	from := e.buffer.PositionToOffset(start)
	to := e.buffer.PositionToOffset(end)
	return e.buffer.Text()[from:to]
}

// CopySelection copies the selected text to the clipboard.
func (e *Editor) CopySelection() (bool, error) {
	text := e.Selection()
	if text == "" {
		return false, nil
	}
	if err := e.clipboardManager.Copy(text); err != nil {
		return false, err
	}
	return true, nil
}

// ClipboardText returns the clipboard content.
func (e *Editor) ClipboardText() (string, error) {
	return e.clipboardManager.Read()
}

// Load replaces the document with the file at filePath.
func (e *Editor) Load(filePath string) error {
	e.mutex.Lock()
	if err := e.buffer.Load(filePath); err != nil {
		e.mutex.Unlock()
		return err
	}
	e.selectionManager.ClearSelection()
	e.cursorManager.SetPosition(types.Position{})
	e.mutex.Unlock()

	e.historyManager.Clear()
	logger.Infof("Editor %s: loaded %s", e.id, filePath)
	if e.eventManager != nil {
		e.eventManager.Dispatch(event.TypeBufferLoaded, event.BufferLoadedData{ContextID: e.id, FilePath: filePath})
		e.eventManager.Dispatch(event.TypeContentChanged, event.ContextData{ContextID: e.id})
	}
	return nil
}

// Reload re-reads the document from its file.
func (e *Editor) Reload() error {
	path := e.FilePath()
	if path == "" {
		return fmt.Errorf("editor %s has no file to reload", e.id)
	}
	return e.Load(path)
}

// SaveBuffer handles buffer saving, accepting an optional override path.
func (e *Editor) SaveBuffer(filePath ...string) error {
	savePath := ""
	if len(filePath) > 0 {
		savePath = filePath[0]
	}
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.buffer.Save(savePath)
}

// FilePath returns the file backing the document.
func (e *Editor) FilePath() string {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.buffer.FilePath()
}

// IsModified reports unsaved changes.
func (e *Editor) IsModified() bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.buffer.IsModified()
}
