package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/textfinder/internal/buffer"
	"github.com/bethropolis/textfinder/internal/core/find"
	"github.com/bethropolis/textfinder/internal/event"
	"github.com/bethropolis/textfinder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ find.Host = (*Editor)(nil)

func newTestEditor(text string) (*Editor, *event.Manager) {
	events := event.NewManager()
	ed := NewEditor(buffer.NewSliceBufferFromString(text))
	ed.SetEventManager(events)
	return ed, events
}

func TestEditorApplyEditsDispatches(t *testing.T) {
	ed, events := newTestEditor("aa bb\naa")

	var modified []event.BufferModifiedData
	var changed int
	events.Subscribe(event.TypeBufferModified, func(e event.Event) bool {
		modified = append(modified, e.Data.(event.BufferModifiedData))
		return false
	})
	events.Subscribe(event.TypeContentChanged, func(e event.Event) bool {
		changed++
		return false
	})

	require.NoError(t, ed.ApplyEdits([]types.Edit{{From: 0, To: 2, Insert: "X"}, {From: 6, To: 8, Insert: "Y"}}))
	assert.Equal(t, "X bb\nY", ed.Text())
	assert.Equal(t, 1, changed)
	require.Len(t, modified, 1)
	assert.Equal(t, ed.ID(), modified[0].ContextID)
	require.Len(t, modified[0].Edits, 2)
	second := modified[0].Edits[1]
	assert.Equal(t, uint32(5), second.StartIndex)
	assert.Equal(t, uint32(1), second.StartPosition.Row)
	assert.Equal(t, types.Position{Line: 1, Col: 1}, ed.GetCursor())
}

func TestEditorApplyEditsRejectsOverlap(t *testing.T) {
	ed, _ := newTestEditor("abcdef")
	err := ed.ApplyEdits([]types.Edit{{From: 0, To: 3, Insert: "x"}, {From: 2, To: 4, Insert: "y"}})
	assert.ErrorIs(t, err, buffer.ErrOverlappingEdits)
	assert.Equal(t, "abcdef", ed.Text())
}

func TestEditorUndo(t *testing.T) {
	ed, _ := newTestEditor("one two one")
	require.NoError(t, ed.ApplyEdits([]types.Edit{{From: 0, To: 3, Insert: "1"}, {From: 8, To: 11, Insert: "1"}}))
	assert.Equal(t, "1 two 1", ed.Text())

	ok, err := ed.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "one two one", ed.Text())

	ok, err = ed.Undo()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEditorScrollToAndSelection(t *testing.T) {
	ed, events := newTestEditor("alpha\nbeta gamma")
	var scrolled []event.ScrollToMatchData
	events.Subscribe(event.TypeScrollToMatch, func(e event.Event) bool {
		scrolled = append(scrolled, e.Data.(event.ScrollToMatchData))
		return false
	})

	span := types.MatchSpan{From: 11, To: 16}
	ed.ScrollTo(span, true)
	assert.Equal(t, "gamma", ed.Selection())
	assert.Equal(t, types.Position{Line: 1, Col: 10}, ed.GetCursor())
	require.Len(t, scrolled, 1)
	assert.Equal(t, types.Position{Line: 1, Col: 5}, scrolled[0].Position)
	assert.True(t, scrolled[0].Center)

	copied, err := ed.CopySelection()
	require.NoError(t, err)
	assert.True(t, copied)
	text, err := ed.ClipboardText()
	require.NoError(t, err)
	assert.Equal(t, "gamma", text)

	ed.CollapseSelection()
	assert.Equal(t, "", ed.Selection())
}

func TestEditorDrivesSession(t *testing.T) {
	ed, events := newTestEditor("aa bb aa")
	manager := find.NewManager(find.ManagerOptions{})
	manager.Attach(events)
	session := manager.OpenWithID(ed.ID(), ed)

	session.SetSearchText("aa")
	assert.Equal(t, "aa", ed.Selection())

	result, err := session.ReplaceAll("X")
	require.NoError(t, err)
	assert.Equal(t, "X bb X", ed.Text())
	assert.Equal(t, 2, result.ChangeCount)

	// Undo goes through the content-changed path and rescans.
	_, err = ed.Undo()
	require.NoError(t, err)
	assert.Len(t, session.Cache().Matches, 2)
}

func TestEditorLoadReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o644))

	ed, events := newTestEditor("")
	var loaded []string
	events.Subscribe(event.TypeBufferLoaded, func(e event.Event) bool {
		loaded = append(loaded, e.Data.(event.BufferLoadedData).FilePath)
		return false
	})

	require.NoError(t, ed.Load(path))
	assert.Equal(t, "first", ed.Text())
	assert.Equal(t, path, ed.FilePath())

	require.NoError(t, os.WriteFile(path, []byte("second"), 0o644))
	require.NoError(t, ed.Reload())
	assert.Equal(t, "second", ed.Text())
	assert.Equal(t, []string{path, path}, loaded)

	require.NoError(t, ed.SetText("third"))
	assert.True(t, ed.IsModified())
	require.NoError(t, ed.SaveBuffer())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "third", string(data))
}
