package history

import (
	"errors"
	"testing"

	"github.com/bethropolis/textfinder/internal/buffer"
	"github.com/bethropolis/textfinder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEditor struct {
	buf    *buffer.SliceBuffer
	cursor int
	err    error
}

func (f *fakeEditor) ReplayEdits(edits []types.Edit) error {
	if f.err != nil {
		return f.err
	}
	_, err := f.buf.ApplyEdits(edits)
	return err
}

func (f *fakeEditor) SetCursorOffset(offset int) {
	f.cursor = offset
}

func (f *fakeEditor) apply(t *testing.T, m *Manager, edits []types.Edit) {
	t.Helper()
	change := NewChange(f.buf.Text(), edits, f.cursor)
	_, err := f.buf.ApplyEdits(edits)
	require.NoError(t, err)
	m.RecordChange(change)
}

func TestNewChangeInverse(t *testing.T) {
	source := "aa bb aa"
	edits := []types.Edit{
		{From: 6, To: 8, Insert: "XYZ"},
		{From: 0, To: 2, Insert: "X"},
	}
	change := NewChange(source, edits, 0)

	assert.Equal(t, []types.Edit{{From: 0, To: 2, Insert: "X"}, {From: 6, To: 8, Insert: "XYZ"}}, change.Edits)
	assert.Equal(t, []types.Edit{{From: 0, To: 1, Insert: "aa"}, {From: 5, To: 8, Insert: "aa"}}, change.Inverse)

	buf := buffer.NewSliceBufferFromString(source)
	_, err := buf.ApplyEdits(change.Edits)
	require.NoError(t, err)
	assert.Equal(t, "X bb XYZ", buf.Text())
	_, err = buf.ApplyEdits(change.Inverse)
	require.NoError(t, err)
	assert.Equal(t, source, buf.Text())
}

func TestUndo(t *testing.T) {
	ed := &fakeEditor{buf: buffer.NewSliceBufferFromString("one two")}
	m := NewManager(ed, 0)
	assert.False(t, m.CanUndo())

	ed.apply(t, m, []types.Edit{{From: 4, To: 7, Insert: "2"}})
	ed.apply(t, m, []types.Edit{{From: 0, To: 3, Insert: "1"}, {From: 4, To: 5, Insert: "!"}})
	assert.Equal(t, "1 !", ed.buf.Text())

	ok, err := m.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "one 2", ed.buf.Text())

	ok, err = m.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "one two", ed.buf.Text())

	ok, err = m.Undo()
	require.NoError(t, err)
	assert.False(t, ok)

	// A new change replaces the undone ones.
	ed.apply(t, m, []types.Edit{{From: 0, To: 0, Insert: ">"}})
	assert.True(t, m.CanUndo())
	ok, err = m.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "one two", ed.buf.Text())
	assert.False(t, m.CanUndo())

	m.Clear()
	assert.False(t, m.CanUndo())
}

func TestUndoFailureKeepsIndex(t *testing.T) {
	ed := &fakeEditor{buf: buffer.NewSliceBufferFromString("abc")}
	m := NewManager(ed, 0)
	ed.apply(t, m, []types.Edit{{From: 0, To: 1, Insert: "z"}})

	ed.err = errors.New("locked")
	_, err := m.Undo()
	assert.ErrorIs(t, err, ed.err)
	assert.True(t, m.CanUndo())
}

func TestMaxHistory(t *testing.T) {
	ed := &fakeEditor{buf: buffer.NewSliceBufferFromString("")}
	m := NewManager(ed, 2)
	for i := 0; i < 3; i++ {
		ed.apply(t, m, []types.Edit{{From: 0, To: 0, Insert: "x"}})
	}

	for i := 0; i < 2; i++ {
		ok, err := m.Undo()
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, _ := m.Undo()
	assert.False(t, ok)
	assert.Equal(t, "x", ed.buf.Text())
}
