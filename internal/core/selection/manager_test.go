package selection

import (
	"testing"

	"github.com/bethropolis/textfinder/internal/types"
	"github.com/stretchr/testify/assert"
)

type cursorStub struct{ pos types.Position }

func (c *cursorStub) GetCursor() types.Position { return c.pos }

func TestSelectionLifecycle(t *testing.T) {
	cur := &cursorStub{pos: types.Position{Line: 2, Col: 4}}
	m := NewManager(cur)
	assert.False(t, m.HasSelection())

	m.StartOrUpdateSelection()
	assert.True(t, m.IsSelecting())
	assert.False(t, m.HasSelection(), "anchor alone selects nothing")

	cur.pos = types.Position{Line: 1, Col: 0}
	m.StartOrUpdateSelection()
	start, end, ok := m.GetSelection()
	assert.True(t, ok)
	assert.Equal(t, types.Position{Line: 1, Col: 0}, start)
	assert.Equal(t, types.Position{Line: 2, Col: 4}, end)

	m.ClearSelection()
	_, _, ok = m.GetSelection()
	assert.False(t, ok)
}

func TestSelect(t *testing.T) {
	m := NewManager(&cursorStub{})
	m.Select(types.Position{Line: 0, Col: 3}, types.Position{Line: 0, Col: 6})
	start, end, ok := m.GetSelection()
	assert.True(t, ok)
	assert.Equal(t, 3, start.Col)
	assert.Equal(t, 6, end.Col)
}
