package cursor

import (
	"testing"

	"github.com/bethropolis/textfinder/internal/buffer"
	"github.com/bethropolis/textfinder/internal/types"
	"github.com/stretchr/testify/assert"
)

type fakeEditor struct {
	buf buffer.Buffer
}

func (f fakeEditor) GetBuffer() buffer.Buffer { return f.buf }

func lines(n int) string {
	text := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			text += "\n"
		}
		text += "line"
	}
	return text
}

func TestSetPositionClamps(t *testing.T) {
	m := NewManager(fakeEditor{buffer.NewSliceBufferFromString("ab\nc")}, 0)

	m.SetPosition(types.Position{Line: 5, Col: 9})
	assert.Equal(t, types.Position{Line: 1, Col: 1}, m.Position())

	m.SetPosition(types.Position{Line: -1, Col: -1})
	assert.Equal(t, types.Position{}, m.Position())
}

func TestScrollToCursorKeepsScrollOff(t *testing.T) {
	m := NewManager(fakeEditor{buffer.NewSliceBufferFromString(lines(100))}, 3)
	m.SetViewSize(80, 10)

	m.SetPosition(types.Position{Line: 50})
	m.ScrollToCursor()
	top, _ := m.Viewport()
	assert.Equal(t, 44, top)

	m.SetPosition(types.Position{Line: 40})
	m.ScrollToCursor()
	top, _ = m.Viewport()
	assert.Equal(t, 37, top)
}

func TestCenterOnCursor(t *testing.T) {
	m := NewManager(fakeEditor{buffer.NewSliceBufferFromString(lines(100))}, 3)
	m.SetViewSize(80, 10)

	m.SetPosition(types.Position{Line: 50})
	m.CenterOnCursor()
	top, _ := m.Viewport()
	assert.Equal(t, 45, top)

	m.SetPosition(types.Position{Line: 2})
	m.CenterOnCursor()
	top, _ = m.Viewport()
	assert.Equal(t, 0, top)
}

func TestVisualColumn(t *testing.T) {
	assert.Equal(t, 0, VisualColumn([]byte("abc"), 0))
	assert.Equal(t, 2, VisualColumn([]byte("abc"), 2))
	assert.Equal(t, 4, VisualColumn([]byte("日本語"), 2))
}
