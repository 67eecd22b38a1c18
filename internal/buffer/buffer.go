// internal/buffer/buffer.go
package buffer

import (
	"errors"

	"github.com/bethropolis/textfinder/internal/types"
)

var (
	// ErrEditOutOfRange is returned when an edit addresses bytes outside the text.
	ErrEditOutOfRange = errors.New("edit out of range")
	// ErrOverlappingEdits is returned when edits of one batch overlap.
	ErrOverlappingEdits = errors.New("overlapping edits")
)

// Buffer defines the document operations the finder's host needs.
// Offsets are byte offsets into Text().
type Buffer interface {
	Load(filePath string) error
	Save(filePath string) error
	SetText(text string)
	Text() string
	Len() int
	Lines() [][]byte
	Line(index int) ([]byte, error)
	LineCount() int
	OffsetToPosition(offset int) types.Position
	PositionToOffset(pos types.Position) int
	// ApplyEdits applies all edits at once. Every offset is interpreted
	// against the text as it was before the call.
	ApplyEdits(edits []types.Edit) ([]types.EditInfo, error)
	FilePath() string
	IsModified() bool
}
