// internal/buffer/slice_buffer.go
package buffer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/textfinder/internal/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// SliceBuffer stores a document as a slice of lines without their '\n'.
type SliceBuffer struct {
	lines    [][]byte
	filePath string
	modified bool
}

// NewSliceBuffer creates an empty SliceBuffer.
func NewSliceBuffer() *SliceBuffer {
	return &SliceBuffer{
		lines: [][]byte{[]byte("")},
	}
}

// NewSliceBufferFromString creates a buffer holding text.
func NewSliceBufferFromString(text string) *SliceBuffer {
	sb := NewSliceBuffer()
	sb.setLines([]byte(text))
	return sb
}

// Load reads a file into the buffer, replacing existing content.
// A missing file yields an empty buffer bound to filePath.
func (sb *SliceBuffer) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sb.lines = [][]byte{[]byte("")}
			sb.filePath = filePath
			sb.modified = false
			return nil
		}
		return fmt.Errorf("failed to read file '%s': %w", filePath, err)
	}
	sb.setLines(data)
	sb.filePath = filePath
	sb.modified = false
	return nil
}

// setLines splits data on '\n'; the exact bytes round-trip through Bytes.
func (sb *SliceBuffer) setLines(data []byte) {
	parts := bytes.Split(data, []byte("\n"))
	lines := make([][]byte, len(parts))
	for i, part := range parts {
		lines[i] = append([]byte(nil), part...)
	}
	sb.lines = lines
}

// Save writes the buffer to filePath, or to the stored path when empty.
func (sb *SliceBuffer) Save(filePath string) error {
	path := sb.filePath
	if filePath != "" {
		path = filePath
	}
	if path == "" {
		return errors.New("no file path specified for saving")
	}
	if err := os.WriteFile(path, sb.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}
	sb.filePath = path
	sb.modified = false
	return nil
}

// SetText replaces the whole content.
func (sb *SliceBuffer) SetText(text string) {
	sb.setLines([]byte(text))
	sb.modified = true
}

// Bytes joins the lines with '\n'.
func (sb *SliceBuffer) Bytes() []byte {
	return bytes.Join(sb.lines, []byte("\n"))
}

// Text returns the whole document.
func (sb *SliceBuffer) Text() string {
	return string(sb.Bytes())
}

// Len returns the document length in bytes.
func (sb *SliceBuffer) Len() int {
	n := len(sb.lines) - 1 // separators
	for _, line := range sb.lines {
		n += len(line)
	}
	return n
}

// Lines returns the underlying line slices. Callers must not modify them.
func (sb *SliceBuffer) Lines() [][]byte {
	return sb.lines
}

// LineCount returns the number of lines.
func (sb *SliceBuffer) LineCount() int {
	return len(sb.lines)
}

// Line returns the line at index.
func (sb *SliceBuffer) Line(index int) ([]byte, error) {
	if index < 0 || index >= len(sb.lines) {
		return nil, fmt.Errorf("line index %d out of bounds (0-%d)", index, len(sb.lines)-1)
	}
	return sb.lines[index], nil
}

// FilePath returns the path the buffer was loaded from or saved to.
func (sb *SliceBuffer) FilePath() string {
	return sb.filePath
}

// IsModified returns true if the buffer has unsaved changes.
func (sb *SliceBuffer) IsModified() bool {
	return sb.modified
}

// OffsetToPosition converts a byte offset to a line and rune column.
// Offsets are clamped to the document; an offset inside a multi-byte rune
// maps to that rune's column.
func (sb *SliceBuffer) OffsetToPosition(offset int) types.Position {
	if offset <= 0 {
		return types.Position{}
	}
	remaining := offset
	for i, line := range sb.lines {
		if remaining <= len(line) {
			return types.Position{Line: i, Col: byteOffsetToRuneIndex(line, remaining)}
		}
		remaining -= len(line) + 1
	}
	last := len(sb.lines) - 1
	return types.Position{Line: last, Col: utf8.RuneCount(sb.lines[last])}
}

// PositionToOffset converts a line and rune column to a byte offset, clamping
// out-of-range lines and columns.
func (sb *SliceBuffer) PositionToOffset(pos types.Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(sb.lines) {
		return sb.Len()
	}
	offset := 0
	for i := 0; i < pos.Line; i++ {
		offset += len(sb.lines[i]) + 1
	}
	return offset + runeIndexToByteOffset(sb.lines[pos.Line], pos.Col)
}

// ApplyEdits applies a batch of edits atomically. All offsets refer to the
// text before the batch; edits may be given in any order but must not
// overlap. Inserts at the same offset keep their submission order. On error
// the buffer is left untouched.
func (sb *SliceBuffer) ApplyEdits(edits []types.Edit) ([]types.EditInfo, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	source := sb.Text()
	ordered := make([]types.Edit, len(edits))
	copy(ordered, edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].From < ordered[j].From
	})

	prevEnd := 0
	for i, e := range ordered {
		if e.From < 0 || e.To < e.From || e.To > len(source) {
			return nil, fmt.Errorf("edit [%d,%d) with document length %d: %w", e.From, e.To, len(source), ErrEditOutOfRange)
		}
		if i > 0 && e.From < prevEnd {
			return nil, fmt.Errorf("edit [%d,%d) starts before %d: %w", e.From, e.To, prevEnd, ErrOverlappingEdits)
		}
		prevEnd = e.To
	}

	var out strings.Builder
	out.Grow(len(source))
	infos := make([]types.EditInfo, 0, len(ordered))
	cursor := 0
	startPoint := sitter.Point{}
	for _, e := range ordered {
		// Text between edits is unchanged, so the start point in the
		// partially edited document follows from what was written so far.
		gap := source[cursor:e.From]
		startPoint = pointAfter(startPoint, gap)
		start := out.Len() + len(gap)
		out.WriteString(gap)
		out.WriteString(e.Insert)

		infos = append(infos, types.EditInfo{
			StartIndex:     uint32(start),
			OldEndIndex:    uint32(start + (e.To - e.From)),
			NewEndIndex:    uint32(start + len(e.Insert)),
			StartPosition:  startPoint,
			OldEndPosition: pointAfter(startPoint, source[e.From:e.To]),
			NewEndPosition: pointAfter(startPoint, e.Insert),
		})
		startPoint = pointAfter(startPoint, e.Insert)
		cursor = e.To
	}
	out.WriteString(source[cursor:])

	sb.setLines([]byte(out.String()))
	sb.modified = true
	return infos, nil
}

// pointAfter advances p over text. Columns are byte based, as tree-sitter expects.
func pointAfter(p sitter.Point, text string) sitter.Point {
	if nl := strings.LastIndexByte(text, '\n'); nl >= 0 {
		return sitter.Point{
			Row:    p.Row + uint32(strings.Count(text, "\n")),
			Column: uint32(len(text) - nl - 1),
		}
	}
	return sitter.Point{Row: p.Row, Column: p.Column + uint32(len(text))}
}

func runeIndexToByteOffset(line []byte, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	count := 0
	for byteOffset := 0; byteOffset < len(line); {
		if count == runeIndex {
			return byteOffset
		}
		_, size := utf8.DecodeRune(line[byteOffset:])
		byteOffset += size
		count++
	}
	return len(line)
}

func byteOffsetToRuneIndex(line []byte, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset >= len(line) {
		return utf8.RuneCount(line)
	}
	index := 0
	for current := 0; current < byteOffset; {
		_, size := utf8.DecodeRune(line[current:])
		if current+size > byteOffset {
			break
		}
		current += size
		index++
	}
	return index
}

// Ensure SliceBuffer satisfies the Buffer interface
var _ Buffer = (*SliceBuffer)(nil)
