// Package history provides undo via a change history stack.
package history

import (
	"sort"

	"github.com/bethropolis/textfinder/internal/types"
)

// Change is one applied edit batch together with the batch that reverts it.
type Change struct {
	Edits        []types.Edit // as applied, offsets against the text before
	Inverse      []types.Edit // offsets against the text after
	CursorBefore int          // cursor byte offset before the batch
}

// NewChange builds the Change for applying edits to source.
// Edits must be valid for source and non-overlapping.
func NewChange(source string, edits []types.Edit, cursorBefore int) Change {
	ordered := make([]types.Edit, len(edits))
	copy(ordered, edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].From < ordered[j].From
	})

	inverse := make([]types.Edit, 0, len(ordered))
	delta := 0
	for _, e := range ordered {
		from := e.From + delta
		inverse = append(inverse, types.Edit{
			From:   from,
			To:     from + len(e.Insert),
			Insert: source[e.From:e.To],
		})
		delta += len(e.Insert) - (e.To - e.From)
	}

	return Change{
		Edits:        ordered,
		Inverse:      inverse,
		CursorBefore: cursorBefore,
	}
}
