package highlight

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/textfinder/internal/types"
)

// ShiftSpans moves spans through a sequence of edits, each given relative to
// the text left by the edits before it. Spans after an edit move by its
// length delta; spans overlapping the replaced range are dropped. current is
// the position in spans of the current match; the returned index follows it,
// or is -1 when that span was dropped.
func ShiftSpans(spans []types.MatchSpan, current int, edits []sitter.EditInput) ([]types.MatchSpan, int) {
	out := make([]types.MatchSpan, len(spans))
	copy(out, spans)
	for _, edit := range edits {
		start, oldEnd := int(edit.StartIndex), int(edit.OldEndIndex)
		delta := int(edit.NewEndIndex) - oldEnd
		kept := make([]types.MatchSpan, 0, len(out))
		next := -1
		for i, span := range out {
			switch {
			case span.To <= start:
			case span.From >= oldEnd:
				span.From += delta
				span.To += delta
			default:
				continue
			}
			if i == current {
				next = len(kept)
			}
			kept = append(kept, span)
		}
		out, current = kept, next
	}
	for i := range out {
		out[i].Index = i
	}
	return out, current
}
