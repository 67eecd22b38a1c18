package types

// MatchSpan is one match found by a scan.
// From and To are byte offsets into the scanned text (To exclusive).
// Index is the rank of the span among all spans of the same scan.
type MatchSpan struct {
	From  int
	To    int
	Index int
}

// Len returns the number of bytes covered by the span.
func (s MatchSpan) Len() int {
	return s.To - s.From
}

// Empty reports whether the span is a zero-width match.
func (s MatchSpan) Empty() bool {
	return s.From == s.To
}
