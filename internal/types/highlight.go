package types

// HighlightType distinguishes decoration kinds.
type HighlightType int

const (
	HighlightSearch HighlightType = iota
	HighlightSearchCurrent
)

// StyleName returns the theme style used for the highlight type.
func (t HighlightType) StyleName() string {
	switch t {
	case HighlightSearchCurrent:
		return "SearchHighlightCurrent"
	default:
		return "SearchHighlight"
	}
}

// HighlightRegion marks a range of the document, End exclusive.
type HighlightRegion struct {
	Start Position
	End   Position
	Type  HighlightType
}

// Contains reports whether pos lies within [Start, End).
func (r HighlightRegion) Contains(pos Position) bool {
	return !pos.Before(r.Start) && pos.Before(r.End)
}
