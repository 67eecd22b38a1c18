// Package highlight turns a session's matches into decoration regions.
package highlight

import (
	"github.com/bethropolis/textfinder/internal/core/find"
	"github.com/bethropolis/textfinder/internal/types"
)

// Document is the part of a document the region builder needs.
type Document interface {
	Len() int
	OffsetToPosition(offset int) types.Position
}

// Regions builds one region per match of a visible cache, marking the match
// at the current index. Spans that end past the document are skipped; they
// belong to a scan of older text.
func Regions(cache find.SearchCache, doc Document) []types.HighlightRegion {
	if !cache.Visible || len(cache.Matches) == 0 {
		return nil
	}
	length := doc.Len()
	regions := make([]types.HighlightRegion, 0, len(cache.Matches))
	for i, span := range cache.Matches {
		if span.To > length {
			continue
		}
		kind := types.HighlightSearch
		if i == cache.Index {
			kind = types.HighlightSearchCurrent
		}
		regions = append(regions, types.HighlightRegion{
			Start: doc.OffsetToPosition(span.From),
			End:   doc.OffsetToPosition(span.To),
			Type:  kind,
		})
	}
	return regions
}

// ForLine returns the regions touching line, clipped to it. Columns past the
// line end are left as is.
func ForLine(regions []types.HighlightRegion, line int) []types.HighlightRegion {
	var out []types.HighlightRegion
	for _, r := range regions {
		if r.Start.Line > line || r.End.Line < line {
			continue
		}
		clipped := r
		if r.Start.Line < line {
			clipped.Start = types.Position{Line: line, Col: 0}
		}
		if r.End.Line > line {
			clipped.End = types.Position{Line: line, Col: -1}
		}
		out = append(out, clipped)
	}
	return out
}
