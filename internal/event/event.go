// internal/event/event.go
package event

import "github.com/bethropolis/textfinder/internal/types"

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Document events
	TypeBufferModified // Fired after an edit batch is applied
	TypeBufferLoaded   // Fired after a document is (re)loaded from disk
	TypeContentChanged // Document text changed; sessions must rescan immediately

	// Editing-context events
	TypeActiveContextChanged // Another editing context became active (debounced rescan)
	TypeContextClosed        // An editing context is gone

	// Search events
	TypeMatchesUpdated // A session finished a scan
	TypeScrollToMatch  // A session asked the view to reveal a span
	TypeSelectionCollapsed

	// Settings
	TypeConfigReloaded
)

func (t Type) String() string {
	switch t {
	case TypeBufferModified:
		return "BufferModified"
	case TypeBufferLoaded:
		return "BufferLoaded"
	case TypeContentChanged:
		return "ContentChanged"
	case TypeActiveContextChanged:
		return "ActiveContextChanged"
	case TypeContextClosed:
		return "ContextClosed"
	case TypeMatchesUpdated:
		return "MatchesUpdated"
	case TypeScrollToMatch:
		return "ScrollToMatch"
	case TypeSelectionCollapsed:
		return "SelectionCollapsed"
	case TypeConfigReloaded:
		return "ConfigReloaded"
	}
	return "Unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// BufferModifiedData describes an applied edit batch.
type BufferModifiedData struct {
	ContextID string
	Edits     []types.EditInfo
}

// BufferLoadedData names the file a document was loaded from.
type BufferLoadedData struct {
	ContextID string
	FilePath  string
}

// ContextData identifies an editing context.
type ContextData struct {
	ContextID string
}

// MatchesUpdatedData reports the outcome of a scan.
type MatchesUpdatedData struct {
	ContextID string
	Search    string
	Count     int
	Index     int
}

// ScrollToMatchData carries the span to reveal.
type ScrollToMatchData struct {
	ContextID string
	Span      types.MatchSpan
	Position  types.Position
	Center    bool
}

// ConfigReloadedData carries the path of the reloaded settings file.
type ConfigReloadedData struct {
	FilePath string
}
