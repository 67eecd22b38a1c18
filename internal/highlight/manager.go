package highlight

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/textfinder/internal/core/find"
	"github.com/bethropolis/textfinder/internal/event"
	"github.com/bethropolis/textfinder/internal/logger"
	"github.com/bethropolis/textfinder/internal/types"
)

// Lookup resolves a context id to its session and document.
type Lookup func(contextID string) (*find.Session, Document, bool)

// Manager keeps the decoration regions of every context up to date with
// its session's matches. Between an edit and the next scan the last known
// matches are moved along with the text.
type Manager struct {
	lookup  Lookup
	mu      sync.RWMutex
	regions map[string][]types.HighlightRegion
	matches map[string]find.SearchCache
	redraw  func(contextID string)
}

// NewManager creates a manager. redraw, when set, is called after the
// regions of a context changed.
func NewManager(lookup Lookup, redraw func(contextID string)) *Manager {
	return &Manager{
		lookup:  lookup,
		regions: make(map[string][]types.HighlightRegion),
		matches: make(map[string]find.SearchCache),
		redraw:  redraw,
	}
}

// Attach recomputes regions whenever a session publishes a scan or the
// view moves to another match, and shifts them when a buffer is edited.
func (m *Manager) Attach(events *event.Manager) {
	events.Subscribe(event.TypeBufferModified, func(e event.Event) bool {
		if data, ok := e.Data.(event.BufferModifiedData); ok {
			edits := make([]sitter.EditInput, 0, len(data.Edits))
			for _, info := range data.Edits {
				edits = append(edits, info.InputEdit())
			}
			m.Shift(data.ContextID, edits)
		}
		return false
	})
	events.Subscribe(event.TypeMatchesUpdated, func(e event.Event) bool {
		if data, ok := e.Data.(event.MatchesUpdatedData); ok {
			m.Update(data.ContextID)
		}
		return false
	})
	events.Subscribe(event.TypeScrollToMatch, func(e event.Event) bool {
		if data, ok := e.Data.(event.ScrollToMatchData); ok {
			m.Update(data.ContextID)
		}
		return false
	})
	events.Subscribe(event.TypeContextClosed, func(e event.Event) bool {
		if data, ok := e.Data.(event.ContextData); ok {
			m.mu.Lock()
			delete(m.regions, data.ContextID)
			delete(m.matches, data.ContextID)
			m.mu.Unlock()
		}
		return false
	})
}

// Update rebuilds the regions of one context from its session.
func (m *Manager) Update(contextID string) {
	session, doc, ok := m.lookup(contextID)
	if !ok {
		return
	}
	cache := session.Cache()
	m.store(contextID, cache, Regions(cache, doc))
}

// Shift moves the stored matches of a context through an edit batch and
// rebuilds its regions against the edited document.
func (m *Manager) Shift(contextID string, edits []sitter.EditInput) {
	if len(edits) == 0 {
		return
	}
	_, doc, ok := m.lookup(contextID)
	if !ok {
		return
	}
	m.mu.RLock()
	cache, known := m.matches[contextID]
	m.mu.RUnlock()
	if !known || !cache.Visible {
		return
	}
	before := len(cache.Matches)
	cache.Matches, cache.Index = ShiftSpans(cache.Matches, cache.Index, edits)
	logger.DebugTagf("highlight", "Highlight: %s edited from row %d, %d of %d match(es) kept",
		contextID, edits[0].StartPoint.Row, len(cache.Matches), before)
	m.store(contextID, cache, Regions(cache, doc))
}

func (m *Manager) store(contextID string, cache find.SearchCache, regions []types.HighlightRegion) {
	m.mu.Lock()
	m.regions[contextID] = regions
	m.matches[contextID] = cache
	m.mu.Unlock()

	logger.DebugTagf("highlight", "Highlight: %d region(s) for %s", len(regions), contextID)
	if m.redraw != nil {
		m.redraw(contextID)
	}
}

// Regions returns a copy of the regions of a context.
func (m *Manager) Regions(contextID string) []types.HighlightRegion {
	m.mu.RLock()
	defer m.mu.RUnlock()
	regions := m.regions[contextID]
	out := make([]types.HighlightRegion, len(regions))
	copy(out, regions)
	return out
}
