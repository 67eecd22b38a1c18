package find

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/bethropolis/textfinder/internal/event"
	"github.com/bethropolis/textfinder/internal/logger"
	"github.com/bethropolis/textfinder/internal/types"
	"github.com/google/uuid"
)

// Host is the editing context a session searches in.
//
// ScrollTo, CollapseSelection and ApplyEdits are always called without the
// session lock held, so a host may dispatch events that lead back into the
// session.
type Host interface {
	// Text returns the current full document text.
	Text() string
	// ApplyEdits applies all edits atomically; offsets refer to the pre-edit text.
	ApplyEdits(edits []types.Edit) error
	// ScrollTo selects and reveals span.
	ScrollTo(span types.MatchSpan, center bool)
	// CollapseSelection collapses any active selection to a neutral position.
	CollapseSelection()
	// Selection returns the selected text, or "".
	Selection() string
}

// SearchCache is the state owned by a session.
type SearchCache struct {
	Search   string
	Replace  string
	Index    int
	Matches  []types.MatchSpan
	Visible  bool
	Collapse bool
	Options  SearchOptions
}

// SessionConfig carries the collaborators and initial settings of a session.
type SessionConfig struct {
	ID       string // generated when empty
	Options  SearchOptions
	Settings Settings
	Sink     DiagnosticSink // LogSink when nil
	Events   *event.Manager // optional, receives MatchesUpdated/ScrollToMatch
}

// Session is the stateful search controller of one editing context.
type Session struct {
	id       string
	host     Host
	sink     DiagnosticSink
	events   *event.Manager
	mutex    sync.Mutex
	cache    SearchCache
	settings Settings
	pattern  *regexp.Regexp // compiled search text, regex mode only
}

// NewSession creates a session with no search text and no matches.
func NewSession(host Host, cfg SessionConfig) *Session {
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	sink := cfg.Sink
	if sink == nil {
		sink = LogSink{}
	}
	return &Session{
		id:       id,
		host:     host,
		sink:     sink,
		events:   cfg.Events,
		settings: cfg.Settings,
		cache: SearchCache{
			Matches:  []types.MatchSpan{},
			Collapse: true,
			Options:  cfg.Options,
		},
	}
}

// ID identifies the session's editing context.
func (s *Session) ID() string {
	return s.id
}

// Cache returns a copy of the session state.
func (s *Session) Cache() SearchCache {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c := s.cache
	c.Matches = append([]types.MatchSpan(nil), s.cache.Matches...)
	return c
}

// State reports whether the session is idle, searching or matched.
func (s *Session) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	switch {
	case s.cache.Search == "":
		return StateIdle
	case len(s.cache.Matches) == 0:
		return StateSearching
	default:
		return StateMatched
	}
}

// CurrentMatch returns the span at the current index.
func (s *Session) CurrentMatch() (types.MatchSpan, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.currentLocked()
}

func (s *Session) currentLocked() (types.MatchSpan, bool) {
	if len(s.cache.Matches) == 0 {
		return types.MatchSpan{}, false
	}
	return s.cache.Matches[s.cache.Index], true
}

// SetSearchText updates the search text and rescans the document.
// An empty text clears the matches. The current match is revealed afterwards.
func (s *Session) SetSearchText(text string) {
	s.mutex.Lock()
	s.cache.Search = text
	s.compileLocked()
	s.scanLocked()
	s.mutex.Unlock()

	s.afterScan(true)
}

// Refresh rescans the document with the current search text. Content
// changes refresh without scrolling; context switches refresh with it.
func (s *Session) Refresh(scroll bool) {
	s.mutex.Lock()
	s.scanLocked()
	s.mutex.Unlock()

	s.afterScan(scroll)
}

// SetOptions replaces the search options and rescans.
func (s *Session) SetOptions(opts SearchOptions) {
	s.mutex.Lock()
	if s.cache.Options == opts {
		s.mutex.Unlock()
		return
	}
	s.cache.Options = opts
	s.compileLocked()
	s.scanLocked()
	s.mutex.Unlock()

	s.afterScan(true)
}

// SetSettings replaces the behaviour toggles.
func (s *Session) SetSettings(settings Settings) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.settings = settings
}

// SetReplaceText stores the replacement text shown in the panel.
func (s *Session) SetReplaceText(text string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.cache.Replace = text
}

// compileLocked caches the compiled pattern used for regex replacements.
// Compilation errors are reported by the scan.
func (s *Session) compileLocked() {
	s.pattern = nil
	if !s.cache.Options.RegexMode || s.cache.Search == "" {
		return
	}
	if re, err := CompilePattern(s.cache.Search, s.cache.Options.CaseSensitive); err == nil {
		s.pattern = re
	}
}

// scanLocked replaces the match list with a fresh scan of the host text and
// revalidates the index.
func (s *Session) scanLocked() {
	if s.cache.Search == "" {
		s.cache.Matches = []types.MatchSpan{}
	} else if s.pattern != nil {
		s.cache.Matches = FindRegexOffsets(s.host.Text(), s.pattern)
	} else {
		s.cache.Matches = FindOffsetsReport(s.host.Text(), s.cache.Search, s.cache.Options, s.sink)
	}
	if s.cache.Index < 0 || s.cache.Index >= len(s.cache.Matches) {
		s.cache.Index = 0
	}
	logger.DebugTagf("scan", "Session %s: %d match(es) for %q, index %d",
		s.id, len(s.cache.Matches), s.cache.Search, s.cache.Index)
}

// afterScan publishes the scan result and optionally reveals the current match.
func (s *Session) afterScan(scroll bool) {
	s.mutex.Lock()
	current, ok := s.currentLocked()
	update := event.MatchesUpdatedData{
		ContextID: s.id,
		Search:    s.cache.Search,
		Count:     len(s.cache.Matches),
		Index:     s.cache.Index,
	}
	center := s.settings.ScrollToCenter
	s.mutex.Unlock()

	if s.events != nil {
		s.events.Dispatch(event.TypeMatchesUpdated, update)
	}
	if scroll && ok {
		s.host.ScrollTo(current, center)
	}
}

// Next moves to the next match, wrapping around.
func (s *Session) Next() {
	s.Advance(DirectionNext)
}

// Previous moves to the previous match, wrapping around.
func (s *Session) Previous() {
	s.Advance(DirectionPrevious)
}

// Advance moves the current index circularly. With no matches it does
// nothing, not even scroll.
func (s *Session) Advance(direction Direction) {
	s.mutex.Lock()
	n := len(s.cache.Matches)
	if n == 0 {
		s.cache.Index = 0
		s.mutex.Unlock()
		return
	}
	switch direction {
	case DirectionPrevious:
		s.cache.Index = (s.cache.Index - 1 + n) % n
	default:
		s.cache.Index = (s.cache.Index + 1) % n
	}
	current := s.cache.Matches[s.cache.Index]
	center := s.settings.ScrollToCenter
	s.mutex.Unlock()

	s.host.ScrollTo(current, center)
}

// Clear drops the matches and resets the index, optionally clearing the
// search text too, and collapses the host selection.
func (s *Session) Clear(alsoClearSearchText bool) {
	s.mutex.Lock()
	s.cache.Matches = []types.MatchSpan{}
	s.cache.Index = 0
	if alsoClearSearchText {
		s.cache.Search = ""
		s.pattern = nil
	}
	s.mutex.Unlock()

	s.host.CollapseSelection()
	if s.events != nil {
		s.events.Dispatch(event.TypeSelectionCollapsed, event.ContextData{ContextID: s.id})
	}
	s.afterScan(false)
}

// ReplaceCurrent replaces the current match and rescans. The cursor moves to
// the first match that ends after the inserted text.
func (s *Session) ReplaceCurrent(replaceText string) error {
	s.mutex.Lock()
	current, ok := s.currentLocked()
	if !ok {
		s.mutex.Unlock()
		return nil
	}
	source := s.host.Text()
	if current.To > len(source) {
		// The host changed under us without a notification.
		s.scanLocked()
		s.mutex.Unlock()
		s.afterScan(false)
		return nil
	}
	value := newReplacer(s.pattern, source, replaceText).value(current)
	s.cache.Replace = replaceText
	s.mutex.Unlock()

	if err := s.host.ApplyEdits([]types.Edit{{From: current.From, To: current.To, Insert: value}}); err != nil {
		return fmt.Errorf("replace match %d: %w", current.Index, err)
	}
	logger.DebugTagf("replace", "Session %s: replaced [%d,%d) with %q", s.id, current.From, current.To, value)

	s.mutex.Lock()
	s.scanLocked()
	if next := IndexAfterOffset(current, s.cache.Matches, len(value)); next >= 0 {
		s.cache.Index = next
	} else {
		s.cache.Index = 0
	}
	s.mutex.Unlock()

	s.afterScan(true)
	return nil
}

// ReplaceAll replaces every match in one atomic edit batch. Replacements are
// computed against the text the matches were found in.
func (s *Session) ReplaceAll(replaceText string) (ReplaceResult, error) {
	s.mutex.Lock()
	result := ReplaceResult{
		Search:      s.cache.Search,
		Replace:     replaceText,
		BeforeCount: len(s.cache.Matches),
	}
	if len(s.cache.Matches) == 0 {
		s.mutex.Unlock()
		return result, nil
	}
	s.cache.Replace = replaceText

	source := s.host.Text()
	result.ReplaceValues = make([]string, 0, len(s.cache.Matches))
	edits := make([]types.Edit, 0, len(s.cache.Matches))
	r := newReplacer(s.pattern, source, replaceText)
	for _, span := range s.cache.Matches {
		if span.To > len(source) {
			break
		}
		matched := source[span.From:span.To]
		value := r.value(span)
		result.ReplaceValues = append(result.ReplaceValues, value)
		if value != matched {
			edits = append(edits, types.Edit{From: span.From, To: span.To, Insert: value})
		}
	}
	s.mutex.Unlock()

	if len(edits) > 0 {
		if err := s.host.ApplyEdits(edits); err != nil {
			return result, fmt.Errorf("replace all %d match(es): %w", len(edits), err)
		}
	}
	result.ChangeCount = len(edits)
	result.Changed = len(edits) > 0

	s.mutex.Lock()
	s.scanLocked()
	result.AfterCount = len(s.cache.Matches)
	s.mutex.Unlock()

	logger.DebugTagf("replace", "Session %s: replace all %q -> %q, %d edit(s), %d -> %d match(es)",
		s.id, result.Search, replaceText, result.ChangeCount, result.BeforeCount, result.AfterCount)
	s.afterScan(true)
	return result, nil
}

// SetVisible shows or hides the panel. Showing seeds the search text from
// seed, or from the host selection when enabled; hiding clears the search
// text when ClearOnHide is set.
func (s *Session) SetVisible(visible bool, seed string) {
	s.mutex.Lock()
	s.cache.Visible = visible
	settings := s.settings
	s.mutex.Unlock()

	if !visible {
		if settings.ClearOnHide {
			s.Clear(true)
		} else {
			s.afterScan(false)
		}
		return
	}

	if seed == "" && settings.UseSelectionAsSearch {
		seed = s.host.Selection()
	}
	if seed != "" {
		s.SetSearchText(seed)
		return
	}
	s.Refresh(true)
}

// ToggleVisible flips the panel visibility without seeding.
func (s *Session) ToggleVisible() {
	s.mutex.Lock()
	visible := s.cache.Visible
	s.mutex.Unlock()
	if visible {
		s.SetVisible(false, "")
		return
	}
	s.mutex.Lock()
	s.cache.Visible = true
	s.mutex.Unlock()
	s.Refresh(true)
}

// SetCollapse collapses or expands the replace row.
func (s *Session) SetCollapse(collapse bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.cache.Collapse = collapse
}

// ToggleCollapse flips the replace row.
func (s *Session) ToggleCollapse() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.cache.Collapse = !s.cache.Collapse
}
