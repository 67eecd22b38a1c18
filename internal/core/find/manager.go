package find

import (
	"sort"
	"sync"
	"time"

	"github.com/bethropolis/textfinder/internal/config"
	"github.com/bethropolis/textfinder/internal/event"
	"github.com/bethropolis/textfinder/internal/logger"
)

// ManagerOptions configures the sessions a Manager opens.
type ManagerOptions struct {
	Options  SearchOptions
	Settings Settings
	Debounce time.Duration // delay of rescans after an active-context switch
	Sink     DiagnosticSink
	Events   *event.Manager
}

// OptionsFromConfig maps the [search] settings table onto manager options.
func OptionsFromConfig(cfg config.SearchConfig, events *event.Manager) ManagerOptions {
	return ManagerOptions{
		Options: SearchOptions{
			RegexMode:     cfg.RegexMode,
			CaseSensitive: cfg.CaseSensitive,
		},
		Settings: Settings{
			UseSelectionAsSearch: cfg.UseSelectionAsSearch,
			ClearOnHide:          cfg.ClearOnHide,
			ScrollToCenter:       cfg.ScrollToCenter,
		},
		Debounce: cfg.Debounce(),
		Events:   events,
	}
}

// Manager keeps one Session per editing context.
type Manager struct {
	mutex     sync.RWMutex
	opts      ManagerOptions
	sessions  map[string]*Session
	debouncer event.Debouncer
}

// NewManager creates a manager with no sessions.
func NewManager(opts ManagerOptions) *Manager {
	if opts.Debounce <= 0 {
		opts.Debounce = config.DefaultDebounce
	}
	return &Manager{
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Open creates a session for host under a fresh id.
func (m *Manager) Open(host Host) *Session {
	return m.OpenWithID("", host)
}

// OpenWithID creates a session for host under id, or returns the existing
// one. An empty id is replaced by a generated one.
func (m *Manager) OpenWithID(id string, host Host) *Session {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if s, ok := m.sessions[id]; ok && id != "" {
		return s
	}
	s := NewSession(host, SessionConfig{
		ID:       id,
		Options:  m.opts.Options,
		Settings: m.opts.Settings,
		Sink:     m.opts.Sink,
		Events:   m.opts.Events,
	})
	m.sessions[s.ID()] = s
	logger.Debugf("Find manager: opened session %s", s.ID())
	return s
}

// Get returns the session for id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close forgets the session for id.
func (m *Manager) Close(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		logger.Debugf("Find manager: closed session %s", id)
	}
}

// Sessions returns all open sessions ordered by id.
func (m *Manager) Sessions() []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID() < list[j].ID() })
	return list
}

// SetOptions applies new search options to every session.
func (m *Manager) SetOptions(opts SearchOptions) {
	m.mutex.Lock()
	m.opts.Options = opts
	m.mutex.Unlock()

	for _, s := range m.Sessions() {
		s.SetOptions(opts)
	}
}

// Configure applies a reloaded [search] table to the manager and its sessions.
func (m *Manager) Configure(cfg config.SearchConfig) {
	next := OptionsFromConfig(cfg, nil)
	m.mutex.Lock()
	m.opts.Settings = next.Settings
	if next.Debounce > 0 {
		m.opts.Debounce = next.Debounce
	}
	m.mutex.Unlock()

	for _, s := range m.Sessions() {
		s.SetSettings(next.Settings)
	}
	m.SetOptions(next.Options)
}

// Attach subscribes the manager to document and context events.
// Content changes rescan immediately without scrolling; activating a
// context rescans after the debounce window and reveals the current match.
func (m *Manager) Attach(events *event.Manager) {
	events.Subscribe(event.TypeContentChanged, func(e event.Event) bool {
		if s, ok := m.sessionFor(e); ok {
			s.Refresh(false)
		}
		return false
	})
	events.Subscribe(event.TypeActiveContextChanged, func(e event.Event) bool {
		s, ok := m.sessionFor(e)
		if !ok {
			return false
		}
		m.mutex.RLock()
		delay := m.opts.Debounce
		m.mutex.RUnlock()
		m.debouncer.Debounce(delay, func() { s.Refresh(true) })
		return false
	})
	events.Subscribe(event.TypeContextClosed, func(e event.Event) bool {
		if data, ok := e.Data.(event.ContextData); ok {
			m.Close(data.ContextID)
		}
		return false
	})
}

// Stop cancels a pending debounced rescan.
func (m *Manager) Stop() {
	m.debouncer.Stop()
}

func (m *Manager) sessionFor(e event.Event) (*Session, bool) {
	var id string
	switch data := e.Data.(type) {
	case event.ContextData:
		id = data.ContextID
	case event.BufferLoadedData:
		id = data.ContextID
	default:
		logger.WarnTagf("event", "Find manager: unexpected data %T for %v", e.Data, e.Type)
		return nil, false
	}
	return m.Get(id)
}
