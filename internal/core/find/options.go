package find

// SearchOptions parameterises a scan. It is passed by value into every scan.
type SearchOptions struct {
	RegexMode     bool
	CaseSensitive bool
}

// Settings are behaviour toggles read from the settings provider.
type Settings struct {
	// UseSelectionAsSearch seeds the search text from the host selection when shown.
	UseSelectionAsSearch bool
	// ClearOnHide clears the search text when the panel is hidden.
	ClearOnHide bool
	// ScrollToCenter asks the host to center the revealed match.
	ScrollToCenter bool
}

// Direction selects which way Advance moves.
type Direction int

const (
	DirectionNext Direction = iota
	DirectionPrevious
)

// State is the coarse state of a session.
type State int

const (
	StateIdle      State = iota // no search text
	StateSearching              // search text but no matches
	StateMatched                // at least one match
)

func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateMatched:
		return "matched"
	default:
		return "idle"
	}
}
