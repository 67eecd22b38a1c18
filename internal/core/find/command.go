package find

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPattern is returned for a substitute command without a pattern.
var ErrEmptyPattern = errors.New("search pattern cannot be empty")

// Substitution is a parsed /pattern/replacement/[flags] command.
type Substitution struct {
	Pattern     string
	Replacement string
	Global      bool // 'g': replace every match instead of the current one
	Options     SearchOptions
}

// ParseSubstitute parses the /pattern/replacement/[flags] command string.
// Patterns are regular expressions. A backslash escapes the delimiter.
// Flags: 'g' global, 'i' ignore case, 'I' match case, 'l' literal pattern.
func ParseSubstitute(cmd string) (Substitution, error) {
	if !strings.HasPrefix(cmd, "/") {
		return Substitution{}, fmt.Errorf("invalid format %q: use /pattern/replacement/[flags]", cmd)
	}
	parts := splitUnescaped(cmd[1:], '/', 3)
	if len(parts) < 2 {
		return Substitution{}, fmt.Errorf("invalid format %q: use /pattern/replacement/[flags]", cmd)
	}

	sub := Substitution{
		Pattern:     parts[0],
		Replacement: parts[1],
		Options:     SearchOptions{RegexMode: true, CaseSensitive: true},
	}
	if sub.Pattern == "" {
		return Substitution{}, ErrEmptyPattern
	}
	if len(parts) == 3 {
		for _, flag := range parts[2] {
			switch flag {
			case 'g':
				sub.Global = true
			case 'i':
				sub.Options.CaseSensitive = false
			case 'I':
				sub.Options.CaseSensitive = true
			case 'l':
				sub.Options.RegexMode = false
			default:
				return Substitution{}, fmt.Errorf("unknown substitute flag %q", flag)
			}
		}
	}
	return sub, nil
}

// splitUnescaped splits s on sep into at most n parts. "\<sep>" yields a
// literal separator; other escapes are kept for the regex engine.
func splitUnescaped(s string, sep byte, n int) []string {
	var parts []string
	var current strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && s[i+1] == sep {
			current.WriteByte(sep)
			i++
			continue
		}
		if c == sep && len(parts) < n-1 {
			parts = append(parts, current.String())
			current.Reset()
			continue
		}
		current.WriteByte(c)
	}
	return append(parts, current.String())
}

// Run applies sub to the session: the pattern becomes the search text and
// either the current match or every match is replaced.
func (sub Substitution) Run(s *Session) (ReplaceResult, error) {
	s.SetOptions(sub.Options)
	s.SetSearchText(sub.Pattern)
	s.SetReplaceText(sub.Replacement)

	if sub.Global {
		return s.ReplaceAll(sub.Replacement)
	}

	before := s.Cache()
	result := ReplaceResult{
		Search:      sub.Pattern,
		Replace:     sub.Replacement,
		BeforeCount: len(before.Matches),
	}
	if len(before.Matches) == 0 {
		return result, nil
	}
	if err := s.ReplaceCurrent(sub.Replacement); err != nil {
		return result, err
	}
	after := s.Cache()
	result.AfterCount = len(after.Matches)
	result.ChangeCount = 1
	result.Changed = true
	return result, nil
}
