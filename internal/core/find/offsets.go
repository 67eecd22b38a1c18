package find

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bethropolis/textfinder/internal/logger"
	"github.com/bethropolis/textfinder/internal/types"
)

// DiagnosticSink receives soft failures from pattern compilation.
type DiagnosticSink interface {
	Report(pattern string, err error)
}

// LogSink reports diagnostics through the package logger.
type LogSink struct{}

// Report logs an invalid pattern as a warning.
func (LogSink) Report(pattern string, err error) {
	logger.WarnTagf("scan", "Invalid search pattern '%s': %v", pattern, err)
}

// CompilePattern compiles target as a regular expression. Case-insensitive
// matching is requested only when caseSensitive is false.
func CompilePattern(target string, caseSensitive bool) (*regexp.Regexp, error) {
	flags := ""
	if !caseSensitive {
		flags = "(?i)"
	}
	return regexp.Compile(flags + target)
}

// FindOffsets scans source for target and returns the ordered match spans.
// Invalid patterns are logged and yield no spans.
func FindOffsets(source, target string, opts SearchOptions) []types.MatchSpan {
	return FindOffsetsReport(source, target, opts, LogSink{})
}

// FindOffsetsReport is FindOffsets with an explicit diagnostic sink.
// An empty source or target yields no spans.
func FindOffsetsReport(source, target string, opts SearchOptions, sink DiagnosticSink) []types.MatchSpan {
	if source == "" || target == "" {
		return []types.MatchSpan{}
	}
	if !opts.RegexMode {
		return findSubstring(source, target, opts.CaseSensitive)
	}

	re, err := CompilePattern(target, opts.CaseSensitive)
	if err != nil {
		if sink != nil {
			sink.Report(target, err)
		}
		return []types.MatchSpan{}
	}
	return FindRegexOffsets(source, re)
}

// FindRegexOffsets returns every match of re in source, zero-width matches
// included. Each search starts where the previous match ended, so an empty
// match may sit at the end of the match before it; after an empty match the
// scan moves one character forward.
func FindRegexOffsets(source string, re *regexp.Regexp) []types.MatchSpan {
	locs := re.FindAllStringIndex(source, -1)
	spans := make([]types.MatchSpan, 0, len(locs))
	var anchored *regexp.Regexp
	for i, loc := range locs {
		spans = append(spans, types.MatchSpan{From: loc[0], To: loc[1], Index: len(spans)})
		end := loc[1]
		if end == loc[0] || (i+1 < len(locs) && locs[i+1][0] == end) {
			continue
		}
		// FindAll skips an empty match right after a non-empty one.
		if anchored == nil {
			anchored = compileAfterRune(re)
		}
		if emptyMatchAt(anchored, source, end) {
			spans = append(spans, types.MatchSpan{From: end, To: end, Index: len(spans)})
		}
	}
	logger.DebugTagf("scan", "Regex %q: %d span(s)", re.String(), len(spans))
	return spans
}

// compileAfterRune builds a pattern that consumes one rune and then matches
// re there, so re sees the real preceding character for ^, \b and \B.
func compileAfterRune(re *regexp.Regexp) *regexp.Regexp {
	anchored, err := regexp.Compile(`\A(?s:.)(?:` + re.String() + `)`)
	if err != nil {
		logger.WarnTagf("scan", "Cannot anchor pattern %q: %v", re.String(), err)
		return nil
	}
	return anchored
}

// emptyMatchAt reports whether the anchored pattern matches at offset pos > 0.
// Any match there is empty, since a non-empty one would have been found by
// the full scan.
func emptyMatchAt(anchored *regexp.Regexp, source string, pos int) bool {
	if anchored == nil || pos <= 0 {
		return false
	}
	return anchored.MatchString(source[pos-lastRuneSize(source[:pos]):])
}

func lastRuneSize(s string) int {
	_, size := utf8.DecodeLastRuneInString(s)
	return size
}

// findSubstring performs a greedy, non-overlapping left to right scan.
func findSubstring(source, target string, caseSensitive bool) []types.MatchSpan {
	spans := []types.MatchSpan{}
	pos := 0
	for pos <= len(source) {
		var from, to int
		if caseSensitive {
			idx := strings.Index(source[pos:], target)
			if idx < 0 {
				break
			}
			from, to = pos+idx, pos+idx+len(target)
		} else {
			from, to = foldIndex(source, target, pos)
			if from < 0 {
				break
			}
		}
		spans = append(spans, types.MatchSpan{From: from, To: to, Index: len(spans)})
		pos = to
	}
	return spans
}

// foldIndex finds the first occurrence of target in source at or after
// start, comparing runes by their lower-case form. Offsets refer to source
// itself, so they stay valid even where lower-casing changes byte lengths.
func foldIndex(source, target string, start int) (int, int) {
	for i := start; i < len(source); {
		if n, ok := foldPrefix(source[i:], target); ok {
			return i, i + n
		}
		_, size := utf8.DecodeRuneInString(source[i:])
		i += size
	}
	return -1, -1
}

// foldPrefix reports whether s starts with prefix ignoring case, and how many
// bytes of s the prefix covers.
func foldPrefix(s, prefix string) (int, bool) {
	n := 0
	for prefix != "" {
		if s == "" {
			return 0, false
		}
		pr, psize := utf8.DecodeRuneInString(prefix)
		sr, ssize := utf8.DecodeRuneInString(s)
		if invalidByte(pr, psize) || invalidByte(sr, ssize) {
			// Invalid bytes all decode to RuneError; compare them raw.
			if psize != ssize || prefix[0] != s[0] {
				return 0, false
			}
		} else if pr != sr && unicode.ToLower(pr) != unicode.ToLower(sr) {
			return 0, false
		}
		prefix = prefix[psize:]
		s = s[ssize:]
		n += ssize
	}
	return n, true
}

func invalidByte(r rune, size int) bool {
	return r == utf8.RuneError && size == 1
}

// IndexAfterOffset returns the index of the first span in list whose end is
// at or beyond target.From+extraOffset, or -1 if there is none.
func IndexAfterOffset(target types.MatchSpan, list []types.MatchSpan, extraOffset int) int {
	for i, span := range list {
		if span.To >= target.From+extraOffset {
			return i
		}
	}
	return -1
}
