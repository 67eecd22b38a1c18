package find

import (
	"regexp"

	"github.com/bethropolis/textfinder/internal/logger"
	"github.com/bethropolis/textfinder/internal/types"
)

// ReplaceResult describes the outcome of a replace-all.
type ReplaceResult struct {
	Changed       bool
	Search        string
	Replace       string
	ReplaceValues []string // one computed replacement per span, in span order
	ChangeCount   int      // edits submitted to the host
	BeforeCount   int      // matches before the replace
	AfterCount    int      // matches after the rescan
}

// replacer computes replacement text for spans found in one source text.
// In substring mode (re == nil) the template is used verbatim. In regex mode
// the template is expanded against the match at the span's position in the
// full source, so $1, ${name} and $$ work as in regexp.Regexp.Expand and
// context such as \b or ^ is honored.
type replacer struct {
	re       *regexp.Regexp
	source   string
	template string
	locs     map[[2]int][]int
	anchored *regexp.Regexp
}

func newReplacer(re *regexp.Regexp, source, template string) *replacer {
	r := &replacer{re: re, source: source, template: template}
	if re == nil {
		return r
	}
	all := re.FindAllStringSubmatchIndex(source, -1)
	r.locs = make(map[[2]int][]int, len(all))
	for _, loc := range all {
		r.locs[[2]int{loc[0], loc[1]}] = loc
	}
	return r
}

// value returns the replacement for span. A span the pattern no longer
// matches at that position keeps its text.
func (r *replacer) value(span types.MatchSpan) string {
	matched := r.source[span.From:span.To]
	if r.re == nil {
		return r.template
	}
	loc, ok := r.locs[[2]int{span.From, span.To}]
	if !ok {
		loc = r.matchAt(span)
	}
	if loc == nil {
		logger.DebugTagf("replace", "Pattern %q does not match [%d,%d), keeping %q",
			r.re.String(), span.From, span.To, matched)
		return matched
	}
	return string(r.re.ExpandString(nil, r.template, r.source, loc))
}

// matchAt finds the submatch indexes of a match starting exactly at
// span.From and ending at span.To, or nil.
func (r *replacer) matchAt(span types.MatchSpan) []int {
	var loc []int
	if span.From == 0 {
		loc = r.re.FindStringSubmatchIndex(r.source)
	} else {
		if r.anchored == nil {
			r.anchored = compileAfterRune(r.re)
			if r.anchored == nil {
				return nil
			}
		}
		start := span.From - lastRuneSize(r.source[:span.From])
		loc = r.anchored.FindStringSubmatchIndex(r.source[start:])
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += start
			}
		}
		if loc != nil {
			// Drop the context rune from the whole-match group.
			loc[0] = span.From
		}
	}
	if loc == nil || loc[0] != span.From || loc[1] != span.To {
		return nil
	}
	return loc
}
