// Package matcher counts occurrences of a word term inside case text.
//
// Every implementation follows the same contract: Count returns the number
// of non-overlapping matches found by scanning left to right, the way a
// global regular-expression match does. Implementations differ only in how
// the term is interpreted.
package matcher

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

type Kind string

const (
	// KindECMAScript interprets terms as JavaScript regular expressions.
	KindECMAScript Kind = "ecmascript"
	// KindRegexp interprets terms as Go RE2 regular expressions.
	KindRegexp Kind = "regexp"
	// KindLiteral counts plain substring occurrences.
	KindLiteral Kind = "literal"
)

// Matcher compiles word terms into reusable patterns.
type Matcher interface {
	Compile(term string) (Pattern, error)
}

// Pattern is a compiled term. It must be safe for concurrent use.
type Pattern interface {
	Count(text string) (int, error)
}

// New returns the matcher for kind. timeout bounds a single match attempt for
// backtracking engines; zero disables it.
func New(kind Kind, timeout time.Duration) (Matcher, error) {
	switch kind {
	case KindECMAScript, "":
		return &ecmaMatcher{timeout: timeout}, nil
	case KindRegexp:
		return re2Matcher{}, nil
	case KindLiteral:
		return literalMatcher{}, nil
	default:
		return nil, fmt.Errorf("unknown matcher kind %q", kind)
	}
}

func ValidKind(kind Kind) bool {
	switch kind {
	case KindECMAScript, KindRegexp, KindLiteral:
		return true
	}
	return false
}

type ecmaMatcher struct {
	timeout time.Duration
}

func (m *ecmaMatcher) Compile(term string) (Pattern, error) {
	re, err := regexp2.Compile(term, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", term, err)
	}
	if m.timeout > 0 {
		re.MatchTimeout = m.timeout
	}
	return ecmaPattern{re: re}, nil
}

type ecmaPattern struct {
	re *regexp2.Regexp
}

func (p ecmaPattern) Count(text string) (int, error) {
	n := 0
	m, err := p.re.FindStringMatch(text)
	for m != nil && err == nil {
		n++
		m, err = p.re.FindNextMatch(m)
	}
	if err != nil {
		return 0, fmt.Errorf("match pattern %q: %w", p.re.String(), err)
	}
	return n, nil
}

type re2Matcher struct{}

func (re2Matcher) Compile(term string) (Pattern, error) {
	re, err := regexp.Compile(term)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", term, err)
	}
	// at matches term right after one rune of left context, so assertions
	// such as ^ and \b see the real preceding text.
	at, err := regexp.Compile(`\A(?s:.)(?:` + term + `)`)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", term, err)
	}
	return re2Pattern{re: re, at: at}, nil
}

type re2Pattern struct {
	re *regexp.Regexp
	at *regexp.Regexp
}

// Count adds back the empty matches that FindAll skips when they directly
// follow a non-empty match; a global match counts those.
func (p re2Pattern) Count(text string) (int, error) {
	matches := p.re.FindAllStringIndex(text, -1)
	n := len(matches)
	for _, m := range matches {
		if m[0] != m[1] && p.emptyAt(text, m[1]) {
			n++
		}
	}
	return n, nil
}

// emptyAt reports whether the leftmost-first match starting at pos is empty.
// pos must be greater than zero.
func (p re2Pattern) emptyAt(text string, pos int) bool {
	_, size := utf8.DecodeLastRuneInString(text[:pos])
	loc := p.at.FindStringIndex(text[pos-size:])
	return loc != nil && loc[1] == size
}

type literalMatcher struct{}

func (literalMatcher) Compile(term string) (Pattern, error) {
	return literalPattern(term), nil
}

type literalPattern string

func (p literalPattern) Count(text string) (int, error) {
	return strings.Count(text, string(p)), nil
}
