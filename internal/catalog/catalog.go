// Package catalog holds the compiled country/ID-type identifier patterns and
// exposes span enumeration over them.
package catalog

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// Span is a half-open range of rune (code point) offsets within a text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the span width in runes.
func (s Span) Len() int { return s.End - s.Start }

// Match is a single pattern hit. The label identifies the pattern for
// diagnostics only; it plays no role in overlap resolution.
type Match struct {
	Label string `json:"label"`
	Span  Span   `json:"span"`
}

// Source is a named, uncompiled pattern expression.
type Source struct {
	Label string
	Expr  string
}

// Entry is a compiled catalog pattern.
type Entry struct {
	Label   string
	Pattern *regexp2.Regexp
}

// CompileError reports a pattern source that failed to compile. Catalog
// construction fails outright on the first bad pattern; a silently dropped
// pattern would weaken redaction coverage without anyone noticing.
type CompileError struct {
	Label string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("catalog: pattern %s: %v", e.Label, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Catalog is an ordered, immutable set of compiled identifier patterns.
// It is built once at startup and is safe for concurrent readers.
type Catalog struct {
	entries []Entry
}

// Build compiles the given sources in order, case-insensitively. The regexp2
// engine matches over runes with Unicode-aware word boundaries, so patterns
// like RFC_MEX behave correctly around characters such as Ñ and all reported
// offsets are rune offsets.
func Build(sources []Source) (*Catalog, error) {
	entries := make([]Entry, 0, len(sources))
	for _, src := range sources {
		re, err := regexp2.Compile(src.Expr, regexp2.IgnoreCase)
		if err != nil {
			return nil, &CompileError{Label: src.Label, Err: err}
		}
		entries = append(entries, Entry{Label: src.Label, Pattern: re})
	}
	return &Catalog{entries: entries}, nil
}

// Default builds a catalog from the built-in Latin-American identifier set.
func Default() (*Catalog, error) {
	return Build(DefaultSources())
}

// Len returns the number of patterns in the catalog.
func (c *Catalog) Len() int { return len(c.entries) }

// Labels returns the pattern labels in catalog order.
func (c *Catalog) Labels() []string {
	labels := make([]string, len(c.entries))
	for i, e := range c.entries {
		labels[i] = e.Label
	}
	return labels
}

// FindAll returns every match of every pattern in text. Each pattern is
// scanned with the engine's standard leftmost, non-overlapping semantics;
// matches from different patterns may overlap each other, and duplicate
// spans occur where two patterns share a source expression. Resolving those
// conflicts is the redactor's job.
func (c *Catalog) FindAll(text string) []Match {
	var matches []Match
	for _, e := range c.entries {
		// regexp2 reports an error only when a match timeout is
		// configured; the catalog sets none.
		m, err := e.Pattern.FindStringMatch(text)
		for err == nil && m != nil {
			matches = append(matches, Match{
				Label: e.Label,
				Span:  Span{Start: m.Index, End: m.Index + m.Length},
			})
			m, err = e.Pattern.FindNextMatch(m)
		}
	}
	return matches
}
