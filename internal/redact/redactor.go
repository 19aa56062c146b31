// Package redact turns texts with government-issued identifiers into masked
// texts of identical rune length. It scans a pattern catalog for candidate
// spans, resolves overlaps between them, and rewrites the winners in place.
package redact

import (
	"sort"

	"github.com/GonzaloFuentes1/anonymization-filter/internal/catalog"
)

// DefaultPlaceholder is the token written over each redacted span.
const DefaultPlaceholder = "<ID>"

// Finding describes one redacted span.
type Finding struct {
	Label string       `json:"label"`
	Span  catalog.Span `json:"span"`
}

// Result contains the outcome of processing one text.
type Result struct {
	RedactedText string    `json:"redactedText"`
	Findings     []Finding `json:"findings"`
	Original     string    `json:"-"` // never serialized
}

// Redactor masks identifier spans found by a catalog. A Redactor holds no
// per-call state and is safe for concurrent use.
type Redactor struct {
	catalog     *catalog.Catalog
	placeholder []rune
}

// Option configures a Redactor.
type Option func(*Redactor)

// WithPlaceholder overrides the replacement token. The token is truncated to
// the span width when it is longer than the span it fills.
func WithPlaceholder(placeholder string) Option {
	return func(r *Redactor) {
		r.placeholder = []rune(placeholder)
	}
}

// New creates a Redactor over the given catalog.
func New(c *catalog.Catalog, opts ...Option) *Redactor {
	r := &Redactor{
		catalog:     c,
		placeholder: []rune(DefaultPlaceholder),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Redact returns text with every selected identifier span replaced by the
// placeholder, padded or truncated so the output has exactly the input's
// rune length.
func (r *Redactor) Redact(text string) string {
	return r.Process(text).RedactedText
}

// Process redacts text and reports which spans were masked.
//
// All candidate spans are collected first, then sorted by descending span
// length with ascending start offset as the tie-break: longer matches are
// assumed more specific, and leftmost-first keeps equal-length conflicts
// deterministic. Spans are then accepted greedily; a candidate that overlaps
// any already-accepted position is discarded whole, never trimmed. Duplicate
// spans from patterns that share a source expression fall out naturally as
// overlaps.
func (r *Redactor) Process(text string) Result {
	matches := r.catalog.FindAll(text)
	if len(matches) == 0 {
		return Result{RedactedText: text, Findings: []Finding{}, Original: text}
	}

	sort.Slice(matches, func(i, j int) bool {
		si, sj := matches[i].Span, matches[j].Span
		if si.Len() != sj.Len() {
			return si.Len() > sj.Len()
		}
		return si.Start < sj.Start
	})

	runes := []rune(text)
	findings := make([]Finding, 0, len(matches))
	var accepted intervalSet

	for _, m := range matches {
		if !accepted.insert(m.Span) {
			continue
		}
		fill(runes, m.Span, r.placeholder)
		findings = append(findings, Finding{Label: m.Label, Span: m.Span})
	}

	return Result{RedactedText: string(runes), Findings: findings, Original: text}
}

// intervalSet tracks accepted spans as a sorted list of disjoint intervals,
// so the overlap test is a binary search instead of a scan over a per-rune
// occupancy array.
type intervalSet struct {
	spans []catalog.Span // sorted by Start, pairwise disjoint
}

// insert adds s when it overlaps no accepted span and reports whether it was
// added.
func (set *intervalSet) insert(s catalog.Span) bool {
	i := sort.Search(len(set.spans), func(i int) bool {
		return set.spans[i].End > s.Start
	})
	if i < len(set.spans) && set.spans[i].Start < s.End {
		return false
	}
	set.spans = append(set.spans, catalog.Span{})
	copy(set.spans[i+1:], set.spans[i:])
	set.spans[i] = s
	return true
}
