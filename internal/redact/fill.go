package redact

import "github.com/GonzaloFuentes1/anonymization-filter/internal/catalog"

// fill overwrites runes[span.Start:span.End) with the placeholder,
// left-justified, space-padded on the right, and truncated to the span
// width. The caller guarantees the span lies within the slice.
func fill(runes []rune, span catalog.Span, placeholder []rune) {
	width := span.Len()
	for i := 0; i < width; i++ {
		if i < len(placeholder) {
			runes[span.Start+i] = placeholder[i]
		} else {
			runes[span.Start+i] = ' '
		}
	}
}

// MaskSpans overwrites each span of text with placeholder, padded or
// truncated to the span width, and returns the rewritten text. Spans are
// rune offsets; out-of-range spans are clamped to the text, and where spans
// overlap, later spans simply overwrite earlier ones. The entity pass uses
// this to keep its masks length-preserving so the identifier pass that
// follows sees stable offsets.
func MaskSpans(text string, spans []catalog.Span, placeholder string) string {
	if len(spans) == 0 {
		return text
	}

	runes := []rune(text)
	token := []rune(placeholder)
	for _, s := range spans {
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End > len(runes) {
			s.End = len(runes)
		}
		if s.Start >= s.End {
			continue
		}
		fill(runes, s, token)
	}
	return string(runes)
}
