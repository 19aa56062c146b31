package redact

import (
	"strings"
	"testing"

	"github.com/GonzaloFuentes1/anonymization-filter/internal/catalog"
)

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}
	return cat
}

func TestRedact(t *testing.T) {
	r := New(mustCatalog(t))

	t.Run("SingleIdentifier", func(t *testing.T) {
		got := r.Redact("Mi RUT es 12.345.678-9")
		want := "Mi RUT es <ID>        "
		if got != want {
			t.Errorf("Redact = %q, want %q", got, want)
		}
	})

	t.Run("MultipleIdentifiers", func(t *testing.T) {
		got := r.Redact("RUT 11.111.111-1 y 22.222.222-2")
		want := "RUT <ID>         y <ID>        "
		if got != want {
			t.Errorf("Redact = %q, want %q", got, want)
		}
	})

	t.Run("EmptyText", func(t *testing.T) {
		if got := r.Redact(""); got != "" {
			t.Errorf("Redact(\"\") = %q", got)
		}
	})

	t.Run("PassThrough", func(t *testing.T) {
		for _, text := range []string{
			"El precio es 10.000 pesos.",
			"Hoy es 12-05-2025, temperatura 22.5°C.",
			"Mi correo es juan.perez@gmail.com",
			"Número de teléfono: +56 9 8765 4321",
			"Transacción: 123-456-789",
			"Folio: 987654321-0",
			"Serial: 123456-789",
			"Teléfono: 1234-5678",
			"Mi IP es 192.168.1.1",
			"Esto no tiene nada",
			// Eleven digits, one too many for a Peruvian RUC.
			"RUC Perú: PE-20123456789",
		} {
			if got := r.Redact(text); got != text {
				t.Errorf("Redact(%q) = %q, want unchanged", text, got)
			}
		}
	})

	t.Run("LengthPreserved", func(t *testing.T) {
		for _, text := range append([]string(nil), demoLikeTexts()...) {
			got := r.Redact(text)
			if len([]rune(got)) != len([]rune(text)) {
				t.Errorf("Redact(%q) changed rune length: %d -> %d",
					text, len([]rune(text)), len([]rune(got)))
			}
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		for _, text := range demoLikeTexts() {
			once := r.Redact(text)
			twice := r.Redact(once)
			if once != twice {
				t.Errorf("Redact not idempotent for %q: %q -> %q", text, once, twice)
			}
		}
	})
}

func demoLikeTexts() []string {
	return []string{
		"Mi RUT es 12.345.678-9",
		"RFC: GOM8405121A1",
		"CUIT: 20-12345678-1",
		"Cédula Venezuela: V-12345678",
		"Número brasileño: 123.456.789-00",
		"DPI guatemalteco: 1234 56789 1234",
		"CI Nicaragua: 123-456789-1234A",
		"Pasaporte argentino: AA-1234567",
		"El precio es 10.000 pesos.",
		"Mi IP es 192.168.1.1",
	}
}

func TestProcess(t *testing.T) {
	r := New(mustCatalog(t))

	t.Run("LongestMatchWins", func(t *testing.T) {
		// The full CUIT covers the shorter RUC_PRY reading of its tail.
		result := r.Process("CUIT: 20-12345678-1")
		if len(result.Findings) != 1 {
			t.Fatalf("Got %d findings, want 1: %v", len(result.Findings), result.Findings)
		}
		f := result.Findings[0]
		if f.Label != "CUIT_ARG" {
			t.Errorf("Label = %q, want CUIT_ARG", f.Label)
		}
		want := catalog.Span{Start: 6, End: 19}
		if f.Span != want {
			t.Errorf("Span = %+v, want %+v", f.Span, want)
		}
		if result.RedactedText != "CUIT: <ID>         " {
			t.Errorf("RedactedText = %q", result.RedactedText)
		}
	})

	t.Run("DuplicateSpansCollapse", func(t *testing.T) {
		// CI_NIC and RUC_NIC both report the same span; only one may win.
		result := r.Process("CI Nicaragua: 123-456789-1234A")
		if len(result.Findings) != 1 {
			t.Fatalf("Got %d findings, want 1: %v", len(result.Findings), result.Findings)
		}
		want := catalog.Span{Start: 14, End: 30}
		if result.Findings[0].Span != want {
			t.Errorf("Span = %+v, want %+v", result.Findings[0].Span, want)
		}
	})

	t.Run("NoFindings", func(t *testing.T) {
		result := r.Process("Esto no tiene nada")
		if result.RedactedText != "Esto no tiene nada" {
			t.Errorf("RedactedText = %q", result.RedactedText)
		}
		if result.Findings == nil || len(result.Findings) != 0 {
			t.Errorf("Findings = %v, want empty non-nil slice", result.Findings)
		}
		if result.Original != "Esto no tiene nada" {
			t.Errorf("Original = %q", result.Original)
		}
	})

	t.Run("EqualLengthTieBreaksLeftmost", func(t *testing.T) {
		cat, err := catalog.Build([]catalog.Source{
			{Label: "A", Expr: `[a-z]{3}`},
			{Label: "B", Expr: `[b-z]{3}`},
		})
		if err != nil {
			t.Fatalf("Failed to build catalog: %v", err)
		}

		result := New(cat).Process("abcd")
		if len(result.Findings) != 1 {
			t.Fatalf("Got %d findings, want 1: %v", len(result.Findings), result.Findings)
		}
		if result.Findings[0].Label != "A" {
			t.Errorf("Label = %q, want A (leftmost of equal-length candidates)", result.Findings[0].Label)
		}
		// The placeholder is truncated to the 3-rune span.
		if result.RedactedText != "<IDd" {
			t.Errorf("RedactedText = %q, want \"<IDd\"", result.RedactedText)
		}
	})
}

func TestWithPlaceholder(t *testing.T) {
	cat := mustCatalog(t)

	t.Run("ShortPlaceholderPadded", func(t *testing.T) {
		r := New(cat, WithPlaceholder("*"))
		got := r.Redact("Mi RUT es 12.345.678-9")
		want := "Mi RUT es *           "
		if got != want {
			t.Errorf("Redact = %q, want %q", got, want)
		}
	})

	t.Run("LongPlaceholderTruncated", func(t *testing.T) {
		r := New(cat, WithPlaceholder("<IDENTIFIER-TOKEN>"))
		got := r.Redact("Mi RUT es 12.345.678-9")
		want := "Mi RUT es <IDENTIFIER-"
		if got != want {
			t.Errorf("Redact = %q, want %q", got, want)
		}
		if len([]rune(got)) != len([]rune("Mi RUT es 12.345.678-9")) {
			t.Errorf("Rune length not preserved: %q", got)
		}
	})
}

func TestMaskSpans(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		got := MaskSpans("Hola Juan Perez", []catalog.Span{{Start: 5, End: 15}}, "<PII>")
		want := "Hola <PII>     "
		if got != want {
			t.Errorf("MaskSpans = %q, want %q", got, want)
		}
	})

	t.Run("OutOfRangeClamped", func(t *testing.T) {
		got := MaskSpans("corto", []catalog.Span{{Start: -2, End: 99}}, "#")
		if got != "#    " {
			t.Errorf("MaskSpans = %q, want \"#    \"", got)
		}
	})

	t.Run("NoSpans", func(t *testing.T) {
		if got := MaskSpans("texto", nil, "<PII>"); got != "texto" {
			t.Errorf("MaskSpans = %q, want unchanged", got)
		}
	})

	t.Run("OverlapLastWins", func(t *testing.T) {
		got := MaskSpans("abcdef", []catalog.Span{{Start: 0, End: 4}, {Start: 2, End: 6}}, "XY")
		if got != "XYXY  " {
			t.Errorf("MaskSpans = %q, want \"XYXY  \"", got)
		}
	})

	t.Run("PreservesRuneLength", func(t *testing.T) {
		text := "Ñandú ñoño 12345"
		got := MaskSpans(text, []catalog.Span{{Start: 6, End: 10}}, "<PII>")
		if len([]rune(got)) != len([]rune(text)) {
			t.Errorf("Rune length changed: %q", got)
		}
		if !strings.HasPrefix(got, "Ñandú ") {
			t.Errorf("Prefix clobbered: %q", got)
		}
	})
}
