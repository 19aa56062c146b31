package catalog

import (
	"errors"
	"testing"
)

func TestBuild(t *testing.T) {
	t.Run("DefaultCatalog", func(t *testing.T) {
		cat, err := Default()
		if err != nil {
			t.Fatalf("Failed to build default catalog: %v", err)
		}
		if cat.Len() != len(DefaultSources()) {
			t.Errorf("Catalog has %d patterns, want %d", cat.Len(), len(DefaultSources()))
		}

		labels := cat.Labels()
		if labels[0] != "CI_NIC" {
			t.Errorf("First label = %q, want CI_NIC", labels[0])
		}
		if labels[len(labels)-1] != "RUC_PER" {
			t.Errorf("Last label = %q, want RUC_PER", labels[len(labels)-1])
		}
	})

	t.Run("InvalidPattern", func(t *testing.T) {
		_, err := Build([]Source{
			{Label: "GOOD", Expr: `\d+`},
			{Label: "BAD", Expr: `(`},
		})
		if err == nil {
			t.Fatal("Expected error for invalid pattern")
		}

		var compileErr *CompileError
		if !errors.As(err, &compileErr) {
			t.Fatalf("Expected CompileError, got %T", err)
		}
		if compileErr.Label != "BAD" {
			t.Errorf("CompileError label = %q, want BAD", compileErr.Label)
		}
	})

	t.Run("EmptySources", func(t *testing.T) {
		cat, err := Build(nil)
		if err != nil {
			t.Fatalf("Failed to build empty catalog: %v", err)
		}
		if cat.Len() != 0 {
			t.Errorf("Empty catalog has %d patterns", cat.Len())
		}
		if matches := cat.FindAll("12.345.678-9"); len(matches) != 0 {
			t.Errorf("Empty catalog found %d matches", len(matches))
		}
	})
}

func TestFindAll(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}

	t.Run("RuneOffsets", func(t *testing.T) {
		// The accented e in Cédula is two bytes; offsets must count runes.
		matches := cat.FindAll("Cédula Venezuela: V-12345678")
		if len(matches) != 1 {
			t.Fatalf("Got %d matches, want 1: %v", len(matches), matches)
		}
		if matches[0].Label != "CI_VEN" {
			t.Errorf("Label = %q, want CI_VEN", matches[0].Label)
		}
		if matches[0].Span.Start != 18 || matches[0].Span.End != 28 {
			t.Errorf("Span = %+v, want {18 28}", matches[0].Span)
		}
	})

	t.Run("UnicodeWordBoundary", func(t *testing.T) {
		// The boundary before the Ñ must hold for RFC_MEX to match.
		matches := cat.FindAll("RFC: ÑOM840512AB1")
		if len(matches) != 1 {
			t.Fatalf("Got %d matches, want 1: %v", len(matches), matches)
		}
		if matches[0].Label != "RFC_MEX" {
			t.Errorf("Label = %q, want RFC_MEX", matches[0].Label)
		}
		if matches[0].Span.Start != 5 || matches[0].Span.End != 17 {
			t.Errorf("Span = %+v, want {5 17}", matches[0].Span)
		}
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		matches := cat.FindAll("pasaporte: g-12345678")
		if len(matches) != 1 {
			t.Fatalf("Got %d matches, want 1: %v", len(matches), matches)
		}
		if matches[0].Label != "PAS_MEX" {
			t.Errorf("Label = %q, want PAS_MEX", matches[0].Label)
		}
	})

	t.Run("DuplicateSourceExpressions", func(t *testing.T) {
		// CI_NIC and RUC_NIC share an expression, so one identifier
		// yields two identical spans.
		matches := cat.FindAll("CI Nicaragua: 123-456789-1234A")
		if len(matches) != 2 {
			t.Fatalf("Got %d matches, want 2: %v", len(matches), matches)
		}
		if matches[0].Span != matches[1].Span {
			t.Errorf("Duplicate patterns produced different spans: %v vs %v",
				matches[0].Span, matches[1].Span)
		}
		want := Span{Start: 14, End: 30}
		if matches[0].Span != want {
			t.Errorf("Span = %+v, want %+v", matches[0].Span, want)
		}
	})

	t.Run("MultipleMatchesPerPattern", func(t *testing.T) {
		matches := cat.FindAll("RUT 11.111.111-1 y otro V-9876543")
		byLabel := make(map[string]int)
		for _, m := range matches {
			byLabel[m.Label]++
		}
		if byLabel["RUT_CHI"] != 1 {
			t.Errorf("RUT_CHI matches = %d, want 1 (all: %v)", byLabel["RUT_CHI"], matches)
		}
		if byLabel["CI_VEN"] != 1 {
			t.Errorf("CI_VEN matches = %d, want 1 (all: %v)", byLabel["CI_VEN"], matches)
		}
	})

	t.Run("NoMatches", func(t *testing.T) {
		for _, text := range []string{
			"",
			"El precio es 10.000 pesos.",
			"Mi correo es juan.perez@gmail.com",
			"Mi IP es 192.168.1.1",
		} {
			if matches := cat.FindAll(text); len(matches) != 0 {
				t.Errorf("FindAll(%q) = %v, want none", text, matches)
			}
		}
	})
}

func TestSpan(t *testing.T) {
	s := Span{Start: 3, End: 10}
	if s.Len() != 7 {
		t.Errorf("Len = %d, want 7", s.Len())
	}
}
