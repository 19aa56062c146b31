package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/segmentio/parquet-go"
)

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"data.csv":         FormatCSV,
		"data.CSV":         FormatCSV,
		"data.json":        FormatJSONL,
		"data.jsonl":       FormatJSONL,
		"data.ndjson":      FormatJSONL,
		"data.parquet":     FormatParquet,
		"data.unknown":     FormatCSV,
		"dir/nested.jsonl": FormatJSONL,
	}
	for path, want := range cases {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.csv")
	outputPath := filepath.Join(dir, "out.csv")

	writeCSVFixture(t, inputPath, [][]string{
		{"id", "text", "country"},
		{"1", "Mi RUT es 12.345.678-9", "CL"},
		{"2", "sin identificador", "AR"},
	})

	reader, err := OpenCSV(inputPath)
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer reader.Close()

	if got := reader.Columns(); len(got) != 3 || got[1] != "text" {
		t.Fatalf("Columns = %v", got)
	}

	writer, err := NewWriterFor(outputPath, reader)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}

	rows := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		rows++

		text, ok := row.Field("text")
		if !ok {
			t.Fatal("text column missing")
		}
		if err := row.SetField("text", "["+text+"]"); err != nil {
			t.Fatalf("SetField failed: %v", err)
		}
		if err := writer.Write(row); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if rows != 2 {
		t.Errorf("Read %d rows, want 2", rows)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// The untouched columns must survive the rewrite.
	out := readCSVFixture(t, outputPath)
	if len(out) != 3 {
		t.Fatalf("Output has %d records, want 3", len(out))
	}
	if out[1][1] != "[Mi RUT es 12.345.678-9]" {
		t.Errorf("Rewritten text = %q", out[1][1])
	}
	if out[1][0] != "1" || out[1][2] != "CL" {
		t.Errorf("Passthrough columns changed: %v", out[1])
	}
}

func TestCSVRowErrors(t *testing.T) {
	row := &CSVRow{fields: []string{"a"}, index: map[string]int{"text": 0}}

	if _, ok := row.Field("missing"); ok {
		t.Error("Field on missing column reported ok")
	}
	if err := row.SetField("missing", "x"); err == nil {
		t.Error("SetField on missing column did not error")
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.jsonl")
	outputPath := filepath.Join(dir, "out.jsonl")

	input := `{"id":1,"text":"CUIT: 20-12345678-1"}
{"id":2,"text":"nada"}
{"id":3,"count":7}
`
	if err := os.WriteFile(inputPath, []byte(input), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	reader, err := OpenJSONL(inputPath)
	if err != nil {
		t.Fatalf("Failed to open JSONL: %v", err)
	}
	defer reader.Close()

	writer, err := NewWriterFor(outputPath, reader)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}

	var texts, skipped int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}

		if text, ok := row.Field("text"); ok {
			texts++
			if err := row.SetField("text", "masked:"+text); err != nil {
				t.Fatalf("SetField failed: %v", err)
			}
		} else {
			skipped++
		}
		if err := writer.Write(row); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if texts != 2 || skipped != 1 {
		t.Errorf("texts=%d skipped=%d, want 2 and 1", texts, skipped)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Re-read: non-string fields must survive untouched.
	out, err := OpenJSONL(outputPath)
	if err != nil {
		t.Fatalf("Failed to reopen output: %v", err)
	}
	defer out.Close()

	first, err := out.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if text, _ := first.Field("text"); text != "masked:CUIT: 20-12345678-1" {
		t.Errorf("Rewritten text = %q", text)
	}
}

func TestJSONLMalformedLine(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.jsonl")

	input := `{"text":"ok"}
not json at all
{"text":"after"}
`
	if err := os.WriteFile(inputPath, []byte(input), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	reader, err := OpenJSONL(inputPath)
	if err != nil {
		t.Fatalf("Failed to open JSONL: %v", err)
	}
	defer reader.Close()

	first, err := reader.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if text, _ := first.Field("text"); text != "ok" {
		t.Errorf("First row text = %q", text)
	}

	// The malformed line fails its own Read only.
	if _, err := reader.Read(); err == nil || err == io.EOF {
		t.Fatalf("Read on malformed line returned %v, want decode error", err)
	}

	third, err := reader.Read()
	if err != nil {
		t.Fatalf("Read after malformed line failed: %v", err)
	}
	if text, _ := third.Field("text"); text != "after" {
		t.Errorf("Row after malformed line text = %q", text)
	}

	if _, err := reader.Read(); err != io.EOF {
		t.Errorf("Final Read returned %v, want io.EOF", err)
	}
}

func TestJSONLRowNonString(t *testing.T) {
	row := &JSONLRow{obj: map[string]any{"n": 3.0, "text": "hola"}}

	if _, ok := row.Field("n"); ok {
		t.Error("Numeric field reported as text")
	}
	if _, ok := row.Field("text"); !ok {
		t.Error("String field not reported as text")
	}
	if err := row.SetField("absent", "x"); err == nil {
		t.Error("SetField on absent field did not error")
	}
}

type parquetRecord struct {
	ID   int64  `parquet:"id"`
	Text string `parquet:"text"`
}

func TestParquetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.parquet")
	outputPath := filepath.Join(dir, "out.parquet")

	writeParquetFixture(t, inputPath, []parquetRecord{
		{ID: 1, Text: "Mi RUT es 12.345.678-9"},
		{ID: 2, Text: "sin identificador"},
	})

	reader, err := OpenParquet(inputPath)
	if err != nil {
		t.Fatalf("Failed to open Parquet: %v", err)
	}
	defer reader.Close()

	cols := reader.Columns()
	found := false
	for _, c := range cols {
		if c == "text" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Columns = %v, missing text", cols)
	}

	writer, err := NewWriterFor(outputPath, reader)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}

	rows := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		rows++

		text, ok := row.Field("text")
		if !ok {
			t.Fatal("text column missing")
		}
		if err := row.SetField("text", "["+text+"]"); err != nil {
			t.Fatalf("SetField failed: %v", err)
		}
		if err := writer.Write(row); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if rows != 2 {
		t.Errorf("Read %d rows, want 2", rows)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out, err := OpenParquet(outputPath)
	if err != nil {
		t.Fatalf("Failed to reopen output: %v", err)
	}
	defer out.Close()

	first, err := out.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if text, _ := first.Field("text"); text != "[Mi RUT es 12.345.678-9]" {
		t.Errorf("Rewritten text = %q", text)
	}
	if id, ok := first.Field("id"); ok {
		t.Errorf("Numeric column reported as text: %q", id)
	}
}

func TestDemoTexts(t *testing.T) {
	texts := DemoTexts()
	if len(texts) == 0 {
		t.Fatal("Demo corpus is empty")
	}
	seen := make(map[string]bool)
	for _, text := range texts {
		if text == "" {
			t.Error("Demo corpus contains an empty line")
		}
		if seen[text] {
			t.Errorf("Duplicate demo line: %q", text)
		}
		seen[text] = true
	}
}

func writeCSVFixture(t *testing.T, path string, records [][]string) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create fixture: %v", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
}

func readCSVFixture(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open fixture: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	return records
}

func writeParquetFixture(t *testing.T, path string, records []parquetRecord) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create fixture: %v", err)
	}

	w := parquet.NewWriter(file, parquet.SchemaOf(parquetRecord{}))
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			t.Fatalf("Failed to write record: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("Failed to close fixture: %v", err)
	}
}
