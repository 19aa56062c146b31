package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSONLReader reads files with one JSON object per line. Each line is
// decoded independently, so a malformed line fails only its own Read and
// the reader advances to the next line.
type JSONLReader struct {
	file    *os.File
	scanner *bufio.Scanner
	line    int
}

// OpenJSONL opens a JSON-lines file.
func OpenJSONL(path string) (*JSONLReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSON file: %w", err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	return &JSONLReader{file: file, scanner: scanner}, nil
}

// Read returns the next row, or io.EOF after the last one. Blank lines are
// skipped; a line that is not valid JSON returns an error naming the line
// number without poisoning subsequent reads.
func (r *JSONLReader) Read() (Row, error) {
	for r.scanner.Scan() {
		r.line++
		data := bytes.TrimSpace(r.scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("jsonl: line %d: %w", r.line, err)
		}
		return &JSONLRow{obj: obj}, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Close closes the underlying file.
func (r *JSONLReader) Close() error { return r.file.Close() }

// JSONLRow is one JSON object.
type JSONLRow struct {
	obj map[string]any
}

// Field returns the named value when it is a string. Numeric or nested
// values are not text fields and report ok=false.
func (r *JSONLRow) Field(name string) (string, bool) {
	v, ok := r.obj[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// SetField replaces the named value.
func (r *JSONLRow) SetField(name, value string) error {
	if _, ok := r.obj[name]; !ok {
		return fmt.Errorf("jsonl: no field %q", name)
	}
	r.obj[name] = value
	return nil
}

// JSONLWriter writes one JSON object per line.
type JSONLWriter struct {
	file    *os.File
	encoder *json.Encoder
}

// CreateJSONL creates a JSON-lines file at path.
func CreateJSONL(path string) (*JSONLWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create JSON file: %w", err)
	}
	return &JSONLWriter{file: file, encoder: json.NewEncoder(file)}, nil
}

// Write appends one row. The row must come from a JSONLReader.
func (w *JSONLWriter) Write(row Row) error {
	r, ok := row.(*JSONLRow)
	if !ok {
		return fmt.Errorf("jsonl: writer requires JSONL rows, got %T", row)
	}
	return w.encoder.Encode(r.obj)
}

// Close closes the underlying file.
func (w *JSONLWriter) Close() error { return w.file.Close() }
