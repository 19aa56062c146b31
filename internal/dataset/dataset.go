// Package dataset reads and writes record-oriented dataset files, exposing
// one text column for rewriting while carrying every other column through
// untouched.
package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format represents supported file formats.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSONL   Format = "jsonl"
	FormatParquet Format = "parquet"
)

// DetectFormat detects the file format from the path extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".json", ".jsonl", ".ndjson":
		return FormatJSONL
	case ".parquet":
		return FormatParquet
	default:
		return FormatCSV
	}
}

// Row is one dataset record. Only the requested field is ever rewritten.
type Row interface {
	// Field returns the value of the named column. ok is false when the
	// column is missing or does not hold text; such rows pass through
	// unmodified rather than being an error.
	Field(name string) (value string, ok bool)
	// SetField replaces the value of the named text column.
	SetField(name, value string) error
}

// Reader reads rows from a dataset file. Read returns io.EOF after the
// last row.
type Reader interface {
	Read() (Row, error)
	Close() error
}

// Writer writes rows to a dataset file.
type Writer interface {
	Write(Row) error
	Close() error
}

// OpenReader opens path with the reader for the given format.
func OpenReader(path string, format Format) (Reader, error) {
	switch format {
	case FormatCSV:
		return OpenCSV(path)
	case FormatJSONL:
		return OpenJSONL(path)
	case FormatParquet:
		return OpenParquet(path)
	default:
		return nil, fmt.Errorf("dataset: unsupported format %q", format)
	}
}

// NewWriterFor creates a writer at path matching the reader's format and
// layout (CSV header, Parquet schema), so output files mirror their inputs.
func NewWriterFor(path string, r Reader) (Writer, error) {
	switch r := r.(type) {
	case *CSVReader:
		return CreateCSV(path, r.Header())
	case *JSONLReader:
		return CreateJSONL(path)
	case *ParquetReader:
		return CreateParquet(path, r.Schema())
	default:
		return nil, fmt.Errorf("dataset: no writer for reader type %T", r)
	}
}
