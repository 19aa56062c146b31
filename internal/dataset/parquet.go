package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/segmentio/parquet-go"
)

// ParquetReader reads Parquet files row by row, keeping the file's schema
// so rewritten rows can be written back unchanged except for the text
// column.
type ParquetReader struct {
	file   *os.File
	reader *parquet.Reader
	schema *parquet.Schema
	buf    []parquet.Row
}

// OpenParquet opens a Parquet file.
func OpenParquet(path string) (*ParquetReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Parquet file: %w", err)
	}

	reader := parquet.NewReader(file)
	return &ParquetReader{
		file:   file,
		reader: reader,
		schema: reader.Schema(),
		buf:    make([]parquet.Row, 1),
	}, nil
}

// Schema returns the file's schema.
func (r *ParquetReader) Schema() *parquet.Schema { return r.schema }

// Columns returns the top-level field names.
func (r *ParquetReader) Columns() []string {
	fields := r.schema.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name()
	}
	return names
}

// Read returns the next row, or io.EOF after the last one.
func (r *ParquetReader) Read() (Row, error) {
	r.buf[0] = r.buf[0][:0]
	n, err := r.reader.ReadRows(r.buf)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return nil, err
	}

	// The read buffer is reused between calls; rows handed out must own
	// their values.
	row := make(parquet.Row, len(r.buf[0]))
	copy(row, r.buf[0])
	return &ParquetRow{row: row, schema: r.schema}, nil
}

// Close closes the reader and the underlying file.
func (r *ParquetReader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// ParquetRow is one Parquet record.
type ParquetRow struct {
	row    parquet.Row
	schema *parquet.Schema
}

// Field returns the named leaf column's value when it holds a byte-array
// (string) value.
func (r *ParquetRow) Field(name string) (string, bool) {
	leaf, ok := r.schema.Lookup(name)
	if !ok {
		return "", false
	}
	for _, v := range r.row {
		if v.Column() != leaf.ColumnIndex {
			continue
		}
		if v.Kind() != parquet.ByteArray {
			return "", false
		}
		return v.String(), true
	}
	return "", false
}

// SetField replaces the named leaf column's value, preserving the value's
// repetition and definition levels.
func (r *ParquetRow) SetField(name, value string) error {
	leaf, ok := r.schema.Lookup(name)
	if !ok {
		return fmt.Errorf("parquet: no column %q", name)
	}
	for i, v := range r.row {
		if v.Column() != leaf.ColumnIndex {
			continue
		}
		r.row[i] = parquet.ValueOf(value).Level(v.RepetitionLevel(), v.DefinitionLevel(), leaf.ColumnIndex)
		return nil
	}
	return fmt.Errorf("parquet: row has no value for column %q", name)
}

// ParquetWriter writes Parquet files with a fixed schema.
type ParquetWriter struct {
	file   *os.File
	writer *parquet.Writer
}

// CreateParquet creates a Parquet file at path using the given schema,
// normally the schema of the reader the rows come from.
func CreateParquet(path string, schema *parquet.Schema) (*ParquetWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create Parquet file: %w", err)
	}
	return &ParquetWriter{file: file, writer: parquet.NewWriter(file, schema)}, nil
}

// Write appends one row. The row must come from a ParquetReader.
func (w *ParquetWriter) Write(row Row) error {
	r, ok := row.(*ParquetRow)
	if !ok {
		return fmt.Errorf("parquet: writer requires Parquet rows, got %T", row)
	}
	_, err := w.writer.WriteRows([]parquet.Row{r.row})
	return err
}

// Close flushes the writer footer and closes the file.
func (w *ParquetWriter) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
