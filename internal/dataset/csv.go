package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVReader reads CSV files with a header row.
type CSVReader struct {
	file   *os.File
	reader *csv.Reader
	header []string
	index  map[string]int
}

// OpenCSV opens a CSV file and reads its header.
func OpenCSV(path string) (*CSVReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	return &CSVReader{file: file, reader: reader, header: header, index: index}, nil
}

// Header returns the column names in file order.
func (r *CSVReader) Header() []string { return r.header }

// Columns returns the column names; the pipeline uses this to validate the
// target column before processing.
func (r *CSVReader) Columns() []string { return r.header }

// Read returns the next row, or io.EOF after the last one.
func (r *CSVReader) Read() (Row, error) {
	record, err := r.reader.Read()
	if err != nil {
		return nil, err
	}
	return &CSVRow{fields: record, index: r.index}, nil
}

// Close closes the underlying file.
func (r *CSVReader) Close() error { return r.file.Close() }

// CSVRow is one CSV record.
type CSVRow struct {
	fields []string
	index  map[string]int
}

// Field returns the value of the named column.
func (r *CSVRow) Field(name string) (string, bool) {
	i, ok := r.index[name]
	if !ok || i >= len(r.fields) {
		return "", false
	}
	return r.fields[i], true
}

// SetField replaces the value of the named column.
func (r *CSVRow) SetField(name, value string) error {
	i, ok := r.index[name]
	if !ok || i >= len(r.fields) {
		return fmt.Errorf("csv: no column %q", name)
	}
	r.fields[i] = value
	return nil
}

// CSVWriter writes CSV files with a header row.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateCSV creates a CSV file at path and writes the header immediately.
func CreateCSV(path string, header []string) (*CSVWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	return &CSVWriter{file: file, writer: writer}, nil
}

// Write appends one row. The row must come from a CSVReader.
func (w *CSVWriter) Write(row Row) error {
	r, ok := row.(*CSVRow)
	if !ok {
		return fmt.Errorf("csv: writer requires CSV rows, got %T", row)
	}
	return w.writer.Write(r.fields)
}

// Close flushes buffered rows and closes the file.
func (w *CSVWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
