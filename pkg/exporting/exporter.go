// Package exporting persists decoded reports as flat records.
package exporting

import (
	"fmt"
	"os"
	"path/filepath"

	"ProcReports/pkg/collecting"
)

// Exporter writes records to one output file in one format.
type Exporter struct {
	path   string
	format string
	writer Writer
}

// NewExporter creates a new exporter for the given path and format.
func NewExporter(path, format string) (*Exporter, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, ok := Get(format)
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	writer := f.Writer()
	if err := writer.Init(path); err != nil {
		return nil, fmt.Errorf("failed to initialize writer: %w", err)
	}

	return &Exporter{
		path:   path,
		format: format,
		writer: writer,
	}, nil
}

// Path returns the output file path.
func (e *Exporter) Path() string {
	return e.path
}

// Format returns the output format.
func (e *Exporter) Format() string {
	return e.format
}

// Write writes a single record.
func (e *Exporter) Write(record Record) error {
	return e.writer.Write(record)
}

// WriteBatch writes multiple records.
func (e *Exporter) WriteBatch(records []Record) error {
	return e.writer.WriteBatch(records)
}

// WriteSnapshot writes the one-row summary of s.
func (e *Exporter) WriteSnapshot(s *collecting.Snapshot) error {
	return e.writer.Write(SnapshotRecord(s))
}

// WriteSockets writes one row per socket of s.
func (e *Exporter) WriteSockets(s *collecting.Snapshot) error {
	return e.writer.WriteBatch(SocketRecords(s))
}

// Flush ensures all buffered data is written.
func (e *Exporter) Flush() error {
	return e.writer.Flush()
}

// Close finalizes and closes the exporter.
func (e *Exporter) Close() error {
	return e.writer.Close()
}
