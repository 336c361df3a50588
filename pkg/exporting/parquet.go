package exporting

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/parquet-go/parquet-go"
)

const ParquetBatchSize = 1000

func init() {
	Register(&ParquetFormat{})
}

// ParquetFormat handles Parquet files.
type ParquetFormat struct{}

func (f *ParquetFormat) Name() string         { return "parquet" }
func (f *ParquetFormat) Extensions() []string { return []string{".parquet"} }
func (f *ParquetFormat) Reader() Reader       { return &ParquetReader{} }
func (f *ParquetFormat) Writer() Writer       { return &ParquetWriter{} }

// ParquetReader reads Parquet files.
type ParquetReader struct {
	file  *os.File
	pfile *parquet.File
}

func (r *ParquetReader) Open(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to open parquet file: %w", err)
	}
	r.file = file
	r.pfile = pf
	return nil
}

func (r *ParquetReader) Read() ([]Record, error) {
	if r.pfile == nil {
		return nil, fmt.Errorf("reader not initialized")
	}

	fields := r.pfile.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name()
	}

	records := make([]Record, 0, r.pfile.NumRows())
	buf := make([]parquet.Row, 128)

	for _, rg := range r.pfile.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				records = append(records, rowToRecord(row, names))
			}
			if err != nil {
				rows.Close()
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, fmt.Errorf("failed to read rows: %w", err)
			}
			if n == 0 {
				rows.Close()
				break
			}
		}
	}

	return records, nil
}

func rowToRecord(row parquet.Row, names []string) Record {
	record := make(Record, len(names))
	for _, val := range row {
		col := val.Column()
		if col < 0 || col >= len(names) || val.IsNull() {
			continue
		}
		record[names[col]] = parquetValueToGo(val)
	}
	return record
}

func parquetValueToGo(v parquet.Value) interface{} {
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}

func (r *ParquetReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ParquetWriter writes Parquet files using the Row API. The schema is taken
// from the first record; every column is optional.
type ParquetWriter struct {
	path    string
	file    *os.File
	writer  *parquet.Writer
	columns []string
	buffer  []parquet.Row
	mu      sync.Mutex
}

func (w *ParquetWriter) Init(path string) error {
	w.path = path
	w.buffer = make([]parquet.Row, 0, ParquetBatchSize)
	return nil
}

func (w *ParquetWriter) initSchema(record Record) error {
	group := make(parquet.Group, len(record))
	for name, val := range record {
		group[name] = parquetNode(val)
	}
	schema := parquet.NewSchema("report", group)

	// The schema orders leaves by name; rows must follow that order.
	w.columns = w.columns[:0]
	for _, f := range schema.Fields() {
		w.columns = append(w.columns, f.Name())
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	w.file = file
	w.writer = parquet.NewWriter(file, schema, parquet.Compression(&parquet.Snappy))
	return nil
}

func parquetNode(val interface{}) parquet.Node {
	switch val.(type) {
	case uint, uint8, uint16, uint32, uint64:
		return parquet.Optional(parquet.Uint(64))
	case int, int8, int16, int32, int64:
		return parquet.Optional(parquet.Int(64))
	case float32, float64:
		return parquet.Optional(parquet.Leaf(parquet.DoubleType))
	case bool:
		return parquet.Optional(parquet.Leaf(parquet.BooleanType))
	default:
		return parquet.Optional(parquet.String())
	}
}

func (w *ParquetWriter) recordToRow(record Record) parquet.Row {
	row := make(parquet.Row, len(w.columns))
	for i, name := range w.columns {
		val, ok := record[name]
		if !ok || val == nil {
			row[i] = parquet.NullValue().Level(0, 0, i)
			continue
		}
		row[i] = goToParquetValue(val).Level(0, 1, i)
	}
	return row
}

func goToParquetValue(val interface{}) parquet.Value {
	switch v := val.(type) {
	case bool:
		return parquet.BooleanValue(v)
	case int:
		return parquet.Int64Value(int64(v))
	case int32:
		return parquet.Int64Value(int64(v))
	case int64:
		return parquet.Int64Value(v)
	case uint8:
		return parquet.Int64Value(int64(v))
	case uint16:
		return parquet.Int64Value(int64(v))
	case uint32:
		return parquet.Int64Value(int64(v))
	case uint64:
		return parquet.Int64Value(int64(v))
	case float64:
		return parquet.DoubleValue(v)
	case string:
		return parquet.ByteArrayValue([]byte(v))
	default:
		return parquet.ByteArrayValue([]byte(fmt.Sprintf("%v", v)))
	}
}

func (w *ParquetWriter) Write(record Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer == nil {
		if err := w.initSchema(record); err != nil {
			return err
		}
	}

	w.buffer = append(w.buffer, w.recordToRow(record))
	if len(w.buffer) >= ParquetBatchSize {
		return w.flushBuffer()
	}
	return nil
}

func (w *ParquetWriter) WriteBatch(records []Record) error {
	for i, r := range records {
		if err := w.Write(r); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return nil
}

func (w *ParquetWriter) flushBuffer() error {
	if len(w.buffer) == 0 || w.writer == nil {
		return nil
	}
	if _, err := w.writer.WriteRows(w.buffer); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	w.buffer = w.buffer[:0]
	return nil
}

func (w *ParquetWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.flushBuffer(); err != nil {
		return err
	}
	if w.writer != nil {
		return w.writer.Flush()
	}
	return nil
}

func (w *ParquetWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if w.writer != nil {
		if err := w.writer.Close(); err != nil {
			return err
		}
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

func (w *ParquetWriter) Path() string {
	return w.path
}
