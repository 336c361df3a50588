package exporting

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

func init() {
	Register(&SQLiteFormat{})
}

// SQLiteFormat stores each record as a JSON document in a sqlite table,
// with the identity columns broken out for querying.
type SQLiteFormat struct{}

func (f *SQLiteFormat) Name() string         { return "sqlite" }
func (f *SQLiteFormat) Extensions() []string { return []string{".db", ".sqlite"} }
func (f *SQLiteFormat) Reader() Reader       { return &SQLiteReader{} }
func (f *SQLiteFormat) Writer() Writer       { return &SQLiteWriter{} }

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS records (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid       TEXT,
		timestamp  INTEGER,
		report     TEXT,
		data       TEXT NOT NULL  -- JSON object of the full record
	);
	CREATE INDEX IF NOT EXISTS idx_records_uuid ON records(uuid);
	CREATE INDEX IF NOT EXISTS idx_records_report ON records(report);`

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}
	return db, nil
}

// SQLiteReader reads records back in insertion order.
type SQLiteReader struct {
	db *sql.DB
}

func (r *SQLiteReader) Open(path string) error {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	r.db = db
	return nil
}

func (r *SQLiteReader) Read() ([]Record, error) {
	rows, err := r.db.Query("SELECT data FROM records ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return records, fmt.Errorf("failed to scan record: %w", err)
		}
		var record Record
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&record); err != nil {
			return records, fmt.Errorf("failed to decode record: %w", err)
		}
		for k, v := range record {
			if n, ok := v.(json.Number); ok {
				record[k] = numberValue(n)
			}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SQLiteWriter inserts records inside one transaction committed on Flush.
type SQLiteWriter struct {
	path string
	db   *sql.DB
	tx   *sql.Tx
	mu   sync.Mutex
}

func (w *SQLiteWriter) Init(path string) error {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	w.path = path
	w.db = db
	return nil
}

func (w *SQLiteWriter) Write(record Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.insert(record)
}

func (w *SQLiteWriter) insert(record Record) error {
	if w.tx == nil {
		tx, err := w.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		w.tx = tx
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	report := record[KeyTable]
	if report == nil {
		report = record[KeyReport]
	}
	_, err = w.tx.Exec(
		"INSERT INTO records (uuid, timestamp, report, data) VALUES (?, ?, ?, ?)",
		record[KeyUUID], record[KeyTimestamp], report, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (w *SQLiteWriter) WriteBatch(records []Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, r := range records {
		if err := w.insert(r); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return nil
}

func (w *SQLiteWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tx == nil {
		return nil
	}
	err := w.tx.Commit()
	w.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

func (w *SQLiteWriter) Close() error {
	if err := w.Flush(); err != nil {
		w.db.Close()
		return err
	}
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}

func (w *SQLiteWriter) Path() string {
	return w.path
}
