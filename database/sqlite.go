package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"attbot/models"

	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver
)

// SqliteStore is the durable backend: every accepted Put appends a full
// record snapshot to an append-only log table, and the canonical state is
// rebuilt at startup by replaying the log with the reconcile rule. There is
// no compaction; the log grows forever.
type SqliteStore struct {
	mu      sync.Mutex
	db      *sql.DB
	records map[string]models.AttendanceRecord
}

// NewSqliteStore opens (creating if needed) the database at dbPath and
// replays the attendance log into memory.
func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	// Ensure the directory for the database file exists.
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Ping the database to verify the connection.
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createLogTable(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create attendance log table: %w", err)
	}

	s := &SqliteStore{db: db, records: make(map[string]models.AttendanceRecord)}
	if err := s.replay(); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("Attendance store opened at %s (%d records replayed)", dbPath, len(s.records))
	return s, nil
}

func createLogTable(db *sql.DB) error {
	query := `
    CREATE TABLE IF NOT EXISTS attendance_log (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        event_key TEXT NOT NULL,
        scanned_at INTEGER NOT NULL,
        snapshot TEXT NOT NULL
    );`
	_, err := db.Exec(query)
	return err
}

// replay rebuilds the canonical state by applying the log in sequence order
// with the same last-write-wins rule used at scan time. Unreadable snapshot
// rows are skipped and logged, never fatal to startup.
func (s *SqliteStore) replay() error {
	rows, err := s.db.Query("SELECT seq, snapshot FROM attendance_log ORDER BY seq ASC")
	if err != nil {
		return fmt.Errorf("failed to read attendance log: %w", err)
	}
	defer rows.Close()

	skipped := 0
	for rows.Next() {
		var seq int64
		var snapshot string
		if err := rows.Scan(&seq, &snapshot); err != nil {
			return fmt.Errorf("failed to scan attendance log row: %w", err)
		}

		var rec models.AttendanceRecord
		if err := json.Unmarshal([]byte(snapshot), &rec); err != nil || rec.EventKey == "" {
			log.Printf("Skipping corrupt attendance log entry seq=%d: %v", seq, err)
			skipped++
			continue
		}

		var existing *models.AttendanceRecord
		if cur, ok := s.records[rec.EventKey]; ok {
			existing = &cur
		}
		s.records[rec.EventKey] = Reconcile(existing, rec)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate attendance log: %w", err)
	}
	if skipped > 0 {
		log.Printf("Attendance log replay skipped %d corrupt entries", skipped)
	}
	return nil
}

// Put reconciles and, when the canonical state changes, appends a snapshot
// row. Re-storing the current canonical record appends nothing.
func (s *SqliteStore) Put(rec models.AttendanceRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *models.AttendanceRecord
	if cur, ok := s.records[rec.EventKey]; ok {
		existing = &cur
	}
	winner := Reconcile(existing, rec)
	if existing != nil && equalRecords(*existing, winner) {
		return false, nil
	}

	snapshot, err := json.Marshal(winner)
	if err != nil {
		return false, fmt.Errorf("failed to encode record %s: %w", winner.EventKey, err)
	}

	stmt, err := s.db.Prepare("INSERT INTO attendance_log (event_key, scanned_at, snapshot) VALUES (?, ?, ?)")
	if err != nil {
		return false, fmt.Errorf("failed to prepare statement for saving record: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(winner.EventKey, winner.ScannedAt.Unix(), string(snapshot)); err != nil {
		return false, fmt.Errorf("failed to append record %s: %w", winner.EventKey, err)
	}

	s.records[winner.EventKey] = winner
	return true, nil
}

// Get returns the canonical record for an event key.
func (s *SqliteStore) Get(eventKey string) (models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[eventKey]
	if !ok {
		return models.AttendanceRecord{}, ErrNotFound
	}
	return rec, nil
}

// All returns every record, most recently scanned first.
func (s *SqliteStore) All() ([]models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedRecords(s.records), nil
}

// RecentAuthors returns the distinct source authors scanned within window.
func (s *SqliteStore) RecentAuthors(window time.Duration) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return recentAuthors(s.records, window), nil
}

// Close closes the underlying database.
func (s *SqliteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
