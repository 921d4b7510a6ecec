package database

import (
	"errors"
	"fmt"
	"time"

	"attbot/models"
)

// ErrNotFound is returned when a queried event key has no stored record.
var ErrNotFound = errors.New("attendance record not found")

// Store holds canonical attendance records keyed by event key. Two backends
// implement it: a volatile in-memory map and a durable sqlite append log.
// All methods are safe for concurrent use; discordgo dispatches handlers on
// separate goroutines, and Put must be atomic because reconciliation is a
// read-then-conditionally-write step.
type Store interface {
	// Put reconciles the incoming record against the stored one and persists
	// the winner. It reports whether the canonical state changed, and is a
	// no-op for a repeat of the current canonical record.
	Put(rec models.AttendanceRecord) (bool, error)
	// Get returns the canonical record for an event key, or ErrNotFound.
	Get(eventKey string) (models.AttendanceRecord, error)
	// All returns every canonical record ordered by scanned_at descending,
	// ties broken by event key ascending.
	All() ([]models.AttendanceRecord, error)
	// RecentAuthors returns the distinct source author IDs among records
	// scanned within the trailing window. window <= 0 means all records.
	RecentAuthors(window time.Duration) (map[string]bool, error)
	Close() error
}

// Open creates a store per the configured retention mode.
func Open(cfg models.StoreConfig) (Store, error) {
	switch cfg.Mode {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		if cfg.DBPath == "" {
			return nil, fmt.Errorf("store mode sqlite requires store.db_path")
		}
		return NewSqliteStore(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown store mode %q", cfg.Mode)
	}
}
