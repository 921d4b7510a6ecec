package database

import (
	"sort"
	"sync"
	"time"

	"attbot/models"
)

// MemoryStore keeps canonical records in process memory. Everything is gone
// at restart; used where on-disk state is unwanted.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]models.AttendanceRecord
}

// NewMemoryStore creates an empty volatile store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.AttendanceRecord)}
}

// Put reconciles and stores a record under its event key.
func (m *MemoryStore) Put(rec models.AttendanceRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var existing *models.AttendanceRecord
	if cur, ok := m.records[rec.EventKey]; ok {
		existing = &cur
	}
	winner := Reconcile(existing, rec)
	if existing != nil && equalRecords(*existing, winner) {
		return false, nil
	}
	m.records[rec.EventKey] = winner
	return true, nil
}

// Get returns the canonical record for an event key.
func (m *MemoryStore) Get(eventKey string) (models.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[eventKey]
	if !ok {
		return models.AttendanceRecord{}, ErrNotFound
	}
	return rec, nil
}

// All returns every record, most recently scanned first.
func (m *MemoryStore) All() ([]models.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedRecords(m.records), nil
}

// RecentAuthors returns the distinct source authors scanned within window.
func (m *MemoryStore) RecentAuthors(window time.Duration) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return recentAuthors(m.records, window), nil
}

// Close is a no-op for the volatile store.
func (m *MemoryStore) Close() error { return nil }

// sortedRecords flattens a record map ordered by scanned_at descending, ties
// broken by event key ascending for determinism.
func sortedRecords(records map[string]models.AttendanceRecord) []models.AttendanceRecord {
	out := make([]models.AttendanceRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScannedAt.Equal(out[j].ScannedAt) {
			return out[i].ScannedAt.After(out[j].ScannedAt)
		}
		return out[i].EventKey < out[j].EventKey
	})
	return out
}

func recentAuthors(records map[string]models.AttendanceRecord, window time.Duration) map[string]bool {
	cutoff := time.Time{}
	if window > 0 {
		cutoff = time.Now().Add(-window)
	}
	authors := make(map[string]bool)
	for _, rec := range records {
		if rec.SourceAuthorID == "" {
			continue
		}
		if cutoff.IsZero() || !rec.ScannedAt.Before(cutoff) {
			authors[rec.SourceAuthorID] = true
		}
	}
	return authors
}

func equalRecords(a, b models.AttendanceRecord) bool {
	if a.EventKey != b.EventKey || a.Title != b.Title ||
		a.SourceAuthorID != b.SourceAuthorID ||
		a.RawFieldCount != b.RawFieldCount ||
		!a.ScannedAt.Equal(b.ScannedAt) {
		return false
	}
	return equalAttendees(a.Accepted, b.Accepted) &&
		equalAttendees(a.Declined, b.Declined) &&
		equalAttendees(a.Tentative, b.Tentative)
}

func equalAttendees(a, b []models.Attendee) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
