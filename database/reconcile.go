package database

import "attbot/models"

// Reconcile merges two parses of the same event into one canonical record.
// The incoming record wins only when it is at least as recent as the stored
// one and actually matched some fields; a transient malformed re-fetch must
// not wipe good data. It is always whole-record replacement: partial merges
// of attendee sets cannot be proven correct without per-field edit times.
func Reconcile(existing *models.AttendanceRecord, incoming models.AttendanceRecord) models.AttendanceRecord {
	if existing == nil {
		return incoming
	}
	if incoming.RawFieldCount > 0 && !incoming.ScannedAt.Before(existing.ScannedAt) {
		return incoming
	}
	return *existing
}
