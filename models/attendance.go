package models

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Category is an open enumeration of response categories. New categories can
// be added through the parser vocabulary without touching the store or the
// aggregation code.
type Category string

const (
	CategoryAccepted  Category = "accepted"
	CategoryDeclined  Category = "declined"
	CategoryTentative Category = "tentative"
)

// Attendee is one extracted responder. ID is the normalized identifier used
// for all aggregation; DisplayName keeps the original spelling for output.
type Attendee struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// AttendanceRecord is the canonical attendance state of one logical event.
// It is immutable once stored; edits and re-posts replace the whole record.
type AttendanceRecord struct {
	EventKey       string     `json:"event_key"`
	Title          string     `json:"title"`
	Accepted       []Attendee `json:"accepted"`
	Declined       []Attendee `json:"declined"`
	Tentative      []Attendee `json:"tentative"`
	SourceAuthorID string     `json:"source_author_id"`
	ScannedAt      time.Time  `json:"scanned_at"`
	RawFieldCount  int        `json:"raw_field_count"`
}

// Responders returns the attendees of one category.
func (r *AttendanceRecord) Responders(cat Category) []Attendee {
	switch cat {
	case CategoryAccepted:
		return r.Accepted
	case CategoryDeclined:
		return r.Declined
	case CategoryTentative:
		return r.Tentative
	}
	return nil
}

// TotalResponders counts attendees across all categories.
func (r *AttendanceRecord) TotalResponders() int {
	return len(r.Accepted) + len(r.Declined) + len(r.Tentative)
}

// eventKeyRounding collapses re-posts of the same event that land within one
// edit burst. Ten minutes matches what we observed from the upstream bot.
const eventKeyRounding = 10 * time.Minute

// EventKey derives the identity that collapses edits and re-posts of the same
// logical event. Edits keep the message ID, so that is the stable key when we
// have one; otherwise fall back to title + author + rounded post time.
func EventKey(e RawEmbed) string {
	if e.MessageID != "" {
		return e.MessageID
	}
	rounded := e.PostedAt.Truncate(eventKeyRounding).Unix()
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%d",
		strings.ToLower(strings.TrimSpace(e.Title)), e.AuthorID, rounded)))
	return hex.EncodeToString(sum[:])
}

// LeaderboardEntry is one row of an aggregated leaderboard. It exists only
// for the duration of a query response.
type LeaderboardEntry struct {
	UserID           string
	DisplayName      string
	AttendedCount    int
	DeclinedCount    int
	EventsConsidered int
}

// ScanSummary reports the outcome of one scan pass.
type ScanSummary struct {
	ScanID        string
	ChannelID     string
	Seen          int
	Recognized    int
	Ignored       int
	LowConfidence int
	Updated       int
	StartedAt     time.Time
}

func (s ScanSummary) String() string {
	return fmt.Sprintf("scan %s: %d embeds seen, %d recognized, %d ignored, %d low-confidence, %d records updated",
		s.ScanID, s.Seen, s.Recognized, s.Ignored, s.LowConfidence, s.Updated)
}
