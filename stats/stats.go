// Package stats answers read-only queries over the attendance store. All
// queries are total over the current store state; the only failure mode a
// caller sees is a not-found result.
package stats

import (
	"fmt"
	"sort"
	"time"

	"attbot/database"
	"attbot/models"
)

// Leaderboard ranks attendees over the nEvents most recently scanned
// records. A user absent from a record contributes nothing for it; they are
// not penalized for non-participation. topK <= 0 returns all entries.
func Leaderboard(store database.Store, nEvents, topK int) ([]models.LeaderboardEntry, error) {
	records, err := store.All()
	if err != nil {
		return nil, fmt.Errorf("failed to read attendance records: %w", err)
	}
	if nEvents > 0 && len(records) > nEvents {
		records = records[:nEvents]
	}

	type tally struct {
		display  string
		attended int
		declined int
	}
	totals := make(map[string]*tally)
	count := func(id, display string) *tally {
		t, ok := totals[id]
		if !ok {
			t = &tally{display: display}
			totals[id] = t
		}
		return t
	}

	for _, rec := range records {
		for _, a := range rec.Accepted {
			count(a.ID, a.DisplayName).attended++
		}
		for _, a := range rec.Declined {
			count(a.ID, a.DisplayName).declined++
		}
	}

	entries := make([]models.LeaderboardEntry, 0, len(totals))
	for id, t := range totals {
		entries = append(entries, models.LeaderboardEntry{
			UserID:           id,
			DisplayName:      t.display,
			AttendedCount:    t.attended,
			DeclinedCount:    t.declined,
			EventsConsidered: len(records),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AttendedCount != entries[j].AttendedCount {
			return entries[i].AttendedCount > entries[j].AttendedCount
		}
		if entries[i].DeclinedCount != entries[j].DeclinedCount {
			return entries[i].DeclinedCount < entries[j].DeclinedCount
		}
		return entries[i].UserID < entries[j].UserID
	})

	if topK > 0 && len(entries) > topK {
		entries = entries[:topK]
	}
	return entries, nil
}

// Dump returns the raw canonical record for one event, untransformed.
func Dump(store database.Store, eventKey string) (models.AttendanceRecord, error) {
	return store.Get(eventKey)
}

// RecentAuthors lists the distinct source authors among records scanned
// within the trailing window, sorted for stable output. Lets an operator
// verify the expected event bot is still the one posting.
func RecentAuthors(store database.Store, window time.Duration) ([]string, error) {
	set, err := store.RecentAuthors(window)
	if err != nil {
		return nil, fmt.Errorf("failed to read recent authors: %w", err)
	}
	authors := make([]string, 0, len(set))
	for id := range set {
		authors = append(authors, id)
	}
	sort.Strings(authors)
	return authors, nil
}
