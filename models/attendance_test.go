package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventKey_MessageIDWins(t *testing.T) {
	e := RawEmbed{MessageID: "555", Title: "Friday Raid", AuthorID: "apollo", PostedAt: time.Now()}
	assert.Equal(t, "555", EventKey(e))
}

func TestEventKey_FallbackStableAcrossReposts(t *testing.T) {
	base := time.Date(2026, 3, 1, 18, 2, 0, 0, time.UTC)
	a := RawEmbed{Title: "Friday Raid", AuthorID: "apollo", PostedAt: base}
	b := RawEmbed{Title: "  friday raid ", AuthorID: "apollo", PostedAt: base.Add(4 * time.Minute)}

	// Re-posts within the rounding window collapse to one key.
	assert.Equal(t, EventKey(a), EventKey(b))

	c := RawEmbed{Title: "Friday Raid", AuthorID: "apollo", PostedAt: base.Add(2 * time.Hour)}
	assert.NotEqual(t, EventKey(a), EventKey(c))

	d := RawEmbed{Title: "Friday Raid", AuthorID: "someone-else", PostedAt: base}
	assert.NotEqual(t, EventKey(a), EventKey(d))
}

func TestResponders(t *testing.T) {
	rec := AttendanceRecord{
		Accepted:  []Attendee{{ID: "alice"}},
		Declined:  []Attendee{{ID: "bob"}, {ID: "carol"}},
		Tentative: nil,
	}
	assert.Len(t, rec.Responders(CategoryAccepted), 1)
	assert.Len(t, rec.Responders(CategoryDeclined), 2)
	assert.Empty(t, rec.Responders(CategoryTentative))
	assert.Equal(t, 3, rec.TotalResponders())
}
