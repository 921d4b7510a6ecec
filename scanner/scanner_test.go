package scanner

import (
	"errors"
	"testing"
	"time"

	"attbot/database"
	"attbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	embeds []models.RawEmbed
	err    error
}

func (f *fakeSource) FetchRecent(channelID string, limit int) ([]models.RawEmbed, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.RawEmbed, len(f.embeds))
	copy(out, f.embeds)
	return out, nil
}

func eventEmbed(msgID string, postedAt time.Time, accepted string) models.RawEmbed {
	return models.RawEmbed{
		MessageID: msgID,
		ChannelID: "chan",
		AuthorID:  "apollo",
		PostedAt:  postedAt,
		Title:     "Op " + msgID,
		Fields: []models.EmbedField{
			{Label: "Accepted ✅", Body: accepted},
		},
	}
}

func TestScan_Summary(t *testing.T) {
	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	src := &fakeSource{embeds: []models.RawEmbed{
		eventEmbed("1", base, "- Alice\n- Bob"),
		eventEmbed("2", base.Add(time.Minute), "***"), // matches vocabulary, no usable names
		{MessageID: "3", PostedAt: base.Add(2 * time.Minute), Title: "Patch notes"},
	}}
	st := database.NewMemoryStore()

	summary, err := New(src, st, nil).Scan("chan", 50)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Seen)
	assert.Equal(t, 1, summary.Recognized)
	assert.Equal(t, 1, summary.Ignored)
	assert.Equal(t, 1, summary.LowConfidence)
	assert.NotEmpty(t, summary.ScanID)

	rec, err := st.Get("1")
	require.NoError(t, err)
	assert.Len(t, rec.Accepted, 2)
}

func TestScan_SourceFailureLeavesStoreUntouched(t *testing.T) {
	src := &fakeSource{err: errors.New("gateway down")}
	st := database.NewMemoryStore()

	_, err := New(src, st, nil).Scan("chan", 50)
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	all, err := st.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestScan_Idempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	src := &fakeSource{embeds: []models.RawEmbed{
		eventEmbed("1", base, "- Alice"),
		eventEmbed("2", base.Add(time.Minute), "- Bob"),
	}}
	st := database.NewMemoryStore()
	sc := New(src, st, nil)

	_, err := sc.Scan("chan", 50)
	require.NoError(t, err)
	first, err := st.All()
	require.NoError(t, err)

	_, err = sc.Scan("chan", 50)
	require.NoError(t, err)
	second, err := st.All()
	require.NoError(t, err)

	// Same records, no duplicates, attendee sets unchanged.
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].EventKey, second[i].EventKey)
		assert.Equal(t, first[i].Accepted, second[i].Accepted)
	}
}

type fakeReactionSource struct {
	fakeSource
	msgs []models.MessageReactions
}

func (f *fakeReactionSource) FetchReactions(channelID string, limit int) ([]models.MessageReactions, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.msgs, nil
}

func TestScanReactions_Summary(t *testing.T) {
	src := &fakeReactionSource{msgs: []models.MessageReactions{
		{MessageID: "1", Reactions: []models.Reaction{
			{Emoji: "✅", Users: []string{"Alice", "Bob"}},
			{Emoji: "❌", Users: []string{"Carol"}},
		}},
		{MessageID: "2"}, // scanned, nobody reacted
		{MessageID: "3", Reactions: []models.Reaction{
			{Emoji: "✅", Users: []string{"Alice"}},
		}},
	}}
	st := database.NewMemoryStore()

	summary, err := New(src, st, nil).ScanReactions("chan", 50)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Scanned)
	require.Len(t, summary.Emojis, 2)

	check := summary.Emojis[0]
	assert.Equal(t, "✅", check.Emoji)
	assert.Equal(t, 3, check.Total)
	assert.Equal(t, []string{"Alice", "Bob"}, check.Users)

	cross := summary.Emojis[1]
	assert.Equal(t, "❌", cross.Emoji)
	assert.Equal(t, 1, cross.Total)
	assert.Equal(t, []string{"Carol"}, cross.Users)

	// A reaction pass is read-only.
	all, err := st.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestScanReactions_SourceFailure(t *testing.T) {
	src := &fakeReactionSource{fakeSource: fakeSource{err: errors.New("gateway down")}}

	_, err := New(src, database.NewMemoryStore(), nil).ScanReactions("chan", 50)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestScanReactions_SourceWithoutReactionSupport(t *testing.T) {
	_, err := New(&fakeSource{}, database.NewMemoryStore(), nil).ScanReactions("chan", 50)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestScan_DeterministicAcrossInputOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	// An edit re-fetch: same event key, newer post carries the fuller list.
	older := eventEmbed("1", base, "- Alice")
	newer := eventEmbed("1", base.Add(time.Minute), "- Alice\n- Bob")

	for name, ordered := range map[string][]models.RawEmbed{
		"oldest-first": {older, newer},
		"newest-first": {newer, older},
	} {
		st := database.NewMemoryStore()
		_, err := New(&fakeSource{embeds: ordered}, st, nil).Scan("chan", 50)
		require.NoError(t, err, name)

		rec, err := st.Get("1")
		require.NoError(t, err, name)
		assert.Lenf(t, rec.Accepted, 2, "%s: the later post must win", name)
	}
}
