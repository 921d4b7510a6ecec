package scanner

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"attbot/database"
	"attbot/metrics"
	"attbot/models"
	"attbot/parser"

	"github.com/google/uuid"
)

// ErrSourceUnavailable wraps fetch failures. A failed fetch aborts the scan
// before any store mutation.
var ErrSourceUnavailable = errors.New("embed source unavailable")

// EmbedSource supplies the raw embeds of a channel, newest-first or
// oldest-first; the scanner sorts by post time before processing.
type EmbedSource interface {
	FetchRecent(channelID string, limit int) ([]models.RawEmbed, error)
}

// ReactionSource lists the emoji reactions on recent channel messages.
type ReactionSource interface {
	FetchReactions(channelID string, limit int) ([]models.MessageReactions, error)
}

// Scanner runs scan passes: fetch, parse, reconcile, store.
type Scanner struct {
	source EmbedSource
	store  database.Store
	parser *parser.Parser
}

// New creates a scanner. A nil parser means the default vocabulary.
func New(source EmbedSource, store database.Store, p *parser.Parser) *Scanner {
	if p == nil {
		p = parser.New(nil)
	}
	return &Scanner{source: source, store: store, parser: p}
}

// Scan runs one full pass over a channel. The store is untouched until the
// whole page is fetched and parsed, so it is consistent before and after
// every call, never mid-scan.
func (sc *Scanner) Scan(channelID string, limit int) (models.ScanSummary, error) {
	summary := models.ScanSummary{
		ScanID:    uuid.NewString(),
		ChannelID: channelID,
		StartedAt: time.Now(),
	}

	embeds, err := sc.source.FetchRecent(channelID, limit)
	if err != nil {
		metrics.ScanFailures.Inc()
		return summary, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	// Sort by post time so reconciliation sees edits and re-posts in a
	// deterministic order regardless of how the source paginates.
	sort.SliceStable(embeds, func(i, j int) bool {
		if !embeds[i].PostedAt.Equal(embeds[j].PostedAt) {
			return embeds[i].PostedAt.Before(embeds[j].PostedAt)
		}
		return embeds[i].MessageID < embeds[j].MessageID
	})

	type staged struct {
		rec     models.AttendanceRecord
		outcome parser.Outcome
	}
	parsed := make([]staged, 0, len(embeds))
	for _, e := range embeds {
		rec, outcome := sc.parser.Parse(e)
		parsed = append(parsed, staged{rec: rec, outcome: outcome})
	}

	for _, p := range parsed {
		summary.Seen++
		metrics.EmbedsSeen.Inc()

		switch p.outcome {
		case parser.OutcomeNotEvent:
			summary.Ignored++
			metrics.EmbedsIgnored.Inc()
			continue
		case parser.OutcomeMalformed:
			summary.LowConfidence++
			metrics.EmbedsLowConfidence.Inc()
		default:
			summary.Recognized++
			metrics.EmbedsRecognized.Inc()
		}

		updated, err := sc.store.Put(p.rec)
		if err != nil {
			// One bad record never fails the whole pass.
			log.Printf("Failed to store record %s during scan %s: %v", p.rec.EventKey, summary.ScanID, err)
			continue
		}
		if updated {
			summary.Updated++
			metrics.RecordsUpdated.Inc()
		}
	}

	log.Printf("Scan of channel %s finished: %s", channelID, summary)
	return summary, nil
}

// ScanReactions summarizes who reacted with what on the channel's recent
// messages. It is a quick attendance check for events that never got a
// proper embed, so unlike Scan it reads every author's messages and never
// touches the store.
func (sc *Scanner) ScanReactions(channelID string, limit int) (models.ReactionSummary, error) {
	rs, ok := sc.source.(ReactionSource)
	if !ok {
		return models.ReactionSummary{}, fmt.Errorf("%w: source cannot list reactions", ErrSourceUnavailable)
	}

	msgs, err := rs.FetchReactions(channelID, limit)
	if err != nil {
		metrics.ScanFailures.Inc()
		return models.ReactionSummary{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	summary := models.ReactionSummary{Scanned: len(msgs)}
	index := map[string]int{}
	for _, msg := range msgs {
		for _, r := range msg.Reactions {
			pos, ok := index[r.Emoji]
			if !ok {
				pos = len(summary.Emojis)
				index[r.Emoji] = pos
				summary.Emojis = append(summary.Emojis, models.EmojiReactors{Emoji: r.Emoji})
			}
			e := &summary.Emojis[pos]
			for _, u := range r.Users {
				e.Total++
				if !containsName(e.Users, u) {
					e.Users = append(e.Users, u)
				}
			}
		}
	}
	return summary, nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
