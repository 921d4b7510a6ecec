package models

import "time"

// EmbedField is one labeled field of a rich embed. Order matters: when the
// same attendee shows up under two labels, the later field wins.
type EmbedField struct {
	Label string
	Body  string
}

// RawEmbed is a single embed payload as fetched from the channel history.
// It is read-only input for the parser and does not outlive a scan pass.
type RawEmbed struct {
	MessageID   string
	ChannelID   string
	AuthorID    string
	AuthorName  string
	PostedAt    time.Time
	Title       string
	Description string
	Fields      []EmbedField
}
