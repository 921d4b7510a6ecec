package models

// MessageReactions holds the reactions attached to one channel message.
type MessageReactions struct {
	MessageID string     `json:"message_id"`
	Reactions []Reaction `json:"reactions"`
}

// Reaction groups the users who reacted to a message with one emoji. Bots
// are excluded at fetch time.
type Reaction struct {
	Emoji string   `json:"emoji"`
	Users []string `json:"users"`
}

// ReactionSummary aggregates one reaction scan pass. It is a diagnostic
// view over raw emoji reactions and never feeds the attendance store.
type ReactionSummary struct {
	Scanned int
	Emojis  []EmojiReactors
}

// EmojiReactors tallies every use of one emoji across the scanned messages.
// Total counts repeat reactions by the same user on different messages;
// Users keeps each name once, in first-seen order.
type EmojiReactors struct {
	Emoji string
	Total int
	Users []string
}
