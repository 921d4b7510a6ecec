package scanner

import (
	"fmt"
	"strings"

	"attbot/models"

	"github.com/bwmarrin/discordgo"
)

// DiscordSource adapts a discordgo session to the EmbedSource interface,
// keeping only embeds posted by the configured event bot.
type DiscordSource struct {
	session *discordgo.Session
	botName string // author-name substring; empty keeps every author
}

// NewDiscordSource creates a source over an open session.
func NewDiscordSource(session *discordgo.Session, botName string) *DiscordSource {
	return &DiscordSource{session: session, botName: botName}
}

// FetchRecent pulls up to limit recent messages from the channel and
// flattens their embeds into raw payloads.
func (d *DiscordSource) FetchRecent(channelID string, limit int) ([]models.RawEmbed, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	msgs, err := d.session.ChannelMessages(channelID, limit, "", "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel history for %s: %w", channelID, err)
	}

	var embeds []models.RawEmbed
	for _, msg := range msgs {
		if msg.Author == nil {
			continue
		}
		if d.botName != "" && !strings.Contains(strings.ToLower(msg.Author.Username), strings.ToLower(d.botName)) {
			continue
		}

		for idx, embed := range msg.Embeds {
			raw := models.RawEmbed{
				MessageID:   msg.ID,
				ChannelID:   channelID,
				AuthorID:    msg.Author.ID,
				AuthorName:  msg.Author.Username,
				PostedAt:    msg.Timestamp,
				Title:       embed.Title,
				Description: embed.Description,
			}
			// A message carrying several embeds is several logical events.
			if idx > 0 {
				raw.MessageID = fmt.Sprintf("%s-%d", msg.ID, idx)
			}
			for _, f := range embed.Fields {
				if f == nil {
					continue
				}
				raw.Fields = append(raw.Fields, models.EmbedField{Label: f.Name, Body: f.Value})
			}
			embeds = append(embeds, raw)
		}
	}
	return embeds, nil
}

// FetchReactions pulls up to limit recent messages and resolves who reacted
// with what. Every scanned message yields an entry, reactions or not, and
// bot reactions are dropped. No author filter here: reaction checks cover
// everyone's messages, not just the event bot's.
func (d *DiscordSource) FetchReactions(channelID string, limit int) ([]models.MessageReactions, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	msgs, err := d.session.ChannelMessages(channelID, limit, "", "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel history for %s: %w", channelID, err)
	}

	out := make([]models.MessageReactions, 0, len(msgs))
	for _, msg := range msgs {
		entry := models.MessageReactions{MessageID: msg.ID}
		for _, r := range msg.Reactions {
			if r == nil || r.Emoji == nil {
				continue
			}
			users, err := d.session.MessageReactions(channelID, msg.ID, r.Emoji.APIName(), 100, "", "")
			if err != nil {
				return nil, fmt.Errorf("failed to list %s reactions on message %s: %w", r.Emoji.APIName(), msg.ID, err)
			}
			reaction := models.Reaction{Emoji: r.Emoji.MessageFormat()}
			for _, u := range users {
				if u == nil || u.Bot {
					continue
				}
				name := u.Username
				if u.GlobalName != "" {
					name = u.GlobalName
				}
				reaction.Users = append(reaction.Users, name)
			}
			if len(reaction.Users) > 0 {
				entry.Reactions = append(entry.Reactions, reaction)
			}
		}
		out = append(out, entry)
	}
	return out, nil
}
