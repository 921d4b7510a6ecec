package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"attbot/bot"
	"attbot/database"
	"attbot/models"
	"attbot/stats"
	"attbot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// HandleScanEvents handles the logic for the /scan_events command.
func HandleScanEvents(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	auth, err := utils.NewAuth()
	if err != nil {
		log.Printf("Error loading auth config: %v", err)
		respond(s, i, "Error: could not load command permissions.", true)
		return
	}
	if !auth.CheckPermission(i, "admin") {
		respond(s, i, "You are not allowed to trigger a scan.", true)
		return
	}

	limit := b.ScanCfg.Limit
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "limit" {
			limit = int(opt.IntValue())
		}
	}
	if limit > 100 {
		limit = 100
	}

	channelID := b.ScanCfg.ChannelID
	if channelID == "" {
		channelID = i.ChannelID
	}

	respond(s, i, fmt.Sprintf("Scanning the last %d messages for event embeds...", limit), true)

	// Run the scanning in a goroutine so the interaction does not time out.
	go func() {
		summary, err := b.Scanner.Scan(channelID, limit)
		if err != nil {
			utils.Error("scanner", "manual scan", err.Error())
			followup(s, i, fmt.Sprintf("Scan failed, store unchanged: %v", err))
			return
		}
		followup(s, i, fmt.Sprintf(
			"✅ Scan complete: %d embeds seen, %d recognized, %d ignored, %d low-confidence, %d records updated.",
			summary.Seen, summary.Recognized, summary.Ignored, summary.LowConfidence, summary.Updated))
	}()
}

// HandleScanAllReactions handles the logic for the /scan_all_reactions
// command, a quick attendance check over raw emoji reactions.
func HandleScanAllReactions(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	limit := 50
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "limit" {
			limit = int(opt.IntValue())
		}
	}
	if limit > 100 {
		limit = 100
	}

	respond(s, i, fmt.Sprintf("Scanning the last %d messages for reactions...", limit), true)

	// Listing reactors is one API call per emoji per message, so run it off
	// the interaction goroutine.
	go func() {
		summary, err := b.Scanner.ScanReactions(i.ChannelID, limit)
		if err != nil {
			utils.Error("scanner", "reaction scan", err.Error())
			followup(s, i, fmt.Sprintf("Reaction scan failed: %v", err))
			return
		}
		if len(summary.Emojis) == 0 {
			followup(s, i, fmt.Sprintf("No reactions found in the last %d messages.", summary.Scanned))
			return
		}

		lines := []string{fmt.Sprintf("**Reactions Summary (from last %d messages)**", summary.Scanned), ""}
		for _, e := range summary.Emojis {
			lines = append(lines, fmt.Sprintf("%s - %d reaction(s) from: %s", e.Emoji, e.Total, strings.Join(e.Users, ", ")))
		}
		followupChunked(s, i, strings.Join(lines, "\n"))
	}()
}

// HandleLeaderboard handles the logic for the /leaderboard command.
func HandleLeaderboard(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	nEvents := viper.GetInt("leaderboard.events")
	topK := 0
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "events":
			nEvents = int(opt.IntValue())
		case "top":
			topK = int(opt.IntValue())
		}
	}

	entries, err := stats.Leaderboard(b.Store, nEvents, topK)
	if err != nil {
		log.Printf("Error computing leaderboard: %v", err)
		respond(s, i, "Error: could not compute the leaderboard.", true)
		return
	}
	if len(entries) == 0 {
		respond(s, i, "No events have been scanned yet.", false)
		return
	}

	lines := []string{fmt.Sprintf("**Attendance Leaderboard %s**", time.Now().Format("January"))}
	rank := 0
	for _, e := range entries {
		if e.AttendedCount == 0 {
			continue
		}
		rank++
		lines = append(lines, fmt.Sprintf("%d. **%s** - %d/%d events ✅",
			rank, e.DisplayName, e.AttendedCount, e.EventsConsidered))
	}

	// Users who only ever declined get their own section.
	declinedRank := 0
	for _, e := range entries {
		if e.AttendedCount > 0 || e.DeclinedCount == 0 {
			continue
		}
		if declinedRank == 0 {
			lines = append(lines, "", "**Declined (❌)**")
		}
		declinedRank++
		lines = append(lines, fmt.Sprintf("%d. **%s** - %d declines ❌", declinedRank, e.DisplayName, e.DeclinedCount))
	}

	lines = append(lines, "", fmt.Sprintf("Total unique responders: %d", len(entries)))
	respondChunked(s, i, strings.Join(lines, "\n"))
}

// HandleDumpEvent handles the logic for the /dump_event command.
func HandleDumpEvent(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	var eventKey string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "event_key" {
			eventKey = opt.StringValue()
		}
	}

	rec, err := stats.Dump(b.Store, eventKey)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respond(s, i, fmt.Sprintf("No record stored for event key `%s`.", eventKey), true)
			return
		}
		log.Printf("Error dumping event %s: %v", eventKey, err)
		respond(s, i, "Error: could not read the attendance store.", true)
		return
	}
	respondChunked(s, i, formatRecord(rec))
}

// HandleRecentAuthors handles the logic for the /recent_authors command.
func HandleRecentAuthors(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	minutes := viper.GetInt("recent_authors.window_minutes")
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "minutes" {
			minutes = int(opt.IntValue())
		}
	}

	authors, err := stats.RecentAuthors(b.Store, time.Duration(minutes)*time.Minute)
	if err != nil {
		log.Printf("Error listing recent authors: %v", err)
		respond(s, i, "Error: could not read the attendance store.", true)
		return
	}
	if len(authors) == 0 {
		respond(s, i, "No embed authors recorded yet. Run /scan_events first.", false)
		return
	}

	window := "all scanned records"
	if minutes > 0 {
		window = fmt.Sprintf("the last %d minutes", minutes)
	}
	respond(s, i, fmt.Sprintf("Embed authors from %s:\n%s", window, strings.Join(authors, ", ")), false)
}

// HandleHelp handles the logic for the /help_attendance command.
func HandleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	helpText := strings.Join([]string{
		"**Attendance Bot Commands:**",
		"",
		"`/scan_events [limit]` -> Scans recent event embeds and logs who accepted, declined or is tentative.",
		"`/scan_all_reactions [limit]` -> Summarizes raw emoji reactions on recent messages and who reacted with what.",
		"`/leaderboard [events] [top]` -> Ranked attendance summary over the most recent events.",
		"`/dump_event <event_key>` -> Prints the raw stored record for one event, for debugging.",
		"`/recent_authors [minutes]` -> Lists authors of recently scanned embeds, to check the event bot is still the one posting.",
		"`/ping` -> Liveness check.",
		"",
		"> The bot reverse-engineers event embeds posted by the configured event bot to track participation.",
	}, "\n")
	respond(s, i, helpText, false)
}

// HandlePing handles the logic for the /ping command.
func HandlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respond(s, i, "Pong!", false)
}

func formatRecord(rec models.AttendanceRecord) string {
	lines := []string{
		fmt.Sprintf("**Event:** %s", orPlaceholder(rec.Title, "(no title)")),
		fmt.Sprintf("**Event key:** `%s`", rec.EventKey),
		fmt.Sprintf("**Posted by:** %s", orPlaceholder(rec.SourceAuthorID, "(unknown)")),
		fmt.Sprintf("**Scanned at:** %s", rec.ScannedAt.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("**Fields matched:** %d", rec.RawFieldCount),
	}
	appendCat := func(name string, list []models.Attendee) {
		names := make([]string, len(list))
		for i, a := range list {
			names[i] = a.DisplayName
		}
		lines = append(lines, fmt.Sprintf("**%s (%d):** %s", name, len(list), orPlaceholder(strings.Join(names, ", "), "-")))
	}
	appendCat("Accepted", rec.Accepted)
	appendCat("Declined", rec.Declined)
	appendCat("Tentative", rec.Tentative)
	return strings.Join(lines, "\n")
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
	}
}

func followup(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: content})
	if err != nil {
		log.Printf("Error sending followup message: %v", err)
	}
}

func followupChunked(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	for _, chunk := range splitMessage(content, 1900) {
		followup(s, i, chunk)
	}
}

// respondChunked splits long replies to stay under the message size cap.
func respondChunked(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	chunks := splitMessage(content, 1900)
	respond(s, i, chunks[0], false)
	for _, chunk := range chunks[1:] {
		followup(s, i, chunk)
	}
}

// splitMessage cuts content into pieces of at most max bytes. It prefers to
// break on a newline and never cuts inside a multi-byte rune, so names and
// emoji markers survive the split intact.
func splitMessage(content string, max int) []string {
	var chunks []string
	for len(content) > max {
		cut := strings.LastIndexByte(content[:max+1], '\n')
		if cut <= 0 {
			cut = max
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
		}
		chunks = append(chunks, content[:cut])
		content = content[cut:]
		if content != "" && content[0] == '\n' {
			content = content[1:]
		}
	}
	if content != "" || len(chunks) == 0 {
		chunks = append(chunks, content)
	}
	return chunks
}
