package handlers

import (
	"attbot/bot"

	"github.com/bwmarrin/discordgo"
)

// InteractionCreate handles slash command interactions.
func InteractionCreate(b *bot.Bot) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}

		switch i.ApplicationCommandData().Name {
		case "scan_events":
			HandleScanEvents(b, s, i)
		case "scan_all_reactions":
			HandleScanAllReactions(b, s, i)
		case "leaderboard":
			HandleLeaderboard(b, s, i)
		case "dump_event":
			HandleDumpEvent(b, s, i)
		case "recent_authors":
			HandleRecentAuthors(b, s, i)
		case "help_attendance":
			HandleHelp(s, i)
		case "ping":
			HandlePing(s, i)
		}
	}
}
