package command

import "github.com/bwmarrin/discordgo"

// ScanEventsCommand defines the structure for the /scan_events command.
type ScanEventsCommand struct{}

// Definition returns the application command definition.
func (c *ScanEventsCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "scan_events",
		Description: "Scan recent event embeds and log attendance",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "limit",
				Description: "Number of messages to scan (default 50, max 100)",
				Type:        discordgo.ApplicationCommandOptionInteger,
				Required:    false,
			},
		},
	}
}

// ScanAllReactionsCommand defines the structure for the /scan_all_reactions command.
type ScanAllReactionsCommand struct{}

// Definition returns the application command definition.
func (c *ScanAllReactionsCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "scan_all_reactions",
		Description: "Scan recent messages for reactions and summarize them",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "limit",
				Description: "Number of messages to scan (default 50, max 100)",
				Type:        discordgo.ApplicationCommandOptionInteger,
				Required:    false,
			},
		},
	}
}

// LeaderboardCommand defines the structure for the /leaderboard command.
type LeaderboardCommand struct{}

// Definition returns the application command definition.
func (c *LeaderboardCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "leaderboard",
		Description: "Show the attendance leaderboard over the most recent events",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "events",
				Description: "How many recent events to rank over (default 8)",
				Type:        discordgo.ApplicationCommandOptionInteger,
				Required:    false,
			},
			{
				Name:        "top",
				Description: "Show only the top N users",
				Type:        discordgo.ApplicationCommandOptionInteger,
				Required:    false,
			},
		},
	}
}

// DumpEventCommand defines the structure for the /dump_event command.
type DumpEventCommand struct{}

// Definition returns the application command definition.
func (c *DumpEventCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "dump_event",
		Description: "Show the raw stored attendance record for one event",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "event_key",
				Description: "The event key (usually the message ID)",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
			},
		},
	}
}

// RecentAuthorsCommand defines the structure for the /recent_authors command.
type RecentAuthorsCommand struct{}

// Definition returns the application command definition.
func (c *RecentAuthorsCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "recent_authors",
		Description: "List distinct embed authors among recently scanned events",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "minutes",
				Description: "Trailing window in minutes (0 = all records)",
				Type:        discordgo.ApplicationCommandOptionInteger,
				Required:    false,
			},
		},
	}
}

// HelpCommand defines the structure for the /help_attendance command.
type HelpCommand struct{}

// Definition returns the application command definition.
func (c *HelpCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "help_attendance",
		Description: "Show all available commands and their usage",
	}
}

// PingCommand defines the structure for the /ping command.
type PingCommand struct{}

// Definition returns the application command definition.
func (c *PingCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Responds with Pong!",
	}
}
