package models

// ScanConfig represents the "scan" section of config.yaml.
type ScanConfig struct {
	ChannelID string `json:"channel_id" mapstructure:"channel_id"`
	GuildID   string `json:"guild_id" mapstructure:"guild_id"`
	BotName   string `json:"bot_name" mapstructure:"bot_name"` // author-name substring of the event bot
	Limit     int    `json:"limit" mapstructure:"limit"`       // messages per scan pass
	AtStartup bool   `json:"at_startup" mapstructure:"at_startup"`
	Cron      string `json:"cron" mapstructure:"cron"` // empty disables the scheduler
}

// StoreConfig represents the "store" section of config.yaml.
type StoreConfig struct {
	Mode   string `json:"mode" mapstructure:"mode"` // "memory" or "sqlite"
	DBPath string `json:"db_path" mapstructure:"db_path"`
}

// CommandsConfig represents the "commands" section of config.yaml.
type CommandsConfig struct {
	Auth AuthConfig `json:"auth" mapstructure:"auth"`
}

// AuthConfig lists who may run privileged commands.
type AuthConfig struct {
	Developers  []string `json:"developers" mapstructure:"developers"`
	AdminsRoles []string `json:"admins_roles" mapstructure:"admins_roles"`
	Guest       []string `json:"guest" mapstructure:"guest"`
}

// VocabularyConfig maps a response category name to the label keywords that
// select it, as loaded from the optional "parser.vocabulary" config section.
type VocabularyConfig map[string][]string
