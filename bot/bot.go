package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"attbot/command"
	"attbot/config"
	"attbot/database"
	"attbot/metrics"
	"attbot/models"
	"attbot/parser"
	"attbot/scanner"
	"attbot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// Bot encapsulates the session, the attendance store and the scanner.
type Bot struct {
	Session *discordgo.Session
	Store   database.Store
	Scanner *scanner.Scanner
	ScanCfg models.ScanConfig
}

// NewBot creates and initializes a new Bot instance.
func NewBot() (*Bot, error) {
	config.LoadConfig()
	token := viper.GetString("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("no bot token provided")
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	var scanCfg models.ScanConfig
	if err := viper.UnmarshalKey("scan", &scanCfg); err != nil {
		return nil, fmt.Errorf("error reading scan config: %w", err)
	}

	var storeCfg models.StoreConfig
	if err := viper.UnmarshalKey("store", &storeCfg); err != nil {
		return nil, fmt.Errorf("error reading store config: %w", err)
	}
	store, err := database.Open(storeCfg)
	if err != nil {
		return nil, fmt.Errorf("error opening attendance store: %w", err)
	}

	vocab, err := parser.LoadVocabulary()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("error loading parser vocabulary: %w", err)
	}

	source := scanner.NewDiscordSource(dg, scanCfg.BotName)
	sc := scanner.New(source, store, parser.New(vocab))

	return &Bot{
		Session: dg,
		Store:   store,
		Scanner: sc,
		ScanCfg: scanCfg,
	}, nil
}

// Start opens the bot's session, registers handlers and slash commands, and
// kicks off the scheduler and metrics listener.
func (b *Bot) Start(registerHandlers func(*Bot)) error {
	registerHandlers(b)

	err := b.Session.Open()
	if err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	utils.InitLogger(b.Session)

	// Register slash commands
	guildID := b.ScanCfg.GuildID
	for _, def := range command.GetCommandDefinitions() {
		_, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, guildID, def)
		if err != nil {
			log.Printf("Cannot create '%v' command: %v", def.Name, err)
		}
	}

	metrics.Serve(viper.GetString("metrics.listen_addr"))
	startScheduler(b)

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully closes the bot's session and the store.
func (b *Bot) Stop() {
	stopScheduler()
	if b.Store != nil {
		if err := b.Store.Close(); err != nil {
			log.Printf("Error closing attendance store: %v", err)
		}
	}
	if b.Session != nil {
		b.Session.Close()
	}
	fmt.Println("Bot stopped gracefully.")
}

// Run is the main entry point for the bot application.
func Run(registerHandlers func(*Bot)) {
	bot, err := NewBot()
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	if err := bot.Start(registerHandlers); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
