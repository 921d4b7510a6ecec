package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from a .env file, config.yaml and an
// optional config/vocabulary.json. Environment variables override file
// settings of the same name.
func LoadConfig() {
	// 1. Load environment variables from .env; a missing file is fine.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, skipping.")
	}

	// 2. Read the base config file (config.yaml).
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("No config.yaml found, using environment variables and defaults.")
		} else {
			panic(fmt.Errorf("fatal error reading config file: %w", err))
		}
	}

	// 3. Merge the optional parser vocabulary (config/vocabulary.json), so
	// new label variants ship without a rebuild.
	viper.SetConfigName("vocabulary")
	viper.SetConfigType("json")
	viper.AddConfigPath("./config")

	if err := viper.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("No vocabulary config found (config/vocabulary.json), using built-in labels.")
		} else {
			panic(fmt.Errorf("fatal error merging vocabulary config: %w", err))
		}
	}
}

func setDefaults() {
	viper.SetDefault("scan.limit", 50)
	viper.SetDefault("scan.bot_name", "Apollo")
	viper.SetDefault("scan.at_startup", false)
	viper.SetDefault("store.mode", "memory")
	viper.SetDefault("leaderboard.events", 8)
	viper.SetDefault("recent_authors.window_minutes", 0)
}
