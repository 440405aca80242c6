// Package config reads the bot settings from the environment, after loading
// a .env file from the working directory when one exists.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissing is wrapped by Load when required variables are absent.
var ErrMissing = errors.New("missing required configuration")

type Config struct {
	// Discord
	DiscordToken  string
	GuildID       string
	ModChannelID  string
	CommandPrefix string

	// Stats API
	FortniteApiKey string
	FortniteApiUrl string // empty selects fortniteapi.DEFAULT_URL

	// Operations
	LogLevel    string
	MetricsAddr string
}

// Load reads configuration from environment variables.
// Every required variable that is missing is reported in a single error.
func Load() (*Config, error) {
	// A missing .env file is fine, the environment may already be set
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:   strings.TrimSpace(os.Getenv("DISCORD_TOKEN")),
		FortniteApiKey: strings.TrimSpace(os.Getenv("FORTNITE_API_KEY")),
		GuildID:        strings.TrimSpace(os.Getenv("GUILD_ID")),
		ModChannelID:   strings.TrimSpace(os.Getenv("MOD_CHANNEL_ID")),
		CommandPrefix:  getEnvOrDefault("COMMAND_PREFIX", "!"),
		FortniteApiUrl: strings.TrimSpace(os.Getenv("FORTNITE_API_URL")),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		MetricsAddr:    strings.TrimSpace(os.Getenv("METRICS_ADDR")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every required value is present and well formed.
func (c *Config) Validate() error {
	var missing []string
	if c.DiscordToken == "" {
		missing = append(missing, "DISCORD_TOKEN")
	}
	if c.FortniteApiKey == "" {
		missing = append(missing, "FORTNITE_API_KEY")
	}
	if c.GuildID == "" {
		missing = append(missing, "GUILD_ID")
	}
	if c.ModChannelID == "" {
		missing = append(missing, "MOD_CHANNEL_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}

	if !isSnowflake(c.GuildID) {
		return fmt.Errorf("invalid GUILD_ID %q: not a numeric id", c.GuildID)
	}
	if !isSnowflake(c.ModChannelID) {
		return fmt.Errorf("invalid MOD_CHANNEL_ID %q: not a numeric id", c.ModChannelID)
	}
	return nil
}

func isSnowflake(id string) bool {
	_, err := strconv.ParseUint(id, 10, 64)
	return err == nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
