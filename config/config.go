package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/joho/godotenv"
	"github.com/starshine-sys/griffin/common/log"
)

// ErrMissingToken is returned by Load if DISCORD_TOKEN is not set.
const ErrMissingToken = errors.Sentinel("DISCORD_TOKEN not found, check the .env file")

// Config is the bot's configuration. It is not modified after Load returns,
// except for the counters in Counts.
type Config struct {
	Auth     AuthConfig
	Postgres PostgresConfig
	Bot      BotConfig

	Debug bool
	// Start is when the configuration was loaded, used as the bot's start time.
	Start time.Time

	Counts *Counts
}

type AuthConfig struct {
	Discord string
	Sentry  string

	Influx InfluxConfig
}

type InfluxConfig struct {
	URL          string
	Token        string
	Organization string
	Bucket       string
}

type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	Schema   string
	User     string
	Password string
}

// Enabled returns true if a database host is configured.
func (c PostgresConfig) Enabled() bool {
	return c.Host != ""
}

// BotConfig is read from the JSON configuration file.
type BotConfig struct {
	Prefix           string           `json:"command_prefix"`
	Status           string           `json:"status"`
	OwnerID          discord.UserID   `json:"owner_id"`
	OwnerIDs         []discord.UserID `json:"owner_ids"`
	AllowedMentions  AllowedMentions  `json:"allowed_mentions"`
	CaseInsensitive  bool             `json:"case_insensitive"`
	StripAfterPrefix bool             `json:"strip_after_prefix"`
	IntentsPayload   *uint64          `json:"intents_payload"`

	// CommandsGuildID syncs slash commands to a single guild instead of globally.
	CommandsGuildID discord.GuildID `json:"commands_guild_id"`
}

type AllowedMentions struct {
	Everyone    bool `json:"everyone"`
	RepliedUser bool `json:"replied_user"`
	Users       bool `json:"users"`
	Roles       bool `json:"roles"`
}

// Owners returns owner_ids if set, otherwise owner_id.
func (c BotConfig) Owners() []discord.UserID {
	if len(c.OwnerIDs) > 0 {
		return c.OwnerIDs
	}
	if c.OwnerID.IsValid() {
		return []discord.UserID{c.OwnerID}
	}
	return nil
}

// Counts holds the numbers reported by the stats command.
// They are updated after every command tree sync.
type Counts struct {
	cogs     atomic.Int64
	commands atomic.Int64
}

func (c *Counts) Set(cogs, commands int) {
	c.cogs.Store(int64(cogs))
	c.commands.Store(int64(commands))
}

func (c *Counts) Cogs() int     { return int(c.cogs.Load()) }
func (c *Counts) Commands() int { return int(c.commands.Load()) }

// DefaultBotConfig returns the settings used for anything missing from the configuration file.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		Prefix: ";",
		AllowedMentions: AllowedMentions{
			Everyone:    true,
			RepliedUser: true,
			Users:       true,
			Roles:       true,
		},
		CaseInsensitive: true,
	}
}

// Load reads environment variables from envPath, and bot settings from the JSON file at configPath.
// A missing or invalid configuration file is not an error, the defaults are used instead.
func Load(envPath, configPath string, debug bool) (c Config, err error) {
	err = godotenv.Load(envPath)
	if err != nil {
		return c, errors.Wrap(err, "loading environment file")
	}

	c = Config{
		Debug:  debug,
		Start:  time.Now(),
		Counts: &Counts{},
	}

	c.Auth = AuthConfig{
		Discord: os.Getenv("DISCORD_TOKEN"),
		Sentry:  os.Getenv("SENTRY_DSN"),
		Influx: InfluxConfig{
			URL:          os.Getenv("INFLUX_URL"),
			Token:        os.Getenv("INFLUX_TOKEN"),
			Organization: os.Getenv("INFLUX_ORG"),
			Bucket:       os.Getenv("INFLUX_BUCKET"),
		},
	}
	if c.Auth.Discord == "" {
		return c, ErrMissingToken
	}

	c.Postgres, err = postgresFromEnv()
	if err != nil {
		return c, err
	}

	c.Bot = ReadBotConfig(configPath)

	if s := os.Getenv("COMMANDS_GUILD_ID"); s != "" {
		sf, err := discord.ParseSnowflake(s)
		if err != nil {
			return c, errors.Wrap(err, "parsing COMMANDS_GUILD_ID")
		}
		c.Bot.CommandsGuildID = discord.GuildID(sf)
	}

	return c, nil
}

// LoadPostgres reads only the database settings from envPath, for commands that don't need a token.
func LoadPostgres(envPath string) (PostgresConfig, error) {
	err := godotenv.Load(envPath)
	if err != nil {
		return PostgresConfig{}, errors.Wrap(err, "loading environment file")
	}
	return postgresFromEnv()
}

func postgresFromEnv() (c PostgresConfig, err error) {
	c = PostgresConfig{
		Host:     os.Getenv("PSQL_HOST"),
		Port:     5432,
		Database: os.Getenv("PSQL_DB_NAME"),
		Schema:   os.Getenv("PSQL_SCHEMA"),
		User:     os.Getenv("PSQL_USER"),
		Password: os.Getenv("PSQL_PASSWORD"),
	}

	if s := os.Getenv("PSQL_PORT"); s != "" {
		c.Port, err = strconv.Atoi(s)
		if err != nil {
			return c, errors.Wrap(err, "parsing PSQL_PORT")
		}
	}

	if c.Schema == "" {
		c.Schema = "public"
	}
	return c, nil
}

// ReadBotConfig reads the JSON configuration file at path.
// Keys missing from the file keep their default value.
func ReadBotConfig(path string) BotConfig {
	c := DefaultBotConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("Config file not found: %v", path)
		} else {
			log.Warnf("Reading config file %v: %v", path, err)
		}
		return c
	}

	log.Infof("Loading config from %v", path)

	err = json.Unmarshal(b, &c)
	if err != nil {
		log.Warnf("Config file does not contain valid JSON: %v (%v)", path, err)
		return DefaultBotConfig()
	}

	if strings.TrimSpace(c.Prefix) == "" {
		c.Prefix = ";"
	}
	return c
}
