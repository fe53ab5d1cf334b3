// Package bot holds the Discord session: it routes gateway events and commands to the loaded cogs.
package bot

import (
	"context"
	"sync"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/diamondburned/arikawa/v3/utils/ws"
	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/common"
	"github.com/starshine-sys/griffin/common/log"
	"github.com/starshine-sys/griffin/config"
	"github.com/starshine-sys/griffin/db"
	"github.com/starshine-sys/griffin/db/stats"
	"github.com/starshine-sys/griffin/plugin"
)

// DefaultIntents are used unless the configuration sets intents_payload.
const DefaultIntents = gateway.IntentGuilds |
	gateway.IntentGuildMessages |
	gateway.IntentDirectMessages |
	gateway.IntentMessageContent

type Bot struct {
	State   *state.State
	DB      *db.DB
	Stats   *stats.Client
	Config  config.Config
	Surface *command.Surface
	Manager *plugin.Manager

	// ctx is the context passed to Open, used by event handlers
	ctx context.Context
	// client is what command handlers reply with, normally State
	client command.Client

	mu     sync.RWMutex
	appID  discord.AppID
	user   discord.User
	status discord.Status
	// guilds the bot is in, to tell joins apart from guilds becoming available
	guilds *common.Set[discord.GuildID]

	readyOnce sync.Once
}

// New creates a new Bot. Cogs are set up separately with SetupModules.
func New(c config.Config, database *db.DB, st *stats.Client) *Bot {
	// set up debug logging
	ws.WSDebug = log.Debug
	ws.WSError = func(err error) {
		log.SugaredLogger.Error("ws error: ", err)
	}

	s := state.New("Bot " + c.Auth.Discord)
	s.AddIntents(Intents(c.Bot))

	status, ok := ParseStatus(c.Bot.Status)
	if !ok && c.Bot.Status != "" {
		log.Warnf("Unknown status %q, using %q", c.Bot.Status, status)
	}

	bot := &Bot{
		State:   s,
		DB:      database,
		Stats:   st,
		Config:  c,
		Surface: command.NewSurface(c.Bot.CaseInsensitive),
		ctx:     context.Background(),
		client:  s,
		status:  status,
		guilds:  common.NewSet[discord.GuildID](),
	}

	s.Client.Client.OnResponse = append(s.Client.Client.OnResponse, bot.onResponse)

	// guild membership has to be tracked in event order
	s.AddSyncHandler(bot.ready)
	s.AddSyncHandler(bot.guildCreate)
	s.AddSyncHandler(bot.guildDelete)

	s.AddHandler(bot.resumed)
	s.AddHandler(bot.closed)
	s.AddHandler(bot.messageCreate)
	s.AddHandler(bot.interactionCreate)
	if st != nil {
		s.AddHandler(st.EventHandler)
	}

	return bot
}

// Intents returns the gateway intents for the given configuration.
func Intents(c config.BotConfig) gateway.Intents {
	if c.IntentsPayload != nil {
		return gateway.Intents(*c.IntentsPayload)
	}
	return DefaultIntents
}

// SetupModules creates the cog manager. root is the cogs directory.
func (bot *Bot) SetupModules(root string, catalog plugin.Catalog) *plugin.Manager {
	bot.Manager = plugin.New(plugin.Options{
		Root:    root,
		Catalog: catalog,
		Surface: bot.Surface,
		Syncer:  bot,
		Counts:  bot.Config.Counts,
		Stats:   bot.Stats,
	})
	return bot.Manager
}

// Open connects to the gateway. Cogs are loaded once the bot is ready.
func (bot *Bot) Open(ctx context.Context) error {
	if bot.Manager == nil {
		return errors.New("cogs have not been set up")
	}

	log.Debug("opening gateway connection")
	bot.ctx = ctx

	err := bot.State.Open(ctx)
	if err != nil {
		return errors.Wrap(err, "opening gateway connection")
	}

	log.Warn("Bot connected.")
	return nil
}

func (bot *Bot) Close() error {
	log.Warnf("Bot %v is offline.", bot.Me().Tag())
	return bot.State.Close()
}

// Context returns the context the bot was opened with.
func (bot *Bot) Context() context.Context {
	if bot.ctx == nil {
		return context.Background()
	}
	return bot.ctx
}

// Me returns the bot user, if the bot is ready.
func (bot *Bot) Me() discord.User {
	bot.mu.RLock()
	defer bot.mu.RUnlock()
	return bot.user
}

// AppID returns the bot's application ID, if the bot is ready.
func (bot *Bot) AppID() discord.AppID {
	bot.mu.RLock()
	defer bot.mu.RUnlock()
	return bot.appID
}

// GuildCount returns the number of guilds the bot is in.
func (bot *Bot) GuildCount() int {
	bot.mu.RLock()
	defer bot.mu.RUnlock()
	return bot.guilds.Len()
}

// IsOwner returns true if id is one of the configured owners.
func (bot *Bot) IsOwner(id discord.UserID) bool {
	for _, owner := range bot.Config.Bot.Owners() {
		if owner == id {
			return true
		}
	}
	return false
}
