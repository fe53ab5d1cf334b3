package bot

import (
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/utils/ws"
	"github.com/starshine-sys/griffin/common"
	"github.com/starshine-sys/griffin/common/log"
	"github.com/starshine-sys/griffin/plugin"
)

const arikawaPath = "github.com/diamondburned/arikawa/v3"

func (bot *Bot) ready(ev *gateway.ReadyEvent) {
	bot.mu.Lock()
	bot.appID = ev.Application.ID
	bot.user = ev.User
	bot.guilds = common.NewSet[discord.GuildID]()
	for _, g := range ev.Guilds {
		bot.guilds.Add(g.ID)
	}
	guilds := bot.guilds.Len()
	bot.mu.Unlock()

	log.Infof("Bot %v is online in %v guild(s). Version used: arikawa %v", ev.User.Tag(), guilds, common.DependencyVersion(arikawaPath))

	go bot.readyOnce.Do(bot.start)
}

// start runs once, on the first ready event.
func (bot *Bot) start() {
	err := bot.SetStatus(bot.ctx, bot.Status())
	if err != nil {
		log.Errorf("Error setting status: %v", err)
	}

	r := bot.Manager.LoadAll(bot.ctx)
	for _, f := range r.Failed {
		log.Errorf("Loading error cogs.%v: %v", f.Name, f.Err)
	}
	log.Infof("Loaded %v cog(s) on startup.", len(r.Succeeded))
}

func (bot *Bot) resumed(*gateway.ResumedEvent) {
	log.Infof("Bot %v resumed its session.", bot.Me().Tag())
}

func (bot *Bot) closed(ev *ws.CloseEvent) {
	log.Errorf("Bot %v disconnected (code %v): %v", bot.Me().Tag(), ev.Code, ev.Err)
}

// guildCreate is also sent for guilds becoming available, only guilds the bot wasn't in count as joins.
func (bot *Bot) guildCreate(ev *gateway.GuildCreateEvent) {
	bot.mu.Lock()
	joined := bot.guilds.Add(ev.ID)
	bot.mu.Unlock()

	if !joined {
		return
	}

	log.Infof("Joined guild %v (%v)", ev.Name, ev.ID)
	bot.dispatchGuild(ev.ID, true)
}

// guildDelete with Unavailable set is an outage, not the bot leaving the guild.
func (bot *Bot) guildDelete(ev *gateway.GuildDeleteEvent) {
	if ev.Unavailable {
		log.Debugf("Guild %v became unavailable", ev.ID)
		return
	}

	bot.mu.Lock()
	bot.guilds.Remove(ev.ID)
	bot.mu.Unlock()

	log.Infof("Left guild %v", ev.ID)
	bot.dispatchGuild(ev.ID, false)
}

// dispatchGuild calls every loaded GuildListener in cog name order.
func (bot *Bot) dispatchGuild(id discord.GuildID, join bool) {
	bot.Manager.Each(func(name string, mod plugin.Module) {
		l, ok := mod.(plugin.GuildListener)
		if !ok {
			return
		}

		defer func() {
			if r := recover(); r != nil {
				log.Errorf("Panic in guild listener of cogs.%v: %v", name, r)
			}
		}()

		if join {
			l.GuildJoin(bot.ctx, id)
		} else {
			l.GuildLeave(bot.ctx, id)
		}
	})
}
