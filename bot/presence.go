package bot

import (
	"context"
	"strings"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
)

// Statuses are the statuses the bot can be set to, in display order.
var Statuses = []discord.Status{
	discord.OnlineStatus,
	discord.IdleStatus,
	discord.DoNotDisturbStatus,
	discord.InvisibleStatus,
}

// ParseStatus parses a status name. Unknown names return the online status and false.
func ParseStatus(s string) (discord.Status, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, status := range Statuses {
		if string(status) == s {
			return status, true
		}
	}
	return discord.OnlineStatus, false
}

// Status returns the bot's current status.
func (bot *Bot) Status() discord.Status {
	bot.mu.RLock()
	defer bot.mu.RUnlock()
	return bot.status
}

// SetStatus changes the bot's presence status.
func (bot *Bot) SetStatus(ctx context.Context, status discord.Status) error {
	err := bot.State.Gateway().Send(ctx, &gateway.UpdatePresenceCommand{
		Status:     status,
		Activities: []discord.Activity{},
	})
	if err != nil {
		return errors.Wrap(err, "updating presence")
	}

	bot.mu.Lock()
	bot.status = status
	bot.mu.Unlock()
	return nil
}
