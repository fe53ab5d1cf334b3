// Package fun has the say, cat and catsays commands.
package fun

import (
	"context"
	"net/http"
	"time"

	"github.com/ReneKroon/ttlcache/v2"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/griffin/bot"
	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/common/log"
	"github.com/starshine-sys/griffin/plugin"
)

const (
	// DefaultBaseURL is the cat image service used if the manifest doesn't set base_url.
	DefaultBaseURL = "https://cataas.com"
	// Cooldown is how long a user has to wait between image commands.
	Cooldown = 3 * time.Second
)

type Bot struct {
	*bot.Bot

	cats     *Client
	cooldown *ttlcache.Cache
	// sessionCtx is cancelled when the bot shuts down
	sessionCtx func() context.Context
}

func New(root *bot.Bot) plugin.Factory {
	return func(_ plugin.Descriptor, m plugin.Manifest) (plugin.Module, error) {
		return &Bot{
			Bot:        root,
			cats:       NewClient(m.String("base_url", DefaultBaseURL), &http.Client{Timeout: 30 * time.Second}),
			sessionCtx: root.Context,
		}, nil
	}
}

func (bot *Bot) Setup(context.Context) error {
	log.Debugf("Adding fun commands, using %v", bot.cats.BaseURL)

	bot.cooldown = ttlcache.NewCache()
	bot.cooldown.SkipTTLExtensionOnHit(true)
	return bot.cooldown.SetTTL(Cooldown)
}

func (bot *Bot) Teardown(context.Context) error {
	if bot.cooldown != nil {
		return bot.cooldown.Close()
	}
	return nil
}

func (bot *Bot) Commands() []*command.Command {
	return []*command.Command{
		{
			Name:        "say",
			Description: "Bot repeats your message",
			Kind:        command.Slash,
			Options: discord.CommandOptions{
				&discord.StringOption{
					OptionName:  "message",
					Description: "The message to repeat",
					Required:    true,
				},
			},
			Slash: bot.say,
		},
		{
			Name:        "cat",
			Description: "Send a random cat picture 🐱",
			Kind:        command.Slash,
			Slash:       bot.cat,
		},
		{
			Name:        "catsays",
			Description: "Send a random cat saying text 🐱",
			Kind:        command.Slash,
			Options: discord.CommandOptions{
				&discord.StringOption{
					OptionName:  "text",
					Description: "What the cat says",
				},
			},
			Slash: bot.catSays,
		},
	}
}

// onCooldown returns true if the user used an image command in the last few seconds,
// and starts the cooldown otherwise.
func (bot *Bot) onCooldown(id discord.UserID) bool {
	if _, err := bot.cooldown.Get(id.String()); err == nil {
		return true
	}

	err := bot.cooldown.Set(id.String(), struct{}{})
	if err != nil {
		log.Errorf("Error setting cooldown for %v: %v", id, err)
	}
	return false
}
