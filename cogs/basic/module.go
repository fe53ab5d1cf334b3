// Package basic has basic sample commands.
package basic

import (
	"context"
	"fmt"

	"github.com/starshine-sys/griffin/bot"
	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/common/log"
	"github.com/starshine-sys/griffin/plugin"
)

type Bot struct {
	*bot.Bot
}

func New(root *bot.Bot) plugin.Factory {
	return func(plugin.Descriptor, plugin.Manifest) (plugin.Module, error) {
		return &Bot{Bot: root}, nil
	}
}

func (bot *Bot) Setup(context.Context) error {
	log.Debug("Adding basic commands")
	return nil
}

func (bot *Bot) Commands() []*command.Command {
	return []*command.Command{
		{
			Name:        "ping",
			Description: "Responds to ping.",
			Kind:        command.Slash,
			Slash:       bot.ping,
		},
		{
			Name:        "prefix",
			Description: "Responds with the command prefix.",
			Kind:        command.Slash,
			Slash:       bot.prefix,
		},
	}
}

func (bot *Bot) Teardown(context.Context) error { return nil }

func (bot *Bot) ping(ctx *command.SlashContext) error {
	return ctx.Reply("Pong!")
}

func (bot *Bot) prefix(ctx *command.SlashContext) error {
	return ctx.Reply(fmt.Sprintf("`%v`", bot.Config.Bot.Prefix))
}
