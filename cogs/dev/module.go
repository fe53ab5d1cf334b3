// Package dev has owner-only commands to manage cogs and the bot itself,
// and records the guilds the bot is in.
package dev

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/spf13/pflag"
	"github.com/starshine-sys/griffin/bot"
	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/common/log"
	"github.com/starshine-sys/griffin/plugin"
)

type Bot struct {
	*bot.Bot

	setStatus func(context.Context, discord.Status) error
}

var _ plugin.GuildListener = (*Bot)(nil)

func New(root *bot.Bot) plugin.Factory {
	return func(plugin.Descriptor, plugin.Manifest) (plugin.Module, error) {
		return &Bot{Bot: root, setStatus: root.SetStatus}, nil
	}
}

func (bot *Bot) Setup(context.Context) error {
	log.Debug("Adding dev commands")
	return nil
}

func (bot *Bot) Teardown(context.Context) error {
	log.Warn("cogs.dev: Unloaded!")
	return nil
}

func (bot *Bot) Commands() []*command.Command {
	return []*command.Command{
		{
			Name:        "reload_cog",
			Description: "Reloads a cog and synchronizes the command tree.",
			Usage:       "<cog>",
			Kind:        command.Text,
			OwnerOnly:   true,
			Text:        bot.reloadCog,
		},
		{
			Name:        "reload_all_cogs",
			Description: "Reloads all loaded cogs.",
			Kind:        command.Text,
			OwnerOnly:   true,
			Text:        bot.reloadAllCogs,
		},
		{
			Name:        "load_cog",
			Description: "Loads a cog and synchronizes the command tree.",
			Usage:       "<cog>",
			Kind:        command.Text,
			OwnerOnly:   true,
			Text:        bot.loadCog,
		},
		{
			Name:        "load_all_cogs",
			Description: "Loads every cog that isn't loaded yet.",
			Kind:        command.Text,
			OwnerOnly:   true,
			Text:        bot.loadAllCogs,
		},
		{
			Name:        "unload_cog",
			Description: "Unloads a cog and synchronizes the command tree.",
			Usage:       "<cog>",
			Kind:        command.Text,
			OwnerOnly:   true,
			Text:        bot.unloadCog,
		},
		{
			Name:        "list_cogs",
			Description: "Displays all currently loaded cogs.",
			Usage:       "[--all]",
			Kind:        command.Text,
			OwnerOnly:   true,
			Flags: func(fs *pflag.FlagSet) {
				fs.BoolP("all", "a", false, "Also list cogs that aren't loaded")
			},
			Text: bot.listCogs,
		},
		{
			Name:        "stats",
			Description: "Displays a brief report.",
			Kind:        command.Text,
			OwnerOnly:   true,
			Text:        bot.stats,
		},
		{
			Name:        "change_presence_status",
			Description: "Change the status of the bot via a select menu.",
			Kind:        command.Text,
			OwnerOnly:   true,
			Text:        bot.changePresenceStatus,
		},
		{
			Name:      presencePrefix,
			Kind:      command.Component,
			OwnerOnly: true,
			Component: bot.presenceSelect,
		},
	}
}
