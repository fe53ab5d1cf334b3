package dev

import (
	"fmt"
	"strings"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/common"
	"github.com/starshine-sys/griffin/common/log"
	"github.com/starshine-sys/griffin/plugin"
)

// cogName returns the cog name from the command's arguments. "cogs.name" is accepted too.
func cogName(ctx *command.TextContext) (string, bool) {
	if len(ctx.Args) == 0 {
		return "", false
	}
	return strings.TrimPrefix(ctx.Args[0], "cogs."), true
}

// lifecycleMessage formats the result of a lifecycle operation.
// A failed sync is reported after the success message, as the operation itself took effect.
func lifecycleMessage(name, done, failed string, err error) string {
	module := "cogs." + name

	if err == nil {
		return fmt.Sprintf("Cog `%v` has been successfully %v.", module, done)
	}

	var re *plugin.ResyncError
	if errors.As(err, &re) {
		return fmt.Sprintf("Cog `%v` has been successfully %v, but the command tree could not be synchronized:\n```\n%v```", module, done, re.Err)
	}

	return fmt.Sprintf("%v `%v`:\n```\n%v```", failed, module, err)
}

func (bot *Bot) lifecycle(ctx *command.TextContext, op func(name string) error, done, failed string) error {
	name, ok := cogName(ctx)
	if !ok {
		if bot.Config.Debug {
			log.Debugf("Missing cog name, usage: %v%v %v", ctx.Prefix, ctx.Command.Name, ctx.Command.Usage)
		}
		return nil
	}

	err := op(name)
	if err != nil {
		log.Errorf("%v `cogs.%v`: %v", failed, name, err)
	} else {
		log.Infof("Cog cogs.%v %v by %v.", name, done, ctx.Author().ID)
	}

	_, rErr := ctx.Reply(lifecycleMessage(name, done, failed, err))
	return rErr
}

func (bot *Bot) reloadCog(ctx *command.TextContext) error {
	return bot.lifecycle(ctx, func(name string) error {
		return bot.Manager.Reload(bot.Context(), name)
	}, "reloaded", "Error during reloading")
}

func (bot *Bot) loadCog(ctx *command.TextContext) error {
	return bot.lifecycle(ctx, func(name string) error {
		return bot.Manager.Load(bot.Context(), name)
	}, "loaded", "Error during loading")
}

func (bot *Bot) unloadCog(ctx *command.TextContext) error {
	return bot.lifecycle(ctx, func(name string) error {
		return bot.Manager.Unload(bot.Context(), name)
	}, "unloaded", "Error when disabling")
}

// reportMessage formats the result of a bulk operation, one line per cog.
func reportMessage(r plugin.Report, done, failed string) string {
	var lines []string
	for _, name := range r.Succeeded {
		lines = append(lines, lifecycleMessage(name, done, failed, nil))
	}
	for _, f := range r.Failed {
		lines = append(lines, lifecycleMessage(f.Name, done, failed, f.Err))
	}
	if r.Resync != nil {
		lines = append(lines, fmt.Sprintf("The command tree could not be synchronized:\n```\n%v```", r.Resync))
	}
	return strings.Join(lines, "\n")
}

func (bot *Bot) reloadAllCogs(ctx *command.TextContext) error {
	r := bot.Manager.ReloadAll(bot.Context())
	log.Infof("The cogs directory has been reloaded by %v.", ctx.Author().ID)

	msg := reportMessage(r, "reloaded", "Error during reloading")
	msg += fmt.Sprintf("\nThe `%v` directory has been reloaded, `%v` cogs.", bot.Manager.Root(), bot.Config.Counts.Cogs())

	_, err := ctx.Reply(msg)
	return err
}

func (bot *Bot) loadAllCogs(ctx *command.TextContext) error {
	r := bot.Manager.LoadAll(bot.Context())
	if len(r.Succeeded) == 0 && r.OK() {
		_, err := ctx.Reply("There are no cogs left to load.")
		return err
	}

	msg := reportMessage(r, "loaded", "Error during loading")
	msg += fmt.Sprintf("\nLoaded `%v` cog(s), `%v` cogs are active.", len(r.Succeeded), bot.Config.Counts.Cogs())

	_, err := ctx.Reply(msg)
	return err
}

func (bot *Bot) listCogs(ctx *command.TextContext) error {
	all, _ := ctx.Flags.GetBool("all")

	e := discord.Embed{
		Title: "Loaded Cogs",
		Color: common.ColourBlue,
	}

	var lines []string
	for _, name := range bot.Manager.Active() {
		lines = append(lines, fmt.Sprintf("`- %v`", name))
	}
	e.Description = strings.Join(lines, "\n")
	if e.Description == "" {
		e.Description = "No cogs are loaded."
	}

	if all {
		lines = lines[:0]
		for _, name := range bot.Manager.Inactive() {
			lines = append(lines, fmt.Sprintf("`- %v`", name))
		}
		if len(lines) > 0 {
			e.Fields = append(e.Fields, discord.EmbedField{
				Name:  "Not loaded",
				Value: strings.Join(lines, "\n"),
			})
		}
	}

	_, err := ctx.Reply("", e)
	return err
}
