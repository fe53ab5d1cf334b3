package bot

import (
	"strings"
	"unicode"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/common/log"
	"github.com/starshine-sys/griffin/config"
)

// ParseCommand splits a message into the command name and the rest of the message.
// ok is false if the message doesn't start with prefix or has no command name.
// If strip is set, whitespace between the prefix and the command name is allowed.
func ParseCommand(content, prefix string, strip bool) (name, rest string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}

	s := content[len(prefix):]
	if strip {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
	}

	i := strings.IndexFunc(s, unicode.IsSpace)
	if i == -1 {
		name = s
	} else {
		name, rest = s[:i], strings.TrimSpace(s[i:])
	}

	if name == "" {
		return "", "", false
	}
	return name, rest, true
}

// AllowedMentions converts the configured allowed mentions.
func AllowedMentions(c config.AllowedMentions) *api.AllowedMentions {
	am := &api.AllowedMentions{
		Parse:       []api.AllowedMentionType{},
		RepliedUser: option.False,
	}
	if c.RepliedUser {
		am.RepliedUser = option.True
	}

	if c.Everyone {
		am.Parse = append(am.Parse, api.AllowEveryoneMention)
	}
	if c.Users {
		am.Parse = append(am.Parse, api.AllowUserMention)
	}
	if c.Roles {
		am.Parse = append(am.Parse, api.AllowRoleMention)
	}
	return am
}

func (bot *Bot) messageCreate(ev *gateway.MessageCreateEvent) {
	if ev.Author.Bot {
		return
	}

	name, rest, ok := ParseCommand(ev.Content, bot.Config.Bot.Prefix, bot.Config.Bot.StripAfterPrefix)
	if !ok {
		return
	}

	cmd, ok := bot.Surface.Text(name)
	if !ok {
		if bot.Config.Debug {
			log.Debugf("Command not found: %v", ev.Content)
		}
		return
	}

	if cmd.OwnerOnly && !bot.IsOwner(ev.Author.ID) {
		log.Debugf("User %v tried to use owner-only command %v", ev.Author.ID, cmd.Name)
		return
	}

	fs, args, err := command.ParseArgs(cmd, rest)

	ctx := &command.TextContext{
		Client:          bot.client,
		Message:         ev.Message,
		Command:         cmd,
		Prefix:          bot.Config.Bot.Prefix,
		Args:            args,
		Flags:           fs,
		AllowedMentions: AllowedMentions(bot.Config.Bot.AllowedMentions),
	}

	// malformed invocations are ignored like unknown ones
	if err != nil {
		if bot.Config.Debug {
			log.Debugf("Invalid arguments for %v: %v", cmd.Name, err)
		}
		return
	}

	bot.Stats.IncCommand(cmd.Name)

	err = run(cmd.Name, func() error { return cmd.Text(ctx) })
	if err != nil {
		bot.ReportError(ev.Author.ID, cmd.Name, func(content string, embed discord.Embed) error {
			_, err := ctx.Reply(content, embed)
			return err
		}, err)
	}
}

func (bot *Bot) interactionCreate(ev *gateway.InteractionCreateEvent) {
	switch data := ev.Data.(type) {
	case *discord.CommandInteraction:
		bot.slashCommand(&ev.InteractionEvent, data)
	case discord.ComponentInteraction:
		bot.component(&ev.InteractionEvent, data)
	}
}

func (bot *Bot) slashCommand(ev *discord.InteractionEvent, data *discord.CommandInteraction) {
	ctx := &command.SlashContext{
		Client:          bot.client,
		Event:           ev,
		Data:            data,
		AllowedMentions: AllowedMentions(bot.Config.Bot.AllowedMentions),
	}

	cmd, ok := bot.Surface.Slash(data.Name)
	if !ok {
		// the command tree is out of date, the cog was unloaded without a sync
		if bot.Config.Debug {
			log.Debugf("Slash command %q is not registered", data.Name)
		}
		return
	}
	ctx.Command = cmd

	user := ctx.User()
	if cmd.OwnerOnly && !bot.IsOwner(user.ID) {
		bot.replyEphemeral(ctx, "This command can only be used by the bot's owners.")
		return
	}

	bot.Stats.IncCommand(cmd.Name)

	err := run(cmd.Name, func() error { return cmd.Slash(ctx) })
	if err != nil {
		bot.ReportError(user.ID, cmd.Name, func(content string, embed discord.Embed) error {
			data := api.InteractionResponseData{
				Content: option.NewNullableString(content),
				Embeds:  &[]discord.Embed{embed},
				Flags:   discord.EphemeralMessage,
			}

			// the handler may have responded already
			if err := ctx.ReplyComplex(data); err != nil {
				_, err = ctx.FollowUp(data)
				return err
			}
			return nil
		}, err)
	}
}

func (bot *Bot) component(ev *discord.InteractionEvent, data discord.ComponentInteraction) {
	customID := string(data.ID())

	cmd, ok := bot.Surface.Component(customID)
	if !ok {
		log.Debugf("No component handler for %q", customID)
		return
	}

	ctx := &command.ComponentContext{
		Client:   bot.client,
		Event:    ev,
		Command:  cmd,
		CustomID: customID,
	}
	if sel, ok := data.(*discord.StringSelectInteraction); ok {
		ctx.Values = sel.Values
	}

	user := ctx.User()
	if cmd.OwnerOnly && !bot.IsOwner(user.ID) {
		log.Debugf("User %v tried to use owner-only component %v", user.ID, customID)
		return
	}

	err := run(cmd.Name, func() error { return cmd.Component(ctx) })
	if err != nil {
		bot.ReportError(user.ID, cmd.Name, func(content string, embed discord.Embed) error {
			return ctx.Update(api.InteractionResponseData{
				Content:    option.NewNullableString(content),
				Embeds:     &[]discord.Embed{embed},
				Components: &discord.ContainerComponents{},
			})
		}, err)
	}
}

func (bot *Bot) replyEphemeral(ctx *command.SlashContext, content string) {
	err := ctx.ReplyEphemeral(content)
	if err != nil {
		log.Errorf("Error responding to interaction %v: %v", ctx.Event.ID, err)
	}
}

// run calls fn, returning panics as errors.
func run(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic in command %v: %v", name, r)
		}
	}()

	return fn()
}
