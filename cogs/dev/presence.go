package dev

import (
	"fmt"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"github.com/starshine-sys/griffin/bot"
	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/common/log"
)

const presencePrefix = "presence"

var parseStatus = bot.ParseStatus

var statusOptions = []discord.SelectOption{
	{Label: "Available", Value: string(discord.OnlineStatus), Description: "Bot visible as Online"},
	{Label: "Be right back", Value: string(discord.IdleStatus), Description: "Bot as Idle"},
	{Label: "Do not disturb", Value: string(discord.DoNotDisturbStatus), Description: "Bot as DND"},
	{Label: "Invisible", Value: string(discord.InvisibleStatus), Description: "Bot as Offline"},
}

func (bot *Bot) changePresenceStatus(ctx *command.TextContext) error {
	_, err := ctx.ReplyComplex(api.SendMessageData{
		Content: "Select the new status for the bot:",
		Components: discord.ContainerComponents{
			&discord.ActionRowComponent{
				&discord.StringSelectComponent{
					CustomID:    presencePrefix + ":status",
					Options:     statusOptions,
					Placeholder: "Select bot status...",
					ValueLimits: [2]int{1, 1},
				},
			},
		},
	})
	return err
}

func (bot *Bot) presenceSelect(ctx *command.ComponentContext) error {
	if len(ctx.Values) == 0 {
		return errors.New("no status selected")
	}

	status, _ := parseStatus(ctx.Values[0])

	err := bot.setStatus(bot.Context(), status)
	if err != nil {
		return err
	}
	log.Infof("Status changed to %v by %v", status, ctx.User().ID)

	return ctx.Update(api.InteractionResponseData{
		Content:    option.NewNullableString(fmt.Sprintf("Status changed to `%v`.", status)),
		Components: &discord.ContainerComponents{},
	})
}
