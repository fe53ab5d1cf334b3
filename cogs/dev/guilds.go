package dev

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/griffin/common/log"
)

func (bot *Bot) GuildJoin(ctx context.Context, id discord.GuildID) {
	if bot.DB == nil {
		return
	}

	exists, err := bot.DB.CreateGuild(ctx, id)
	if err != nil {
		log.Errorf("Postgresql: Failed to insert guild: %v", err)
		return
	}
	if exists {
		log.Debugf("Guild %v was already recorded", id)
	}
}

func (bot *Bot) GuildLeave(ctx context.Context, id discord.GuildID) {
	if bot.DB == nil {
		return
	}

	_, err := bot.DB.DeleteGuild(ctx, id)
	if err != nil {
		log.Errorf("Postgresql: Failed to remove guild: %v", err)
	}
}
