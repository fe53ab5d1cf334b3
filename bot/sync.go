package bot

import (
	"context"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/starshine-sys/griffin/common/log"
)

// Sync overwrites the bot's application commands with cmds.
// If commands_guild_id is set, commands are synced to that guild only.
func (bot *Bot) Sync(ctx context.Context, cmds []api.CreateCommandData) (int, error) {
	appID := bot.AppID()
	if !appID.IsValid() {
		return 0, errors.New("application ID is not known yet, the bot is not ready")
	}

	s := bot.State.WithContext(ctx)

	if guildID := bot.Config.Bot.CommandsGuildID; guildID.IsValid() {
		log.Debugf("Syncing %v commands to guild %v", len(cmds), guildID)

		synced, err := s.BulkOverwriteGuildCommands(appID, guildID, cmds)
		if err != nil {
			return 0, errors.Wrap(err, "overwriting guild commands")
		}
		return len(synced), nil
	}

	synced, err := s.BulkOverwriteCommands(appID, cmds)
	if err != nil {
		return 0, errors.Wrap(err, "overwriting commands")
	}
	return len(synced), nil
}
