package fun

import (
	"emperror.dev/errors"
	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/common/log"
)

func (bot *Bot) say(ctx *command.SlashContext) error {
	msg := ctx.Option("message")
	if msg == "" {
		if bot.Config.Debug {
			log.Debugf("say called without a message by %v", ctx.User().ID)
		}
		return nil
	}

	err := ctx.ReplyEphemeral("👍")
	if err != nil {
		return errors.Wrap(err, "responding")
	}

	_, err = ctx.Send(msg)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return nil
}
