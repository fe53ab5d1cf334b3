package bot

import (
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/starshine-sys/griffin/common"
	"github.com/starshine-sys/griffin/common/log"
)

// ReportError logs an error returned by a command, captures it with Sentry if it's enabled,
// and tells the user an error occurred using reply.
func (bot *Bot) ReportError(userID discord.UserID, cmd string, reply func(content string, embed discord.Embed) error, err error) {
	var id string

	if bot.Config.Auth.Sentry != "" {
		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			if userID.IsValid() {
				scope.SetUser(sentry.User{ID: userID.String()})
			}
			scope.SetTag("command", cmd)
		})

		hub.AddBreadcrumb(&sentry.Breadcrumb{
			Data: map[string]any{
				"user":    userID,
				"command": cmd,
			},
			Level:     sentry.LevelError,
			Timestamp: time.Now().UTC(),
		}, nil)

		if eventID := hub.CaptureException(err); eventID != nil {
			id = string(*eventID)
		}
	}

	if id == "" {
		id = uuid.New().String()
	}

	log.Errorf("Error in command %v (code %v): %v", cmd, id, err)

	embed := discord.Embed{
		Title: "Internal error occurred",
		Description: "An internal error has occurred. " +
			"If this issue persists, please contact the bot's owner with the error code above.",
		Color:     common.ColourRed,
		Timestamp: discord.NowTimestamp(),
		Footer: &discord.EmbedFooter{
			Text: id,
		},
	}

	rErr := reply(fmt.Sprintf("Error code: ``%v``", id), embed)
	if rErr != nil {
		log.Errorf("Error reporting error to user %v: %v", userID, rErr)
	}
}
