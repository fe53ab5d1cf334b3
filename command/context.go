package command

import (
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"github.com/spf13/pflag"
)

// Client is the subset of the Discord API used by command handlers.
// *state.State satisfies it.
type Client interface {
	SendMessageComplex(channelID discord.ChannelID, data api.SendMessageData) (*discord.Message, error)
	RespondInteraction(id discord.InteractionID, token string, resp api.InteractionResponse) error
	FollowUpInteraction(appID discord.AppID, token string, data api.InteractionResponseData) (*discord.Message, error)
}

// TextContext is passed to text command handlers.
type TextContext struct {
	Client  Client
	Message discord.Message
	Command *Command

	// Prefix is the prefix the command was invoked with.
	Prefix string
	// Args are the positional arguments left after parsing flags.
	Args  []string
	Flags *pflag.FlagSet

	AllowedMentions *api.AllowedMentions
}

// Author returns the user who invoked the command.
func (ctx *TextContext) Author() discord.User {
	return ctx.Message.Author
}

// Reply replies to the invoking message.
func (ctx *TextContext) Reply(content string, embeds ...discord.Embed) (*discord.Message, error) {
	return ctx.ReplyComplex(api.SendMessageData{
		Content: content,
		Embeds:  embeds,
	})
}

// ReplyComplex replies to the invoking message with arbitrary data.
// The reply references the invoking message, and uses the configured allowed mentions unless data sets its own.
func (ctx *TextContext) ReplyComplex(data api.SendMessageData) (*discord.Message, error) {
	if data.Reference == nil {
		data.Reference = &discord.MessageReference{MessageID: ctx.Message.ID}
	}
	if data.AllowedMentions == nil {
		data.AllowedMentions = ctx.AllowedMentions
	}

	return ctx.Client.SendMessageComplex(ctx.Message.ChannelID, data)
}

// SlashContext is passed to slash command handlers.
type SlashContext struct {
	Client  Client
	Event   *discord.InteractionEvent
	Data    *discord.CommandInteraction
	Command *Command

	AllowedMentions *api.AllowedMentions
}

// Option returns the string value of the named option, or an empty string if it wasn't given.
func (ctx *SlashContext) Option(name string) string {
	opt := ctx.Data.Options.Find(name)
	if opt.Name == "" {
		return ""
	}
	return opt.String()
}

// User returns the user who invoked the command.
func (ctx *SlashContext) User() discord.User {
	if u := ctx.Event.Sender(); u != nil {
		return *u
	}
	return discord.User{}
}

// Reply responds to the interaction with a message.
func (ctx *SlashContext) Reply(content string, embeds ...discord.Embed) error {
	data := api.InteractionResponseData{
		Content: option.NewNullableString(content),
	}
	if len(embeds) > 0 {
		data.Embeds = &embeds
	}
	return ctx.ReplyComplex(data)
}

// ReplyEphemeral responds to the interaction with a message only the invoking user can see.
func (ctx *SlashContext) ReplyEphemeral(content string) error {
	return ctx.ReplyComplex(api.InteractionResponseData{
		Content: option.NewNullableString(content),
		Flags:   discord.EphemeralMessage,
	})
}

// ReplyComplex responds to the interaction with arbitrary data.
func (ctx *SlashContext) ReplyComplex(data api.InteractionResponseData) error {
	if data.AllowedMentions == nil {
		data.AllowedMentions = ctx.AllowedMentions
	}

	return ctx.Client.RespondInteraction(ctx.Event.ID, ctx.Event.Token, api.InteractionResponse{
		Type: api.MessageInteractionWithSource,
		Data: &data,
	})
}

// Defer acknowledges the interaction. The response must then be sent with FollowUp.
func (ctx *SlashContext) Defer() error {
	return ctx.Client.RespondInteraction(ctx.Event.ID, ctx.Event.Token, api.InteractionResponse{
		Type: api.DeferredMessageInteractionWithSource,
	})
}

// FollowUp sends a follow-up message for the interaction.
func (ctx *SlashContext) FollowUp(data api.InteractionResponseData) (*discord.Message, error) {
	if data.AllowedMentions == nil {
		data.AllowedMentions = ctx.AllowedMentions
	}

	return ctx.Client.FollowUpInteraction(ctx.Event.AppID, ctx.Event.Token, data)
}

// Send sends a normal message in the channel the command was invoked in.
func (ctx *SlashContext) Send(content string) (*discord.Message, error) {
	return ctx.Client.SendMessageComplex(ctx.Event.ChannelID, api.SendMessageData{
		Content:         content,
		AllowedMentions: ctx.AllowedMentions,
	})
}

// ComponentContext is passed to component handlers.
type ComponentContext struct {
	Client  Client
	Event   *discord.InteractionEvent
	Command *Command

	// CustomID is the full custom ID of the component.
	CustomID string
	// Values are the selected values, for select menus.
	Values []string
}

// User returns the user who used the component.
func (ctx *ComponentContext) User() discord.User {
	if u := ctx.Event.Sender(); u != nil {
		return *u
	}
	return discord.User{}
}

// Update edits the message the component is attached to.
func (ctx *ComponentContext) Update(data api.InteractionResponseData) error {
	return ctx.Client.RespondInteraction(ctx.Event.ID, ctx.Event.Token, api.InteractionResponse{
		Type: api.UpdateMessage,
		Data: &data,
	})
}
