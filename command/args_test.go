package command

import (
	"testing"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"fun", []string{"fun"}},
		{"  a   b\tc ", []string{"a", "b", "c"}},
		{`say "hello there" now`, []string{"say", "hello there", "now"}},
		{`""`, []string{""}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Split(tc.in), "Split(%q)", tc.in)
	}
}

func TestParseArgs(t *testing.T) {
	cmd := &Command{
		Name: "list_cogs",
		Kind: Text,
		Text: noopText,
		Flags: func(fs *pflag.FlagSet) {
			fs.BoolP("all", "a", false, "Show inactive cogs too.")
		},
	}

	fs, args, err := ParseArgs(cmd, "extra -a more")
	require.NoError(t, err)
	all, err := fs.GetBool("all")
	require.NoError(t, err)
	assert.True(t, all)
	assert.Equal(t, []string{"extra", "more"}, args)

	_, _, err = ParseArgs(cmd, "--nope")
	assert.Error(t, err)
}

func TestTextContextReply(t *testing.T) {
	client := &fakeClient{}
	mentions := &api.AllowedMentions{}

	ctx := &TextContext{
		Client:          client,
		Message:         discord.Message{ID: 10, ChannelID: 20},
		AllowedMentions: mentions,
	}

	_, err := ctx.Reply("hi")
	require.NoError(t, err)

	require.Len(t, client.messages, 1)
	msg := client.messages[0]
	assert.Equal(t, "hi", msg.Content)
	require.NotNil(t, msg.Reference)
	assert.Equal(t, discord.MessageID(10), msg.Reference.MessageID)
	assert.Same(t, mentions, msg.AllowedMentions)
}

func TestSlashContext(t *testing.T) {
	client := &fakeClient{}
	ctx := &SlashContext{
		Client: client,
		Event:  &discord.InteractionEvent{ID: 1, Token: "token", AppID: 2},
		Data:   &discord.CommandInteraction{Name: "ping"},
	}

	assert.Equal(t, "", ctx.Option("missing"))

	require.NoError(t, ctx.ReplyEphemeral("secret"))
	require.NoError(t, ctx.Defer())
	_, err := ctx.FollowUp(api.InteractionResponseData{})
	require.NoError(t, err)

	require.Len(t, client.responses, 2)
	assert.Equal(t, api.MessageInteractionWithSource, client.responses[0].Type)
	assert.Equal(t, discord.EphemeralMessage, client.responses[0].Data.Flags)
	assert.Equal(t, api.DeferredMessageInteractionWithSource, client.responses[1].Type)
	assert.Len(t, client.followUps, 1)
}
