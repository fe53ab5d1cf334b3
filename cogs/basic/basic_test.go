package basic

import (
	"context"
	"testing"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/griffin/bot"
	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/config"
	"github.com/starshine-sys/griffin/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	responses []api.InteractionResponse
}

func (c *fakeClient) SendMessageComplex(discord.ChannelID, api.SendMessageData) (*discord.Message, error) {
	return &discord.Message{}, nil
}

func (c *fakeClient) RespondInteraction(_ discord.InteractionID, _ string, resp api.InteractionResponse) error {
	c.responses = append(c.responses, resp)
	return nil
}

func (c *fakeClient) FollowUpInteraction(discord.AppID, string, api.InteractionResponseData) (*discord.Message, error) {
	return &discord.Message{}, nil
}

func TestCommands(t *testing.T) {
	b := &bot.Bot{Config: config.Config{Bot: config.DefaultBotConfig()}}

	mod, err := New(b)(plugin.Descriptor{Name: "basic"}, plugin.Manifest{})
	require.NoError(t, err)
	require.NoError(t, mod.Setup(context.Background()))

	s := command.NewSurface(true)
	require.NoError(t, s.Add("basic", mod.Commands()...))

	data := s.CreateData()
	require.Len(t, data, 2)
	assert.Equal(t, "ping", data[0].Name)
	assert.Equal(t, "prefix", data[1].Name)

	tests := []struct {
		name, want string
	}{
		{"ping", "Pong!"},
		{"prefix", "`;`"},
	}

	for _, tt := range tests {
		c := &fakeClient{}
		cmd, ok := s.Slash(tt.name)
		require.True(t, ok)

		err := cmd.Slash(&command.SlashContext{
			Client:  c,
			Event:   &discord.InteractionEvent{ID: 1, Token: "token"},
			Data:    &discord.CommandInteraction{Name: tt.name},
			Command: cmd,
		})
		require.NoError(t, err)
		require.Len(t, c.responses, 1)
		assert.Equal(t, tt.want, c.responses[0].Data.Content.Val)
	}

	assert.NoError(t, mod.Teardown(context.Background()))
}
