package command

import (
	"sync"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
)

// fakeClient records everything sent through it.
type fakeClient struct {
	mu        sync.Mutex
	messages  []api.SendMessageData
	responses []api.InteractionResponse
	followUps []api.InteractionResponseData
}

func (c *fakeClient) SendMessageComplex(ch discord.ChannelID, data api.SendMessageData) (*discord.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, data)
	return &discord.Message{ChannelID: ch, Content: data.Content}, nil
}

func (c *fakeClient) RespondInteraction(_ discord.InteractionID, _ string, resp api.InteractionResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, resp)
	return nil
}

func (c *fakeClient) FollowUpInteraction(_ discord.AppID, _ string, data api.InteractionResponseData) (*discord.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.followUps = append(c.followUps, data)
	return &discord.Message{}, nil
}
