package bot

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/spf13/pflag"
	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/common"
	"github.com/starshine-sys/griffin/config"
	"github.com/starshine-sys/griffin/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu        sync.Mutex
	messages  []api.SendMessageData
	responses []api.InteractionResponse
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

func (c *fakeClient) FollowUpInteraction(discord.AppID, string, api.InteractionResponseData) (*discord.Message, error) {
	return &discord.Message{}, nil
}

const owner = discord.UserID(100)

func testBot(t *testing.T) (*Bot, *fakeClient) {
	t.Helper()

	c := &fakeClient{}
	conf := config.Config{
		Bot:    config.DefaultBotConfig(),
		Counts: &config.Counts{},
	}
	conf.Bot.OwnerID = owner

	b := &Bot{
		Config:  conf,
		Surface: command.NewSurface(conf.Bot.CaseInsensitive),
		ctx:     context.Background(),
		client:  c,
		guilds:  common.NewSet[discord.GuildID](),
	}
	// no gateway in tests
	b.readyOnce.Do(func() {})

	b.Manager = plugin.New(plugin.Options{Root: t.TempDir(), Surface: b.Surface, Counts: conf.Counts})
	return b, c
}

func message(author discord.UserID, content string) *gateway.MessageCreateEvent {
	return &gateway.MessageCreateEvent{
		Message: discord.Message{
			ID:        1,
			ChannelID: 2,
			Content:   content,
			Author:    discord.User{ID: author},
		},
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		content string
		strip   bool
		name    string
		rest    string
		ok      bool
	}{
		{";ping", false, "ping", "", true},
		{";say hello world", false, "say", "hello world", true},
		{";say   spaced  ", false, "say", "spaced", true},
		{"; ping", false, "", "", false},
		{"; ping", true, "ping", "", true},
		{";", false, "", "", false},
		{"ping", false, "", "", false},
		{"!ping", false, "", "", false},
	}

	for _, tt := range tests {
		name, rest, ok := ParseCommand(tt.content, ";", tt.strip)
		assert.Equal(t, tt.ok, ok, tt.content)
		assert.Equal(t, tt.name, name, tt.content)
		assert.Equal(t, tt.rest, rest, tt.content)
	}

	_, _, ok := ParseCommand(";ping", "", false)
	assert.False(t, ok)
}

func TestAllowedMentions(t *testing.T) {
	am := AllowedMentions(config.AllowedMentions{Users: true, RepliedUser: false})
	assert.Equal(t, []api.AllowedMentionType{api.AllowUserMention}, am.Parse)
	require.NotNil(t, am.RepliedUser)
	assert.False(t, *am.RepliedUser)

	am = AllowedMentions(config.DefaultBotConfig().AllowedMentions)
	assert.Len(t, am.Parse, 3)
	assert.True(t, *am.RepliedUser)
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("DND")
	assert.True(t, ok)
	assert.Equal(t, discord.DoNotDisturbStatus, s)

	s, ok = ParseStatus("")
	assert.False(t, ok)
	assert.Equal(t, discord.OnlineStatus, s)
}

func TestRouteName(t *testing.T) {
	assert.Equal(t, "/channels/{id}/messages", routeName("/channels/123456789012345678/messages"))
}

func TestTextCommands(t *testing.T) {
	b, c := testBot(t)

	var got []string
	var loud bool
	require.NoError(t, b.Surface.Add("test",
		&command.Command{
			Name: "echo",
			Kind: command.Text,
			Flags: func(fs *pflag.FlagSet) {
				fs.BoolP("loud", "l", false, "")
			},
			Text: func(ctx *command.TextContext) error {
				got = ctx.Args
				loud, _ = ctx.Flags.GetBool("loud")
				_, err := ctx.Reply("ok")
				return err
			},
		},
		&command.Command{
			Name:      "secret",
			Kind:      command.Text,
			OwnerOnly: true,
			Text: func(ctx *command.TextContext) error {
				_, err := ctx.Reply("secret")
				return err
			},
		},
		&command.Command{
			Name: "broken",
			Kind: command.Text,
			Text: func(*command.TextContext) error {
				return errors.New("oh no")
			},
		},
	))

	b.messageCreate(message(5, `;ECHO "hello world" --loud again`))
	assert.Equal(t, []string{"hello world", "again"}, got)
	assert.True(t, loud)
	require.Len(t, c.messages, 1)
	assert.Equal(t, "ok", c.messages[0].Content)
	require.NotNil(t, c.messages[0].Reference)
	assert.Equal(t, discord.MessageID(1), c.messages[0].Reference.MessageID)

	// unknown commands and non-owners are ignored
	b.messageCreate(message(5, ";nope"))
	b.messageCreate(message(5, ";secret"))
	assert.Len(t, c.messages, 1)

	b.messageCreate(message(owner, ";secret"))
	require.Len(t, c.messages, 2)
	assert.Equal(t, "secret", c.messages[1].Content)

	// bots are ignored
	ev := message(owner, ";secret")
	ev.Author.Bot = true
	b.messageCreate(ev)
	assert.Len(t, c.messages, 2)

	b.messageCreate(message(5, ";broken"))
	require.Len(t, c.messages, 3)
	assert.Contains(t, c.messages[2].Content, "Error code")
	require.Len(t, c.messages[2].Embeds, 1)
	assert.Equal(t, "Internal error occurred", c.messages[2].Embeds[0].Title)

	// malformed invocations get no reply, with or without debug logging
	b.messageCreate(message(5, ";echo --unknown"))
	b.messageCreate(message(owner, ";secret --bogus"))
	b.Config.Debug = true
	b.messageCreate(message(5, ";echo --unknown"))
	assert.Len(t, c.messages, 3)
}

func TestSlashCommands(t *testing.T) {
	b, c := testBot(t)

	require.NoError(t, b.Surface.Add("test", &command.Command{
		Name:        "ping",
		Description: "ping",
		Kind:        command.Slash,
		Slash: func(ctx *command.SlashContext) error {
			return ctx.Reply("Pong!")
		},
	}))

	ev := &discord.InteractionEvent{ID: 1, Token: "token", User: &discord.User{ID: 5}}

	b.slashCommand(ev, &discord.CommandInteraction{Name: "ping"})
	require.Len(t, c.responses, 1)
	assert.Equal(t, "Pong!", c.responses[0].Data.Content.Val)

	// unknown slash commands are ignored
	b.slashCommand(ev, &discord.CommandInteraction{Name: "gone"})
	b.Config.Debug = true
	b.slashCommand(ev, &discord.CommandInteraction{Name: "gone"})
	assert.Len(t, c.responses, 1)
}

func TestComponents(t *testing.T) {
	b, c := testBot(t)

	var values []string
	require.NoError(t, b.Surface.Add("test", &command.Command{
		Name:      "presence",
		Kind:      command.Component,
		OwnerOnly: true,
		Component: func(ctx *command.ComponentContext) error {
			values = ctx.Values
			return ctx.Update(api.InteractionResponseData{})
		},
	}))

	data := &discord.StringSelectInteraction{CustomID: "presence:select", Values: []string{"idle"}}

	b.component(&discord.InteractionEvent{ID: 1, User: &discord.User{ID: 5}}, data)
	assert.Nil(t, values)
	assert.Empty(t, c.responses)

	b.component(&discord.InteractionEvent{ID: 1, User: &discord.User{ID: owner}}, data)
	assert.Equal(t, []string{"idle"}, values)
	require.Len(t, c.responses, 1)
	assert.Equal(t, api.UpdateMessage, c.responses[0].Type)
}

type guildModule struct {
	mu     sync.Mutex
	events []string
}

func (m *guildModule) Setup(context.Context) error { return nil }
func (m *guildModule) Commands() []*command.Command { return nil }
func (m *guildModule) Teardown(context.Context) error { return nil }

func (m *guildModule) GuildJoin(_ context.Context, id discord.GuildID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, "join "+id.String())
}

func (m *guildModule) GuildLeave(_ context.Context, id discord.GuildID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, "leave "+id.String())
}

func TestGuildEvents(t *testing.T) {
	b, _ := testBot(t)

	mod := &guildModule{}
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "guilds.json"), []byte("{}"), 0o644))
	// without a syncer, so loading doesn't need a gateway
	b.Manager = plugin.New(plugin.Options{
		Root:    root,
		Surface: b.Surface,
		Catalog: plugin.Catalog{
			"guilds": func(plugin.Descriptor, plugin.Manifest) (plugin.Module, error) { return mod, nil },
		},
	})
	require.NoError(t, b.Manager.Load(context.Background(), "guilds"))

	b.ready(&gateway.ReadyEvent{
		User:   discord.User{ID: 1, Username: "bot"},
		Guilds: []gateway.GuildCreateEvent{{Guild: discord.Guild{ID: 10}}},
	})

	// becoming available after ready is not a join
	b.guildCreate(&gateway.GuildCreateEvent{Guild: discord.Guild{ID: 10}})
	b.guildCreate(&gateway.GuildCreateEvent{Guild: discord.Guild{ID: 20}})
	b.guildCreate(&gateway.GuildCreateEvent{Guild: discord.Guild{ID: 20}})

	// outages are not leaves
	b.guildDelete(&gateway.GuildDeleteEvent{ID: 20, Unavailable: true})
	b.guildDelete(&gateway.GuildDeleteEvent{ID: 20})

	assert.Equal(t, []string{"join 20", "leave 20"}, mod.events)
	assert.Equal(t, 1, b.GuildCount())
}
