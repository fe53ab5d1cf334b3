// Package command holds the commands contributed by cogs, and the contexts they're invoked with.
package command

import (
	"strings"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/spf13/pflag"
)

// Kind is the way a command is invoked.
type Kind int

const (
	// Text commands are invoked by a message starting with the prefix.
	Text Kind = iota
	// Slash commands are application commands synced to Discord.
	Slash
	// Component handlers receive interactions on message components.
	// Their name is the custom ID prefix before the first colon.
	Component
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Slash:
		return "slash"
	case Component:
		return "component"
	default:
		return "unknown"
	}
}

// Command is a single command contributed by a cog.
type Command struct {
	Name        string
	Description string
	Usage       string
	Kind        Kind

	// OwnerOnly restricts the command to the bot's owners.
	// Other users invoking it are ignored.
	OwnerOnly bool

	// Options are a slash command's options.
	Options discord.CommandOptions
	// Flags adds flags to a text command's flag set.
	Flags func(fs *pflag.FlagSet)

	Text      func(*TextContext) error
	Slash     func(*SlashContext) error
	Component func(*ComponentContext) error
}

func (c *Command) validate() error {
	if c == nil {
		return errors.New("nil command")
	}

	if c.Name == "" || strings.ContainsAny(c.Name, " \t\n") {
		return errors.Errorf("invalid command name %q", c.Name)
	}

	switch c.Kind {
	case Text:
		if c.Text == nil {
			return errors.Errorf("text command %q has no handler", c.Name)
		}
	case Slash:
		if c.Slash == nil {
			return errors.Errorf("slash command %q has no handler", c.Name)
		}
		if c.Description == "" {
			return errors.Errorf("slash command %q has no description", c.Name)
		}
	case Component:
		if c.Component == nil {
			return errors.Errorf("component handler %q has no handler", c.Name)
		}
		if strings.Contains(c.Name, ":") {
			return errors.Errorf("component handler %q may not contain a colon", c.Name)
		}
	default:
		return errors.Errorf("command %q has unknown kind %v", c.Name, c.Kind)
	}
	return nil
}

// CreateData returns the data used to sync a slash command.
func (c *Command) CreateData() api.CreateCommandData {
	return api.CreateCommandData{
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
	}
}
