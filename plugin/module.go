// Package plugin manages the lifecycle of cogs: discovering them on disk, loading, unloading
// and reloading them at runtime, and keeping Discord's command tree in sync with the
// commands they register.
//
// Cogs are compiled into the binary as factories in a Catalog. The cogs directory holds a
// manifest per cog, which decides which cogs exist and carries their settings. Reloading a
// cog re-reads its manifest and builds a new instance from its factory; changes to a cog's
// code still need a rebuild.
package plugin

import (
	"context"
	"sort"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/griffin/command"
)

// Module is a loaded cog.
type Module interface {
	// Setup initializes the cog. If it returns an error, the cog is not loaded.
	Setup(ctx context.Context) error
	// Commands returns the commands the cog contributes. It is called once, after Setup.
	Commands() []*command.Command
	// Teardown is called after the cog is unloaded. Errors are logged.
	Teardown(ctx context.Context) error
}

// GuildListener is implemented by modules that want to know when the bot joins or leaves a guild.
type GuildListener interface {
	GuildJoin(ctx context.Context, id discord.GuildID)
	GuildLeave(ctx context.Context, id discord.GuildID)
}

// Factory creates a new instance of a cog from its descriptor and manifest.
type Factory func(d Descriptor, m Manifest) (Module, error)

// Catalog maps cog names to their factories.
type Catalog map[string]Factory

// Has returns true if name has a factory.
func (c Catalog) Has(name string) bool {
	_, ok := c[name]
	return ok
}

// Names returns all cog names in the catalog, sorted.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Syncer pushes the full set of slash commands to Discord, and returns how many commands Discord now has.
type Syncer interface {
	Sync(ctx context.Context, cmds []api.CreateCommandData) (int, error)
}

// SyncFunc is a function that implements Syncer.
type SyncFunc func(ctx context.Context, cmds []api.CreateCommandData) (int, error)

func (f SyncFunc) Sync(ctx context.Context, cmds []api.CreateCommandData) (int, error) {
	return f(ctx, cmds)
}
