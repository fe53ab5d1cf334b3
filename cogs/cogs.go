// Package cogs is the catalog of cogs compiled into the bot.
// Their manifests live next to their packages: basic.json, fun.json and dev/init.json.
package cogs

import (
	"github.com/starshine-sys/griffin/bot"
	"github.com/starshine-sys/griffin/cogs/basic"
	"github.com/starshine-sys/griffin/cogs/dev"
	"github.com/starshine-sys/griffin/cogs/fun"
	"github.com/starshine-sys/griffin/plugin"
)

// Catalog returns the factories for all compiled cogs.
func Catalog(b *bot.Bot) plugin.Catalog {
	return plugin.Catalog{
		"basic": basic.New(b),
		"dev":   dev.New(b),
		"fun":   fun.New(b),
	}
}
