package cogs

import (
	"testing"

	"github.com/starshine-sys/griffin/bot"
	"github.com/starshine-sys/griffin/plugin"
	"github.com/stretchr/testify/assert"
)

// The manifests in this directory and the catalog have to agree.
func TestCatalogMatchesManifests(t *testing.T) {
	catalog := Catalog(&bot.Bot{})

	var found []string
	for d := range plugin.Discover(".") {
		found = append(found, d.Name)
		assert.True(t, catalog.Has(d.Name), "%v has no factory", d.Name)
	}

	assert.Equal(t, catalog.Names(), found)
}
