package stats

import (
	"testing"

	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/griffin/config"
	"github.com/stretchr/testify/assert"
)

func TestNilClient(t *testing.T) {
	c := New(config.InfluxConfig{})
	assert.Nil(t, c)

	// none of these may panic
	c.RegisterEvent("x")
	c.IncCommand("ping")
	c.IncLifecycle("reload")
	c.EventHandler(&gateway.ReadyEvent{})
}

func TestDrain(t *testing.T) {
	m := map[string]uint32{"a": 2, "b": 3}

	fields, total := drain(m)
	assert.EqualValues(t, 5, total)
	assert.Equal(t, map[string]any{"a": uint32(2), "b": uint32(3)}, fields)
	assert.Equal(t, map[string]uint32{"a": 0, "b": 0}, m)
}
