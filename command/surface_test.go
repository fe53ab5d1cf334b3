package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopText(*TextContext) error   { return nil }
func noopSlash(*SlashContext) error { return nil }

func textCmd(name string) *Command {
	return &Command{Name: name, Kind: Text, Text: noopText}
}

func slashCmd(name string) *Command {
	return &Command{Name: name, Description: name + " command", Kind: Slash, Slash: noopSlash}
}

func TestSurfaceAddRemove(t *testing.T) {
	s := NewSurface(true)

	require.NoError(t, s.Add("basic", slashCmd("ping"), slashCmd("prefix")))
	require.NoError(t, s.Add("dev", textCmd("reload_cog"), &Command{
		Name:      "presence",
		Kind:      Component,
		Component: func(*ComponentContext) error { return nil },
	}))

	assert.Equal(t, 4, s.Len())

	_, ok := s.Slash("ping")
	assert.True(t, ok)
	_, ok = s.Text("RELOAD_COG")
	assert.True(t, ok, "text commands are case insensitive")
	_, ok = s.Component("presence:select")
	assert.True(t, ok)

	owner, ok := s.Owner(Slash, "prefix")
	require.True(t, ok)
	assert.Equal(t, "basic", owner)

	data := s.CreateData()
	require.Len(t, data, 2)
	assert.Equal(t, "ping", data[0].Name)
	assert.Equal(t, "prefix", data[1].Name)

	assert.ElementsMatch(t, []string{"ping", "prefix"}, s.Remove("basic"))
	assert.Empty(t, s.CreateData())
	assert.Equal(t, 2, s.Len())
	assert.Empty(t, s.Remove("basic"))
}

func TestSurfaceCaseSensitive(t *testing.T) {
	s := NewSurface(false)
	require.NoError(t, s.Add("dev", textCmd("stats")))

	_, ok := s.Text("Stats")
	assert.False(t, ok)
	_, ok = s.Text("stats")
	assert.True(t, ok)
}

func TestSurfaceAddIsAtomic(t *testing.T) {
	s := NewSurface(true)
	require.NoError(t, s.Add("basic", slashCmd("ping")))

	t.Run("conflict with another cog", func(t *testing.T) {
		err := s.Add("fun", slashCmd("cat"), slashCmd("ping"))
		require.Error(t, err)
		assert.True(t, IsConflict(err))

		_, ok := s.Slash("cat")
		assert.False(t, ok, "no command of a rejected batch is registered")
		assert.Empty(t, s.Commands("fun"))
	})

	t.Run("conflict within the batch", func(t *testing.T) {
		err := s.Add("fun", slashCmd("cat"), slashCmd("cat"))
		assert.True(t, IsConflict(err))
		assert.Equal(t, 1, s.Len())
	})

	t.Run("invalid command", func(t *testing.T) {
		err := s.Add("fun", slashCmd("cat"), &Command{Name: "say", Kind: Slash})
		require.Error(t, err)
		assert.False(t, IsConflict(err))
		assert.Equal(t, 1, s.Len())
	})

	t.Run("same name different kind", func(t *testing.T) {
		require.NoError(t, s.Add("dev", textCmd("ping")))
		assert.Equal(t, 2, s.Len())
	})
}

func TestCommandValidate(t *testing.T) {
	tests := []struct {
		name string
		cmd  *Command
		ok   bool
	}{
		{"text", textCmd("stats"), true},
		{"slash", slashCmd("cat"), true},
		{"nil", nil, false},
		{"empty name", &Command{Kind: Text, Text: noopText}, false},
		{"space in name", textCmd("reload cog"), false},
		{"slash without description", &Command{Name: "x", Kind: Slash, Slash: noopSlash}, false},
		{"text without handler", &Command{Name: "x", Kind: Text}, false},
		{"component with colon", &Command{Name: "a:b", Kind: Component, Component: func(*ComponentContext) error { return nil }}, false},
		{"unknown kind", &Command{Name: "x", Kind: Kind(9)}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
