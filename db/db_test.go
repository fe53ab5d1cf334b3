package db

import (
	"context"
	"net/url"
	"testing"

	"emperror.dev/errors"
	"github.com/starshine-sys/griffin/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotConnected(t *testing.T) {
	db := New(config.PostgresConfig{Host: "localhost", Port: 5432})
	ctx := context.Background()

	assert.False(t, db.Connected())

	ct, err := db.Exec(ctx, "select 1")
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Empty(t, ct)

	var n int
	assert.ErrorIs(t, db.Get(ctx, &n, "select 1"), ErrNotConnected)

	_, err = db.CreateGuild(ctx, 1)
	assert.True(t, errors.Is(err, ErrNotConnected))

	_, err = db.DeleteGuild(ctx, 1)
	assert.True(t, errors.Is(err, ErrNotConnected))

	_, err = db.GuildCount(ctx)
	assert.True(t, errors.Is(err, ErrNotConnected))

	// closing an unconnected database is a no-op
	db.Close()
}

func TestDSN(t *testing.T) {
	db := New(config.PostgresConfig{
		Host:     "db.local",
		Port:     6543,
		Database: "griffin",
		Schema:   "bot",
		User:     "peter",
		Password: "p@ss word",
	})

	u, err := url.Parse(db.DSN())
	require.NoError(t, err)

	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.local:6543", u.Host)
	assert.Equal(t, "/griffin", u.Path)
	assert.Equal(t, "peter", u.User.Username())
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss word", pw)
	assert.Equal(t, "bot", u.Query().Get("search_path"))
}
