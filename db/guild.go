package db

import (
	"context"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
)

// CreateGuild records a guild. It returns true if the guild was already recorded.
func (db *DB) CreateGuild(ctx context.Context, id discord.GuildID) (alreadyExists bool, err error) {
	sql, args, err := sq.Insert("guilds").
		Columns("guild_id").
		Values(int64(id)).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "building sql")
	}

	ct, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return false, errors.Wrap(err, "executing query")
	}

	return ct.RowsAffected() == 0, nil
}

// DeleteGuild removes a guild. It returns true if the guild was recorded.
func (db *DB) DeleteGuild(ctx context.Context, id discord.GuildID) (existed bool, err error) {
	sql, args, err := sq.Delete("guilds").
		Where("guild_id = ?", int64(id)).
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "building sql")
	}

	ct, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return false, errors.Wrap(err, "executing query")
	}

	return ct.RowsAffected() != 0, nil
}

// GuildCount returns the number of recorded guilds.
func (db *DB) GuildCount(ctx context.Context) (count int64, err error) {
	err = db.Get(ctx, &count, "select count(*) from guilds")
	if err != nil {
		return 0, errors.Wrap(err, "executing query")
	}
	return count, nil
}
