// Package redis provides a Redis-backed member store, so the member cache survives restarts.
package redis

import (
	"context"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/mediocregopher/radix/v4"
	"github.com/starshine-sys/gatekeeper/store"
)

var _ store.MemberStore = (*Store)(nil)

type Store struct {
	client radix.Client
}

func New(url string) (*Store, error) {
	client, err := (radix.PoolConfig{}).New(context.Background(), "tcp", url)
	if err != nil {
		return nil, errors.Wrap(err, "creating radix client")
	}

	return &Store{client: client}, nil
}

func (s *Store) IsGuildCached(ctx context.Context, guildID discord.GuildID) (bool, error) {
	var cached bool
	err := s.client.Do(ctx, radix.Cmd(&cached, "SISMEMBER", "cachedGuilds", guildID.String()))
	return cached, err
}

func (s *Store) MarkGuildCached(ctx context.Context, guildID discord.GuildID) error {
	return s.client.Do(ctx, radix.Cmd(nil, "SADD", "cachedGuilds", guildID.String()))
}
