package memory

import (
	"context"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/gatekeeper/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembers(t *testing.T) {
	s := New()
	ctx := context.Background()

	const guildID discord.GuildID = 123

	_, err := s.Member(ctx, guildID, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	m1 := discord.Member{User: discord.User{ID: 1}, RoleIDs: []discord.RoleID{10}}
	m2 := discord.Member{User: discord.User{ID: 2}}

	require.NoError(t, s.SetMembers(ctx, guildID, []discord.Member{m1, m2}))

	got, err := s.Member(ctx, guildID, 1)
	require.NoError(t, err)
	assert.Equal(t, m1, got)

	ms, err := s.Members(ctx, guildID)
	require.NoError(t, err)
	assert.Len(t, ms, 2)

	// updating an existing member shouldn't duplicate them
	m1.Nick = "nick"
	require.NoError(t, s.SetMember(ctx, guildID, m1))

	ms, err = s.Members(ctx, guildID)
	require.NoError(t, err)
	assert.Len(t, ms, 2)

	got, err = s.Member(ctx, guildID, 1)
	require.NoError(t, err)
	assert.Equal(t, "nick", got.Nick)

	require.NoError(t, s.DeleteMember(ctx, guildID, 1))

	_, err = s.Member(ctx, guildID, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	ms, err = s.Members(ctx, guildID)
	require.NoError(t, err)
	assert.Len(t, ms, 1)
}

func TestGuildCached(t *testing.T) {
	s := New()
	ctx := context.Background()

	cached, err := s.IsGuildCached(ctx, 123)
	require.NoError(t, err)
	assert.False(t, cached)

	require.NoError(t, s.MarkGuildCached(ctx, 123))

	cached, err = s.IsGuildCached(ctx, 123)
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestRoles(t *testing.T) {
	s := New()
	ctx := context.Background()

	const guildID discord.GuildID = 123

	_, err := s.Roles(ctx, guildID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.SetRoles(ctx, guildID, []discord.Role{
		{ID: 10, Name: "one"},
		{ID: 11, Name: "two"},
	}))

	r, err := s.Role(ctx, guildID, 10)
	require.NoError(t, err)
	assert.Equal(t, "one", r.Name)

	rls, err := s.Roles(ctx, guildID)
	require.NoError(t, err)
	assert.Len(t, rls, 2)

	require.NoError(t, s.RemoveRole(ctx, guildID, 10))

	_, err = s.Role(ctx, guildID, 10)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.RemoveRoles(ctx, guildID))

	_, err = s.Roles(ctx, guildID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGuilds(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Guild(ctx, 123)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.SetGuild(ctx, discord.Guild{ID: 123, Name: "test"}))

	g, err := s.Guild(ctx, 123)
	require.NoError(t, err)
	assert.Equal(t, "test", g.Name)

	require.NoError(t, s.RemoveGuild(ctx, 123))

	_, err = s.Guild(ctx, 123)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
