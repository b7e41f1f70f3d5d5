// Package store defines interfaces for a persistent cache of members, roles, and guilds.
// Members aren't sent in ready/guild create events, so we need to chunk them from Discord;
// moving the cache out of the bot process means it can survive restarts.
package store

import (
	"context"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
)

const ErrNotFound = errors.Sentinel("value not found in store")

type Cabinet struct {
	MemberStore
	GuildStore
	RoleStore
}

type MemberStore interface {
	IsGuildCached(ctx context.Context, guildID discord.GuildID) (bool, error)
	MarkGuildCached(ctx context.Context, guildID discord.GuildID) error

	Member(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (discord.Member, error)
	Members(ctx context.Context, guildID discord.GuildID) ([]discord.Member, error)
	SetMember(ctx context.Context, guildID discord.GuildID, m discord.Member) error

	// This can easily just wrap SetMember, this function is separate for optimization reasons
	SetMembers(ctx context.Context, guildID discord.GuildID, ms []discord.Member) error

	DeleteMember(ctx context.Context, guildID discord.GuildID, userID discord.UserID) error
}

type GuildStore interface {
	Guild(ctx context.Context, guildID discord.GuildID) (discord.Guild, error)
	SetGuild(ctx context.Context, g discord.Guild) error
	RemoveGuild(ctx context.Context, guildID discord.GuildID) error
}

type RoleStore interface {
	Role(ctx context.Context, guildID discord.GuildID, roleID discord.RoleID) (discord.Role, error)
	Roles(ctx context.Context, guildID discord.GuildID) ([]discord.Role, error)
	SetRole(ctx context.Context, guildID discord.GuildID, r discord.Role) error
	SetRoles(ctx context.Context, guildID discord.GuildID, rls []discord.Role) error
	RemoveRole(ctx context.Context, guildID discord.GuildID, roleID discord.RoleID) error
	RemoveRoles(ctx context.Context, guildID discord.GuildID) error
}
