package events

import (
	"context"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
)

type memberCacheKey struct {
	GuildID discord.GuildID
	UserID  discord.UserID
}

func getctx() (context.Context, func()) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// Member returns the given member from the cache, falling back to the API.
func (bot *Bot) Member(guildID discord.GuildID, userID discord.UserID) (discord.Member, error) {
	ctx, cancel := getctx()
	defer cancel()

	m, err := bot.Cabinet.Member(ctx, guildID, userID)
	if err == nil {
		return m, nil
	}

	mp, err := bot.State(guildID).Member(guildID, userID)
	if err == nil {
		return *mp, nil
	}
	return m, err
}
