package events

import (
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/gatekeeper/common"
)

func (bot *Bot) guildCreate(g *gateway.GuildCreateEvent) {
	ctx, cancel := getctx()
	defer cancel()

	if err := bot.Cabinet.SetGuild(ctx, g.Guild); err != nil {
		common.Log.Errorf("Error caching guild %v: %v", g.ID, err)
	}

	if err := bot.Cabinet.SetRoles(ctx, g.ID, g.Roles); err != nil {
		common.Log.Errorf("Error caching roles for %v: %v", g.ID, err)
	}

	cached, err := bot.Cabinet.IsGuildCached(ctx, g.ID)
	if err != nil {
		common.Log.Errorf("Error checking if guild %v is already cached: %v", g.ID, err)
	}

	if cached {
		return
	}

	bot.chunkMu.Lock()
	bot.guildsToChunk[g.ID] = struct{}{}
	bot.chunkMu.Unlock()
}

func (bot *Bot) guildDelete(g *gateway.GuildDeleteEvent) {
	if g.Unavailable {
		return
	}

	bot.chunkMu.Lock()
	delete(bot.guildsToChunk, g.ID)
	bot.chunkMu.Unlock()

	ctx, cancel := getctx()
	defer cancel()

	if err := bot.Cabinet.RemoveGuild(ctx, g.ID); err != nil {
		common.Log.Errorf("Error removing guild %v from cache: %v", g.ID, err)
	}
	if err := bot.Cabinet.RemoveRoles(ctx, g.ID); err != nil {
		common.Log.Errorf("Error removing roles for %v from cache: %v", g.ID, err)
	}
}

func (bot *Bot) guildMemberChunk(g *gateway.GuildMembersChunkEvent) {
	ctx, cancel := getctx()
	defer cancel()

	err := bot.Cabinet.SetMembers(ctx, g.GuildID, g.Members)
	if err != nil {
		common.Log.Errorf("Error setting members in cache: %v", err)
	}
}

// chunkGuilds requests one guild's members every 2 seconds, to stay clear of the gateway rate limit.
func (bot *Bot) chunkGuilds() {
	tick := time.NewTicker(2 * time.Second)
	defer tick.Stop()

	t := time.Now().UTC()

	for range tick.C {
		bot.chunkMu.Lock()

		if len(bot.guildsToChunk) == 0 {
			if !bot.doneChunking {
				common.Log.Infof("Done chunking in %v!", time.Since(t).Round(time.Millisecond))
				bot.doneChunking = true
			}
		} else if bot.doneChunking {
			common.Log.Infof("Chunking was finished, but joined new guilds, chunking those")
			bot.doneChunking = false
			t = time.Now().UTC()
		}

		var chunkID discord.GuildID
		for k := range bot.guildsToChunk {
			chunkID = k
			delete(bot.guildsToChunk, k)
			break
		}

		bot.chunkMu.Unlock()

		if !chunkID.IsValid() {
			continue
		}

		sctx, scancel := getctx()
		err := bot.State(chunkID).Gateway().Send(sctx, &gateway.RequestGuildMembersCommand{
			GuildIDs: []discord.GuildID{chunkID},
			Query:    "",
			Limit:    0,
		})
		scancel()
		if err != nil {
			common.Log.Errorf("Error chunking members for guild %v: %v", chunkID, err)

			bot.chunkMu.Lock()
			bot.guildsToChunk[chunkID] = struct{}{}
			bot.chunkMu.Unlock()
			continue
		}

		ctx, cancel := getctx()

		err = bot.Cabinet.MarkGuildCached(ctx, chunkID)
		if err != nil {
			common.Log.Errorf("Error marking guild as cached: %v", err)
		}

		// we can't defer this as it's an infinite loop
		// so call cancel() manually at the end
		cancel()
	}
}

func (bot *Bot) guildMemberRemove(ev *gateway.GuildMemberRemoveEvent) {
	ctx, cancel := getctx()
	defer cancel()

	if err := bot.Cabinet.DeleteMember(ctx, ev.GuildID, ev.User.ID); err != nil {
		common.Log.Errorf("Error deleting member from cache: %v", err)
	}
}

func (bot *Bot) guildRoleCreate(ev *gateway.GuildRoleCreateEvent) {
	ctx, cancel := getctx()
	defer cancel()

	if err := bot.Cabinet.SetRole(ctx, ev.GuildID, ev.Role); err != nil {
		common.Log.Errorf("Error caching role: %v", err)
	}
}

func (bot *Bot) guildRoleUpdate(ev *gateway.GuildRoleUpdateEvent) {
	ctx, cancel := getctx()
	defer cancel()

	if err := bot.Cabinet.SetRole(ctx, ev.GuildID, ev.Role); err != nil {
		common.Log.Errorf("Error caching role: %v", err)
	}
}

func (bot *Bot) guildRoleDelete(ev *gateway.GuildRoleDeleteEvent) {
	ctx, cancel := getctx()
	defer cancel()

	if err := bot.Cabinet.RemoveRole(ctx, ev.GuildID, ev.RoleID); err != nil {
		common.Log.Errorf("Error removing role from cache: %v", err)
	}
}
