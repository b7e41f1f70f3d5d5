package events

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session/shard"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/starshine-sys/gatekeeper/bot"
	"github.com/starshine-sys/gatekeeper/common"
)

// Bot is the event handler bot.
type Bot struct {
	*bot.Bot

	// members with a grant currently in flight, to stop a second
	// qualifying role gain from starting a duplicate grant
	verifying *common.Set[memberCacheKey]

	guildsToChunk map[discord.GuildID]struct{}
	chunkMu       sync.Mutex
	doneChunking  bool
}

// Init sets up all gateway event handlers.
func Init(b *bot.Bot) *Bot {
	bot := &Bot{
		Bot:           b,
		verifying:     common.NewSet[memberCacheKey](),
		guildsToChunk: map[discord.GuildID]struct{}{},
	}

	// guild create: create a db row, cache the guild, chunk members
	bot.Router.AddHandler(bot.DB.CreateServerIfNotExists)
	bot.Router.AddHandler(bot.guildCreate)
	bot.Router.AddHandler(bot.guildDelete)
	bot.Router.AddHandler(bot.guildMemberChunk)

	// member handlers
	bot.Router.AddHandler(bot.guildMemberAdd)
	bot.Router.AddHandler(bot.guildMemberUpdate)
	bot.Router.AddHandler(bot.guildMemberRemove)

	// role cache handlers
	bot.Router.AddHandler(bot.guildRoleCreate)
	bot.Router.AddHandler(bot.guildRoleUpdate)
	bot.Router.AddHandler(bot.guildRoleDelete)

	go bot.chunkGuilds()

	var o sync.Once
	bot.Router.AddHandler(func(*gateway.ReadyEvent) {
		o.Do(func() {
			go bot.updateStatusLoop()
		})
	})

	return bot
}

func (bot *Bot) updateStatusLoop() {
	time.Sleep(5 * time.Second)

	for {
		str := fmt.Sprintf("%vhelp", strings.Split(os.Getenv("PREFIXES"), ",")[0])

		bot.Router.ShardManager.ForEach(func(sh shard.Shard) {
			s := sh.(*state.State)

			err := s.Gateway().Send(context.Background(), &gateway.UpdatePresenceCommand{
				Status: discord.OnlineStatus,
				Activities: []discord.Activity{{
					Name: str,
					Type: discord.GameActivity,
				}},
			})
			if err != nil {
				common.Log.Errorf("Error setting status: %v", err)
			}
		})

		time.Sleep(10 * time.Minute)
	}
}
