package bot

import (
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/session/shard"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/gatekeeper/db"
	"github.com/starshine-sys/gatekeeper/store"
	"github.com/starshine-sys/gatekeeper/store/memory"
	"github.com/starshine-sys/gatekeeper/store/redis"
)

// Bot is the base bot type embedded by the command and event handlers.
type Bot struct {
	Router *bcr.Router
	DB     *db.DB

	Cabinet store.Cabinet

	Start time.Time
}

// New creates a new Bot. If redisURL is empty, members are cached in memory instead.
func New(redisURL string, r *bcr.Router, database *db.DB) (*Bot, error) {
	memoryStore := memory.New()

	cabinet := store.Cabinet{
		MemberStore: memoryStore,
		GuildStore:  memoryStore,
		RoleStore:   memoryStore,
	}

	if redisURL != "" {
		redisStore, err := redis.New(redisURL)
		if err != nil {
			return nil, err
		}
		cabinet.MemberStore = redisStore
	}

	return &Bot{
		Router:  r,
		DB:      database,
		Cabinet: cabinet,
		Start:   time.Now().UTC(),
	}, nil
}

// State gets a state.State for the guild
func (bot *Bot) State(id discord.GuildID) *state.State {
	s, _ := bot.Router.StateFromGuildID(id)
	return s
}

// ForEach calls fn for every shard's state.
func (bot *Bot) ForEach(fn func(s *state.State)) {
	bot.Router.ShardManager.ForEach(func(sh shard.Shard) {
		fn(sh.(*state.State))
	})
}
