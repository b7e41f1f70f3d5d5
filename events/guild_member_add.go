package events

import (
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/gatekeeper/common"
	"github.com/starshine-sys/gatekeeper/db"
)

func (bot *Bot) guildMemberAdd(ev *gateway.GuildMemberAddEvent) {
	ctx, cancel := getctx()
	defer cancel()

	if err := bot.Cabinet.SetMember(ctx, ev.GuildID, ev.Member); err != nil {
		common.Log.Errorf("Error adding member to cache: %v", err)
	}

	cfg, err := bot.DB.Guild(ev.GuildID)
	if err != nil {
		bot.DB.Report(db.ErrorContext{
			Event:   "guildMemberAdd",
			GuildID: ev.GuildID,
		}, err)
		return
	}

	// don't greet bots
	if !cfg.WelcomeChannel.IsValid() || cfg.WelcomeMessage == "" || ev.User.Bot {
		return
	}

	_, err = bot.State(ev.GuildID).SendMessage(cfg.WelcomeChannel, renderWelcome(cfg.WelcomeMessage, ev.User))
	if err != nil {
		bot.DB.Report(db.ErrorContext{
			Event:   "guildMemberAdd",
			GuildID: ev.GuildID,
			UserID:  ev.User.ID,
		}, err)
	}
}

// renderWelcome substitutes {user} in the welcome template with the member's mention.
func renderWelcome(template string, u discord.User) string {
	return strings.ReplaceAll(template, "{user}", u.Mention())
}
