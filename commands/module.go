package commands

import (
	"context"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/spf13/pflag"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/gatekeeper/bot"
)

// Bot is the command handling bot.
type Bot struct {
	*bot.Bot
}

// Init registers all commands with the router.
func Init(b *bot.Bot) *Bot {
	bot := &Bot{Bot: b}

	bot.Router.AddCommand(&bcr.Command{
		Name:    "ping",
		Aliases: []string{"stats"},
		Summary: "Show the bot's latency and other stats.",

		Command: bot.counted(bot.ping),
	})

	bot.Router.AddCommand(&bcr.Command{
		Name:    "verifyrole",
		Aliases: []string{"verifiedrole"},
		Summary: "Set or clear the role granted to verified members.",
		Usage:   "[role]",

		GuildOnly:   true,
		Permissions: discord.PermissionManageGuild,

		Command: bot.counted(bot.verifiedRole),
	})

	bot.Router.AddCommand(&bcr.Command{
		Name:    "ignoredroles",
		Summary: "Set or clear the roles that never trigger verification.",
		Usage:   "[roles...]",

		GuildOnly:   true,
		Permissions: discord.PermissionManageGuild,

		Command: bot.counted(bot.ignoredRoles),
	})

	bot.Router.AddCommand(&bcr.Command{
		Name:    "verifydelay",
		Summary: "Set the delay, in seconds, before the verified role is granted.",
		Usage:   "<seconds>",
		Args:    bcr.MinArgs(1),

		GuildOnly:   true,
		Permissions: discord.PermissionManageGuild,

		Command: bot.counted(bot.verifyDelay),
	})

	bot.Router.AddCommand(&bcr.Command{
		Name:    "confirmchannel",
		Summary: "Toggle the current channel as the verification confirmation channel.",

		GuildOnly:   true,
		Permissions: discord.PermissionManageGuild,

		Command: bot.counted(bot.confirmChannel),
	})

	bot.Router.AddCommand(&bcr.Command{
		Name:    "logchannel",
		Summary: "Toggle the current channel as the verification log channel.",

		GuildOnly:   true,
		Permissions: discord.PermissionManageGuild,

		Command: bot.counted(bot.logChannel),
	})

	bot.Router.AddCommand(&bcr.Command{
		Name:    "welcomechannel",
		Summary: "Toggle the current channel as the welcome channel.",

		GuildOnly:   true,
		Permissions: discord.PermissionManageGuild,

		Command: bot.counted(bot.welcomeChannel),
	})

	bot.Router.AddCommand(&bcr.Command{
		Name:    "welcomemessage",
		Summary: "Set the welcome message. Use `{user}` for a mention of the new member.",
		Usage:   "[message]",

		GuildOnly:   true,
		Permissions: discord.PermissionManageGuild,

		Command: bot.counted(bot.welcomeMessage),
	})

	bot.Router.AddCommand(&bcr.Command{
		Name:    "verifyconfig",
		Aliases: []string{"config"},
		Summary: "Show the current verification configuration.",

		GuildOnly:   true,
		Permissions: discord.PermissionManageGuild,

		Command: bot.counted(bot.showConfig),
	})

	bot.Router.AddCommand(&bcr.Command{
		Name:    "verifyall",
		Summary: "Grant the verified role to all eligible members.",

		GuildOnly: true,
		OwnerOnly: true,
		Flags: func(fs *pflag.FlagSet) *pflag.FlagSet {
			fs.BoolP("dry-run", "n", false, "Only count members, don't grant any roles")
			return fs
		},

		Command: bot.counted(bot.verifyAll),
	})

	bot.Router.AddCommand(&bcr.Command{
		Name:    "unverified",
		Summary: "List all members without the verified role.",

		GuildOnly:   true,
		Permissions: discord.PermissionManageRoles,

		Command: bot.counted(bot.unverified),
	})

	return bot
}

// counted wraps a command handler to count command invocations.
func (bot *Bot) counted(fn func(*bcr.Context) error) func(*bcr.Context) error {
	return func(ctx *bcr.Context) error {
		bot.DB.Stats.IncCommand()
		return fn(ctx)
	}
}

func getctx() (context.Context, func()) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
