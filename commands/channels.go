package commands

import (
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"
)

// toggleChannel sets the current channel through set, or clears it if it was already set
// to the current channel.
func (bot *Bot) toggleChannel(
	ctx *bcr.Context, name string,
	current discord.ChannelID,
	set func(discord.GuildID, discord.ChannelID) error,
) error {
	if current == ctx.Channel.ID {
		if err := set(ctx.Message.GuildID, 0); err != nil {
			return bot.DB.ReportCtx(ctx, err)
		}

		_, err := ctx.Sendf("%v cleared.", name)
		return err
	}

	if err := set(ctx.Message.GuildID, ctx.Channel.ID); err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}

	_, err := ctx.Sendf("%v set to %v.", name, ctx.Channel.Mention())
	return err
}

func (bot *Bot) confirmChannel(ctx *bcr.Context) error {
	cfg, err := bot.DB.Guild(ctx.Message.GuildID)
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}

	return bot.toggleChannel(ctx, "Confirmation channel", cfg.ConfirmChannel, bot.DB.SetConfirmChannel)
}

func (bot *Bot) logChannel(ctx *bcr.Context) error {
	cfg, err := bot.DB.Guild(ctx.Message.GuildID)
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}

	return bot.toggleChannel(ctx, "Log channel", cfg.LogChannel, bot.DB.SetLogChannel)
}

func (bot *Bot) welcomeChannel(ctx *bcr.Context) error {
	cfg, err := bot.DB.Guild(ctx.Message.GuildID)
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}

	return bot.toggleChannel(ctx, "Welcome channel", cfg.WelcomeChannel, bot.DB.SetWelcomeChannel)
}
