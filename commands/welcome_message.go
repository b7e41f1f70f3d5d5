package commands

import (
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/gatekeeper/db"
)

func (bot *Bot) welcomeMessage(ctx *bcr.Context) error {
	if ctx.RawArgs == "" {
		err := bot.DB.SetWelcomeMessage(ctx.Message.GuildID, db.DefaultWelcomeMessage)
		if err != nil {
			return bot.DB.ReportCtx(ctx, err)
		}

		_, err = ctx.Sendf("Welcome message reset to the default:\n> %v", db.DefaultWelcomeMessage)
		return err
	}

	if err := bot.DB.SetWelcomeMessage(ctx.Message.GuildID, ctx.RawArgs); err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}

	_, err := ctx.Sendf("Welcome message set to:\n> %v", ctx.RawArgs)
	return err
}
