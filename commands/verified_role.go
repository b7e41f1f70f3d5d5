package commands

import (
	"github.com/starshine-sys/bcr"
)

func (bot *Bot) verifiedRole(ctx *bcr.Context) error {
	if ctx.RawArgs == "" {
		err := bot.DB.SetVerifiedRole(ctx.Message.GuildID, 0)
		if err != nil {
			return bot.DB.ReportCtx(ctx, err)
		}

		_, err = ctx.Send("Verified role cleared. Verification is now disabled.")
		return err
	}

	r, err := ctx.ParseRole(ctx.RawArgs)
	if err != nil {
		_, err = ctx.Sendf(":x: Couldn't find a role named ``%v``.", bcr.EscapeBackticks(ctx.RawArgs))
		return err
	}

	if err := bot.DB.SetVerifiedRole(ctx.Message.GuildID, r.ID); err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}

	_, err = ctx.Sendf("Verified role set to %v.", r.Mention())
	return err
}
