package commands

import (
	"strconv"

	"github.com/starshine-sys/bcr"
)

func (bot *Bot) verifyDelay(ctx *bcr.Context) error {
	secs, err := strconv.Atoi(ctx.Args[0])
	if err != nil {
		_, err = ctx.Sendf(":x: ``%v`` is not a valid number of seconds.", bcr.EscapeBackticks(ctx.Args[0]))
		return err
	}

	if secs < 0 {
		secs = 0
	}

	if err := bot.DB.SetVerifyDelay(ctx.Message.GuildID, secs); err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}

	if secs == 0 {
		_, err = ctx.Send("Verification delay disabled. The verified role will be granted immediately.")
		return err
	}

	_, err = ctx.Sendf("Verification delay set to %v seconds.", secs)
	return err
}
