package commands

import (
	"strings"

	"github.com/starshine-sys/bcr"
)

func (bot *Bot) ignoredRoles(ctx *bcr.Context) error {
	if ctx.RawArgs == "" {
		err := bot.DB.SetIgnoredRoles(ctx.Message.GuildID, nil)
		if err != nil {
			return bot.DB.ReportCtx(ctx, err)
		}

		_, err = ctx.Send("Ignored roles cleared.")
		return err
	}

	// all roles must parse, otherwise the existing list is left untouched
	roles := make([]uint64, 0, len(ctx.Args))
	mentions := make([]string, 0, len(ctx.Args))
	for _, arg := range ctx.Args {
		r, err := ctx.ParseRole(arg)
		if err != nil {
			_, err = ctx.Sendf(":x: Couldn't find a role named ``%v``. No changes were made.", bcr.EscapeBackticks(arg))
			return err
		}

		roles = append(roles, uint64(r.ID))
		mentions = append(mentions, r.Mention())
	}

	if err := bot.DB.SetIgnoredRoles(ctx.Message.GuildID, roles); err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}

	_, err := ctx.Sendf("Ignored roles set to %v.", strings.Join(mentions, ", "))
	return err
}
