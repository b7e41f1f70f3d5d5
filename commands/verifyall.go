package commands

import (
	"net/http"
	"sort"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/httputil"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/gatekeeper/common"
	"github.com/starshine-sys/gatekeeper/db"
)

// progress messages are sent every progressEvery members
const progressEvery = 20

type bulkResult struct {
	total           int
	granted         int
	alreadyVerified int
	ineligible      int
	// permission failures (missing Manage Roles or role above the bot)
	forbidden int
	failed    int
}

func (res bulkResult) skipped() int {
	return res.alreadyVerified + res.ineligible
}

func hasRole(m discord.Member, id discord.RoleID) bool {
	for _, r := range m.RoleIDs {
		if r == id {
			return true
		}
	}
	return false
}

// bulkEligible reports whether the member should receive the verified role during a bulk
// check: they don't have it yet, and they have at least one role that is neither the
// @everyone role nor ignored.
func bulkEligible(cfg db.GuildConfig, guildID discord.GuildID, m discord.Member) bool {
	qualifying := false
	for _, r := range m.RoleIDs {
		if r == cfg.VerifiedRole {
			return false
		}
		if uint64(r) == uint64(guildID) || cfg.RoleIgnored(r) {
			continue
		}
		qualifying = true
	}
	return qualifying
}

// runBulkVerify walks the member list and grants the verified role to every eligible
// member. The config is re-read before each member so a mid-run configuration change
// takes effect immediately. Individual failures don't stop the run.
func runBulkVerify(
	guildID discord.GuildID,
	members []discord.Member,
	getCfg func() (db.GuildConfig, error),
	grant func(m discord.Member, role discord.RoleID) error,
	progress func(done int, current discord.User),
	dryRun bool,
) (res bulkResult, err error) {
	res.total = len(members)

	for i, m := range members {
		cfg, err := getCfg()
		if err != nil {
			return res, errors.Wrap(err, "getting guild config")
		}
		if !cfg.VerificationEnabled() {
			return res, errors.Sentinel("verification was disabled mid-run")
		}

		switch {
		case hasRole(m, cfg.VerifiedRole):
			common.Log.Debugf("%v in %v is already verified", m.User.ID, guildID)
			res.alreadyVerified++
		case !bulkEligible(cfg, guildID, m):
			common.Log.Debugf("%v in %v is not eligible for verification", m.User.ID, guildID)
			res.ineligible++
		case dryRun:
			res.granted++
		default:
			if err := grant(m, cfg.VerifiedRole); err != nil {
				var httpErr *httputil.HTTPError
				if errors.As(err, &httpErr) && httpErr.Status == http.StatusForbidden {
					res.forbidden++
				} else {
					res.failed++
				}
				break
			}
			common.Log.Debugf("Granted the verified role to %v in %v", m.User.ID, guildID)
			res.granted++
		}

		// progress carries the member that was just handled
		if done := i + 1; progress != nil && done%progressEvery == 0 {
			progress(done, m.User)
		}
	}

	return res, nil
}

func (bot *Bot) verifyAll(ctx *bcr.Context) error {
	guildID := ctx.Message.GuildID
	dryRun, _ := ctx.Flags.GetBool("dry-run")

	cfg, err := bot.DB.Guild(guildID)
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}

	if !cfg.VerificationEnabled() {
		_, err = ctx.Sendf(":x: Verification role not found. Set one with `%vverifyrole` first.", ctx.Prefix)
		return err
	}

	s := bot.State(guildID)
	if _, err := s.Role(guildID, cfg.VerifiedRole); err != nil {
		_, err = ctx.Sendf(":x: Verification role not found. Set one with `%vverifyrole` first.", ctx.Prefix)
		return err
	}

	cctx, cancel := getctx()
	defer cancel()

	members, err := bot.Cabinet.Members(cctx, guildID)
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}

	// a stable order so interrupted runs can be eyeballed against each other
	sort.Slice(members, func(i, j int) bool {
		return members[i].User.ID < members[j].User.ID
	})

	if dryRun {
		res, err := runBulkVerify(guildID, members, func() (db.GuildConfig, error) {
			return bot.DB.Guild(guildID)
		}, nil, nil, true)
		if err != nil {
			return bot.DB.ReportCtx(ctx, err)
		}

		_, err = ctx.Sendf(
			"Dry run: **`%v`** out of `%v` members would receive the verified role, `%v` would be skipped.",
			res.granted, res.total, res.skipped(),
		)
		return err
	}

	_, err = ctx.Sendf("Verified check for all **`%v`** members started, this may take a while!", len(members))
	if err != nil {
		return err
	}

	go func() {
		res, err := runBulkVerify(guildID, members, func() (db.GuildConfig, error) {
			return bot.DB.Guild(guildID)
		}, func(m discord.Member, role discord.RoleID) error {
			return s.AddRole(guildID, m.User.ID, role, api.AddRoleData{
				AuditLogReason: "Gatekeeper bulk verification.",
			})
		}, func(done int, current discord.User) {
			_, err := ctx.Sendf("**`%v`** out of `%v` members done. Current user: %v", done, len(members), current.Mention())
			if err != nil {
				bot.DB.Report(db.ErrorContext{
					Event:   "verifyAll",
					GuildID: guildID,
				}, err)
			}
		}, false)
		if err != nil {
			_ = bot.DB.ReportCtx(ctx, err)
			return
		}

		bot.DB.Stats.IncGrantN(res.granted)

		msg := "All **`%v`** members done! Granted the verified role to `%v` members."
		if res.forbidden > 0 || res.failed > 0 {
			msg += " `%v` members could not be updated"
			if res.forbidden > 0 {
				msg += " (check the bot's `Manage Roles` permission and role position)"
			}
			msg += "."

			_, err = ctx.Sendf(msg, res.total, res.granted, res.forbidden+res.failed)
		} else {
			_, err = ctx.Sendf(msg, res.total, res.granted)
		}
		if err != nil {
			bot.DB.Report(db.ErrorContext{
				Event:   "verifyAll",
				GuildID: guildID,
			}, err)
		}
	}()

	return nil
}
