package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"
)

const unverifiedPageSize = 20

// unverifiedMembers returns the members without the given role, sorted by join time,
// oldest first.
func unverifiedMembers(members []discord.Member, role discord.RoleID) (out []discord.Member) {
	for _, m := range members {
		hasRole := false
		for _, r := range m.RoleIDs {
			if r == role {
				hasRole = true
				break
			}
		}
		if !hasRole {
			out = append(out, m)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Joined.Time().Before(out[j].Joined.Time())
	})
	return out
}

// unverifiedEmbeds splits the member list into pages of pageSize members each.
func unverifiedEmbeds(members []discord.Member, pageSize int) (embeds []discord.Embed) {
	pages := len(members) / pageSize
	if len(members)%pageSize != 0 {
		pages++
	}

	for page := 0; page < pages; page++ {
		start := page * pageSize
		end := start + pageSize
		if end > len(members) {
			end = len(members)
		}

		var b strings.Builder
		for i, m := range members[start:end] {
			fmt.Fprintf(&b, "`%v` %v\n", start+i+1, m.User.Mention())
		}

		embeds = append(embeds, discord.Embed{
			Title:       "Members without the verification role",
			Description: fmt.Sprintf("Total unverified members: %v", len(members)),
			Color:       bcr.ColourPurple,
			Fields: []discord.EmbedField{{
				Name:  fmt.Sprintf("%v-%v", start+1, end),
				Value: b.String(),
			}},
			Footer: &discord.EmbedFooter{
				Text: fmt.Sprintf("Page %v of %v.", page+1, pages),
			},
		})
	}
	return embeds
}

func (bot *Bot) unverified(ctx *bcr.Context) error {
	cfg, err := bot.DB.Guild(ctx.Message.GuildID)
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}

	if !cfg.VerificationEnabled() {
		_, err = ctx.Sendf(":x: Verification role not found. Set one with `%vverifyrole` first.", ctx.Prefix)
		return err
	}

	if _, err := bot.State(ctx.Message.GuildID).Role(ctx.Message.GuildID, cfg.VerifiedRole); err != nil {
		_, err = ctx.Sendf(":x: Verification role not found. Set one with `%vverifyrole` first.", ctx.Prefix)
		return err
	}

	cctx, cancel := getctx()
	defer cancel()

	members, err := bot.Cabinet.Members(cctx, ctx.Message.GuildID)
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}

	unverified := unverifiedMembers(members, cfg.VerifiedRole)
	if len(unverified) == 0 {
		_, err = ctx.Send("All members have the verified role!")
		return err
	}

	_, _, err = ctx.ButtonPages(unverifiedEmbeds(unverified, unverifiedPageSize), 10*time.Minute)
	return err
}
