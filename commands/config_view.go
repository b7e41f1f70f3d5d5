package commands

import (
	"fmt"
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"
)

func (bot *Bot) showConfig(ctx *bcr.Context) error {
	cfg, err := bot.DB.Guild(ctx.Message.GuildID)
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}

	verifiedRole := "Disabled"
	if cfg.VerifiedRole.IsValid() {
		verifiedRole = cfg.VerifiedRole.Mention()
	}

	ignored := "None"
	if len(cfg.IgnoredRoles) > 0 {
		mentions := make([]string, 0, len(cfg.IgnoredRoles))
		for _, r := range cfg.IgnoredRoles {
			mentions = append(mentions, discord.RoleID(r).Mention())
		}
		ignored = strings.Join(mentions, ", ")
	}

	delay := "None, the role is granted immediately"
	if cfg.VerifyDelay > 0 {
		delay = fmt.Sprintf("%v seconds", cfg.VerifyDelay)
	}

	channel := func(id discord.ChannelID) string {
		if id.IsValid() {
			return id.Mention()
		}
		return "Disabled"
	}

	e := discord.Embed{
		Title:  "Verification configuration",
		Color:  bcr.ColourPurple,
		Fields: []discord.EmbedField{
			{Name: "Verified role", Value: verifiedRole, Inline: true},
			{Name: "Delay", Value: delay, Inline: true},
			{Name: "Ignored roles", Value: ignored},
			{Name: "Confirmation channel", Value: channel(cfg.ConfirmChannel), Inline: true},
			{Name: "Log channel", Value: channel(cfg.LogChannel), Inline: true},
			{Name: "Welcome channel", Value: channel(cfg.WelcomeChannel), Inline: true},
			{Name: "Welcome message", Value: cfg.WelcomeMessage},
		},
		Footer: &discord.EmbedFooter{
			Text: fmt.Sprintf("Server ID: %v", cfg.ID),
		},
	}

	_, err = ctx.Send("", e)
	return err
}
