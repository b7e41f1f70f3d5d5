package events

import (
	"fmt"
	"net/http"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/utils/httputil"
	"github.com/starshine-sys/gatekeeper/common"
	"github.com/starshine-sys/gatekeeper/db"
)

const (
	roleReceivedNotice = "%v you have received a role."
	delayNotice        = roleReceivedNotice + "\nYou will gain access to the rest of the server in %v seconds."
	grantedLogNotice   = "Added the verified role to %v."

	grantReason = "Gatekeeper verification."
)

func (bot *Bot) guildMemberUpdate(ev *gateway.GuildMemberUpdateEvent) {
	m, err := bot.Member(ev.GuildID, ev.User.ID)
	if err != nil {
		common.Log.Errorf("Error getting member: %v", err)
		return
	}

	// update cache
	// copy member struct
	up := m
	up.RoleIDs = append([]discord.RoleID(nil), m.RoleIDs...)
	ev.UpdateMember(&up)

	ctx, cancel := getctx()
	defer cancel()

	if err := bot.Cabinet.SetMember(ctx, ev.GuildID, up); err != nil {
		common.Log.Errorf("Error updating member in cache: %v", err)
	}

	gained := gainedRoles(m.RoleIDs, ev.RoleIDs)
	if len(gained) == 0 {
		return
	}

	cfg, err := bot.DB.Guild(ev.GuildID)
	if err != nil {
		bot.DB.Report(db.ErrorContext{
			Event:   "guildMemberUpdate",
			GuildID: ev.GuildID,
		}, err)
		return
	}

	// if several roles arrive in a single update, only the lowest ID is considered
	if !eligible(cfg, gained[0], m.RoleIDs) {
		return
	}

	key := memberCacheKey{ev.GuildID, ev.User.ID}
	if !bot.verifying.Add(key) {
		// a grant for this member is already in flight
		common.Log.Debugf("Skipping duplicate grant for %v in %v", ev.User.ID, ev.GuildID)
		return
	}

	go bot.grantVerifiedRole(ev.GuildID, up, cfg)
}

// gainedRoles returns the roles present in new but not in old, sorted ascending by ID.
// Removed roles are ignored.
func gainedRoles(old, new []discord.RoleID) (gained []discord.RoleID) {
	for _, r := range new {
		if !roleIn(old, r) {
			gained = append(gained, r)
		}
	}

	for i := 1; i < len(gained); i++ {
		for j := i; j > 0 && gained[j] < gained[j-1]; j-- {
			gained[j], gained[j-1] = gained[j-1], gained[j]
		}
	}
	return gained
}

func roleIn(s []discord.RoleID, id discord.RoleID) (exists bool) {
	for _, r := range s {
		if id == r {
			return true
		}
	}
	return false
}

// eligible reports whether a member who just gained the given role should receive the
// verified role. oldRoles is the member's role set from *before* the update.
func eligible(cfg db.GuildConfig, gained discord.RoleID, oldRoles []discord.RoleID) bool {
	if !cfg.VerificationEnabled() {
		return false
	}
	// gaining the verified role itself never triggers a grant,
	// even if the role is also (mis)configured as ignored
	if gained == cfg.VerifiedRole {
		return false
	}
	if cfg.RoleIgnored(gained) {
		return false
	}
	// already verified
	if roleIn(oldRoles, cfg.VerifiedRole) {
		return false
	}
	return true
}

// grantDeps are the side effects of a single grant, split out so the flow can be tested.
type grantDeps struct {
	send func(ch discord.ChannelID, content string) error
	// verifiedRole re-resolves the verified role after the delay; the second return is
	// false if verification was disabled, or the role deleted, while we were waiting.
	verifiedRole func() (discord.RoleID, bool)
	addRole      func(r discord.RoleID) error
	sleep        func(d time.Duration)
}

// runGrant performs a single verification grant: confirmation message, delay, role add,
// log message. The configuration snapshot cfg decides the delay and the channels; only
// the role to grant is re-read after the wait.
func runGrant(m discord.Member, cfg db.GuildConfig, d grantDeps) (granted bool, err error) {
	if cfg.ConfirmChannel.IsValid() && !m.User.Bot {
		var msg string
		if cfg.VerifyDelay > 0 {
			msg = fmt.Sprintf(delayNotice, m.User.Mention(), cfg.VerifyDelay)
		} else {
			msg = fmt.Sprintf(roleReceivedNotice, m.User.Mention())
		}

		if err := d.send(cfg.ConfirmChannel, msg); err != nil {
			return false, errors.Wrap(err, "sending confirmation message")
		}
	}

	if delay := cfg.DelayDuration(); delay > 0 {
		d.sleep(delay)
	}

	role, ok := d.verifiedRole()
	if !ok {
		return false, nil
	}

	if err := d.addRole(role); err != nil {
		return false, errors.Wrap(err, "adding verified role")
	}

	if cfg.LogChannel.IsValid() {
		if err := d.send(cfg.LogChannel, fmt.Sprintf(grantedLogNotice, m.User.Mention())); err != nil {
			return true, errors.Wrap(err, "sending log message")
		}
	}

	return true, nil
}

func (bot *Bot) grantVerifiedRole(guildID discord.GuildID, m discord.Member, cfg db.GuildConfig) {
	defer bot.verifying.Remove(memberCacheKey{guildID, m.User.ID})

	s := bot.State(guildID)

	granted, err := runGrant(m, cfg, grantDeps{
		send: func(ch discord.ChannelID, content string) error {
			_, err := s.SendMessage(ch, content)
			return err
		},
		verifiedRole: bot.resolveVerifiedRole(guildID),
		addRole: func(r discord.RoleID) error {
			return s.AddRole(guildID, m.User.ID, r, api.AddRoleData{
				AuditLogReason: grantReason,
			})
		},
		sleep: time.Sleep,
	})

	if granted {
		bot.DB.Stats.IncGrant()
		common.Log.Debugf("Added the verified role to %v in %v", m.User.ID, guildID)
	}

	if err == nil {
		return
	}

	var httpErr *httputil.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status == http.StatusForbidden {
		bot.DB.Report(db.ErrorContext{
			Event:   "verifiedRoleGrant",
			GuildID: guildID,
			UserID:  m.User.ID,
		}, errors.Errorf("cannot assign the verified role without the Manage Roles permission (server ID: %v)", guildID))
		return
	}

	bot.DB.Report(db.ErrorContext{
		Event:   "verifiedRoleGrant",
		GuildID: guildID,
		UserID:  m.User.ID,
	}, err)
}

// resolveVerifiedRole re-reads the guild's verified role and checks it still exists.
func (bot *Bot) resolveVerifiedRole(guildID discord.GuildID) func() (discord.RoleID, bool) {
	return func() (discord.RoleID, bool) {
		cfg, err := bot.DB.Guild(guildID)
		if err != nil || !cfg.VerificationEnabled() {
			return 0, false
		}

		ctx, cancel := getctx()
		defer cancel()

		if _, err := bot.Cabinet.Role(ctx, guildID, cfg.VerifiedRole); err != nil {
			// not cached, fall back to the API
			if _, err := bot.State(guildID).Role(guildID, cfg.VerifiedRole); err != nil {
				common.Log.Debugf("Verified role %v in %v no longer exists, not granting", cfg.VerifiedRole, guildID)
				return 0, false
			}
		}

		return cfg.VerifiedRole, true
	}
}
