package db

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/Masterminds/squirrel"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgx/v4"
	"github.com/starshine-sys/gatekeeper/common"
)

// DefaultVerifyDelay is the delay used for new guilds, in seconds.
const DefaultVerifyDelay = 30

// DefaultWelcomeMessage is the welcome message used for new guilds.
// {user} is replaced with the joining member's mention.
const DefaultWelcomeMessage = "Welcome, {user}!"

// GuildConfig is a guild's verification and welcome configuration.
// A zero ID column (role or channel) means that part is disabled.
type GuildConfig struct {
	ID discord.GuildID

	VerifiedRole discord.RoleID
	IgnoredRoles []uint64
	VerifyDelay  int

	ConfirmChannel discord.ChannelID
	LogChannel     discord.ChannelID
	WelcomeChannel discord.ChannelID
	WelcomeMessage string
}

// VerificationEnabled returns true if a verified role is set.
func (cfg GuildConfig) VerificationEnabled() bool {
	return cfg.VerifiedRole.IsValid()
}

// DelayDuration returns the grant delay as a duration. Zero or negative delays disable the delay.
func (cfg GuildConfig) DelayDuration() time.Duration {
	if cfg.VerifyDelay <= 0 {
		return 0
	}
	return time.Duration(cfg.VerifyDelay) * time.Second
}

// RoleIgnored returns true if the given role is in the guild's ignored role list.
func (cfg GuildConfig) RoleIgnored(id discord.RoleID) bool {
	for _, r := range cfg.IgnoredRoles {
		if discord.RoleID(r) == id {
			return true
		}
	}
	return false
}

// defaultGuildConfig returns the configuration a freshly created guild row has.
func defaultGuildConfig(id discord.GuildID) GuildConfig {
	return GuildConfig{
		ID:             id,
		IgnoredRoles:   []uint64{},
		VerifyDelay:    DefaultVerifyDelay,
		WelcomeMessage: DefaultWelcomeMessage,
	}
}

// Guild returns the given guild's configuration, creating the row if it doesn't exist yet.
// Reads are cached for a minute; every write invalidates the cache.
func (db *DB) Guild(id discord.GuildID) (cfg GuildConfig, err error) {
	if v, err := db.configCache.Get(id.String()); err == nil {
		return v.(GuildConfig), nil
	}

	db.Stats.IncQuery()

	err = pgxscan.Get(context.Background(), db, &cfg, "select * from guilds where id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, err := db.CreateGuild(id); err != nil {
				return cfg, err
			}
			cfg = defaultGuildConfig(id)
			_ = db.configCache.Set(id.String(), cfg)
			return cfg, nil
		}
		return cfg, errors.Wrap(err, "getting guild config")
	}

	_ = db.configCache.Set(id.String(), cfg)
	return cfg, nil
}

// CreateGuild creates a row for the given guild with default settings.
func (db *DB) CreateGuild(id discord.GuildID) (alreadyExists bool, err error) {
	sql, args, err := sq.Insert("guilds").
		Columns("id").
		Values(id).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "building sql")
	}

	db.Stats.IncQuery()

	ct, err := db.Exec(context.Background(), sql, args...)
	if err != nil {
		return false, errors.Wrap(err, "executing query")
	}

	return ct.RowsAffected() == 0, nil
}

// CreateServerIfNotExists is added as a guild create handler.
func (db *DB) CreateServerIfNotExists(g *gateway.GuildCreateEvent) {
	_, err := db.CreateGuild(g.ID)
	if err != nil {
		common.Log.Errorf("Error creating guild %v: %v", g.ID, err)
	}
}

func (db *DB) setGuildColumn(id discord.GuildID, column string, value interface{}) error {
	sql, args, err := sq.Update("guilds").Set(column, value).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building sql")
	}

	db.Stats.IncQuery()

	_, err = db.Exec(context.Background(), sql, args...)
	if err != nil {
		return errors.Wrap(err, "executing query")
	}

	_ = db.configCache.Remove(id.String())
	return nil
}

// SetVerifiedRole sets the verified role. An invalid role ID disables verification.
func (db *DB) SetVerifiedRole(id discord.GuildID, role discord.RoleID) error {
	return db.setGuildColumn(id, "verified_role", role)
}

// SetIgnoredRoles replaces the guild's ignored role list. An empty list clears it.
func (db *DB) SetIgnoredRoles(id discord.GuildID, roles []uint64) error {
	if roles == nil {
		roles = []uint64{}
	}
	return db.setGuildColumn(id, "ignored_roles", roles)
}

// SetVerifyDelay sets the grant delay in seconds. Zero or negative disables the delay.
func (db *DB) SetVerifyDelay(id discord.GuildID, seconds int) error {
	if seconds < 0 {
		seconds = 0
	}
	return db.setGuildColumn(id, "verify_delay", seconds)
}

// SetConfirmChannel sets (or, with an invalid ID, clears) the confirmation channel.
func (db *DB) SetConfirmChannel(id discord.GuildID, ch discord.ChannelID) error {
	return db.setGuildColumn(id, "confirm_channel", ch)
}

// SetLogChannel sets (or, with an invalid ID, clears) the log channel.
func (db *DB) SetLogChannel(id discord.GuildID, ch discord.ChannelID) error {
	return db.setGuildColumn(id, "log_channel", ch)
}

// SetWelcomeChannel sets (or, with an invalid ID, clears) the welcome channel.
func (db *DB) SetWelcomeChannel(id discord.GuildID, ch discord.ChannelID) error {
	return db.setGuildColumn(id, "welcome_channel", ch)
}

// SetWelcomeMessage sets the welcome message template. An empty string disables welcomes.
func (db *DB) SetWelcomeMessage(id discord.GuildID, msg string) error {
	return db.setGuildColumn(id, "welcome_message", msg)
}
