package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultGuildConfig(t *testing.T) {
	cfg := defaultGuildConfig(123)

	assert.False(t, cfg.VerificationEnabled())
	assert.Equal(t, DefaultVerifyDelay, cfg.VerifyDelay)
	assert.Equal(t, DefaultWelcomeMessage, cfg.WelcomeMessage)
	assert.Empty(t, cfg.IgnoredRoles)
	assert.False(t, cfg.ConfirmChannel.IsValid())
	assert.False(t, cfg.LogChannel.IsValid())
	assert.False(t, cfg.WelcomeChannel.IsValid())
}

func TestDelayDuration(t *testing.T) {
	cfg := GuildConfig{VerifyDelay: 30}
	assert.Equal(t, 30*time.Second, cfg.DelayDuration())

	cfg.VerifyDelay = 0
	assert.Zero(t, cfg.DelayDuration())

	cfg.VerifyDelay = -5
	assert.Zero(t, cfg.DelayDuration())
}

func TestRoleIgnored(t *testing.T) {
	cfg := GuildConfig{IgnoredRoles: []uint64{200, 201}}

	assert.True(t, cfg.RoleIgnored(200))
	assert.True(t, cfg.RoleIgnored(201))
	assert.False(t, cfg.RoleIgnored(100))

	assert.False(t, GuildConfig{}.RoleIgnored(200))
}

func TestVerificationEnabled(t *testing.T) {
	assert.False(t, GuildConfig{}.VerificationEnabled())
	assert.True(t, GuildConfig{VerifiedRole: 100}.VerificationEnabled())
}
