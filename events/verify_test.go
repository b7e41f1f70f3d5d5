package events

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/httputil"
	"github.com/starshine-sys/gatekeeper/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGainedRoles(t *testing.T) {
	tests := []struct {
		name string
		old  []discord.RoleID
		new  []discord.RoleID
		want []discord.RoleID
	}{
		{
			name: "no change",
			old:  []discord.RoleID{1, 2},
			new:  []discord.RoleID{1, 2},
			want: nil,
		},
		{
			name: "single gain",
			old:  []discord.RoleID{1},
			new:  []discord.RoleID{1, 5},
			want: []discord.RoleID{5},
		},
		{
			name: "removal is not a gain",
			old:  []discord.RoleID{1, 5},
			new:  []discord.RoleID{1},
			want: nil,
		},
		{
			name: "swap only reports the gain",
			old:  []discord.RoleID{1, 5},
			new:  []discord.RoleID{1, 7},
			want: []discord.RoleID{7},
		},
		{
			name: "multiple gains sorted ascending",
			old:  []discord.RoleID{1},
			new:  []discord.RoleID{9, 1, 3, 6},
			want: []discord.RoleID{3, 6, 9},
		},
		{
			name: "from empty",
			old:  nil,
			new:  []discord.RoleID{4},
			want: []discord.RoleID{4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gainedRoles(tt.old, tt.new))
		})
	}
}

func TestEligible(t *testing.T) {
	cfg := db.GuildConfig{
		ID:           123,
		VerifiedRole: 100,
		IgnoredRoles: []uint64{200, 201},
		VerifyDelay:  30,
	}

	tests := []struct {
		name     string
		cfg      db.GuildConfig
		gained   discord.RoleID
		oldRoles []discord.RoleID
		want     bool
	}{
		{
			name:   "normal role gain",
			cfg:    cfg,
			gained: 300,
			want:   true,
		},
		{
			name:   "verification disabled",
			cfg:    db.GuildConfig{ID: 123},
			gained: 300,
			want:   false,
		},
		{
			name:   "gained the verified role itself",
			cfg:    cfg,
			gained: 100,
			want:   false,
		},
		{
			name:   "gained an ignored role",
			cfg:    cfg,
			gained: 201,
			want:   false,
		},
		{
			name:     "already verified",
			cfg:      cfg,
			gained:   300,
			oldRoles: []discord.RoleID{100, 250},
			want:     false,
		},
		{
			name:     "other existing roles don't matter",
			cfg:      cfg,
			gained:   300,
			oldRoles: []discord.RoleID{250, 201},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eligible(tt.cfg, tt.gained, tt.oldRoles))
		})
	}
}

type grantRecorder struct {
	messages map[discord.ChannelID][]string
	added    []discord.RoleID
	slept    []time.Duration

	sendErr    error
	addRoleErr error
	role       discord.RoleID
	roleOK     bool
}

func newGrantRecorder(role discord.RoleID) *grantRecorder {
	return &grantRecorder{
		messages: map[discord.ChannelID][]string{},
		role:     role,
		roleOK:   true,
	}
}

func (g *grantRecorder) deps() grantDeps {
	return grantDeps{
		send: func(ch discord.ChannelID, content string) error {
			if g.sendErr != nil {
				return g.sendErr
			}
			g.messages[ch] = append(g.messages[ch], content)
			return nil
		},
		verifiedRole: func() (discord.RoleID, bool) {
			return g.role, g.roleOK
		},
		addRole: func(r discord.RoleID) error {
			if g.addRoleErr != nil {
				return g.addRoleErr
			}
			g.added = append(g.added, r)
			return nil
		},
		sleep: func(d time.Duration) {
			g.slept = append(g.slept, d)
		},
	}
}

func testMember() discord.Member {
	return discord.Member{
		User: discord.User{ID: 999, Username: "test"},
	}
}

func TestRunGrantImmediate(t *testing.T) {
	cfg := db.GuildConfig{
		ID:           123,
		VerifiedRole: 100,
	}

	rec := newGrantRecorder(cfg.VerifiedRole)

	granted, err := runGrant(testMember(), cfg, rec.deps())
	require.NoError(t, err)
	assert.True(t, granted)

	// no confirmation or log channel set, so no messages at all
	assert.Empty(t, rec.messages)
	assert.Empty(t, rec.slept)
	assert.Equal(t, []discord.RoleID{100}, rec.added)
}

func TestRunGrantDelayed(t *testing.T) {
	cfg := db.GuildConfig{
		ID:             123,
		VerifiedRole:   100,
		VerifyDelay:    30,
		ConfirmChannel: 500,
		LogChannel:     501,
	}

	rec := newGrantRecorder(cfg.VerifiedRole)

	granted, err := runGrant(testMember(), cfg, rec.deps())
	require.NoError(t, err)
	assert.True(t, granted)

	require.Len(t, rec.messages[500], 1)
	assert.Contains(t, rec.messages[500][0], "you have received a role.")
	assert.Contains(t, rec.messages[500][0], "30 seconds")

	assert.Equal(t, []time.Duration{30 * time.Second}, rec.slept)
	assert.Equal(t, []discord.RoleID{100}, rec.added)

	require.Len(t, rec.messages[501], 1)
	assert.Contains(t, rec.messages[501][0], "Added the verified role to")
}

func TestRunGrantNoDelayNotice(t *testing.T) {
	cfg := db.GuildConfig{
		ID:             123,
		VerifiedRole:   100,
		ConfirmChannel: 500,
	}

	rec := newGrantRecorder(cfg.VerifiedRole)

	granted, err := runGrant(testMember(), cfg, rec.deps())
	require.NoError(t, err)
	assert.True(t, granted)

	require.Len(t, rec.messages[500], 1)
	assert.NotContains(t, rec.messages[500][0], "seconds")
	assert.Empty(t, rec.slept)
}

func TestRunGrantBotMember(t *testing.T) {
	cfg := db.GuildConfig{
		ID:             123,
		VerifiedRole:   100,
		ConfirmChannel: 500,
	}

	m := testMember()
	m.User.Bot = true

	rec := newGrantRecorder(cfg.VerifiedRole)

	granted, err := runGrant(m, cfg, rec.deps())
	require.NoError(t, err)
	assert.True(t, granted)

	// bots get the role but no confirmation ping
	assert.Empty(t, rec.messages)
	assert.Equal(t, []discord.RoleID{100}, rec.added)
}

func TestRunGrantRoleGone(t *testing.T) {
	cfg := db.GuildConfig{
		ID:           123,
		VerifiedRole: 100,
		VerifyDelay:  30,
	}

	rec := newGrantRecorder(cfg.VerifiedRole)
	rec.roleOK = false

	granted, err := runGrant(testMember(), cfg, rec.deps())
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Empty(t, rec.added)
}

func TestRunGrantForbidden(t *testing.T) {
	cfg := db.GuildConfig{
		ID:           123,
		VerifiedRole: 100,
		LogChannel:   501,
	}

	rec := newGrantRecorder(cfg.VerifiedRole)
	rec.addRoleErr = &httputil.HTTPError{Status: http.StatusForbidden}

	granted, err := runGrant(testMember(), cfg, rec.deps())
	require.Error(t, err)
	assert.False(t, granted)

	var httpErr *httputil.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)

	// nothing reaches the log channel if the role add failed
	assert.Empty(t, rec.messages)
}

func TestRenderWelcome(t *testing.T) {
	u := discord.User{ID: 999}

	tests := []struct {
		template string
		want     string
	}{
		{"Welcome, {user}!", "Welcome, " + u.Mention() + "!"},
		{"Hello there", "Hello there"},
		{"{user} {user}", u.Mention() + " " + u.Mention()},
	}

	for _, tt := range tests {
		got := renderWelcome(tt.template, u)
		if !strings.Contains(got, tt.want) {
			t.Errorf("renderWelcome(%q) = %q, want %q", tt.template, got, tt.want)
		}
	}
}
