package commands

import (
	"net/http"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/httputil"
	"github.com/starshine-sys/gatekeeper/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGuildID discord.GuildID = 123

func testCfg() db.GuildConfig {
	return db.GuildConfig{
		ID:           testGuildID,
		VerifiedRole: 100,
		IgnoredRoles: []uint64{200},
	}
}

func TestBulkEligible(t *testing.T) {
	cfg := testCfg()

	tests := []struct {
		name  string
		roles []discord.RoleID
		want  bool
	}{
		{"no roles", nil, false},
		{"only the everyone role", []discord.RoleID{discord.RoleID(testGuildID)}, false},
		{"only an ignored role", []discord.RoleID{200}, false},
		{"a qualifying role", []discord.RoleID{300}, true},
		{"ignored plus qualifying", []discord.RoleID{200, 300}, true},
		{"already verified", []discord.RoleID{100, 300}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := discord.Member{User: discord.User{ID: 999}, RoleIDs: tt.roles}
			assert.Equal(t, tt.want, bulkEligible(cfg, testGuildID, m))
		})
	}
}

func bulkMembers() []discord.Member {
	return []discord.Member{
		{User: discord.User{ID: 1}, RoleIDs: []discord.RoleID{300}},
		{User: discord.User{ID: 2}, RoleIDs: []discord.RoleID{100, 300}},
		{User: discord.User{ID: 3}, RoleIDs: []discord.RoleID{200}},
		{User: discord.User{ID: 4}, RoleIDs: []discord.RoleID{301}},
	}
}

func TestRunBulkVerify(t *testing.T) {
	var granted []discord.UserID

	res, err := runBulkVerify(testGuildID, bulkMembers(),
		func() (db.GuildConfig, error) { return testCfg(), nil },
		func(m discord.Member, role discord.RoleID) error {
			assert.Equal(t, discord.RoleID(100), role)
			granted = append(granted, m.User.ID)
			return nil
		}, nil, false)
	require.NoError(t, err)

	assert.Equal(t, 4, res.total)
	assert.Equal(t, 2, res.granted)
	assert.Equal(t, 1, res.alreadyVerified)
	assert.Equal(t, 1, res.ineligible)
	assert.Zero(t, res.forbidden)
	assert.Zero(t, res.failed)
	assert.Equal(t, []discord.UserID{1, 4}, granted)
}

func TestRunBulkVerifyIdempotent(t *testing.T) {
	members := bulkMembers()

	// pretend the first run succeeded
	for i, m := range members {
		if bulkEligible(testCfg(), testGuildID, m) {
			members[i].RoleIDs = append(members[i].RoleIDs, 100)
		}
	}

	res, err := runBulkVerify(testGuildID, members,
		func() (db.GuildConfig, error) { return testCfg(), nil },
		func(m discord.Member, role discord.RoleID) error {
			t.Errorf("grant called for %v on a second run", m.User.ID)
			return nil
		}, nil, false)
	require.NoError(t, err)
	assert.Zero(t, res.granted)
	assert.Equal(t, 3, res.alreadyVerified)
	assert.Equal(t, 1, res.ineligible)
}

func TestRunBulkVerifyDryRun(t *testing.T) {
	res, err := runBulkVerify(testGuildID, bulkMembers(),
		func() (db.GuildConfig, error) { return testCfg(), nil },
		func(m discord.Member, role discord.RoleID) error {
			t.Error("grant called during a dry run")
			return nil
		}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.granted)
}

func TestRunBulkVerifyForbidden(t *testing.T) {
	res, err := runBulkVerify(testGuildID, bulkMembers(),
		func() (db.GuildConfig, error) { return testCfg(), nil },
		func(m discord.Member, role discord.RoleID) error {
			return &httputil.HTTPError{Status: http.StatusForbidden}
		}, nil, false)
	require.NoError(t, err)

	// failures don't stop the run
	assert.Zero(t, res.granted)
	assert.Equal(t, 2, res.forbidden)
	assert.Zero(t, res.failed)
}

func TestRunBulkVerifyDisabledMidRun(t *testing.T) {
	calls := 0

	_, err := runBulkVerify(testGuildID, bulkMembers(),
		func() (db.GuildConfig, error) {
			calls++
			if calls > 2 {
				return db.GuildConfig{ID: testGuildID}, nil
			}
			return testCfg(), nil
		},
		func(m discord.Member, role discord.RoleID) error { return nil },
		nil, false)
	require.Error(t, err)
}

func TestRunBulkVerifyProgress(t *testing.T) {
	members := make([]discord.Member, 45)
	for i := range members {
		members[i] = discord.Member{
			User:    discord.User{ID: discord.UserID(1000 + i)},
			RoleIDs: []discord.RoleID{300},
		}
	}

	var updates []int
	var reported []discord.UserID
	res, err := runBulkVerify(testGuildID, members,
		func() (db.GuildConfig, error) { return testCfg(), nil },
		func(m discord.Member, role discord.RoleID) error { return nil },
		func(done int, current discord.User) {
			updates = append(updates, done)
			reported = append(reported, current.ID)
		}, false)
	require.NoError(t, err)

	assert.Equal(t, 45, res.granted)
	assert.Equal(t, []int{20, 40}, updates)
	// each update names the member that was just handled, not the next one
	assert.Equal(t, []discord.UserID{1019, 1039}, reported)
}

func TestRunBulkVerifyProgressExactMultiple(t *testing.T) {
	members := make([]discord.Member, 40)
	for i := range members {
		members[i] = discord.Member{
			User:    discord.User{ID: discord.UserID(1000 + i)},
			RoleIDs: []discord.RoleID{300},
		}
	}

	var updates []int
	_, err := runBulkVerify(testGuildID, members,
		func() (db.GuildConfig, error) { return testCfg(), nil },
		func(m discord.Member, role discord.RoleID) error { return nil },
		func(done int, current discord.User) {
			updates = append(updates, done)
		}, false)
	require.NoError(t, err)

	// the last batch still gets an update when the total divides evenly
	assert.Equal(t, []int{20, 40}, updates)
}
