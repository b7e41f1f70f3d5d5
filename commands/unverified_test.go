package commands

import (
	"fmt"
	"testing"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeMembers(n int, verified discord.RoleID) []discord.Member {
	members := make([]discord.Member, 0, n)
	for i := 0; i < n; i++ {
		m := discord.Member{
			User: discord.User{ID: discord.UserID(1000 + i)},
			// join times in reverse order, so sorting is actually exercised
			Joined: discord.Timestamp(time.Date(2021, 1, n-i, 0, 0, 0, 0, time.UTC)),
		}
		// every third member is already verified
		if i%3 == 0 && verified.IsValid() {
			m.RoleIDs = []discord.RoleID{verified}
		}
		members = append(members, m)
	}
	return members
}

func TestUnverifiedMembers(t *testing.T) {
	members := makeMembers(9, 100)

	out := unverifiedMembers(members, 100)
	require.Len(t, out, 6)

	for _, m := range out {
		assert.NotContains(t, m.RoleIDs, discord.RoleID(100))
	}

	for i := 1; i < len(out); i++ {
		assert.False(t, out[i].Joined.Time().Before(out[i-1].Joined.Time()),
			"members should be sorted by join time, oldest first")
	}
}

func TestUnverifiedEmbeds(t *testing.T) {
	members := makeMembers(45, 0)

	embeds := unverifiedEmbeds(members, unverifiedPageSize)
	require.Len(t, embeds, 3)

	for i, e := range embeds {
		assert.Equal(t, "Members without the verification role", e.Title)
		assert.Equal(t, "Total unverified members: 45", e.Description)
		require.NotNil(t, e.Footer)
		assert.Equal(t, fmt.Sprintf("Page %v of 3.", i+1), e.Footer.Text)
		require.Len(t, e.Fields, 1)
	}

	assert.Equal(t, "1-20", embeds[0].Fields[0].Name)
	assert.Equal(t, "21-40", embeds[1].Fields[0].Name)
	assert.Equal(t, "41-45", embeds[2].Fields[0].Name)

	// the last page only lists the last five members
	last := embeds[2].Fields[0].Value
	assert.Contains(t, last, "`41` ")
	assert.Contains(t, last, "`45` ")
	assert.NotContains(t, last, "`40` ")
}

func TestUnverifiedEmbedsExactPage(t *testing.T) {
	members := makeMembers(40, 0)

	embeds := unverifiedEmbeds(members, unverifiedPageSize)
	require.Len(t, embeds, 2)
	assert.Equal(t, "Page 2 of 2.", embeds[1].Footer.Text)
	assert.Equal(t, "21-40", embeds[1].Fields[0].Name)
}
