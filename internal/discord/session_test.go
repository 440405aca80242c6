package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	guild := &discordgo.Guild{
		ID: "1",
		Roles: []*discordgo.Role{
			{ID: "10", Name: "F7 Clan member"},
			{ID: "11", Name: "BOT"},
		},
		Presences: []*discordgo.Presence{
			{User: &discordgo.User{ID: "100"}, Status: discordgo.StatusOnline},
			{User: &discordgo.User{ID: "101"}, Status: discordgo.StatusIdle},
		},
		Members: []*discordgo.Member{
			{User: &discordgo.User{ID: "100", Username: "alice"}, Roles: []string{"10"}},
			{User: &discordgo.User{ID: "101", Username: "robot", Bot: true}, Roles: []string{"11", "10"}},
			{User: &discordgo.User{ID: "102", Username: "carol"}, Nick: "caz", Roles: []string{"99"}},
			{Nick: "no user"},
		},
	}

	members := snapshot(guild)
	require.Len(t, members, 3)

	assert.Equal(t, discordgo.StatusOnline, members[0].Status)
	assert.Equal(t, []string{"F7 Clan member"}, members[0].Roles)

	assert.True(t, members[1].HasRole("BOT"))
	assert.True(t, members[1].HasRole("F7 Clan member"))

	// No presence means offline, unknown roles are dropped
	assert.Equal(t, discordgo.StatusOffline, members[2].Status)
	assert.False(t, members[2].Online())
	assert.Empty(t, members[2].Roles)
	assert.Equal(t, "caz", members[2].Nick)
}

func TestMemberOnline(t *testing.T) {
	for status, online := range map[discordgo.Status]bool{
		discordgo.StatusOnline:       true,
		discordgo.StatusIdle:         true,
		discordgo.StatusDoNotDisturb: true,
		discordgo.StatusOffline:      false,
		"":                           false,
	} {
		assert.Equal(t, online, Member{Status: status}.Online(), "status %q", status)
	}
}

func TestMemberHasRoleIsExact(t *testing.T) {
	member := Member{Roles: []string{"F7 Clan member"}}
	assert.True(t, member.HasRole("F7 Clan member"))
	assert.False(t, member.HasRole("f7 clan member"))
	assert.False(t, member.HasRole("F7 Clan"))
}

func TestDenySendKeepsOtherOverwrites(t *testing.T) {
	existing := []*discordgo.PermissionOverwrite{
		{ID: "mods", Type: discordgo.PermissionOverwriteTypeRole, Allow: discordgo.PermissionSendMessages | discordgo.PermissionManageMessages},
		{ID: "alice", Type: discordgo.PermissionOverwriteTypeMember, Deny: discordgo.PermissionViewChannel},
	}

	overwrites := denySend(existing, "guild")
	require.Len(t, overwrites, 3)
	assert.Equal(t, *existing[0], *overwrites[0])
	assert.Equal(t, *existing[1], *overwrites[1])
	assert.Equal(t, discordgo.PermissionOverwrite{ID: "guild", Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionSendMessages}, *overwrites[2])
}

func TestDenySendUpdatesExistingRoleOverwrite(t *testing.T) {
	existing := []*discordgo.PermissionOverwrite{
		{ID: "guild", Type: discordgo.PermissionOverwriteTypeRole, Allow: discordgo.PermissionSendMessages | discordgo.PermissionAddReactions, Deny: discordgo.PermissionAttachFiles},
	}

	overwrites := denySend(existing, "guild")
	require.Len(t, overwrites, 1)
	assert.Equal(t, int64(discordgo.PermissionAddReactions), overwrites[0].Allow)
	assert.Equal(t, int64(discordgo.PermissionAttachFiles|discordgo.PermissionSendMessages), overwrites[0].Deny)

	// The input is left untouched
	assert.Equal(t, int64(discordgo.PermissionSendMessages|discordgo.PermissionAddReactions), existing[0].Allow)
}
