package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/stretchr/testify/assert"
)

func TestResolveLevel(t *testing.T) {
	guild := &data.Guild{Roles: map[string]string{
		data.RoleStaff:   "r-staff",
		data.RoleCoach:   "r-coach",
		data.RoleManager: "r-manager",
		data.RoleAnchor:  "r-anchor",
	}}
	member := func(perms int64, roles ...string) *discordgo.Member {
		return &discordgo.Member{Roles: roles, Permissions: perms}
	}

	assert.Equal(t, LevelOwner, ResolveLevel("owner", "owner", nil, nil))
	assert.Equal(t, LevelAdmin, ResolveLevel("u", "owner", member(discordgo.PermissionAdministrator), guild))
	assert.Equal(t, LevelManager, ResolveLevel("u", "owner", member(0, "r-staff", "r-manager"), guild))
	assert.Equal(t, LevelCoach, ResolveLevel("u", "owner", member(0, "r-anchor"), guild))
	assert.Equal(t, LevelStaff, ResolveLevel("u", "owner", member(0, "r-staff"), guild))
	assert.Equal(t, LevelEveryone, ResolveLevel("u", "owner", member(0, "other"), guild))
	assert.Equal(t, LevelEveryone, ResolveLevel("u", "", member(0, "r-manager"), nil))
}

func TestLevelOrdering(t *testing.T) {
	assert.True(t, LevelEveryone < LevelStaff)
	assert.True(t, LevelStaff < LevelCoach)
	assert.True(t, LevelCoach < LevelManager)
	assert.True(t, LevelManager < LevelAdmin)
	assert.True(t, LevelAdmin < LevelOwner)
	assert.Equal(t, "Manager", LevelManager.String())
}
