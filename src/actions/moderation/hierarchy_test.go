package moderation

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router/routertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHierarchy() Hierarchy {
	return NewHierarchy(&discordgo.Guild{
		OwnerID: "1",
		Roles: []*discordgo.Role{
			{ID: "low", Position: 1},
			{ID: "mid", Position: 5},
			{ID: "high", Position: 9},
		},
	})
}

func TestHighest(t *testing.T) {
	h := testHierarchy()
	assert.Equal(t, 0, h.Highest(routertest.Member("5", 0)))
	assert.Equal(t, 9, h.Highest(routertest.Member("5", 0, "low", "high", "mid")))
	assert.Greater(t, h.Highest(routertest.Member("1", 0)), 9)
	assert.Equal(t, 0, h.Highest(nil))
}

func TestCheckTarget(t *testing.T) {
	h := testHierarchy()
	actor := routertest.Member("10", 0, "mid")
	bot := routertest.Member("100", 0, "high")

	tests := []struct {
		name   string
		target *discordgo.Member
		bot    *discordgo.Member
		title  string
	}{
		{"self", routertest.Member("10", 0), bot, "Invalid Target"},
		{"owner", routertest.Member("1", 0), bot, "Invalid Target"},
		{"bot", routertest.Member("100", 0), bot, "Invalid Target"},
		{"equal", routertest.Member("20", 0, "mid"), bot, "Permission Denied"},
		{"above bot", routertest.Member("20", 0, "low"), routertest.Member("100", 0, "low"), "Bot Permission Error"},
		{"ok", routertest.Member("20", 0, "low"), bot, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.CheckTarget("kick", actor, tt.target, tt.bot)
			if tt.title == "" {
				assert.NoError(t, err)
				return
			}
			var ue *router.UserError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.title, ue.Title)
		})
	}
}

func TestCheckRole(t *testing.T) {
	h := testHierarchy()
	actor := routertest.Member("10", 0, "mid")
	assert.NoError(t, h.CheckRole("low", actor, routertest.Member("100", 0, "high")))
	assert.Error(t, h.CheckRole("mid", actor, routertest.Member("100", 0, "high")))
	assert.Error(t, h.CheckRole("low", actor, routertest.Member("100", 0, "low")))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 minute(s)", FormatDuration(45))
	assert.Equal(t, "2 hour(s)", FormatDuration(150))
	assert.Equal(t, "3 day(s)", FormatDuration(3*1440+10))
}
