package moderation

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/actions/actiontest"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router/routertest"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	staffRole = "760000000000000000"
	lowRole   = "761000000000000000"
	midRole   = "765000000000000000"
	highRole  = "769000000000000000"
	botID     = "100000000000000000"
)

func setup(t *testing.T) *actiontest.Env {
	t.Helper()
	env := actiontest.New(Register)
	require.NoError(t, env.Store.UpsertGuild(context.Background(), routertest.GuildID, "Test Guild"))
	require.NoError(t, env.Store.SetGuildRole(context.Background(), routertest.GuildID, data.RoleStaff, staffRole))
	routes(env)
	return env
}

// routes serves the guild, the bot member and member 42 (holding lowRole).
func routes(env *actiontest.Env) {
	env.Rec.On(http.MethodGet, "/guilds/"+routertest.GuildID, http.StatusOK, fmt.Sprintf(
		`{"id":%q,"name":"Test Guild","owner_id":"1","roles":[{"id":%q,"position":1},{"id":%q,"position":5},{"id":%q,"position":9},{"id":%q,"position":1}]}`,
		routertest.GuildID, lowRole, midRole, highRole, staffRole))
	env.Rec.On(http.MethodGet, "/members/"+botID, http.StatusOK, fmt.Sprintf(`{"user":{"id":%q},"roles":[%q]}`, botID, highRole))
	env.Rec.On(http.MethodGet, "/members/42", http.StatusOK, fmt.Sprintf(`{"user":{"id":"42","username":"target"},"roles":[%q]}`, lowRole))
	env.Rec.On(http.MethodGet, "/members/43", http.StatusNotFound, `{"code":10007,"message":"Unknown Member"}`)
}

func staff() *discordgo.Member { return actiontest.WithRoles("10", staffRole, midRole) }

func reset(env *actiontest.Env) {
	env.Reset()
	routes(env)
}

func TestTimeout(t *testing.T) {
	env := setup(t)
	env.Run(routertest.Command(discord.CommandTimeout, staff(),
		routertest.User("user", actiontest.Player("42")),
		routertest.Int("minutes", 90),
		routertest.Str("reason", "spam")))

	patches := env.Rec.Find(http.MethodPatch, "/guilds/"+routertest.GuildID+"/members/42")
	require.Len(t, patches, 1)
	var body struct {
		Until string `json:"communication_disabled_until"`
	}
	require.NoError(t, patches[0].Decode(&body))
	assert.NotEmpty(t, body.Until)
	assert.Len(t, env.Rec.Find(http.MethodPost, "/users/@me/channels"), 1)

	e := env.Rec.LastEmbed()
	require.NotNil(t, e)
	assert.Equal(t, "⏱️ User Timed Out", e.Title)
	assert.Equal(t, "1 hour(s)", e.Fields[1].Value)
}

func TestTimeoutHierarchy(t *testing.T) {
	env := setup(t)
	env.Run(routertest.Command(discord.CommandTimeout, actiontest.WithRoles("10", staffRole),
		routertest.User("user", actiontest.Player("42")), routertest.Int("minutes", 5)))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Permission Denied")
	assert.Empty(t, env.Rec.Find(http.MethodPatch, "/members/42"))

	reset(env)
	env.Run(routertest.Command(discord.CommandTimeout, staff(),
		routertest.User("user", actiontest.Player("43")), routertest.Int("minutes", 5)))
	assert.Contains(t, env.Rec.LastEmbed().Title, "User Not Found")

	reset(env)
	env.Run(routertest.Command(discord.CommandTimeout, actiontest.Player("11"),
		routertest.User("user", actiontest.Player("42")), routertest.Int("minutes", 5)))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Permission Denied")
	assert.Empty(t, env.Rec.Find(http.MethodGet, "/guilds/"))
}

func TestKickAndBan(t *testing.T) {
	env := setup(t)
	env.Run(routertest.Command(discord.CommandAdminKick, staff(), routertest.User("user", actiontest.Player("42"))))
	assert.Len(t, env.Rec.Find(http.MethodDelete, "/guilds/"+routertest.GuildID+"/members/42"), 1)
	assert.Equal(t, "👢 User Kicked", env.Rec.LastEmbed().Title)

	reset(env)
	env.Run(routertest.Command(discord.CommandBan, staff(),
		routertest.User("user", actiontest.Player("43")), routertest.Int("delete_days", 2)))
	assert.Len(t, env.Rec.Find(http.MethodPut, "/guilds/"+routertest.GuildID+"/bans/43"), 1)
	assert.Empty(t, env.Rec.Find(http.MethodPost, "/users/@me/channels"))
	e := env.Rec.LastEmbed()
	require.NotNil(t, e)
	assert.Equal(t, "2 day(s)", e.Fields[3].Value)
}

func TestRoleAndUnrole(t *testing.T) {
	env := setup(t)
	env.Run(routertest.Command(discord.CommandRole, staff(),
		routertest.User("user", actiontest.Player("42")), routertest.Role("role", highRole)))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Permission Denied")

	reset(env)
	env.Run(routertest.Command(discord.CommandRole, staff(),
		routertest.User("user", actiontest.Player("42")), routertest.Role("role", lowRole)))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Already Has Role")

	reset(env)
	env.Run(routertest.Command(discord.CommandUnrole, staff(),
		routertest.User("user", actiontest.Player("42")), routertest.Role("role", lowRole)))
	assert.Len(t, env.Rec.Find(http.MethodDelete, "/members/42/roles/"+lowRole), 1)
	assert.Contains(t, env.Rec.LastEmbed().Title, "Role Removed")

	reset(env)
	env.Rec.On(http.MethodGet, "/members/42", http.StatusOK, `{"user":{"id":"42"},"roles":[]}`)
	env.Run(routertest.Command(discord.CommandRole, staff(),
		routertest.User("user", actiontest.Player("42")), routertest.Role("role", lowRole)))
	assert.Len(t, env.Rec.Find(http.MethodPut, "/members/42/roles/"+lowRole), 1)
	assert.Contains(t, env.Rec.LastEmbed().Title, "Role Added")
}

func TestMuteVoiceChannel(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.Session.State.GuildAdd(&discordgo.Guild{
		ID: routertest.GuildID,
		VoiceStates: []*discordgo.VoiceState{
			{GuildID: routertest.GuildID, UserID: "10", ChannelID: "vc1"},
			{GuildID: routertest.GuildID, UserID: "42", ChannelID: "vc1"},
			{GuildID: routertest.GuildID, UserID: "44", ChannelID: "vc1", Mute: true},
			{GuildID: routertest.GuildID, UserID: "45", ChannelID: "vc2"},
			{GuildID: routertest.GuildID, UserID: botID, ChannelID: "vc1"},
		},
	}))

	env.Run(routertest.Command(discord.CommandMuteVC, staff()))
	assert.Len(t, env.Rec.Find(http.MethodPatch, "/members/10"), 1)
	assert.Len(t, env.Rec.Find(http.MethodPatch, "/members/42"), 1)
	assert.Empty(t, env.Rec.Find(http.MethodPatch, "/members/44"))
	assert.Empty(t, env.Rec.Find(http.MethodPatch, "/members/45"))
	assert.Empty(t, env.Rec.Find(http.MethodPatch, "/members/"+botID))
	assert.Contains(t, env.Rec.LastEmbed().Description, "muted **2** member(s)")

	reset(env)
	env.Run(routertest.Command(discord.CommandUnmuteVC, actiontest.WithRoles("45", staffRole)))
	assert.Empty(t, env.Rec.Find(http.MethodPatch, "/members/"))
	assert.Contains(t, env.Rec.LastEmbed().Description, "unmuted **0** member(s)")

	reset(env)
	env.Run(routertest.Command(discord.CommandMuteVC, actiontest.WithRoles("46", staffRole)))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Not in Voice")
}
