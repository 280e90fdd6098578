package awards

import (
	"context"
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
	managerRole   = "740000000000000000"
	awardsChannel = "840000000000000000"
)

func setup(t *testing.T) *actiontest.Env {
	t.Helper()
	env := actiontest.New(Register)
	ctx := context.Background()
	require.NoError(t, env.Store.UpsertGuild(ctx, routertest.GuildID, "Test Guild"))
	require.NoError(t, env.Store.SetGuildRole(ctx, routertest.GuildID, data.RoleManager, managerRole))
	require.NoError(t, env.Store.SetGuildChannel(ctx, routertest.GuildID, data.ChannelAwards, awardsChannel))
	require.NoError(t, env.Store.CreateLeague(ctx, &data.League{GuildID: routertest.GuildID, Abbr: "NFA", Name: "National Football Alliance"}))
	return env
}

func manager() *discordgo.Member { return actiontest.WithRoles("10", managerRole) }

func giveAward(env *actiontest.Env, userID, name string) {
	env.Run(routertest.Command(discord.CommandAward, manager(),
		routertest.User("player", actiontest.Player(userID)),
		routertest.Str("league", "nfa"),
		routertest.Str("award", name),
		routertest.Str("season", "S1"),
	))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "No awards or rings yet. Keep grinding!", Summary(0, 0))
	assert.Equal(t, "💍 **1** Championship Ring\n🏆 **2** Individual Awards", Summary(1, 2))
	assert.Equal(t, "🏆 **1** Individual Award", Summary(0, 1))
}

func TestAwardDuplicateRejected(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	giveAward(env, "42", "MVP")
	assert.Contains(t, env.Rec.LastEmbed().Title, "Award Given")
	assert.Len(t, env.Rec.Find(http.MethodPost, "/channels/"+awardsChannel+"/messages"), 1)

	before, err := env.Store.ListAwards(ctx, routertest.GuildID, "42")
	require.NoError(t, err)
	require.Len(t, before, 1)

	env.Reset()
	giveAward(env, "42", "MVP")
	assert.Contains(t, env.Rec.LastEmbed().Title, "Award Already Exists")
	assert.Empty(t, env.Rec.Find(http.MethodPost, "/channels/"+awardsChannel+"/messages"))

	after, err := env.Store.ListAwards(ctx, routertest.GuildID, "42")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAwardValidation(t *testing.T) {
	env := setup(t)
	env.Run(routertest.Command(discord.CommandAward, actiontest.Player("11"),
		routertest.User("player", actiontest.Player("42")),
		routertest.Str("league", "NFA"), routertest.Str("award", "MVP"), routertest.Str("season", "S1")))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Permission Denied")

	env.Reset()
	env.Run(routertest.Command(discord.CommandAward, manager(),
		routertest.User("player", actiontest.Player("42")),
		routertest.Str("league", "XYZ"), routertest.Str("award", "MVP"), routertest.Str("season", "S1")))
	assert.Contains(t, env.Rec.LastEmbed().Title, "League Not Found")

	env.Reset()
	env.Run(routertest.Command(discord.CommandAward, manager(),
		routertest.User("player", actiontest.Player("42")),
		routertest.Str("league", "NFA"), routertest.Str("award", "MVP"), routertest.Str("season", "   ")))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Invalid Season")
}

func TestRingAddReportsDuplicates(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	l, err := env.Store.GetLeagueByAbbr(ctx, routertest.GuildID, "NFA")
	require.NoError(t, err)
	require.NoError(t, env.Store.AddRing(ctx, &data.Ring{GuildID: routertest.GuildID, UserID: "43", LeagueID: l.ID, Season: "S1"}))

	env.Run(routertest.Command(discord.CommandRingAdd, manager(),
		routertest.Str("league", "NFA"),
		routertest.Str("season", "S1"),
		routertest.User("player1", actiontest.Player("42")),
		routertest.User("player2", actiontest.Player("43")),
		routertest.User("player3", actiontest.Player("42")),
		routertest.Str("opponent", "Sharks"),
	))
	e := env.Rec.LastEmbed()
	require.NotNil(t, e)
	assert.Contains(t, e.Title, "Rings Granted")
	assert.Contains(t, e.Description, "**1** of 2")
	assert.Contains(t, e.Description, "✅ <@42>")
	assert.Contains(t, e.Description, "⚠️ <@43> (already has ring)")

	posts := env.Rec.Find(http.MethodPost, "/channels/"+awardsChannel+"/messages")
	require.Len(t, posts, 1)
	var msg routertest.ResponseData
	require.NoError(t, posts[0].Decode(&msg))
	require.Len(t, msg.Embeds, 1)
	assert.Contains(t, msg.Embeds[0].Description, "Defeated **Sharks**")

	rings, err := env.Store.ListRings(ctx, routertest.GuildID, "42")
	require.NoError(t, err)
	require.Len(t, rings, 1)
	assert.Equal(t, "NFA", rings[0].LeagueAbbr)
}

func TestAwardCheck(t *testing.T) {
	env := setup(t)
	giveAward(env, "42", "MVP")
	env.Reset()

	env.Run(routertest.Command(discord.CommandAwardCheck, actiontest.Player("42")))
	e := env.Rec.LastEmbed()
	require.NotNil(t, e)
	assert.Equal(t, "🏆 user42's Awards", e.Title)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "🏆 **MVP** - NFA S1", e.Fields[0].Value)

	env.Reset()
	env.Run(routertest.Command(discord.CommandAwardCheck, actiontest.Player("42"), routertest.User("player", actiontest.Player("77"))))
	assert.Equal(t, "No awards or rings yet. Keep grinding!", env.Rec.LastEmbed().Description)
}
