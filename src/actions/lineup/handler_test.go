package lineup

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
	managerRole = "720000000000000000"
	postChannel = "820000000000000000"
)

func setup(t *testing.T) *actiontest.Env {
	t.Helper()
	env := actiontest.New(Register)
	ctx := context.Background()
	require.NoError(t, env.Store.UpsertGuild(ctx, routertest.GuildID, "Test Guild"))
	require.NoError(t, env.Store.SetGuildRole(ctx, routertest.GuildID, data.RoleManager, managerRole))
	return env
}

func manager() *discordgo.Member { return actiontest.WithRoles("10", managerRole) }

func run(env *actiontest.Env, sub string, opts ...routertest.Opt) {
	env.Run(routertest.Command(discord.CommandLineup, manager(), routertest.Sub(sub, opts...)))
}

func TestSortPlayers(t *testing.T) {
	players := []data.LineupPlayer{
		{UserID: "1", Position: "WR"},
		{UserID: "2", Position: "DE"},
		{UserID: "3", Position: "QB"},
		{UserID: "4", Position: "Backup"},
		{UserID: "5", Position: "OL"},
		{UserID: "6", Position: "OL"},
	}
	var order []string
	for _, p := range SortPlayers(players) {
		order = append(order, p.UserID)
	}
	assert.Equal(t, []string{"3", "5", "6", "2", "4", "1"}, order)
	assert.Equal(t, "1", players[0].UserID)
}

func TestEmbed(t *testing.T) {
	e := Embed(&data.Lineup{Name: "Starters", Description: "Week 1"})
	assert.Equal(t, "📋 Starters", e.Title)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "No players added yet.", e.Fields[0].Value)

	e = Embed(&data.Lineup{Name: "Starters", Players: []data.LineupPlayer{{UserID: "7", Position: "TE"}, {UserID: "8", Position: "QB"}}})
	assert.Equal(t, "**QB:** <@8>\n**TE:** <@7>", e.Fields[0].Value)
	assert.Equal(t, "Players (2/15)", e.Fields[0].Name)
}

func TestCreateAddEdit(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	run(env, "create", routertest.Str("name", "Starters"), routertest.Str("description", "Week 1"))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Lineup Created")

	env.Reset()
	run(env, "create", routertest.Str("name", "starters"))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Lineup Exists")

	env.Reset()
	run(env, "add", routertest.Str("lineup", "starters"), routertest.User("player", actiontest.Player("42")), routertest.Str("position", " qb "))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Player Added")

	env.Reset()
	run(env, "add", routertest.Str("lineup", "Starters"), routertest.User("player", actiontest.Player("42")), routertest.Str("position", "TE"))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Already In Lineup")

	env.Reset()
	run(env, "edit", routertest.Str("lineup", "Starters"), routertest.User("player", actiontest.Player("42")), routertest.Str("position", "fs"))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Position Updated")

	l, err := env.Store.GetLineup(ctx, routertest.GuildID, "Starters")
	require.NoError(t, err)
	assert.Equal(t, []data.LineupPlayer{{UserID: "42", Position: "FS"}}, l.Players)

	env.Reset()
	run(env, "remove", routertest.Str("lineup", "Starters"), routertest.User("player", actiontest.Player("42")))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Player Removed")

	env.Reset()
	run(env, "remove", routertest.Str("lineup", "Starters"), routertest.User("player", actiontest.Player("42")))
	assert.Contains(t, env.Rec.LastEmbed().Description, "is not in")
}

func TestLineupFull(t *testing.T) {
	env := setup(t)
	run(env, "create", routertest.Str("name", "Full"))
	for i := 0; i < MaxPlayers; i++ {
		env.Reset()
		run(env, "add", routertest.Str("lineup", "Full"), routertest.User("player", actiontest.Player(fmt.Sprint(100+i))), routertest.Str("position", "OL"))
		require.Contains(t, env.Rec.LastEmbed().Title, "Player Added")
	}
	env.Reset()
	run(env, "add", routertest.Str("lineup", "Full"), routertest.User("player", actiontest.Player("999")), routertest.Str("position", "OL"))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Lineup Full")
}

func TestPermissionsAndMissing(t *testing.T) {
	env := setup(t)
	env.Run(routertest.Command(discord.CommandLineup, actiontest.Player("11"), routertest.Sub("create", routertest.Str("name", "X"))))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Permission Denied")

	env.Reset()
	env.Run(routertest.Command(discord.CommandLineup, actiontest.Player("11"), routertest.Sub("view", routertest.Str("lineup", "nope"))))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Lineup Not Found")

	env.Reset()
	env.Run(routertest.Command(discord.CommandLineup, actiontest.Player("11"), routertest.Sub("list")))
	assert.Contains(t, env.Rec.LastEmbed().Title, "No Lineups")
}

func TestListViewPostDelete(t *testing.T) {
	env := setup(t)
	run(env, "create", routertest.Str("name", "Starters"), routertest.Str("description", "Week 1"))
	run(env, "add", routertest.Str("lineup", "Starters"), routertest.User("player", actiontest.Player("42")), routertest.Str("position", "QB"))
	env.Reset()

	env.Run(routertest.Command(discord.CommandLineup, actiontest.Player("11"), routertest.Sub("list")))
	assert.Contains(t, env.Rec.LastEmbed().Description, "**Starters** (1/15) - Week 1")

	env.Reset()
	env.Run(routertest.Command(discord.CommandLineup, actiontest.Player("11"), routertest.Sub("view", routertest.Str("lineup", "starters"))))
	e := env.Rec.LastEmbed()
	require.NotNil(t, e)
	assert.Equal(t, "📋 Starters", e.Title)

	env.Reset()
	run(env, "post", routertest.Str("lineup", "Starters"), routertest.Channel("channel", postChannel))
	assert.Len(t, env.Rec.Find(http.MethodPost, "/channels/"+postChannel+"/messages"), 1)
	assert.Contains(t, env.Rec.LastEmbed().Title, "Lineup Posted")

	env.Reset()
	env.Run(routertest.Autocomplete(discord.CommandLineup, actiontest.Player("11"),
		routertest.Sub("view", routertest.Focused("lineup", "sta"))))
	resps := env.Rec.Responses()
	require.Len(t, resps, 1)
	require.Len(t, resps[0].Data.Choices, 1)
	assert.Equal(t, "Starters", resps[0].Data.Choices[0].Value)

	env.Reset()
	run(env, "delete", routertest.Str("lineup", "Starters"))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Lineup Deleted")
	_, err := env.Store.GetLineup(context.Background(), routertest.GuildID, "Starters")
	assert.ErrorIs(t, err, data.ErrNotFound)
}

func TestPostMissingPermission(t *testing.T) {
	env := setup(t)
	run(env, "create", routertest.Str("name", "Starters"))
	env.Reset()
	env.Rec.On(http.MethodPost, "/channels/"+postChannel+"/messages", http.StatusForbidden, `{"code":50013,"message":"Missing Permissions"}`)
	run(env, "post", routertest.Str("lineup", "Starters"), routertest.Channel("channel", postChannel))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Missing Permissions")
}
