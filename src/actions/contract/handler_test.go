package contract

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
	coachRole       = "730000000000000000"
	contractChannel = "830000000000000000"
	cardMessage     = "900000000000000001"
)

func setup(t *testing.T) *actiontest.Env {
	t.Helper()
	env := actiontest.New(Register)
	ctx := context.Background()
	require.NoError(t, env.Store.UpsertGuild(ctx, routertest.GuildID, "Test Guild"))
	require.NoError(t, env.Store.SetGuildRole(ctx, routertest.GuildID, data.RoleCoach, coachRole))
	require.NoError(t, env.Store.SetGuildChannel(ctx, routertest.GuildID, data.ChannelContract, contractChannel))
	return env
}

func coach() *discordgo.Member { return actiontest.WithRoles("10", coachRole) }

func addContract(env *actiontest.Env, userID string, amount int64) {
	env.Run(routertest.Command(discord.CommandContract, coach(), routertest.Sub("add",
		routertest.User("user", actiontest.Player(userID)),
		routertest.Str("position", "qb"),
		routertest.Int("amount", amount),
		routertest.Str("due", "Feb 15, 2026"),
	)))
}

func TestAmount(t *testing.T) {
	assert.Equal(t, "$0", Amount(0))
	assert.Equal(t, "$1,250,000", Amount(1250000))
}

func TestFilter(t *testing.T) {
	all := []data.Contract{{UserID: "1", Paid: true}, {UserID: "2"}, {UserID: "3"}}
	assert.Len(t, Filter(all, "all"), 3)
	assert.Len(t, Filter(all, "unpaid"), 2)
	paid := Filter(all, "paid")
	require.Len(t, paid, 1)
	assert.Equal(t, "1", paid[0].UserID)
}

func TestAddContract(t *testing.T) {
	env := setup(t)
	addContract(env, "42", 5000)

	ct, err := env.Store.GetContract(context.Background(), routertest.GuildID, "42")
	require.NoError(t, err)
	assert.Equal(t, "QB", ct.Position)
	assert.Equal(t, int64(5000), ct.Amount)
	assert.Equal(t, defaultTerms, ct.Terms)
	assert.Equal(t, cardMessage, ct.MessageID)

	posts := env.Rec.Find(http.MethodPost, "/channels/"+contractChannel+"/messages")
	require.Len(t, posts, 1)
	var card routertest.ResponseData
	require.NoError(t, posts[0].Decode(&card))
	assert.Equal(t, []string{"contract:paid:42", "contract:delete:42"}, card.CustomIDs())
	assert.Len(t, env.Rec.Find(http.MethodPost, "/users/@me/channels"), 1)

	e := env.Rec.LastEmbed()
	require.NotNil(t, e)
	assert.Contains(t, e.Title, "Contract Created")
	assert.Contains(t, e.Description, "$5,000")
	assert.NotContains(t, e.Description, "couldn't DM")

	env.Reset()
	addContract(env, "42", 10)
	assert.Contains(t, env.Rec.LastEmbed().Title, "Contract Exists")
	assert.Empty(t, env.Rec.Find(http.MethodPost, "/channels/"+contractChannel+"/messages"))
}

func TestAddContractDMFailureTolerated(t *testing.T) {
	env := setup(t)
	env.Rec.On(http.MethodPost, "/users/@me/channels", http.StatusForbidden, `{"code":50007,"message":"Cannot send messages to this user"}`)
	addContract(env, "42", 100)

	_, err := env.Store.GetContract(context.Background(), routertest.GuildID, "42")
	require.NoError(t, err)
	e := env.Rec.LastEmbed()
	require.NotNil(t, e)
	assert.Contains(t, e.Title, "Contract Created")
	assert.Contains(t, e.Description, "couldn't DM")
}

func TestAddContractPostFailureRollsBack(t *testing.T) {
	env := setup(t)
	env.Rec.On(http.MethodPost, "/channels/"+contractChannel+"/messages", http.StatusForbidden, `{"code":50013,"message":"Missing Permissions"}`)
	addContract(env, "42", 100)

	_, err := env.Store.GetContract(context.Background(), routertest.GuildID, "42")
	assert.ErrorIs(t, err, data.ErrNotFound)
	assert.Contains(t, env.Rec.LastEmbed().Title, "Missing Permissions")
}

func TestAddContractRequiresSetupAndCoach(t *testing.T) {
	env := actiontest.New(Register)
	ctx := context.Background()
	require.NoError(t, env.Store.UpsertGuild(ctx, routertest.GuildID, "Test Guild"))
	require.NoError(t, env.Store.SetGuildRole(ctx, routertest.GuildID, data.RoleCoach, coachRole))
	addContract(env, "42", 100)
	assert.Contains(t, env.Rec.LastEmbed().Title, "Setup Required")

	env.Reset()
	env.Run(routertest.Command(discord.CommandContract, actiontest.Player("11"), routertest.Sub("post")))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Permission Denied")
}

func TestPostAndRemove(t *testing.T) {
	env := setup(t)
	addContract(env, "42", 1000)
	addContract(env, "43", 2500)
	require.NoError(t, env.Store.SetContractPaid(context.Background(), routertest.GuildID, "43", true))
	env.Reset()

	env.Run(routertest.Command(discord.CommandContract, coach(), routertest.Sub("post", routertest.Str("filter", "unpaid"))))
	e := env.Rec.LastEmbed()
	require.NotNil(t, e)
	assert.Equal(t, "📋 Unpaid Contracts", e.Title)
	assert.Contains(t, e.Description, "<@42>")
	assert.NotContains(t, e.Description, "<@43>")
	assert.Equal(t, "$1,000", e.Fields[0].Value)
	assert.Equal(t, "$0", e.Fields[1].Value)

	env.Reset()
	env.Run(routertest.Command(discord.CommandContract, coach(), routertest.Sub("remove", routertest.User("user", actiontest.Player("42")))))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Contract Removed")
	assert.Len(t, env.Rec.Find(http.MethodDelete, "/messages/"+cardMessage), 1)

	env.Reset()
	env.Run(routertest.Command(discord.CommandContract, coach(), routertest.Sub("remove", routertest.User("user", actiontest.Player("42")))))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Not Found")
}

func TestButtons(t *testing.T) {
	env := setup(t)
	addContract(env, "42", 1000)
	env.Reset()

	env.Run(routertest.Button("contract:paid:42", cardMessage, actiontest.Player("11")))
	assert.Contains(t, env.Rec.LastEmbed().Title, "Permission Denied")

	env.Reset()
	env.Run(routertest.Button("contract:paid:42", cardMessage, coach()))
	ct, err := env.Store.GetContract(context.Background(), routertest.GuildID, "42")
	require.NoError(t, err)
	assert.True(t, ct.Paid)
	resps := env.Rec.Responses()
	require.NotEmpty(t, resps)
	assert.Equal(t, discordgo.InteractionResponseUpdateMessage, resps[0].Type)
	require.Len(t, resps[0].Data.Components, 1)
	assert.True(t, resps[0].Data.Components[0].Components[0].Disabled)

	env.Reset()
	env.Run(routertest.Button("contract:delete:42", cardMessage, coach()))
	_, err = env.Store.GetContract(context.Background(), routertest.GuildID, "42")
	assert.ErrorIs(t, err, data.ErrNotFound)
	assert.Len(t, env.Rec.Find(http.MethodDelete, "/channels/"+routertest.ChannelID+"/messages/"+cardMessage), 1)
}
