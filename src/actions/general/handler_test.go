package general

import (
	"context"
	"net/http"
	"testing"

	"github.com/mrpepsi1069/LockerRoom/src/actions/actiontest"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router/routertest"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const suggestionsChannel = "610000000000000000"

func reply(t *testing.T, env *actiontest.Env) routertest.Response {
	t.Helper()
	resps := env.Rec.Responses()
	require.Len(t, resps, 1)
	require.NotNil(t, resps[0].Data)
	return resps[0]
}

func TestBold(t *testing.T) {
	assert.Equal(t, "𝐀𝐳𝟗", Bold("Az9"))
	assert.Equal(t, "𝐆𝐨 𝐭𝐞𝐚𝐦!", Bold("Go team!"))
	assert.Equal(t, "é-", Bold("é-"))
}

func TestInviteURL(t *testing.T) {
	assert.Equal(t, "https://example.com/invite", InviteURL("https://example.com/invite", "1"))
	assert.Contains(t, InviteURL("", "42"), "client_id=42")
}

func TestHelpGroupsByLevel(t *testing.T) {
	env := actiontest.New(Register, func(r *router.Router) {
		r.Handle(router.Command{Name: discord.CommandDMTCMembers, Level: discord.LevelStaff, Premium: true, Run: func(*router.Context) error { return nil }})
	})
	env.Run(routertest.Command(discord.CommandHelp, actiontest.Player("10")))

	resp := reply(t, env)
	assert.True(t, resp.Data.Ephemeral())
	e := resp.Data.Embeds[0]
	require.Len(t, e.Fields, 2)
	assert.Equal(t, discord.LevelEveryone.String(), e.Fields[0].Name)
	assert.Contains(t, e.Fields[0].Value, "`/ping`")
	assert.Equal(t, discord.LevelStaff.String(), e.Fields[1].Name)
	assert.Contains(t, e.Fields[1].Value, "`/dmtcmembers`")
	assert.Contains(t, e.Fields[1].Value, "💎")
}

func TestPing(t *testing.T) {
	env := actiontest.New(Register)
	env.Run(routertest.Command(discord.CommandPing, actiontest.Player("10")))
	e := reply(t, env).Data.Embeds[0]
	assert.Equal(t, "🏓 Pong!", e.Title)
	require.NotEmpty(t, e.Fields)
	assert.Equal(t, "API Latency", e.Fields[len(e.Fields)-1].Name)
}

func TestInvite(t *testing.T) {
	env := actiontest.New(Register)
	env.Run(routertest.Command(discord.CommandInvite, actiontest.Player("10")))
	resp := reply(t, env)
	assert.True(t, resp.Data.Ephemeral())
	assert.Contains(t, resp.Data.Embeds[0].Description, env.Deps.Config.InviteURL)
}

func TestFlipCoin(t *testing.T) {
	env := actiontest.New(Register)
	env.Run(routertest.Command(discord.CommandFlipCoin, actiontest.Player("10")))
	e := reply(t, env).Data.Embeds[0]
	assert.Regexp(t, `\*\*(Heads|Tails)\*\*`, e.Description)
}

func TestRandomNumber(t *testing.T) {
	env := actiontest.New(Register)
	env.Run(routertest.Command(discord.CommandRandomNumber, actiontest.Player("10"),
		routertest.Int("min", 7), routertest.Int("max", 7)))
	assert.Contains(t, reply(t, env).Data.Embeds[0].Description, "is:\n**7**")

	env.Reset()
	env.Run(routertest.Command(discord.CommandRandomNumber, actiontest.Player("10"),
		routertest.Int("min", 10), routertest.Int("max", 1)))
	resp := reply(t, env)
	assert.True(t, resp.Data.Ephemeral())
	assert.Contains(t, resp.Data.Embeds[0].Description, "cannot be less than minimum")
}

func TestBoldCommand(t *testing.T) {
	env := actiontest.New(Register)
	env.Run(routertest.Command(discord.CommandBold, actiontest.Player("10"), routertest.Str("text", "GG")))
	assert.Equal(t, "𝐆𝐆", reply(t, env).Data.Content)
}

func TestFakeBan(t *testing.T) {
	env := actiontest.New(Register)
	env.Run(routertest.Command(discord.CommandFBan, actiontest.Player("10"),
		routertest.User("user", actiontest.Player("42"))))

	resp := reply(t, env)
	assert.False(t, resp.Data.Ephemeral())
	e := resp.Data.Embeds[0]
	assert.Contains(t, e.Description, "<@42> has been banned")
	assert.Equal(t, "No reason provided", e.Fields[0].Value)
	require.NotNil(t, e.Footer)
	assert.Contains(t, e.Footer.Text, "Just kidding!")
	assert.Empty(t, env.Rec.Find(http.MethodPut, "/bans/"))
}

func TestFakeKick(t *testing.T) {
	env := actiontest.New(Register)
	env.Run(routertest.Command(discord.CommandFKick, actiontest.Player("10"),
		routertest.User("user", actiontest.Player("42")), routertest.Str("reason", "too fast")))
	e := reply(t, env).Data.Embeds[0]
	assert.Contains(t, e.Description, "kicked")
	assert.Equal(t, "too fast", e.Fields[0].Value)
}

func TestSuggest(t *testing.T) {
	env := actiontest.New(Register)
	ctx := context.Background()
	require.NoError(t, env.Store.UpsertGuild(ctx, routertest.GuildID, "Test Guild"))
	require.NoError(t, env.Store.SetGuildChannel(ctx, routertest.GuildID, data.ChannelSuggestions, suggestionsChannel))

	env.Run(routertest.Command(discord.CommandSuggest, actiontest.Player("10"), routertest.Str("suggestion", "More scrims")))

	posted := env.Rec.Find(http.MethodPost, "/channels/"+suggestionsChannel+"/messages")
	require.Len(t, posted, 1)
	var msg routertest.ResponseData
	require.NoError(t, posted[0].Decode(&msg))
	assert.Equal(t, "More scrims", msg.Embeds[0].Description)

	resp := reply(t, env)
	assert.True(t, resp.Data.Ephemeral())
	assert.Contains(t, resp.Data.Embeds[0].Title, "Suggestion Submitted")
}

func TestSuggestWithoutChannel(t *testing.T) {
	env := actiontest.New(Register)
	env.Run(routertest.Command(discord.CommandSuggest, actiontest.Player("10"), routertest.Str("suggestion", "Jerseys")))
	assert.Empty(t, env.Rec.Find(http.MethodPost, "/messages"))
	assert.Contains(t, reply(t, env).Data.Embeds[0].Title, "Suggestion Submitted")
}
