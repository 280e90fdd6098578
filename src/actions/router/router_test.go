package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router/routertest"
	"github.com/mrpepsi1069/LockerRoom/src/config"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/data/memory"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/mrpepsi1069/LockerRoom/src/premium"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*Router, *memory.Store) {
	t.Helper()
	store := memory.New()
	deps := &Deps{
		Store:   store,
		Premium: premium.NewService(store),
		Config:  config.BotConfig{Base: config.Base{OwnerID: "999"}, PremiumPrice: "$4.99/month"},
		Started: time.Now(),
	}
	return New(deps), store
}

func TestDispatchRunsCommandAndAudits(t *testing.T) {
	r, store := newRouter(t)
	ran := false
	r.Handle(Command{Name: "ping", Run: func(c *Context) error {
		ran = true
		assert.Equal(t, discord.LevelEveryone, c.Level)
		return c.Reply(discord.Info("Pong", ""))
	}})

	s, rec := routertest.NewSession()
	r.Dispatch(context.Background(), s, routertest.Command("ping", routertest.Member("1", 0)))

	require.True(t, ran)
	resps := rec.Responses()
	require.Len(t, resps, 1)
	assert.False(t, resps[0].Data.Ephemeral())

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalCommands)
	assert.EqualValues(t, 1, stats.TotalUsers)
}

func TestDispatchPermissionGate(t *testing.T) {
	r, _ := newRouter(t)
	r.Handle(Command{Name: "setup", Level: discord.LevelAdmin, Run: func(*Context) error {
		t.Fatal("handler must not run")
		return nil
	}})

	s, rec := routertest.NewSession()
	r.Dispatch(context.Background(), s, routertest.Command("setup", routertest.Member("1", 0)))

	resps := rec.Responses()
	require.Len(t, resps, 1)
	assert.True(t, resps[0].Data.Ephemeral())
	assert.Contains(t, resps[0].Data.Embeds[0].Description, "Administrator")
}

func TestDispatchOwnerBypassesPremium(t *testing.T) {
	r, _ := newRouter(t)
	calls := 0
	r.Handle(Command{Name: "dmtcmembers", Premium: true, Run: func(c *Context) error {
		calls++
		return c.ReplyPrivate(discord.Success("Sent", ""))
	}})

	s, rec := routertest.NewSession()
	r.Dispatch(context.Background(), s, routertest.Command("dmtcmembers", routertest.Member("1", 0)))
	require.Equal(t, 0, calls)
	assert.Contains(t, rec.LastEmbed().Title, "Premium Required")

	r.Dispatch(context.Background(), s, routertest.Command("dmtcmembers", routertest.Member("999", 0)))
	assert.Equal(t, 1, calls)
}

func TestDispatchRecoversPanic(t *testing.T) {
	r, _ := newRouter(t)
	r.Handle(Command{Name: "boom", Run: func(*Context) error { panic("kaboom") }})

	s, rec := routertest.NewSession()
	require.NotPanics(t, func() {
		r.Dispatch(context.Background(), s, routertest.Command("boom", routertest.Member("1", 0)))
	})
	assert.Contains(t, rec.LastEmbed().Title, "Something Went Wrong")
}

func TestDispatchErrorRendering(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		title string
	}{
		{"user", Fail("League %s not found.", "ABC"), "Error"},
		{"denied", &DeniedError{Required: discord.LevelManager}, "Permission Denied"},
		{"unavailable", data.ErrUnavailable, "Database Unavailable"},
		{"other", errors.New("wat"), "Something Went Wrong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newRouter(t)
			r.Handle(Command{Name: "x", Run: func(*Context) error { return tc.err }})
			s, rec := routertest.NewSession()
			r.Dispatch(context.Background(), s, routertest.Command("x", routertest.Member("1", 0)))
			resps := rec.Responses()
			require.Len(t, resps, 1)
			assert.True(t, resps[0].Data.Ephemeral())
			assert.Contains(t, resps[0].Data.Embeds[0].Title, tc.title)
		})
	}
}

func TestDispatchErrorAfterDeferEditsReply(t *testing.T) {
	r, _ := newRouter(t)
	r.Handle(Command{Name: "slow", Run: func(c *Context) error {
		require.NoError(t, c.Defer(true))
		return Fail("nope")
	}})

	s, rec := routertest.NewSession()
	r.Dispatch(context.Background(), s, routertest.Command("slow", routertest.Member("1", 0)))

	assert.Len(t, rec.Responses(), 1)
	edits := rec.Find("PATCH", "/messages/@original")
	require.Len(t, edits, 1)
	assert.Contains(t, rec.LastEmbed().Description, "nope")
}

func TestDispatchButtonsLongestPrefix(t *testing.T) {
	r, _ := newRouter(t)
	var got string
	r.HandleButton("contract:", func(c *Context, id string) error { got = "contract " + id; return nil })
	r.HandleButton("contract:paid:", func(c *Context, id string) error { got = "paid " + id; return nil })

	s, _ := routertest.NewSession()
	r.Dispatch(context.Background(), s, routertest.Button("contract:paid:42", "m1", routertest.Member("1", 0)))
	assert.Equal(t, "paid contract:paid:42", got)

	r.Dispatch(context.Background(), s, routertest.Button("contract:delete:42", "m1", routertest.Member("1", 0)))
	assert.Equal(t, "contract contract:delete:42", got)
}

func TestDispatchAutocomplete(t *testing.T) {
	r, _ := newRouter(t)
	r.Handle(Command{
		Name: "league",
		Run:  func(*Context) error { return nil },
		Complete: func(c *Context, option, value string) []*discordgo.ApplicationCommandOptionChoice {
			return []*discordgo.ApplicationCommandOptionChoice{{Name: option + "=" + value, Value: value}}
		},
	})

	s, rec := routertest.NewSession()
	r.Dispatch(context.Background(), s, routertest.Autocomplete("league", routertest.Member("1", 0),
		routertest.Sub("delete", routertest.Focused("abbreviation", "NF"))))

	resps := rec.Responses()
	require.Len(t, resps, 1)
	assert.Equal(t, discordgo.InteractionApplicationCommandAutocompleteResult, resps[0].Type)
	require.Len(t, resps[0].Data.Choices, 1)
	assert.Equal(t, "abbreviation=NF", resps[0].Data.Choices[0].Name)
}

func TestCooldowns(t *testing.T) {
	c := NewCooldowns(10 * time.Minute)
	now := time.Now()

	_, ok := c.Take("g1", now)
	require.True(t, ok)
	wait, ok := c.Take("g1", now.Add(time.Minute))
	assert.False(t, ok)
	assert.Equal(t, 9*time.Minute, wait)

	_, ok = c.Take("g2", now)
	assert.True(t, ok)

	c.Release("g1")
	_, ok = c.Take("g1", now.Add(time.Minute))
	assert.True(t, ok)

	var none *Cooldowns
	_, ok = none.Take("g1", now)
	assert.True(t, ok)
}
