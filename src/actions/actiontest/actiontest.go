// Package actiontest wires a router over an in-memory store and a fake
// Discord API for command handler tests.
package actiontest

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router/routertest"
	"github.com/mrpepsi1069/LockerRoom/src/config"
	"github.com/mrpepsi1069/LockerRoom/src/data/memory"
	"github.com/mrpepsi1069/LockerRoom/src/dm"
	"github.com/mrpepsi1069/LockerRoom/src/poll"
	"github.com/mrpepsi1069/LockerRoom/src/premium"
)

const OwnerID = "999000000000000000"

type Env struct {
	Router  *router.Router
	Store   *memory.Store
	Session *discordgo.Session
	Rec     *routertest.Recorder
	Deps    *router.Deps
}

// New builds an environment with the given handler registrations applied.
func New(register ...func(*router.Router)) *Env {
	store := memory.New()
	s, rec := routertest.NewSession()
	deps := &router.Deps{
		Store:   store,
		Polls:   poll.NewManager(store),
		Premium: premium.NewService(store),
		DM:      dm.NewDispatcher(dm.SessionSender{Session: s}, dm.Options{Workers: 2}),
		Config: config.BotConfig{
			Base:         config.Base{OwnerID: OwnerID},
			PollWindow:   168 * time.Hour,
			DMCooldown:   10 * time.Minute,
			PremiumPrice: "$4.99/month",
			InviteURL:    "https://discord.com/oauth2/authorize?client_id=1",
		},
		Started:   time.Now().Add(-time.Hour),
		Cooldowns: router.NewCooldowns(10 * time.Minute),
	}
	r := router.New(deps)
	for _, fn := range register {
		fn(r)
	}
	return &Env{Router: r, Store: store, Session: s, Rec: rec, Deps: deps}
}

// Run dispatches one interaction synchronously.
func (e *Env) Run(i *discordgo.InteractionCreate) {
	e.Router.Dispatch(context.Background(), e.Session, i)
}

// Reset swaps in a fresh recorder. Routes registered on the old one are
// dropped.
func (e *Env) Reset() {
	e.Rec = &routertest.Recorder{}
	e.Session.Client.Transport = e.Rec
}

// Admin is a member with the Administrator permission.
func Admin(id string) *discordgo.Member {
	return routertest.Member(id, discordgo.PermissionAdministrator)
}

func Player(id string) *discordgo.Member { return routertest.Member(id, 0) }

func WithRoles(id string, roles ...string) *discordgo.Member {
	return routertest.Member(id, 0, roles...)
}
