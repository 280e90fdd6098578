// Package bot is the Discord gateway module: it owns the session, registers
// slash commands and routes every interaction to the command handlers.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/actions/awards"
	"github.com/mrpepsi1069/LockerRoom/src/actions/contract"
	"github.com/mrpepsi1069/LockerRoom/src/actions/core"
	"github.com/mrpepsi1069/LockerRoom/src/actions/general"
	"github.com/mrpepsi1069/LockerRoom/src/actions/league"
	"github.com/mrpepsi1069/LockerRoom/src/actions/lineup"
	"github.com/mrpepsi1069/LockerRoom/src/actions/membership"
	"github.com/mrpepsi1069/LockerRoom/src/actions/messaging"
	"github.com/mrpepsi1069/LockerRoom/src/actions/moderation"
	"github.com/mrpepsi1069/LockerRoom/src/actions/owner"
	"github.com/mrpepsi1069/LockerRoom/src/actions/polls"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
	"github.com/mrpepsi1069/LockerRoom/src/actions/setup"
	"github.com/mrpepsi1069/LockerRoom/src/cache"
	"github.com/mrpepsi1069/LockerRoom/src/config"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/mrpepsi1069/LockerRoom/src/dm"
	"github.com/mrpepsi1069/LockerRoom/src/poll"
	"github.com/mrpepsi1069/LockerRoom/src/premium"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	sweepInterval = 10 * time.Minute
	statusText    = "/help | LockerRoom"
)

// Registrations lists every command package in the order their commands are
// added to the router.
var Registrations = []func(*router.Router){
	setup.Register,
	polls.Register,
	league.Register,
	lineup.Register,
	contract.Register,
	awards.Register,
	membership.Register,
	moderation.Register,
	messaging.Register,
	general.Register,
	owner.Register,
}

var _ core.Module = (*Module)(nil)

type Module struct {
	config  config.BotConfig
	session *discordgo.Session
	router  *router.Router
	polls   *poll.Manager
	store   data.Store

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewModule builds the session and handler graph. rdb may be nil, in which
// case guild config is read straight from the store and poll locks are
// process-local.
func NewModule(cfg config.BotConfig, store data.Store, rdb *redis.Client) (*Module, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("bot: DISCORD_TOKEN is not set")
	}
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildVoiceStates

	return newModule(cfg, session, store, rdb), nil
}

func newModule(cfg config.BotConfig, session *discordgo.Session, store data.Store, rdb *redis.Client) *Module {
	var pollOpts []poll.ManagerOption
	if rdb != nil {
		store = cache.NewGuildCache(store, rdb, cache.DefaultGuildTTL)
		pollOpts = append(pollOpts, poll.WithLocker(cache.NewLocker(rdb, 0)))
	}
	pm := poll.NewManager(store, pollOpts...)

	deps := &router.Deps{
		Store:   store,
		Polls:   pm,
		Premium: premium.NewService(store),
		DM: dm.NewDispatcher(dm.SessionSender{Session: session}, dm.Options{
			Workers: cfg.DMWorkers,
			Delay:   cfg.DMDelay,
			Retries: cfg.DMRetries,
		}),
		Config:    cfg,
		Started:   time.Now(),
		Cooldowns: router.NewCooldowns(cfg.DMCooldown),
	}
	r := router.New(deps)
	for _, register := range Registrations {
		register(r)
	}

	m := &Module{config: cfg, session: session, router: r, polls: pm, store: store}
	session.AddHandler(m.onReady)
	session.AddHandler(m.onGuildCreate)
	session.AddHandler(m.onInteractionCreate)
	return m
}

func (m *Module) Name() string { return "bot" }

// Store is the store handlers write through, including the guild cache when
// Redis is configured.
func (m *Module) Store() data.Store { return m.store }

// Premium is the subscription service shared with the admin API.
func (m *Module) Premium() *premium.Service { return m.router.Deps().Premium }

// Router exposes the command router, mainly for tests.
func (m *Module) Router() *router.Router { return m.router }

// Username is the logged-in bot's name, or "" before READY.
func (m *Module) Username() string {
	if m.session.State == nil || m.session.State.User == nil {
		return ""
	}
	return m.session.State.User.Username
}

// GuildCount is the number of guilds in the gateway state.
func (m *Module) GuildCount() int {
	if m.session.State == nil {
		return 0
	}
	m.session.State.RLock()
	defer m.session.State.RUnlock()
	return len(m.session.State.Guilds)
}

// Started reports when the handler graph was built.
func (m *Module) Started() time.Time { return m.router.Deps().Started }

func (m *Module) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Info().Str("module", "bot").Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("logged in")

	if err := discord.RegisterSlashCommands(s, m.config.GuildID, m.router.Commands()...); err != nil {
		log.Error().Str("module", "bot").Err(err).Msg("failed to register slash commands")
	}
	if err := s.UpdateWatchStatus(0, statusText); err != nil {
		log.Warn().Str("module", "bot").Err(err).Msg("failed to set status")
	}
}

func (m *Module) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil || g.Unavailable {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.store.UpsertGuild(ctx, g.ID, g.Name); err != nil {
		log.Warn().Str("module", "bot").Str("guild", g.ID).Err(err).Msg("guild upsert failed")
	}
}

func (m *Module) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	m.router.Dispatch(context.Background(), s, i)
}

func (m *Module) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	if err := m.session.Open(); err != nil {
		cancel()
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.polls.Run(runCtx, sweepInterval)
	}()
	return nil
}

func (m *Module) Stop(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.wg.Wait()
	if err := m.session.Close(); err != nil {
		log.Warn().Str("module", "bot").Err(err).Msg("session close failed")
	}
}
