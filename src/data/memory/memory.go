// Package memory is an in-process data.Store used for tests and for running
// the bot without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrpepsi1069/LockerRoom/src/data"
)

type Store struct {
	mu          sync.RWMutex
	guilds      map[string]*data.Guild
	users       map[string]*data.User
	leagues     map[string]*data.League
	lineups     map[string]*data.Lineup
	contracts   map[string]*data.Contract
	awards      map[string]*data.Award
	rings       map[string]*data.Ring
	polls       map[string]*data.PollRecord
	suggestions []data.Suggestion
	commands    []data.CommandLog
	settings    map[string]string
	now         func() time.Time
}

var _ data.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		guilds:    make(map[string]*data.Guild),
		users:     make(map[string]*data.User),
		leagues:   make(map[string]*data.League),
		lineups:   make(map[string]*data.Lineup),
		contracts: make(map[string]*data.Contract),
		awards:    make(map[string]*data.Award),
		rings:     make(map[string]*data.Ring),
		polls:     make(map[string]*data.PollRecord),
		settings:  make(map[string]string),
		now:       time.Now,
	}
}

func key(parts ...string) string { return strings.Join(parts, "\x00") }

func (s *Store) Driver() string                 { return "memory" }
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }
func (s *Store) Close() error                   { return nil }

// PutSetting stores a settings override.
func (s *Store) PutSetting(name, value string) {
	s.mu.Lock()
	s.settings[name] = value
	s.mu.Unlock()
}

func (s *Store) ListSettings(ctx context.Context) ([]data.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]data.Setting, 0, len(s.settings))
	for name, value := range s.settings {
		out = append(out, data.Setting{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// guild returns the stored guild, creating it when missing. Caller holds mu.
func (s *Store) guild(guildID string) *data.Guild {
	g, ok := s.guilds[guildID]
	if !ok {
		now := s.now()
		g = &data.Guild{
			GuildID:   guildID,
			Channels:  map[string]string{},
			Roles:     map[string]string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.guilds[guildID] = g
	}
	return g
}

func (s *Store) UpsertGuild(ctx context.Context, guildID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.guild(guildID)
	if name != "" {
		g.Name = name
	}
	g.UpdatedAt = s.now()
	return nil
}

func (s *Store) GetGuild(ctx context.Context, guildID string) (*data.Guild, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.guilds[guildID]
	if !ok {
		return nil, data.ErrNotFound
	}
	return copyGuild(g), nil
}

func (s *Store) SetGuildChannel(ctx context.Context, guildID, k, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.guild(guildID)
	g.Channels[k] = channelID
	g.UpdatedAt = s.now()
	return nil
}

func (s *Store) SetGuildRole(ctx context.Context, guildID, k, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.guild(guildID)
	g.Roles[k] = roleID
	g.UpdatedAt = s.now()
	return nil
}

func (s *Store) MarkGuildSetup(ctx context.Context, guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.guild(guildID)
	g.SetupCompleted = true
	g.UpdatedAt = s.now()
	return nil
}

func (s *Store) SetPremium(ctx context.Context, guildID string, premium bool, expiresAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.guild(guildID)
	g.Premium = premium
	g.PremiumExpiresAt = nil
	if premium && expiresAt != nil {
		t := *expiresAt
		g.PremiumExpiresAt = &t
	}
	g.UpdatedAt = s.now()
	return nil
}

func (s *Store) ListPremiumGuilds(ctx context.Context) ([]data.Guild, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []data.Guild
	for _, g := range s.guilds {
		if g.Premium {
			out = append(out, *copyGuild(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GuildID < out[j].GuildID })
	return out, nil
}

func (s *Store) UpsertUser(ctx context.Context, userID, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = &data.User{UserID: userID, Username: username, UpdatedAt: s.now()}
	return nil
}

func (s *Store) CreateLeague(ctx context.Context, league *data.League) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	league.Abbr = strings.ToUpper(league.Abbr)
	k := key(league.GuildID, league.Abbr)
	if _, exists := s.leagues[k]; exists {
		return data.ErrDuplicate
	}
	if league.ID == "" {
		league.ID = uuid.NewString()
	}
	if league.CreatedAt.IsZero() {
		league.CreatedAt = s.now()
	}
	l := *league
	s.leagues[k] = &l
	return nil
}

func (s *Store) GetLeagueByAbbr(ctx context.Context, guildID, abbr string) (*data.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.leagues[key(guildID, strings.ToUpper(abbr))]
	if !ok {
		return nil, data.ErrNotFound
	}
	out := *l
	return &out, nil
}

func (s *Store) ListLeagues(ctx context.Context, guildID string) ([]data.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []data.League
	for _, l := range s.leagues {
		if l.GuildID == guildID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Abbr < out[j].Abbr })
	return out, nil
}

func (s *Store) DeleteLeague(ctx context.Context, guildID, abbr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(guildID, strings.ToUpper(abbr))
	if _, ok := s.leagues[k]; !ok {
		return data.ErrNotFound
	}
	delete(s.leagues, k)
	return nil
}

func (s *Store) AddAward(ctx context.Context, award *data.Award) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(award.GuildID, award.UserID, award.LeagueID, award.Name, award.Season)
	if _, exists := s.awards[k]; exists {
		return data.ErrDuplicate
	}
	if award.ID == "" {
		award.ID = uuid.NewString()
	}
	if award.CreatedAt.IsZero() {
		award.CreatedAt = s.now()
	}
	a := *award
	s.awards[k] = &a
	return nil
}

func (s *Store) AddRing(ctx context.Context, ring *data.Ring) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(ring.GuildID, ring.UserID, ring.LeagueID, ring.Season)
	if _, exists := s.rings[k]; exists {
		return data.ErrDuplicate
	}
	if ring.ID == "" {
		ring.ID = uuid.NewString()
	}
	if ring.CreatedAt.IsZero() {
		ring.CreatedAt = s.now()
	}
	r := *ring
	s.rings[k] = &r
	return nil
}

func (s *Store) ListAwards(ctx context.Context, guildID, userID string) ([]data.Award, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []data.Award
	for _, a := range s.awards {
		if a.GuildID == guildID && a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListRings(ctx context.Context, guildID, userID string) ([]data.Ring, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []data.Ring
	for _, r := range s.rings {
		if r.GuildID == guildID && r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CreateLineup(ctx context.Context, lineup *data.Lineup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lineup.NameKey = strings.ToLower(lineup.Name)
	k := key(lineup.GuildID, lineup.NameKey)
	if _, exists := s.lineups[k]; exists {
		return data.ErrDuplicate
	}
	if lineup.ID == "" {
		lineup.ID = uuid.NewString()
	}
	now := s.now()
	lineup.CreatedAt, lineup.UpdatedAt = now, now
	s.lineups[k] = copyLineup(lineup)
	return nil
}

func (s *Store) GetLineup(ctx context.Context, guildID, name string) (*data.Lineup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lineups[key(guildID, strings.ToLower(name))]
	if !ok {
		return nil, data.ErrNotFound
	}
	return copyLineup(l), nil
}

func (s *Store) ListLineups(ctx context.Context, guildID string) ([]data.Lineup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []data.Lineup
	for _, l := range s.lineups {
		if l.GuildID == guildID {
			out = append(out, *copyLineup(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NameKey < out[j].NameKey })
	return out, nil
}

func (s *Store) DeleteLineup(ctx context.Context, guildID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(guildID, strings.ToLower(name))
	if _, ok := s.lineups[k]; !ok {
		return data.ErrNotFound
	}
	delete(s.lineups, k)
	return nil
}

func (s *Store) AddLineupPlayer(ctx context.Context, guildID, name string, player data.LineupPlayer, max int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lineups[key(guildID, strings.ToLower(name))]
	if !ok {
		return data.ErrNotFound
	}
	for _, p := range l.Players {
		if p.UserID == player.UserID {
			return data.ErrDuplicate
		}
	}
	if max > 0 && len(l.Players) >= max {
		return data.ErrLineupFull
	}
	l.Players = append(l.Players, player)
	l.UpdatedAt = s.now()
	return nil
}

func (s *Store) RemoveLineupPlayer(ctx context.Context, guildID, name, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lineups[key(guildID, strings.ToLower(name))]
	if !ok {
		return data.ErrNotFound
	}
	for i, p := range l.Players {
		if p.UserID == userID {
			l.Players = append(l.Players[:i], l.Players[i+1:]...)
			l.UpdatedAt = s.now()
			return nil
		}
	}
	return data.ErrNotFound
}

func (s *Store) SetLineupPosition(ctx context.Context, guildID, name, userID, position string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lineups[key(guildID, strings.ToLower(name))]
	if !ok {
		return data.ErrNotFound
	}
	for i := range l.Players {
		if l.Players[i].UserID == userID {
			l.Players[i].Position = position
			l.UpdatedAt = s.now()
			return nil
		}
	}
	return data.ErrNotFound
}

func (s *Store) AddContract(ctx context.Context, c *data.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(c.GuildID, c.UserID)
	if _, exists := s.contracts[k]; exists {
		return data.ErrDuplicate
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	cc := *c
	s.contracts[k] = &cc
	return nil
}

func (s *Store) GetContract(ctx context.Context, guildID, userID string) (*data.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[key(guildID, userID)]
	if !ok {
		return nil, data.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *Store) ListContracts(ctx context.Context, guildID string) ([]data.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []data.Contract
	for _, c := range s.contracts {
		if c.GuildID == guildID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) RemoveContract(ctx context.Context, guildID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(guildID, userID)
	if _, ok := s.contracts[k]; !ok {
		return data.ErrNotFound
	}
	delete(s.contracts, k)
	return nil
}

func (s *Store) SetContractPaid(ctx context.Context, guildID, userID string, paid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contracts[key(guildID, userID)]
	if !ok {
		return data.ErrNotFound
	}
	c.Paid = paid
	return nil
}

func (s *Store) SetContractMessage(ctx context.Context, guildID, userID, channelID, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contracts[key(guildID, userID)]
	if !ok {
		return data.ErrNotFound
	}
	c.ChannelID, c.MessageID = channelID, messageID
	return nil
}

func (s *Store) CreatePoll(ctx context.Context, p *data.PollRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := s.polls[p.ID]; exists {
		return data.ErrDuplicate
	}
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.polls[p.ID] = copyPoll(p)
	return nil
}

func (s *Store) GetPoll(ctx context.Context, id string) (*data.PollRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.polls[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	return copyPoll(p), nil
}

func (s *Store) SavePollResponses(ctx context.Context, id string, responses [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.polls[id]
	if !ok {
		return data.ErrNotFound
	}
	p.Responses = copyResponses(responses)
	p.UpdatedAt = s.now()
	return nil
}

func (s *Store) SetPollMessage(ctx context.Context, id, channelID, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.polls[id]
	if !ok {
		return data.ErrNotFound
	}
	p.ChannelID, p.MessageID = channelID, messageID
	p.UpdatedAt = s.now()
	return nil
}

func (s *Store) DeletePoll(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.polls[id]; !ok {
		return data.ErrNotFound
	}
	delete(s.polls, id)
	return nil
}

func (s *Store) CreateSuggestion(ctx context.Context, sg *data.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sg.ID == "" {
		sg.ID = uuid.NewString()
	}
	if sg.CreatedAt.IsZero() {
		sg.CreatedAt = s.now()
	}
	s.suggestions = append(s.suggestions, *sg)
	return nil
}

func (s *Store) LogCommand(ctx context.Context, entry *data.CommandLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	s.commands = append(s.commands, *entry)
	return nil
}

func (s *Store) Stats(ctx context.Context) (data.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := data.Stats{
		TotalGuilds:   int64(len(s.guilds)),
		TotalUsers:    int64(len(s.users)),
		TotalCommands: int64(len(s.commands)),
	}
	for _, g := range s.guilds {
		if g.Premium {
			st.PremiumGuilds++
		}
	}
	return st, nil
}

func copyGuild(g *data.Guild) *data.Guild {
	out := *g
	out.Channels = make(map[string]string, len(g.Channels))
	for k, v := range g.Channels {
		out.Channels[k] = v
	}
	out.Roles = make(map[string]string, len(g.Roles))
	for k, v := range g.Roles {
		out.Roles[k] = v
	}
	if g.PremiumExpiresAt != nil {
		t := *g.PremiumExpiresAt
		out.PremiumExpiresAt = &t
	}
	return &out
}

func copyLineup(l *data.Lineup) *data.Lineup {
	out := *l
	out.Players = append([]data.LineupPlayer(nil), l.Players...)
	return &out
}

func copyPoll(p *data.PollRecord) *data.PollRecord {
	out := *p
	out.Options = append([]string(nil), p.Options...)
	out.Responses = copyResponses(p.Responses)
	if p.ExpiresAt != nil {
		t := *p.ExpiresAt
		out.ExpiresAt = &t
	}
	return &out
}

func copyResponses(in [][]string) [][]string {
	out := make([][]string, len(in))
	for i, r := range in {
		out[i] = append([]string(nil), r...)
	}
	return out
}
