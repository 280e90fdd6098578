// Package noop is the degraded data layer used when no store is reachable.
// Reads report not-found or empty; writes succeed without effect.
package noop

import (
	"context"
	"time"

	"github.com/mrpepsi1069/LockerRoom/src/data"
)

type Store struct{}

var _ data.Store = Store{}

func (Store) Driver() string                 { return "noop" }
func (Store) Ping(ctx context.Context) error { return data.ErrUnavailable }
func (Store) Close() error                   { return nil }

func (Store) ListSettings(context.Context) ([]data.Setting, error) { return nil, nil }

func (Store) UpsertGuild(context.Context, string, string) error { return nil }
func (Store) GetGuild(context.Context, string) (*data.Guild, error) {
	return nil, data.ErrNotFound
}
func (Store) SetGuildChannel(context.Context, string, string, string) error { return nil }
func (Store) SetGuildRole(context.Context, string, string, string) error    { return nil }
func (Store) MarkGuildSetup(context.Context, string) error                  { return nil }
func (Store) SetPremium(context.Context, string, bool, *time.Time) error    { return nil }
func (Store) ListPremiumGuilds(context.Context) ([]data.Guild, error)       { return nil, nil }

func (Store) UpsertUser(context.Context, string, string) error { return nil }

func (Store) CreateLeague(context.Context, *data.League) error { return nil }
func (Store) GetLeagueByAbbr(context.Context, string, string) (*data.League, error) {
	return nil, data.ErrNotFound
}
func (Store) ListLeagues(context.Context, string) ([]data.League, error) { return nil, nil }
func (Store) DeleteLeague(context.Context, string, string) error         { return nil }

func (Store) AddAward(context.Context, *data.Award) error                             { return nil }
func (Store) AddRing(context.Context, *data.Ring) error                               { return nil }
func (Store) ListAwards(context.Context, string, string) ([]data.Award, error)        { return nil, nil }
func (Store) ListRings(context.Context, string, string) ([]data.Ring, error)          { return nil, nil }
func (Store) CreateLineup(context.Context, *data.Lineup) error                        { return nil }
func (Store) ListLineups(context.Context, string) ([]data.Lineup, error)              { return nil, nil }
func (Store) DeleteLineup(context.Context, string, string) error                      { return nil }
func (Store) RemoveLineupPlayer(context.Context, string, string, string) error        { return nil }
func (Store) SetLineupPosition(context.Context, string, string, string, string) error { return nil }
func (Store) GetLineup(context.Context, string, string) (*data.Lineup, error) {
	return nil, data.ErrNotFound
}
func (Store) AddLineupPlayer(context.Context, string, string, data.LineupPlayer, int) error {
	return nil
}

func (Store) AddContract(context.Context, *data.Contract) error { return nil }
func (Store) GetContract(context.Context, string, string) (*data.Contract, error) {
	return nil, data.ErrNotFound
}
func (Store) ListContracts(context.Context, string) ([]data.Contract, error)           { return nil, nil }
func (Store) RemoveContract(context.Context, string, string) error                     { return nil }
func (Store) SetContractPaid(context.Context, string, string, bool) error              { return nil }
func (Store) SetContractMessage(context.Context, string, string, string, string) error { return nil }

func (Store) CreatePoll(context.Context, *data.PollRecord) error { return nil }
func (Store) GetPoll(context.Context, string) (*data.PollRecord, error) {
	return nil, data.ErrNotFound
}
func (Store) SavePollResponses(context.Context, string, [][]string) error    { return nil }
func (Store) SetPollMessage(context.Context, string, string, string) error { return nil }
func (Store) DeletePoll(context.Context, string) error                     { return nil }

func (Store) CreateSuggestion(context.Context, *data.Suggestion) error { return nil }
func (Store) LogCommand(context.Context, *data.CommandLog) error       { return nil }
func (Store) Stats(context.Context) (data.Stats, error)                { return data.Stats{}, nil }
