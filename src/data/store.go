package data

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("data: not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	// The existing record is left untouched.
	ErrDuplicate = errors.New("data: duplicate")
	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("data: store unavailable")
	// ErrLineupFull is returned when adding a player to a lineup at capacity.
	ErrLineupFull = errors.New("data: lineup full")
)

type GuildStore interface {
	// UpsertGuild creates the guild if missing and refreshes its name.
	UpsertGuild(ctx context.Context, guildID, name string) error
	GetGuild(ctx context.Context, guildID string) (*Guild, error)
	SetGuildChannel(ctx context.Context, guildID, key, channelID string) error
	SetGuildRole(ctx context.Context, guildID, key, roleID string) error
	MarkGuildSetup(ctx context.Context, guildID string) error
	// SetPremium sets the premium flag. A nil expiry means lifetime.
	SetPremium(ctx context.Context, guildID string, premium bool, expiresAt *time.Time) error
	ListPremiumGuilds(ctx context.Context) ([]Guild, error)
}

type UserStore interface {
	UpsertUser(ctx context.Context, userID, username string) error
}

type LeagueStore interface {
	CreateLeague(ctx context.Context, league *League) error
	GetLeagueByAbbr(ctx context.Context, guildID, abbr string) (*League, error)
	ListLeagues(ctx context.Context, guildID string) ([]League, error)
	DeleteLeague(ctx context.Context, guildID, abbr string) error
}

type AwardStore interface {
	AddAward(ctx context.Context, award *Award) error
	AddRing(ctx context.Context, ring *Ring) error
	ListAwards(ctx context.Context, guildID, userID string) ([]Award, error)
	ListRings(ctx context.Context, guildID, userID string) ([]Ring, error)
}

type LineupStore interface {
	CreateLineup(ctx context.Context, lineup *Lineup) error
	GetLineup(ctx context.Context, guildID, name string) (*Lineup, error)
	ListLineups(ctx context.Context, guildID string) ([]Lineup, error)
	DeleteLineup(ctx context.Context, guildID, name string) error
	// AddLineupPlayer appends a player, failing with ErrDuplicate if the user
	// already holds a slot and ErrLineupFull once max players are present.
	AddLineupPlayer(ctx context.Context, guildID, name string, player LineupPlayer, max int) error
	RemoveLineupPlayer(ctx context.Context, guildID, name, userID string) error
	SetLineupPosition(ctx context.Context, guildID, name, userID, position string) error
}

type ContractStore interface {
	AddContract(ctx context.Context, contract *Contract) error
	GetContract(ctx context.Context, guildID, userID string) (*Contract, error)
	ListContracts(ctx context.Context, guildID string) ([]Contract, error)
	RemoveContract(ctx context.Context, guildID, userID string) error
	SetContractPaid(ctx context.Context, guildID, userID string, paid bool) error
	SetContractMessage(ctx context.Context, guildID, userID, channelID, messageID string) error
}

type PollStore interface {
	CreatePoll(ctx context.Context, poll *PollRecord) error
	GetPoll(ctx context.Context, id string) (*PollRecord, error)
	SavePollResponses(ctx context.Context, id string, responses [][]string) error
	// SetPollMessage records where the poll was posted.
	SetPollMessage(ctx context.Context, id, channelID, messageID string) error
	DeletePoll(ctx context.Context, id string) error
}

type SuggestionStore interface {
	CreateSuggestion(ctx context.Context, s *Suggestion) error
}

type AuditStore interface {
	LogCommand(ctx context.Context, entry *CommandLog) error
	Stats(ctx context.Context) (Stats, error)
}

type SettingsStore interface {
	ListSettings(ctx context.Context) ([]Setting, error)
}

// Store is the full persistence surface used by the bot.
type Store interface {
	GuildStore
	UserStore
	LeagueStore
	AwardStore
	LineupStore
	ContractStore
	PollStore
	SuggestionStore
	AuditStore
	SettingsStore
	io.Closer

	Ping(ctx context.Context) error
	Driver() string
}
