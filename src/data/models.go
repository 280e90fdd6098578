package data

import "time"

// Channel routing keys configured by /setup.
const (
	ChannelHistory     = "history"
	ChannelLeagueLog   = "league_log"
	ChannelSignRequest = "sign_request"
	ChannelOfferAccept = "offer_accept"
	ChannelAwards      = "awards"
	ChannelContract    = "contract"
	ChannelSuggestions = "suggestions"
)

// Role routing keys configured by /setup.
const (
	RoleGametime = "gametime"
	RoleStaff    = "staff"
	RoleCoach    = "coach"
	RoleManager  = "manager"
	RoleAnchor   = "anchor"
)

// Guild holds per-community configuration.
type Guild struct {
	GuildID          string            `gorm:"primaryKey;size:32" bson:"_id"`
	Name             string            `gorm:"size:100" bson:"name"`
	Channels         map[string]string `gorm:"serializer:json;type:text" bson:"channels"`
	Roles            map[string]string `gorm:"serializer:json;type:text" bson:"roles"`
	SetupCompleted   bool              `bson:"setupCompleted"`
	Premium          bool              `gorm:"index" bson:"premium"`
	PremiumExpiresAt *time.Time        `bson:"premiumExpiresAt,omitempty"`
	CreatedAt        time.Time         `bson:"createdAt"`
	UpdatedAt        time.Time         `bson:"updatedAt"`
}

// Channel returns the configured channel for key, or "".
func (g *Guild) Channel(key string) string {
	if g == nil || g.Channels == nil {
		return ""
	}
	return g.Channels[key]
}

// Role returns the configured role for key, or "".
func (g *Guild) Role(key string) string {
	if g == nil || g.Roles == nil {
		return ""
	}
	return g.Roles[key]
}

// User is a known Discord user.
type User struct {
	UserID    string    `gorm:"primaryKey;size:32" bson:"_id"`
	Username  string    `gorm:"size:100" bson:"username"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// League is a competition a guild's team plays in. Abbr is stored uppercased.
type League struct {
	ID         string    `gorm:"primaryKey;size:36" bson:"_id"`
	GuildID    string    `gorm:"size:32;index:idx_league_guild_abbr,unique" bson:"guildId"`
	Abbr       string    `gorm:"size:10;index:idx_league_guild_abbr,unique" bson:"abbr"`
	Name       string    `gorm:"size:100;not null" bson:"name"`
	SignupLink string    `gorm:"size:255" bson:"signupLink,omitempty"`
	RoleID     string    `gorm:"size:32" bson:"roleId,omitempty"`
	CreatedBy  string    `gorm:"size:32" bson:"createdBy"`
	CreatedAt  time.Time `bson:"createdAt"`
}

// LineupPlayer is one slot in a lineup.
type LineupPlayer struct {
	UserID   string `json:"user_id" bson:"userId"`
	Position string `json:"position" bson:"position"`
}

// Lineup is a named roster. NameKey is the lowercased name used for lookups.
type Lineup struct {
	ID          string         `gorm:"primaryKey;size:36" bson:"_id"`
	GuildID     string         `gorm:"size:32;index:idx_lineup_guild_name,unique" bson:"guildId"`
	NameKey     string         `gorm:"size:100;index:idx_lineup_guild_name,unique" bson:"nameKey"`
	Name        string         `gorm:"size:100;not null" bson:"name"`
	Description string         `gorm:"size:500" bson:"description,omitempty"`
	Players     []LineupPlayer `gorm:"serializer:json;type:text" bson:"players"`
	CreatedBy   string         `gorm:"size:32" bson:"createdBy"`
	CreatedAt   time.Time      `bson:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt"`
}

// Contract is a player's contract; a user holds at most one per guild.
type Contract struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id"`
	GuildID   string    `gorm:"size:32;index:idx_contract_guild_user,unique" bson:"guildId"`
	UserID    string    `gorm:"size:32;index:idx_contract_guild_user,unique" bson:"userId"`
	Position  string    `gorm:"size:20" bson:"position"`
	Amount    int64     `bson:"amount"`
	Due       string    `gorm:"size:100" bson:"due"`
	Terms     string    `gorm:"size:500" bson:"terms"`
	Paid      bool      `bson:"paid"`
	ChannelID string    `gorm:"size:32" bson:"channelId,omitempty"`
	MessageID string    `gorm:"size:32" bson:"messageId,omitempty"`
	CreatedBy string    `gorm:"size:32" bson:"createdBy"`
	CreatedAt time.Time `bson:"createdAt"`
}

// Award is an individual award granted for a league season.
type Award struct {
	ID         string    `gorm:"primaryKey;size:36" bson:"_id"`
	GuildID    string    `gorm:"size:32;index:idx_award_unique,unique" bson:"guildId"`
	UserID     string    `gorm:"size:32;index:idx_award_unique,unique" bson:"userId"`
	LeagueID   string    `gorm:"size:36;index:idx_award_unique,unique" bson:"leagueId"`
	Name       string    `gorm:"size:100;index:idx_award_unique,unique" bson:"name"`
	Season     string    `gorm:"size:20;index:idx_award_unique,unique" bson:"season"`
	LeagueAbbr string    `gorm:"size:10" bson:"leagueAbbr"`
	LeagueName string    `gorm:"size:100" bson:"leagueName"`
	GivenBy    string    `gorm:"size:32" bson:"givenBy"`
	CreatedAt  time.Time `bson:"createdAt"`
}

// Ring is a championship ring for a league season.
type Ring struct {
	ID         string    `gorm:"primaryKey;size:36" bson:"_id"`
	GuildID    string    `gorm:"size:32;index:idx_ring_unique,unique" bson:"guildId"`
	UserID     string    `gorm:"size:32;index:idx_ring_unique,unique" bson:"userId"`
	LeagueID   string    `gorm:"size:36;index:idx_ring_unique,unique" bson:"leagueId"`
	Season     string    `gorm:"size:20;index:idx_ring_unique,unique" bson:"season"`
	LeagueAbbr string    `gorm:"size:10" bson:"leagueAbbr"`
	LeagueName string    `gorm:"size:100" bson:"leagueName"`
	Opponent   string    `gorm:"size:100" bson:"opponent,omitempty"`
	GivenBy    string    `gorm:"size:32" bson:"givenBy"`
	CreatedAt  time.Time `bson:"createdAt"`
}

// PollRecord is the persisted form of a poll. Responses[i] lists the users
// who selected Options[i], in click order.
type PollRecord struct {
	ID          string     `gorm:"primaryKey;size:36" bson:"_id"`
	Kind        string     `gorm:"size:20" bson:"kind"`
	Multi       bool       `bson:"multi"`
	GuildID     string     `gorm:"size:32;index" bson:"guildId"`
	ChannelID   string     `gorm:"size:32" bson:"channelId"`
	MessageID   string     `gorm:"size:32;index" bson:"messageId"`
	RoleID      string     `gorm:"size:32" bson:"roleId,omitempty"`
	LeagueID    string     `gorm:"size:36" bson:"leagueId,omitempty"`
	Title       string     `gorm:"size:256" bson:"title"`
	Description string     `gorm:"type:text" bson:"description"`
	Options     []string   `gorm:"serializer:json;type:text" bson:"options"`
	Responses   [][]string `gorm:"serializer:json;type:mediumtext" bson:"responses"`
	CreatedBy   string     `gorm:"size:32" bson:"createdBy"`
	CreatedAt   time.Time  `bson:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt"`
	ExpiresAt   *time.Time `bson:"expiresAt,omitempty"`
}

// Suggestion is free-form feedback submitted with /suggest.
type Suggestion struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id"`
	GuildID   string    `gorm:"size:32;index" bson:"guildId"`
	UserID    string    `gorm:"size:32" bson:"userId"`
	Text      string    `gorm:"type:text" bson:"text"`
	CreatedAt time.Time `bson:"createdAt"`
}

// CommandLog records a single command invocation.
type CommandLog struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id"`
	Command   string    `gorm:"size:32;index" bson:"command"`
	GuildID   string    `gorm:"size:32" bson:"guildId"`
	UserID    string    `gorm:"size:32" bson:"userId"`
	Timestamp time.Time `gorm:"index" bson:"timestamp"`
}

// Setting is a name/value configuration entry that overrides the environment.
type Setting struct {
	Name  string `gorm:"primaryKey;size:64" bson:"_id"`
	Value string `gorm:"type:text;not null" bson:"value"`
}

// Stats aggregates global bot usage.
type Stats struct {
	TotalGuilds   int64 `json:"total_guilds"`
	PremiumGuilds int64 `json:"premium_guilds"`
	TotalUsers    int64 `json:"total_users"`
	TotalCommands int64 `json:"total_commands"`
}
