// Package mysql implements data.Store on MySQL through gorm.
package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

var _ data.Store = (*Store)(nil)

// Open connects, pings and migrates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := Connect(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql connect: %w", err)
	}
	s := &Store{db: db}
	if err := s.Ping(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := db.WithContext(ctx).AutoMigrate(
		&data.Guild{},
		&data.User{},
		&data.League{},
		&data.Lineup{},
		&data.Contract{},
		&data.Award{},
		&data.Ring{},
		&data.PollRecord{},
		&data.Suggestion{},
		&data.CommandLog{},
		&data.Setting{},
	); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("mysql migrate: %w", err)
	}
	log.Info().Str("module", "store").Msg("connected to MySQL")
	return s, nil
}

func (s *Store) Driver() string { return "mysql" }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", data.ErrUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", data.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return data.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return data.ErrDuplicate
	default:
		return err
	}
}

func (s *Store) ListSettings(ctx context.Context) ([]data.Setting, error) {
	var out []data.Setting
	return out, translate(s.db.WithContext(ctx).Order("name").Find(&out).Error)
}

// mutateGuild loads the guild row for update, creating it when missing, and
// saves it after fn runs.
func (s *Store) mutateGuild(ctx context.Context, guildID string, fn func(g *data.Guild)) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g data.Guild
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&g, "guild_id = ?", guildID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			g = data.Guild{GuildID: guildID, Channels: map[string]string{}, Roles: map[string]string{}}
		case err != nil:
			return err
		}
		if g.Channels == nil {
			g.Channels = map[string]string{}
		}
		if g.Roles == nil {
			g.Roles = map[string]string{}
		}
		fn(&g)
		return tx.Save(&g).Error
	}))
}

func (s *Store) UpsertGuild(ctx context.Context, guildID, name string) error {
	return s.mutateGuild(ctx, guildID, func(g *data.Guild) {
		if name != "" {
			g.Name = name
		}
	})
}

func (s *Store) GetGuild(ctx context.Context, guildID string) (*data.Guild, error) {
	var g data.Guild
	if err := s.db.WithContext(ctx).First(&g, "guild_id = ?", guildID).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (s *Store) SetGuildChannel(ctx context.Context, guildID, key, channelID string) error {
	return s.mutateGuild(ctx, guildID, func(g *data.Guild) { g.Channels[key] = channelID })
}

func (s *Store) SetGuildRole(ctx context.Context, guildID, key, roleID string) error {
	return s.mutateGuild(ctx, guildID, func(g *data.Guild) { g.Roles[key] = roleID })
}

func (s *Store) MarkGuildSetup(ctx context.Context, guildID string) error {
	return s.mutateGuild(ctx, guildID, func(g *data.Guild) { g.SetupCompleted = true })
}

func (s *Store) SetPremium(ctx context.Context, guildID string, premium bool, expiresAt *time.Time) error {
	return s.mutateGuild(ctx, guildID, func(g *data.Guild) {
		g.Premium = premium
		g.PremiumExpiresAt = nil
		if premium && expiresAt != nil {
			t := *expiresAt
			g.PremiumExpiresAt = &t
		}
	})
}

func (s *Store) ListPremiumGuilds(ctx context.Context) ([]data.Guild, error) {
	var out []data.Guild
	return out, translate(s.db.WithContext(ctx).Where("premium = ?", true).Order("guild_id").Find(&out).Error)
}

func (s *Store) UpsertUser(ctx context.Context, userID, username string) error {
	u := data.User{UserID: userID, Username: username, UpdatedAt: time.Now()}
	return translate(s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "updated_at"}),
	}).Create(&u).Error)
}

func (s *Store) CreateLeague(ctx context.Context, league *data.League) error {
	league.Abbr = strings.ToUpper(league.Abbr)
	if league.ID == "" {
		league.ID = uuid.NewString()
	}
	return translate(s.db.WithContext(ctx).Create(league).Error)
}

func (s *Store) GetLeagueByAbbr(ctx context.Context, guildID, abbr string) (*data.League, error) {
	var l data.League
	err := s.db.WithContext(ctx).First(&l, "guild_id = ? AND abbr = ?", guildID, strings.ToUpper(abbr)).Error
	if err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *Store) ListLeagues(ctx context.Context, guildID string) ([]data.League, error) {
	var out []data.League
	return out, translate(s.db.WithContext(ctx).Where("guild_id = ?", guildID).Order("abbr").Find(&out).Error)
}

func (s *Store) DeleteLeague(ctx context.Context, guildID, abbr string) error {
	res := s.db.WithContext(ctx).Where("guild_id = ? AND abbr = ?", guildID, strings.ToUpper(abbr)).Delete(&data.League{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (s *Store) AddAward(ctx context.Context, award *data.Award) error {
	if award.ID == "" {
		award.ID = uuid.NewString()
	}
	return translate(s.db.WithContext(ctx).Create(award).Error)
}

func (s *Store) AddRing(ctx context.Context, ring *data.Ring) error {
	if ring.ID == "" {
		ring.ID = uuid.NewString()
	}
	return translate(s.db.WithContext(ctx).Create(ring).Error)
}

func (s *Store) ListAwards(ctx context.Context, guildID, userID string) ([]data.Award, error) {
	var out []data.Award
	err := s.db.WithContext(ctx).Where("guild_id = ? AND user_id = ?", guildID, userID).Order("created_at").Find(&out).Error
	return out, translate(err)
}

func (s *Store) ListRings(ctx context.Context, guildID, userID string) ([]data.Ring, error) {
	var out []data.Ring
	err := s.db.WithContext(ctx).Where("guild_id = ? AND user_id = ?", guildID, userID).Order("created_at").Find(&out).Error
	return out, translate(err)
}

func (s *Store) CreateLineup(ctx context.Context, lineup *data.Lineup) error {
	lineup.NameKey = strings.ToLower(lineup.Name)
	if lineup.ID == "" {
		lineup.ID = uuid.NewString()
	}
	if lineup.Players == nil {
		lineup.Players = []data.LineupPlayer{}
	}
	return translate(s.db.WithContext(ctx).Create(lineup).Error)
}

func (s *Store) GetLineup(ctx context.Context, guildID, name string) (*data.Lineup, error) {
	var l data.Lineup
	err := s.db.WithContext(ctx).First(&l, "guild_id = ? AND name_key = ?", guildID, strings.ToLower(name)).Error
	if err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *Store) ListLineups(ctx context.Context, guildID string) ([]data.Lineup, error) {
	var out []data.Lineup
	return out, translate(s.db.WithContext(ctx).Where("guild_id = ?", guildID).Order("name_key").Find(&out).Error)
}

func (s *Store) DeleteLineup(ctx context.Context, guildID, name string) error {
	res := s.db.WithContext(ctx).Where("guild_id = ? AND name_key = ?", guildID, strings.ToLower(name)).Delete(&data.Lineup{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return data.ErrNotFound
	}
	return nil
}

// mutateLineup runs fn on the locked lineup row and saves it when fn succeeds.
func (s *Store) mutateLineup(ctx context.Context, guildID, name string, fn func(l *data.Lineup) error) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l data.Lineup
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&l, "guild_id = ? AND name_key = ?", guildID, strings.ToLower(name)).Error
		if err != nil {
			return err
		}
		if err := fn(&l); err != nil {
			return err
		}
		return tx.Save(&l).Error
	}))
}

func (s *Store) AddLineupPlayer(ctx context.Context, guildID, name string, player data.LineupPlayer, max int) error {
	return s.mutateLineup(ctx, guildID, name, func(l *data.Lineup) error {
		for _, p := range l.Players {
			if p.UserID == player.UserID {
				return data.ErrDuplicate
			}
		}
		if max > 0 && len(l.Players) >= max {
			return data.ErrLineupFull
		}
		l.Players = append(l.Players, player)
		return nil
	})
}

func (s *Store) RemoveLineupPlayer(ctx context.Context, guildID, name, userID string) error {
	return s.mutateLineup(ctx, guildID, name, func(l *data.Lineup) error {
		for i, p := range l.Players {
			if p.UserID == userID {
				l.Players = append(l.Players[:i], l.Players[i+1:]...)
				return nil
			}
		}
		return data.ErrNotFound
	})
}

func (s *Store) SetLineupPosition(ctx context.Context, guildID, name, userID, position string) error {
	return s.mutateLineup(ctx, guildID, name, func(l *data.Lineup) error {
		for i := range l.Players {
			if l.Players[i].UserID == userID {
				l.Players[i].Position = position
				return nil
			}
		}
		return data.ErrNotFound
	})
}

func (s *Store) AddContract(ctx context.Context, c *data.Contract) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

func (s *Store) GetContract(ctx context.Context, guildID, userID string) (*data.Contract, error) {
	var c data.Contract
	if err := s.db.WithContext(ctx).First(&c, "guild_id = ? AND user_id = ?", guildID, userID).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) ListContracts(ctx context.Context, guildID string) ([]data.Contract, error) {
	var out []data.Contract
	return out, translate(s.db.WithContext(ctx).Where("guild_id = ?", guildID).Order("created_at").Find(&out).Error)
}

func (s *Store) RemoveContract(ctx context.Context, guildID, userID string) error {
	res := s.db.WithContext(ctx).Where("guild_id = ? AND user_id = ?", guildID, userID).Delete(&data.Contract{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (s *Store) updateContract(ctx context.Context, guildID, userID string, values map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&data.Contract{}).
		Where("guild_id = ? AND user_id = ?", guildID, userID).Updates(values)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero rows when the values are unchanged.
		if _, err := s.GetContract(ctx, guildID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) SetContractPaid(ctx context.Context, guildID, userID string, paid bool) error {
	return s.updateContract(ctx, guildID, userID, map[string]interface{}{"paid": paid})
}

func (s *Store) SetContractMessage(ctx context.Context, guildID, userID, channelID, messageID string) error {
	return s.updateContract(ctx, guildID, userID, map[string]interface{}{"channel_id": channelID, "message_id": messageID})
}

func (s *Store) CreatePoll(ctx context.Context, p *data.PollRecord) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s *Store) GetPoll(ctx context.Context, id string) (*data.PollRecord, error) {
	var p data.PollRecord
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) SavePollResponses(ctx context.Context, id string, responses [][]string) error {
	res := s.db.WithContext(ctx).Model(&data.PollRecord{ID: id}).Select("Responses", "UpdatedAt").
		Updates(&data.PollRecord{Responses: responses, UpdatedAt: time.Now()})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetPoll(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) SetPollMessage(ctx context.Context, id, channelID, messageID string) error {
	res := s.db.WithContext(ctx).Model(&data.PollRecord{ID: id}).Select("ChannelID", "MessageID", "UpdatedAt").
		Updates(&data.PollRecord{ChannelID: channelID, MessageID: messageID, UpdatedAt: time.Now()})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetPoll(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) DeletePoll(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&data.PollRecord{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (s *Store) CreateSuggestion(ctx context.Context, sg *data.Suggestion) error {
	if sg.ID == "" {
		sg.ID = uuid.NewString()
	}
	return translate(s.db.WithContext(ctx).Create(sg).Error)
}

func (s *Store) LogCommand(ctx context.Context, entry *data.CommandLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return translate(s.db.WithContext(ctx).Create(entry).Error)
}

func (s *Store) Stats(ctx context.Context) (data.Stats, error) {
	var st data.Stats
	db := s.db.WithContext(ctx)
	if err := db.Model(&data.Guild{}).Count(&st.TotalGuilds).Error; err != nil {
		return st, translate(err)
	}
	if err := db.Model(&data.Guild{}).Where("premium = ?", true).Count(&st.PremiumGuilds).Error; err != nil {
		return st, translate(err)
	}
	if err := db.Model(&data.User{}).Count(&st.TotalUsers).Error; err != nil {
		return st, translate(err)
	}
	if err := db.Model(&data.CommandLog{}).Count(&st.TotalCommands).Error; err != nil {
		return st, translate(err)
	}
	return st, nil
}
