// Package premium tracks per-guild premium status.
package premium

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/rs/zerolog/log"
)

type Status struct {
	IsPremium     bool       `json:"is_premium"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	DaysRemaining int        `json:"days_remaining"`
	Lifetime      bool       `json:"lifetime"`
}

type Service struct {
	guilds data.GuildStore
	now    func() time.Time
}

func NewService(guilds data.GuildStore) *Service {
	return &Service{guilds: guilds, now: time.Now}
}

// Status reports the guild's premium state. Expired grants are revoked on
// read.
func (s *Service) Status(ctx context.Context, guildID string) (Status, error) {
	g, err := s.guilds.GetGuild(ctx, guildID)
	if errors.Is(err, data.ErrNotFound) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, err
	}
	if !g.Premium {
		return Status{}, nil
	}
	if g.PremiumExpiresAt == nil {
		return Status{IsPremium: true, Lifetime: true}, nil
	}

	now := s.now()
	if !now.Before(*g.PremiumExpiresAt) {
		if err := s.guilds.SetPremium(ctx, guildID, false, nil); err != nil {
			log.Warn().Str("module", "premium").Str("guild", guildID).Err(err).Msg("failed to revoke expired premium")
		} else {
			log.Info().Str("module", "premium").Str("guild", guildID).Msg("premium expired")
		}
		return Status{}, nil
	}

	exp := *g.PremiumExpiresAt
	return Status{
		IsPremium:     true,
		ExpiresAt:     &exp,
		DaysRemaining: int(math.Ceil(exp.Sub(now).Hours() / 24)),
	}, nil
}

// IsPremium is Status that treats store failures as not premium.
func (s *Service) IsPremium(ctx context.Context, guildID string) bool {
	st, err := s.Status(ctx, guildID)
	if err != nil {
		log.Warn().Str("module", "premium").Str("guild", guildID).Err(err).Msg("premium check failed")
		return false
	}
	return st.IsPremium
}

// Grant enables premium for days from now; 0 grants lifetime.
func (s *Service) Grant(ctx context.Context, guildID string, days int) (Status, error) {
	if days < 0 {
		return Status{}, fmt.Errorf("premium: negative duration %d", days)
	}
	var expires *time.Time
	if days > 0 {
		t := s.now().Add(time.Duration(days) * 24 * time.Hour)
		expires = &t
	}
	if err := s.guilds.SetPremium(ctx, guildID, true, expires); err != nil {
		return Status{}, fmt.Errorf("grant premium: %w", err)
	}
	if expires == nil {
		return Status{IsPremium: true, Lifetime: true}, nil
	}
	return Status{IsPremium: true, ExpiresAt: expires, DaysRemaining: days}, nil
}

// Revoke clears premium. A guild without premium is left untouched.
func (s *Service) Revoke(ctx context.Context, guildID string) (bool, error) {
	g, err := s.guilds.GetGuild(ctx, guildID)
	if errors.Is(err, data.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !g.Premium {
		return false, nil
	}
	if err := s.guilds.SetPremium(ctx, guildID, false, nil); err != nil {
		return false, fmt.Errorf("revoke premium: %w", err)
	}
	return true, nil
}
