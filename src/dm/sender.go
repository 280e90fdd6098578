package dm

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// SessionSender delivers through a live Discord session.
type SessionSender struct {
	Session *discordgo.Session
}

func (s SessionSender) Send(ctx context.Context, userID string, msg *discordgo.MessageSend) error {
	ch, err := s.Session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	_, err = s.Session.ChannelMessageSendComplex(ch.ID, msg, discordgo.WithContext(ctx))
	return err
}

// MemberLister is the part of *discordgo.Session used to enumerate members.
type MemberLister interface {
	GuildMembers(guildID, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
}

const memberPage = 1000

// Members pages through the guild and returns members holding roleID, or
// every member when roleID is empty.
func Members(ctx context.Context, s MemberLister, guildID, roleID string) ([]Recipient, error) {
	var out []Recipient
	after := ""
	for {
		page, err := s.GuildMembers(guildID, after, memberPage, discordgo.WithContext(ctx))
		if err != nil {
			return out, err
		}
		for _, m := range page {
			if m.User == nil {
				continue
			}
			if roleID != "" && !hasRole(m, roleID) {
				continue
			}
			out = append(out, Recipient{ID: m.User.ID, Bot: m.User.Bot, Name: m.User.Username})
		}
		if len(page) < memberPage {
			return out, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func hasRole(m *discordgo.Member, roleID string) bool {
	for _, r := range m.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}
