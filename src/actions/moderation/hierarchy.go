package moderation

import (
	"math"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
)

// Hierarchy answers role-position questions for one guild.
type Hierarchy struct {
	OwnerID   string
	positions map[string]int
}

func NewHierarchy(g *discordgo.Guild) Hierarchy {
	h := Hierarchy{OwnerID: g.OwnerID, positions: make(map[string]int, len(g.Roles))}
	for _, r := range g.Roles {
		h.positions[r.ID] = r.Position
	}
	return h
}

// RolePosition is the role's position, or 0 for unknown roles.
func (h Hierarchy) RolePosition(roleID string) int { return h.positions[roleID] }

// Highest is the position of the member's top role. The guild owner
// outranks everyone.
func (h Hierarchy) Highest(m *discordgo.Member) int {
	if m == nil {
		return 0
	}
	if m.User != nil && m.User.ID == h.OwnerID {
		return math.MaxInt
	}
	top := 0
	for _, id := range m.Roles {
		if p := h.positions[id]; p > top {
			top = p
		}
	}
	return top
}

// CheckTarget returns a user-facing error when actor or bot may not act on
// target.
func (h Hierarchy) CheckTarget(verb string, actor, target, bot *discordgo.Member) error {
	switch {
	case target.User.ID == actor.User.ID:
		return router.FailTitled("Invalid Target", "You cannot %s yourself!", verb)
	case target.User.ID == h.OwnerID:
		return router.FailTitled("Invalid Target", "You cannot %s the server owner!", verb)
	case bot != nil && bot.User != nil && target.User.ID == bot.User.ID:
		return router.FailTitled("Invalid Target", "I won't %s myself.", verb)
	case h.Highest(target) >= h.Highest(actor):
		return router.FailTitled("Permission Denied", "You cannot %s someone with an equal or higher role!", verb)
	case bot != nil && h.Highest(target) >= h.Highest(bot):
		return router.FailTitled("Bot Permission Error", "I cannot %s this user as their role is higher than mine!", verb)
	}
	return nil
}

// CheckRole returns a user-facing error when actor or bot may not manage
// roleID.
func (h Hierarchy) CheckRole(roleID string, actor, bot *discordgo.Member) error {
	pos := h.RolePosition(roleID)
	switch {
	case pos >= h.Highest(actor):
		return router.FailTitled("Permission Denied", "You cannot manage a role equal to or higher than your highest role!")
	case bot != nil && pos >= h.Highest(bot):
		return router.FailTitled("Bot Permission Denied", "I cannot manage this role because it is higher than my highest role!")
	}
	return nil
}
