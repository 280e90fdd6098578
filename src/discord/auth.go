package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/data"
)

// Level is a member's command permission tier.
type Level int

const (
	LevelEveryone Level = iota
	LevelStaff
	LevelCoach
	LevelManager
	LevelAdmin
	LevelOwner
)

func (l Level) String() string {
	switch l {
	case LevelStaff:
		return "Staff"
	case LevelCoach:
		return "Coach"
	case LevelManager:
		return "Manager"
	case LevelAdmin:
		return "Administrator"
	case LevelOwner:
		return "Bot Owner"
	default:
		return "Everyone"
	}
}

// roleLevels maps configured guild roles onto tiers. The anchor role is the
// team leader and ranks with coaches.
var roleLevels = map[string]Level{
	data.RoleStaff:   LevelStaff,
	data.RoleCoach:   LevelCoach,
	data.RoleAnchor:  LevelCoach,
	data.RoleManager: LevelManager,
}

// ResolveLevel returns the highest tier the member qualifies for.
func ResolveLevel(userID, ownerID string, member *discordgo.Member, guild *data.Guild) Level {
	if ownerID != "" && userID == ownerID {
		return LevelOwner
	}
	if member == nil {
		return LevelEveryone
	}
	if member.Permissions&discordgo.PermissionAdministrator != 0 {
		return LevelAdmin
	}

	level := LevelEveryone
	for key, tier := range roleLevels {
		if tier > level && HasRole(member, guild.Role(key)) {
			level = tier
		}
	}
	return level
}

// HasRole checks whether a member holds roleID. Empty roleID never matches.
func HasRole(member *discordgo.Member, roleID string) bool {
	if member == nil || roleID == "" {
		return false
	}
	for _, role := range member.Roles {
		if role == roleID {
			return true
		}
	}
	return false
}

// InteractionUser returns the invoking user for guild and DM interactions.
func InteractionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
