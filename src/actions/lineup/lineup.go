// Package lineup implements /lineup.
package lineup

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
)

// MaxPlayers caps a lineup's roster.
const MaxPlayers = 15

var positionOrder = map[string]int{
	"qb":      1,
	"ol":      2,
	"te":      3,
	"streak":  4,
	"fold":    5,
	"los":     6,
	"short":   7,
	"deep":    8,
	"mlb":     9,
	"de":      10,
	"fs":      11,
	"flex":    12,
	"sub":     13,
	"backup":  13,
	"coach":   14,
	"manager": 15,
}

func positionRank(pos string) int {
	if r, ok := positionOrder[strings.ToLower(strings.TrimSpace(pos))]; ok {
		return r
	}
	return 99
}

// SortPlayers orders players offense first, then defense, then staff.
// Unknown positions go last; ties keep insertion order.
func SortPlayers(players []data.LineupPlayer) []data.LineupPlayer {
	out := append([]data.LineupPlayer(nil), players...)
	sort.SliceStable(out, func(i, j int) bool { return positionRank(out[i].Position) < positionRank(out[j].Position) })
	return out
}

// Embed renders a lineup for viewing or posting.
func Embed(l *data.Lineup) *discordgo.MessageEmbed {
	e := discord.Embed("📋 "+l.Name, l.Description)
	value := "No players added yet."
	if len(l.Players) > 0 {
		lines := make([]string, 0, len(l.Players))
		for _, p := range SortPlayers(l.Players) {
			lines = append(lines, fmt.Sprintf("**%s:** %s", p.Position, discord.MentionUser(p.UserID)))
		}
		value = discord.Truncate(strings.Join(lines, "\n"), discord.MaxEmbedFieldLen)
	}
	e.Fields = []*discordgo.MessageEmbedField{{Name: fmt.Sprintf("Players (%d/%d)", len(l.Players), MaxPlayers), Value: value}}
	return e
}
