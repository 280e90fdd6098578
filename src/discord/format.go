package discord

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxMessageLen    = 2000
	MaxEmbedDescLen  = 4096
	MaxEmbedFieldLen = 1024
)

// Timestamp renders t as a Discord timestamp. Styles: t, T, d, D, f, F, R.
func Timestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

func MentionUser(id string) string    { return "<@" + id + ">" }
func MentionRole(id string) string    { return "<@&" + id + ">" }
func MentionChannel(id string) string { return "<#" + id + ">" }

// Truncate caps s at max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 3 {
		return string([]rune(s)[:max])
	}
	return string([]rune(s)[:max-3]) + "..."
}

// Uptime formats d as "2d 3h 4m".
func Uptime(d time.Duration) string {
	total := int64(d.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}

// SplitLines packs lines into chunks no longer than limit, breaking only
// between lines. A single overlong line is truncated.
func SplitLines(lines []string, limit int) []string {
	var chunks []string
	var cur strings.Builder
	for _, line := range lines {
		line = Truncate(line, limit)
		if cur.Len() > 0 && cur.Len()+1+len(line) > limit {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

// MessageURL links to a message.
func MessageURL(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}
