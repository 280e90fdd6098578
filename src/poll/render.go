package poll

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	colorOpen   = 0x5865F2
	colorClosed = 0x99AAB5

	fieldValueLimit = 1024
	buttonsPerRow   = 5
)

var attendanceStyles = []discordgo.ButtonStyle{
	discordgo.SuccessButton,
	discordgo.SecondaryButton,
	discordgo.DangerButton,
}

var numberEmoji = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣"}

// Label is the option label as shown on buttons and fields.
func (p *Poll) Label(option int) string {
	if option < 0 || option >= len(p.Options) {
		return ""
	}
	label := p.Options[option].Label
	switch p.Kind {
	case KindAttendance, KindActivity:
	default:
		if option < len(numberEmoji) {
			label = numberEmoji[option] + " " + label
		}
	}
	// Discord rejects button labels over 80 characters.
	if r := []rune(label); len(r) > maxLabelLen {
		label = string(r[:maxLabelLen])
	}
	return label
}

// Render builds the poll embed and its button rows.
func Render(p *Poll, now time.Time) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	closed := p.Closed(now)

	embed := &discordgo.MessageEmbed{
		Title:       p.Title,
		Description: p.Description,
		Color:       colorOpen,
		Timestamp:   p.CreatedAt.Format(time.RFC3339),
	}
	if closed {
		embed.Color = colorClosed
	}

	for i := range p.Options {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s (%d)", p.Label(i), p.Count(i)),
			Value:  mentionList(p.Responses[i], fieldValueLimit),
			Inline: p.Mode == ModeSingle && len(p.Options) <= 3,
		})
	}

	if p.ExpiresAt != nil {
		verb := "Closes"
		if closed {
			verb = "Closed"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  verb,
			Value: fmt.Sprintf("<t:%d:R>", p.ExpiresAt.Unix()),
		})
	}

	hint := "Pick one option"
	if p.Mode == ModeMulti {
		hint = "Select every option that works; click again to remove"
	}
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("%s • %d responded", hint, p.Respondents()),
	}

	return embed, buttons(p, closed)
}

func buttons(p *Poll, disabled bool) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for i := range p.Options {
		style := discordgo.PrimaryButton
		if p.Mode == ModeMulti {
			style = discordgo.SecondaryButton
		}
		if p.Kind == KindAttendance || p.Kind == KindActivity {
			style = attendanceStyles[i%len(attendanceStyles)]
		}
		row = append(row, discordgo.Button{
			Label:    p.Label(i),
			Style:    style,
			CustomID: CustomID(p.ID, i),
			Disabled: disabled,
		})
		if len(row) == buttonsPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}
	return rows
}

// mentionList joins user mentions, replacing the tail with "+N more" when the
// result would exceed limit.
func mentionList(ids []string, limit int) string {
	if len(ids) == 0 {
		return "None yet"
	}
	var b strings.Builder
	for i, id := range ids {
		piece := "<@" + id + ">"
		if i > 0 {
			piece = ", " + piece
		}
		reserve := 0
		if i < len(ids)-1 {
			reserve = len(fmt.Sprintf(" +%d more", len(ids)-i-1))
		}
		if b.Len()+len(piece)+reserve > limit {
			fmt.Fprintf(&b, " +%d more", len(ids)-i)
			return b.String()
		}
		b.WriteString(piece)
	}
	return b.String()
}

// Confirmation is the private acknowledgement sent to the clicker.
func Confirmation(p *Poll, ch Change) string {
	label := p.Options[ch.Option].Label
	switch {
	case ch.Noop:
		return fmt.Sprintf("You already selected **%s**.", label)
	case !ch.Selected:
		return fmt.Sprintf("Removed **%s** from your availability.", label)
	case ch.Previous >= 0:
		return fmt.Sprintf("Changed your response from **%s** to **%s**.", p.Options[ch.Previous].Label, label)
	case p.Mode == ModeMulti:
		return fmt.Sprintf("Added **%s** to your availability.", label)
	default:
		return fmt.Sprintf("You selected **%s**.", label)
	}
}
