package contract

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
)

const (
	colorUnpaid = 0xFFD700
	colorPaid   = 0x2ECC71

	defaultTerms = "Standard player contract"
)

// Amount formats a contract amount as dollars with thousands separators.
func Amount(v int64) string { return "$" + humanize.Comma(v) }

// Embed renders the contract card posted to the contract channel.
func Embed(guildName string, ct *data.Contract) *discordgo.MessageEmbed {
	paid, color := "❌ **NO**", colorUnpaid
	if ct.Paid {
		paid, color = "✅ **YES**", colorPaid
	}
	terms := ct.Terms
	if terms == "" {
		terms = defaultTerms
	}
	e := discord.Embed("📜 PLAYER CONTRACT", fmt.Sprintf("**%s** has contracted a new player!", guildName))
	e.Color = color
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "👤 Player", Value: discord.MentionUser(ct.UserID), Inline: true},
		{Name: "🎮 Position", Value: ct.Position, Inline: true},
		{Name: "💰 Amount", Value: Amount(ct.Amount), Inline: true},
		{Name: "📅 Due Date", Value: ct.Due, Inline: true},
		{Name: "💳 Paid", Value: paid, Inline: true},
		{Name: "📋 Terms", Value: terms},
		{Name: "✍️ Contracted By", Value: discord.MentionUser(ct.CreatedBy)},
	}
	e.Footer = &discordgo.MessageEmbedFooter{Text: "Contract • " + guildName}
	return e
}

// Buttons returns the management row for a contract card.
func Buttons(ct *data.Contract) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			CustomID: paidPrefix + ct.UserID,
			Label:    "Mark as Paid",
			Style:    discordgo.SuccessButton,
			Emoji:    &discordgo.ComponentEmoji{Name: "💰"},
			Disabled: ct.Paid,
		},
		discordgo.Button{
			CustomID: deletePrefix + ct.UserID,
			Label:    "Delete Contract",
			Style:    discordgo.DangerButton,
			Emoji:    &discordgo.ComponentEmoji{Name: "🗑️"},
		},
	}}}
}

// Summary renders the /contract post overview for the filtered contracts.
func Summary(filter string, contracts []data.Contract) *discordgo.MessageEmbed {
	var paid, unpaid int64
	var lines []string
	for _, ct := range contracts {
		status, mark := "❌ UNPAID", "💰"
		if ct.Paid {
			status, mark = "✅ PAID", "💚"
			paid += ct.Amount
		} else {
			unpaid += ct.Amount
		}
		lines = append(lines, fmt.Sprintf("%s %s - %s\n└ Amount: %s | Due: %s | %s",
			mark, discord.MentionUser(ct.UserID), ct.Position, Amount(ct.Amount), ct.Due, status))
	}
	desc := "No contracts found"
	if len(lines) > 0 {
		desc = discord.Truncate(strings.Join(lines, "\n\n"), discord.MaxEmbedDescLen)
	}
	e := discord.Embed("📋 "+filterTitles[filter], desc)
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "💰 Total Unpaid", Value: Amount(unpaid), Inline: true},
		{Name: "💚 Total Paid", Value: Amount(paid), Inline: true},
		{Name: "📊 Total Contracts", Value: fmt.Sprint(len(contracts)), Inline: true},
	}
	return e
}

var filterTitles = map[string]string{
	"all":    "All Contracts",
	"paid":   "Paid Contracts",
	"unpaid": "Unpaid Contracts",
}

// Filter keeps contracts matching filter ("all", "paid" or "unpaid").
func Filter(contracts []data.Contract, filter string) []data.Contract {
	if filter == "all" {
		return contracts
	}
	var out []data.Contract
	for _, ct := range contracts {
		if ct.Paid == (filter == "paid") {
			out = append(out, ct)
		}
	}
	return out
}
