package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	ColorDefault = 0x5865F2
	ColorPremium = 0xF1C40F
)

// Embed returns a blurple embed stamped with the current time.
func Embed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       ColorDefault,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func Success(title, description string) *discordgo.MessageEmbed {
	return Embed("✅ "+title, description)
}

func Error(title, description string) *discordgo.MessageEmbed {
	return Embed("❌ "+title, description)
}

func Warning(title, description string) *discordgo.MessageEmbed {
	return Embed("⚠️ "+title, description)
}

func Info(title, description string) *discordgo.MessageEmbed {
	return Embed("ℹ️ "+title, description)
}

// PremiumRequired is the standard upsell shown by premium-only commands.
func PremiumRequired(price string) *discordgo.MessageEmbed {
	e := Embed("💎 Premium Required", "This command is only available for premium servers.\nUse `/premium` to learn more.")
	e.Color = ColorPremium
	if price != "" {
		e.Fields = []*discordgo.MessageEmbedField{{Name: "Price", Value: price, Inline: true}}
	}
	return e
}

// PermissionDenied names the tier the command needs.
func PermissionDenied(required Level) *discordgo.MessageEmbed {
	return Error("Permission Denied", "You need **"+required.String()+"** permissions or higher to use this command.")
}
