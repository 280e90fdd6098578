package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Reply answers an interaction with embeds. Ephemeral replies are only
// visible to the invoker.
func Reply(s *discordgo.Session, i *discordgo.Interaction, ephemeral bool, embeds ...*discordgo.MessageEmbed) error {
	data := &discordgo.InteractionResponseData{Embeds: embeds}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Warn().Str("module", "discord").Str("interaction", i.ID).Err(err).Msg("interaction reply failed")
	}
	return err
}

// ReplyError sends an ephemeral error embed.
func ReplyError(s *discordgo.Session, i *discordgo.Interaction, title, description string) error {
	return Reply(s, i, true, Error(title, description))
}

// ReplyText answers with plain content.
func ReplyText(s *discordgo.Session, i *discordgo.Interaction, ephemeral bool, content string) error {
	data := &discordgo.InteractionResponseData{
		Content:         content,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// Defer acknowledges an interaction that needs more than three seconds.
func Defer(s *discordgo.Session, i *discordgo.Interaction, ephemeral bool) error {
	resp := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	return s.InteractionRespond(i, resp)
}

// EditReply replaces the deferred response's embeds.
func EditReply(s *discordgo.Session, i *discordgo.Interaction, embeds ...*discordgo.MessageEmbed) error {
	_, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{Embeds: &embeds})
	if err != nil {
		log.Warn().Str("module", "discord").Str("interaction", i.ID).Err(err).Msg("interaction edit failed")
	}
	return err
}

// Followup posts an additional message after the initial response.
func Followup(s *discordgo.Session, i *discordgo.Interaction, ephemeral bool, content string, embeds ...*discordgo.MessageEmbed) error {
	params := &discordgo.WebhookParams{
		Content:         content,
		Embeds:          embeds,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	_, err := s.FollowupMessageCreate(i, true, params)
	if err != nil {
		log.Warn().Str("module", "discord").Str("interaction", i.ID).Err(err).Msg("followup failed")
	}
	return err
}

// UpdateMessage edits the message a component was attached to as the
// interaction response.
func UpdateMessage(s *discordgo.Session, i *discordgo.Interaction, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     embeds,
			Components: components,
		},
	})
}

// Autocomplete returns choices for an autocomplete interaction.
func Autocomplete(s *discordgo.Session, i *discordgo.Interaction, choices []*discordgo.ApplicationCommandOptionChoice) error {
	if len(choices) > 25 {
		choices = choices[:25]
	}
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}
