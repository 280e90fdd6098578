// Package messaging implements the role-wide DM commands.
package messaging

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/mrpepsi1069/LockerRoom/src/dm"
	"github.com/mrpepsi1069/LockerRoom/src/validation"
	"github.com/rs/zerolog/log"
)

const maxMessage = 1500

func Register(r *router.Router) {
	r.Handle(router.Command{
		Name:      discord.CommandDMMembers,
		Level:     discord.LevelCoach,
		GuildOnly: true,
		Run:       func(c *router.Context) error { return broadcast(c, embedMessage) },
	})
	r.Handle(router.Command{
		Name:      discord.CommandDMTCMembers,
		Level:     discord.LevelStaff,
		Premium:   true,
		GuildOnly: true,
		Run:       func(c *router.Context) error { return broadcast(c, plainMessage) },
	})
}

type builder func(c *router.Context, text string) *discordgo.MessageSend

func guildName(c *router.Context) string {
	if c.Guild.Name != "" {
		return c.Guild.Name
	}
	return "your server"
}

func embedMessage(c *router.Context, text string) *discordgo.MessageSend {
	e := discord.Embed("Message Received", "🔔 **Message:** "+text)
	e.Author = &discordgo.MessageEmbedAuthor{Name: guildName(c)}
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "👤 Sent By:", Value: fmt.Sprintf("%s %s", discord.MentionUser(c.User.ID), c.User.Username)},
		{Name: "🏠 Server:", Value: fmt.Sprintf("%s • %s", guildName(c), discord.MentionChannel(c.Interaction.ChannelID))},
	}
	return &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{e}}
}

func plainMessage(c *router.Context, text string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:         fmt.Sprintf("**Message:** %s\n**Sent By:** %s\n**Server:** %s", discord.WrapURLsNoEmbed(text), discord.MentionUser(c.User.ID), guildName(c)),
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
}

// broadcast DMs every non-bot holder of the role. One broadcast per command
// and guild may run per cooldown period; a broadcast that reaches nobody
// does not consume it.
func broadcast(c *router.Context, build builder) error {
	role := c.Options.Role("role")
	if role == nil {
		return router.Fail("Please choose a role.")
	}
	text := validation.Sanitize(c.Options.String("message"), maxMessage)
	if text == "" {
		return router.Fail("Message cannot be empty.")
	}

	key := c.Interaction.ApplicationCommandData().Name + ":" + c.GuildID()
	if wait, ok := c.Deps.Cooldowns.Take(key, c.Now()); !ok {
		return router.FailTitled("Slow Down", "A broadcast was sent recently. Try again %s.", discord.Timestamp(c.Now().Add(wait), "R"))
	}
	release := true
	defer func() {
		if release {
			c.Deps.Cooldowns.Release(key)
		}
	}()

	if err := c.Defer(true); err != nil {
		return err
	}
	recipients, err := dm.Members(c.Ctx, c.Session, c.GuildID(), role.ID)
	if err != nil {
		return err
	}
	eligible := 0
	for _, r := range recipients {
		if !r.Bot {
			eligible++
		}
	}
	if eligible == 0 {
		return router.FailTitled("No Members", "No members found with the %s role!", discord.MentionRole(role.ID))
	}
	release = false

	msg := build(c, text)
	res := c.Deps.DM.Send(c.Ctx, recipients, func(dm.Recipient) *discordgo.MessageSend { return msg })
	log.Info().Str("module", "messaging").Str("guild", c.GuildID()).Str("role", role.ID).
		Int("succeeded", res.Succeeded).Int("failed", res.Failed).Int("skipped", res.Skipped).Msg("broadcast finished")
	return c.Reply(ResultEmbed(role.ID, res))
}

// ResultEmbed reports a broadcast outcome.
func ResultEmbed(roleID string, res dm.Result) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("Successfully sent DM to **%d** member(s) with %s", res.Succeeded, discord.MentionRole(roleID))
	if res.Failed > 0 {
		desc += fmt.Sprintf("\n\n⚠️ Failed to DM **%d** member(s) (DMs disabled)", res.Failed)
	}
	if res.Skipped > 0 {
		desc += fmt.Sprintf("\nSkipped **%d** (bots, duplicates or cancelled)", res.Skipped)
	}
	return discord.Success("DMs Sent", desc)
}
