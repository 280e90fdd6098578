package router

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/rs/zerolog/log"
)

// Context carries one interaction through its handler.
type Context struct {
	Ctx         context.Context
	Session     *discordgo.Session
	Interaction *discordgo.Interaction
	Guild       *data.Guild
	User        *discordgo.User
	Member      *discordgo.Member
	Level       discord.Level
	Options     discord.Options
	Deps        *Deps

	deferred bool
	replied  bool
}

func (c *Context) GuildID() string { return c.Interaction.GuildID }

func (c *Context) Now() time.Time { return c.Deps.now() }

// Channel returns the guild's configured channel for key.
func (c *Context) Channel(key string) string { return c.Guild.Channel(key) }

// Reply answers publicly, or edits the deferred response.
func (c *Context) Reply(embeds ...*discordgo.MessageEmbed) error {
	return c.respond(false, embeds...)
}

// ReplyPrivate answers visible only to the invoker.
func (c *Context) ReplyPrivate(embeds ...*discordgo.MessageEmbed) error {
	return c.respond(true, embeds...)
}

// ReplyText answers publicly with plain content.
func (c *Context) ReplyText(content string) error {
	if c.deferred || c.replied {
		return discord.Followup(c.Session, c.Interaction, false, content)
	}
	c.replied = true
	return discord.ReplyText(c.Session, c.Interaction, false, content)
}

func (c *Context) respond(ephemeral bool, embeds ...*discordgo.MessageEmbed) error {
	switch {
	case c.deferred && !c.replied:
		c.replied = true
		return discord.EditReply(c.Session, c.Interaction, embeds...)
	case c.replied:
		return discord.Followup(c.Session, c.Interaction, ephemeral, "", embeds...)
	default:
		c.replied = true
		return discord.Reply(c.Session, c.Interaction, ephemeral, embeds...)
	}
}

// Defer acknowledges the interaction; later replies edit the placeholder.
func (c *Context) Defer(ephemeral bool) error {
	if c.deferred || c.replied {
		return nil
	}
	if err := discord.Defer(c.Session, c.Interaction, ephemeral); err != nil {
		return err
	}
	c.deferred = true
	return nil
}

// Update rewrites the message a component is attached to.
func (c *Context) Update(embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	if err := discord.UpdateMessage(c.Session, c.Interaction, embeds, components); err != nil {
		return err
	}
	c.replied = true
	return nil
}

// Notice sends a private plain-text message to the invoker.
func (c *Context) Notice(content string) error {
	if c.Responded() {
		return discord.Followup(c.Session, c.Interaction, true, content)
	}
	c.replied = true
	return discord.ReplyText(c.Session, c.Interaction, true, content)
}

// Followup sends an additional message after the first response.
func (c *Context) Followup(ephemeral bool, content string, embeds ...*discordgo.MessageEmbed) error {
	return discord.Followup(c.Session, c.Interaction, ephemeral, content, embeds...)
}

// Responded reports whether the interaction has been acknowledged.
func (c *Context) Responded() bool { return c.deferred || c.replied }

// Announce posts embed to the guild's channel for key. An unconfigured
// channel is skipped and failures are logged.
func (c *Context) Announce(key string, embed *discordgo.MessageEmbed) *discordgo.Message {
	channelID := c.Channel(key)
	if channelID == "" {
		return nil
	}
	msg, err := c.Session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(c.Ctx))
	if err != nil {
		log.Warn().Str("module", "router").Str("channel", key).Str("guild", c.GuildID()).Err(err).Msg("announcement failed")
		return nil
	}
	return msg
}
