// Package polls implements the scheduling and attendance commands and the
// poll button clicks.
package polls

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/actions/league"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/mrpepsi1069/LockerRoom/src/dm"
	"github.com/mrpepsi1069/LockerRoom/src/logging"
	"github.com/mrpepsi1069/LockerRoom/src/poll"
	"github.com/mrpepsi1069/LockerRoom/src/validation"
	"github.com/rs/zerolog/log"
)

const maxTimeLen = 80

func Register(r *router.Router) {
	r.Handle(router.Command{
		Name:      discord.CommandGametime,
		Level:     discord.LevelManager,
		GuildOnly: true,
		Run:       gametime,
		Complete:  league.CompleteLeague,
	})
	r.Handle(router.Command{
		Name:      discord.CommandTimes,
		Level:     discord.LevelManager,
		GuildOnly: true,
		Run:       times,
		Complete:  league.CompleteLeague,
	})
	r.Handle(router.Command{
		Name:      discord.CommandAttendance,
		Level:     discord.LevelManager,
		GuildOnly: true,
		Run:       attendance,
		Complete:  league.CompleteLeague,
	})
	r.Handle(router.Command{
		Name:      discord.CommandActivityCheck,
		Level:     discord.LevelManager,
		GuildOnly: true,
		Run:       activityCheck,
	})
	r.HandleButton(poll.CustomIDPrefix, click)
}

// timeOptions collects time1..time6 in order, skipping unset ones.
func timeOptions(c *router.Context) []string {
	var out []string
	for i := 1; i <= poll.MaxOptions; i++ {
		name := fmt.Sprintf("time%d", i)
		if c.Options.Has(name) {
			out = append(out, validation.Sanitize(c.Options.String(name), maxTimeLen))
		}
	}
	return out
}

func gametime(c *router.Context) error {
	l, err := league.Lookup(c, c.Options.String("league"))
	if err != nil {
		return err
	}
	roleID := c.Options.ID("role")
	p, msg, err := publish(c, poll.Spec{
		Kind:        poll.KindGametime,
		LeagueID:    l.ID,
		RoleID:      roleID,
		Title:       fmt.Sprintf("🎮 %s Game Time Poll", l.Name),
		Description: "**Which time works best for you?**",
		Options:     timeOptions(c),
		Window:      c.Deps.Config.PollWindow,
	})
	if err != nil {
		return err
	}

	if !c.Deps.Premium.IsPremium(c.Ctx, c.GuildID()) {
		return c.ReplyPrivate(discord.Success("Game Time Created",
			fmt.Sprintf("Poll created for **%s**\n💎 Upgrade to Premium for auto-DM reminders!", l.Name)))
	}

	if err := c.Defer(true); err != nil {
		return err
	}
	res, err := notifyMembers(c, p, msg)
	if err != nil {
		log.Warn().Str("module", "polls").Str("poll", p.ID).Err(err).Msg("member lookup failed")
		return c.Reply(discord.Success("Game Time Created",
			fmt.Sprintf("Poll created for **%s**\n⚠️ Couldn't fetch role members to DM.", l.Name)))
	}
	return c.Reply(discord.Success("Game Time Created",
		fmt.Sprintf("Poll created for **%s**\n✨ Premium: DMed %d player(s), %d failed, %d skipped.",
			l.Name, res.Succeeded, res.Failed, res.Skipped)))
}

// notifyMembers DMs every member of the poll's role a link to it.
func notifyMembers(c *router.Context, p *poll.Poll, msg *discordgo.Message) (dm.Result, error) {
	recipients, err := dm.Members(c.Ctx, c.Session, c.GuildID(), p.RoleID)
	if err != nil {
		return dm.Result{}, err
	}
	guildName := c.Guild.Name
	if guildName == "" {
		guildName = "your server"
	}
	var lines []string
	for i := range p.Options {
		lines = append(lines, p.Label(i))
	}
	embed := discord.Embed(p.Title, fmt.Sprintf("A new game time poll was created in **%s**.\n\n**Time Options:**\n%s\n\n[Jump to Poll](%s)",
		guildName, strings.Join(lines, "\n"), discord.MessageURL(c.GuildID(), msg.ChannelID, msg.ID)))
	return c.Deps.DM.Send(c.Ctx, recipients, func(dm.Recipient) *discordgo.MessageSend {
		return &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}
	}), nil
}

func times(c *router.Context) error {
	name := "Game"
	leagueID := ""
	if raw := c.Options.String("league"); raw != "" {
		if l, err := league.Lookup(c, raw); err == nil {
			name, leagueID = l.Name, l.ID
		} else {
			name = validation.Sanitize(raw, 100)
		}
	}
	desc := "**Which times work for you?** Pick every time you can make."
	if extra := validation.Sanitize(c.Options.String("message"), 1000); extra != "" {
		desc = extra + "\n\n" + desc
	}
	_, _, err := publish(c, poll.Spec{
		Kind:        poll.KindTimes,
		LeagueID:    leagueID,
		RoleID:      c.Options.ID("role"),
		Title:       fmt.Sprintf("🎮 %s - Time Options", name),
		Description: desc,
		Options:     timeOptions(c),
		Window:      c.Deps.Config.PollWindow,
	})
	if err != nil {
		return err
	}
	return c.ReplyPrivate(discord.Success("Time Poll Posted", "Players can pick every time that works for them."))
}

func attendance(c *router.Context) error {
	when := validation.Sanitize(c.Options.String("time"), maxTimeLen)
	if when == "" {
		return router.Fail("Please give the game time.")
	}
	title := "📋 Attendance"
	leagueID := ""
	if raw := c.Options.String("league"); raw != "" {
		l, err := league.Lookup(c, raw)
		if err != nil {
			return err
		}
		title += " - " + l.Name
		leagueID = l.ID
	}
	_, _, err := publish(c, poll.Spec{
		Kind:        poll.KindAttendance,
		LeagueID:    leagueID,
		RoleID:      c.Options.ID("role"),
		Title:       title,
		Description: fmt.Sprintf("Game at **%s**. Are you attending?", when),
		Options:     poll.AttendanceOptions,
		Window:      c.Deps.Config.PollWindow,
	})
	if err != nil {
		return err
	}
	return c.ReplyPrivate(discord.Success("Attendance Poll Posted", fmt.Sprintf("Tracking attendance for **%s**.", when)))
}

func activityCheck(c *router.Context) error {
	hours := c.Options.IntDefault("duration", 24)
	if hours < 1 || hours > 168 {
		return router.Fail("Duration must be between 1 and 168 hours.")
	}
	window := time.Duration(hours) * time.Hour
	expires := c.Now().Add(window)
	_, _, err := publish(c, poll.Spec{
		Kind:        poll.KindActivity,
		RoleID:      c.Options.ID("role"),
		Title:       "✅ Activity Check",
		Description: fmt.Sprintf("**Confirm you're active!**\n\nExpires %s", discord.Timestamp(expires, "R")),
		Options:     poll.ActivityOptions,
		Window:      window,
	})
	if err != nil {
		return err
	}
	return c.ReplyPrivate(discord.Success("Activity Check Created", fmt.Sprintf("Activity check will expire in **%d hour(s)**", hours)))
}

// publish validates spec, registers the poll and posts it to the invoking
// channel. Nothing is sent when validation fails.
func publish(c *router.Context, spec poll.Spec) (*poll.Poll, *discordgo.Message, error) {
	spec.Mode = spec.Kind.DefaultMode()
	spec.GuildID = c.GuildID()
	spec.ChannelID = c.Interaction.ChannelID
	spec.CreatedBy = c.User.ID
	spec.Now = c.Now()

	p, err := poll.New(spec)
	switch {
	case errors.Is(err, poll.ErrTooFewOptions):
		return nil, nil, router.FailTitled("Not Enough Options", "A poll needs at least %d options.", poll.MinOptions)
	case errors.Is(err, poll.ErrTooManyOptions):
		return nil, nil, router.FailTitled("Too Many Options", "A poll can have at most %d options.", poll.MaxOptions)
	case err != nil:
		return nil, nil, err
	}

	if err := c.Deps.Polls.Register(c.Ctx, p); err != nil {
		return nil, nil, err
	}

	embed, components := poll.Render(p, c.Now())
	send := &discordgo.MessageSend{
		Embeds:          []*discordgo.MessageEmbed{embed},
		Components:      components,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if p.RoleID != "" {
		send.Content = discord.MentionRole(p.RoleID)
		send.AllowedMentions.Roles = []string{p.RoleID}
	}
	msg, err := c.Session.ChannelMessageSendComplex(spec.ChannelID, send, discordgo.WithContext(c.Ctx))
	if err != nil {
		if derr := c.Deps.Polls.Discard(c.Ctx, p.ID); derr != nil {
			log.Warn().Str("module", "polls").Str("poll", p.ID).Err(derr).Msg("discard failed")
		}
		log.Warn().Str("module", "polls").Str("channel", spec.ChannelID).Err(err).Msg("poll not posted")
		if logging.IsMissingPermissions(err) {
			return nil, nil, router.FailTitled("Missing Permissions",
				"I can't post in this channel. I need **Send Messages** and **Embed Links**.")
		}
		return nil, nil, err
	}
	if msg.ChannelID == "" {
		msg.ChannelID = spec.ChannelID
	}
	if err := c.Deps.Polls.Attach(c.Ctx, p.ID, msg.ChannelID, msg.ID); err != nil {
		log.Warn().Str("module", "polls").Str("poll", p.ID).Err(err).Msg("poll message not recorded")
	}
	p.ChannelID, p.MessageID = msg.ChannelID, msg.ID
	log.Info().Str("module", "polls").Str("poll", p.ID).Str("kind", string(p.Kind)).
		Int("options", len(p.Options)).Str("guild", p.GuildID).Msg("poll created")
	return p, msg, nil
}

func click(c *router.Context, customID string) error {
	pollID, option, err := poll.ParseCustomID(customID)
	if err != nil {
		return router.Fail("This button is not valid anymore.")
	}

	rendered := false
	change, snap, err := c.Deps.Polls.Respond(c.Ctx, pollID, c.User.ID, option, func(p *poll.Poll) error {
		rendered = true
		embed, components := poll.Render(p, c.Now())
		return c.Update([]*discordgo.MessageEmbed{embed}, components)
	})
	switch {
	case errors.Is(err, poll.ErrNotFound):
		return router.Fail("This poll no longer exists.")
	case errors.Is(err, poll.ErrClosed):
		embed, components := poll.Render(snap, c.Now())
		if uerr := c.Update([]*discordgo.MessageEmbed{embed}, components); uerr != nil {
			log.Debug().Str("module", "polls").Str("poll", pollID).Err(uerr).Msg("closed render failed")
		}
		return c.Notice("⏰ This poll has closed.")
	case errors.Is(err, poll.ErrInvalidOption):
		return router.Fail("That option does not exist on this poll.")
	case err != nil && !rendered:
		return err
	case err != nil:
		// The response is saved; only the message edit failed.
		log.Warn().Str("module", "polls").Str("poll", pollID).Err(err).Msg("poll render failed")
	}
	return c.Notice(poll.Confirmation(snap, change))
}
