// Package moderation implements the staff moderation commands.
package moderation

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/mrpepsi1069/LockerRoom/src/dm"
	"github.com/mrpepsi1069/LockerRoom/src/logging"
	"github.com/mrpepsi1069/LockerRoom/src/validation"
	"github.com/rs/zerolog/log"
)

const (
	colorWarn = 0xFFA500
	colorBan  = 0xED4245

	noReason = "No reason provided"
)

func Register(r *router.Router) {
	for name, run := range map[string]router.Handler{
		discord.CommandTimeout:   timeout,
		discord.CommandAdminKick: kick,
		discord.CommandBan:       ban,
		discord.CommandRole:      addRole,
		discord.CommandUnrole:    removeRole,
		discord.CommandMuteVC:    muteVC,
		discord.CommandUnmuteVC:  unmuteVC,
	} {
		r.Handle(router.Command{Name: name, Level: discord.LevelStaff, GuildOnly: true, Run: run})
	}
}

// scene is what a moderation command needs to judge a target.
type scene struct {
	guild     *discordgo.Guild
	hierarchy Hierarchy
	actor     *discordgo.Member
	bot       *discordgo.Member
	user      *discordgo.User
	target    *discordgo.Member
}

// load resolves the guild, the bot member and the "user" option. target is
// nil when the user is not in the guild.
func load(c *router.Context) (*scene, error) {
	user := c.Options.User("user")
	if user == nil {
		return nil, router.Fail("Please choose a member.")
	}
	g, err := c.Session.Guild(c.GuildID(), discordgo.WithContext(c.Ctx))
	if err != nil {
		return nil, fmt.Errorf("load guild: %w", err)
	}
	sc := &scene{guild: g, hierarchy: NewHierarchy(g), actor: c.Member, user: user}
	if c.Session.State != nil && c.Session.State.User != nil {
		bot, err := c.Session.GuildMember(c.GuildID(), c.Session.State.User.ID, discordgo.WithContext(c.Ctx))
		if err != nil {
			return nil, fmt.Errorf("load bot member: %w", err)
		}
		if bot.User == nil {
			bot.User = c.Session.State.User
		}
		sc.bot = bot
	}
	target, err := c.Session.GuildMember(c.GuildID(), user.ID, discordgo.WithContext(c.Ctx))
	switch {
	case logging.IsNotFound(err):
	case err != nil:
		return nil, fmt.Errorf("load member: %w", err)
	default:
		if target.User == nil {
			target.User = user
		}
		sc.target = target
	}
	return sc, nil
}

func (sc *scene) requireTarget() error {
	if sc.target == nil {
		return router.FailTitled("User Not Found", "This user is not in the server!")
	}
	return nil
}

func reason(c *router.Context) string {
	if r := validation.Sanitize(c.Options.String("reason"), 400); r != "" {
		return r
	}
	return noReason
}

// notify DMs the target before the action lands. Delivery failures are
// ignored.
func notify(c *router.Context, user *discordgo.User, e *discordgo.MessageEmbed) {
	res := c.Deps.DM.Send(c.Ctx, []dm.Recipient{{ID: user.ID, Bot: user.Bot, Name: user.Username}}, func(dm.Recipient) *discordgo.MessageSend {
		return &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{e}}
	})
	if res.Succeeded == 0 {
		log.Debug().Str("module", "moderation").Str("user", user.ID).Msg("could not DM moderation notice")
	}
}

func auditReason(c *router.Context, r string) string {
	return fmt.Sprintf("%s | by %s", r, c.User.Username)
}

// FormatDuration renders minutes in the largest whole unit.
func FormatDuration(minutes int64) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minute(s)", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%d hour(s)", minutes/60)
	default:
		return fmt.Sprintf("%d day(s)", minutes/1440)
	}
}

func guildName(sc *scene) string {
	if sc.guild.Name != "" {
		return sc.guild.Name
	}
	return "the server"
}

func timeout(c *router.Context) error {
	minutes, _ := c.Options.Int("minutes")
	if minutes < 1 || minutes > 40320 {
		return router.Fail("Timeouts must be between 1 minute and 28 days.")
	}
	sc, err := load(c)
	if err != nil {
		return err
	}
	if err := sc.requireTarget(); err != nil {
		return err
	}
	if err := sc.hierarchy.CheckTarget("timeout", sc.actor, sc.target, sc.bot); err != nil {
		return err
	}
	r := reason(c)
	until := c.Now().Add(time.Duration(minutes) * time.Minute)

	dmEmbed := discord.Embed("⏱️ You have been timed out", fmt.Sprintf("You have been timed out in **%s**", guildName(sc)))
	dmEmbed.Color = colorWarn
	dmEmbed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Duration", Value: FormatDuration(minutes), Inline: true},
		{Name: "Reason", Value: r},
		{Name: "Timeout ends", Value: discord.Timestamp(until, "F")},
	}
	notify(c, sc.user, dmEmbed)

	if err := c.Session.GuildMemberTimeout(c.GuildID(), sc.user.ID, &until, discordgo.WithContext(c.Ctx)); err != nil {
		return err
	}
	e := discord.Embed("⏱️ User Timed Out", fmt.Sprintf("%s has been timed out", discord.MentionUser(sc.user.ID)))
	e.Color = colorWarn
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "User ID", Value: sc.user.ID, Inline: true},
		{Name: "Duration", Value: FormatDuration(minutes), Inline: true},
		{Name: "Timed out by", Value: discord.MentionUser(c.User.ID), Inline: true},
		{Name: "Reason", Value: r},
		{Name: "Timeout ends", Value: discord.Timestamp(until, "R")},
	}
	return c.Reply(e)
}

func kick(c *router.Context) error {
	sc, err := load(c)
	if err != nil {
		return err
	}
	if err := sc.requireTarget(); err != nil {
		return err
	}
	if err := sc.hierarchy.CheckTarget("kick", sc.actor, sc.target, sc.bot); err != nil {
		return err
	}
	r := reason(c)

	dmEmbed := discord.Embed("👢 You have been kicked", fmt.Sprintf("You have been kicked from **%s**", guildName(sc)))
	dmEmbed.Color = colorWarn
	dmEmbed.Fields = []*discordgo.MessageEmbedField{{Name: "Reason", Value: r}}
	notify(c, sc.user, dmEmbed)

	if err := c.Session.GuildMemberDeleteWithReason(c.GuildID(), sc.user.ID, auditReason(c, r), discordgo.WithContext(c.Ctx)); err != nil {
		return err
	}
	e := discord.Embed("👢 User Kicked", fmt.Sprintf("%s has been kicked from the server", discord.MentionUser(sc.user.ID)))
	e.Color = colorWarn
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "User ID", Value: sc.user.ID, Inline: true},
		{Name: "Kicked by", Value: discord.MentionUser(c.User.ID), Inline: true},
		{Name: "Reason", Value: r},
	}
	return c.Reply(e)
}

// ban also accepts users who already left the guild.
func ban(c *router.Context) error {
	sc, err := load(c)
	if err != nil {
		return err
	}
	r := reason(c)
	if sc.target != nil {
		if err := sc.hierarchy.CheckTarget("ban", sc.actor, sc.target, sc.bot); err != nil {
			return err
		}
		dmEmbed := discord.Embed("🔨 You have been banned", fmt.Sprintf("You have been banned from **%s**", guildName(sc)))
		dmEmbed.Color = colorBan
		dmEmbed.Fields = []*discordgo.MessageEmbedField{{Name: "Reason", Value: r}}
		notify(c, sc.user, dmEmbed)
	} else if sc.user.ID == c.User.ID {
		return router.FailTitled("Invalid Target", "You cannot ban yourself!")
	}
	days := int(c.Options.IntDefault("delete_days", 0))
	if days < 0 || days > 7 {
		days = 0
	}
	if err := c.Session.GuildBanCreateWithReason(c.GuildID(), sc.user.ID, auditReason(c, r), days, discordgo.WithContext(c.Ctx)); err != nil {
		return err
	}
	e := discord.Embed("🔨 User Banned", fmt.Sprintf("%s has been banned from the server", discord.MentionUser(sc.user.ID)))
	e.Color = colorBan
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "User ID", Value: sc.user.ID, Inline: true},
		{Name: "Banned by", Value: discord.MentionUser(c.User.ID), Inline: true},
		{Name: "Reason", Value: r},
		{Name: "Messages Deleted", Value: fmt.Sprintf("%d day(s)", days), Inline: true},
	}
	return c.Reply(e)
}

func addRole(c *router.Context) error   { return changeRole(c, true) }
func removeRole(c *router.Context) error { return changeRole(c, false) }

func changeRole(c *router.Context, add bool) error {
	role := c.Options.Role("role")
	if role == nil {
		return router.Fail("Please choose a role.")
	}
	sc, err := load(c)
	if err != nil {
		return err
	}
	if err := sc.requireTarget(); err != nil {
		return err
	}
	if err := sc.hierarchy.CheckRole(role.ID, sc.actor, sc.bot); err != nil {
		return err
	}
	has := discord.HasRole(sc.target, role.ID)
	mention := discord.MentionUser(sc.user.ID)
	if add {
		if has {
			return router.FailTitled("Already Has Role", "%s already has the role **%s**", mention, role.Name)
		}
		if err := c.Session.GuildMemberRoleAdd(c.GuildID(), sc.user.ID, role.ID, discordgo.WithContext(c.Ctx)); err != nil {
			return err
		}
		return c.Reply(discord.Success("Role Added", fmt.Sprintf("Added **%s** to %s", role.Name, mention)))
	}
	if !has {
		return router.FailTitled("Missing Role", "%s doesn't have the role **%s**", mention, role.Name)
	}
	if err := c.Session.GuildMemberRoleRemove(c.GuildID(), sc.user.ID, role.ID, discordgo.WithContext(c.Ctx)); err != nil {
		return err
	}
	return c.Reply(discord.Success("Role Removed", fmt.Sprintf("Removed **%s** from %s", role.Name, mention)))
}

func muteVC(c *router.Context) error   { return setVoiceMute(c, true) }
func unmuteVC(c *router.Context) error { return setVoiceMute(c, false) }

// setVoiceMute applies mute to everyone sharing the invoker's voice channel
// except the bot, skipping members already in the requested state.
func setVoiceMute(c *router.Context, mute bool) error {
	if c.Session.State == nil {
		return router.FailTitled("Not in Voice", "You must be in a voice channel to use this command.")
	}
	vs, err := c.Session.State.VoiceState(c.GuildID(), c.User.ID)
	if err != nil || vs.ChannelID == "" {
		return router.FailTitled("Not in Voice", "You must be in a voice channel to use this command.")
	}
	g, err := c.Session.State.Guild(c.GuildID())
	if err != nil {
		return err
	}
	botID := ""
	if c.Session.State.User != nil {
		botID = c.Session.State.User.ID
	}

	changed, failed := 0, 0
	for _, other := range g.VoiceStates {
		if other.ChannelID != vs.ChannelID || other.UserID == botID || other.Mute == mute {
			continue
		}
		if err := c.Session.GuildMemberMute(c.GuildID(), other.UserID, mute, discordgo.WithContext(c.Ctx)); err != nil {
			failed++
			log.Debug().Str("module", "moderation").Err(err).Str("user", other.UserID).Bool("mute", mute).Msg("voice mute failed")
			continue
		}
		changed++
	}

	title, verb := "Voice Channel Muted", "muted"
	if !mute {
		title, verb = "Voice Channel Unmuted", "unmuted"
	}
	desc := fmt.Sprintf("Successfully %s **%d** member(s) in %s", verb, changed, discord.MentionChannel(vs.ChannelID))
	if failed > 0 {
		desc += fmt.Sprintf("\n⚠️ %d member(s) could not be changed.", failed)
	}
	return c.Reply(discord.Success(title, desc))
}
