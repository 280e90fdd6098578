// Package league implements /league and the league lookups other commands
// share.
package league

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/mrpepsi1069/LockerRoom/src/logging"
	"github.com/mrpepsi1069/LockerRoom/src/validation"
	"github.com/rs/zerolog/log"
)

const (
	recruitColor = 0xFFD700
	signupPrefix = "league:signup:"
)

// Register adds /league and the recruitment button.
func Register(r *router.Router) {
	r.Handle(router.Command{
		Name:      discord.CommandLeague,
		GuildOnly: true,
		Run:       handle,
		Complete:  completeAbbr,
	})
	r.HandleButton(signupPrefix, signup)
}

func handle(c *router.Context) error {
	switch c.Options.Sub {
	case "add":
		return add(c)
	case "delete":
		return remove(c)
	case "list":
		return list(c)
	case "recruit":
		return recruit(c)
	}
	return router.Fail("Unknown subcommand.")
}

// Lookup resolves an abbreviation typed by the invoker.
func Lookup(c *router.Context, raw string) (*data.League, error) {
	abbr, ok := validation.LeagueAbbr(raw)
	if !ok {
		return nil, router.FailTitled("Invalid Abbreviation", "League abbreviations are 2-10 letters or digits.")
	}
	l, err := c.Deps.Store.GetLeagueByAbbr(c.Ctx, c.GuildID(), abbr)
	if errors.Is(err, data.ErrNotFound) {
		return nil, router.FailTitled("League Not Found", "League **%s** does not exist.\nUse `/league add` first.", abbr)
	}
	return l, err
}

// Choices suggests leagues whose abbreviation or name contains value.
func Choices(c *router.Context, value string) []*discordgo.ApplicationCommandOptionChoice {
	leagues, err := c.Deps.Store.ListLeagues(c.Ctx, c.GuildID())
	if err != nil {
		return nil
	}
	value = strings.ToLower(strings.TrimSpace(value))
	var out []*discordgo.ApplicationCommandOptionChoice
	for _, l := range leagues {
		if value != "" && !strings.Contains(strings.ToLower(l.Abbr), value) && !strings.Contains(strings.ToLower(l.Name), value) {
			continue
		}
		out = append(out, &discordgo.ApplicationCommandOptionChoice{
			Name:  discord.Truncate(l.Abbr+" - "+l.Name, 100),
			Value: l.Abbr,
		})
		if len(out) == 25 {
			break
		}
	}
	return out
}

// CompleteLeague answers autocomplete for any option named "league".
func CompleteLeague(c *router.Context, option, value string) []*discordgo.ApplicationCommandOptionChoice {
	if option != "league" {
		return nil
	}
	return Choices(c, value)
}

func completeAbbr(c *router.Context, option, value string) []*discordgo.ApplicationCommandOptionChoice {
	if option != "abbreviation" {
		return nil
	}
	return Choices(c, value)
}

func add(c *router.Context) error {
	if err := c.Require(discord.LevelCoach); err != nil {
		return err
	}
	name := validation.Sanitize(c.Options.String("name"), 100)
	if name == "" {
		return router.Fail("League name cannot be empty.")
	}
	abbr, ok := validation.LeagueAbbr(c.Options.String("abbreviation"))
	if !ok {
		return router.FailTitled("Invalid Abbreviation", "League abbreviations are 2-10 letters or digits.")
	}
	signupURL := c.Options.String("signup")
	if signupURL != "" && !validation.URL(signupURL) {
		return router.FailTitled("Invalid Link", "The signup link must be an http(s) URL.")
	}
	if err := c.Defer(false); err != nil {
		return err
	}

	if _, err := c.Deps.Store.GetLeagueByAbbr(c.Ctx, c.GuildID(), abbr); err == nil {
		return router.FailTitled("Already Exists", "League **%s** already exists!", abbr)
	}

	league := &data.League{
		GuildID:    c.GuildID(),
		Abbr:       abbr,
		Name:       name,
		SignupLink: signupURL,
		CreatedBy:  c.User.ID,
	}
	mentionable := true
	role, err := c.Session.GuildRoleCreate(c.GuildID(), &discordgo.RoleParams{Name: abbr, Mentionable: &mentionable}, discordgo.WithContext(c.Ctx))
	if err != nil {
		log.Warn().Str("module", "league").Str("guild", c.GuildID()).Err(err).Msg("league role not created")
	} else {
		league.RoleID = role.ID
	}

	if err := c.Deps.Store.CreateLeague(c.Ctx, league); err != nil {
		if league.RoleID != "" {
			_ = c.Session.GuildRoleDelete(c.GuildID(), league.RoleID)
		}
		if errors.Is(err, data.ErrDuplicate) {
			return router.FailTitled("Already Exists", "League **%s** already exists!", abbr)
		}
		return err
	}

	logEmbed := discord.Embed("🏈 New League Added", fmt.Sprintf("**%s** (%s)", name, abbr))
	logEmbed.Fields = []*discordgo.MessageEmbedField{{Name: "Added By", Value: discord.MentionUser(c.User.ID), Inline: true}}
	if league.RoleID != "" {
		logEmbed.Fields = append(logEmbed.Fields, &discordgo.MessageEmbedField{Name: "Role", Value: discord.MentionRole(league.RoleID), Inline: true})
	}
	if signupURL != "" {
		logEmbed.Fields = append(logEmbed.Fields, &discordgo.MessageEmbedField{Name: "Signup Link", Value: signupURL})
	}
	c.Announce(data.ChannelLeagueLog, logEmbed)

	desc := fmt.Sprintf("**%s** (%s) has been added.\n\nUse `/league recruit %s` to post a recruitment message!", name, abbr, abbr)
	if league.RoleID == "" {
		desc += "\n\n⚠️ I couldn't create a league role. Give me the **Manage Roles** permission to enable sign-ups."
	}
	return c.Reply(discord.Success("League Added", desc))
}

func remove(c *router.Context) error {
	if err := c.Require(discord.LevelCoach); err != nil {
		return err
	}
	l, err := Lookup(c, c.Options.String("abbreviation"))
	if err != nil {
		return err
	}
	if err := c.Deps.Store.DeleteLeague(c.Ctx, c.GuildID(), l.Abbr); err != nil && !errors.Is(err, data.ErrNotFound) {
		return err
	}
	if l.RoleID != "" {
		if err := c.Session.GuildRoleDelete(c.GuildID(), l.RoleID, discordgo.WithContext(c.Ctx)); err != nil {
			log.Warn().Str("module", "league").Str("role", l.RoleID).Err(err).Msg("league role not deleted")
		}
	}

	logEmbed := discord.Embed("🗑️ League Deleted", fmt.Sprintf("**%s** (%s)", l.Name, l.Abbr))
	logEmbed.Fields = []*discordgo.MessageEmbedField{{Name: "Deleted By", Value: discord.MentionUser(c.User.ID), Inline: true}}
	c.Announce(data.ChannelLeagueLog, logEmbed)

	return c.Reply(discord.Success("League Deleted", fmt.Sprintf("**%s** (%s) has been deleted.", l.Name, l.Abbr)))
}

func list(c *router.Context) error {
	leagues, err := c.Deps.Store.ListLeagues(c.Ctx, c.GuildID())
	if err != nil {
		return err
	}
	if len(leagues) == 0 {
		return c.Reply(discord.Info("No Leagues", "No leagues found!\n\nUse `/league add` to create a league."))
	}
	var b strings.Builder
	for _, l := range leagues {
		fmt.Fprintf(&b, "**%s** - %s\n", l.Abbr, l.Name)
		role := "No role"
		if l.RoleID != "" {
			role = discord.MentionRole(l.RoleID)
		}
		fmt.Fprintf(&b, "└ Role: %s", role)
		if l.SignupLink != "" {
			fmt.Fprintf(&b, " • [Signup](%s)", l.SignupLink)
		}
		b.WriteString("\n\n")
	}
	e := discord.Embed("🏈 Active Leagues", discord.Truncate(b.String(), discord.MaxEmbedDescLen))
	e.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d league(s)", len(leagues))}
	return c.Reply(e)
}

// RecruitMessage builds the recruitment post for l.
func RecruitMessage(l *data.League, guildName string) *discordgo.MessageSend {
	e := discord.Embed("🏆 League Recruitment",
		fmt.Sprintf("Interested in joining **%s**?\nClick below to join the league or request a contract.", l.Name))
	e.Color = recruitColor
	e.Fields = []*discordgo.MessageEmbedField{{Name: "📋 League Info", Value: fmt.Sprintf("**%s** | %s", l.Name, l.Abbr)}}
	if guildName != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: guildName + " | Recruitment"}
	}

	var buttons []discordgo.MessageComponent
	if l.RoleID != "" {
		buttons = append(buttons, discordgo.Button{
			Label:    "Sign Me",
			Style:    discordgo.PrimaryButton,
			CustomID: signupPrefix + l.Abbr,
			Emoji:    &discordgo.ComponentEmoji{Name: "✍️"},
		})
	}
	if l.SignupLink != "" {
		buttons = append(buttons, discordgo.Button{
			Label: "Link to League",
			Style: discordgo.LinkButton,
			URL:   l.SignupLink,
			Emoji: &discordgo.ComponentEmoji{Name: "🔗"},
		})
	}
	msg := &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{e}}
	if len(buttons) > 0 {
		msg.Components = []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
	}
	return msg
}

func recruit(c *router.Context) error {
	if err := c.Require(discord.LevelCoach); err != nil {
		return err
	}
	l, err := Lookup(c, c.Options.String("abbreviation"))
	if err != nil {
		return err
	}
	msg := RecruitMessage(l, c.Guild.Name)
	if extra := validation.Sanitize(c.Options.String("message"), 1000); extra != "" {
		msg.Embeds[0].Description += "\n\n" + extra
	}

	channelID := c.Channel(data.ChannelSignRequest)
	if channelID == "" {
		channelID = c.Interaction.ChannelID
	}
	if _, err := c.Session.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(c.Ctx)); err != nil {
		if logging.IsMissingPermissions(err) {
			return router.FailTitled("Missing Permissions", "I can't post in %s.", discord.MentionChannel(channelID))
		}
		return err
	}
	return c.ReplyPrivate(discord.Success("📢 Recruitment Posted",
		fmt.Sprintf("Posted recruitment message for **%s** in %s!", l.Name, discord.MentionChannel(channelID))))
}

func signup(c *router.Context, customID string) error {
	abbr := strings.TrimPrefix(customID, signupPrefix)
	l, err := c.Deps.Store.GetLeagueByAbbr(c.Ctx, c.GuildID(), abbr)
	if errors.Is(err, data.ErrNotFound) || (err == nil && l.RoleID == "") {
		return router.Fail("This league is no longer accepting sign-ups.")
	}
	if err != nil {
		return err
	}
	if discord.HasRole(c.Member, l.RoleID) {
		return c.Notice(fmt.Sprintf("You're already signed up for **%s**.", l.Name))
	}
	if err := c.Session.GuildMemberRoleAdd(c.GuildID(), c.User.ID, l.RoleID, discordgo.WithContext(c.Ctx)); err != nil {
		return err
	}

	notice := discord.Embed("✍️ Sign Request", fmt.Sprintf("%s signed up for **%s** (%s).", discord.MentionUser(c.User.ID), l.Name, l.Abbr))
	c.Announce(data.ChannelSignRequest, notice)
	return c.Notice(fmt.Sprintf("✅ You've been signed up for **%s**!", l.Name))
}
