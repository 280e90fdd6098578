// Package membership implements the premium commands.
package membership

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/mrpepsi1069/LockerRoom/src/logging"
	"github.com/mrpepsi1069/LockerRoom/src/premium"
	"github.com/mrpepsi1069/LockerRoom/src/validation"
	"github.com/rs/zerolog/log"
)

const maxNickname = 32

func Register(r *router.Router) {
	r.Handle(router.Command{Name: discord.CommandPremium, Run: info})
	r.Handle(router.Command{Name: discord.CommandAddPremium, Level: discord.LevelOwner, Run: grant})
	r.Handle(router.Command{Name: discord.CommandRevokePremium, Level: discord.LevelOwner, Run: revoke})
	r.Handle(router.Command{
		Name:      discord.CommandChangeBotName,
		Level:     discord.LevelAdmin,
		Premium:   true,
		GuildOnly: true,
		Run:       changeBotName,
	})
}

// StatusLine describes a premium status for humans.
func StatusLine(st premium.Status) string {
	switch {
	case !st.IsPremium:
		return "❌ This server does not have premium."
	case st.Lifetime:
		return "✅ This server has **lifetime** premium."
	default:
		return fmt.Sprintf("✅ Premium until %s (%d day(s) left).", discord.Timestamp(*st.ExpiresAt, "D"), st.DaysRemaining)
	}
}

func info(c *router.Context) error {
	e := discord.Embed("💎 LockerRoom Premium", "Unlock extra features for your team.")
	e.Color = discord.ColorPremium
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "✨ Premium Features", Value: "• Auto-DM game times to team members\n• DM team roles with announcements\n• Custom bot nickname"},
	}
	if c.Deps.Config.PremiumPrice != "" {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "💰 Price", Value: c.Deps.Config.PremiumPrice, Inline: true})
	}
	if c.GuildID() != "" {
		st, err := c.Deps.Premium.Status(c.Ctx, c.GuildID())
		if err != nil {
			return err
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "📊 This Server", Value: StatusLine(st)})
	}
	if url := c.Deps.Config.SupportURL; url != "" {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "🛒 How to Purchase", Value: fmt.Sprintf("[Join our support server](%s) and open a ticket.", url)})
	}
	return c.Reply(e)
}

// targetGuild validates the guild_id option and resolves the guild's name
// from the session state or the store.
func targetGuild(c *router.Context) (id, name string, err error) {
	id = validation.Sanitize(c.Options.String("guild_id"), 32)
	if _, perr := strconv.ParseUint(id, 10, 64); perr != nil {
		return "", "", router.FailTitled("Invalid Server ID", "`%s` is not a server ID.", id)
	}
	if c.Session.State != nil {
		if g, serr := c.Session.State.Guild(id); serr == nil {
			return id, g.Name, nil
		}
	}
	g, err := c.Deps.Store.GetGuild(c.Ctx, id)
	if errors.Is(err, data.ErrNotFound) {
		return "", "", router.FailTitled("Guild Not Found", "The bot is not in that server.")
	}
	if err != nil {
		return "", "", err
	}
	name = g.Name
	if name == "" {
		name = id
	}
	return id, name, nil
}

func grant(c *router.Context) error {
	id, name, err := targetGuild(c)
	if err != nil {
		return err
	}
	days := int(c.Options.IntDefault("days", 0))
	st, err := c.Deps.Premium.Grant(c.Ctx, id, days)
	if err != nil {
		return err
	}
	log.Info().Str("module", "premium").Str("guild", id).Int("days", days).Str("by", c.User.ID).Msg("premium granted")
	duration := "with **lifetime** access"
	if !st.Lifetime {
		duration = fmt.Sprintf("for **%d days**", days)
	}
	return c.ReplyPrivate(discord.Success("Premium Granted", fmt.Sprintf("Granted premium to **%s** %s!", name, duration)))
}

func revoke(c *router.Context) error {
	id, name, err := targetGuild(c)
	if err != nil {
		return err
	}
	changed, err := c.Deps.Premium.Revoke(c.Ctx, id)
	if err != nil {
		return err
	}
	if !changed {
		return c.ReplyPrivate(discord.Info("No Premium", fmt.Sprintf("**%s** does not have premium. Nothing changed.", name)))
	}
	log.Info().Str("module", "premium").Str("guild", id).Str("by", c.User.ID).Msg("premium revoked")
	return c.ReplyPrivate(discord.Success("Premium Revoked", fmt.Sprintf("Revoked premium from **%s**.", name)))
}

func changeBotName(c *router.Context) error {
	name := validation.Sanitize(c.Options.String("name"), 0)
	if n := utf8.RuneCountInString(name); n < 1 || n > maxNickname {
		return router.FailTitled("Invalid Name", "Bot names must be 1-%d characters.", maxNickname)
	}
	if err := c.Session.GuildMemberNickname(c.GuildID(), "@me", name, discordgo.WithContext(c.Ctx)); err != nil {
		if logging.IsMissingPermissions(err) {
			return router.FailTitled("Missing Permissions", "I need the **Change Nickname** permission to do that.")
		}
		return err
	}
	return c.ReplyPrivate(discord.Success("Bot Name Changed", fmt.Sprintf("Changed my name to **%s**", name)))
}
