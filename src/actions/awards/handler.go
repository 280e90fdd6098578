// Package awards implements /award, /ring-add and /awardcheck.
package awards

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/actions/league"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/mrpepsi1069/LockerRoom/src/validation"
	"github.com/rs/zerolog/log"
)

const (
	ringEmoji   = "💍"
	trophyEmoji = "🏆"
)

func Register(r *router.Router) {
	r.Handle(router.Command{
		Name:      discord.CommandAward,
		Level:     discord.LevelManager,
		GuildOnly: true,
		Run:       award,
		Complete:  league.CompleteLeague,
	})
	r.Handle(router.Command{
		Name:      discord.CommandRingAdd,
		Level:     discord.LevelManager,
		GuildOnly: true,
		Run:       ringAdd,
		Complete:  league.CompleteLeague,
	})
	r.Handle(router.Command{
		Name:      discord.CommandAwardCheck,
		GuildOnly: true,
		Run:       awardCheck,
	})
}

func season(c *router.Context) (string, error) {
	s, ok := validation.Season(validation.Sanitize(c.Options.String("season"), 20))
	if !ok {
		return "", router.FailTitled("Invalid Season", "Season must be between 1-20 characters.")
	}
	return s, nil
}

func rememberUser(c *router.Context, u *discordgo.User) {
	if err := c.Deps.Store.UpsertUser(c.Ctx, u.ID, u.Username); err != nil {
		log.Debug().Str("module", "awards").Err(err).Str("user", u.ID).Msg("user upsert failed")
	}
}

func award(c *router.Context) error {
	player := c.Options.User("player")
	if player == nil {
		return router.Fail("Please choose a player.")
	}
	name := validation.Sanitize(c.Options.String("award"), 100)
	if name == "" {
		return router.Fail("Award name cannot be empty.")
	}
	s, err := season(c)
	if err != nil {
		return err
	}
	l, err := league.Lookup(c, c.Options.String("league"))
	if err != nil {
		return err
	}
	rememberUser(c, player)

	a := &data.Award{
		GuildID:    c.GuildID(),
		UserID:     player.ID,
		LeagueID:   l.ID,
		LeagueAbbr: l.Abbr,
		LeagueName: l.Name,
		Name:       name,
		Season:     s,
		GivenBy:    c.User.ID,
	}
	if err := c.Deps.Store.AddAward(c.Ctx, a); err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			return router.FailTitled("Award Already Exists", "%s already has the **%s** award for **%s %s**.",
				discord.MentionUser(player.ID), name, l.Name, s)
		}
		return err
	}

	c.Announce(data.ChannelAwards, discord.Success(trophyEmoji+" "+name, fmt.Sprintf(
		"**%s - %s**\n\nCongratulations to %s for winning **%s**!", l.Name, s, discord.MentionUser(player.ID), name)))
	return c.ReplyPrivate(discord.Success("Award Given", fmt.Sprintf("Successfully gave **%s** to %s for **%s %s**",
		name, discord.MentionUser(player.ID), l.Name, s)))
}

func ringAdd(c *router.Context) error {
	s, err := season(c)
	if err != nil {
		return err
	}
	l, err := league.Lookup(c, c.Options.String("league"))
	if err != nil {
		return err
	}
	opponent := validation.Sanitize(c.Options.String("opponent"), 100)

	var players []*discordgo.User
	seen := make(map[string]bool)
	for i := 1; i <= discord.MaxRingPlayers; i++ {
		u := c.Options.User(fmt.Sprintf("player%d", i))
		if u == nil || seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		players = append(players, u)
	}
	if len(players) == 0 {
		return router.FailTitled("No Players", "You must select at least one player.")
	}
	if err := c.Defer(true); err != nil {
		return err
	}

	var results, mentions []string
	granted := 0
	for _, u := range players {
		rememberUser(c, u)
		err := c.Deps.Store.AddRing(c.Ctx, &data.Ring{
			GuildID:    c.GuildID(),
			UserID:     u.ID,
			LeagueID:   l.ID,
			LeagueAbbr: l.Abbr,
			LeagueName: l.Name,
			Season:     s,
			Opponent:   opponent,
			GivenBy:    c.User.ID,
		})
		switch {
		case err == nil:
			granted++
			results = append(results, "✅ "+discord.MentionUser(u.ID))
			mentions = append(mentions, discord.MentionUser(u.ID))
		case errors.Is(err, data.ErrDuplicate):
			results = append(results, fmt.Sprintf("⚠️ %s (already has ring)", discord.MentionUser(u.ID)))
		default:
			return err
		}
	}

	if granted > 0 {
		desc := fmt.Sprintf("**%s - %s Champions**", l.Name, s)
		if opponent != "" {
			desc += fmt.Sprintf("\n\nDefeated **%s** in the finals!", opponent)
		}
		desc += "\n\n" + strings.Join(mentions, ", ")
		c.Announce(data.ChannelAwards, discord.Success(ringEmoji+" Championship Rings Awarded!", desc))
	}
	return c.Reply(discord.Success("Rings Granted", fmt.Sprintf("Granted rings to **%d** of %d player(s) for **%s %s**!\n\n%s",
		granted, len(players), l.Name, s, strings.Join(results, "\n"))))
}

func awardCheck(c *router.Context) error {
	target := c.Options.User("player")
	if target == nil {
		target = c.User
	}
	rememberUser(c, target)
	rings, err := c.Deps.Store.ListRings(c.Ctx, c.GuildID(), target.ID)
	if err != nil {
		return err
	}
	awards, err := c.Deps.Store.ListAwards(c.Ctx, c.GuildID(), target.ID)
	if err != nil {
		return err
	}
	return c.Reply(Embed(target, rings, awards))
}

// Embed renders a player's trophy case.
func Embed(u *discordgo.User, rings []data.Ring, awards []data.Award) *discordgo.MessageEmbed {
	e := discord.Embed(fmt.Sprintf("%s %s's Awards", trophyEmoji, u.Username), Summary(len(rings), len(awards)))
	if len(rings) > 0 {
		lines := make([]string, 0, len(rings))
		for _, r := range rings {
			line := fmt.Sprintf("%s **%s** - %s", ringEmoji, r.LeagueAbbr, r.Season)
			if r.Opponent != "" {
				line += " (vs " + r.Opponent + ")"
			}
			lines = append(lines, line)
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Rings", Value: discord.Truncate(strings.Join(lines, "\n"), discord.MaxEmbedFieldLen)})
	}
	if len(awards) > 0 {
		lines := make([]string, 0, len(awards))
		for _, a := range awards {
			lines = append(lines, fmt.Sprintf("%s **%s** - %s %s", trophyEmoji, a.Name, a.LeagueAbbr, a.Season))
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Awards", Value: discord.Truncate(strings.Join(lines, "\n"), discord.MaxEmbedFieldLen)})
	}
	return e
}

// Summary counts rings and awards, or encourages a player who has neither.
func Summary(rings, awards int) string {
	if rings == 0 && awards == 0 {
		return "No awards or rings yet. Keep grinding!"
	}
	var parts []string
	if rings > 0 {
		parts = append(parts, fmt.Sprintf("%s **%d** Championship Ring%s", ringEmoji, rings, plural(rings)))
	}
	if awards > 0 {
		parts = append(parts, fmt.Sprintf("%s **%d** Individual Award%s", trophyEmoji, awards, plural(awards)))
	}
	return strings.Join(parts, "\n")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
