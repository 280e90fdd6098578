package lineup

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
)

func Register(r *router.Router) {
	r.Handle(router.Command{
		Name:      discord.CommandLineup,
		GuildOnly: true,
		Run:       handle,
		Complete:  complete,
	})
}

func handle(c *router.Context) error {
	switch c.Options.Sub {
	case "view":
		return view(c)
	case "list":
		return list(c)
	}
	if err := c.Require(discord.LevelManager); err != nil {
		return err
	}
	switch c.Options.Sub {
	case "create":
		return create(c)
	case "add":
		return addPlayer(c)
	case "remove":
		return removePlayer(c)
	case "edit":
		return editPlayer(c)
	case "delete":
		return remove(c)
	case "post":
		return post(c)
	}
	return router.Fail("Unknown subcommand.")
}

func lineupName(c *router.Context) string {
	return validation.Sanitize(c.Options.String("lineup"), 100)
}

func position(c *router.Context) (string, error) {
	pos := strings.ToUpper(validation.Sanitize(c.Options.String("position"), 50))
	if pos == "" {
		return "", router.Fail("Position cannot be empty.")
	}
	return pos, nil
}

func notFound(name string) error {
	return router.FailTitled("Lineup Not Found", "Lineup **%s** does not exist.", name)
}

func load(c *router.Context, name string) (*data.Lineup, error) {
	l, err := c.Deps.Store.GetLineup(c.Ctx, c.GuildID(), name)
	if errors.Is(err, data.ErrNotFound) {
		return nil, notFound(name)
	}
	return l, err
}

func create(c *router.Context) error {
	name := validation.Sanitize(c.Options.String("name"), 100)
	if name == "" {
		return router.Fail("Lineup name cannot be empty.")
	}
	l := &data.Lineup{
		GuildID:     c.GuildID(),
		Name:        name,
		Description: validation.Sanitize(c.Options.String("description"), 500),
		CreatedBy:   c.User.ID,
	}
	if err := c.Deps.Store.CreateLineup(c.Ctx, l); err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			return router.FailTitled("Lineup Exists", "A lineup named **%s** already exists.", name)
		}
		return err
	}
	return c.Reply(discord.Success("Lineup Created", fmt.Sprintf("Successfully created lineup **%s**\nUse `/lineup add` to add players.", name)))
}

func addPlayer(c *router.Context) error {
	name := lineupName(c)
	player := c.Options.User("player")
	if player == nil {
		return router.Fail("Please choose a player.")
	}
	pos, err := position(c)
	if err != nil {
		return err
	}
	err = c.Deps.Store.AddLineupPlayer(c.Ctx, c.GuildID(), name, data.LineupPlayer{UserID: player.ID, Position: pos}, MaxPlayers)
	switch {
	case errors.Is(err, data.ErrNotFound):
		return notFound(name)
	case errors.Is(err, data.ErrDuplicate):
		return router.FailTitled("Already In Lineup", "%s is already in **%s**. Use `/lineup edit` to change their position.", discord.MentionUser(player.ID), name)
	case errors.Is(err, data.ErrLineupFull):
		return router.FailTitled("Lineup Full", "**%s** already has %d players.", name, MaxPlayers)
	case err != nil:
		return err
	}
	return c.Reply(discord.Success("Player Added", fmt.Sprintf("Added %s to **%s** as **%s**", discord.MentionUser(player.ID), name, pos)))
}

func removePlayer(c *router.Context) error {
	name := lineupName(c)
	player := c.Options.User("player")
	if player == nil {
		return router.Fail("Please choose a player.")
	}
	if _, err := load(c, name); err != nil {
		return err
	}
	if err := c.Deps.Store.RemoveLineupPlayer(c.Ctx, c.GuildID(), name, player.ID); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return router.Fail("%s is not in **%s**.", discord.MentionUser(player.ID), name)
		}
		return err
	}
	return c.Reply(discord.Success("Player Removed", fmt.Sprintf("Removed %s from **%s**", discord.MentionUser(player.ID), name)))
}

func editPlayer(c *router.Context) error {
	name := lineupName(c)
	player := c.Options.User("player")
	if player == nil {
		return router.Fail("Please choose a player.")
	}
	pos, err := position(c)
	if err != nil {
		return err
	}
	if _, err := load(c, name); err != nil {
		return err
	}
	if err := c.Deps.Store.SetLineupPosition(c.Ctx, c.GuildID(), name, player.ID, pos); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return router.Fail("%s is not in **%s**.", discord.MentionUser(player.ID), name)
		}
		return err
	}
	return c.Reply(discord.Success("Position Updated", fmt.Sprintf("Updated %s's position to **%s** in **%s**", discord.MentionUser(player.ID), pos, name)))
}

func view(c *router.Context) error {
	l, err := load(c, lineupName(c))
	if err != nil {
		return err
	}
	return c.Reply(Embed(l))
}

func list(c *router.Context) error {
	lineups, err := c.Deps.Store.ListLineups(c.Ctx, c.GuildID())
	if err != nil {
		return err
	}
	if len(lineups) == 0 {
		return router.FailTitled("No Lineups", "No lineups have been created yet.\nUse `/lineup create` to make one.")
	}
	lines := make([]string, 0, len(lineups))
	for _, l := range lineups {
		line := fmt.Sprintf("• **%s** (%d/%d)", l.Name, len(l.Players), MaxPlayers)
		if l.Description != "" {
			line += " - " + l.Description
		}
		lines = append(lines, line)
	}
	return c.Reply(discord.Success("Server Lineups", discord.Truncate(strings.Join(lines, "\n"), discord.MaxEmbedDescLen)))
}

func remove(c *router.Context) error {
	name := lineupName(c)
	if err := c.Deps.Store.DeleteLineup(c.Ctx, c.GuildID(), name); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return notFound(name)
		}
		return err
	}
	return c.Reply(discord.Success("Lineup Deleted", fmt.Sprintf("Successfully deleted lineup **%s**", name)))
}

func post(c *router.Context) error {
	l, err := load(c, lineupName(c))
	if err != nil {
		return err
	}
	channelID := c.Options.ID("channel")
	if channelID == "" {
		channelID = c.Interaction.ChannelID
	}
	if _, err := c.Session.ChannelMessageSendEmbed(channelID, Embed(l), discordgo.WithContext(c.Ctx)); err != nil {
		if logging.IsMissingPermissions(err) {
			return router.FailTitled("Missing Permissions", "I can't post in %s.", discord.MentionChannel(channelID))
		}
		return err
	}
	return c.ReplyPrivate(discord.Success("Lineup Posted", fmt.Sprintf("Posted **%s** to %s", l.Name, discord.MentionChannel(channelID))))
}

func complete(c *router.Context, option, value string) []*discordgo.ApplicationCommandOptionChoice {
	if option != "lineup" {
		return nil
	}
	lineups, err := c.Deps.Store.ListLineups(c.Ctx, c.GuildID())
	if err != nil {
		return nil
	}
	value = strings.ToLower(strings.TrimSpace(value))
	var out []*discordgo.ApplicationCommandOptionChoice
	for _, l := range lineups {
		if value != "" && !strings.Contains(strings.ToLower(l.Name), value) {
			continue
		}
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: discord.Truncate(l.Name, 100), Value: l.Name})
		if len(out) == 25 {
			break
		}
	}
	return out
}
