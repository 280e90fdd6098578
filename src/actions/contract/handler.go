// Package contract implements /contract and its card buttons.
package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/mrpepsi1069/LockerRoom/src/dm"
	"github.com/mrpepsi1069/LockerRoom/src/logging"
	"github.com/mrpepsi1069/LockerRoom/src/validation"
	"github.com/rs/zerolog/log"
)

const (
	buttonPrefix = "contract:"
	paidPrefix   = buttonPrefix + "paid:"
	deletePrefix = buttonPrefix + "delete:"
)

func Register(r *router.Router) {
	r.Handle(router.Command{
		Name:      discord.CommandContract,
		Level:     discord.LevelCoach,
		GuildOnly: true,
		Run:       handle,
	})
	r.HandleButton(paidPrefix, markPaid)
	r.HandleButton(deletePrefix, deleteCard)
}

func handle(c *router.Context) error {
	switch c.Options.Sub {
	case "add":
		return add(c)
	case "remove":
		return remove(c)
	case "post":
		return post(c)
	}
	return router.Fail("Unknown subcommand.")
}

func guildName(c *router.Context) string {
	if c.Guild.Name != "" {
		return c.Guild.Name
	}
	return "This server"
}

func add(c *router.Context) error {
	player := c.Options.User("user")
	if player == nil {
		return router.Fail("Please choose a player.")
	}
	channelID := c.Channel(data.ChannelContract)
	if channelID == "" {
		return router.FailTitled("Setup Required", "Please run `/setup` first to configure the contract channel!")
	}
	position := strings.ToUpper(validation.Sanitize(c.Options.String("position"), 20))
	due := validation.Sanitize(c.Options.String("due"), 100)
	if position == "" || due == "" {
		return router.Fail("Position and due date are required.")
	}
	amount, _ := c.Options.Int("amount")
	if amount < 0 {
		return router.Fail("Amount cannot be negative.")
	}
	terms := validation.Sanitize(c.Options.String("terms"), 500)
	if terms == "" {
		terms = defaultTerms
	}
	if err := c.Defer(true); err != nil {
		return err
	}

	ct := &data.Contract{
		GuildID:   c.GuildID(),
		UserID:    player.ID,
		Position:  position,
		Amount:    amount,
		Due:       due,
		Terms:     terms,
		CreatedBy: c.User.ID,
	}
	if err := c.Deps.Store.AddContract(c.Ctx, ct); err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			return router.FailTitled("Contract Exists", "%s already has an active contract!\n\nUse `/contract remove` first to create a new one.", discord.MentionUser(player.ID))
		}
		return err
	}

	embed := Embed(guildName(c), ct)
	embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: player.AvatarURL("")}
	msg, err := c.Session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:         fmt.Sprintf("🎉 **NEW CONTRACT!** Welcome %s to the team!", discord.MentionUser(player.ID)),
		Embeds:          []*discordgo.MessageEmbed{embed},
		Components:      Buttons(ct),
		AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{player.ID}},
	}, discordgo.WithContext(c.Ctx))
	if err != nil {
		if rmErr := c.Deps.Store.RemoveContract(c.Ctx, ct.GuildID, ct.UserID); rmErr != nil {
			log.Warn().Str("module", "contract").Err(rmErr).Str("user", ct.UserID).Msg("failed to roll back contract")
		}
		if logging.IsMissingPermissions(err) {
			return router.FailTitled("Missing Permissions", "I can't post in %s.", discord.MentionChannel(channelID))
		}
		return err
	}
	if err := c.Deps.Store.SetContractMessage(c.Ctx, ct.GuildID, ct.UserID, msg.ChannelID, msg.ID); err != nil {
		log.Warn().Str("module", "contract").Err(err).Str("user", ct.UserID).Msg("failed to record contract message")
	}

	res := c.Deps.DM.Send(c.Ctx, []dm.Recipient{{ID: player.ID, Bot: player.Bot, Name: player.Username}}, func(dm.Recipient) *discordgo.MessageSend {
		return &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{welcomeEmbed(guildName(c), ct)}}
	})
	note := ""
	if res.Succeeded == 0 {
		note = "\n\n⚠️ I couldn't DM the player about their contract."
	}

	return c.Reply(discord.Success("Contract Created", fmt.Sprintf(
		"Contract for %s has been posted to %s!\n\n**Position:** %s\n**Amount:** %s\n**Due:** %s%s",
		discord.MentionUser(player.ID), discord.MentionChannel(channelID), position, Amount(amount), due, note)))
}

func welcomeEmbed(guildName string, ct *data.Contract) *discordgo.MessageEmbed {
	e := discord.Embed("🎉 Congratulations!", fmt.Sprintf("You've been contracted to **%s**!", guildName))
	e.Color = colorPaid
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "🎮 Position", Value: ct.Position, Inline: true},
		{Name: "💰 Amount", Value: Amount(ct.Amount), Inline: true},
		{Name: "📅 Due Date", Value: ct.Due, Inline: true},
		{Name: "📋 Terms", Value: ct.Terms},
		{Name: "🚀 Next Steps", Value: "• Check team Discord regularly\n• Payment due by the date above\n• Be an active team member!"},
	}
	e.Footer = &discordgo.MessageEmbedFooter{Text: "Welcome to " + guildName + "!"}
	return e
}

func remove(c *router.Context) error {
	player := c.Options.User("user")
	if player == nil {
		return router.Fail("Please choose a player.")
	}
	ct, err := c.Deps.Store.GetContract(c.Ctx, c.GuildID(), player.ID)
	if errors.Is(err, data.ErrNotFound) {
		return router.FailTitled("Not Found", "%s doesn't have an active contract!", discord.MentionUser(player.ID))
	}
	if err != nil {
		return err
	}
	if err := c.Deps.Store.RemoveContract(c.Ctx, c.GuildID(), player.ID); err != nil {
		return err
	}
	deleteMessage(c, ct)
	return c.ReplyPrivate(discord.Success("Contract Removed", fmt.Sprintf("Removed contract for %s\n\n**Position:** %s\n**Amount:** %s",
		discord.MentionUser(player.ID), ct.Position, Amount(ct.Amount))))
}

// deleteMessage removes a contract's card. A card that is already gone is fine.
func deleteMessage(c *router.Context, ct *data.Contract) {
	if ct.ChannelID == "" || ct.MessageID == "" {
		return
	}
	err := c.Session.ChannelMessageDelete(ct.ChannelID, ct.MessageID, discordgo.WithContext(c.Ctx))
	if err != nil && !logging.IsUnknownMessage(err) {
		log.Warn().Str("module", "contract").Err(err).Str("message", ct.MessageID).Msg("could not delete contract message")
	}
}

func post(c *router.Context) error {
	filter := c.Options.String("filter")
	if _, ok := filterTitles[filter]; !ok {
		filter = "all"
	}
	contracts, err := c.Deps.Store.ListContracts(c.Ctx, c.GuildID())
	if err != nil {
		return err
	}
	if len(contracts) == 0 {
		return router.FailTitled("No Contracts", "No contracts found!\n\nUse `/contract add` to create player contracts.")
	}
	contracts = Filter(contracts, filter)
	if len(contracts) == 0 {
		return router.FailTitled("No Contracts", "No %s contracts found!", filter)
	}
	e := Summary(filter, contracts)
	e.Footer = &discordgo.MessageEmbedFooter{Text: guildName(c) + " • Contract Overview"}
	return c.Reply(e)
}

func markPaid(c *router.Context, customID string) error {
	if err := c.Require(discord.LevelCoach); err != nil {
		return err
	}
	userID := strings.TrimPrefix(customID, paidPrefix)
	if err := c.Deps.Store.SetContractPaid(c.Ctx, c.GuildID(), userID, true); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return router.Fail("This contract no longer exists.")
		}
		return err
	}
	ct, err := c.Deps.Store.GetContract(c.Ctx, c.GuildID(), userID)
	if err != nil {
		return err
	}
	if err := c.Update([]*discordgo.MessageEmbed{Embed(guildName(c), ct)}, Buttons(ct)); err != nil {
		return err
	}
	return c.Notice(fmt.Sprintf("💰 Marked %s's contract as paid.", discord.MentionUser(userID)))
}

func deleteCard(c *router.Context, customID string) error {
	if err := c.Require(discord.LevelCoach); err != nil {
		return err
	}
	userID := strings.TrimPrefix(customID, deletePrefix)
	if err := c.Deps.Store.RemoveContract(c.Ctx, c.GuildID(), userID); err != nil && !errors.Is(err, data.ErrNotFound) {
		return err
	}
	if msg := c.Interaction.Message; msg != nil {
		deleteMessage(c, &data.Contract{ChannelID: msg.ChannelID, MessageID: msg.ID})
	}
	return c.Notice(fmt.Sprintf("🗑️ Deleted %s's contract.", discord.MentionUser(userID)))
}
