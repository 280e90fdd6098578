// Package general implements the public utility and fun commands.
package general

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/mrpepsi1069/LockerRoom/src/validation"
)

const colorFake = 0xED4245

// Register adds the general commands. /help lists whatever r has registered
// when it runs.
func Register(r *router.Router) {
	r.Handle(router.Command{Name: discord.CommandHelp, Run: func(c *router.Context) error { return help(c, r) }})
	r.Handle(router.Command{Name: discord.CommandPing, Run: ping})
	r.Handle(router.Command{Name: discord.CommandInvite, Run: invite})
	r.Handle(router.Command{Name: discord.CommandFlipCoin, Run: flipCoin})
	r.Handle(router.Command{Name: discord.CommandRandomNumber, Run: randomNumber})
	r.Handle(router.Command{Name: discord.CommandBold, Run: bold})
	r.Handle(router.Command{Name: discord.CommandFBan, Run: fakeBan})
	r.Handle(router.Command{Name: discord.CommandFKick, Run: fakeKick})
	r.Handle(router.Command{Name: discord.CommandSuggest, GuildOnly: true, Run: suggest})
}

// HelpEmbed groups the registered commands by required tier.
func HelpEmbed(r *router.Router) *discordgo.MessageEmbed {
	names := r.Commands()
	desc := make(map[string]string, len(names))
	for _, def := range discord.Definitions(names...) {
		desc[def.Name] = def.Description
	}
	groups := make(map[discord.Level][]string)
	for _, name := range names {
		cmd, _ := r.Command(name)
		line := fmt.Sprintf("`/%s` - %s", name, desc[name])
		if cmd.Premium {
			line += " 💎"
		}
		groups[cmd.Level] = append(groups[cmd.Level], line)
	}
	levels := make([]discord.Level, 0, len(groups))
	for l := range groups {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	e := discord.Embed("🤖 LockerRoom Bot Commands", "Team chat bot for league teams. 💎 marks premium commands.")
	for _, l := range levels {
		for i, chunk := range discord.SplitLines(groups[l], discord.MaxEmbedFieldLen) {
			name := l.String()
			if i > 0 {
				name += " (cont.)"
			}
			e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: name, Value: chunk})
		}
	}
	return e
}

func help(c *router.Context, r *router.Router) error {
	return c.ReplyPrivate(HelpEmbed(r))
}

func ping(c *router.Context) error {
	e := discord.Embed("🏓 Pong!", "")
	fields := []*discordgo.MessageEmbedField{}
	if created, err := discordgo.SnowflakeTimestamp(c.Interaction.ID); err == nil {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Bot Latency", Value: fmt.Sprintf("%dms", c.Now().Sub(created).Milliseconds()), Inline: true})
	}
	fields = append(fields, &discordgo.MessageEmbedField{Name: "API Latency", Value: fmt.Sprintf("%dms", c.Session.HeartbeatLatency().Milliseconds()), Inline: true})
	e.Fields = fields
	return c.ReplyPrivate(e)
}

// InviteURL is the configured invite link, or an OAuth2 link for appID.
func InviteURL(configured, appID string) string {
	if configured != "" {
		return configured
	}
	return fmt.Sprintf("https://discord.com/api/oauth2/authorize?client_id=%s&permissions=8&scope=bot%%20applications.commands", appID)
}

func invite(c *router.Context) error {
	appID := c.Interaction.AppID
	if appID == "" && c.Session.State != nil && c.Session.State.User != nil {
		appID = c.Session.State.User.ID
	}
	link := InviteURL(c.Deps.Config.InviteURL, appID)
	desc := fmt.Sprintf("Click the link below to invite me to your server!\n\n[Invite Bot](%s)", link)
	if support := c.Deps.Config.SupportURL; support != "" {
		desc += fmt.Sprintf("\n[Support Server](%s)", support)
	}
	return c.ReplyPrivate(discord.Embed("📨 Invite LockerRoom Bot", desc))
}

func flipCoin(c *router.Context) error {
	result, emoji := "Heads", "🪙"
	if rand.IntN(2) == 1 {
		result, emoji = "Tails", "🔄"
	}
	return c.Reply(discord.Embed(fmt.Sprintf("%s %s!", emoji, result), fmt.Sprintf("The coin landed on **%s**", result)))
}

func randomNumber(c *router.Context) error {
	lo, _ := c.Options.Int("min")
	hi, _ := c.Options.Int("max")
	if hi < lo {
		return router.Fail("Maximum cannot be less than minimum!")
	}
	n := lo + rand.Int64N(hi-lo+1)
	return c.Reply(discord.Embed("🎲 Random Number Generator",
		fmt.Sprintf("Your random number between **%d** and **%d** is:\n**%d**", lo, hi, n)))
}

// Bold maps ASCII letters and digits to their mathematical bold forms.
func Bold(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			r = '𝐀' + (r - 'A')
		case r >= 'a' && r <= 'z':
			r = '𝐚' + (r - 'a')
		case r >= '0' && r <= '9':
			r = '𝟎' + (r - '0')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func bold(c *router.Context) error {
	text := validation.Sanitize(c.Options.String("text"), 500)
	if text == "" {
		return router.Fail("Text cannot be empty.")
	}
	return c.ReplyText(Bold(text))
}

func fake(c *router.Context, title, verb, footer string) error {
	user := c.Options.User("user")
	if user == nil {
		return router.Fail("Please choose someone.")
	}
	reason := validation.Sanitize(c.Options.String("reason"), 400)
	if reason == "" {
		reason = "No reason provided"
	}
	e := discord.Embed(title, fmt.Sprintf("%s has been %s from the server!", discord.MentionUser(user.ID), verb))
	e.Color = colorFake
	e.Fields = []*discordgo.MessageEmbedField{{Name: "Reason", Value: reason}}
	e.Footer = &discordgo.MessageEmbedFooter{Text: footer}
	return c.Reply(e)
}

func fakeBan(c *router.Context) error {
	return fake(c, "🔨 User Banned!", "banned", "Just kidding! This is a fake ban.")
}

func fakeKick(c *router.Context) error {
	return fake(c, "👢 User Kicked", "kicked", "Just kidding! This is a fake kick.")
}

func suggest(c *router.Context) error {
	text := validation.Sanitize(c.Options.String("suggestion"), 1000)
	if text == "" {
		return router.Fail("Suggestion cannot be empty.")
	}
	s := &data.Suggestion{GuildID: c.GuildID(), UserID: c.User.ID, Text: text, CreatedAt: c.Now()}
	if err := c.Deps.Store.CreateSuggestion(c.Ctx, s); err != nil {
		return err
	}
	e := discord.Embed("💡 New Suggestion", text)
	e.Author = &discordgo.MessageEmbedAuthor{Name: c.User.Username, IconURL: c.User.AvatarURL("")}
	e.Footer = &discordgo.MessageEmbedFooter{Text: "Suggested " + c.Now().UTC().Format(time.DateOnly)}
	c.Announce(data.ChannelSuggestions, e)
	return c.ReplyPrivate(discord.Success("Suggestion Submitted", "Thank you for your suggestion! The server admins will review it."))
}
