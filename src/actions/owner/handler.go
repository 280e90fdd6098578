// Package owner implements the bot-owner diagnostics commands.
package owner

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
)

const guildsPerPage = 10

func Register(r *router.Router) {
	r.Handle(router.Command{Name: discord.CommandBotStats, Level: discord.LevelOwner, Run: botStats})
	r.Handle(router.Command{Name: discord.CommandGuilds, Level: discord.LevelOwner, Run: guilds})
}

// StatsEmbed renders global usage alongside process health.
func StatsEmbed(st data.Stats, connected int, uptime string, mem runtime.MemStats) *discordgo.MessageEmbed {
	e := discord.Embed("📊 Bot Statistics", "")
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "Servers", Value: humanize.Comma(int64(connected)), Inline: true},
		{Name: "Known Servers", Value: humanize.Comma(st.TotalGuilds), Inline: true},
		{Name: "Premium Servers", Value: humanize.Comma(st.PremiumGuilds), Inline: true},
		{Name: "Users", Value: humanize.Comma(st.TotalUsers), Inline: true},
		{Name: "Commands Run", Value: humanize.Comma(st.TotalCommands), Inline: true},
		{Name: "Uptime", Value: uptime, Inline: true},
		{Name: "Memory", Value: humanize.Bytes(mem.HeapAlloc), Inline: true},
		{Name: "Goroutines", Value: fmt.Sprint(runtime.NumGoroutine()), Inline: true},
		{Name: "Go", Value: runtime.Version(), Inline: true},
	}
	return e
}

func botStats(c *router.Context) error {
	st, err := c.Deps.Store.Stats(c.Ctx)
	if err != nil {
		return err
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	connected := 0
	if c.Session.State != nil {
		connected = len(c.Session.State.Guilds)
	}
	return c.ReplyPrivate(StatsEmbed(st, connected, discord.Uptime(c.Now().Sub(c.Deps.Started)), mem))
}

// GuildPages lists guilds largest first, guildsPerPage to an embed.
func GuildPages(gs []*discordgo.Guild) []*discordgo.MessageEmbed {
	sorted := append([]*discordgo.Guild(nil), gs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MemberCount > sorted[j].MemberCount })

	total := (len(sorted) + guildsPerPage - 1) / guildsPerPage
	pages := make([]*discordgo.MessageEmbed, 0, total)
	for p := 0; p < total; p++ {
		end := min((p+1)*guildsPerPage, len(sorted))
		e := discord.Embed(fmt.Sprintf("🌐 Servers (%d)", len(sorted)), "")
		for _, g := range sorted[p*guildsPerPage : end] {
			e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
				Name:  discord.Truncate(g.Name, 256),
				Value: fmt.Sprintf("ID: `%s`\nMembers: %s", g.ID, humanize.Comma(int64(g.MemberCount))),
			})
		}
		e.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Page %d/%d", p+1, total)}
		pages = append(pages, e)
	}
	return pages
}

func guilds(c *router.Context) error {
	var gs []*discordgo.Guild
	if c.Session.State != nil {
		c.Session.State.RLock()
		gs = append(gs, c.Session.State.Guilds...)
		c.Session.State.RUnlock()
	}
	pages := GuildPages(gs)
	if len(pages) == 0 {
		return router.FailTitled("No Guilds", "The bot is not in any servers.")
	}
	if err := c.ReplyPrivate(pages[0]); err != nil {
		return err
	}
	for _, page := range pages[1:] {
		if err := c.Followup(true, "", page); err != nil {
			return err
		}
	}
	return nil
}
