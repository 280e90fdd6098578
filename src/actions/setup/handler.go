// Package setup implements /setup, which routes guild channels and roles.
package setup

import (
	"fmt"
	"strings"

	"github.com/mrpepsi1069/LockerRoom/src/actions/router"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
)

type binding struct {
	option string
	key    string
	label  string
	role   bool
}

var bindings = []binding{
	{"history_channel", data.ChannelHistory, "📜 History Channel", false},
	{"league_log_channel", data.ChannelLeagueLog, "📋 League Log Channel", false},
	{"sign_request_channel", data.ChannelSignRequest, "✍️ Sign Request Channel", false},
	{"offer_accept_channel", data.ChannelOfferAccept, "✅ Offer Accept Channel", false},
	{"awards_channel", data.ChannelAwards, "🏆 Awards Channel", false},
	{"contract_channel", data.ChannelContract, "📜 Contract Channel", false},
	{"suggestions_channel", data.ChannelSuggestions, "💡 Suggestions Channel", false},
	{"gt_role", data.RoleGametime, "🎮 Game Time Role", true},
	{"staff_role", data.RoleStaff, "👮 Staff Role", true},
	{"coach_role", data.RoleCoach, "📣 Coach Role", true},
	{"manager_role", data.RoleManager, "👑 Manager Role", true},
	{"anchor_role", data.RoleAnchor, "⚓ Anchor Role", true},
}

func Register(r *router.Router) {
	r.Handle(router.Command{
		Name:      discord.CommandSetup,
		Level:     discord.LevelAdmin,
		GuildOnly: true,
		Run:       run,
	})
}

func run(c *router.Context) error {
	type change struct {
		b  binding
		id string
	}
	var changes []change
	for _, b := range bindings {
		if id := c.Options.ID(b.option); id != "" {
			changes = append(changes, change{b, id})
		}
	}
	if len(changes) == 0 {
		return router.FailTitled("No Changes", "Please provide at least one option to configure.")
	}

	store := c.Deps.Store
	guildID := c.GuildID()
	name := c.Guild.Name
	if c.Session.State != nil {
		if g, err := c.Session.State.Guild(guildID); err == nil && g.Name != "" {
			name = g.Name
		}
	}
	if err := store.UpsertGuild(c.Ctx, guildID, name); err != nil {
		return err
	}

	lines := make([]string, 0, len(changes))
	for _, ch := range changes {
		var err error
		mention := discord.MentionChannel(ch.id)
		if ch.b.role {
			err = store.SetGuildRole(c.Ctx, guildID, ch.b.key, ch.id)
			mention = discord.MentionRole(ch.id)
		} else {
			err = store.SetGuildChannel(c.Ctx, guildID, ch.b.key, ch.id)
		}
		if err != nil {
			return fmt.Errorf("setup %s: %w", ch.b.key, err)
		}
		lines = append(lines, fmt.Sprintf("%s: %s", ch.b.label, mention))
	}
	if err := store.MarkGuildSetup(c.Ctx, guildID); err != nil {
		return err
	}
	return c.ReplyPrivate(discord.Success("Setup Updated", "Successfully updated bot configuration:\n\n"+strings.Join(lines, "\n")))
}
