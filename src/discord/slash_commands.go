package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const (
	CommandSetup         = "setup"
	CommandGametime      = "gametime"
	CommandTimes         = "times"
	CommandAttendance    = "attendance"
	CommandActivityCheck = "activitycheck"
	CommandLeague        = "league"
	CommandLineup        = "lineup"
	CommandContract      = "contract"
	CommandAward         = "award"
	CommandRingAdd       = "ring-add"
	CommandAwardCheck    = "awardcheck"
	CommandPremium       = "premium"
	CommandAddPremium    = "add-premium"
	CommandRevokePremium = "revoke-premium"
	CommandChangeBotName = "change-botname"
	CommandTimeout       = "timeout"
	CommandAdminKick     = "adminkick"
	CommandBan           = "ban"
	CommandRole          = "role"
	CommandUnrole        = "unrole"
	CommandMuteVC        = "mutevc"
	CommandUnmuteVC      = "unmutevc"
	CommandDMMembers     = "dmmembers"
	CommandDMTCMembers   = "dmtcmembers"
	CommandHelp          = "help"
	CommandPing          = "ping"
	CommandInvite        = "invite"
	CommandFlipCoin      = "flipcoin"
	CommandRandomNumber  = "randomnumber"
	CommandBold          = "bold"
	CommandFBan          = "fban"
	CommandFKick         = "fkick"
	CommandSuggest       = "suggest"
	CommandBotStats      = "botstats"
	CommandGuilds        = "guilds"
)

// MaxRingPlayers is how many player options /ring-add offers.
const MaxRingPlayers = 10

func strOpt(name, desc string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionString, Name: name, Description: desc, Required: required}
}

func autoOpt(name, desc string, required bool) *discordgo.ApplicationCommandOption {
	o := strOpt(name, desc, required)
	o.Autocomplete = true
	return o
}

func userOpt(name, desc string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionUser, Name: name, Description: desc, Required: required}
}

func roleOpt(name, desc string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionRole, Name: name, Description: desc, Required: required}
}

func textChannelOpt(name, desc string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         name,
		Description:  desc,
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
	}
}

func intOpt(name, desc string, required bool, min, max float64) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: desc,
		Required:    required,
		MinValue:    &min,
		MaxValue:    max,
	}
}

func sub(name, desc string, opts ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionSubCommand, Name: name, Description: desc, Options: opts}
}

func timeOpts(required int) []*discordgo.ApplicationCommandOption {
	var out []*discordgo.ApplicationCommandOption
	for i := 1; i <= 6; i++ {
		out = append(out, strOpt(fmt.Sprintf("time%d", i), fmt.Sprintf("Time option %d (e.g. \"8 PM EST\")", i), i <= required))
	}
	return out
}

func ringOpts() []*discordgo.ApplicationCommandOption {
	opts := []*discordgo.ApplicationCommandOption{
		autoOpt("league", "League abbreviation", true),
		strOpt("season", "Season (e.g. S1, 2025)", true),
	}
	for i := 1; i <= MaxRingPlayers; i++ {
		opts = append(opts, userOpt(fmt.Sprintf("player%d", i), fmt.Sprintf("Player %d", i), i == 1))
	}
	return append(opts, strOpt("opponent", "Opponent in the final", false))
}

var commandDefinitions = map[string]*discordgo.ApplicationCommand{
	CommandSetup: {
		Name:        CommandSetup,
		Description: "Configure bot channels and roles (Administrator only)",
		Options: []*discordgo.ApplicationCommandOption{
			roleOpt("gt_role", "Game time role (pinged for games)", false),
			roleOpt("staff_role", "Staff role", false),
			roleOpt("coach_role", "Coach role", false),
			roleOpt("manager_role", "Manager role (lineups, polls, awards)", false),
			roleOpt("anchor_role", "Anchor role (team leader)", false),
			textChannelOpt("history_channel", "History channel (game logs)"),
			textChannelOpt("league_log_channel", "League log channel"),
			textChannelOpt("sign_request_channel", "Sign request channel (recruitment)"),
			textChannelOpt("offer_accept_channel", "Offer accept channel"),
			textChannelOpt("awards_channel", "Awards announcement channel"),
			textChannelOpt("contract_channel", "Contract channel"),
			textChannelOpt("suggestions_channel", "Suggestions channel"),
		},
	},
	CommandGametime: {
		Name:        CommandGametime,
		Description: "Create a game time poll, one answer per player (Manager only)",
		Options: append([]*discordgo.ApplicationCommandOption{
			autoOpt("league", "League abbreviation", true),
			roleOpt("role", "Role to ping", true),
		}, timeOpts(2)...),
	},
	CommandTimes: {
		Name:        CommandTimes,
		Description: "Post time options players can pick several of (Manager only)",
		Options: append(append([]*discordgo.ApplicationCommandOption{
			roleOpt("role", "Role to ping", true),
		}, timeOpts(2)...),
			autoOpt("league", "League abbreviation", false),
			strOpt("message", "Extra message", false),
		),
	},
	CommandAttendance: {
		Name:        CommandAttendance,
		Description: "Ask who is attending a game (Manager only)",
		Options: []*discordgo.ApplicationCommandOption{
			roleOpt("role", "Role to ping", true),
			strOpt("time", "Game time (e.g. \"8 PM EST\")", true),
			autoOpt("league", "League abbreviation", false),
		},
	},
	CommandActivityCheck: {
		Name:        CommandActivityCheck,
		Description: "Create an activity check (Manager only)",
		Options: []*discordgo.ApplicationCommandOption{
			intOpt("duration", "Duration in hours", true, 1, 168),
			roleOpt("role", "Role to check", false),
		},
	},
	CommandLeague: {
		Name:        CommandLeague,
		Description: "Manage leagues",
		Options: []*discordgo.ApplicationCommandOption{
			sub("add", "Add a new league",
				strOpt("name", "League name", true),
				strOpt("abbreviation", "League abbreviation (2-10 letters or digits)", true),
				strOpt("signup", "Signup link", false)),
			sub("delete", "Delete a league", autoOpt("abbreviation", "League abbreviation", true)),
			sub("list", "List all leagues"),
			sub("recruit", "Post a recruitment message for a league",
				autoOpt("abbreviation", "League abbreviation", true),
				strOpt("message", "Extra message", false)),
		},
	},
	CommandLineup: {
		Name:        CommandLineup,
		Description: "Manage team lineups",
		Options: []*discordgo.ApplicationCommandOption{
			sub("create", "Create a new lineup",
				strOpt("name", "Lineup name", true),
				strOpt("description", "Lineup description", false)),
			sub("add", "Add a player to a lineup",
				autoOpt("lineup", "Lineup name", true),
				userOpt("player", "Player to add", true),
				strOpt("position", "Position (QB, OL, TE, ...)", true)),
			sub("remove", "Remove a player from a lineup",
				autoOpt("lineup", "Lineup name", true),
				userOpt("player", "Player to remove", true)),
			sub("edit", "Change a player's position",
				autoOpt("lineup", "Lineup name", true),
				userOpt("player", "Player to edit", true),
				strOpt("position", "New position", true)),
			sub("view", "View a lineup", autoOpt("lineup", "Lineup name", true)),
			sub("list", "List all lineups"),
			sub("delete", "Delete a lineup", autoOpt("lineup", "Lineup name", true)),
			sub("post", "Post a lineup to a channel",
				autoOpt("lineup", "Lineup name", true),
				textChannelOpt("channel", "Channel to post to (defaults to current)")),
		},
	},
	CommandContract: {
		Name:        CommandContract,
		Description: "Manage player contracts",
		Options: []*discordgo.ApplicationCommandOption{
			sub("add", "Add a player contract",
				userOpt("user", "Player to contract", true),
				strOpt("position", "Position", true),
				intOpt("amount", "Contract amount", true, 0, 1_000_000_000),
				strOpt("due", "Payment due date (e.g. \"Feb 15, 2026\")", true),
				strOpt("terms", "Contract terms", false)),
			sub("remove", "Remove a player contract", userOpt("user", "Player", true)),
			sub("post", "Post contracts", &discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "filter",
				Description: "Which contracts to show",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "All", Value: "all"},
					{Name: "Paid", Value: "paid"},
					{Name: "Unpaid", Value: "unpaid"},
				},
			}),
		},
	},
	CommandAward: {
		Name:        CommandAward,
		Description: "Give a player an award (Manager only)",
		Options: []*discordgo.ApplicationCommandOption{
			userOpt("player", "Player", true),
			autoOpt("league", "League abbreviation", true),
			strOpt("award", "Award name (e.g. MVP)", true),
			strOpt("season", "Season (e.g. S1, 2025)", true),
		},
	},
	CommandRingAdd: {
		Name:        CommandRingAdd,
		Description: "Give championship rings (Manager only)",
		Options:     ringOpts(),
	},
	CommandAwardCheck: {
		Name:        CommandAwardCheck,
		Description: "Show a player's awards and rings",
		Options:     []*discordgo.ApplicationCommandOption{userOpt("player", "Player (defaults to you)", false)},
	},
	CommandPremium: {
		Name:        CommandPremium,
		Description: "Premium features and this server's status",
	},
	CommandAddPremium: {
		Name:        CommandAddPremium,
		Description: "Grant premium to a server (Bot owner only)",
		Options: []*discordgo.ApplicationCommandOption{
			strOpt("guild_id", "Server ID", true),
			intOpt("days", "Days of premium (0 for lifetime)", false, 0, 3650),
		},
	},
	CommandRevokePremium: {
		Name:        CommandRevokePremium,
		Description: "Revoke premium from a server (Bot owner only)",
		Options:     []*discordgo.ApplicationCommandOption{strOpt("guild_id", "Server ID", true)},
	},
	CommandChangeBotName: {
		Name:        CommandChangeBotName,
		Description: "Change the bot's nickname in this server (Premium, Administrator)",
		Options:     []*discordgo.ApplicationCommandOption{strOpt("name", "New nickname (1-32 characters)", true)},
	},
	CommandTimeout: {
		Name:        CommandTimeout,
		Description: "Timeout a member (Staff)",
		Options: []*discordgo.ApplicationCommandOption{
			userOpt("user", "Member", true),
			intOpt("minutes", "Duration in minutes", true, 1, 40320),
			strOpt("reason", "Reason", false),
		},
	},
	CommandAdminKick: {
		Name:        CommandAdminKick,
		Description: "Kick a member (Staff)",
		Options:     []*discordgo.ApplicationCommandOption{userOpt("user", "Member", true), strOpt("reason", "Reason", false)},
	},
	CommandBan: {
		Name:        CommandBan,
		Description: "Ban a member (Staff)",
		Options: []*discordgo.ApplicationCommandOption{
			userOpt("user", "Member", true),
			strOpt("reason", "Reason", false),
			intOpt("delete_days", "Days of messages to delete", false, 0, 7),
		},
	},
	CommandRole: {
		Name:        CommandRole,
		Description: "Give a member a role (Staff)",
		Options:     []*discordgo.ApplicationCommandOption{userOpt("user", "Member", true), roleOpt("role", "Role", true)},
	},
	CommandUnrole: {
		Name:        CommandUnrole,
		Description: "Remove a role from a member (Staff)",
		Options:     []*discordgo.ApplicationCommandOption{userOpt("user", "Member", true), roleOpt("role", "Role", true)},
	},
	CommandMuteVC:   {Name: CommandMuteVC, Description: "Server-mute everyone in your voice channel (Staff)"},
	CommandUnmuteVC: {Name: CommandUnmuteVC, Description: "Unmute everyone in your voice channel (Staff)"},
	CommandDMMembers: {
		Name:        CommandDMMembers,
		Description: "DM every member of a role (Coach)",
		Options:     []*discordgo.ApplicationCommandOption{roleOpt("role", "Role", true), strOpt("message", "Message", true)},
	},
	CommandDMTCMembers: {
		Name:        CommandDMTCMembers,
		Description: "DM every member of a team role (Premium, Staff)",
		Options:     []*discordgo.ApplicationCommandOption{roleOpt("role", "Role", true), strOpt("message", "Message", true)},
	},
	CommandHelp:     {Name: CommandHelp, Description: "List commands"},
	CommandPing:     {Name: CommandPing, Description: "Check bot latency"},
	CommandInvite:   {Name: CommandInvite, Description: "Invite the bot to your server"},
	CommandFlipCoin: {Name: CommandFlipCoin, Description: "Flip a coin"},
	CommandRandomNumber: {
		Name:        CommandRandomNumber,
		Description: "Pick a random number",
		Options: []*discordgo.ApplicationCommandOption{
			intOpt("min", "Minimum", true, -1_000_000, 1_000_000),
			intOpt("max", "Maximum", true, -1_000_000, 1_000_000),
		},
	},
	CommandBold: {
		Name:        CommandBold,
		Description: "Repeat text in bold",
		Options:     []*discordgo.ApplicationCommandOption{strOpt("text", "Text", true)},
	},
	CommandFBan: {
		Name:        CommandFBan,
		Description: "Fake-ban someone (joke)",
		Options:     []*discordgo.ApplicationCommandOption{userOpt("user", "Target", true), strOpt("reason", "Reason", false)},
	},
	CommandFKick: {
		Name:        CommandFKick,
		Description: "Fake-kick someone (joke)",
		Options:     []*discordgo.ApplicationCommandOption{userOpt("user", "Target", true)},
	},
	CommandSuggest: {
		Name:        CommandSuggest,
		Description: "Send a suggestion to the server staff",
		Options:     []*discordgo.ApplicationCommandOption{strOpt("suggestion", "Your suggestion", true)},
	},
	CommandBotStats: {Name: CommandBotStats, Description: "Bot statistics (Bot owner only)"},
	CommandGuilds:   {Name: CommandGuilds, Description: "List servers the bot is in (Bot owner only)"},
}

var defaultCommandOrder = []string{
	CommandSetup,
	CommandGametime,
	CommandTimes,
	CommandAttendance,
	CommandActivityCheck,
	CommandLeague,
	CommandLineup,
	CommandContract,
	CommandAward,
	CommandRingAdd,
	CommandAwardCheck,
	CommandPremium,
	CommandAddPremium,
	CommandRevokePremium,
	CommandChangeBotName,
	CommandTimeout,
	CommandAdminKick,
	CommandBan,
	CommandRole,
	CommandUnrole,
	CommandMuteVC,
	CommandUnmuteVC,
	CommandDMMembers,
	CommandDMTCMembers,
	CommandHelp,
	CommandPing,
	CommandInvite,
	CommandFlipCoin,
	CommandRandomNumber,
	CommandBold,
	CommandFBan,
	CommandFKick,
	CommandSuggest,
	CommandBotStats,
	CommandGuilds,
}

// Definitions returns the named command definitions in registration order,
// or all of them when names is empty.
func Definitions(names ...string) []*discordgo.ApplicationCommand {
	if len(names) == 0 {
		names = defaultCommandOrder
	}
	out := make([]*discordgo.ApplicationCommand, 0, len(names))
	for _, name := range names {
		def, ok := commandDefinitions[name]
		if !ok {
			log.Warn().Str("module", "discord").Str("command", name).Msg("unknown slash command")
			continue
		}
		out = append(out, def)
	}
	return out
}

// RegisterSlashCommands overwrites the application's commands in guildID, or
// globally when guildID is empty. If the bulk call fails each command is
// created individually.
func RegisterSlashCommands(s *discordgo.Session, guildID string, names ...string) error {
	defs := Definitions(names...)
	appID := s.State.User.ID

	if _, err := s.ApplicationCommandBulkOverwrite(appID, guildID, defs); err == nil {
		log.Info().Str("module", "discord").Int("count", len(defs)).Str("guild", guildID).Msg("slash commands registered")
		return nil
	} else {
		log.Warn().Str("module", "discord").Err(err).Msg("bulk command registration failed, registering individually")
	}

	var failures []string
	for _, def := range defs {
		_, err := s.ApplicationCommandCreate(appID, guildID, def)
		if err != nil {
			if isDuplicateCommandError(err) {
				log.Debug().Str("module", "discord").Str("command", def.Name).Msg("slash command already registered")
				continue
			}
			failures = append(failures, fmt.Sprintf("%s: %v", def.Name, err))
			log.Error().Str("module", "discord").Str("command", def.Name).Err(err).Msg("failed to register command")
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("discord: slash command registration errors: %s", strings.Join(failures, "; "))
	}
	return nil
}

// DeleteSlashCommands removes all registered slash commands for a guild, or
// the global set when guildID is empty.
func DeleteSlashCommands(s *discordgo.Session, guildID string) error {
	commands, err := s.ApplicationCommands(s.State.User.ID, guildID)
	if err != nil {
		return err
	}

	for _, cmd := range commands {
		if err := s.ApplicationCommandDelete(s.State.User.ID, guildID, cmd.ID); err != nil {
			return err
		}
	}

	return nil
}

func isDuplicateCommandError(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			msg := strings.ToLower(restErr.Message.Message)
			if strings.Contains(msg, "already exists") {
				return true
			}
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "50035") && strings.Contains(msg, "already exists")
}
