package routertest

import (
	"github.com/bwmarrin/discordgo"
)

const (
	GuildID   = "200000000000000000"
	ChannelID = "300000000000000000"
	AppID     = "100000000000000000"
)

// Member builds an invoking member. Pass discordgo.PermissionAdministrator
// in perms for an admin.
func Member(userID string, perms int64, roles ...string) *discordgo.Member {
	return &discordgo.Member{
		User:        &discordgo.User{ID: userID, Username: "user" + userID},
		Roles:       roles,
		Permissions: perms,
	}
}

// Opt is a command option under construction.
type Opt struct {
	option   *discordgo.ApplicationCommandInteractionDataOption
	user     *discordgo.User
	member   *discordgo.Member
	role     *discordgo.Role
	children []Opt
}

func Str(name, value string) Opt {
	return Opt{option: &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}}
}

// Focused is a string option being typed in an autocomplete interaction.
func Focused(name, value string) Opt {
	o := Str(name, value)
	o.option.Focused = true
	return o
}

func Int(name string, value int64) Opt {
	return Opt{option: &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(value)}}
}

func User(name string, m *discordgo.Member) Opt {
	return Opt{
		option: &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionUser, Value: m.User.ID},
		user:   m.User,
		member: m,
	}
}

func Role(name, roleID string) Opt {
	return Opt{
		option: &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionRole, Value: roleID},
		role:   &discordgo.Role{ID: roleID, Name: "role" + roleID},
	}
}

func Channel(name, channelID string) Opt {
	return Opt{option: &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionChannel, Value: channelID}}
}

func Sub(name string, opts ...Opt) Opt {
	return Opt{
		option:   &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionSubCommand},
		children: opts,
	}
}

func build(opts []Opt, res *discordgo.ApplicationCommandInteractionDataResolved) []*discordgo.ApplicationCommandInteractionDataOption {
	out := make([]*discordgo.ApplicationCommandInteractionDataOption, 0, len(opts))
	for _, o := range opts {
		if o.user != nil {
			res.Users[o.user.ID] = o.user
		}
		if o.member != nil {
			res.Members[o.user.ID] = o.member
		}
		if o.role != nil {
			res.Roles[o.role.ID] = o.role
		}
		if len(o.children) > 0 {
			o.option.Options = build(o.children, res)
		}
		out = append(out, o.option)
	}
	return out
}

// Command builds a slash command interaction in the test guild.
func Command(name string, member *discordgo.Member, opts ...Opt) *discordgo.InteractionCreate {
	return commandOf(discordgo.InteractionApplicationCommand, name, member, opts)
}

// Autocomplete builds an autocomplete interaction.
func Autocomplete(name string, member *discordgo.Member, opts ...Opt) *discordgo.InteractionCreate {
	return commandOf(discordgo.InteractionApplicationCommandAutocomplete, name, member, opts)
}

func commandOf(typ discordgo.InteractionType, name string, member *discordgo.Member, opts []Opt) *discordgo.InteractionCreate {
	res := &discordgo.ApplicationCommandInteractionDataResolved{
		Users:   map[string]*discordgo.User{},
		Members: map[string]*discordgo.Member{},
		Roles:   map[string]*discordgo.Role{},
	}
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "400000000000000000",
		AppID:     AppID,
		Token:     "interaction-token",
		Type:      typ,
		GuildID:   GuildID,
		ChannelID: ChannelID,
		Member:    member,
		Data: discordgo.ApplicationCommandInteractionData{
			Name:     name,
			Options:  build(opts, res),
			Resolved: res,
		},
	}}
}

// Button builds a component click on messageID.
func Button(customID, messageID string, member *discordgo.Member) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "500000000000000000",
		AppID:     AppID,
		Token:     "component-token",
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   GuildID,
		ChannelID: ChannelID,
		Member:    member,
		Message:   &discordgo.Message{ID: messageID, ChannelID: ChannelID},
		Data: discordgo.MessageComponentInteractionData{
			CustomID:      customID,
			ComponentType: discordgo.ButtonComponent,
		},
	}}
}
