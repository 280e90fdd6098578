package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Options indexes a slash command's options by name, descending into a
// subcommand when one was invoked.
type Options struct {
	Sub      string
	values   map[string]*discordgo.ApplicationCommandInteractionDataOption
	resolved *discordgo.ApplicationCommandInteractionDataResolved
}

func ParseOptions(data discordgo.ApplicationCommandInteractionData) Options {
	opts := Options{
		values:   make(map[string]*discordgo.ApplicationCommandInteractionDataOption),
		resolved: data.Resolved,
	}
	list := data.Options
	for len(list) == 1 && (list[0].Type == discordgo.ApplicationCommandOptionSubCommand ||
		list[0].Type == discordgo.ApplicationCommandOptionSubCommandGroup) {
		if opts.Sub != "" {
			opts.Sub += " "
		}
		opts.Sub += list[0].Name
		list = list[0].Options
	}
	for _, o := range list {
		opts.values[o.Name] = o
	}
	return opts
}

func (o Options) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

// String returns the trimmed string option, or "".
func (o Options) String(name string) string {
	v, ok := o.values[name]
	if !ok || v.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return strings.TrimSpace(v.StringValue())
}

func (o Options) Int(name string) (int64, bool) {
	v, ok := o.values[name]
	if !ok || v.Type != discordgo.ApplicationCommandOptionInteger {
		return 0, false
	}
	return v.IntValue(), true
}

func (o Options) IntDefault(name string, def int64) int64 {
	if v, ok := o.Int(name); ok {
		return v
	}
	return def
}

func (o Options) Bool(name string) bool {
	v, ok := o.values[name]
	if !ok || v.Type != discordgo.ApplicationCommandOptionBoolean {
		return false
	}
	return v.BoolValue()
}

// ID returns the snowflake of a user, role, channel or mentionable option.
func (o Options) ID(name string) string {
	v, ok := o.values[name]
	if !ok {
		return ""
	}
	if s, ok := v.Value.(string); ok {
		return s
	}
	return ""
}

// User returns the resolved user for a user option.
func (o Options) User(name string) *discordgo.User {
	id := o.ID(name)
	if id == "" {
		return nil
	}
	if o.resolved != nil {
		if u, ok := o.resolved.Users[id]; ok {
			return u
		}
	}
	return &discordgo.User{ID: id}
}

// Member returns the resolved guild member for a user option, with User set.
func (o Options) Member(name string) *discordgo.Member {
	id := o.ID(name)
	if id == "" || o.resolved == nil {
		return nil
	}
	m, ok := o.resolved.Members[id]
	if !ok {
		return nil
	}
	if m.User == nil {
		m.User = o.User(name)
	}
	return m
}

func (o Options) Role(name string) *discordgo.Role {
	id := o.ID(name)
	if id == "" {
		return nil
	}
	if o.resolved != nil {
		if r, ok := o.resolved.Roles[id]; ok {
			return r
		}
	}
	return &discordgo.Role{ID: id}
}

// Focused returns the option being typed in an autocomplete interaction.
func (o Options) Focused() (name, value string) {
	for _, v := range o.values {
		if v.Focused {
			if s, ok := v.Value.(string); ok {
				return v.Name, s
			}
			return v.Name, ""
		}
	}
	return "", ""
}
