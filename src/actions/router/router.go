// Package router dispatches Discord interactions to command, autocomplete
// and button handlers with permission and premium gates, audit logging and
// panic recovery.
package router

import (
	"context"
	"errors"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/mrpepsi1069/LockerRoom/src/logging"
	"github.com/rs/zerolog/log"
)

// interactionTimeout matches the lifetime of an interaction token.
const interactionTimeout = 15 * time.Minute

type Handler func(c *Context) error

// CompleteFunc returns choices for the focused option.
type CompleteFunc func(c *Context, option, value string) []*discordgo.ApplicationCommandOptionChoice

// ButtonFunc handles a component click; customID is the full custom id.
type ButtonFunc func(c *Context, customID string) error

type Command struct {
	Name      string
	Level     discord.Level
	Premium   bool
	GuildOnly bool
	Run       Handler
	Complete  CompleteFunc
}

type button struct {
	prefix string
	run    ButtonFunc
}

type Router struct {
	deps     *Deps
	commands map[string]Command
	buttons  []button
}

func New(deps *Deps) *Router {
	return &Router{deps: deps, commands: make(map[string]Command)}
}

func (r *Router) Deps() *Deps { return r.deps }

// Handle registers a slash command. Registering a name twice replaces it.
func (r *Router) Handle(cmd Command) {
	r.commands[cmd.Name] = cmd
}

// HandleButton routes component clicks whose custom id starts with prefix.
func (r *Router) HandleButton(prefix string, run ButtonFunc) {
	r.buttons = append(r.buttons, button{prefix: prefix, run: run})
	sort.SliceStable(r.buttons, func(i, j int) bool { return len(r.buttons[i].prefix) > len(r.buttons[j].prefix) })
}

// Commands lists registered command names, sorted.
func (r *Router) Commands() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Command returns the registered command called name.
func (r *Router) Command(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Dispatch handles one interaction. It never panics.
func (r *Router) Dispatch(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(ctx, interactionTimeout)
	defer cancel()

	c := r.newContext(ctx, s, i.Interaction)
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("module", "router").Str("interaction", i.ID).
				Interface("panic", rec).Bytes("stack", debug.Stack()).Msg("handler panicked")
			r.replyFailure(c, errors.New("panic"))
		}
	}()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		r.dispatchCommand(c)
	case discordgo.InteractionApplicationCommandAutocomplete:
		r.dispatchAutocomplete(c)
	case discordgo.InteractionMessageComponent:
		r.dispatchButton(c)
	}
}

func (r *Router) newContext(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) *Context {
	c := &Context{
		Ctx:         ctx,
		Session:     s,
		Interaction: i,
		Member:      i.Member,
		User:        discord.InteractionUser(i),
		Deps:        r.deps,
	}
	if i.GuildID != "" {
		g, err := r.deps.Store.GetGuild(ctx, i.GuildID)
		if err != nil {
			if !errors.Is(err, data.ErrNotFound) {
				log.Warn().Str("module", "router").Str("guild", i.GuildID).Err(err).Msg("guild config unavailable")
			}
			g = &data.Guild{GuildID: i.GuildID}
		}
		c.Guild = g
	}
	userID := ""
	if c.User != nil {
		userID = c.User.ID
	}
	c.Level = discord.ResolveLevel(userID, r.deps.Config.OwnerID, c.Member, c.Guild)
	return c
}

func (r *Router) dispatchCommand(c *Context) {
	cmdData := c.Interaction.ApplicationCommandData()
	c.Options = discord.ParseOptions(cmdData)

	cmd, ok := r.commands[cmdData.Name]
	if !ok {
		log.Warn().Str("module", "router").Str("command", cmdData.Name).Msg("unknown command")
		_ = discord.ReplyError(c.Session, c.Interaction, "Unknown Command", "This command is not available.")
		return
	}

	r.audit(c, cmdData.Name)

	if cmd.GuildOnly && c.GuildID() == "" {
		_ = discord.ReplyError(c.Session, c.Interaction, "Server Only", "This command can only be used in a server.")
		return
	}
	if c.Level < cmd.Level {
		_ = c.ReplyPrivate(discord.PermissionDenied(cmd.Level))
		return
	}
	if cmd.Premium && c.Level < discord.LevelOwner && !r.deps.Premium.IsPremium(c.Ctx, c.GuildID()) {
		_ = c.ReplyPrivate(discord.PremiumRequired(r.deps.Config.PremiumPrice))
		return
	}

	start := time.Now()
	err := cmd.Run(c)
	evt := log.Debug()
	if err != nil {
		evt = log.Info()
	}
	evt.Str("module", "router").Str("command", cmdData.Name).Str("sub", c.Options.Sub).
		Str("guild", c.GuildID()).Dur("took", time.Since(start)).Err(err).Msg("command handled")
	if err != nil {
		r.replyFailure(c, err)
	}
}

func (r *Router) dispatchAutocomplete(c *Context) {
	cmdData := c.Interaction.ApplicationCommandData()
	c.Options = discord.ParseOptions(cmdData)
	cmd, ok := r.commands[cmdData.Name]
	if !ok || cmd.Complete == nil {
		_ = discord.Autocomplete(c.Session, c.Interaction, nil)
		return
	}
	name, value := c.Options.Focused()
	if err := discord.Autocomplete(c.Session, c.Interaction, cmd.Complete(c, name, value)); err != nil {
		log.Debug().Str("module", "router").Str("command", cmdData.Name).Err(err).Msg("autocomplete failed")
	}
}

func (r *Router) dispatchButton(c *Context) {
	customID := c.Interaction.MessageComponentData().CustomID
	for _, b := range r.buttons {
		if strings.HasPrefix(customID, b.prefix) {
			if err := b.run(c, customID); err != nil {
				log.Info().Str("module", "router").Str("custom_id", customID).Err(err).Msg("button failed")
				r.replyFailure(c, err)
			}
			return
		}
	}
	log.Debug().Str("module", "router").Str("custom_id", customID).Msg("unrouted component")
}

// replyFailure renders err for the invoker. Unexpected errors are logged and
// shown generically.
func (r *Router) replyFailure(c *Context, err error) {
	var embed *discordgo.MessageEmbed
	var denied *DeniedError
	switch {
	case errors.As(err, &denied):
		embed = discord.PermissionDenied(denied.Required)
	case errors.Is(err, data.ErrUnavailable):
		embed = discord.Error("Database Unavailable", "The database is unreachable right now. Please try again later.")
	case logging.IsMissingPermissions(err):
		embed = discord.Error("Missing Permissions", "I don't have permission to do that here. Check my role and channel permissions.")
	default:
		if ue, ok := asUserError(err); ok {
			embed = discord.Error(ue.Title, ue.Message)
		} else {
			log.Error().Str("module", "router").Str("interaction", c.Interaction.ID).Err(err).Msg("handler error")
			embed = discord.Error("Something Went Wrong", "An unexpected error occurred. Please try again.")
		}
	}
	if c.deferred && !c.replied {
		c.replied = true
		_ = discord.EditReply(c.Session, c.Interaction, embed)
		return
	}
	if c.replied {
		_ = discord.Followup(c.Session, c.Interaction, true, "", embed)
		return
	}
	c.replied = true
	_ = discord.Reply(c.Session, c.Interaction, true, embed)
}

func (r *Router) audit(c *Context, command string) {
	if c.User == nil {
		return
	}
	entry := &data.CommandLog{
		ID:        uuid.NewString(),
		Command:   command,
		GuildID:   c.GuildID(),
		UserID:    c.User.ID,
		Timestamp: r.deps.now(),
	}
	if err := r.deps.Store.LogCommand(c.Ctx, entry); err != nil {
		log.Debug().Str("module", "router").Err(err).Msg("command log failed")
	}
	if err := r.deps.Store.UpsertUser(c.Ctx, c.User.ID, c.User.Username); err != nil {
		log.Debug().Str("module", "router").Err(err).Msg("user upsert failed")
	}
}
