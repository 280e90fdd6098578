// Package poll holds the attendance and scheduling poll state: creation and
// validation, single/multi response strategies, a per-poll serialized
// Manager, and message rendering.
package poll

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrpepsi1069/LockerRoom/src/data"
)

const (
	MinOptions = 2
	MaxOptions = 6

	maxLabelLen = 80
)

var (
	ErrTooFewOptions  = errors.New("poll: too few options")
	ErrTooManyOptions = errors.New("poll: too many options")
	ErrInvalidOption  = errors.New("poll: invalid option")
	ErrClosed         = errors.New("poll: closed")
	ErrNotFound       = errors.New("poll: not found")
)

type Kind string

const (
	KindGametime   Kind = "gametime"
	KindTimes      Kind = "times"
	KindAttendance Kind = "attendance"
	KindActivity   Kind = "activity"
)

type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// DefaultMode is the selection mode a kind uses: time-slot availability is
// multi-select, every other kind records one answer per member.
func (k Kind) DefaultMode() Mode {
	if k == KindTimes {
		return ModeMulti
	}
	return ModeSingle
}

var (
	AttendanceOptions = []string{"Attending", "Maybe", "Not attending"}
	ActivityOptions   = []string{"Active", "Away"}
)

type Option struct {
	Label string
}

// Poll is one poll's full state. Responses[i] holds the ids of members who
// picked Options[i], in the order they clicked.
type Poll struct {
	ID          string
	Kind        Kind
	Mode        Mode
	GuildID     string
	ChannelID   string
	MessageID   string
	RoleID      string
	LeagueID    string
	Title       string
	Description string
	Options     []Option
	Responses   [][]string
	CreatedBy   string
	CreatedAt   time.Time
	ExpiresAt   *time.Time
}

// Spec describes a poll to create.
type Spec struct {
	Kind        Kind
	Mode        Mode
	GuildID     string
	ChannelID   string
	RoleID      string
	LeagueID    string
	Title       string
	Description string
	Options     []string
	CreatedBy   string
	// Window is how long clicks are accepted. Zero means no expiry.
	Window time.Duration
	Now    time.Time
}

// New validates spec and builds a poll with a fresh id and no responses.
// Blank labels are dropped before counting.
func New(spec Spec) (*Poll, error) {
	var opts []Option
	for _, label := range spec.Options {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if len([]rune(label)) > maxLabelLen {
			label = string([]rune(label)[:maxLabelLen])
		}
		opts = append(opts, Option{Label: label})
	}
	switch {
	case len(opts) < MinOptions:
		return nil, ErrTooFewOptions
	case len(opts) > MaxOptions:
		return nil, ErrTooManyOptions
	}

	mode := spec.Mode
	if mode == "" {
		mode = spec.Kind.DefaultMode()
	}
	if mode != ModeSingle && mode != ModeMulti {
		return nil, errors.New("poll: unknown mode " + string(mode))
	}

	now := spec.Now
	if now.IsZero() {
		now = time.Now()
	}
	p := &Poll{
		ID:          uuid.NewString(),
		Kind:        spec.Kind,
		Mode:        mode,
		GuildID:     spec.GuildID,
		ChannelID:   spec.ChannelID,
		RoleID:      spec.RoleID,
		LeagueID:    spec.LeagueID,
		Title:       spec.Title,
		Description: spec.Description,
		Options:     opts,
		Responses:   make([][]string, len(opts)),
		CreatedBy:   spec.CreatedBy,
		CreatedAt:   now,
	}
	if spec.Window > 0 {
		exp := now.Add(spec.Window)
		p.ExpiresAt = &exp
	}
	return p, nil
}

// Closed reports whether the response window has passed.
func (p *Poll) Closed(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

func (p *Poll) Count(option int) int {
	if option < 0 || option >= len(p.Responses) {
		return 0
	}
	return len(p.Responses[option])
}

// Total is the number of selections across all options.
func (p *Poll) Total() int {
	n := 0
	for _, r := range p.Responses {
		n += len(r)
	}
	return n
}

// Respondents is the number of distinct members with at least one selection.
func (p *Poll) Respondents() int {
	seen := make(map[string]struct{})
	for _, r := range p.Responses {
		for _, id := range r {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}

// Selected returns the option indexes userID currently holds.
func (p *Poll) Selected(userID string) []int {
	var out []int
	for i, r := range p.Responses {
		if indexOf(r, userID) >= 0 {
			out = append(out, i)
		}
	}
	return out
}

func (p *Poll) Strategy() Strategy {
	if p.Mode == ModeMulti {
		return Multi{}
	}
	return Single{}
}

// Clone returns a deep copy.
func (p *Poll) Clone() *Poll {
	out := *p
	out.Options = append([]Option(nil), p.Options...)
	out.Responses = make([][]string, len(p.Responses))
	for i, r := range p.Responses {
		out.Responses[i] = append([]string(nil), r...)
	}
	if p.ExpiresAt != nil {
		t := *p.ExpiresAt
		out.ExpiresAt = &t
	}
	return &out
}

func (p *Poll) Record() *data.PollRecord {
	c := p.Clone()
	labels := make([]string, len(c.Options))
	for i, o := range c.Options {
		labels[i] = o.Label
	}
	return &data.PollRecord{
		ID:          c.ID,
		Kind:        string(c.Kind),
		Multi:       c.Mode == ModeMulti,
		GuildID:     c.GuildID,
		ChannelID:   c.ChannelID,
		MessageID:   c.MessageID,
		RoleID:      c.RoleID,
		LeagueID:    c.LeagueID,
		Title:       c.Title,
		Description: c.Description,
		Options:     labels,
		Responses:   c.Responses,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		ExpiresAt:   c.ExpiresAt,
	}
}

// FromRecord rebuilds a poll from its stored form, padding or trimming
// responses to the option count.
func FromRecord(r *data.PollRecord) *Poll {
	mode := ModeSingle
	if r.Multi {
		mode = ModeMulti
	}
	p := &Poll{
		ID:          r.ID,
		Kind:        Kind(r.Kind),
		Mode:        mode,
		GuildID:     r.GuildID,
		ChannelID:   r.ChannelID,
		MessageID:   r.MessageID,
		RoleID:      r.RoleID,
		LeagueID:    r.LeagueID,
		Title:       r.Title,
		Description: r.Description,
		Options:     make([]Option, len(r.Options)),
		Responses:   make([][]string, len(r.Options)),
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
	for i, label := range r.Options {
		p.Options[i] = Option{Label: label}
		if i < len(r.Responses) {
			p.Responses[i] = append([]string(nil), r.Responses[i]...)
		}
	}
	if r.ExpiresAt != nil {
		t := *r.ExpiresAt
		p.ExpiresAt = &t
	}
	return p
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}
