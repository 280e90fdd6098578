package poll

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPoll(t *testing.T, kind Kind, labels ...string) *Poll {
	t.Helper()
	p, err := New(Spec{Kind: kind, GuildID: "g", ChannelID: "c", Title: "Game time", Options: labels})
	require.NoError(t, err)
	return p
}

func TestNewRejectsOptionCounts(t *testing.T) {
	_, err := New(Spec{Kind: KindGametime, Options: []string{"8pm"}})
	assert.ErrorIs(t, err, ErrTooFewOptions)

	_, err = New(Spec{Kind: KindGametime, Options: []string{"8pm", "  "}})
	assert.ErrorIs(t, err, ErrTooFewOptions)

	_, err = New(Spec{Kind: KindTimes, Options: []string{"1", "2", "3", "4", "5", "6", "7"}})
	assert.ErrorIs(t, err, ErrTooManyOptions)

	p, err := New(Spec{Kind: KindTimes, Options: []string{"1", "2", "3", "4", "5", "6"}})
	require.NoError(t, err)
	assert.Len(t, p.Options, MaxOptions)
	assert.Len(t, p.Responses, MaxOptions)
}

func TestKindModes(t *testing.T) {
	assert.Equal(t, ModeSingle, newPoll(t, KindGametime, "a", "b").Mode)
	assert.Equal(t, ModeMulti, newPoll(t, KindTimes, "a", "b").Mode)
	assert.Equal(t, ModeSingle, newPoll(t, KindAttendance, AttendanceOptions...).Mode)
	assert.Equal(t, ModeSingle, newPoll(t, KindActivity, ActivityOptions...).Mode)
}

func TestNewWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p, err := New(Spec{Kind: KindActivity, Options: ActivityOptions, Window: 2 * time.Hour, Now: now})
	require.NoError(t, err)
	require.NotNil(t, p.ExpiresAt)
	assert.False(t, p.Closed(now.Add(time.Hour)))
	assert.True(t, p.Closed(now.Add(2*time.Hour)))
}

func TestSingleChoiceTalliesEveryResponderOnce(t *testing.T) {
	p := newPoll(t, KindGametime, "7pm", "8pm", "9pm")
	s := p.Strategy()
	const n = 30
	for i := 0; i < n; i++ {
		s.Apply(p, fmt.Sprintf("user-%d", i), i%3)
	}
	// Some members change their minds.
	for i := 0; i < n; i += 4 {
		s.Apply(p, fmt.Sprintf("user-%d", i), (i+1)%3)
	}

	assert.Equal(t, n, p.Total())
	assert.Equal(t, n, p.Respondents())
	for i := 0; i < n; i++ {
		assert.Len(t, p.Selected(fmt.Sprintf("user-%d", i)), 1)
	}
}

func TestSingleChoiceMovesResponder(t *testing.T) {
	p := newPoll(t, KindAttendance, AttendanceOptions...)
	s := p.Strategy()

	ch := s.Apply(p, "u", 0)
	assert.Equal(t, Change{Option: 0, Selected: true, Previous: -1}, ch)
	before0, before1 := p.Count(0), p.Count(1)

	ch = s.Apply(p, "u", 1)
	assert.Equal(t, 0, ch.Previous)
	assert.Equal(t, before0-1, p.Count(0))
	assert.Equal(t, before1+1, p.Count(1))

	ch = s.Apply(p, "u", 1)
	assert.True(t, ch.Noop)
	assert.Equal(t, []int{1}, p.Selected("u"))
}

func TestMultiChoiceToggles(t *testing.T) {
	p := newPoll(t, KindTimes, "7pm", "8pm", "9pm")
	s := p.Strategy()

	assert.True(t, s.Apply(p, "u", 0).Selected)
	assert.True(t, s.Apply(p, "u", 2).Selected)
	assert.Equal(t, []int{0, 2}, p.Selected("u"))

	ch := s.Apply(p, "u", 0)
	assert.False(t, ch.Selected)
	assert.Equal(t, []int{2}, p.Selected("u"))
	assert.Equal(t, 0, p.Count(0))
}

func TestRecordRoundTripKeepsState(t *testing.T) {
	p := newPoll(t, KindTimes, "7pm", "8pm")
	p.MessageID = "m"
	p.Strategy().Apply(p, "a", 1)

	got := FromRecord(p.Record())
	assert.Equal(t, p.Mode, got.Mode)
	assert.Equal(t, p.Options, got.Options)
	assert.Equal(t, [][]string{nil, {"a"}}, got.Responses)
	assert.Equal(t, "m", got.MessageID)
}

func TestCustomID(t *testing.T) {
	id := CustomID("abc-123", 4)
	assert.Equal(t, "poll:abc-123:4", id)
	assert.True(t, IsCustomID(id))

	pollID, option, err := ParseCustomID(id)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", pollID)
	assert.Equal(t, 4, option)

	for _, bad := range []string{"poll:x", "poll::1", "poll:x:y", "poll:x:9", "contract:x:1", "poll:x:-1"} {
		_, _, err := ParseCustomID(bad)
		assert.ErrorIs(t, err, ErrInvalidOption, bad)
	}
}
