package dm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu       sync.Mutex
	attempts map[string]int
	failures map[string][]error
	sent     []string
}

func newFakeSender() *fakeSender {
	return &fakeSender{attempts: map[string]int{}, failures: map[string][]error{}}
}

func (f *fakeSender) Send(ctx context.Context, userID string, msg *discordgo.MessageSend) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.attempts[userID]
	f.attempts[userID]++
	if n < len(f.failures[userID]) {
		return f.failures[userID][n]
	}
	f.sent = append(f.sent, userID)
	return nil
}

func restErr(status, code int) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status},
		Message:  &discordgo.APIErrorMessage{Code: code},
	}
}

func build(r Recipient) *discordgo.MessageSend { return &discordgo.MessageSend{Content: "hi " + r.ID} }

func fastOpts(workers int) Options {
	return Options{Workers: workers, Retries: 2, BackoffMin: time.Millisecond, BackoffMax: 2 * time.Millisecond}
}

func TestSendSkipsBotsBlankAndDuplicates(t *testing.T) {
	f := newFakeSender()
	d := NewDispatcher(f, fastOpts(3))
	res := d.Send(context.Background(), []Recipient{
		{ID: "a"}, {ID: "b"}, {ID: "a"}, {ID: " "}, {ID: "bot", Bot: true}, {ID: "c"},
	}, build)

	assert.Equal(t, Result{Succeeded: 3, Skipped: 3}, res)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, f.sent)
}

func TestSendClosedDMsFailWithoutRetry(t *testing.T) {
	f := newFakeSender()
	f.failures["closed"] = []error{restErr(http.StatusForbidden, discordgo.ErrCodeCannotSendMessagesToThisUser)}
	d := NewDispatcher(f, fastOpts(2))

	res := d.Send(context.Background(), []Recipient{{ID: "closed"}, {ID: "open"}}, build)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"closed"}, res.FailedIDs)
	assert.Equal(t, 1, f.attempts["closed"])
}

func TestSendRetriesTransientErrors(t *testing.T) {
	f := newFakeSender()
	f.failures["flaky"] = []error{restErr(http.StatusBadGateway, 0), errors.New("connection reset")}
	f.failures["down"] = []error{restErr(500, 0), restErr(500, 0), restErr(500, 0), restErr(500, 0)}
	d := NewDispatcher(f, fastOpts(1))

	res := d.Send(context.Background(), []Recipient{{ID: "flaky"}, {ID: "down"}}, build)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 3, f.attempts["flaky"])
	assert.Equal(t, 3, f.attempts["down"])
}

func TestSendCancelledCountsRemainderAsSkipped(t *testing.T) {
	f := newFakeSender()
	d := NewDispatcher(f, Options{Workers: 1, Delay: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res := d.Send(ctx, []Recipient{{ID: "a"}, {ID: "b"}, {ID: "c"}}, build)
	assert.Equal(t, 0, res.Succeeded)
	assert.Equal(t, 3, res.Skipped)
	assert.Equal(t, 3, res.Total())
}

type fakeLister struct {
	members []*discordgo.Member
	calls   int
}

func (f *fakeLister) GuildMembers(guildID, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error) {
	f.calls++
	start := 0
	if after != "" {
		for i, m := range f.members {
			if m.User.ID == after {
				start = i + 1
			}
		}
	}
	end := start + limit
	if end > len(f.members) {
		end = len(f.members)
	}
	return f.members[start:end], nil
}

func TestMembersFiltersByRoleAcrossPages(t *testing.T) {
	lister := &fakeLister{}
	for i := 0; i < memberPage+5; i++ {
		roles := []string{}
		if i%2 == 0 {
			roles = append(roles, "team")
		}
		lister.members = append(lister.members, &discordgo.Member{
			User:  &discordgo.User{ID: fmt.Sprintf("%04d", i)},
			Roles: roles,
		})
	}

	got, err := Members(context.Background(), lister, "g", "team")
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)
	assert.Len(t, got, (memberPage+5+1)/2)

	all, err := Members(context.Background(), lister, "g", "")
	require.NoError(t, err)
	assert.Len(t, all, memberPage+5)
}
