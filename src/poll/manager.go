package poll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/rs/zerolog/log"
)

const lockStripes = 64

// Locker serializes poll mutations across processes.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Manager owns the live poll arena. Every mutation of a poll runs under that
// poll's stripe lock (and the distributed lock when configured), is persisted,
// and is rendered before the lock is released.
type Manager struct {
	store  data.PollStore
	locker Locker
	now    func() time.Time

	stripes [lockStripes]sync.Mutex

	mu    sync.RWMutex
	arena map[string]*Poll
}

type ManagerOption func(*Manager)

// WithLocker adds a cross-process lock around each mutation.
func WithLocker(l Locker) ManagerOption {
	return func(m *Manager) { m.locker = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func NewManager(store data.PollStore, opts ...ManagerOption) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
		arena: make(map[string]*Poll),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) stripe(id string) *sync.Mutex {
	return &m.stripes[xxhash.ChecksumString64(id)%lockStripes]
}

func (m *Manager) lock(ctx context.Context, id string) (func(), error) {
	mu := m.stripe(id)
	mu.Lock()
	if m.locker == nil {
		return mu.Unlock, nil
	}
	release, err := m.locker.Lock(ctx, "poll:"+id)
	if err != nil {
		mu.Unlock()
		return nil, err
	}
	return func() {
		release()
		mu.Unlock()
	}, nil
}

// Register persists a new poll and adds it to the arena.
func (m *Manager) Register(ctx context.Context, p *Poll) error {
	if err := m.store.CreatePoll(ctx, p.Record()); err != nil {
		return fmt.Errorf("persist poll %s: %w", p.ID, err)
	}
	m.mu.Lock()
	m.arena[p.ID] = p.Clone()
	m.mu.Unlock()
	return nil
}

// Attach records the message a registered poll was posted as.
func (m *Manager) Attach(ctx context.Context, id, channelID, messageID string) error {
	unlock, err := m.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	p, err := m.loadLocked(ctx, id)
	if err != nil {
		return err
	}
	if err := m.store.SetPollMessage(ctx, id, channelID, messageID); err != nil {
		return fmt.Errorf("attach poll %s: %w", id, err)
	}
	next := p.Clone()
	next.ChannelID, next.MessageID = channelID, messageID
	m.mu.Lock()
	m.arena[id] = next
	m.mu.Unlock()
	return nil
}

// Discard removes a poll whose message could not be posted.
func (m *Manager) Discard(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.arena, id)
	m.mu.Unlock()
	if err := m.store.DeletePoll(ctx, id); err != nil && !errors.Is(err, data.ErrNotFound) {
		return fmt.Errorf("discard poll %s: %w", id, err)
	}
	return nil
}

// Get returns a snapshot of the poll, loading it from the store when it is
// not in the arena.
func (m *Manager) Get(ctx context.Context, id string) (*Poll, error) {
	p, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

func (m *Manager) load(ctx context.Context, id string) (*Poll, error) {
	m.mu.RLock()
	p, ok := m.arena[id]
	m.mu.RUnlock()
	if ok {
		return p, nil
	}
	return m.fetch(ctx, id, false)
}

// loadLocked returns the poll for a mutation under the poll's lock. With a
// cross-process locker the arena copy may be stale, so it reads the store.
func (m *Manager) loadLocked(ctx context.Context, id string) (*Poll, error) {
	if m.locker == nil {
		return m.load(ctx, id)
	}
	return m.fetch(ctx, id, true)
}

func (m *Manager) fetch(ctx context.Context, id string, replace bool) (*Poll, error) {
	rec, err := m.store.GetPoll(ctx, id)
	if errors.Is(err, data.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load poll %s: %w", id, err)
	}
	p := FromRecord(rec)

	m.mu.Lock()
	if existing, ok := m.arena[id]; ok && !replace {
		p = existing
	} else {
		m.arena[id] = p
	}
	m.mu.Unlock()
	return p, nil
}

// Respond applies userID's click on option. The new state is persisted before
// onChange runs; onChange receives a snapshot and runs while the poll is
// still locked, so renders land in mutation order. A render failure is
// returned but the state change stands.
func (m *Manager) Respond(ctx context.Context, pollID, userID string, option int, onChange func(*Poll) error) (Change, *Poll, error) {
	unlock, err := m.lock(ctx, pollID)
	if err != nil {
		return Change{}, nil, err
	}
	defer unlock()

	current, err := m.loadLocked(ctx, pollID)
	if err != nil {
		return Change{}, nil, err
	}
	if current.Closed(m.now()) {
		return Change{}, current.Clone(), ErrClosed
	}
	if option < 0 || option >= len(current.Options) {
		return Change{}, current.Clone(), fmt.Errorf("%w: %d", ErrInvalidOption, option)
	}

	next := current.Clone()
	change := next.Strategy().Apply(next, userID, option)
	if change.Noop {
		return change, next, nil
	}

	if err := m.store.SavePollResponses(ctx, pollID, next.Responses); err != nil {
		return Change{}, current.Clone(), fmt.Errorf("save poll %s: %w", pollID, err)
	}
	m.mu.Lock()
	m.arena[pollID] = next
	m.mu.Unlock()

	snapshot := next.Clone()
	if onChange != nil {
		if err := onChange(snapshot.Clone()); err != nil {
			return change, snapshot, fmt.Errorf("render poll %s: %w", pollID, err)
		}
	}
	return change, snapshot, nil
}

// Sweep drops closed polls from the arena. Stored records are kept.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, p := range m.arena {
		if p.Closed(now) {
			delete(m.arena, id)
			n++
		}
	}
	return n
}

// Run sweeps the arena every interval until ctx ends.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Debug().Str("module", "polls").Int("evicted", n).Msg("swept closed polls")
			}
		}
	}
}

// Len is the number of polls held in memory.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.arena)
}
