package router

import (
	"sync"
	"time"

	"github.com/mrpepsi1069/LockerRoom/src/config"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/dm"
	"github.com/mrpepsi1069/LockerRoom/src/poll"
	"github.com/mrpepsi1069/LockerRoom/src/premium"
)

// Deps are the services shared by every command handler.
type Deps struct {
	Store     data.Store
	Polls     *poll.Manager
	Premium   *premium.Service
	DM        *dm.Dispatcher
	Config    config.BotConfig
	Started   time.Time
	Cooldowns *Cooldowns
	Now       func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Cooldowns rate-limits an action per key.
type Cooldowns struct {
	mu     sync.Mutex
	period time.Duration
	last   map[string]time.Time
}

func NewCooldowns(period time.Duration) *Cooldowns {
	return &Cooldowns{period: period, last: make(map[string]time.Time)}
}

// Take claims key at now. It returns the remaining wait when key was used
// within the period, and claims nothing in that case.
func (c *Cooldowns) Take(key string, now time.Time) (time.Duration, bool) {
	if c == nil || c.period <= 0 {
		return 0, true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if last, ok := c.last[key]; ok {
		if wait := c.period - now.Sub(last); wait > 0 {
			return wait, false
		}
	}
	c.last[key] = now
	return 0, true
}

// Release forgets key, for use when the claimed action never ran.
func (c *Cooldowns) Release(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.last, key)
	c.mu.Unlock()
}
