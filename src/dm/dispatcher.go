// Package dm fans direct messages out to guild members through a bounded
// worker pool with a shared send pace and per-recipient retries.
package dm

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jpillora/backoff"
	"github.com/mrpepsi1069/LockerRoom/src/logging"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Sender delivers one direct message.
type Sender interface {
	Send(ctx context.Context, userID string, msg *discordgo.MessageSend) error
}

type Recipient struct {
	ID   string
	Bot  bool
	Name string
}

// Result summarizes a fan-out. Skipped counts blank, duplicate and bot
// recipients plus anyone not reached before the context ended.
type Result struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Skipped   int      `json:"skipped"`
	FailedIDs []string `json:"failed_ids,omitempty"`
}

func (r Result) Total() int { return r.Succeeded + r.Failed + r.Skipped }

type Options struct {
	Workers    int
	Delay      time.Duration
	Retries    int
	BackoffMin time.Duration
	BackoffMax time.Duration
}

type Dispatcher struct {
	sender Sender
	opts   Options
}

func NewDispatcher(sender Sender, opts Options) *Dispatcher {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.BackoffMin <= 0 {
		opts.BackoffMin = 500 * time.Millisecond
	}
	if opts.BackoffMax < opts.BackoffMin {
		opts.BackoffMax = 10 * time.Second
	}
	return &Dispatcher{sender: sender, opts: opts}
}

// Send delivers build(r) to every eligible recipient and blocks until all
// jobs finish or ctx ends.
func (d *Dispatcher) Send(ctx context.Context, recipients []Recipient, build func(Recipient) *discordgo.MessageSend) Result {
	var res Result
	queue := make([]Recipient, 0, len(recipients))
	seen := make(map[string]struct{}, len(recipients))
	for _, r := range recipients {
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" || r.Bot {
			res.Skipped++
			continue
		}
		if _, dup := seen[r.ID]; dup {
			res.Skipped++
			continue
		}
		seen[r.ID] = struct{}{}
		queue = append(queue, r)
	}
	if len(queue) == 0 {
		return res
	}

	var pace <-chan time.Time
	if d.opts.Delay > 0 {
		ticker := time.NewTicker(d.opts.Delay)
		defer ticker.Stop()
		pace = ticker.C
	}

	jobs := make(chan Recipient)
	var (
		mu      sync.Mutex
		handled int
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for _, r := range queue {
			select {
			case jobs <- r:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	for w := 0; w < d.opts.Workers; w++ {
		g.Go(func() error {
			for r := range jobs {
				err := d.deliver(gctx, pace, r, build(r))
				mu.Lock()
				handled++
				switch {
				case err == nil:
					res.Succeeded++
				case gctx.Err() != nil:
					res.Skipped++
				default:
					res.Failed++
					res.FailedIDs = append(res.FailedIDs, r.ID)
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	// Recipients never handed to a worker.
	res.Skipped += len(queue) - handled

	log.Info().Str("module", "dm").Int("succeeded", res.Succeeded).Int("failed", res.Failed).
		Int("skipped", res.Skipped).Msg("dm fan-out finished")
	return res
}

func (d *Dispatcher) deliver(ctx context.Context, pace <-chan time.Time, r Recipient, msg *discordgo.MessageSend) error {
	b := &backoff.Backoff{Min: d.opts.BackoffMin, Max: d.opts.BackoffMax, Factor: 2, Jitter: true}
	for attempt := 0; ; attempt++ {
		if pace != nil {
			select {
			case <-pace:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err := d.sender.Send(ctx, r.ID, msg)
		if err == nil {
			return nil
		}
		if logging.IsCannotDM(err) || !logging.IsTransient(err) || attempt >= d.opts.Retries || ctx.Err() != nil {
			log.Debug().Str("module", "dm").Str("user", r.ID).Int("attempts", attempt+1).Err(err).Msg("dm not delivered")
			return err
		}
		select {
		case <-time.After(b.Duration()):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
