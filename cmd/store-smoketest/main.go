package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mrpepsi1069/LockerRoom/src/config"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/data/drivers"
	"github.com/mrpepsi1069/LockerRoom/src/logging"
	"github.com/mrpepsi1069/LockerRoom/src/poll"
)

var (
	driverFlag  = flag.String("driver", "", "Store driver override (mongo|mysql|memory)")
	guildFlag   = flag.String("guild", "000000000000000001", "Guild id to write test records under")
	userFlag    = flag.String("user", "000000000000000002", "User id for award and poll records")
	abbrFlag    = flag.String("abbr", "SMK", "League abbreviation to create")
	cleanupFlag = flag.Bool("cleanup", true, "Delete the league and poll when done")
	timeoutFlag = flag.Duration("timeout", 30*time.Second, "Overall timeout")
)

type step struct {
	name string
	run  func(ctx context.Context) error
}

func main() {
	flag.Parse()
	_ = godotenv.Load()
	logging.Init(os.Getenv("LOG_LEVEL"), true)

	cfg := config.LoadStoreConfig()
	if *driverFlag != "" {
		cfg.Driver = *driverFlag
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	store, err := drivers.Connect(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", cfg.Driver, err)
		os.Exit(1)
	}
	defer store.Close()
	fmt.Printf("driver: %s\n", store.Driver())

	failed := 0
	for _, s := range steps(store) {
		start := time.Now()
		err := s.run(ctx)
		status := "ok"
		if err != nil {
			status = "FAIL: " + err.Error()
			failed++
		}
		fmt.Printf("%-28s %-8s %s\n", s.name, time.Since(start).Round(time.Millisecond), status)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func steps(store data.Store) []step {
	var (
		league *data.League
		pollID string
	)
	award := func() *data.Award {
		return &data.Award{
			GuildID: *guildFlag, UserID: *userFlag, LeagueID: league.ID,
			LeagueAbbr: league.Abbr, LeagueName: league.Name,
			Name: "MVP", Season: "S1", GivenBy: *userFlag, CreatedAt: time.Now(),
		}
	}

	list := []step{
		{"ping", store.Ping},
		{"upsert guild", func(ctx context.Context) error {
			return store.UpsertGuild(ctx, *guildFlag, "Smoke Test")
		}},
		{"get guild", func(ctx context.Context) error {
			_, err := store.GetGuild(ctx, *guildFlag)
			return err
		}},
		{"create league", func(ctx context.Context) error {
			l := &data.League{GuildID: *guildFlag, Abbr: *abbrFlag, Name: "Smoke League", CreatedBy: *userFlag, CreatedAt: time.Now()}
			err := store.CreateLeague(ctx, l)
			if errors.Is(err, data.ErrDuplicate) {
				league, err = store.GetLeagueByAbbr(ctx, *guildFlag, *abbrFlag)
				return err
			}
			league = l
			return err
		}},
		{"add award", func(ctx context.Context) error {
			err := store.AddAward(ctx, award())
			if errors.Is(err, data.ErrDuplicate) {
				return nil
			}
			return err
		}},
		{"duplicate award rejected", func(ctx context.Context) error {
			if err := store.AddAward(ctx, award()); !errors.Is(err, data.ErrDuplicate) {
				return fmt.Errorf("expected duplicate, got %v", err)
			}
			return nil
		}},
		{"list awards", func(ctx context.Context) error {
			awards, err := store.ListAwards(ctx, *guildFlag, *userFlag)
			if err == nil && len(awards) == 0 {
				err = errors.New("no awards returned")
			}
			return err
		}},
		{"create poll", func(ctx context.Context) error {
			p, err := poll.New(poll.Spec{
				Kind: poll.KindAttendance, GuildID: *guildFlag, Title: "Smoke", CreatedBy: *userFlag,
				Options: poll.AttendanceOptions,
			})
			if err != nil {
				return err
			}
			pollID = p.ID
			return store.CreatePoll(ctx, p.Record())
		}},
		{"save poll responses", func(ctx context.Context) error {
			return store.SavePollResponses(ctx, pollID, [][]string{{*userFlag}, {}, {}})
		}},
		{"reload poll", func(ctx context.Context) error {
			rec, err := store.GetPoll(ctx, pollID)
			if err != nil {
				return err
			}
			if got := poll.FromRecord(rec).Count(0); got != 1 {
				return fmt.Errorf("expected 1 response, got %d", got)
			}
			return nil
		}},
	}
	if *cleanupFlag {
		list = append(list,
			step{"delete poll", func(ctx context.Context) error { return store.DeletePoll(ctx, pollID) }},
			step{"delete league", func(ctx context.Context) error { return store.DeleteLeague(ctx, *guildFlag, *abbrFlag) }},
		)
	}
	return list
}
