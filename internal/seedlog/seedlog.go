// Package seedlog generates a synthetic guild log for local development,
// so the compute pipeline can be exercised without API credentials.
package seedlog

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/gw2"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/snapshot"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/model"
	"github.com/albrektsson/gw2-guild-leaderboard/pkg/logger"
)

// Default generation parameters.
const (
	DefaultMembers = 25
	DefaultEntries = 2000
	DefaultDays    = 90
)

// Item ids used for generated treasury and stash entries. Real ids so a
// compute run against the live trading post prices them sensibly.
var seedItemIDs = []int{19721, 19685, 24295, 19701, 19976, 46731}

// Config controls one generation run.
type Config struct {
	Members int
	Entries int
	Days    int
	DataDir string
	Seed    int64
}

// Run writes a synthetic guild log, member list, and guild info snapshot
// into the configured data directory.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.Members <= 0 {
		cfg.Members = DefaultMembers
	}
	if cfg.Entries <= 0 {
		cfg.Entries = DefaultEntries
	}
	if cfg.Days <= 0 {
		cfg.Days = DefaultDays
	}
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic seed for reproducible fixtures

	members := memberNames(rng, cfg.Members)
	entries := generateEntries(rng, members, cfg.Entries, cfg.Days)

	store := snapshot.NewStore(cfg.DataDir)
	log := &snapshot.Log{
		LastID:    int64(len(entries)),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:   entries,
	}
	if err := store.SaveLog(log); err != nil {
		return fmt.Errorf("save seeded log: %w", err)
	}

	roster := make([]gw2.Member, len(members))
	for i, name := range members {
		roster[i] = gw2.Member{Name: name, Rank: "Member"}
	}
	if err := store.SaveMembers(roster); err != nil {
		return fmt.Errorf("save seeded members: %w", err)
	}

	info := gw2.GuildInfo{ID: uuid.New().String(), Name: "Seeded Guild", Tag: "SEED"}
	if err := store.SaveGuildInfo(info); err != nil {
		return fmt.Errorf("save seeded guild info: %w", err)
	}

	logger.Get().Info(ctx, "seed data written",
		logger.String("dataDir", cfg.DataDir),
		logger.Int("members", len(roster)),
		logger.Int("entries", len(entries)),
	)
	return nil
}

// memberNames builds account-style names, e.g. "Korrin.4821".
func memberNames(rng *rand.Rand, n int) []string {
	prefixes := []string{
		"Korrin", "Maela", "Thessia", "Brann", "Eldric", "Sorena", "Vann",
		"Ishka", "Daro", "Lyss", "Gavren", "Petra", "Holm", "Naia", "Rurik",
	}
	names := make([]string, n)
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		for {
			name := fmt.Sprintf("%s.%04d", prefixes[rng.Intn(len(prefixes))], 1000+rng.Intn(9000))
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				names[i] = name
				break
			}
		}
	}
	return names
}

// generateEntries produces a time-ordered mix of all scored entry kinds
// plus some unscored noise.
func generateEntries(rng *rand.Rand, members []string, count, days int) []model.LogEntry {
	start := time.Now().UTC().AddDate(0, 0, -days)
	step := time.Duration(days) * 24 * time.Hour / time.Duration(count+1)

	entries := make([]model.LogEntry, 0, count)
	var invited []string

	for i := 0; i < count; i++ {
		e := model.LogEntry{
			ID:   int64(i + 1),
			Time: start.Add(time.Duration(i+1) * step).Format(model.TimeLayout),
		}
		user := members[rng.Intn(len(members))]

		switch roll := rng.Intn(100); {
		case roll < 25: // treasury contribution
			e.Type = model.KindTreasury
			e.User = user
			e.ItemID = seedItemIDs[rng.Intn(len(seedItemIDs))]
			e.Count = 1 + rng.Intn(250)
			if rng.Intn(4) == 0 {
				e.Coins = rng.Intn(50000)
			}
		case roll < 50: // stash traffic
			e.Type = model.KindStash
			e.User = user
			if rng.Intn(10) < 7 {
				e.Operation = model.OpDeposit
			} else {
				e.Operation = model.OpWithdraw
			}
			if rng.Intn(3) == 0 {
				e.Coins = rng.Intn(200000) // coin-only movement
			} else {
				e.ItemID = seedItemIDs[rng.Intn(len(seedItemIDs))]
				e.Count = 1 + rng.Intn(100)
			}
		case roll < 60: // upgrades, some never queued
			e.Type = model.KindUpgrade
			e.User = user
			if rng.Intn(10) < 6 {
				e.Action = model.ActionQueued
			} else {
				e.Action = "completed"
			}
		case roll < 68: // missions
			e.Type = model.KindMission
			e.User = user
			if rng.Intn(2) == 0 {
				e.State = model.StateStart
			} else {
				e.State = "success"
			}
		case roll < 74: // invites
			e.Type = model.KindInvited
			e.User = fmt.Sprintf("Recruit.%04d", 1000+rng.Intn(9000))
			e.InvitedBy = user
			invited = append(invited, e.User)
		case roll < 80: // joins, mostly from tracked invites
			e.Type = model.KindJoined
			if len(invited) > 0 && rng.Intn(10) < 8 {
				e.User = invited[rng.Intn(len(invited))]
			} else {
				e.User = fmt.Sprintf("Walkin.%04d", 1000+rng.Intn(9000))
			}
		case roll < 90: // daily login influence
			e.Type = model.KindInfluence
			e.Activity = model.ActivityDailyLogin
			n := 1 + rng.Intn(5)
			for j := 0; j < n; j++ {
				e.Participants = append(e.Participants, members[rng.Intn(len(members))])
			}
		default: // system noise without an actor
			e.Type = model.KindUpgrade
			e.Action = "completed"
		}
		entries = append(entries, e)
	}
	return entries
}
