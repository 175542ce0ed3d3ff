package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/seedlog"
	"github.com/albrektsson/gw2-guild-leaderboard/pkg/logger"
)

const defaultRunTimeout = time.Minute

func main() {
	var (
		members = flag.Int("members", seedlog.DefaultMembers, "Number of guild members to generate")
		entries = flag.Int("entries", seedlog.DefaultEntries, "Number of log entries to generate")
		days    = flag.Int("days", seedlog.DefaultDays, "Spread entries over this many days ending now")
		dataDir = flag.String("data", "data", "Data directory to write snapshots into")
		seed    = flag.Int64("seed", 42, "Random seed for reproducible fixtures")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &seedlog.Config{
		Members: *members,
		Entries: *entries,
		Days:    *days,
		DataDir: *dataDir,
		Seed:    *seed,
	}
	if err := seedlog.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
