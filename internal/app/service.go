// Package app wires the fetch and compute pipelines behind one service
// facade. The domain packages stay pure; everything that touches the
// network or the filesystem goes through the collaborators injected here.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/gw2"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/pricing"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/snapshot"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/ledger"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/model"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/rank"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/types"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/window"
	"github.com/albrektsson/gw2-guild-leaderboard/pkg/logger"
	"github.com/albrektsson/gw2-guild-leaderboard/pkg/metrics"
)

// Default pipeline configuration.
const (
	defaultLeaderboardLimit = 20
)

// GuildAPI is the slice of the GW2 client the fetch pipeline needs.
type GuildAPI interface {
	Guild(ctx context.Context) (gw2.GuildInfo, error)
	Members(ctx context.Context) ([]gw2.Member, error)
	Log(ctx context.Context, since int64) ([]model.LogEntry, error)
	EmblemSVG(ctx context.Context, guildName string) ([]byte, error)
}

// PriceOracle assembles the price table consulted during aggregation.
type PriceOracle interface {
	Resolve(ctx context.Context, ids []int) (*pricing.Table, error)
}

// Service runs the leaderboard pipeline: Fetch pulls fresh guild data into
// the snapshot store, Compute recomputes both leaderboards from it. Each
// run is a pure function of the stored inputs plus configuration; no state
// survives between runs outside the store.
type Service struct {
	api    GuildAPI
	oracle PriceOracle
	store  *snapshot.Store

	retentionDays    int
	leaderboardLimit int

	now    func() time.Time
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGuildAPI sets the guild API collaborator used by Fetch.
func WithGuildAPI(api GuildAPI) Option {
	return func(s *Service) {
		if api != nil {
			s.api = api
		}
	}
}

// WithOracle sets the pricing oracle used by Compute.
func WithOracle(o PriceOracle) Option {
	return func(s *Service) {
		if o != nil {
			s.oracle = o
		}
	}
}

// WithStore sets the snapshot store.
func WithStore(store *snapshot.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRetentionDays windows scoring to the last n days. Zero or negative
// keeps all-time history.
func WithRetentionDays(n int) Option {
	return func(s *Service) {
		s.retentionDays = n
	}
}

// WithLeaderboardLimit truncates each published leaderboard to n entries.
func WithLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.leaderboardLimit = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service. A store is required; Fetch additionally needs
// a guild API and Compute a pricing oracle.
func New(opts ...Option) *Service {
	s := &Service{
		leaderboardLimit: defaultLeaderboardLimit,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Fetch refreshes guild metadata, the emblem, the member list, and the
// guild log snapshot. The log fetch uses the stored last_id as a cursor so
// only new entries travel over the wire.
func (s *Service) Fetch(ctx context.Context) error {
	if s.api == nil {
		return ErrNoGuildAPI
	}
	start := s.now()

	info, err := s.api.Guild(ctx)
	if err != nil {
		return fmt.Errorf("fetch guild info: %w", err)
	}
	if err := s.store.SaveGuildInfo(info); err != nil {
		return err
	}
	s.logger.Info(ctx, "guild info refreshed",
		logger.String("name", info.Name),
		logger.String("tag", info.Tag),
	)

	// The emblem comes from a third-party renderer; failure is not fatal.
	if svg, err := s.api.EmblemSVG(ctx, info.Name); err != nil {
		s.logger.Warn(ctx, "emblem fetch failed, skipping", logger.Error(err))
	} else if err := s.store.SaveEmblem(svg); err != nil {
		return err
	}

	// Membership changes independently of the log, so always refresh it.
	members, err := s.api.Members(ctx)
	if err != nil {
		return fmt.Errorf("fetch members: %w", err)
	}
	if err := s.store.SaveMembers(members); err != nil {
		return err
	}
	metrics.SetMembersTotal(len(members))

	log, err := s.store.LoadLog()
	if err != nil {
		return err
	}
	fetched, err := s.api.Log(ctx, log.LastID)
	if err != nil {
		return err
	}
	metrics.RecordLogEntriesFetched(len(fetched))

	added := log.Merge(fetched)
	metrics.RecordLogEntriesMerged(added)
	if added == 0 {
		s.logger.Info(ctx, "no new log entries", logger.Int64("lastID", log.LastID))
		return nil
	}

	now := s.now()
	log.UpdatedAt = now.UTC().Format(time.RFC3339)
	if trimmed := log.Trim(s.retentionDays, now); trimmed > 0 {
		s.logger.Info(ctx, "trimmed entries past retention",
			logger.Int("trimmed", trimmed),
			logger.Int("retentionDays", s.retentionDays),
		)
	}
	if err := s.store.SaveLog(log); err != nil {
		return err
	}
	metrics.SetLogEntriesTotal(len(log.Entries))
	metrics.ObserveFetchDuration(float64(s.now().Sub(start).Milliseconds()))

	s.logger.Info(ctx, "guild log updated",
		logger.Int("added", added),
		logger.Int("total", len(log.Entries)),
		logger.Int64("lastID", log.LastID),
	)
	return nil
}

// Compute recomputes both leaderboards from the stored snapshot and
// persists the output document. The price table is fully assembled before
// aggregation starts.
func (s *Service) Compute(ctx context.Context) (*types.LeaderboardDoc, error) {
	if s.oracle == nil {
		return nil, ErrNoOracle
	}
	start := s.now()

	log, err := s.store.LoadLog()
	if err != nil {
		return nil, err
	}

	entries := window.Apply(log.Entries, s.retentionDays, s.now())
	s.logger.Info(ctx, "retention window applied",
		logger.Int("retentionDays", s.retentionDays),
		logger.Int("entries", len(entries)),
	)

	members, err := s.store.LoadMembers()
	if err != nil {
		return nil, err
	}
	if members == nil {
		s.logger.Warn(ctx, "no member snapshot found, skipping member filter")
	}

	table, err := s.oracle.Resolve(ctx, collectItemIDs(entries))
	if err != nil {
		return nil, err
	}
	if err := s.store.SavePriceTables(table.Prices(), table.Names()); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "price table assembled", logger.Int("items", table.Len()))

	monetary, activity := ledger.Aggregate(entries, table)
	metrics.RecordEntriesScored(len(entries))
	metrics.SetAccountsTracked("monetary", monetary.Len())
	metrics.SetAccountsTracked("activity", activity.Len())

	opts := []rank.Option{rank.WithLimit(s.leaderboardLimit)}
	if members != nil {
		names := make([]string, len(members))
		for i, m := range members {
			names[i] = m.Name
		}
		opts = append(opts, rank.WithMembers(rank.MemberSet(names)))
	}
	monetaryLB := rank.Monetary(monetary, opts...)
	activityLB := rank.Activity(activity, opts...)
	metrics.SetLeaderboardSize("monetary", len(monetaryLB))
	metrics.SetLeaderboardSize("activity", len(activityLB))

	doc := &types.LeaderboardDoc{
		UpdatedAt:           log.UpdatedAt,
		TotalEntries:        len(entries),
		RetentionDays:       s.retentionDays,
		LeaderboardLimit:    s.leaderboardLimit,
		MonetaryLeaderboard: monetaryLB,
		ActivityLeaderboard: activityLB,
		ActivityScoring:     ledger.Points(),
	}
	if err := s.store.SaveLeaderboard(doc); err != nil {
		return nil, err
	}
	metrics.ObserveComputeDuration(float64(s.now().Sub(start).Milliseconds()))

	s.logger.Info(ctx, "leaderboards published",
		logger.Int("monetary", len(monetaryLB)),
		logger.Int("activity", len(activityLB)),
	)
	return doc, nil
}

// Run executes a fetch followed by a compute.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Fetch(ctx); err != nil {
		return err
	}
	_, err := s.Compute(ctx)
	return err
}

// Leaderboard returns the last computed leaderboard document. A missing
// snapshot means no compute has run yet; any other load failure (corrupt
// or unreadable file) is reported as-is.
func (s *Service) Leaderboard(ctx context.Context) (*types.LeaderboardDoc, error) {
	doc, err := s.store.LoadLeaderboard()
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", ErrNotComputed, err)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GuildInfo returns the stored guild metadata.
func (s *Service) GuildInfo(ctx context.Context) (gw2.GuildInfo, error) {
	return s.store.LoadGuildInfo()
}

// Emblem returns the cached emblem SVG.
func (s *Service) Emblem(ctx context.Context) ([]byte, error) {
	return s.store.LoadEmblem()
}

// GetStats returns pipeline statistics for the serve-mode stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"retentionDays":    s.retentionDays,
		"leaderboardLimit": s.leaderboardLimit,
		"dataDir":          s.store.Dir(),
	}
	if log, err := s.store.LoadLog(); err == nil {
		stats["logEntries"] = len(log.Entries)
		stats["lastID"] = log.LastID
		stats["updatedAt"] = log.UpdatedAt
	}
	if members, err := s.store.LoadMembers(); err == nil && members != nil {
		stats["members"] = len(members)
	}
	return stats
}

// collectItemIDs gathers the distinct item ids needing prices, in
// ascending order so oracle request batches are deterministic.
func collectItemIDs(entries []model.LogEntry) []int {
	set := make(map[int]struct{})
	for _, e := range entries {
		if (e.Type == model.KindTreasury || e.Type == model.KindStash) && e.ItemID != 0 {
			set[e.ItemID] = struct{}{}
		}
	}
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
