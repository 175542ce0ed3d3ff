// Package pricing resolves item ids to copper values and display names via
// the trading post, with vendor value as the fallback for untradeable
// items. The full table is assembled before aggregation begins.
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/gw2"
	"github.com/albrektsson/gw2-guild-leaderboard/pkg/metrics"
)

// defaultBatchSize bounds ids per API request.
const defaultBatchSize = 200

// MarketAPI is the slice of the GW2 client the oracle needs.
type MarketAPI interface {
	CommercePrices(ctx context.Context, ids []int) ([]gw2.CommercePrice, error)
	Items(ctx context.Context, ids []int) ([]gw2.Item, error)
}

// Oracle batches price and item lookups against the market API. Batches
// are issued sequentially; ordering between batches cannot affect the
// result since each id lands in its own table slot exactly once.
type Oracle struct {
	api       MarketAPI
	batchSize int
}

// Option applies a configuration option to the Oracle.
type Option func(*Oracle)

// WithBatchSize sets the maximum number of ids per API request.
func WithBatchSize(n int) Option {
	return func(o *Oracle) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// NewOracle creates an oracle over the given market API.
func NewOracle(api MarketAPI, opts ...Option) *Oracle {
	o := &Oracle{
		api:       api,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Resolve returns a complete price/name table for the given item ids.
// Pass 1 takes trading post sell prices; pass 2 takes names for all items
// plus vendor value for anything not on the trading post. Ids unknown to
// both endpoints resolve to price zero and a placeholder name.
func (o *Oracle) Resolve(ctx context.Context, ids []int) (*Table, error) {
	t := NewTable(nil, nil)
	if len(ids) == 0 {
		return t, nil
	}

	for _, batch := range chunk(ids, o.batchSize) {
		start := time.Now()
		prices, err := o.api.CommercePrices(ctx, batch)
		metrics.RecordOracleRequest()
		metrics.ObserveOracleBatchDuration(float64(time.Since(start).Milliseconds()))
		if err != nil {
			metrics.RecordOracleError()
			return nil, fmt.Errorf("resolve sell prices: %w", err)
		}
		for _, p := range prices {
			t.prices[p.ID] = p.Sells.UnitPrice
		}
	}

	for _, batch := range chunk(ids, o.batchSize) {
		start := time.Now()
		items, err := o.api.Items(ctx, batch)
		metrics.RecordOracleRequest()
		metrics.ObserveOracleBatchDuration(float64(time.Since(start).Milliseconds()))
		if err != nil {
			metrics.RecordOracleError()
			return nil, fmt.Errorf("resolve item metadata: %w", err)
		}
		for _, it := range items {
			name := it.Name
			if name == "" {
				name = fallbackName(it.ID)
			}
			t.names[it.ID] = name
			if _, ok := t.prices[it.ID]; !ok {
				t.prices[it.ID] = it.VendorValue
				metrics.RecordVendorFallback()
			}
		}
	}

	// Some requested ids may be unknown to the API entirely.
	for _, id := range ids {
		if _, ok := t.prices[id]; !ok {
			t.prices[id] = 0
		}
		if _, ok := t.names[id]; !ok {
			t.names[id] = fallbackName(id)
		}
	}

	metrics.SetItemsPriced(len(t.prices))
	return t, nil
}

// chunk splits ids into slices of at most size elements.
func chunk(ids []int, size int) [][]int {
	var out [][]int
	for i := 0; i < len(ids); i += size {
		end := i + size
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, ids[i:end])
	}
	return out
}
