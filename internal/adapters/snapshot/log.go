package snapshot

import (
	"time"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/model"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/window"
)

// Log is the stored guild log: all known entries plus the fetch cursor.
// The API guarantees entry ids are unique within a guild, so the cursor is
// simply the highest id stored.
type Log struct {
	LastID    int64            `json:"last_id"`
	UpdatedAt string           `json:"updated_at,omitempty"`
	Entries   []model.LogEntry `json:"entries"`
}

// Merge appends fetched entries not already stored, deduplicating by id,
// and advances the cursor. Returns the number of entries added.
func (l *Log) Merge(fetched []model.LogEntry) int {
	seen := make(map[int64]struct{}, len(l.Entries))
	for _, e := range l.Entries {
		seen[e.ID] = struct{}{}
	}
	added := 0
	for _, e := range fetched {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		l.Entries = append(l.Entries, e)
		added++
	}
	for _, e := range l.Entries {
		if e.ID > l.LastID {
			l.LastID = e.ID
		}
	}
	return added
}

// Trim drops stored entries older than the retention horizon. The cursor
// is left untouched so trimmed entries are never re-fetched. Returns the
// number of entries removed.
func (l *Log) Trim(retentionDays int, now time.Time) int {
	before := len(l.Entries)
	l.Entries = window.Apply(l.Entries, retentionDays, now)
	return before - len(l.Entries)
}
