// Package window applies the retention horizon to the guild log.
package window

import (
	"time"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/model"
)

// Cutoff returns the timestamp of "now minus retentionDays" in the guild
// log's own format, suitable for lexicographic comparison against entry
// timestamps.
func Cutoff(now time.Time, retentionDays int) string {
	return now.UTC().AddDate(0, 0, -retentionDays).Format(model.TimeLayout)
}

// Apply keeps entries whose timestamp is not earlier than the retention
// horizon. retentionDays <= 0 means all-time and returns the input slice
// unchanged. Pure filter; an empty result is not an error.
func Apply(entries []model.LogEntry, retentionDays int, now time.Time) []model.LogEntry {
	if retentionDays <= 0 {
		return entries
	}
	cutoff := Cutoff(now, retentionDays)
	kept := make([]model.LogEntry, 0, len(entries))
	for _, e := range entries {
		if e.Time >= cutoff {
			kept = append(kept, e)
		}
	}
	return kept
}
