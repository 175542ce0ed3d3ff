// Package rank turns account books into ranked leaderboard views.
//
// Sorting is score-descending and stable over the book's first-touch
// order, so equal scores keep the order in which users first appeared in
// the log. Member filtering re-numbers ranks densely; truncation happens
// after re-ranking and keeps whatever rank numbers were already assigned.
package rank

import (
	"sort"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/ledger"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/types"
)

type settings struct {
	members map[string]struct{}
	limit   int
}

// Option applies a configuration option to a ranking run.
type Option func(*settings)

// WithMembers restricts the leaderboard to the given current-membership
// set and re-ranks the remaining entries. A nil set disables filtering.
func WithMembers(members map[string]struct{}) Option {
	return func(s *settings) {
		s.members = members
	}
}

// WithLimit truncates the leaderboard to at most n entries. Zero or
// negative means unlimited.
func WithLimit(n int) Option {
	return func(s *settings) {
		s.limit = n
	}
}

// MemberSet builds a membership set from a list of account names.
func MemberSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Monetary ranks the monetary book by monetary score.
func Monetary(book *ledger.MonetaryBook, opts ...Option) []types.MonetaryEntry {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	entries := make([]types.MonetaryEntry, 0, book.Len())
	for _, a := range book.Accounts() {
		entries = append(entries, types.MonetaryEntry{
			User:                a.User,
			MonetaryScore:       a.MonetaryScore,
			TreasuryValue:       a.TreasuryValue,
			StashValueDeposited: a.StashValueDeposited,
			StashValueWithdrawn: a.StashValueWithdrawn,
			LastActive:          a.LastActive,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].MonetaryScore > entries[j].MonetaryScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if s.members != nil {
		kept := entries[:0]
		for _, e := range entries {
			if _, ok := s.members[e.User]; ok {
				kept = append(kept, e)
			}
		}
		entries = kept
		for i := range entries {
			entries[i].Rank = i + 1
		}
	}
	if s.limit > 0 && len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	return entries
}

// Activity ranks the activity book by activity score.
func Activity(book *ledger.ActivityBook, opts ...Option) []types.ActivityEntry {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	entries := make([]types.ActivityEntry, 0, book.Len())
	for _, a := range book.Accounts() {
		entries = append(entries, types.ActivityEntry{
			User:                     a.User,
			ActivityScore:            a.ActivityScore,
			UpgradesQueued:           a.UpgradesQueued,
			MissionsStarted:          a.MissionsStarted,
			InvitesSent:              a.InvitesSent,
			InvitesAccepted:          a.InvitesAccepted,
			DailyLoginParticipations: a.DailyLoginParticipations,
			LastActive:               a.LastActive,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ActivityScore > entries[j].ActivityScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if s.members != nil {
		kept := entries[:0]
		for _, e := range entries {
			if _, ok := s.members[e.User]; ok {
				kept = append(kept, e)
			}
		}
		entries = kept
		for i := range entries {
			entries[i].Rank = i + 1
		}
	}
	if s.limit > 0 && len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	return entries
}
