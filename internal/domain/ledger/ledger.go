// Package ledger implements the scoring pass over the guild log: one
// left-to-right sweep that classifies each entry by kind and folds it into
// per-user monetary and activity accounts.
package ledger

import (
	"math"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/model"
)

// copperPerGold converts minor currency units to gold.
const copperPerGold = 10000

// Activity point weights per scored action.
const (
	pointsUpgradeQueued  = 15
	pointsMissionStarted = 5
	pointsInvited        = 5
	pointsInviteAccepted = 5
	pointsDailyLogin     = 1
)

// Points returns the activity weight table. It is included verbatim in the
// output document so consumers can explain scores.
func Points() map[string]int {
	return map[string]int{
		"upgrade_queued":  pointsUpgradeQueued,
		"mission_started": pointsMissionStarted,
		"invited":         pointsInvited,
		"invite_accepted": pointsInviteAccepted,
		"daily_login":     pointsDailyLogin,
	}
}

// PriceTable resolves item ids to copper prices. Unknown ids price at zero.
type PriceTable interface {
	Price(itemID int) int
}

// CopperPrices is a plain map PriceTable, convenient for tests and seeds.
type CopperPrices map[int]int

// Price implements PriceTable.
func (p CopperPrices) Price(itemID int) int { return p[itemID] }

// Aggregate folds the windowed entry sequence into two account books.
// Entries missing the actor required by their rule are skipped; that is
// expected noise, not an error. The invite map is built in a pre-pass over
// the whole sequence because joined entries may reference invites recorded
// later in the same batch than their own position suggests.
func Aggregate(entries []model.LogEntry, prices PriceTable) (*MonetaryBook, *ActivityBook) {
	monetary := newMonetaryBook()
	activity := newActivityBook()
	invites := inviteMap(entries)

	for _, e := range entries {
		switch e.Type {
		case model.KindTreasury:
			if e.User == "" {
				continue
			}
			v := entryValue(e, prices)
			a := monetary.account(e.User)
			a.TreasuryValue = round2(a.TreasuryValue + v)
			a.MonetaryScore = round2(a.MonetaryScore + v)
			a.touch(e.Time)

		case model.KindStash:
			if e.User == "" {
				continue
			}
			v := entryValue(e, prices)
			a := monetary.account(e.User)
			op := e.Operation
			if op == "" {
				op = model.OpDeposit
			}
			switch op {
			case model.OpDeposit:
				a.StashValueDeposited = round2(a.StashValueDeposited + v)
				a.MonetaryScore = round2(a.MonetaryScore + v)
			case model.OpWithdraw:
				a.StashValueWithdrawn = round2(a.StashValueWithdrawn + v)
				a.MonetaryScore = round2(a.MonetaryScore - v)
			}
			// Other operations (e.g. "move") still mark the user active.
			a.touch(e.Time)

		case model.KindUpgrade:
			if e.User == "" || e.Action != model.ActionQueued {
				continue
			}
			a := activity.account(e.User)
			a.UpgradesQueued++
			a.ActivityScore += pointsUpgradeQueued
			a.touch(e.Time)

		case model.KindMission:
			if e.User == "" || e.State != model.StateStart {
				continue
			}
			a := activity.account(e.User)
			a.MissionsStarted++
			a.ActivityScore += pointsMissionStarted
			a.touch(e.Time)

		case model.KindInvited:
			if e.InvitedBy == "" {
				continue
			}
			a := activity.account(e.InvitedBy)
			a.InvitesSent++
			a.ActivityScore += pointsInvited
			a.touch(e.Time)

		case model.KindJoined:
			// Credit the original inviter when their recruit actually joins.
			// Members who joined without a tracked invite award nothing.
			if e.User == "" {
				continue
			}
			inviter, ok := invites[e.User]
			if !ok {
				continue
			}
			a := activity.account(inviter)
			a.InvitesAccepted++
			a.ActivityScore += pointsInviteAccepted
			a.touch(e.Time)

		case model.KindInfluence:
			if e.Activity != model.ActivityDailyLogin {
				continue
			}
			for _, p := range e.Participants {
				if p == "" {
					continue
				}
				a := activity.account(p)
				a.DailyLoginParticipations++
				a.ActivityScore += pointsDailyLogin
				a.touch(e.Time)
			}
		}
	}

	return monetary, activity
}

// inviteMap builds the invitee -> inviter lookup from invited entries.
// Later invites overwrite earlier ones for the same invitee.
func inviteMap(entries []model.LogEntry) map[string]string {
	m := make(map[string]string)
	for _, e := range entries {
		if e.Type == model.KindInvited && e.User != "" && e.InvitedBy != "" {
			m[e.User] = e.InvitedBy
		}
	}
	return m
}

// entryValue prices one treasury or stash entry in gold.
func entryValue(e model.LogEntry, prices PriceTable) float64 {
	copper := e.Count*prices.Price(e.ItemID) + e.Coins
	return round2(float64(copper) / copperPerGold)
}

// round2 rounds to two decimal places, ties to even, so exact midpoints
// like 0.125 round down to 0.12. Rounding happens after every incremental
// update, not once at the end; a single final rounding pass diverges on
// sequences of fractional values.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
