// Package model contains the guild log data model shared across layers.
package model

// Log entry kinds emitted by the guild log API. Kinds outside this set
// (ranks, kicks, motd edits) flow through the pipeline unscored.
const (
	KindTreasury  = "treasury"
	KindStash     = "stash"
	KindUpgrade   = "upgrade"
	KindMission   = "mission"
	KindInvited   = "invited"
	KindJoined    = "joined"
	KindInfluence = "influence"
)

// Stash operation directions.
const (
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
)

// Sub-tags that carry score credit.
const (
	ActionQueued       = "queued"
	StateStart         = "start"
	ActivityDailyLogin = "daily_login"
)

// TimeLayout is the timestamp format used by guild log entries. Timestamps
// are zero-padded UTC, so entry ordering is plain string comparison.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// LogEntry is one guild log event as returned by /v2/guild/:id/log.
// Entries are decoded once and treated as read-only afterwards.
type LogEntry struct {
	ID           int64    `json:"id"`
	Time         string   `json:"time"`
	Type         string   `json:"type"`
	User         string   `json:"user,omitempty"`
	InvitedBy    string   `json:"invited_by,omitempty"`
	ItemID       int      `json:"item_id,omitempty"`
	Count        int      `json:"count,omitempty"`
	Coins        int      `json:"coins,omitempty"`
	Operation    string   `json:"operation,omitempty"`
	Action       string   `json:"action,omitempty"`
	State        string   `json:"state,omitempty"`
	Activity     string   `json:"activity,omitempty"`
	Participants []string `json:"participants,omitempty"`
}
