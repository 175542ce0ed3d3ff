// Package types contains the JSON shapes shared between the compute
// pipeline, the persisted output document, and the HTTP surface.
package types

// MonetaryEntry is one ranked row of the monetary leaderboard. Values are
// in gold, rounded to two decimal places.
type MonetaryEntry struct {
	Rank                int     `json:"rank"`
	User                string  `json:"user"`
	MonetaryScore       float64 `json:"monetary_score"`
	TreasuryValue       float64 `json:"treasury_value"`
	StashValueDeposited float64 `json:"stash_value_deposited"`
	StashValueWithdrawn float64 `json:"stash_value_withdrawn"`
	LastActive          string  `json:"last_active,omitempty"`
}

// ActivityEntry is one ranked row of the activity leaderboard.
type ActivityEntry struct {
	Rank                     int    `json:"rank"`
	User                     string `json:"user"`
	ActivityScore            int    `json:"activity_score"`
	UpgradesQueued           int    `json:"upgrades_queued"`
	MissionsStarted          int    `json:"missions_started"`
	InvitesSent              int    `json:"invites_sent"`
	InvitesAccepted          int    `json:"invites_accepted"`
	DailyLoginParticipations int    `json:"daily_login_participations"`
	LastActive               string `json:"last_active,omitempty"`
}

// LeaderboardDoc is the persisted output of one compute run. The
// activity_scoring table is part of the contract so downstream consumers
// can explain scores.
type LeaderboardDoc struct {
	UpdatedAt           string          `json:"updated_at,omitempty"`
	TotalEntries        int             `json:"total_entries"`
	RetentionDays       int             `json:"retention_days"`
	LeaderboardLimit    int             `json:"leaderboard_limit"`
	MonetaryLeaderboard []MonetaryEntry `json:"monetary_leaderboard"`
	ActivityLeaderboard []ActivityEntry `json:"activity_leaderboard"`
	ActivityScoring     map[string]int  `json:"activity_scoring"`
}
