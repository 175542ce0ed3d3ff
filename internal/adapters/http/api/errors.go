package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrNotComputed = errors.New("leaderboard not computed yet")
)
