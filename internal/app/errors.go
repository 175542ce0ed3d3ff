package app

import "errors"

// Sentinel kinds for pipeline wiring errors.
var (
	ErrNoGuildAPI  = errors.New("no guild api configured")
	ErrNoOracle    = errors.New("no pricing oracle configured")
	ErrNotComputed = errors.New("leaderboard not computed yet")
)
