package scoreboard

import "errors"

// Sentinel kinds for scoreboard errors.
var (
	ErrNotFound     = errors.New("candidate not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
