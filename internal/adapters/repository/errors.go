package repository

import "errors"

// Sentinel kinds for leaderboard store errors.
var (
	ErrNotFound      = errors.New("player not found")
	ErrNegativeSteps = errors.New("negative rollback steps")
	ErrCorrupted     = errors.New("store state corrupted")
)
