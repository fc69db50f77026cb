package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	// ErrStorage means every configured tier failed.
	ErrStorage = errors.New("storage unavailable")
	// ErrNotFound means a tier holds no document yet.
	ErrNotFound = errors.New("leaderboard document not found")
	// ErrCorrupt means a tier holds a document that cannot be decoded or validated.
	ErrCorrupt = errors.New("leaderboard document corrupt")
)
