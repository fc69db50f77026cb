package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrMissingToken = errors.New("no token provided")
	ErrMissingName  = errors.New("player name is required")
)
