package auth

import "errors"

// Sentinel errors for login and token verification.
var (
	ErrMissingPassword  = errors.New("password is required")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)
