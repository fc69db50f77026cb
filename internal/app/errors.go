package service

import "errors"

// ErrUnauthorized is returned when a mutation is attempted without the admin flag.
var ErrUnauthorized = errors.New("admin access required")
