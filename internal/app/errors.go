package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoDatabase = errors.New("no database configured")
)
