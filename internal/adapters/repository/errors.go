package repository

import "errors"

// Sentinel kinds for repository errors. Missing directory entities are not
// errors here; lookups return nil so the caller can drop the signal.
var (
	ErrOpenDatabase = errors.New("open database failed")
	ErrMigrate      = errors.New("migrate schema failed")
)
