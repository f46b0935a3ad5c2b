package storage

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrContainerNotFound = errors.New("category or room not found")
	// ErrNotClaimable means the link is no longer PENDING or another
	// cycle holds an unexpired claim on it.
	ErrNotClaimable = errors.New("link not claimable")
	ErrNoPending    = errors.New("no pending links")
	// ErrStatusConflict means a terminal status other than the requested
	// one is already recorded.
	ErrStatusConflict = errors.New("link already resolved with a different status")
	ErrInvalidStatus  = errors.New("resolution status must be COMPLETE or FAILED")
)
