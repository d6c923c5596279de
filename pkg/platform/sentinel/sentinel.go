package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into coded domain errors:
//   - ErrNotFound: record does not exist in the store
//   - ErrConflict: a write raced with another write on the same key
//   - ErrInvalidState: record is in the wrong state for the requested operation
//   - ErrUnavailable: backing service unreachable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
