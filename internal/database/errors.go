package database

import "errors"

// Sentinel errors surfaced to callers so a consumer can distinguish
// recoverable input problems from storage failure.
var (
	// ErrNotFound is returned when an operation targets a row that
	// must exist (session detail lookup, delete by id).
	ErrNotFound = errors.New("not found")

	// ErrDuplicateTerm is returned by Create when the term already
	// exists. The match is case-sensitive and exact.
	ErrDuplicateTerm = errors.New("term already exists")

	// ErrEmptySession is returned when a submitted batch contains no
	// result with a non-empty term.
	ErrEmptySession = errors.New("session has no valid results")

	// ErrSessionScored is returned when a session that was already
	// committed to mastery totals is scored a second time.
	ErrSessionScored = errors.New("session already scored")
)
