// Package lockout implements the failed-login state machine: a counter
// of consecutive failures and an optional lock window. Transitions are
// driven only by authentication outcomes.
package lockout

import "time"

// Defaults match the long-standing production values.
const (
	DefaultMaxAttempts  = 10
	DefaultLockDuration = 2 * time.Hour
)

// Policy holds the lockout parameters.
type Policy struct {
	MaxAttempts  int
	LockDuration time.Duration
}

// Default returns the standard policy: 10 attempts, 2 hour lock.
func Default() Policy {
	return Policy{
		MaxAttempts:  DefaultMaxAttempts,
		LockDuration: DefaultLockDuration,
	}
}

// State is the per-credential lockout state.
type State struct {
	FailedAttempts int
	LockedUntil    *time.Time
}

// Locked reports whether the state is locked at the given instant.
func (s State) Locked(now time.Time) bool {
	return s.LockedUntil != nil && s.LockedUntil.After(now)
}

// OnSuccess returns the post-success state: counter cleared and lock
// dropped unconditionally, even when the account was locked.
func (p Policy) OnSuccess() State {
	return State{}
}

// OnFailure returns the state after one more failed attempt at now.
//
// An expired lock starts a fresh attempt window: the counter resets to 1
// and the lock is cleared rather than extended. Otherwise the counter
// increments, and the lock is set only on the transition that crosses
// MaxAttempts; it is never reapplied while already locked.
func (p Policy) OnFailure(s State, now time.Time) State {
	if s.LockedUntil != nil && s.LockedUntil.Before(now) {
		return State{FailedAttempts: 1}
	}

	next := State{
		FailedAttempts: s.FailedAttempts + 1,
		LockedUntil:    s.LockedUntil,
	}

	if next.FailedAttempts >= p.MaxAttempts && !s.Locked(now) {
		until := now.Add(p.LockDuration)
		next.LockedUntil = &until
	}

	return next
}
