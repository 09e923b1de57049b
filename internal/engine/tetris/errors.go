package tetris

import "errors"

// ErrTargetTimeInPast is returned by Update when target_time < state.time.
// It is local to that call; the caller should re-derive target_time and may
// retry.
var ErrTargetTimeInPast = errors.New("tetris: target time is before current state time")

// ErrGameEnded is returned by Update once the game has transitioned to
// GameEnd. It is terminal: the caller must stop calling Update.
var ErrGameEnded = errors.New("tetris: game has already ended")

// errUnreconstructable is the cause attached to a replay's synthetic
// warning modifier when no reconstructor was supplied at all.
var errUnreconstructable = errors.New("no modifier reconstructor configured")
