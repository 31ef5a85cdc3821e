package session

import "errors"

var (
	// ErrInvalidPhase is returned when a command arrives in a phase that
	// does not accept it.
	ErrInvalidPhase = errors.New("invalid phase")
	// ErrUnclassifiedScene marks a scene that matches neither keyword.
	ErrUnclassifiedScene = errors.New("unclassified scene")
	ErrSceneOutOfRange   = errors.New("scene index out of range")
	ErrNoScenes          = errors.New("no scenes registered")
	// ErrInvariant reports a phase that does not match the active scene kind.
	ErrInvariant = errors.New("session invariant violated")
)
