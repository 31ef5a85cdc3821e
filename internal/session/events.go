package session

import (
	"github.com/google/uuid"

	"github.com/deadwave/sessiond/internal/scene"
)

// Events emitted on the bus after each transition. They are delivered on the
// next tick.

type PhaseChanged struct {
	From  Phase
	To    Phase
	Scene int
}

type SceneChanged struct {
	From int
	To   int
	Path string
	Kind scene.Kind
}

type SessionStarted struct {
	ID    uuid.UUID
	Scene int
}

type SessionFinished struct {
	ID uuid.UUID
}

type PlayerJoined struct {
	ID uuid.UUID
	At SpawnPoint
}
