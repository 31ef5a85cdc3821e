// Package host provides the headless stand-ins for the engine-side
// collaborators: scene loading, spawners, pointer capture and shutdown.
package host

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/deadwave/sessiond/internal/data"
	"github.com/deadwave/sessiond/internal/session"
)

// SceneLoader serves the scene table. Loading only records the active index;
// asset streaming is owned by the engine.
type SceneLoader struct {
	table  *data.SceneTable
	active int
	log    *zap.Logger
}

func NewSceneLoader(table *data.SceneTable, startIndex int, log *zap.Logger) (*SceneLoader, error) {
	if table.Get(startIndex) == nil {
		return nil, fmt.Errorf("start scene %d not in scene list (%d scenes)", startIndex, table.Count())
	}
	return &SceneLoader{table: table, active: startIndex, log: log}, nil
}

func (l *SceneLoader) Scenes() []string { return l.table.Paths() }

func (l *SceneLoader) LoadScene(index int) error {
	e := l.table.Get(index)
	if e == nil {
		return fmt.Errorf("load scene %d: not in scene list", index)
	}
	l.log.Info("loading scene", zap.Int("scene", index), zap.String("path", e.Path))
	l.active = index
	return nil
}

func (l *SceneLoader) ActiveIndex() int { return l.active }

// PlayerSpawner logs spawns and counts them.
type PlayerSpawner struct {
	spawned atomic.Int64
	log     *zap.Logger
}

func NewPlayerSpawner(log *zap.Logger) *PlayerSpawner {
	return &PlayerSpawner{log: log}
}

func (s *PlayerSpawner) Spawn(at session.SpawnPoint) {
	n := s.spawned.Add(1)
	s.log.Info("player spawned",
		zap.Float64("x", at.X), zap.Float64("y", at.Y), zap.Float64("z", at.Z),
		zap.Float64("heading", at.Heading), zap.Int64("total", n))
}

func (s *PlayerSpawner) Spawned() int64 { return s.spawned.Load() }

// SpawnSwitch is the on/off flag of a wave or loot spawner.
type SpawnSwitch struct {
	name    string
	enabled atomic.Bool
	log     *zap.Logger
}

func NewSpawnSwitch(name string, log *zap.Logger) *SpawnSwitch {
	return &SpawnSwitch{name: name, log: log}
}

func (s *SpawnSwitch) SetSpawning(enabled bool) {
	if s.enabled.Swap(enabled) != enabled {
		s.log.Info("spawner toggled", zap.String("spawner", s.name), zap.Bool("enabled", enabled))
	}
}

func (s *SpawnSwitch) Enabled() bool { return s.enabled.Load() }

// Pointer records the capture state.
type Pointer struct {
	captured atomic.Bool
	log      *zap.Logger
}

func NewPointer(log *zap.Logger) *Pointer {
	return &Pointer{log: log}
}

func (p *Pointer) SetCaptured(captured bool) {
	if p.captured.Swap(captured) != captured {
		p.log.Debug("pointer capture", zap.Bool("captured", captured))
	}
}

func (p *Pointer) Captured() bool { return p.captured.Load() }

// Quitter cancels the host's run context.
type Quitter struct {
	cancel context.CancelFunc
}

func NewQuitter(cancel context.CancelFunc) *Quitter {
	return &Quitter{cancel: cancel}
}

func (q *Quitter) Quit() { q.cancel() }
