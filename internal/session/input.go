package session

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/deadwave/sessiond/internal/core/system"
)

// CommandKind identifies a high-level input event.
type CommandKind int

const (
	CmdStartSession CommandKind = iota // confirm key
	CmdTogglePhase                     // escape key
	CmdChangeScene
	CmdGameOver
)

func (k CommandKind) String() string {
	switch k {
	case CmdStartSession:
		return "start"
	case CmdTogglePhase:
		return "toggle"
	case CmdChangeScene:
		return "scene"
	case CmdGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// Command is one input event. Scene is only read for CmdChangeScene.
type Command struct {
	Kind  CommandKind
	Scene int
}

// CommandSource delivers commands produced off the tick goroutine.
type CommandSource interface {
	Commands() <-chan Command
}

// Queue is a bounded CommandSource. Push never blocks.
type Queue struct {
	ch chan Command
}

func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan Command, size)}
}

// Push enqueues cmd and reports false when the queue is full.
func (q *Queue) Push(cmd Command) bool {
	select {
	case q.ch <- cmd:
		return true
	default:
		return false
	}
}

func (q *Queue) Commands() <-chan Command { return q.ch }

// InputSystem drains command sources and applies them to the controller.
// Commands are edge-triggered: each kind acts at most once per tick.
// Phase 0 (Input).
type InputSystem struct {
	ctrl       *Controller
	sources    []CommandSource
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(ctrl *Controller, maxPerTick int, log *zap.Logger, sources ...CommandSource) *InputSystem {
	return &InputSystem{
		ctrl:       ctrl,
		sources:    sources,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	seen := make(map[CommandKind]bool, 4)
	for _, src := range s.sources {
	drain:
		for n := 0; n < s.maxPerTick; n++ {
			select {
			case cmd := <-src.Commands():
				if seen[cmd.Kind] {
					s.log.Debug("duplicate command dropped", zap.Stringer("command", cmd.Kind))
					continue
				}
				seen[cmd.Kind] = true
				s.apply(cmd)
			default:
				break drain
			}
		}
	}
}

func (s *InputSystem) apply(cmd Command) {
	var err error
	switch cmd.Kind {
	case CmdStartSession:
		s.ctrl.StartSession()
	case CmdTogglePhase:
		err = s.ctrl.TogglePhase()
	case CmdChangeScene:
		err = s.ctrl.ChangeScene(cmd.Scene)
	case CmdGameOver:
		s.ctrl.GameOver()
	default:
		s.log.Warn("unknown command", zap.Int("kind", int(cmd.Kind)))
	}
	if err != nil {
		s.log.Debug("command rejected", zap.Stringer("command", cmd.Kind), zap.Error(err))
	}
}

// UpdateSystem advances the controller once per tick. Phase 2 (Update).
type UpdateSystem struct {
	ctrl *Controller
}

func NewUpdateSystem(ctrl *Controller) *UpdateSystem {
	return &UpdateSystem{ctrl: ctrl}
}

func (s *UpdateSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *UpdateSystem) Update(dt time.Duration) {
	s.ctrl.Update(dt)
}
