package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain command queues
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseUpdate                  // 2: clock, timed actions, session logic
	PhasePostUpdate              // 3: presentation feeds
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
