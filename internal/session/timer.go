package session

import (
	"sort"
	"time"
)

// ActionKind names a delayed continuation.
type ActionKind int

const (
	ActionPlayerJoin ActionKind = iota
	ActionEndGame
)

func (k ActionKind) String() string {
	switch k {
	case ActionPlayerJoin:
		return "player_join"
	case ActionEndGame:
		return "end_game"
	default:
		return "unknown"
	}
}

type timedAction struct {
	kind     ActionKind
	deadline time.Duration
	fn       func()
}

// Scheduler holds at most one pending action per kind. Deadlines are on the
// caller's clock; RunDue is polled once per tick.
type Scheduler struct {
	pending map[ActionKind]*timedAction
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[ActionKind]*timedAction, 2)}
}

// Schedule arms kind to run fn at now+delay, replacing any pending action of
// the same kind.
func (s *Scheduler) Schedule(kind ActionKind, now, delay time.Duration, fn func()) {
	s.pending[kind] = &timedAction{kind: kind, deadline: now + delay, fn: fn}
}

// Cancel drops a pending action. It reports whether one was pending.
func (s *Scheduler) Cancel(kind ActionKind) bool {
	if _, ok := s.pending[kind]; !ok {
		return false
	}
	delete(s.pending, kind)
	return true
}

func (s *Scheduler) Pending(kind ActionKind) bool {
	_, ok := s.pending[kind]
	return ok
}

// Deadline returns the fire time of a pending action.
func (s *Scheduler) Deadline(kind ActionKind) (time.Duration, bool) {
	a, ok := s.pending[kind]
	if !ok {
		return 0, false
	}
	return a.deadline, true
}

// RunDue fires every action whose deadline is at or before now, earliest
// first. Actions scheduled by a firing continuation wait for the next call.
// It returns the number of actions fired.
func (s *Scheduler) RunDue(now time.Duration) int {
	var due []*timedAction
	for _, a := range s.pending {
		if a.deadline <= now {
			due = append(due, a)
		}
	}
	if len(due) == 0 {
		return 0
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].kind < due[j].kind
	})

	fired := 0
	for _, a := range due {
		// An earlier continuation may have cancelled or replaced this one.
		if s.pending[a.kind] != a {
			continue
		}
		delete(s.pending, a.kind)
		a.fn()
		fired++
	}
	return fired
}
