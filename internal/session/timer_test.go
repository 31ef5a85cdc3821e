package session

import (
	"testing"
	"time"
)

func TestSchedulerFiresAtDeadline(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.Schedule(ActionPlayerJoin, time.Second, time.Second, func() { fired++ })

	if n := s.RunDue(2*time.Second - time.Nanosecond); n != 0 || fired != 0 {
		t.Fatalf("Fired before deadline: n=%d", n)
	}
	if n := s.RunDue(2 * time.Second); n != 1 || fired != 1 {
		t.Fatalf("Expected one firing at the deadline, got n=%d fired=%d", n, fired)
	}
	if s.Pending(ActionPlayerJoin) {
		t.Error("Fired action still pending")
	}
	s.RunDue(time.Hour)
	if fired != 1 {
		t.Errorf("Action fired twice")
	}
}

func TestSchedulerSupersedesSameKind(t *testing.T) {
	s := NewScheduler()
	var got []string
	s.Schedule(ActionEndGame, 0, time.Second, func() { got = append(got, "first") })
	s.Schedule(ActionEndGame, 0, 2*time.Second, func() { got = append(got, "second") })

	s.RunDue(time.Second)
	if len(got) != 0 {
		t.Fatalf("Superseded action fired: %v", got)
	}
	if d, ok := s.Deadline(ActionEndGame); !ok || d != 2*time.Second {
		t.Errorf("Expected deadline 2s, got %s (%v)", d, ok)
	}
	s.RunDue(2 * time.Second)
	if len(got) != 1 || got[0] != "second" {
		t.Errorf("Expected only second, got %v", got)
	}
}

func TestSchedulerRunsEarliestFirstAndHonoursCancellation(t *testing.T) {
	s := NewScheduler()
	var got []ActionKind
	s.Schedule(ActionPlayerJoin, 0, 2*time.Second, func() { got = append(got, ActionPlayerJoin) })
	s.Schedule(ActionEndGame, 0, time.Second, func() {
		got = append(got, ActionEndGame)
		s.Cancel(ActionPlayerJoin)
	})

	if n := s.RunDue(5 * time.Second); n != 1 {
		t.Errorf("Expected one firing, got %d", n)
	}
	if len(got) != 1 || got[0] != ActionEndGame {
		t.Errorf("Expected only end game, got %v", got)
	}
}

func TestSchedulerRescheduleFromContinuationWaits(t *testing.T) {
	s := NewScheduler()
	fired := 0
	var fn func()
	fn = func() {
		fired++
		s.Schedule(ActionPlayerJoin, time.Second, 0, fn)
	}
	s.Schedule(ActionPlayerJoin, 0, time.Second, fn)

	s.RunDue(time.Second)
	if fired != 1 || !s.Pending(ActionPlayerJoin) {
		t.Fatalf("Expected one firing and a new pending action, fired=%d", fired)
	}
	s.RunDue(time.Second)
	if fired != 2 {
		t.Errorf("Expected rescheduled action on the next poll, fired=%d", fired)
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	if s.Cancel(ActionEndGame) {
		t.Error("Cancel reported a pending action on an empty scheduler")
	}
	s.Schedule(ActionEndGame, 0, 0, func() { t.Error("Cancelled action fired") })
	if !s.Cancel(ActionEndGame) {
		t.Error("Cancel missed the pending action")
	}
	s.RunDue(time.Hour)
	if _, ok := s.Deadline(ActionEndGame); ok {
		t.Error("Deadline reported for a cancelled action")
	}
}
