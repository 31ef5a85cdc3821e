package session

import (
	"testing"

	"go.uber.org/zap"
)

func TestQueueIsBounded(t *testing.T) {
	q := NewQueue(1)
	if !q.Push(Command{Kind: CmdTogglePhase}) {
		t.Fatal("First push rejected")
	}
	if q.Push(Command{Kind: CmdTogglePhase}) {
		t.Error("Push into a full queue must fail")
	}
}

func TestInputSystemActsOncePerKindPerTick(t *testing.T) {
	f := newFixture(t, 1, demoScenes...)
	f.start(t)
	q := NewQueue(8)
	in := NewInputSystem(f.ctrl, 8, zap.NewNop(), q)

	q.Push(Command{Kind: CmdTogglePhase})
	q.Push(Command{Kind: CmdTogglePhase})
	in.Update(tick)

	if f.ctrl.Phase() != PhasePaused {
		t.Errorf("Expected one toggle (paused), got %s", f.ctrl.Phase())
	}

	q.Push(Command{Kind: CmdTogglePhase})
	in.Update(tick)
	if f.ctrl.Phase() != PhasePlaying {
		t.Errorf("Expected the next tick to unpause, got %s", f.ctrl.Phase())
	}
}

func TestInputSystemRoutesCommands(t *testing.T) {
	f := newFixture(t, 0, demoScenes...)
	f.start(t)
	q := NewQueue(8)
	in := NewInputSystem(f.ctrl, 8, zap.NewNop(), q)

	q.Push(Command{Kind: CmdChangeScene, Scene: 1})
	q.Push(Command{Kind: CmdStartSession})
	in.Update(tick)
	if f.ctrl.Phase() != PhasePlaying || !f.waves.enabled {
		t.Fatalf("Expected playing with waves, got %s waves=%v", f.ctrl.Phase(), f.waves.enabled)
	}

	q.Push(Command{Kind: CmdGameOver})
	in.Update(tick)
	if !f.ctrl.Finished() {
		t.Error("Expected finished session")
	}

	q.Push(Command{Kind: CommandKind(99)})
	in.Update(tick)
}

func TestInputSystemRespectsPerTickLimit(t *testing.T) {
	f := newFixture(t, 0, demoScenes...)
	f.start(t)
	q := NewQueue(8)
	in := NewInputSystem(f.ctrl, 1, zap.NewNop(), q)

	q.Push(Command{Kind: CmdChangeScene, Scene: 1})
	q.Push(Command{Kind: CmdStartSession})
	in.Update(tick)
	if f.waves.enabled {
		t.Error("Second command processed beyond the per-tick limit")
	}
	in.Update(tick)
	if !f.waves.enabled {
		t.Error("Queued command lost")
	}
}

func TestUpdateSystemAdvancesController(t *testing.T) {
	f := newFixture(t, 1, demoScenes...)
	f.start(t)
	u := NewUpdateSystem(f.ctrl)
	u.Update(tick)
	if f.ctrl.Clock().InSession() != tick {
		t.Errorf("Expected %s in session, got %s", tick, f.ctrl.Clock().InSession())
	}
}
