package game

import (
	"testing"
	"time"
)

func TestSubmitTaskProgressAndClamp(t *testing.T) {
	e := newEnv(t)
	code := startClue(t, e, 4, "c4")
	room := e.room(t, code)

	if err := e.svc.SubmitTask(code, "c1", 30); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := e.svc.SubmitTask(code, "c2", 0); err != nil {
		t.Fatalf("submit default amount: %v", err)
	}
	room.mu.Lock()
	progress := room.tasks.Progress
	room.mu.Unlock()
	if progress != 35 {
		t.Fatalf("progress = %d, want 35 (30 + default 5)", progress)
	}

	if err := e.svc.SubmitTask(code, "c1", 1000); err != nil {
		t.Fatalf("submit overshoot: %v", err)
	}
	room.mu.Lock()
	progress = room.tasks.Progress
	target := room.tasks.Target
	room.mu.Unlock()
	if progress != target {
		t.Fatalf("progress = %d, want clamped to %d", progress, target)
	}
	// Clamping to target completes the tasks.
	if e.phase(t, code) != PhaseReveal {
		t.Fatalf("phase = %s, want reveal after tasks hit target", e.phase(t, code))
	}
}

func TestSubmitTaskRejections(t *testing.T) {
	e := newEnv(t)
	code := startClue(t, e, 4, "c4")
	room := e.room(t, code)

	if err := e.svc.SubmitTask(code, "c4", 5); err != ErrNotAuthorized {
		t.Fatalf("impostor task = %v, want ErrNotAuthorized", err)
	}
	room.mu.Lock()
	room.players["c2"].Alive = false
	room.mu.Unlock()
	if err := e.svc.SubmitTask(code, "c2", 5); err != ErrNotAuthorized {
		t.Fatalf("dead player task = %v, want ErrNotAuthorized", err)
	}
	if err := e.svc.SubmitTask(code, "nobody", 5); err != ErrNotAuthorized {
		t.Fatalf("stranger task = %v, want ErrNotAuthorized", err)
	}
}

func TestSubmitTaskBlockedDuringSabotage(t *testing.T) {
	e := newEnv(t)
	code := startClue(t, e, 4, "c4")
	room := e.room(t, code)

	if err := e.svc.Sabotage(code, "c4"); err != nil {
		t.Fatalf("sabotage: %v", err)
	}
	if err := e.svc.SubmitTask(code, "c1", 10); err != ErrRateLimited {
		t.Fatalf("task during sabotage = %v, want ErrRateLimited", err)
	}
	room.mu.Lock()
	progress := room.tasks.Progress
	room.mu.Unlock()
	if progress != 0 {
		t.Fatalf("progress = %d, want unchanged 0", progress)
	}

	e.advance(16 * time.Second) // past the 15s window
	if err := e.svc.SubmitTask(code, "c1", 10); err != nil {
		t.Fatalf("task after window: %v", err)
	}
}

func TestSabotageNoStacking(t *testing.T) {
	e := newEnv(t)
	code := startClue(t, e, 4, "c4")

	if err := e.svc.Sabotage(code, "c1"); err != ErrNotAuthorized {
		t.Fatalf("civilian sabotage = %v, want ErrNotAuthorized", err)
	}
	if err := e.svc.Sabotage(code, "c4"); err != nil {
		t.Fatalf("sabotage: %v", err)
	}
	if err := e.svc.Sabotage(code, "c4"); err != ErrRateLimited {
		t.Fatalf("stacked sabotage = %v, want ErrRateLimited", err)
	}
	e.advance(16 * time.Second)
	if err := e.svc.Sabotage(code, "c4"); err != nil {
		t.Fatalf("sabotage after expiry: %v", err)
	}
}

func TestSabotageExpiryBroadcastsAndClears(t *testing.T) {
	e := newEnv(t)
	code := startClue(t, e, 4, "c4")
	room := e.room(t, code)
	e.jobs = nil // drop the clue countdown, keep only the sabotage timer

	if err := e.svc.Sabotage(code, "c4"); err != nil {
		t.Fatalf("sabotage: %v", err)
	}
	if n := len(e.gw.named(EventSabotageStarted)); n != 1 {
		t.Fatalf("sabotage_started events = %d, want 1", n)
	}

	e.advance(15 * time.Second)
	e.fireTimers()
	if n := len(e.gw.named(EventSabotageEnded)); n != 1 {
		t.Fatalf("sabotage_ended events = %d, want 1", n)
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.tasks.SabotagedUntil != 0 {
		t.Fatalf("SabotagedUntil = %d, want cleared", room.tasks.SabotagedUntil)
	}
}

func TestStaleSabotageTimerIsNoop(t *testing.T) {
	e := newEnv(t)
	code := startClue(t, e, 4, "c4")
	e.jobs = nil

	if err := e.svc.Sabotage(code, "c4"); err != nil {
		t.Fatalf("sabotage: %v", err)
	}
	stale := e.jobs
	e.jobs = nil

	// The round ends and a new one begins before the timer fires.
	room := e.room(t, code)
	room.mu.Lock()
	room.players["c4"].Alive = false
	e.svc.checkWinLocked(room)
	room.mu.Unlock()
	if err := e.svc.StartRound(code, "c1"); err != nil {
		t.Fatalf("restart: %v", err)
	}
	e.gw.reset()

	for _, f := range stale {
		f()
	}
	if n := len(e.gw.named(EventSabotageEnded)); n != 0 {
		t.Fatalf("stale sabotage timer emitted %d events", n)
	}
}

func TestKillCooldown(t *testing.T) {
	e := newEnv(t)
	code := startClue(t, e, 4, "c4")

	if err := e.svc.Kill(code, "c4", "c1"); err != nil {
		t.Fatalf("first kill: %v", err)
	}
	if err := e.svc.Kill(code, "c4", "c2"); err != ErrRateLimited {
		t.Fatalf("kill within cooldown = %v, want ErrRateLimited", err)
	}
	e.advance(21 * time.Second)
	// Second kill leaves 1 impostor vs 1 civilian: parity ends the round.
	if err := e.svc.Kill(code, "c4", "c2"); err != nil {
		t.Fatalf("kill after cooldown: %v", err)
	}
	if e.phase(t, code) != PhaseReveal {
		t.Fatalf("phase = %s, want reveal by parity", e.phase(t, code))
	}
}

func TestKillValidation(t *testing.T) {
	e := newEnv(t)
	code := startClue(t, e, 4, "c4")
	room := e.room(t, code)

	if err := e.svc.Kill(code, "c1", "c2"); err != ErrNotAuthorized {
		t.Fatalf("civilian kill = %v, want ErrNotAuthorized", err)
	}
	if err := e.svc.Kill(code, "c4", "c4"); err != ErrInvalidTarget {
		t.Fatalf("self kill = %v, want ErrInvalidTarget", err)
	}
	if err := e.svc.Kill(code, "c4", "nobody"); err != ErrInvalidTarget {
		t.Fatalf("absent target = %v, want ErrInvalidTarget", err)
	}
	room.mu.Lock()
	room.players["c2"].Alive = false
	room.mu.Unlock()
	if err := e.svc.Kill(code, "c4", "c2"); err != ErrInvalidTarget {
		t.Fatalf("dead target = %v, want ErrInvalidTarget", err)
	}
}

func TestPowersRequireCluePhase(t *testing.T) {
	e := newEnv(t)
	code, _ := e.newRoomWithPlayers(t, 4)

	if err := e.svc.SubmitTask(code, "c1", 5); err != ErrPhaseMismatch {
		t.Fatalf("task in lobby = %v, want ErrPhaseMismatch", err)
	}
	if err := e.svc.Sabotage(code, "c1"); err != ErrPhaseMismatch {
		t.Fatalf("sabotage in lobby = %v, want ErrPhaseMismatch", err)
	}
	if err := e.svc.Kill(code, "c1", "c2"); err != ErrPhaseMismatch {
		t.Fatalf("kill in lobby = %v, want ErrPhaseMismatch", err)
	}
}
