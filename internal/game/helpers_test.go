package game

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type recordedEvent struct {
	Conn    string // empty for room-wide broadcasts
	Room    string
	Event   string
	Payload any
}

type stubGateway struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (g *stubGateway) ToConn(connID, event string, payload any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, recordedEvent{Conn: connID, Event: event, Payload: payload})
}

func (g *stubGateway) ToRoom(code, event string, payload any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, recordedEvent{Room: code, Event: event, Payload: payload})
}

func (g *stubGateway) named(event string) []recordedEvent {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []recordedEvent
	for _, e := range g.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (g *stubGateway) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = nil
}

type env struct {
	svc  *Service
	gw   *stubGateway
	reg  *Registry
	now  time.Time
	jobs []func()
}

func newEnv(t *testing.T, opts ...Option) *env {
	t.Helper()
	e := &env{
		gw:  &stubGateway{},
		reg: NewRegistry(12),
		now: time.Unix(1_700_000_000, 0),
	}
	base := []Option{
		WithClock(func() time.Time { return e.now }),
		WithScheduler(func(_ time.Duration, f func()) { e.jobs = append(e.jobs, f) }),
		WithSecretSource(func() string { return "Lionel Messi" }),
	}
	e.svc = NewService(e.reg, e.gw, append(base, opts...)...)
	return e
}

func (e *env) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

// fireTimers runs every scheduled callback captured so far, in order.
func (e *env) fireTimers() {
	jobs := e.jobs
	e.jobs = nil
	for _, f := range jobs {
		f()
	}
}

// newRoomWithPlayers creates a room and joins n players with conn ids
// c1..cn. c1 is the host.
func (e *env) newRoomWithPlayers(t *testing.T, n int) (string, []string) {
	t.Helper()
	code := e.svc.CreateRoom("creator", 0)
	conns := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("c%d", i)
		if err := e.svc.Join(id, code, fmt.Sprintf("P%d", i), ""); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
		conns = append(conns, id)
	}
	return code, conns
}

func (e *env) room(t *testing.T, code string) *Room {
	t.Helper()
	room, err := e.reg.Get(code)
	if err != nil {
		t.Fatalf("get room %s: %v", code, err)
	}
	return room
}

// forceImpostor rewrites the round's impostor to a known player so tests
// are not at the mercy of random selection.
func (e *env) forceImpostor(t *testing.T, code, connID string) {
	t.Helper()
	room := e.room(t, code)
	room.mu.Lock()
	defer room.mu.Unlock()
	if _, ok := room.players[connID]; !ok {
		t.Fatalf("no player %s in room %s", connID, code)
	}
	for id, p := range room.players {
		if p.Role == RoleImpostor {
			p.Role = RoleCivilian
		}
		if id == connID {
			p.Role = RoleImpostor
		}
	}
	room.impostorID = connID
}

func (e *env) phase(t *testing.T, code string) Phase {
	t.Helper()
	return e.room(t, code).Phase()
}
