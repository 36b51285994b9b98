package game

import (
	"crypto/rand"
	"expvar"
	"strings"
	"sync"
	"time"
)

// Codes avoid visually ambiguous characters (0/O, 1/I). 32 runes keeps the
// modulo draw uniform.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 5
)

var (
	roomsCreatedTotal = expvar.NewInt("rooms_created_total")
	roomsReapedTotal  = expvar.NewInt("rooms_reaped_total")
)

// Registry owns the code -> room mapping. It is safe for concurrent use and
// is the only cross-room synchronization point.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]*Room
	maxPlayers int
	now        func() time.Time
}

func NewRegistry(maxPlayers int) *Registry {
	if maxPlayers <= 0 {
		maxPlayers = 12
	}
	return &Registry{
		rooms:      make(map[string]*Room),
		maxPlayers: maxPlayers,
		now:        time.Now,
	}
}

// Create allocates a fresh collision-free code and an empty lobby room.
func (g *Registry) Create() *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	code := newRoomCode()
	for _, exists := g.rooms[code]; exists; _, exists = g.rooms[code] {
		code = newRoomCode()
	}
	room := newRoom(code, g.maxPlayers, g.now())
	g.rooms[code] = room
	roomsCreatedTotal.Add(1)
	return room
}

// Get resolves a room by code, case-insensitively.
func (g *Registry) Get(code string) (*Room, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Rooms snapshots the current room set.
func (g *Registry) Rooms() []*Room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		out = append(out, room)
	}
	return out
}

func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

func (g *Registry) remove(code string) {
	g.mu.Lock()
	delete(g.rooms, code)
	g.mu.Unlock()
}

func newRoomCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}
