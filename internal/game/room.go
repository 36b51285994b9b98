package game

import (
	"strings"
	"sync"
	"time"
)

type Phase string

const (
	PhaseLobby  Phase = "lobby"
	PhaseClue   Phase = "clue"
	PhaseVote   Phase = "vote"
	PhaseReveal Phase = "reveal"
)

type Role string

const (
	RoleUnassigned Role = ""
	RoleImpostor   Role = "impostor"
	RoleCivilian   Role = "civilian"
)

const (
	maxNameLen = 20
	maxClueLen = 140
)

type Settings struct {
	ClueSeconds     int  `json:"clueSeconds"`
	AllowChat       bool `json:"allowChat"`
	TasksTarget     int  `json:"tasksTarget"`
	KillCooldownSec int  `json:"killCooldown"`
	SabotageSeconds int  `json:"sabotageDuration"`
}

func DefaultSettings() Settings {
	return Settings{
		ClueSeconds:     60,
		AllowChat:       true,
		TasksTarget:     100,
		KillCooldownSec: 20,
		SabotageSeconds: 15,
	}
}

// SettingsPatch is a partial settings update; nil fields are left alone and
// non-positive numeric values are ignored.
type SettingsPatch struct {
	ClueSeconds     *int  `json:"clueSeconds"`
	AllowChat       *bool `json:"allowChat"`
	TasksTarget     *int  `json:"tasksTarget"`
	KillCooldownSec *int  `json:"killCooldown"`
	SabotageSeconds *int  `json:"sabotageDuration"`
}

type TaskState struct {
	Target   int `json:"target"`
	Progress int `json:"progress"`
	// SabotagedUntil is unix milliseconds; 0 when no sabotage window is open.
	SabotagedUntil int64 `json:"sabotagedUntil"`
}

// Player is one identity inside a room. ConnID changes on reconnect, Token
// does not.
type Player struct {
	ConnID    string
	Token     string
	Name      string
	Connected bool
	Alive     bool
	Role      Role
}

// Room is the unit of mutual exclusion: every read or write of its fields
// happens under mu. Timers capture gen and re-check it at fire time, so a
// timer that outlives its phase (or the room) is a no-op.
type Room struct {
	Code string

	mu        sync.Mutex
	gen       uint64
	destroyed bool

	hostID     string
	phase      Phase
	round      int
	secret     string
	impostorID string
	settings   Settings
	tasks      TaskState
	lastKillAt time.Time

	votes   map[string]string  // voter conn id -> target conn id
	players map[string]*Player // conn id -> player
	byToken map[string]string  // durable token -> conn id
	order   []string           // conn ids in join order, for stable rosters

	maxPlayers int
	createdAt  time.Time
	lastSeen   time.Time
}

func newRoom(code string, maxPlayers int, now time.Time) *Room {
	return &Room{
		Code:       code,
		phase:      PhaseLobby,
		settings:   DefaultSettings(),
		votes:      make(map[string]string),
		players:    make(map[string]*Player),
		byToken:    make(map[string]string),
		maxPlayers: maxPlayers,
		createdAt:  now,
		lastSeen:   now,
	}
}

// Phase returns the current phase. Exposed for transports that only need a
// read without driving a command.
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// touch marks the room active. Callers hold mu.
func (r *Room) touch(now time.Time) {
	r.lastSeen = now
}

// aliveConnected returns conn ids of players that are both connected and
// alive, in join order. Callers hold mu.
func (r *Room) aliveConnected() []string {
	ids := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if p := r.players[id]; p != nil && p.Connected && p.Alive {
			ids = append(ids, id)
		}
	}
	return ids
}

// connectedIDs returns conn ids of connected players in join order. Callers
// hold mu.
func (r *Room) connectedIDs() []string {
	ids := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if p := r.players[id]; p != nil && p.Connected {
			ids = append(ids, id)
		}
	}
	return ids
}

// publicPlayers builds the roster view broadcast to the room. Callers hold mu.
func (r *Room) publicPlayers() []PublicPlayer {
	out := make([]PublicPlayer, 0, len(r.order))
	for _, id := range r.order {
		p := r.players[id]
		if p == nil {
			continue
		}
		out = append(out, PublicPlayer{ID: id, Name: p.Name, Connected: p.Connected, Alive: p.Alive})
	}
	return out
}

// statePayload snapshots the room-wide state event. Callers hold mu.
func (r *Room) statePayload() StatePayload {
	return StatePayload{
		Phase:    r.phase,
		Players:  r.publicPlayers(),
		Settings: r.settings,
		Round:    r.round,
		Tasks:    r.tasks,
		HostID:   r.hostID,
	}
}

// replaceConnID migrates every reference to a player's old conn id to the
// new one. Callers hold mu.
func (r *Room) replaceConnID(oldID, newID string) {
	for i, id := range r.order {
		if id == oldID {
			r.order[i] = newID
		}
	}
	if r.hostID == oldID {
		r.hostID = newID
	}
	if r.impostorID == oldID {
		r.impostorID = newID
	}
	for voter, target := range r.votes {
		if target == oldID {
			r.votes[voter] = newID
		}
	}
	if target, ok := r.votes[oldID]; ok {
		delete(r.votes, oldID)
		r.votes[newID] = target
	}
}

// nextHost picks the next connected, alive player as host, or clears the
// host. Callers hold mu.
func (r *Room) nextHost() {
	for _, id := range r.order {
		if p := r.players[id]; p != nil && p.Connected && p.Alive {
			r.hostID = id
			return
		}
	}
	r.hostID = ""
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Player"
	}
	runes := []rune(name)
	if len(runes) > maxNameLen {
		return string(runes[:maxNameLen])
	}
	return name
}
