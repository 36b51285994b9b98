package game

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"soccer-impostor/internal/catalog"
)

// Service is the command handler for every inbound game action. It validates
// the actor against the room's phase and authority rules, mutates room state
// under the room lock, and pushes resulting events through the Gateway.
type Service struct {
	registry   *Registry
	gw         Gateway
	pickSecret func() string
	now        func() time.Time
	schedule   func(d time.Duration, f func())
	minPlayers int
}

type Option func(*Service)

// WithSecretSource overrides where secret identities are drawn from.
func WithSecretSource(pick func() string) Option {
	return func(s *Service) { s.pickSecret = pick }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithScheduler overrides delayed-callback scheduling. Tests capture the
// callbacks and fire them by hand.
func WithScheduler(schedule func(d time.Duration, f func())) Option {
	return func(s *Service) { s.schedule = schedule }
}

func WithMinPlayers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minPlayers = n
		}
	}
}

func NewService(registry *Registry, gw Gateway, opts ...Option) *Service {
	s := &Service{
		registry:   registry,
		gw:         gw,
		pickSecret: catalog.Pick,
		now:        time.Now,
		schedule:   func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		minPlayers: 3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRoom allocates a room and acks the code to the creator. The creator
// still joins explicitly, like everyone else.
func (s *Service) CreateRoom(connID string, capacity int) string {
	room := s.registry.Create()
	if capacity >= 2 {
		room.mu.Lock()
		room.maxPlayers = capacity
		room.mu.Unlock()
	}
	log.Info().Str("room", room.Code).Msg("room_created")
	s.gw.ToConn(connID, EventRoomCreated, RoomCreatedPayload{Code: room.Code})
	return room.Code
}

// Join attaches a connection to a room. A known durable token reclaims the
// existing identity, keeping alive state and the round role; otherwise a new
// player is minted. The first joiner of an empty room becomes host.
func (s *Service) Join(connID, code, name, token string) error {
	room, err := s.registry.Get(code)
	if err != nil {
		return err
	}

	room.mu.Lock()
	if room.destroyed {
		room.mu.Unlock()
		return ErrRoomNotFound
	}

	token = strings.TrimSpace(token)
	if oldID, known := room.byToken[token]; token != "" && known {
		p := room.players[oldID]
		delete(room.players, oldID)
		p.ConnID = connID
		p.Connected = true
		room.players[connID] = p
		room.byToken[token] = connID
		room.replaceConnID(oldID, connID)
	} else {
		if len(room.players) >= room.maxPlayers {
			room.mu.Unlock()
			return ErrCapacityExceeded
		}
		if token == "" {
			token = uuid.NewString()
		}
		p := &Player{
			ConnID:    connID,
			Token:     token,
			Name:      normalizeName(name),
			Connected: true,
			Alive:     true,
		}
		room.players[connID] = p
		room.byToken[token] = connID
		room.order = append(room.order, connID)
	}
	if room.hostID == "" {
		room.hostID = connID
	}
	room.touch(s.now())

	joined := JoinedPayload{
		Code:     room.Code,
		You:      SelfPayload{ID: connID, Name: room.players[connID].Name, Token: room.players[connID].Token},
		HostID:   room.hostID,
		Phase:    room.phase,
		Settings: room.settings,
		Players:  room.publicPlayers(),
		Tasks:    room.tasks,
	}
	state := room.statePayload()
	room.mu.Unlock()

	log.Info().Str("room", room.Code).Str("conn", connID).Msg("player_joined")
	s.gw.ToConn(connID, EventJoined, joined)
	s.gw.ToRoom(room.Code, EventState, state)
	return nil
}

// Disconnect marks the connection's player as disconnected, reassigns the
// host if needed, and forces a reveal when the impostor drops mid-round.
func (s *Service) Disconnect(connID string) {
	for _, room := range s.registry.Rooms() {
		room.mu.Lock()
		p, ok := room.players[connID]
		if !ok {
			room.mu.Unlock()
			continue
		}
		p.Connected = false
		if room.hostID == connID {
			room.nextHost()
		}
		inRound := room.phase == PhaseClue || room.phase == PhaseVote
		if inRound && room.impostorID == connID {
			s.revealLocked(room, true, "impostor disconnected")
		}
		room.touch(s.now())
		s.gw.ToRoom(room.Code, EventState, room.statePayload())
		room.mu.Unlock()
		return
	}
}

// UpdateSettings merges a host-issued partial settings update. A changed
// task target takes effect immediately, including re-evaluating the win
// condition against already-earned progress.
func (s *Service) UpdateSettings(code, connID string, patch SettingsPatch) error {
	room, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.hostID != connID {
		return ErrNotAuthorized
	}

	if patch.ClueSeconds != nil && *patch.ClueSeconds > 0 {
		room.settings.ClueSeconds = *patch.ClueSeconds
	}
	if patch.AllowChat != nil {
		room.settings.AllowChat = *patch.AllowChat
	}
	if patch.KillCooldownSec != nil && *patch.KillCooldownSec > 0 {
		room.settings.KillCooldownSec = *patch.KillCooldownSec
	}
	if patch.SabotageSeconds != nil && *patch.SabotageSeconds > 0 {
		room.settings.SabotageSeconds = *patch.SabotageSeconds
	}
	if patch.TasksTarget != nil && *patch.TasksTarget > 0 {
		room.settings.TasksTarget = *patch.TasksTarget
		if room.phase == PhaseClue || room.phase == PhaseVote {
			room.tasks.Target = *patch.TasksTarget
			if room.tasks.Progress > room.tasks.Target {
				room.tasks.Progress = room.tasks.Target
			}
		}
	}
	room.touch(s.now())
	s.gw.ToRoom(room.Code, EventState, room.statePayload())
	if room.phase == PhaseClue || room.phase == PhaseVote {
		s.checkWinLocked(room)
	}
	return nil
}

// SendClue broadcasts a free-text clue to the room.
func (s *Service) SendClue(code, connID, text string) error {
	room, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.phase != PhaseClue {
		return ErrPhaseMismatch
	}
	if !room.settings.AllowChat {
		return ErrNotAuthorized
	}
	p, ok := room.players[connID]
	if !ok || !p.Alive {
		return ErrNotAuthorized
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrInvalidText
	}
	runes := []rune(text)
	if len(runes) > maxClueLen {
		text = string(runes[:maxClueLen])
	}
	room.touch(s.now())
	s.gw.ToRoom(room.Code, EventClue, CluePayload{ID: connID, Name: p.Name, Text: text})
	return nil
}
