package game

import (
	"expvar"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

var roundsStartedTotal = expvar.NewInt("rounds_started_total")

// StartRound deals a new round: one secret identity shared by civilians, one
// impostor among the connected players. Valid from the lobby and, for a
// rematch, straight from reveal.
func (s *Service) StartRound(code, connID string) error {
	room, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.hostID != connID {
		return ErrNotAuthorized
	}
	if room.phase != PhaseLobby && room.phase != PhaseReveal {
		return ErrPhaseMismatch
	}

	connected := room.connectedIDs()
	if len(connected) < s.minPlayers {
		return ErrInsufficientPlayers
	}

	room.phase = PhaseClue
	room.gen++
	room.round++
	room.secret = s.pickSecret()
	room.impostorID = connected[rand.Intn(len(connected))]
	room.votes = make(map[string]string)
	room.tasks = TaskState{Target: room.settings.TasksTarget}
	room.lastKillAt = time.Time{}
	for _, p := range room.players {
		p.Role = RoleUnassigned
		if p.Connected {
			p.Alive = true
		}
	}
	for _, id := range connected {
		p := room.players[id]
		if id == room.impostorID {
			p.Role = RoleImpostor
			s.gw.ToConn(id, EventRole, RolePayload{Role: RoleImpostor})
		} else {
			p.Role = RoleCivilian
			s.gw.ToConn(id, EventRole, RolePayload{Role: RoleCivilian, Secret: room.secret})
		}
	}
	room.touch(s.now())

	s.gw.ToRoom(room.Code, EventCluePhase, CluePhasePayload{Seconds: room.settings.ClueSeconds})
	s.gw.ToRoom(room.Code, EventState, room.statePayload())

	gen := room.gen
	s.schedule(time.Duration(room.settings.ClueSeconds)*time.Second, func() {
		s.clueTimerFired(room, gen)
	})

	roundsStartedTotal.Add(1)
	log.Info().Str("room", room.Code).Int("round", room.round).Int("players", len(connected)).Msg("round_start")
	return nil
}

// EndClue advances clue -> vote, unless a win condition already ends the
// round. Host command; the clue countdown triggers the same path.
func (s *Service) EndClue(code, connID string) error {
	room, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.hostID != connID {
		return ErrNotAuthorized
	}
	if room.phase != PhaseClue {
		return ErrPhaseMismatch
	}
	s.endClueLocked(room)
	return nil
}

func (s *Service) clueTimerFired(room *Room, gen uint64) {
	room.mu.Lock()
	defer room.mu.Unlock()
	// The room may have revealed, restarted, or been reaped since the timer
	// was armed.
	if room.destroyed || room.gen != gen || room.phase != PhaseClue {
		return
	}
	log.Info().Str("room", room.Code).Msg("clue_timer_expired")
	s.endClueLocked(room)
}

func (s *Service) endClueLocked(room *Room) {
	if s.checkWinLocked(room) {
		return
	}
	room.phase = PhaseVote
	room.gen++
	room.votes = make(map[string]string)
	room.touch(s.now())

	eligible := make([]PublicPlayer, 0, len(room.order))
	for _, id := range room.connectedIDs() {
		p := room.players[id]
		eligible = append(eligible, PublicPlayer{ID: id, Name: p.Name, Connected: true, Alive: p.Alive})
	}
	s.gw.ToRoom(room.Code, EventVotePhase, VotePhasePayload{Players: eligible})
	s.gw.ToRoom(room.Code, EventState, room.statePayload())
}
