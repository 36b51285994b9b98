package game

import "github.com/rs/zerolog/log"

// checkWinLocked evaluates termination conditions in precedence order and
// transitions to reveal on the first that holds. Returns true once the room
// is in reveal, so at most one reveal broadcast happens per round.
func (s *Service) checkWinLocked(room *Room) bool {
	if room.phase == PhaseReveal {
		return true
	}
	if room.phase != PhaseClue && room.phase != PhaseVote {
		return false
	}

	if room.tasks.Progress >= room.tasks.Target && room.tasks.Target > 0 {
		s.revealLocked(room, true, "tasks completed")
		return true
	}

	impostor := room.players[room.impostorID]
	if room.impostorID != "" && impostor != nil && !impostor.Alive {
		s.revealLocked(room, true, "impostor removed")
		return true
	}

	if impostor != nil && impostor.Alive {
		civilians := 0
		for _, id := range room.aliveConnected() {
			if id != room.impostorID {
				civilians++
			}
		}
		if 1 >= civilians {
			s.revealLocked(room, false, "parity reached")
			return true
		}
	}
	return false
}

// revealLocked ends the round. gen is bumped so pending clue and sabotage
// timers from this round become no-ops.
func (s *Service) revealLocked(room *Room, caught bool, reason string) {
	room.phase = PhaseReveal
	room.gen++
	room.touch(s.now())

	name := "Unknown"
	if p := room.players[room.impostorID]; p != nil {
		name = p.Name
	}
	s.gw.ToRoom(room.Code, EventReveal, RevealPayload{
		ImpostorID:     room.impostorID,
		ImpostorName:   name,
		Secret:         room.secret,
		ImpostorCaught: caught,
		Reason:         reason,
	})
	s.gw.ToRoom(room.Code, EventState, room.statePayload())
	log.Info().Str("room", room.Code).Bool("caught", caught).Str("reason", reason).Msg("round_reveal")
}
