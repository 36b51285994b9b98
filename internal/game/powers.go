package game

import (
	"time"

	"github.com/rs/zerolog/log"
)

const defaultTaskAmount = 5

// SubmitTask adds civilian task progress, clamped at the round target.
// Blocked while a sabotage window is open.
func (s *Service) SubmitTask(code, connID string, amount int) error {
	room, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.phase != PhaseClue {
		return ErrPhaseMismatch
	}
	p, ok := room.players[connID]
	if !ok || !p.Alive || connID == room.impostorID {
		return ErrNotAuthorized
	}
	now := s.now()
	if now.UnixMilli() < room.tasks.SabotagedUntil {
		return ErrRateLimited
	}
	if amount <= 0 {
		amount = defaultTaskAmount
	}
	room.tasks.Progress += amount
	if room.tasks.Progress > room.tasks.Target {
		room.tasks.Progress = room.tasks.Target
	}
	room.touch(now)
	s.gw.ToRoom(room.Code, EventTaskUpdate, room.tasks)
	s.checkWinLocked(room)
	return nil
}

// Sabotage opens a sabotage window. Windows do not stack.
func (s *Service) Sabotage(code, connID string) error {
	room, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.phase != PhaseClue {
		return ErrPhaseMismatch
	}
	if connID != room.impostorID {
		return ErrNotAuthorized
	}
	now := s.now()
	if now.UnixMilli() < room.tasks.SabotagedUntil {
		return ErrRateLimited
	}
	duration := time.Duration(room.settings.SabotageSeconds) * time.Second
	until := now.Add(duration).UnixMilli()
	room.tasks.SabotagedUntil = until
	room.touch(now)
	s.gw.ToRoom(room.Code, EventSabotageStarted, SabotageStartedPayload{Until: until})
	log.Info().Str("room", room.Code).Int64("until", until).Msg("sabotage_start")

	gen := room.gen
	s.schedule(duration, func() {
		s.sabotageExpired(room, gen, until)
	})
	return nil
}

func (s *Service) sabotageExpired(room *Room, gen uint64, until int64) {
	room.mu.Lock()
	defer room.mu.Unlock()
	// Skip if the round moved on or another window replaced this one.
	if room.destroyed || room.gen != gen || room.tasks.SabotagedUntil != until {
		return
	}
	room.tasks.SabotagedUntil = 0
	s.gw.ToRoom(room.Code, EventSabotageEnded, struct{}{})
}

// Kill eliminates a target, gated by the kill cooldown.
func (s *Service) Kill(code, connID, targetID string) error {
	room, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.phase != PhaseClue {
		return ErrPhaseMismatch
	}
	if connID != room.impostorID {
		return ErrNotAuthorized
	}
	now := s.now()
	cooldown := time.Duration(room.settings.KillCooldownSec) * time.Second
	if !room.lastKillAt.IsZero() && now.Sub(room.lastKillAt) < cooldown {
		return ErrRateLimited
	}
	target, ok := room.players[targetID]
	if !ok || !target.Alive || targetID == room.impostorID {
		return ErrInvalidTarget
	}

	target.Alive = false
	room.lastKillAt = now
	room.touch(now)
	s.gw.ToRoom(room.Code, EventSystem, SystemPayload{Text: target.Name + " was eliminated."})
	s.gw.ToRoom(room.Code, EventState, room.statePayload())
	log.Info().Str("room", room.Code).Str("target", targetID).Msg("player_eliminated")
	s.checkWinLocked(room)
	return nil
}
