package game

import "sort"

// CastVote records a ballot. Re-voting overwrites the voter's previous
// ballot. Once every connected, alive player has voted the vote resolves.
func (s *Service) CastVote(code, connID, targetID string) error {
	room, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.phase != PhaseVote {
		return ErrPhaseMismatch
	}
	voter, ok := room.players[connID]
	if !ok || !voter.Alive {
		return ErrNotAuthorized
	}
	target, ok := room.players[targetID]
	if !ok || !target.Alive {
		return ErrInvalidTarget
	}

	room.votes[connID] = targetID
	room.touch(s.now())
	s.gw.ToRoom(room.Code, EventVoteUpdate, s.voteUpdateLocked(room))

	for _, id := range room.aliveConnected() {
		if _, voted := room.votes[id]; !voted {
			return nil
		}
	}
	s.resolveVoteLocked(room)
	return nil
}

// voteUpdateLocked aggregates ballots into per-target counts plus the voter
// id set, keeping individual ballots secret.
func (s *Service) voteUpdateLocked(room *Room) VoteUpdatePayload {
	counts := make(map[string]int, len(room.votes))
	voted := make([]string, 0, len(room.votes))
	for voter, target := range room.votes {
		counts[target]++
		voted = append(voted, voter)
	}
	sort.Strings(voted)
	return VoteUpdatePayload{Counts: counts, Voted: voted}
}

// resolveVoteLocked ejects the target with the strictly highest ballot
// count. Ties and empty votes eject nobody. Either way the round falls
// through to reveal unless a win condition fires first.
func (s *Service) resolveVoteLocked(room *Room) {
	counts := make(map[string]int, len(room.votes))
	for _, target := range room.votes {
		counts[target]++
	}
	suspect, best, tied := "", 0, false
	for target, n := range counts {
		switch {
		case n > best:
			suspect, best, tied = target, n, false
		case n == best:
			tied = true
		}
	}
	if suspect != "" && !tied {
		if p, ok := room.players[suspect]; ok {
			p.Alive = false
			s.gw.ToRoom(room.Code, EventSystem, SystemPayload{Text: p.Name + " was ejected."})
		}
	}
	if s.checkWinLocked(room) {
		return
	}

	caught := false
	if p, ok := room.players[room.impostorID]; ok {
		caught = !p.Alive
	}
	s.revealLocked(room, caught, "vote concluded")
}
