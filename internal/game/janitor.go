package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StartJanitor reaps abandoned rooms on a fixed interval until ctx is done.
// A room is abandoned once no player has been connected for longer than ttl.
func (g *Registry) StartJanitor(ctx context.Context, interval, ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := g.reapIdle(g.now(), ttl); n > 0 {
					log.Info().Int("rooms", n).Msg("rooms_reaped")
				}
			}
		}
	}()
}

func (g *Registry) reapIdle(now time.Time, ttl time.Duration) int {
	reaped := 0
	for _, room := range g.Rooms() {
		room.mu.Lock()
		idle := true
		for _, p := range room.players {
			if p.Connected {
				idle = false
				break
			}
		}
		expired := idle && now.Sub(room.lastSeen) > ttl
		if expired && !room.destroyed {
			room.destroyed = true
			room.gen++ // invalidates any pending timers
		}
		room.mu.Unlock()

		if expired {
			g.remove(room.Code)
			roomsReapedTotal.Add(1)
			reaped++
		}
	}
	return reaped
}
