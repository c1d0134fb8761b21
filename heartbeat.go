package htinter

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownHeartbeat is returned for a [HeartbeatID] that was never created.
var ErrUnknownHeartbeat = errors.New("unknown heartbeat")

// HeartbeatID identifies a heartbeat. IDs are indexes in creation order and
// stay valid for the life of the server.
type HeartbeatID int

// heartbeat is a handler called back by a timer running in the browser.
type heartbeat struct {
	handler  Handler
	interval time.Duration
}

// CreateHeartbeat defines a handler that the page calls every interval.
//
// The timer is installed by the reply to the current protocol call. Effects
// recorded by h during a tick are sent in the reply to that tick. The
// returned ID is used with [Server.SetHeartbeatActive].
func (s *Server) CreateHeartbeat(interval time.Duration, h Handler) HeartbeatID {
	id := HeartbeatID(len(s.heartbeats))
	s.heartbeats = append(s.heartbeats, heartbeat{handler: orNop(h), interval: interval})
	s.metrics.SetHeartbeats(len(s.heartbeats))

	s.batch.CreateHeartbeat(int(id), interval.Milliseconds())
	return id
}

// SetHeartbeatActive stops or restarts the browser timer of a heartbeat.
// A restarted heartbeat keeps its original interval. The heartbeat itself
// is never removed.
//
// Returns [ErrUnknownHeartbeat] if id was not returned by
// [Server.CreateHeartbeat].
func (s *Server) SetHeartbeatActive(id HeartbeatID, active bool) error {
	hb, ok := s.heartbeat(int(id))
	if !ok {
		return fmt.Errorf("set heartbeat %d active=%t: %w", id, active, ErrUnknownHeartbeat)
	}

	if active {
		s.batch.CreateHeartbeat(int(id), hb.interval.Milliseconds())
	} else {
		s.batch.StopHeartbeat(int(id))
	}
	return nil
}

func (s *Server) heartbeat(ref int) (heartbeat, bool) {
	if ref < 0 || ref >= len(s.heartbeats) {
		return heartbeat{}, false
	}
	return s.heartbeats[ref], true
}
