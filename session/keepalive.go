package session

import "time"

// keepAliveLoop pulses AT liveness checks every KeepAliveInterval. An
// unresponsive modem terminates the session; this loop is not joined by
// Disconnect, since it may be blocked inside a handler call against a
// dead link.
func (s *Session) keepAliveLoop() {
	ticker := time.NewTicker(s.opts.KeepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			alive := s.handler.IsAlive()
			s.mu.Unlock()
			if !alive {
				logError("session: keep-alive failed, disconnecting", ErrLinkFatal)
				go s.Disconnect()
				return
			}
		}
	}
}
