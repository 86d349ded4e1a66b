package session

import (
	"context"
	"log/slog"

	"github.com/modemkit/gosms/atresp"
	"github.com/modemkit/gosms/tpdu"
)

// Read lists messages of class (an AT+CMGL filter, e.g. classAll) across
// every discovered storage location, decodes each PDU, and routes
// single-part messages straight to the result while feeding concatenated
// fragments through the reassembler, per spec.md §4.8's Read.
func (s *Session) Read(class int) ([]*tpdu.IncomingMessage, []*tpdu.StatusReportMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(class)
}

func (s *Session) readLocked(class int) ([]*tpdu.IncomingMessage, []*tpdu.StatusReportMessage, error) {
	var incoming []*tpdu.IncomingMessage
	var reports []*tpdu.StatusReportMessage

	for _, loc := range s.storageLocations {
		if err := s.handler.SetMemoryLocation(loc); err != nil {
			return nil, nil, err
		}
		lines, err := s.handler.ListMessages(class)
		if err != nil {
			return nil, nil, err
		}
		for i := 0; i+1 < len(lines); i += 2 {
			idx := atresp.GetMemIndex(lines[i])
			decoded, err := tpdu.Decode(lines[i+1])
			if err != nil {
				slog.Warn("session: skipping undecodable PDU", "location", loc, "index", idx, "err", err)
				continue
			}
			switch v := decoded.(type) {
			case *tpdu.StatusReportMessage:
				v.MemIndex = int32(idx)
				v.MemLocation = loc
				reports = append(reports, v)
			case *tpdu.IncomingMessage:
				v.MemIndex = int32(idx)
				v.MemLocation = loc
				if complete, ready := s.reassembler.Add(*v); ready {
					incoming = append(incoming, complete)
				}
			}
		}
	}
	s.stats.MessagesRecvd += len(incoming)
	return incoming, reports, nil
}

// Delete removes msg from the modem's storage. A reassembled virtual
// message (MemIndex == -1) deletes every fragment it was built from.
func (s *Session) Delete(msg *tpdu.IncomingMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.MemIndex == -1 {
		for _, idx := range msg.MPMemIndices {
			if err := s.handler.DeleteMessage(int(idx), msg.MemLocation); err != nil {
				return err
			}
		}
		return nil
	}
	return s.handler.DeleteMessage(int(msg.MemIndex), msg.MemLocation)
}

// receiveLoop is the async receive thread: it wakes on the monitor
// (CMTI, raw data, or its own poll timeout), drains every pending
// message, and dispatches each to the registered listeners. ctx is the
// loop's own cancellation scope, a child of the session's so
// SetReceiveMode can stop one receive loop without tearing the session
// down.
func (s *Session) receiveLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.monitor.WaitEvent(s.opts.AsyncPollInterval)
		s.monitor.Reset()

		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("session: receive loop panicked, continuing", "panic", r)
				}
			}()
			msgs, _, err := s.Read(s.opts.AsyncRecvClass)
			if err != nil {
				logError("session: read_messages failed", err)
				return
			}
			for _, msg := range msgs {
				s.dispatch(msg)
			}
		}()
	}
}

func (s *Session) dispatch(msg *tpdu.IncomingMessage) {
	for _, l := range s.listenersSnapshot() {
		handled := s.invokeListener(l, msg)
		if handled {
			if err := s.Delete(msg); err != nil {
				logError("session: delete after handling failed", err)
			}
			return
		}
	}
}

func (s *Session) invokeListener(l Listener, msg *tpdu.IncomingMessage) (handled bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("session: listener panicked", "panic", r)
			handled = false
		}
	}()
	return l(msg)
}
