package session

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/modemkit/gosms/atresp"
	"github.com/modemkit/gosms/handler"
	"github.com/modemkit/gosms/sar"
	"github.com/modemkit/gosms/serial"
	"github.com/modemkit/gosms/tpdu"
)

// Sentinel errors a Connect or Send can fail with.
var (
	ErrNotConnected                 = errors.New("session: modem did not answer AT")
	ErrAlreadyConnected             = errors.New("session: already connected")
	ErrPINRequired                  = errors.New("session: SIM requires a PIN but none was configured")
	ErrPIN2Required                 = errors.New("session: SIM requires a PIN2 but none was configured")
	ErrSIMPUK                       = errors.New("session: SIM is PUK-locked, manual unlock required")
	ErrRegistrationFailed           = errors.New("session: network registration denied or unknown")
	ErrInvalidRegistrationResponse  = errors.New("session: unparseable network registration response")
	ErrUnsupportedMode              = errors.New("session: handler does not support PDU mode")
	ErrLinkFatal                    = errors.New("session: fatal link error, disconnected")
	ErrTimeout                      = errors.New("session: AT command timeout")
	ErrDisconnected                 = errors.New("session: not connected")
)

// classAll is the AT+CMGL message-class value meaning "every message
// regardless of read state," used by the receive loop's poll.
const classAll = 4

// Listener is invoked once per delivered IncomingMessage. Returning true
// tells the session to delete the message (and, for a reassembled
// multipart message, every fragment it was built from).
type Listener func(msg *tpdu.IncomingMessage) bool

// DeviceInfo is the small snapshot of identity fields Connect refreshes.
type DeviceInfo struct {
	Manufacturer string
	Model        string
	Serial       string
}

// Stats counts outcomes across the lifetime of a Session.
type Stats struct {
	MessagesSent   int
	SendFailures   int
	MessagesRecvd  int
}

// Session owns one serial link: connect/disconnect, send, read, delete,
// and the background receive and keep-alive loops described in
// spec.md §4.8. All handler-interacting operations serialize on mu.
type Session struct {
	opts    Options
	driver  serial.Driver
	monitor serial.Monitor
	handler handler.Handler

	mu               sync.Mutex
	storageLocations []string
	reassembler      *sar.Reassembler
	info             DeviceInfo
	stats            Stats

	mpMu     sync.Mutex
	outMPRef uint16

	listenersMu sync.Mutex
	listeners   []Listener

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	wg        sync.WaitGroup

	receiveCancel context.CancelFunc
}

// AddListener registers l to be invoked for every message the receive
// loop delivers.
func (s *Session) AddListener(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Session) listenersSnapshot() []Listener {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

// Info returns the device identity snapshot Connect captured.
func (s *Session) Info() DeviceInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// Stats returns a copy of the running send/receive counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Pending reports how many concatenated messages are still awaiting
// fragments.
func (s *Session) Pending() int {
	return s.reassembler.Pending()
}

// rawCommand performs one AT request/response round-trip over the
// driver: write req plus the line terminator, then read whatever comes
// back within the command timeout. An empty read is treated as a
// timeout; any reply containing a final error result is reported as an
// error alongside the raw text, mirroring xlab-at's Device.Send.
func (s *Session) rawCommand(req string) (string, error) {
	if _, err := s.driver.Send([]byte(req + "\r\n")); err != nil {
		return "", err
	}
	data, err := s.driver.ReadBuffer(s.opts.CommandTimeout)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrTimeout
	}
	reply := string(data)
	if isATError(reply) {
		return reply, errors.New(strings.TrimSpace(lastNonEmptyLine(reply)))
	}
	return reply, nil
}

// Command implements handler.Transport, retrying per the session's
// no-response and CMS/CME-error retry budgets (spec.md §5's
// retries_no_response/delay_no_response_s/retries_cms_errors/
// delay_cms_errors_s; spec.md §7 treats CMS and CME transient errors as
// the same retry policy, so both share RetriesCMSErrors/DelayCMSErrors).
func (s *Session) Command(req string) (string, error) {
	var reply string
	var err error
	noResp, transient := 0, 0
	for {
		reply, err = s.rawCommand(req)
		if err == nil {
			return reply, nil
		}
		if errors.Is(err, ErrTimeout) {
			if noResp >= s.opts.RetriesNoResponse {
				return reply, err
			}
			noResp++
			time.Sleep(s.opts.DelayNoResponse)
			continue
		}
		switch classifyFinal(reply).ID {
		case atresp.FinalResults.CmsError.ID, atresp.FinalResults.CmeError.ID:
			if transient >= s.opts.RetriesCMSErrors {
				return reply, err
			}
			transient++
			time.Sleep(s.opts.DelayCMSErrors)
		default:
			return reply, err
		}
	}
}

// InteractiveCommand implements handler.Transport for prompt-driven
// exchanges such as AT+CMGS, which waits for a '>' prompt before the PDU
// payload is written, exactly as xlab-at's sendInteractive does.
func (s *Session) InteractiveCommand(part1, part2 string, prompt byte) (string, error) {
	if _, err := s.driver.Send([]byte(part1 + "\r\n")); err != nil {
		return "", err
	}
	if err := s.waitForByte(prompt, s.opts.CommandTimeout); err != nil {
		return "", err
	}
	if _, err := s.driver.Send([]byte(part2 + "\x1A")); err != nil {
		return "", err
	}
	data, err := s.driver.ReadBuffer(s.opts.CommandTimeout)
	if err != nil {
		return "", err
	}
	reply := string(data)
	if isATError(reply) {
		return reply, errors.New(strings.TrimSpace(lastNonEmptyLine(reply)))
	}
	return reply, nil
}

func (s *Session) waitForByte(b byte, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		data, err := s.driver.ReadBuffer(50 * time.Millisecond)
		if err != nil {
			return err
		}
		if bytes.IndexByte(data, b) >= 0 {
			return nil
		}
	}
	return ErrTimeout
}

// classifyFinal scans reply's lines for the first AT final result code
// atresp.FinalResults recognizes (OK, ERROR, +CME ERROR:, +CMS ERROR:,
// NO CARRIER, BUSY, NO ANSWER), or atresp.UnknownStringOpt if none match.
func classifyFinal(reply string) atresp.StringOpt {
	for _, line := range strings.FieldsFunc(reply, func(r rune) bool { return r == '\r' || r == '\n' }) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if opt := atresp.FinalResults.Resolve(line); opt != atresp.UnknownStringOpt {
			return opt
		}
	}
	return atresp.UnknownStringOpt
}

func isATError(reply string) bool {
	switch classifyFinal(reply).ID {
	case atresp.FinalResults.Ok.ID, atresp.UnknownStringOpt.ID:
		return false
	default:
		return true
	}
}

func lastNonEmptyLine(text string) string {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\r' || r == '\n' })
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return text
}

func logError(msg string, err error) {
	slog.Error(msg, "err", err)
}
