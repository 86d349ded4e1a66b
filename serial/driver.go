package serial

import (
	"time"
)

// Driver is the transport contract the session controller drives: open a
// port, push bytes to the modem, and drain whatever comes back.
type Driver interface {
	Open(name string, baud int) error
	Close() error
	Send(p []byte) (int, error)
	EmptyBuffer() error
	LastClearedBuffer() []byte
	ReadBuffer(timeout time.Duration) ([]byte, error)
	SetNewMessageMonitor(m Monitor)
	Port() string
}
