package serial

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// ErrNotOpen is returned by driver methods called before Open succeeds.
var ErrNotOpen = errors.New("serial: port not open")

const readChunkSize = 256

// TarmDriver is the default Driver, backed by github.com/tarm/serial.
type TarmDriver struct {
	mu      sync.Mutex
	port    *serial.Port
	name    string
	monitor Monitor
	cleared []byte
}

// NewTarmDriver returns an unopened TarmDriver.
func NewTarmDriver() *TarmDriver {
	return &TarmDriver{}
}

// Open establishes the serial connection at baud.
func (d *TarmDriver) Open(name string, baud int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return err
	}
	d.port = port
	d.name = name
	return nil
}

// Close releases the serial connection.
func (d *TarmDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.port == nil {
		return nil
	}
	err := d.port.Close()
	d.port = nil
	return err
}

// Send writes p to the modem.
func (d *TarmDriver) Send(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.port == nil {
		return 0, ErrNotOpen
	}
	return d.port.Write(p)
}

// EmptyBuffer drains whatever is currently waiting to be read, stashing it
// for LastClearedBuffer, and discards it.
func (d *TarmDriver) EmptyBuffer() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.port == nil {
		return ErrNotOpen
	}
	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	for {
		n, err := d.port.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err != nil {
			break
		}
		if n == 0 {
			break
		}
	}
	d.cleared = buf.Bytes()
	return nil
}

// LastClearedBuffer returns whatever EmptyBuffer most recently discarded.
func (d *TarmDriver) LastClearedBuffer() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cleared
}

// ReadBuffer reads whatever arrives within timeout.
func (d *TarmDriver) ReadBuffer(timeout time.Duration) ([]byte, error) {
	d.mu.Lock()
	port := d.port
	d.mu.Unlock()
	if port == nil {
		return nil, ErrNotOpen
	}

	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		n, err := port.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err != nil && err != io.EOF {
			if buf.Len() > 0 {
				return buf.Bytes(), nil
			}
			return nil, err
		}
		if n == 0 && buf.Len() > 0 {
			break
		}
	}
	return buf.Bytes(), nil
}

// SetNewMessageMonitor records m. TarmDriver runs no background reader
// and never calls m.Notify, so an unsolicited +CMTI line does not wake
// the monitor; it is only seen by whichever read next drains the port.
func (d *TarmDriver) SetNewMessageMonitor(m Monitor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.monitor = m
}

// Port returns the device path this driver was opened against.
func (d *TarmDriver) Port() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name
}
