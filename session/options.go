package session

import "time"

// ReceiveMode selects how (or whether) incoming messages are delivered,
// per spec.md §5's receive_mode option.
type ReceiveMode int

// Receive modes a Session can run in.
const (
	// ReceiveSync starts no background receive loop at all; the caller
	// drives Read itself. The handler's CMTI indications are disabled.
	ReceiveSync ReceiveMode = iota
	// ReceiveAsyncCmti starts the receive loop and asks the handler to
	// enable +CMTI indications. The loop wakes before AsyncPollInterval
	// only when the driver notifies the session's monitor;
	// serial.TarmDriver does not.
	ReceiveAsyncCmti
	// ReceiveAsyncPoll starts the receive loop with indications disabled,
	// relying solely on AsyncPollInterval to notice new messages.
	ReceiveAsyncPoll
)

// Options configures a Connect call: the physical link, the handler to
// resolve, SIM credentials, and the timing knobs spec.md §5 names
// (async_poll_ms, keep_alive_ms, retries_no_response,
// delay_no_response_ms, retries_cms_errors, delay_cms_errors_ms).
type Options struct {
	PortName string
	BaudRate int

	// Manufacturer, Model, and Alias drive handler.Resolve's
	// Base_<alias>/Base_<mfr>_<model>/Base_<mfr>/Base fallback chain.
	Manufacturer string
	Model        string
	Alias        string

	SimPIN             string
	SimPIN2            string
	ThrowOnMissingPIN2 bool

	// SMSCNumber, when set, is applied to an outgoing message that does
	// not already carry an explicit SMSC address.
	SMSCNumber string

	// StorageLocations, when non-empty, overrides the memory codes
	// Connect would otherwise discover via the handler's
	// GetStorageLocations, restricting Read/receive to this list.
	StorageLocations []string

	// AsyncRecvClass is the AT+CMGL class the receive loop polls with.
	AsyncRecvClass int

	ReceiveMode ReceiveMode

	CommandTimeout    time.Duration
	RetriesNoResponse int
	DelayNoResponse   time.Duration
	RetriesCMSErrors  int
	DelayCMSErrors    time.Duration

	AsyncPollInterval time.Duration
	KeepAliveInterval time.Duration
}

// DefaultOptions returns Options with conservative timings suitable for
// a typical GSM/UMTS modem at 115200 baud.
func DefaultOptions(portName string) Options {
	return Options{
		PortName:          portName,
		BaudRate:          115200,
		AsyncRecvClass:    classAll,
		ReceiveMode:       ReceiveAsyncCmti,
		CommandTimeout:    10 * time.Second,
		RetriesNoResponse: 2,
		DelayNoResponse:   500 * time.Millisecond,
		RetriesCMSErrors:  2,
		DelayCMSErrors:    500 * time.Millisecond,
		AsyncPollInterval: 2 * time.Second,
		KeepAliveInterval: 30 * time.Second,
	}
}
