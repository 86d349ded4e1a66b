package handler

// Negative sentinels SendMessage returns in place of a TP-MR reference
// number.
const (
	// SendFailure means this message should be abandoned; remaining parts
	// of a multipart send are skipped, but the session stays connected.
	SendFailure = -1
	// SendLinkFatal means the link itself is gone; the session disconnects.
	SendLinkFatal = -2
)

// RegistrationState mirrors the 3GPP TS 27.007 AT+CREG status codes.
type RegistrationState int

// Registration states a modem can report.
const (
	RegistrationUnknown        RegistrationState = -1
	RegistrationNotRegistered  RegistrationState = 0
	RegistrationHome           RegistrationState = 1
	RegistrationSearching      RegistrationState = 2
	RegistrationDenied         RegistrationState = 3
	RegistrationUnknownNetwork RegistrationState = 4
	RegistrationRoaming        RegistrationState = 5
)

// Registered reports whether state reflects attachment to a network,
// home or roaming.
func (s RegistrationState) Registered() bool {
	return s == RegistrationHome || s == RegistrationRoaming
}

// Transport is what a Handler uses to talk to the modem. Session owns the
// concrete implementation (serial.Driver plus the AT framing and retry
// policy); Handler only knows how to format and parse command strings.
type Transport interface {
	// Command sends req, appends the line terminator, and returns the
	// joined intermediate response lines. A non-nil error means the final
	// result line was not OK (CME/CMS error, NO CARRIER, or a timeout).
	Command(req string) (string, error)
	// InteractiveCommand sends part1, waits for prompt, then sends part2.
	// This is how AT+CMGS feeds PDU bytes after the modem's '>' prompt.
	InteractiveCommand(part1, part2 string, prompt byte) (string, error)
}

// Handler is the AT-dialect contract the session controller drives.
// Implementations translate these calls into vendor AT commands and
// parse the replies; Session never formats an AT string itself.
type Handler interface {
	Sync() error
	Reset() error
	IsAlive() bool

	EnableIndications() error
	DisableIndications() error

	SetMemoryLocation(code string) error
	GetStorageLocations() ([]string, error)

	ListMessages(class int) ([]string, error)
	SendMessage(pduLengthOctets int, pduHex string) (refNo int, err error)
	DeleteMessage(index int, location string) error

	GetManufacturer() (string, error)
	GetModel() (string, error)
	GetSerial() (string, error)
	GetIMSI() (string, error)
	GetSWVersion() (string, error)
	GetSignalQuality() (int, error)
	GetBatteryLevel() (int, error)

	GetPINResponse() (string, error)
	IsWaitingForPIN() (bool, error)
	IsWaitingForPIN2() (bool, error)
	IsWaitingForPUK() (bool, error)
	EnterPIN(pin string) error

	SetPDUMode() error
	SetTextMode() error
	EchoOff() error
	SetVerboseErrors() error

	GetNetworkRegistration() (RegistrationState, error)

	SupportsReceive() bool
	SupportsBinary() bool
	SupportsUCS2() bool
	SupportsSTK() bool
}
