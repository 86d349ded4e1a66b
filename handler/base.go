package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/modemkit/gosms/atresp"
)

// Base is a reference Handler built from plain 3GPP TS 27.005/27.007
// commands. It drives any modem that implements the common subset and
// also backs the registry's final fallback.
type Base struct {
	t Transport
}

// NewBase returns a Base bound to t.
func NewBase(t Transport) *Base {
	return &Base{t: t}
}

// Sync flushes whatever the modem has queued by sending a bare AT and
// discarding the reply.
func (b *Base) Sync() error {
	_, err := b.t.Command("AT")
	return err
}

// Reset issues ATZ, restoring the modem's factory AT profile.
func (b *Base) Reset() error {
	_, err := b.t.Command("ATZ")
	return err
}

// IsAlive pings the modem with a bare AT and reports whether it answered.
func (b *Base) IsAlive() bool {
	_, err := b.t.Command("AT")
	return err == nil
}

// EnableIndications turns on +CMTI new-message notifications.
func (b *Base) EnableIndications() error {
	_, err := b.t.Command("AT+CNMI=2,1,0,1,0")
	return err
}

// DisableIndications turns unsolicited message notifications back off.
func (b *Base) DisableIndications() error {
	_, err := b.t.Command("AT+CNMI=0,0,0,0,0")
	return err
}

// SetMemoryLocation selects code (e.g. "SM", "ME") as the storage used
// for reading, writing, and listing messages.
func (b *Base) SetMemoryLocation(code string) error {
	req := fmt.Sprintf(`AT+CPMS="%s","%s","%s"`, code, code, code)
	_, err := b.t.Command(req)
	return err
}

// GetStorageLocations reports the storage types this modem advertises
// via AT+CPMS=?, read from the +CPMS: line, each code once in the order
// it first appears.
func (b *Base) GetStorageLocations() ([]string, error) {
	reply, err := b.t.Command("AT+CPMS=?")
	if err != nil {
		return nil, err
	}
	var out []string
	seen := map[string]bool{}
	for _, line := range splitNonEmpty(reply) {
		if !strings.HasPrefix(line, "+CPMS:") {
			continue
		}
		cleaned := strings.NewReplacer("+CPMS:", "", "(", "", ")", "", "\"", "").Replace(line)
		for _, tok := range strings.Split(cleaned, ",") {
			tok = strings.TrimSpace(tok)
			if tok != "" && len(tok) <= 2 && !seen[tok] {
				seen[tok] = true
				out = append(out, tok)
			}
		}
	}
	return out, nil
}

// ListMessages sends AT+CMGL for class (0-4, see spec.md's message flags)
// and returns the raw intermediate response lines, one PDU header/body
// pair per message, for the session to decode.
func (b *Base) ListMessages(class int) ([]string, error) {
	reply, err := b.t.Command(fmt.Sprintf("AT+CMGL=%d", class))
	if err != nil {
		return nil, err
	}
	return splitNonEmpty(reply), nil
}

// SendMessage feeds the modem length octets of PDU hex via the AT+CMGS
// prompt-mode interaction and returns the assigned TP-MR, or one of
// SendFailure/SendLinkFatal on error.
func (b *Base) SendMessage(pduLengthOctets int, pduHex string) (int, error) {
	part1 := fmt.Sprintf("AT+CMGS=%d", pduLengthOctets)
	reply, err := b.t.InteractiveCommand(part1, pduHex, '>')
	if err != nil {
		if atresp.IsError(reply) {
			return SendFailure, err
		}
		return SendLinkFatal, err
	}
	for _, line := range splitNonEmpty(reply) {
		if strings.HasPrefix(line, "+CMGS:") {
			n, convErr := strconv.Atoi(strings.TrimSpace(afterColon(line)))
			if convErr != nil {
				return SendFailure, convErr
			}
			return n, nil
		}
	}
	return SendFailure, nil
}

// DeleteMessage removes the message at index from location (ignored by
// most modems, which address a single currently-selected storage).
func (b *Base) DeleteMessage(index int, location string) error {
	_, err := b.t.Command(fmt.Sprintf("AT+CMGD=%d", index))
	return err
}

// GetManufacturer sends AT+CGMI.
func (b *Base) GetManufacturer() (string, error) {
	reply, err := b.t.Command("AT+CGMI")
	if err != nil {
		return atresp.NASentinel, err
	}
	return atresp.ParseManufacturer(reply), nil
}

// GetModel sends AT+CGMM.
func (b *Base) GetModel() (string, error) {
	reply, err := b.t.Command("AT+CGMM")
	if err != nil {
		return atresp.NASentinel, err
	}
	return atresp.ParseModel(reply), nil
}

// GetSerial sends AT+CGSN (the IMEI on GSM modems).
func (b *Base) GetSerial() (string, error) {
	reply, err := b.t.Command("AT+CGSN")
	if err != nil {
		return atresp.NASentinel, err
	}
	return atresp.ParseSerial(reply), nil
}

// GetIMSI sends AT+CIMI.
func (b *Base) GetIMSI() (string, error) {
	reply, err := b.t.Command("AT+CIMI")
	if err != nil {
		return atresp.NASentinel, err
	}
	return atresp.ParseIMSI(reply), nil
}

// GetSWVersion sends AT+CGMR.
func (b *Base) GetSWVersion() (string, error) {
	reply, err := b.t.Command("AT+CGMR")
	if err != nil {
		return atresp.NASentinel, err
	}
	return atresp.ParseSWVersion(reply), nil
}

// GetSignalQuality sends AT+CSQ and rescales RSSI to a 0-100 range.
func (b *Base) GetSignalQuality() (int, error) {
	reply, err := b.t.Command("AT+CSQ")
	if err != nil {
		return 0, err
	}
	return atresp.ParseSignal(reply), nil
}

// GetBatteryLevel sends AT+CBC.
func (b *Base) GetBatteryLevel() (int, error) {
	reply, err := b.t.Command("AT+CBC")
	if err != nil {
		return 0, err
	}
	return atresp.ParseBattery(reply), nil
}

// GetPINResponse sends AT+CPIN? and returns the raw SIM lock token
// ("READY", "SIM PIN", "SIM PIN2", "SIM PUK", ...).
func (b *Base) GetPINResponse() (string, error) {
	reply, err := b.t.Command("AT+CPIN?")
	if err != nil {
		return atresp.NASentinel, err
	}
	return atresp.ParsePINStatus(reply), nil
}

// IsWaitingForPIN reports whether the SIM is blocked on its primary PIN.
func (b *Base) IsWaitingForPIN() (bool, error) {
	status, err := b.GetPINResponse()
	if err != nil {
		return false, err
	}
	return status == "SIM PIN", nil
}

// IsWaitingForPIN2 reports whether the SIM is blocked on its secondary PIN.
func (b *Base) IsWaitingForPIN2() (bool, error) {
	status, err := b.GetPINResponse()
	if err != nil {
		return false, err
	}
	return status == "SIM PIN2", nil
}

// IsWaitingForPUK reports whether the SIM is blocked on a PUK unlock.
func (b *Base) IsWaitingForPUK() (bool, error) {
	status, err := b.GetPINResponse()
	if err != nil {
		return false, err
	}
	return status == "SIM PUK" || status == "SIM PUK2", nil
}

// EnterPIN submits pin (or PUK followed by a new PIN, space-separated by
// the caller) via AT+CPIN.
func (b *Base) EnterPIN(pin string) error {
	_, err := b.t.Command(fmt.Sprintf(`AT+CPIN="%s"`, pin))
	return err
}

// SetPDUMode switches message handling to PDU mode (AT+CMGF=0). Session
// only ever uses PDU mode and never calls SetTextMode.
func (b *Base) SetPDUMode() error {
	_, err := b.t.Command("AT+CMGF=0")
	return err
}

// SetTextMode switches message handling to TEXT mode (AT+CMGF=1).
func (b *Base) SetTextMode() error {
	_, err := b.t.Command("AT+CMGF=1")
	return err
}

// EchoOff disables command echo (ATE0).
func (b *Base) EchoOff() error {
	_, err := b.t.Command("ATE0")
	return err
}

// SetVerboseErrors turns on textual CME/CMS error reporting (AT+CMEE=1).
func (b *Base) SetVerboseErrors() error {
	_, err := b.t.Command("AT+CMEE=1")
	return err
}

// GetNetworkRegistration sends AT+CREG? and classifies the result.
func (b *Base) GetNetworkRegistration() (RegistrationState, error) {
	reply, err := b.t.Command("AT+CREG?")
	if err != nil {
		return RegistrationUnknown, err
	}
	return RegistrationState(atresp.ParseRegistration(reply)), nil
}

// SupportsReceive reports that Base can read incoming SMS.
func (b *Base) SupportsReceive() bool { return true }

// SupportsBinary reports that Base can send/receive 8-bit binary payloads.
func (b *Base) SupportsBinary() bool { return true }

// SupportsUCS2 reports that Base can send/receive UCS-2 text.
func (b *Base) SupportsUCS2() bool { return true }

// SupportsSTK reports that Base has no SIM Toolkit support.
func (b *Base) SupportsSTK() bool { return false }

func splitNonEmpty(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func afterColon(s string) string {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return strings.TrimSpace(s)
}
