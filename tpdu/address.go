package tpdu

import (
	"bytes"
	"errors"
	"strings"

	"github.com/modemkit/gosms/pdu"
)

// Common errors returned while encoding or decoding addresses.
var (
	ErrAddressTooLong  = errors.New("tpdu: address longer than 20 digits")
	ErrShortAddress    = errors.New("tpdu: address field truncated")
	ErrShortSMSC       = errors.New("tpdu: SMSC address field truncated")
	ErrUnsupportedType = errors.New("tpdu: unsupported type-of-number")
)

// maxAddressDigits is the cap spec.md §4.2 places on address length.
const maxAddressDigits = 20

// TypeOfNumber is the Type-of-Number sub-field of a Type-of-Address octet
// (3GPP TS 23.040 §9.1.2.5).
type TypeOfNumber byte

// Known TypeOfNumber values.
const (
	TONUnknown         TypeOfNumber = 0x00
	TONInternational   TypeOfNumber = 0x10
	TONNational        TypeOfNumber = 0x20
	TONNetworkSpecific TypeOfNumber = 0x30
	TONSubscriber      TypeOfNumber = 0x40
	TONAlphanumeric    TypeOfNumber = 0x50
	TONAbbreviated     TypeOfNumber = 0x60
)

// NumberingPlan is the Numbering-Plan-Identification sub-field of a
// Type-of-Address octet.
type NumberingPlan byte

// Known NumberingPlan values.
const (
	NPIUnknown NumberingPlan = 0x00
	NPIISDN    NumberingPlan = 0x01
	NPIData    NumberingPlan = 0x03
	NPITelex   NumberingPlan = 0x04
	NPINational NumberingPlan = 0x08
	NPIPrivate NumberingPlan = 0x09
)

// Address is an SMSC or peer address, as described in spec.md §3: digits
// plus the type-of-number/numbering-plan pair. A leading '+' on input is
// stripped and recorded as TONInternational.
type Address struct {
	Digits string
	TON    TypeOfNumber
	NPI    NumberingPlan
}

// NewAddress builds an Address from a phone number, recognizing a leading
// '+' as international.
func NewAddress(number string) Address {
	ton := TONNational
	digits := number
	if strings.HasPrefix(number, "+") {
		ton = TONInternational
		digits = number[1:]
	}
	return Address{Digits: digits, TON: ton, NPI: NPIISDN}
}

// String renders the address the way it was likely entered: '+' prefixed
// when international.
func (a Address) String() string {
	if a.TON == TONInternational {
		return "+" + a.Digits
	}
	return a.Digits
}

func (a Address) toaByte() byte {
	return 0x80 | byte(a.TON) | byte(a.NPI)
}

// Encode serializes a peer (non-SMSC) address as
// [length_byte][toa_byte][semi_octets...], where length_byte counts useful
// semi-octet digits (excluding any fill nibble).
func (a Address) Encode() ([]byte, error) {
	digits := a.Digits
	if len(digits) > maxAddressDigits {
		return nil, ErrAddressTooLong
	}
	semi, err := pdu.EncodeSemiOctets(digits)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteByte(byte(len(digits)))
	buf.WriteByte(a.toaByte())
	buf.Write(semi)
	return buf.Bytes(), nil
}

// EncodeSMSC serializes an SMSC address as
// [length_byte][toa_byte][semi_octets...], where length_byte counts
// octets following it (1 + ceil(len/2)). An empty SMSC address encodes
// to a single zero byte.
func (a Address) EncodeSMSC() ([]byte, error) {
	if a.Digits == "" {
		return []byte{0x00}, nil
	}
	if len(a.Digits) > maxAddressDigits {
		return nil, ErrAddressTooLong
	}
	semi, err := pdu.EncodeSemiOctets(a.Digits)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteByte(byte(1 + len(semi)))
	buf.WriteByte(a.toaByte())
	buf.Write(semi)
	return buf.Bytes(), nil
}

// DecodeAddress reads a peer (non-SMSC) address from r. A zero length byte
// decodes to an empty Address.
func DecodeAddress(r *bytes.Reader) (Address, error) {
	return decodeAddress(r, false)
}

// DecodeSMSCAddress reads an SMSC address from r, where the length byte
// counts octets following it rather than useful semi-octet digits.
func DecodeSMSCAddress(r *bytes.Reader) (Address, error) {
	return decodeAddress(r, true)
}

func decodeAddress(r *bytes.Reader, isSMSC bool) (Address, error) {
	length, err := r.ReadByte()
	if err != nil {
		return Address{}, errShort(isSMSC)
	}
	if length == 0 {
		return Address{}, nil
	}

	var semiDigitCount int
	if isSMSC {
		semiDigitCount = (int(length) - 1) * 2
	} else {
		semiDigitCount = int(length)
	}
	octetCount := (semiDigitCount + 1) / 2

	toa, err := r.ReadByte()
	if err != nil {
		return Address{}, errShort(isSMSC)
	}
	ton := TypeOfNumber(toa & 0x70)
	npi := NumberingPlan(toa & 0x0F)

	raw := make([]byte, octetCount)
	if n, _ := r.Read(raw); n != octetCount {
		return Address{}, errShort(isSMSC)
	}

	switch ton {
	case TONAlphanumeric:
		septetCount := semiDigitCount * 4 / 7
		text := pdu.Decode7Bit(raw, septetCount)
		return Address{Digits: text, TON: ton, NPI: npi}, nil
	case TONUnknown, TONInternational, TONNational, TONNetworkSpecific,
		TONSubscriber, TONAbbreviated:
		digits := pdu.DecodeSemiOctets(raw, isSMSC)
		return Address{Digits: digits, TON: ton, NPI: npi}, nil
	default:
		return Address{}, ErrUnsupportedType
	}
}

func errShort(isSMSC bool) error {
	if isSMSC {
		return ErrShortSMSC
	}
	return ErrShortAddress
}
