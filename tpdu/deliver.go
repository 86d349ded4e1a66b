package tpdu

import (
	"bytes"
	"errors"

	"github.com/modemkit/gosms/pdu"
)

// TP-MTI values in the low 2 bits of byte-zero of a received PDU.
const (
	mtiDeliver      = 0x00
	mtiSubmitReport = 0x01
	mtiStatusReport = 0x02
)

// ErrSubmitReportUnhandled is returned for PDUs whose TP-MTI is 1
// (SUBMIT-REPORT), which this library never receives from a network.
var ErrSubmitReportUnhandled = errors.New("tpdu: SUBMIT-REPORT PDUs are not handled")

// ErrShortPDU is returned when a PDU ends before a required field.
var ErrShortPDU = errors.New("tpdu: PDU truncated")

// DecodeDeliver parses a DELIVER PDU (3GPP TS 23.040 §9.2.2.1) from its
// hex representation.
func DecodeDeliver(hexPDU string) (IncomingMessage, error) {
	octets, err := pdu.DecodeHex(hexPDU)
	if err != nil {
		return IncomingMessage{}, err
	}
	r := bytes.NewReader(octets)

	smsc, err := DecodeSMSCAddress(r)
	if err != nil {
		return IncomingMessage{}, err
	}

	byteZero, err := r.ReadByte()
	if err != nil {
		return IncomingMessage{}, ErrShortPDU
	}
	mti := byteZero & 0x03
	if mti == mtiSubmitReport {
		return IncomingMessage{}, ErrSubmitReportUnhandled
	}
	udhi := byteZero&0x40 != 0

	originator, err := DecodeAddress(r)
	if err != nil {
		return IncomingMessage{}, err
	}

	pid, err := r.ReadByte()
	if err != nil {
		return IncomingMessage{}, ErrShortPDU
	}
	_ = pid

	dcs, err := r.ReadByte()
	if err != nil {
		return IncomingMessage{}, ErrShortPDU
	}
	enc := DecodeEncoding(dcs)

	ts, err := DecodeTimestamp(r)
	if err != nil {
		return IncomingMessage{}, err
	}

	udl, err := r.ReadByte()
	if err != nil {
		return IncomingMessage{}, ErrShortPDU
	}

	var udh UDH
	udhOctets := 0
	if udhi {
		var err error
		udh, udhOctets, err = DecodeUDH(r)
		if err != nil {
			return IncomingMessage{}, err
		}
	}

	remaining := r.Len()
	raw := make([]byte, remaining)
	if _, err := r.Read(raw); err != nil && remaining > 0 {
		return IncomingMessage{}, ErrShortPDU
	}

	msg := IncomingMessage{
		MemIndex:   -1,
		Originator: originator,
		SMSC:       smsc,
		Timestamp:  ts,
		Encoding:   enc,
		Concat:     udh.Concat,
	}

	switch enc {
	case EncodingUCS2:
		text, err := pdu.DecodeUCS2(raw)
		if err != nil {
			return IncomingMessage{}, err
		}
		msg.Text = text
	case EncodingBinary:
		msg.Binary = raw
	default:
		skip := 0
		if udhi {
			skip = pdu.SkipBitsAfterUDH(udhOctets)
		}
		septetCount := int(udl) - udh7BitUnits(udhOctets, udhi)
		msg.Text = pdu.Decode7BitWithSkip(raw, skip, septetCount)
	}

	return msg, nil
}

// udh7BitUnits returns the number of UDL septet-equivalent units the UDH
// itself consumes, for subtracting from TP-UDL to get the text septet count.
func udh7BitUnits(udhOctets int, udhi bool) int {
	if !udhi {
		return 0
	}
	return (udhOctets*8 + 6) / 7
}
