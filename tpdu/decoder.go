package tpdu

import (
	"bytes"

	"github.com/modemkit/gosms/pdu"
)

// Decode dispatches a received hex PDU to DecodeDeliver or
// DecodeStatusReport based on its TP-MTI bits, per spec.md §4.5:
// 0 and 3 are treated as DELIVER, 2 is STATUS-REPORT, and 1
// (SUBMIT-REPORT) is rejected.
//
// The returned value is either an *IncomingMessage or a
// *StatusReportMessage.
func Decode(hexPDU string) (interface{}, error) {
	octets, err := pdu.DecodeHex(hexPDU)
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(octets)
	if _, err := DecodeSMSCAddress(r); err != nil {
		return nil, err
	}
	byteZero, err := r.ReadByte()
	if err != nil {
		return nil, ErrShortPDU
	}

	switch byteZero & 0x03 {
	case mtiStatusReport:
		msg, err := DecodeStatusReport(hexPDU)
		if err != nil {
			return nil, err
		}
		return &msg, nil
	case mtiSubmitReport:
		return nil, ErrSubmitReportUnhandled
	default: // 0 (DELIVER) and 3 (reserved, treated as DELIVER)
		msg, err := DecodeDeliver(hexPDU)
		if err != nil {
			return nil, err
		}
		return &msg, nil
	}
}
