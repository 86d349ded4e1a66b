package tpdu

import (
	"bytes"

	"github.com/modemkit/gosms/pdu"
)

// DecodeStatusReport parses a STATUS-REPORT PDU (3GPP TS 23.040 §9.2.2.3)
// from its hex representation.
func DecodeStatusReport(hexPDU string) (StatusReportMessage, error) {
	octets, err := pdu.DecodeHex(hexPDU)
	if err != nil {
		return StatusReportMessage{}, err
	}
	r := bytes.NewReader(octets)

	smsc, err := DecodeSMSCAddress(r)
	if err != nil {
		return StatusReportMessage{}, err
	}

	byteZero, err := r.ReadByte()
	if err != nil {
		return StatusReportMessage{}, ErrShortPDU
	}
	mti := byteZero & 0x03
	if mti == mtiSubmitReport {
		return StatusReportMessage{}, ErrSubmitReportUnhandled
	}

	mr, err := r.ReadByte()
	if err != nil {
		return StatusReportMessage{}, ErrShortPDU
	}

	recipient, err := DecodeAddress(r)
	if err != nil {
		return StatusReportMessage{}, err
	}

	submitted, err := DecodeTimestamp(r)
	if err != nil {
		return StatusReportMessage{}, err
	}
	discharged, err := DecodeTimestamp(r)
	if err != nil {
		return StatusReportMessage{}, err
	}

	status, err := r.ReadByte()
	if err != nil {
		return StatusReportMessage{}, ErrShortPDU
	}

	return StatusReportMessage{
		IncomingMessage: IncomingMessage{
			MemIndex: -1,
			SMSC:     smsc,
			Timestamp: discharged,
		},
		RefNo:          mr,
		Recipient:      recipient,
		DateSubmitted:  submitted,
		DateDischarged: discharged,
		DeliveryStatus: ClassifyStatus(status),
	}, nil
}
