package tpdu

import "time"

// DeliveryStatus is the coarse outcome carried by a STATUS-REPORT PDU's
// TP-Status octet (3GPP TS 23.040 §9.2.3.15).
type DeliveryStatus byte

// Delivery status classes. The underlying TP-ST octet has finer-grained
// values; these are the three buckets spec.md §4.6 distinguishes.
const (
	DeliveryUnknown DeliveryStatus = iota
	DeliveryDelivered
	DeliveryKeepTrying
	DeliveryAborted
)

// ClassifyStatus maps a raw TP-Status octet to a DeliveryStatus bucket by
// inspecting bits 5-6: 0=Delivered, 1=KeepTrying, 2 and 3=Aborted.
func ClassifyStatus(st byte) DeliveryStatus {
	switch (st >> 5) & 0x3 {
	case 0:
		return DeliveryDelivered
	case 1:
		return DeliveryKeepTrying
	default:
		return DeliveryAborted
	}
}

// OutgoingMessage is a message queued for submission to the network, as
// described in spec.md §3. Encoding selects how EncodeSubmit packs the
// payload (Text for GSM 7-bit and UCS-2, Binary for 8-bit); its zero
// value is EncodingGSM7. EncodeSubmit does not switch encodings on its
// own: text outside the GSM 7-bit alphabet fails with
// pdu.ErrNotGSM7Encodable unless Encoding is EncodingUCS2.
type OutgoingMessage struct {
	Recipient            Address
	SMSC                 *Address
	Text                 string
	Binary               []byte
	Encoding             Encoding
	SourcePort, DestPort uint16
	RequestStatusReport  bool
	ValidityPeriodHours  int
	ProtocolID           byte
	ConcatRef            uint16

	// Fields mutated by a successful send.
	AssignedRef       int32
	DispatchTimestamp *time.Time
}

// IncomingMessage is a received (and, for multipart text, fully
// reassembled) message as described in spec.md §3.
type IncomingMessage struct {
	MemIndex     int32 // -1 when this is a reassembled virtual message
	MemLocation  string
	Originator   Address
	SMSC         Address
	Timestamp    Timestamp
	Encoding     Encoding
	Text         string
	Binary       []byte
	Concat       *ConcatInfo
	MPMemIndices []int32
}

// StatusReportMessage is a received STATUS-REPORT PDU, correlating a
// prior SUBMIT's TP-MR to its delivery outcome.
type StatusReportMessage struct {
	IncomingMessage
	RefNo          byte
	Recipient      Address
	DateSubmitted  Timestamp
	DateDischarged Timestamp
	DeliveryStatus DeliveryStatus
}
