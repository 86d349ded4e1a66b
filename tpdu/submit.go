package tpdu

import (
	"bytes"
	"errors"

	"github.com/modemkit/gosms/pdu"
)

// MaxUDOctets is the largest TP-UD field this package will ever emit in a
// single SUBMIT PDU (3GPP TS 23.040 §9.2.3.16 via the 140-octet short
// message transfer layer).
const MaxUDOctets = 140

// maxUDBits is MaxUDOctets expressed in bits, the budget GSM-7 septet
// packing is measured against.
const maxUDBits = MaxUDOctets * 8

// ErrUnsupportedEncoding is returned when an OutgoingMessage requests an
// Encoding this package does not know how to pack.
var ErrUnsupportedEncoding = errors.New("tpdu: unsupported encoding")

// byteZeroSubmit builds the first TPDU octet for a SUBMIT PDU.
func byteZeroSubmit(udh bool, statusReport bool) byte {
	b := byte(0x01) | byte(VPFRelative)<<3 // MTI=SUBMIT, VPF=relative at bits 3-4
	if udh {
		b |= 0x40
	}
	if statusReport {
		b |= 0x20
	}
	return b
}

// EncodeSubmit builds one or more SUBMIT PDUs for msg, fragmenting the
// payload per spec.md §4.4 when it does not fit in a single 140-octet
// TP-UD field. Each returned slice is a complete PDU including its SMSC
// address prefix.
func EncodeSubmit(msg OutgoingMessage) ([][]byte, error) {
	usePorts := msg.SourcePort != 0 || msg.DestPort != 0
	var ports *PortAddressing
	if usePorts {
		ports = &PortAddressing{DestPort: msg.DestPort, OrigPort: msg.SourcePort}
	}

	switch msg.Encoding {
	case EncodingBinary:
		return encodeSubmitBinary(msg, ports)
	case EncodingUCS2:
		return encodeSubmitUCS2(msg, ports)
	default:
		return encodeSubmitGSM7(msg, ports)
	}
}

func encodeSubmitGSM7(msg OutgoingMessage, ports *PortAddressing) ([][]byte, error) {
	if !pdu.Is7BitEncodable(msg.Text) {
		return nil, pdu.ErrNotGSM7Encodable
	}
	septetRunes := []rune(msg.Text)
	total := len(septetRunes)

	singleUDH := UDH{Ports: ports}
	singleBudget := capacitySeptets(singleUDH.Size())
	if total <= singleBudget {
		body, err := encodeGSM7Part(msg.Text, singleUDH)
		if err != nil {
			return nil, err
		}
		pdus, err := assemblePDU(msg, singleUDH.Encode() != nil, body)
		if err != nil {
			return nil, err
		}
		return [][]byte{pdus}, nil
	}

	multiUDH := UDH{Ports: ports, Concat: &ConcatInfo{Ref: int(msg.ConcatRef), TotalParts: 1, SeqNum: 1}}
	perPart := capacitySeptets(multiUDH.Size())
	if perPart <= 0 {
		return nil, errors.New("tpdu: message too long to fragment")
	}
	numParts := (total + perPart - 1) / perPart

	out := make([][]byte, 0, numParts)
	for i := 0; i < numParts; i++ {
		lo := i * perPart
		hi := lo + perPart
		if hi > total {
			hi = total
		}
		part := string(septetRunes[lo:hi])
		udh := UDH{Ports: ports, Concat: &ConcatInfo{
			Ref: int(msg.ConcatRef), TotalParts: numParts, SeqNum: i + 1,
		}}
		body, err := encodeGSM7Part(part, udh)
		if err != nil {
			return nil, err
		}
		pduBytes, err := assemblePDU(msg, true, body)
		if err != nil {
			return nil, err
		}
		out = append(out, pduBytes)
	}
	return out, nil
}

// encodeGSM7Part packs one UDH + septet fragment into a TP-UDL/UD pair.
func encodeGSM7Part(text string, udh UDH) ([]byte, error) {
	udhOctets := udh.Size()
	skip := pdu.SkipBitsAfterUDH(udhOctets)
	septets, err := pdu.Encode7BitWithSkip(text, skip)
	if err != nil {
		return nil, err
	}

	udl := (udhOctets*8 + len([]rune(text))*7 + skip + 6) / 7

	var buf bytes.Buffer
	buf.WriteByte(byte(udl))
	buf.Write(udh.Encode())
	buf.Write(septets)
	return buf.Bytes(), nil
}

func capacitySeptets(udhOctets int) int {
	skip := pdu.SkipBitsAfterUDH(udhOctets)
	avail := maxUDBits - udhOctets*8 - skip
	if avail <= 0 {
		return 0
	}
	return avail / 7
}

func encodeSubmitBinary(msg OutgoingMessage, ports *PortAddressing) ([][]byte, error) {
	singleUDH := UDH{Ports: ports}
	singleBudget := MaxUDOctets - singleUDH.Size()
	if len(msg.Binary) <= singleBudget {
		body := assembleUD(singleUDH, msg.Binary)
		pdus, err := assemblePDU(msg, singleUDH.Encode() != nil, body)
		if err != nil {
			return nil, err
		}
		return [][]byte{pdus}, nil
	}

	multiUDH := UDH{Ports: ports, Concat: &ConcatInfo{Ref: int(msg.ConcatRef), TotalParts: 1, SeqNum: 1}}
	perPart := MaxUDOctets - multiUDH.Size()
	if perPart <= 0 {
		return nil, errors.New("tpdu: message too long to fragment")
	}
	numParts := (len(msg.Binary) + perPart - 1) / perPart

	out := make([][]byte, 0, numParts)
	for i := 0; i < numParts; i++ {
		lo := i * perPart
		hi := lo + perPart
		if hi > len(msg.Binary) {
			hi = len(msg.Binary)
		}
		udh := UDH{Ports: ports, Concat: &ConcatInfo{
			Ref: int(msg.ConcatRef), TotalParts: numParts, SeqNum: i + 1,
		}}
		body := assembleUD(udh, msg.Binary[lo:hi])
		pduBytes, err := assemblePDU(msg, true, body)
		if err != nil {
			return nil, err
		}
		out = append(out, pduBytes)
	}
	return out, nil
}

func encodeSubmitUCS2(msg OutgoingMessage, ports *PortAddressing) ([][]byte, error) {
	full := pdu.EncodeUCS2(msg.Text)

	singleUDH := UDH{Ports: ports}
	singleBudget := MaxUDOctets - singleUDH.Size()
	if len(full) <= singleBudget {
		body := assembleUD(singleUDH, full)
		pdus, err := assemblePDU(msg, singleUDH.Encode() != nil, body)
		if err != nil {
			return nil, err
		}
		return [][]byte{pdus}, nil
	}

	multiUDH := UDH{Ports: ports, Concat: &ConcatInfo{Ref: int(msg.ConcatRef), TotalParts: 1, SeqNum: 1}}
	perPartChars := (MaxUDOctets - multiUDH.Size()) / 2
	if perPartChars <= 0 {
		return nil, errors.New("tpdu: message too long to fragment")
	}
	perPartBytes := perPartChars * 2
	numParts := (len(full) + perPartBytes - 1) / perPartBytes

	out := make([][]byte, 0, numParts)
	for i := 0; i < numParts; i++ {
		lo := i * perPartBytes
		hi := lo + perPartBytes
		if hi > len(full) {
			hi = len(full)
		}
		udh := UDH{Ports: ports, Concat: &ConcatInfo{
			Ref: int(msg.ConcatRef), TotalParts: numParts, SeqNum: i + 1,
		}}
		body := assembleUD(udh, full[lo:hi])
		pduBytes, err := assemblePDU(msg, true, body)
		if err != nil {
			return nil, err
		}
		out = append(out, pduBytes)
	}
	return out, nil
}

// assembleUD builds a [TP-UDL][UDH][data] field for binary/UCS-2 bodies,
// where TP-UDL counts octets.
func assembleUD(udh UDH, data []byte) []byte {
	udhBytes := udh.Encode()
	var buf bytes.Buffer
	buf.WriteByte(byte(len(udhBytes) + len(data)))
	buf.Write(udhBytes)
	buf.Write(data)
	return buf.Bytes()
}

// assemblePDU prepends the SMSC, byte-zero, TP-MR, destination address,
// TP-PID, TP-DCS and TP-VP fields ahead of a prebuilt TP-UDL/UDH/UD body.
func assemblePDU(msg OutgoingMessage, hasUDH bool, udBody []byte) ([]byte, error) {
	var smsc Address
	if msg.SMSC != nil {
		smsc = *msg.SMSC
	}
	smscBytes, err := smsc.EncodeSMSC()
	if err != nil {
		return nil, err
	}
	destBytes, err := msg.Recipient.Encode()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(smscBytes)
	buf.WriteByte(byteZeroSubmit(hasUDH, msg.RequestStatusReport))
	buf.WriteByte(0x00) // TP-MR, always 0 on submit
	buf.Write(destBytes)
	buf.WriteByte(msg.ProtocolID)
	buf.WriteByte(DCS(msg.Encoding))
	buf.WriteByte(RelativeVP(msg.ValidityPeriodHours))
	buf.Write(udBody)
	return buf.Bytes(), nil
}
