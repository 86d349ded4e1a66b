package tpdu

import (
	"bytes"
	"errors"
)

// Information-element identifiers used by the User-Data-Headers this
// package understands (3GPP TS 23.040 §9.2.3.24).
const (
	ieiConcat8        = 0x00
	ieiPortAddressing = 0x05
	ieiConcat16       = 0x08
)

// ErrShortUDH is returned when a UDH's declared length runs past the end
// of the available octets.
var ErrShortUDH = errors.New("tpdu: user-data-header field truncated")

// ConcatInfo describes the concatenated-short-message information
// element of a multipart SMS (3GPP TS 23.040 §9.2.3.24.1).
type ConcatInfo struct {
	Ref        int // 8-bit or 16-bit reference shared by all parts
	SeqNum     int // 1-based part number
	TotalParts int
	Ref16      bool // true if Ref is a 16-bit reference (IEI 0x08)
}

// PortAddressing is the Application-Port-Addressing information element
// (16-bit ports), used to route a binary SMS to a specific application.
type PortAddressing struct {
	DestPort, OrigPort uint16
}

// UDH is the decoded content of a User-Data-Header.
type UDH struct {
	Concat *ConcatInfo
	Ports  *PortAddressing
}

// Size returns the number of octets UDH.Encode would produce, including
// the leading UDHL byte. It is used to compute GSM-7 skip-bits and
// available user-data capacity before the header is built.
func (u UDH) Size() int {
	if u.Concat == nil && u.Ports == nil {
		return 0
	}
	n := 1 // UDHL
	if u.Concat != nil {
		if u.Concat.Ref16 {
			n += 2 + 4
		} else {
			n += 2 + 3
		}
	}
	if u.Ports != nil {
		n += 2 + 4
	}
	return n
}

// Encode serializes the UDH, including its leading UDHL byte. An empty
// UDH encodes to nil.
func (u UDH) Encode() []byte {
	if u.Concat == nil && u.Ports == nil {
		return nil
	}
	var body bytes.Buffer
	if u.Ports != nil {
		body.WriteByte(ieiPortAddressing)
		body.WriteByte(4)
		body.WriteByte(byte(u.Ports.DestPort >> 8))
		body.WriteByte(byte(u.Ports.DestPort))
		body.WriteByte(byte(u.Ports.OrigPort >> 8))
		body.WriteByte(byte(u.Ports.OrigPort))
	}
	if u.Concat != nil {
		if u.Concat.Ref16 {
			body.WriteByte(ieiConcat16)
			body.WriteByte(4)
			body.WriteByte(byte(u.Concat.Ref >> 8))
			body.WriteByte(byte(u.Concat.Ref))
		} else {
			body.WriteByte(ieiConcat8)
			body.WriteByte(3)
			body.WriteByte(byte(u.Concat.Ref))
		}
		body.WriteByte(byte(u.Concat.TotalParts))
		body.WriteByte(byte(u.Concat.SeqNum))
	}

	var out bytes.Buffer
	out.WriteByte(byte(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

// DecodeUDH reads a UDH from r, which must be positioned at the UDHL
// byte. Unrecognized information elements are skipped.
func DecodeUDH(r *bytes.Reader) (UDH, int, error) {
	udhl, err := r.ReadByte()
	if err != nil {
		return UDH{}, 0, ErrShortUDH
	}
	total := 1 + int(udhl)

	var u UDH
	remaining := int(udhl)
	for remaining > 0 {
		iei, err := r.ReadByte()
		if err != nil {
			return UDH{}, 0, ErrShortUDH
		}
		ieLen, err := r.ReadByte()
		if err != nil {
			return UDH{}, 0, ErrShortUDH
		}
		remaining -= 2
		data := make([]byte, ieLen)
		if n, _ := r.Read(data); n != int(ieLen) {
			return UDH{}, 0, ErrShortUDH
		}
		remaining -= int(ieLen)

		switch iei {
		case ieiConcat8:
			if len(data) >= 3 {
				u.Concat = &ConcatInfo{
					Ref:        int(data[0]),
					TotalParts: int(data[1]),
					SeqNum:     int(data[2]),
				}
			}
		case ieiConcat16:
			if len(data) >= 4 {
				u.Concat = &ConcatInfo{
					Ref:        int(data[0])<<8 | int(data[1]),
					TotalParts: int(data[2]),
					SeqNum:     int(data[3]),
					Ref16:      true,
				}
			}
		case ieiPortAddressing:
			if len(data) >= 4 {
				u.Ports = &PortAddressing{
					DestPort: uint16(data[0])<<8 | uint16(data[1]),
					OrigPort: uint16(data[2])<<8 | uint16(data[3]),
				}
			}
		}
	}
	return u, total, nil
}
