package tpdu

import (
	"bytes"
	"errors"
	"time"

	"github.com/modemkit/gosms/pdu"
)

// ErrShortTimestamp is returned when fewer than 7 octets remain for a
// TP-SCTS or TP-DT field.
var ErrShortTimestamp = errors.New("tpdu: timestamp field truncated")

// Timestamp is a service-centre time stamp (TP-SCTS) or discharge time
// (TP-DT): a local wall-clock time plus its offset from UTC in minutes,
// per 3GPP TS 23.040 §9.2.3.11.
type Timestamp struct {
	Year, Month, Day    int
	Hour, Minute, Second int
	OffsetMinutes       int
}

// Time renders the Timestamp as a time.Time in a fixed zone carrying the
// encoded UTC offset.
func (ts Timestamp) Time() time.Time {
	loc := time.FixedZone("", ts.OffsetMinutes*60)
	year := ts.Year
	if year < 100 {
		year += 2000
	}
	return time.Date(year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute, ts.Second, 0, loc)
}

// NewTimestamp builds a Timestamp from a time.Time, preserving its zone
// offset in whole minutes. Encode truncates that offset toward zero to
// whole quarter-hours.
func NewTimestamp(t time.Time) Timestamp {
	_, offsetSec := t.Zone()
	return Timestamp{
		Year:          t.Year() % 100,
		Month:         int(t.Month()),
		Day:           t.Day(),
		Hour:          t.Hour(),
		Minute:        t.Minute(),
		Second:        t.Second(),
		OffsetMinutes: offsetSec / 60,
	}
}

// Encode serializes the Timestamp to its 7-octet BCD wire form. The
// timezone octet's top bit is the offset sign; the remaining 7 bits are
// the offset magnitude in quarter-hours, not BCD-swapped like the other
// six octets.
func (ts Timestamp) Encode() []byte {
	buf := make([]byte, 7)
	buf[0] = pdu.EncodeBCDDigitPair(ts.Year % 100)
	buf[1] = pdu.EncodeBCDDigitPair(ts.Month)
	buf[2] = pdu.EncodeBCDDigitPair(ts.Day)
	buf[3] = pdu.EncodeBCDDigitPair(ts.Hour)
	buf[4] = pdu.EncodeBCDDigitPair(ts.Minute)
	buf[5] = pdu.EncodeBCDDigitPair(ts.Second)

	quarters := ts.OffsetMinutes / 15
	sign := byte(0)
	if quarters < 0 {
		sign = 0x80
		quarters = -quarters
	}
	buf[6] = sign | byte(quarters)
	return buf
}

// DecodeTimestamp reads a 7-octet TP-SCTS/TP-DT field from r.
func DecodeTimestamp(r *bytes.Reader) (Timestamp, error) {
	raw := make([]byte, 7)
	if n, _ := r.Read(raw); n != 7 {
		return Timestamp{}, ErrShortTimestamp
	}

	quarters := int(raw[6] &^ 0x80)
	offset := quarters * 15
	if raw[6]&0x80 != 0 {
		offset = -offset
	}

	return Timestamp{
		Year:          pdu.DecodeBCDDigitPair(raw[0]),
		Month:         pdu.DecodeBCDDigitPair(raw[1]),
		Day:           pdu.DecodeBCDDigitPair(raw[2]),
		Hour:          pdu.DecodeBCDDigitPair(raw[3]),
		Minute:        pdu.DecodeBCDDigitPair(raw[4]),
		Second:        pdu.DecodeBCDDigitPair(raw[5]),
		OffsetMinutes: offset,
	}, nil
}
