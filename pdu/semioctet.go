package pdu

import (
	"errors"
	"strings"
)

// ErrBadSemiOctetDigit is returned when a character outside the semi-octet
// digit table is encountered while encoding.
var ErrBadSemiOctetDigit = errors.New("pdu: character not representable as a semi-octet digit")

// semiOctetDigits is the digit table used by BCD/semi-octet packing, as
// specified in 3GPP TS 23.038. Index 15 (0xF) is the fill/space value.
const semiOctetDigits = "0123456789*#abc "

// EncodeSemiOctets packs a digit string into semi-octets, low nibble first
// (the first digit occupies the low nibble of the first octet). An odd
// number of digits is padded with a 0xF fill nibble in the final high
// nibble.
func EncodeSemiOctets(digits string) ([]byte, error) {
	n := len(digits)
	out := make([]byte, 0, (n+1)/2)
	for i := 0; i < n; i += 2 {
		lo, err := semiOctetIndex(digits[i])
		if err != nil {
			return nil, err
		}
		hi := byte(0x0F)
		if i+1 < n {
			hi, err = semiOctetIndex(digits[i+1])
			if err != nil {
				return nil, err
			}
		}
		out = append(out, hi<<4|lo)
	}
	return out, nil
}

// DecodeSemiOctets unpacks semi-octets into a digit string. When keepFill is
// false (the normal case for addresses) a trailing 0xF fill nibble is
// dropped; when true (decoding an SMSC number, where the length field
// counts fill semi-octets) the corresponding space character is retained.
func DecodeSemiOctets(octets []byte, keepFill bool) string {
	var b strings.Builder
	b.Grow(len(octets) * 2)
	for _, oct := range octets {
		lo := oct & 0x0F
		hi := oct >> 4
		b.WriteByte(semiOctetDigits[lo])
		if hi == 0x0F {
			if keepFill {
				b.WriteByte(semiOctetDigits[0x0F])
			}
			continue
		}
		b.WriteByte(semiOctetDigits[hi])
	}
	return b.String()
}

func semiOctetIndex(c byte) (byte, error) {
	idx := strings.IndexByte(semiOctetDigits, c)
	if idx < 0 || idx == 0x0F {
		return 0, ErrBadSemiOctetDigit
	}
	return byte(idx), nil
}

// SwapNibbles exchanges the high and low nibble of an octet. It is used by
// the BCD-packed fields (addresses, timestamps) whose digit pairs are
// transmitted least-significant-digit first.
func SwapNibbles(octet byte) byte {
	return octet<<4 | octet>>4&0x0F
}

// EncodeBCDDigitPair encodes a 0-99 value as a single swapped BCD octet,
// used by TP-SCTS fields (year, month, day, hour, minute, second).
func EncodeBCDDigitPair(value int) byte {
	lo := byte(value % 10)
	hi := byte((value / 10) % 10)
	return SwapNibbles(hi<<4 | lo)
}

// DecodeBCDDigitPair is the inverse of EncodeBCDDigitPair.
func DecodeBCDDigitPair(octet byte) int {
	unswapped := SwapNibbles(octet)
	hi := unswapped >> 4 & 0x0F
	lo := unswapped & 0x0F
	return int(hi)*10 + int(lo)
}
