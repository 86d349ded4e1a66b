package tpdu

// Encoding is the character encoding a TP-DCS byte selects for the
// message body.
type Encoding byte

// Supported encodings (spec.md §4.4): the data-coding-scheme bits 2-3
// select GSM 7-bit, 8-bit binary, or UCS-2.
const (
	EncodingGSM7   Encoding = 0x00
	EncodingBinary Encoding = 0x04
	EncodingUCS2   Encoding = 0x08
)

const dcsEncodingMask = 0x0C

// DCS builds a TP-DCS byte for the given encoding using the general data
// coding group (bits 7-6 = 00), no message class.
func DCS(enc Encoding) byte {
	return byte(enc)
}

// DecodeEncoding extracts the Encoding from a TP-DCS byte.
func DecodeEncoding(dcs byte) Encoding {
	return Encoding(dcs & dcsEncodingMask)
}
