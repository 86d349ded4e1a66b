package pdu

import (
	"errors"
	"strings"
)

// Esc is the escape-to-extension-table septet value (3GPP TS 23.038).
const Esc byte = 0x1B

// ErrNotGSM7Encodable is returned by stringToSeptets when a rune has no
// representation in the default alphabet or its extension table.
var ErrNotGSM7Encodable = errors.New("pdu: text is not representable in the GSM 7-bit default alphabet")

// defaultAlphabet is the GSM 03.38 default alphabet, indexed by septet
// value. This table (and its extension counterpart) is the
// stringToSeptets/septetsToString pair the rest of the codec is built on;
// a vendor-specific or national-language variant would be a drop-in
// replacement for this file only.
var defaultAlphabet = [128]rune{
	'@', '£', '$', '¥', 'è', 'é', 'ù', 'ì', 'ò', 'Ç', '\n', 'Ø', 'ø', '\r', 'Å', 'å',
	'Δ', '_', 'Φ', 'Γ', 'Λ', 'Ω', 'Π', 'Ψ', 'Σ', 'Θ', 'Ξ', 0x1B, 'Æ', 'æ', 'ß', 'É',
	' ', '!', '"', '#', '¤', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', ':', ';', '<', '=', '>', '?',
	'¡', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O',
	'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', 'Ä', 'Ö', 'Ñ', 'Ü', '§',
	'¿', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o',
	'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z', 'ä', 'ö', 'ñ', 'ü', 'à',
}

// extensionAlphabet maps septets reachable only via the Esc prefix.
var extensionAlphabet = map[byte]rune{
	0x0A: '\f',
	0x14: '^',
	0x28: '{',
	0x29: '}',
	0x2F: '\\',
	0x3C: '[',
	0x3D: '~',
	0x3E: ']',
	0x40: '|',
	0x65: '€',
}

var (
	runeToSeptet          map[rune]byte
	runeToExtensionSeptet map[rune]byte
)

func init() {
	runeToSeptet = make(map[rune]byte, len(defaultAlphabet))
	for i, r := range defaultAlphabet {
		if byte(i) == Esc {
			continue
		}
		runeToSeptet[r] = byte(i)
	}
	runeToExtensionSeptet = make(map[rune]byte, len(extensionAlphabet))
	for septet, r := range extensionAlphabet {
		runeToExtensionSeptet[r] = septet
	}
}

// Is7BitEncodable reports whether every rune in text has a representation
// in the default alphabet or its extension table.
func Is7BitEncodable(text string) bool {
	for _, r := range text {
		if _, ok := runeToSeptet[r]; ok {
			continue
		}
		if _, ok := runeToExtensionSeptet[r]; ok {
			continue
		}
		return false
	}
	return true
}

// stringToSeptets converts text into a sequence of unpacked septets
// (one byte per septet, high bit clear), expanding extension-table
// characters into an Esc/septet pair.
func stringToSeptets(text string) ([]byte, error) {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if s, ok := runeToSeptet[r]; ok {
			out = append(out, s)
			continue
		}
		if s, ok := runeToExtensionSeptet[r]; ok {
			out = append(out, Esc, s)
			continue
		}
		return nil, ErrNotGSM7Encodable
	}
	return out, nil
}

// septetsToString is the inverse of stringToSeptets. Unrecognized
// extension septets fall back to '?', matching how real modems degrade
// characters outside the alphabet rather than failing the whole decode.
func septetsToString(septets []byte) string {
	var b strings.Builder
	b.Grow(len(septets))
	for i := 0; i < len(septets); i++ {
		s := septets[i]
		if s == Esc && i+1 < len(septets) {
			i++
			if r, ok := extensionAlphabet[septets[i]]; ok {
				b.WriteRune(r)
			} else {
				b.WriteRune('?')
			}
			continue
		}
		if int(s) < len(defaultAlphabet) {
			b.WriteRune(defaultAlphabet[s])
		} else {
			b.WriteRune('?')
		}
	}
	return b.String()
}

// pack7Bit packs unpacked septets into octets, 8 septets into 7 octets.
func pack7Bit(septets []byte) []byte {
	return pack7BitOffset(septets, 0)
}

// pack7BitOffset is pack7Bit generalized to start the septet stream
// offsetBits into the first output octet, leaving those leading bits
// zeroed. This is how a GSM-7 fragment's septets are aligned to start
// right after a UDH that doesn't end on a septet boundary.
func pack7BitOffset(septets []byte, offsetBits int) []byte {
	totalBits := offsetBits + len(septets)*7
	numOctets := (totalBits + 7) / 8
	out := make([]byte, numOctets)
	for i, s := range septets {
		bitPos := offsetBits + i*7
		bytePos := bitPos / 8
		bitOffset := uint(bitPos % 8)
		out[bytePos] |= s << bitOffset
		if bitOffset > 1 && bytePos+1 < numOctets {
			out[bytePos+1] |= s >> (8 - bitOffset)
		}
	}
	return out
}

// unpack7Bit unpacks octets into septetCount septets.
func unpack7Bit(octets []byte, septetCount int) []byte {
	out := make([]byte, septetCount)
	for i := 0; i < septetCount; i++ {
		bitPos := i * 7
		bytePos := bitPos / 8
		bitOffset := uint(bitPos % 8)
		if bytePos >= len(octets) {
			break
		}
		b := octets[bytePos] >> bitOffset
		if bitOffset > 1 && bytePos+1 < len(octets) {
			b |= octets[bytePos+1] << (8 - bitOffset)
		}
		out[i] = b & 0x7F
	}
	return out
}

// Encode7Bit packs text into GSM 7-bit default-alphabet octets, with no
// leading skip bits. Returns an error if text contains characters outside
// the alphabet.
func Encode7Bit(text string) ([]byte, error) {
	septets, err := stringToSeptets(text)
	if err != nil {
		return nil, err
	}
	return pack7Bit(septets), nil
}

// Decode7Bit unpacks septetCount septets from octets (with no leading skip
// bits) and converts them back to text.
func Decode7Bit(octets []byte, septetCount int) string {
	return septetsToString(unpack7Bit(octets, septetCount))
}

// Encode7BitWithSkip packs text into octets where the septet stream starts
// skipBits into the first octet (used after a UDH, whose octet count
// rarely falls on a septet boundary). The skipped bits are zeroed.
func Encode7BitWithSkip(text string, skipBits int) ([]byte, error) {
	septets, err := stringToSeptets(text)
	if err != nil {
		return nil, err
	}
	return pack7BitOffset(septets, skipBits), nil
}

// Decode7BitWithSkip is the inverse of Encode7BitWithSkip: it drops the
// leading skipBits padding bits before unpacking septetCount septets.
func Decode7BitWithSkip(octets []byte, skipBits, septetCount int) string {
	septets := make([]byte, septetCount)
	for i := 0; i < septetCount; i++ {
		bitPos := skipBits + i*7
		bytePos := bitPos / 8
		bitOffset := uint(bitPos % 8)
		if bytePos >= len(octets) {
			break
		}
		b := octets[bytePos] >> bitOffset
		if bitOffset > 1 && bytePos+1 < len(octets) {
			b |= octets[bytePos+1] << (8 - bitOffset)
		}
		septets[i] = b & 0x7F
	}
	return septetsToString(septets)
}

// SkipBitsAfterUDH computes skip_bits for a GSM-7 fragment following a UDH
// of udhOctets octets (including the UDHL byte itself): the number of
// padding bits needed so the septet stream starts on a septet boundary.
func SkipBitsAfterUDH(udhOctets int) int {
	return (7 - (udhOctets*8)%7) % 7
}
