package tpdu

// ValidityPeriodFormat is the TP-VPF sub-field of the first TPDU octet.
type ValidityPeriodFormat byte

// Validity-period formats a SUBMIT PDU may select (3GPP TS 23.040 §9.2.3.3).
const (
	VPFNone     ValidityPeriodFormat = 0x00
	VPFEnhanced ValidityPeriodFormat = 0x01
	VPFRelative ValidityPeriodFormat = 0x02
	VPFAbsolute ValidityPeriodFormat = 0x03
)

// RelativeVP encodes a validity period given in whole hours into the
// single TP-VP octet used with VPFRelative, per 3GPP TS 23.040 §9.2.3.12.1.
//
//   - hours <= 0           -> 0xFF (no validity period requested)
//   - 0  <  hours <= 12    -> (hours * 12) - 1, in 5-minute steps from 5m
//   - 12 <  hours <= 24    -> ((hours - 12) * 2) + 143, continuing in 30-minute steps
//   - 24 <  hours <= 720   -> (hours / 24) + 166, in whole days
//   - hours  > 720         -> (hours / 168) + 192, in whole weeks, capped at 0xFF
func RelativeVP(hours int) byte {
	switch {
	case hours <= 0:
		return 0xFF
	case hours <= 12:
		return byte(hours*12 - 1)
	case hours <= 24:
		return byte((hours-12)*2 + 143)
	case hours <= 720:
		return byte(hours/24 + 166)
	default:
		v := hours/168 + 192
		if v > 0xFF {
			return 0xFF
		}
		return byte(v)
	}
}

// RelativeVPHours recovers an approximate hour count from a TP-VP octet
// encoded with RelativeVP, as its approximate inverse; precision below an
// hour is lost.
func RelativeVPHours(vp byte) int {
	switch {
	case vp <= 143:
		return (int(vp) + 1) / 12
	case vp <= 167:
		return 12 + (int(vp)-143)/2
	case vp <= 196:
		return (int(vp) - 166) * 24
	default:
		return (int(vp) - 192) * 168
	}
}
