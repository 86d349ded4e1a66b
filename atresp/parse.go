package atresp

import (
	"bufio"
	"strconv"
	"strings"
)

// NASentinel is the sentinel string single-value parsers return for a
// missing or malformed field.
const NASentinel = "* N/A *"

// IsError reports whether text is an AT error response: empty, a line
// that trims to exactly "ERROR", or a line containing "CME ERROR:" or
// "CMS ERROR:" (with or without the leading '+'). A bare "ERROR" inside a
// quoted menu string (e.g.
// `+STGI: "ERROR TITLE"`) is deliberately not enough to trigger this.
func IsError(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "ERROR" {
			return true
		}
		if strings.Contains(line, "CME ERROR:") || strings.Contains(line, "CMS ERROR:") {
			return true
		}
	}
	return false
}

func splitLines(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '\r' || r == '\n'
	})
}

// GetMemIndex extracts the integer between the first ':' and the first
// ',' in a line like "+CMGL: 2,0,,26", returning -1 if it cannot.
func GetMemIndex(line string) int {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return -1
	}
	rest := line[colon+1:]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		comma = len(rest)
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest[:comma]))
	if err != nil {
		return -1
	}
	return n
}

// GetNextUsefulLine reads from r until it finds a non-blank trimmed line,
// or returns io.EOF once the stream is exhausted.
func GetNextUsefulLine(r *bufio.Reader) (string, error) {
	for {
		line, err := r.ReadString('\n')
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return trimmed, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// fields strips OK, quotes, and line breaks from a raw response, splits
// what remains on commas, and drops blank fields after trimming spaces.
// Callers pass text already cut past its colon with afterColon.
func fields(text string) []string {
	cleaned := strings.NewReplacer("OK", "", "\"", "", "\r", "", "\n", "").Replace(text)
	parts := strings.Split(cleaned, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// afterColon trims everything up to and including the first ':' in s.
func afterColon(s string) string {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return strings.TrimSpace(s)
}

// ParseManufacturer extracts the manufacturer name from a response like
// "\r\n WAVECOM WIRELESS CPU\r\n\r\nOK\r", collapsing internal whitespace.
func ParseManufacturer(text string) string {
	return parseSingleLineString(text)
}

// ParseModel extracts the model name field.
func ParseModel(text string) string {
	return parseSingleLineString(text)
}

// ParseSerial extracts a serial number / IMEI field.
func ParseSerial(text string) string {
	return parseSingleLineString(text)
}

// ParseIMSI extracts the IMSI field.
func ParseIMSI(text string) string {
	return parseSingleLineString(text)
}

// ParseSWVersion extracts the firmware/software version field.
func ParseSWVersion(text string) string {
	return parseSingleLineString(text)
}

// ParseMSISDN extracts the subscriber number from a "+CNUM:" style line,
// e.g. `+CNUM: "","+254712345678",145` -> "+254712345678". The leading
// alpha tag is usually empty but still occupies a position, so fields are
// split without dropping blanks.
func ParseMSISDN(text string) string {
	if IsError(text) {
		return NASentinel
	}
	cleaned := strings.NewReplacer("\"", "", "\r", "", "\n", "").Replace(afterColon(text))
	parts := strings.Split(cleaned, ",")
	if len(parts) < 2 {
		return NASentinel
	}
	number := strings.TrimSpace(parts[1])
	if number == "" {
		return NASentinel
	}
	return number
}

func parseSingleLineString(text string) string {
	if IsError(text) {
		return NASentinel
	}
	for _, line := range splitLines(text) {
		line = strings.Join(strings.Fields(line), "")
		line = strings.Trim(line, "\"")
		if line == "" || line == "OK" {
			continue
		}
		return line
	}
	return NASentinel
}

// ParseBattery reads the second comma-separated integer after the colon
// in a "+CBC:" style response (the charge percentage).
func ParseBattery(text string) int {
	return nthCommaInt(text, 1)
}

// ParseSignal reads the first comma-separated integer after the colon in
// a "+CSQ:" style response and rescales it from the 0-31 RSSI range to a
// 0-100 percentage.
func ParseSignal(text string) int {
	raw := nthCommaInt(text, 0)
	if raw <= 0 {
		return 0
	}
	return raw * 100 / 31
}

// ParseGPRS reads the GPRS attach state (0 or 1) from a "+CGATT:" style
// response.
func ParseGPRS(text string) int {
	return nthCommaInt(text, 0)
}

// ParsePINStatus extracts the SIM lock state from a "+CPIN:" response,
// e.g. "+CPIN: READY" -> "READY", "+CPIN: SIM PIN" -> "SIM PIN".
func ParsePINStatus(text string) string {
	if IsError(text) {
		return NASentinel
	}
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "+CPIN:") {
			return afterColon(line)
		}
	}
	return NASentinel
}

// ParseRegistration reads the registration status code out of a "+CREG:"
// response, e.g. "+CREG: 0,1" -> 1, "+CREG: 5" -> 5. CREG carries an
// optional leading <n> mode field, so the status is always the last
// comma-separated value.
func ParseRegistration(text string) int {
	if IsError(text) {
		return -1
	}
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "+CREG:") {
			fs := fields(afterColon(line))
			if len(fs) == 0 {
				return -1
			}
			v, err := strconv.Atoi(fs[len(fs)-1])
			if err != nil {
				return -1
			}
			return v
		}
	}
	return -1
}

func nthCommaInt(text string, n int) int {
	if IsError(text) {
		return 0
	}
	fs := fields(afterColon(text))
	if n >= len(fs) {
		return 0
	}
	v, err := strconv.Atoi(fs[n])
	if err != nil {
		return 0
	}
	return v
}
