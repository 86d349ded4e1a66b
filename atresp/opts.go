package atresp

import "strings"

// StringOpt is a token-prefix option with a human-readable description,
// the value type xlab-at's opts.go uses to classify modem response lines.
type StringOpt struct {
	ID          string
	Description string
}

// UnknownStringOpt is returned by Resolve when no entry matches.
var UnknownStringOpt = StringOpt{ID: "nil", Description: "Unknown"}

type stringOpts []StringOpt

func (s stringOpts) Resolve(str string) StringOpt {
	for _, v := range s {
		if strings.HasPrefix(str, v.ID) {
			return v
		}
	}
	return UnknownStringOpt
}

var finalResult = stringOpts{
	{"OK", "Success"},
	{"ERROR", "Error"},
	{"+CME ERROR:", "CME Error"},
	{"+CMS ERROR:", "CMS Error"},
	{"NO CARRIER", "No carrier"},
	{"BUSY", "Busy"},
	{"NO ANSWER", "No answer"},
}

// FinalResults classifies a trimmed response line as one of the terminal
// AT result codes this package recognizes.
var FinalResults = struct {
	Resolve func(string) StringOpt

	Ok        StringOpt
	Error     StringOpt
	CmeError  StringOpt
	CmsError  StringOpt
	NoCarrier StringOpt
	Busy      StringOpt
	NoAnswer  StringOpt
}{
	func(str string) StringOpt { return finalResult.Resolve(str) },

	finalResult[0], finalResult[1], finalResult[2], finalResult[3],
	finalResult[4], finalResult[5], finalResult[6],
}

var unsolicited = stringOpts{
	{"+CMTI:", "Incoming SMS"},
	{"+CDS:", "Status report"},
	{"+CREG:", "Registration state"},
}

// UnsolicitedReports classifies a trimmed response line as one of the
// asynchronous reports a modem can emit unprompted. No other package in
// this module consults it.
var UnsolicitedReports = struct {
	Resolve func(string) StringOpt

	IncomingSMS       StringOpt
	StatusReport      StringOpt
	RegistrationState StringOpt
}{
	func(str string) StringOpt { return unsolicited.Resolve(str) },

	unsolicited[0], unsolicited[1], unsolicited[2],
}
