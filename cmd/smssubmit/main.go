// Command smssubmit builds a SMS-SUBMIT TPDU (or, for a long message,
// the series of concatenated TPDUs) and prints it as hex.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/modemkit/gosms/pdu"
	"github.com/modemkit/gosms/tpdu"
)

func main() {
	var number, message string
	var ucs2 bool
	var validity int
	flag.StringVar(&number, "number", "", "destination number in international format")
	flag.StringVar(&message, "message", "", "the message text to encode")
	flag.BoolVar(&ucs2, "ucs2", false, "force UCS-2 encoding instead of the GSM 7-bit default alphabet")
	flag.IntVar(&validity, "validity", 0, "validity period in hours (0 or less sends TP-VP 0xFF, no period requested)")
	flag.Usage = usage
	flag.Parse()

	if number == "" || message == "" {
		flag.Usage()
		os.Exit(1)
	}

	msg := tpdu.OutgoingMessage{
		Recipient:           tpdu.NewAddress(number),
		Text:                message,
		ValidityPeriodHours: validity,
	}
	if ucs2 || !pdu.Is7BitEncodable(message) {
		msg.Encoding = tpdu.EncodingUCS2
	}

	pdus, err := tpdu.EncodeSubmit(msg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "smssubmit:", err)
		os.Exit(1)
	}

	if len(pdus) == 1 {
		fmt.Printf("Submit TPDU:\n%s\n", pdu.EncodeHex(pdus[0]))
		return
	}
	for i, p := range pdus {
		fmt.Printf("Submit TPDU %d/%d:\n%s\n", i+1, len(pdus), pdu.EncodeHex(p))
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "smssubmit encodes a message into one or more SMS-SUBMIT TPDUs.\n"+
		"The message is encoded using the GSM 7-bit default alphabet unless -ucs2\n"+
		"is given, or a character outside the alphabet forces it anyway. Messages\n"+
		"too long for a single PDU are split and concatenated.\n\n"+
		"Usage: smssubmit -number <number> -message <message>\n")
	flag.PrintDefaults()
}
