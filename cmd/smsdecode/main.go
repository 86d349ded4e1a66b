// Command smsdecode decodes a single hex-encoded TPDU, as returned by
// AT+CMGL/AT+CMGR, and dumps the parsed message.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/modemkit/gosms/tpdu"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if _, err := hex.DecodeString(flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "smsdecode:", err)
		os.Exit(1)
	}

	msg, err := tpdu.Decode(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "smsdecode:", err)
		os.Exit(1)
	}
	spew.Dump(msg)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: smsdecode <hex-pdu>\n\n"+
		"<hex-pdu> is the SMSC-prefixed TPDU hex string as read from AT+CMGL/AT+CMGR,\n"+
		"e.g. the second line of each message pair.\n")
	flag.PrintDefaults()
}
