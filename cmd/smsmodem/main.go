// Command smsmodem connects to a GSM modem over a serial port and logs
// every incoming message until interrupted.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modemkit/gosms/serial"
	"github.com/modemkit/gosms/session"
	"github.com/modemkit/gosms/tpdu"
)

func main() {
	port := flag.String("port", "", "serial device path, e.g. /dev/ttyUSB0")
	baud := flag.Int("baud", 0, "baud rate (0 uses the session default)")
	pin := flag.String("pin", "", "SIM PIN, if the card is locked")
	manufacturer := flag.String("manufacturer", "", "modem manufacturer, for handler selection")
	model := flag.String("model", "", "modem model, for handler selection")
	alias := flag.String("alias", "", "handler alias override")
	flag.Parse()

	if *port == "" {
		slog.Error("smsmodem: -port is required")
		os.Exit(1)
	}

	opts := session.DefaultOptions(*port)
	if *baud != 0 {
		opts.BaudRate = *baud
	}
	opts.SimPIN = *pin
	opts.Manufacturer = *manufacturer
	opts.Model = *model
	opts.Alias = *alias

	sess, err := session.Connect(serial.NewTarmDriver(), opts)
	if err != nil {
		slog.Error("smsmodem: connect failed", "err", err)
		os.Exit(1)
	}
	defer sess.Disconnect()

	info := sess.Info()
	slog.Info("smsmodem: connected", "manufacturer", info.Manufacturer, "model", info.Model, "serial", info.Serial)

	sess.AddListener(func(msg *tpdu.IncomingMessage) bool {
		slog.Info("smsmodem: message received",
			"from", msg.Originator.String(),
			"text", msg.Text,
			"timestamp", msg.Timestamp.Time(),
		)
		return true
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	slog.Info("smsmodem: shutting down")
}
