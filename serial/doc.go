// Package serial defines the Driver and Monitor contracts the session
// controller uses to talk to a modem, plus a default Driver implementation
// backed by github.com/tarm/serial.
package serial
