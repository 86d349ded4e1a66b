// Package session owns the serial link end to end: connecting, SIM
// unlock, network registration, sending, the async receive loop, and the
// keep-alive pulse described in spec.md §4.8. It drives a handler.Handler
// for the AT dialect and a serial.Driver for the transport, and never
// formats an AT string itself.
package session
