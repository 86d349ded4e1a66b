// Package pdu implements the low-level byte and character encodings used to
// build and parse SMS Transfer Protocol Data Units (3GPP TS 23.040): hex,
// semi-octet (BCD) digit packing, the GSM 7-bit default alphabet, and UCS-2.
//
// Everything here is pure and allocation-light: no I/O, no logging, no
// modem awareness. Higher layers (package tpdu) build PDUs out of these
// primitives.
package pdu
