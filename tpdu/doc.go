// Package tpdu encodes and decodes SMS Transfer Protocol Data Units as
// specified in 3GPP TS 23.040: addresses, data-coding schemes, user-data
// headers (UDH), validity periods, service-centre timestamps, and the
// SUBMIT, DELIVER and STATUS-REPORT PDU layouts themselves.
//
// Byte-level primitives (hex, semi-octet/BCD packing, GSM 7-bit, UCS-2)
// live in the sibling package pdu; this package is the layer that
// assembles them into wire-format messages.
package tpdu
