// Package atresp tokenizes and extracts fields from AT command responses:
// error detection, single-value field parsers (manufacturer, model, IMEI,
// IMSI, signal quality, battery, MSISDN), and the small line-scanning
// helpers the session controller needs to walk a multi-line reply.
package atresp
