// Package sar reassembles concatenated (multipart) short messages.
// Incoming DELIVER fragments are grouped by originator and concatenation
// reference, deduplicated by sequence number, and emitted as a single
// IncomingMessage once every part has arrived.
package sar
