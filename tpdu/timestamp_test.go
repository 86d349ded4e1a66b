package tpdu

import (
	"bytes"
	"testing"

	"github.com/modemkit/gosms/pdu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampTimezoneUTC(t *testing.T) {
	raw := []byte{pdu.EncodeBCDDigitPair(21), pdu.EncodeBCDDigitPair(6), pdu.EncodeBCDDigitPair(16), pdu.EncodeBCDDigitPair(9), 0x00, 0x00, 0x00}
	ts, err := DecodeTimestamp(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 0, ts.OffsetMinutes)
}

func TestTimestampTimezoneNegative(t *testing.T) {
	raw := []byte{pdu.EncodeBCDDigitPair(21), pdu.EncodeBCDDigitPair(6), pdu.EncodeBCDDigitPair(16), pdu.EncodeBCDDigitPair(9), 0x00, 0x00, 0x8A}
	ts, err := DecodeTimestamp(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, -150, ts.OffsetMinutes)
}

func TestTimestampDigitsDecode(t *testing.T) {
	raw := []byte{pdu.EncodeBCDDigitPair(21), pdu.EncodeBCDDigitPair(6), pdu.EncodeBCDDigitPair(16), pdu.EncodeBCDDigitPair(9), 0x00, 0x00, 0x00}
	ts, err := DecodeTimestamp(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 21, ts.Year)
	assert.Equal(t, 6, ts.Month)
	assert.Equal(t, 16, ts.Day)
	assert.Equal(t, 9, ts.Hour)
}

func TestTimestampEncodeDecodeRoundTrip(t *testing.T) {
	ts := Timestamp{Year: 25, Month: 3, Day: 14, Hour: 9, Minute: 30, Second: 5, OffsetMinutes: -120}
	encoded := ts.Encode()
	decoded, err := DecodeTimestamp(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, ts, decoded)
}

func TestShortTimestamp(t *testing.T) {
	_, err := DecodeTimestamp(bytes.NewReader([]byte{0x01, 0x02}))
	assert.ErrorIs(t, err, ErrShortTimestamp)
}
