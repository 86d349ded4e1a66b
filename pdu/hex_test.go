package pdu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeHexRoundTrip(t *testing.T) {
	data := [][]byte{
		{},
		{0x00},
		{0xDE, 0xAD, 0xBE, 0xEF},
		{0x07, 0x91, 0x44, 0x87, 0x09, 0x21, 0x43, 0x65, 0x31},
	}
	for _, b := range data {
		hex := EncodeHex(b)
		assert.Equal(t, len(b)*2, len(hex))
		out, err := DecodeHex(hex)
		require.NoError(t, err)
		assert.Equal(t, b, out)
	}
}

func TestDecodeHexCaseInsensitive(t *testing.T) {
	out, err := DecodeHex("deadBEEF")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, out)
}

func TestDecodeHexErrors(t *testing.T) {
	_, err := DecodeHex("ABC")
	assert.ErrorIs(t, err, ErrOddLength)

	_, err = DecodeHex("ZZ")
	assert.ErrorIs(t, err, ErrBadHexChar)
}
