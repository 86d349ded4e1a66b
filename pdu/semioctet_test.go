package pdu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSemiOctetsEven(t *testing.T) {
	out, err := EncodeSemiOctets("447890123456")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x44, 0x87, 0x09, 0x21, 0x43, 0x65}, out)
	assert.Equal(t, "447890123456", DecodeSemiOctets(out, false))
}

func TestEncodeSemiOctetsOddPadsFill(t *testing.T) {
	out, err := EncodeSemiOctets("123")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, byte(0xF3), out[1])
	assert.Equal(t, "123", DecodeSemiOctets(out, false))
}

func TestDecodeSemiOctetsKeepFill(t *testing.T) {
	out, err := EncodeSemiOctets("123")
	require.NoError(t, err)
	assert.Equal(t, "123 ", DecodeSemiOctets(out, true))
}

func TestEncodeSemiOctetsRejectsBadDigit(t *testing.T) {
	_, err := EncodeSemiOctets("12x")
	assert.ErrorIs(t, err, ErrBadSemiOctetDigit)
}

func TestBCDDigitPairRoundTrip(t *testing.T) {
	for _, v := range []int{0, 5, 26, 99} {
		assert.Equal(t, v, DecodeBCDDigitPair(EncodeBCDDigitPair(v)))
	}
}
