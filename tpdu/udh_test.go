package tpdu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUDHConcat8RoundTrip(t *testing.T) {
	u := UDH{Concat: &ConcatInfo{Ref: 42, TotalParts: 3, SeqNum: 2}}
	encoded := u.Encode()
	require.NotNil(t, encoded)

	decoded, n, err := DecodeUDH(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, len(encoded), n)
	require.NotNil(t, decoded.Concat)
	assert.Equal(t, 42, decoded.Concat.Ref)
	assert.Equal(t, 3, decoded.Concat.TotalParts)
	assert.Equal(t, 2, decoded.Concat.SeqNum)
	assert.False(t, decoded.Concat.Ref16)
}

func TestUDHConcat16AndPortsRoundTrip(t *testing.T) {
	u := UDH{
		Concat: &ConcatInfo{Ref: 1000, TotalParts: 5, SeqNum: 1, Ref16: true},
		Ports:  &PortAddressing{DestPort: 2948, OrigPort: 9200},
	}
	encoded := u.Encode()

	decoded, _, err := DecodeUDH(bytes.NewReader(encoded))
	require.NoError(t, err)
	require.NotNil(t, decoded.Concat)
	require.NotNil(t, decoded.Ports)
	assert.Equal(t, 1000, decoded.Concat.Ref)
	assert.True(t, decoded.Concat.Ref16)
	assert.Equal(t, uint16(2948), decoded.Ports.DestPort)
	assert.Equal(t, uint16(9200), decoded.Ports.OrigPort)
}

func TestUDHEmptyEncodesNil(t *testing.T) {
	assert.Nil(t, UDH{}.Encode())
	assert.Equal(t, 0, UDH{}.Size())
}

func TestUDHSizeMatchesEncodedLength(t *testing.T) {
	u := UDH{Concat: &ConcatInfo{Ref: 1, TotalParts: 2, SeqNum: 1}}
	assert.Equal(t, u.Size(), len(u.Encode()))
}
