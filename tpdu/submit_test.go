package tpdu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/modemkit/gosms/pdu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSubmitSingleGSM7(t *testing.T) {
	msg := OutgoingMessage{
		Recipient: NewAddress("+254712345678"),
		SMSC:      addrPtr(NewAddress("+447890123456")),
		Text:      "hello",
		Encoding:  EncodingGSM7,
	}
	pdus, err := EncodeSubmit(msg)
	require.NoError(t, err)
	require.Len(t, pdus, 1)

	hexStr := pdu.EncodeHex(pdus[0])
	assert.True(t, strings.HasPrefix(hexStr, "079144870921436511"))
}

func TestEncodeSubmitFragmentsLongGSM7(t *testing.T) {
	text := strings.Repeat("a", 200)
	msg := OutgoingMessage{
		Recipient: NewAddress("+254712345678"),
		SMSC:      addrPtr(NewAddress("+447890123456")),
		Text:      text,
		Encoding:  EncodingGSM7,
	}
	pdus, err := EncodeSubmit(msg)
	require.NoError(t, err)
	assert.Len(t, pdus, 2)
}

func TestEncodeSubmitBinaryWithPorts(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	msg := OutgoingMessage{
		Recipient:  NewAddress("+254712345678"),
		SMSC:       addrPtr(NewAddress("+447890123456")),
		Binary:     data,
		Encoding:   EncodingBinary,
		SourcePort: 1000,
		DestPort:   2000,
	}
	pdus, err := EncodeSubmit(msg)
	require.NoError(t, err)
	require.Len(t, pdus, 1)

	wantUD := assembleUD(UDH{Ports: &PortAddressing{DestPort: 2000, OrigPort: 1000}}, data)
	assert.True(t, bytes.HasSuffix(pdus[0], wantUD))
}

func TestEncodeSubmitBinaryFragments(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i)
	}
	msg := OutgoingMessage{
		Recipient: NewAddress("+254712345678"),
		SMSC:      addrPtr(NewAddress("+447890123456")),
		Binary:    data,
		Encoding:  EncodingBinary,
	}
	pdus, err := EncodeSubmit(msg)
	require.NoError(t, err)
	assert.Len(t, pdus, 3)
}

func TestEncodeSubmitUCS2(t *testing.T) {
	msg := OutgoingMessage{
		Recipient: NewAddress("+254712345678"),
		SMSC:      addrPtr(NewAddress("+447890123456")),
		Text:      "héllo",
		Encoding:  EncodingUCS2,
	}
	pdus, err := EncodeSubmit(msg)
	require.NoError(t, err)
	require.Len(t, pdus, 1)
}

// TestEncodeSubmitSpecWorkedExample reproduces spec.md's own worked SMSC-
// prefixed SUBMIT vector byte for byte, including its TP-VP octet of 0xFF
// for an unset validity period.
func TestEncodeSubmitSpecWorkedExample(t *testing.T) {
	msg := OutgoingMessage{
		Recipient:           NewAddress("0684103777"),
		SMSC:                addrPtr(NewAddress("+447890123456")),
		Text:                "coucou",
		Encoding:            EncodingGSM7,
		RequestStatusReport: true,
	}
	pdus, err := EncodeSubmit(msg)
	require.NoError(t, err)
	require.Len(t, pdus, 1)

	const want = "079144870921436531000AA160480173770000FF06E3777DFCAE03"
	assert.Equal(t, want, pdu.EncodeHex(pdus[0]))

	octets := len(pdus[0])
	smscPrefixLen := 1 + int(pdus[0][0])
	assert.Equal(t, 19, octets-smscPrefixLen, "pdu_length_octets")
}

func addrPtr(a Address) *Address { return &a }
