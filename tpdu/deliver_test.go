package tpdu

import (
	"testing"

	"github.com/modemkit/gosms/pdu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDeliverGSM7NoUDH(t *testing.T) {
	smsc, err := NewAddress("+447890123456").EncodeSMSC()
	require.NoError(t, err)
	origin, err := NewAddress("+254712345678").Encode()
	require.NoError(t, err)

	septets, err := pdu.Encode7Bit("hello")
	require.NoError(t, err)

	var raw []byte
	raw = append(raw, smsc...)
	raw = append(raw, 0x00) // DELIVER, no UDH
	raw = append(raw, origin...)
	raw = append(raw, 0x00)                    // TP-PID
	raw = append(raw, DCS(EncodingGSM7))       // TP-DCS
	raw = append(raw, Timestamp{}.Encode()...) // TP-SCTS
	raw = append(raw, byte(len("hello")))      // TP-UDL, septets
	raw = append(raw, septets...)

	msg, err := DecodeDeliver(pdu.EncodeHex(raw))
	require.NoError(t, err)
	assert.Equal(t, "447890123456", msg.SMSC.Digits)
	assert.Equal(t, EncodingGSM7, msg.Encoding)
	assert.Equal(t, int32(-1), msg.MemIndex)
	assert.Equal(t, "hello", msg.Text)
}

func TestDecodeDeliverRejectsSubmitReport(t *testing.T) {
	// byte-zero 0x01 selects TP-MTI = 1 (SUBMIT-REPORT), not handled here.
	_, err := DecodeDeliver("00010000000000")
	assert.ErrorIs(t, err, ErrSubmitReportUnhandled)
}

func TestDecodeDeliverBinaryWithPorts(t *testing.T) {
	smsc, err := NewAddress("+447890123456").EncodeSMSC()
	require.NoError(t, err)
	origin, err := NewAddress("+254712345678").Encode()
	require.NoError(t, err)

	udh := UDH{Ports: &PortAddressing{DestPort: 5001, OrigPort: 5000}}
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	ud := assembleUD(udh, data)

	var raw []byte
	raw = append(raw, smsc...)
	raw = append(raw, 0x40) // DELIVER, UDHI set
	raw = append(raw, origin...)
	raw = append(raw, 0x00)                       // TP-PID
	raw = append(raw, DCS(EncodingBinary))        // TP-DCS
	raw = append(raw, Timestamp{}.Encode()...)    // TP-SCTS
	raw = append(raw, ud...)

	msg, err := DecodeDeliver(pdu.EncodeHex(raw))
	require.NoError(t, err)
	assert.Equal(t, data, msg.Binary)
	assert.Nil(t, msg.Concat)
}

func TestDecodeDeliverShortPDU(t *testing.T) {
	_, err := DecodeDeliver("00")
	assert.Error(t, err)
}
