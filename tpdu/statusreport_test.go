package tpdu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStatusReportKnownVector(t *testing.T) {
	msg, err := DecodeStatusReport("07A17098103254F606130C91527420121670110172111332E11101721113322100")
	require.NoError(t, err)
	assert.Equal(t, DeliveryDelivered, msg.DeliveryStatus)
	assert.True(t, len(msg.Recipient.Digits) > 0 && msg.Recipient.Digits[0:4] == "2547")
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, DeliveryDelivered, ClassifyStatus(0x00))
	assert.Equal(t, DeliveryKeepTrying, ClassifyStatus(0x20))
	assert.Equal(t, DeliveryAborted, ClassifyStatus(0x40))
	assert.Equal(t, DeliveryAborted, ClassifyStatus(0x60))
}

func TestDecodeStatusReportRejectsSubmitReport(t *testing.T) {
	_, err := DecodeStatusReport("00010000000000")
	assert.ErrorIs(t, err, ErrSubmitReportUnhandled)
}
