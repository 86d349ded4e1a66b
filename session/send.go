package session

import (
	"fmt"
	"time"

	"github.com/modemkit/gosms/handler"
	"github.com/modemkit/gosms/pdu"
	"github.com/modemkit/gosms/tpdu"
)

// Send encodes msg (fragmenting if necessary), submits every part
// through the handler, and on success sets msg.AssignedRef and
// msg.DispatchTimestamp, per spec.md §4.8's Send. A negative ref_no from
// the handler aborts the remaining parts; SendLinkFatal additionally
// disconnects the session.
func (s *Session) Send(msg *tpdu.OutgoingMessage) error {
	if msg.ConcatRef == 0 {
		s.mpMu.Lock()
		msg.ConcatRef = s.outMPRef
		s.mpMu.Unlock()
	}
	if msg.SMSC == nil && s.opts.SMSCNumber != "" {
		smsc := tpdu.NewAddress(s.opts.SMSCNumber)
		msg.SMSC = &smsc
	}

	pdus, err := tpdu.EncodeSubmit(*msg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var refNo int
	for _, pduBytes := range pdus {
		pduLengthOctets := len(pduBytes) - smscPrefixLen(pduBytes)
		hexPDU := pdu.EncodeHex(pduBytes)

		ref, sendErr := s.handler.SendMessage(pduLengthOctets, hexPDU)
		if sendErr != nil || ref < 0 {
			s.stats.SendFailures++
			if ref == handler.SendLinkFatal {
				go s.Disconnect()
				return ErrLinkFatal
			}
			return fmt.Errorf("session: send failed: %w", sendErr)
		}
		refNo = ref
	}

	now := time.Now()
	msg.AssignedRef = int32(refNo)
	msg.DispatchTimestamp = &now
	s.stats.MessagesSent++

	s.mpMu.Lock()
	s.outMPRef = (s.outMPRef + 1) % 65536
	s.mpMu.Unlock()

	return nil
}

// smscPrefixLen returns the number of octets the SMSC address prefix
// occupies at the head of pduBytes: the length byte itself (1) plus
// whatever it says follows.
func smscPrefixLen(pduBytes []byte) int {
	if len(pduBytes) == 0 {
		return 0
	}
	return 1 + int(pduBytes[0])
}
