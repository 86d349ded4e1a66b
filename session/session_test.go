package session

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/modemkit/gosms/serial"
	"github.com/modemkit/gosms/tpdu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver is a scripted serial.Driver: Send looks up the trimmed
// command text in script and queues the matching reply for the next
// ReadBuffer call. Unscripted commands get defaultReply (a bare OK
// unless a test overrides it).
type fakeDriver struct {
	mu           sync.Mutex
	opened       bool
	name         string
	monitor      serial.Monitor
	script       map[string]string
	sequences    map[string][]string
	defaultReply []byte
	pending      []byte
	sent         []string
}

func newFakeDriver(script map[string]string) *fakeDriver {
	return &fakeDriver{script: script, defaultReply: []byte("\r\nOK\r\n")}
}

func (d *fakeDriver) Open(name string, baud int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opened = true
	d.name = name
	return nil
}

func (d *fakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opened = false
	return nil
}

func (d *fakeDriver) EmptyBuffer() error         { return nil }
func (d *fakeDriver) LastClearedBuffer() []byte  { return nil }
func (d *fakeDriver) SetNewMessageMonitor(m serial.Monitor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.monitor = m
}
func (d *fakeDriver) Port() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name
}

func (d *fakeDriver) Send(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cmd := strings.TrimRight(string(p), "\r\n\x1A")
	d.sent = append(d.sent, cmd)
	if seq, ok := d.sequences[cmd]; ok && len(seq) > 0 {
		d.pending = []byte(seq[0])
		if len(seq) > 1 {
			d.sequences[cmd] = seq[1:]
		}
	} else if reply, ok := d.script[cmd]; ok {
		d.pending = []byte(reply)
	} else {
		d.pending = d.defaultReply
	}
	return len(p), nil
}

func (d *fakeDriver) ReadBuffer(timeout time.Duration) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.pending
	d.pending = nil
	return out, nil
}

func (d *fakeDriver) sentCommands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.sent))
	copy(out, d.sent)
	return out
}

func connectScript() map[string]string {
	return map[string]string{
		"ATZ":               "\r\nOK\r\n",
		"AT":                "\r\nOK\r\n",
		"AT+CPIN?":          "\r\n+CPIN: READY\r\n\r\nOK\r\n",
		"ATE0":              "\r\nOK\r\n",
		"AT+CREG?":          "\r\n+CREG: 0,1\r\n\r\nOK\r\n",
		"AT+CMEE=1":         "\r\nOK\r\n",
		"AT+CPMS=?":         "\r\n+CPMS: (\"SM\")\r\n\r\nOK\r\n",
		"AT+CMGF=0":         "\r\nOK\r\n",
		"AT+CNMI=2,1,0,1,0": "\r\nOK\r\n",
		"AT+CGMI":           "\r\nWAVECOM WIRELESS CPU\r\n\r\nOK\r\n",
		"AT+CGMM":           "\r\nS3 GTM201\r\n\r\nOK\r\n",
		"AT+CGSN":           "\r\n123456789012345\r\n\r\nOK\r\n",
	}
}

func testOptions() Options {
	opts := DefaultOptions("/dev/fake0")
	opts.CommandTimeout = time.Second
	opts.DelayNoResponse = time.Millisecond
	opts.AsyncPollInterval = time.Hour
	opts.KeepAliveInterval = time.Hour
	return opts
}

func TestConnectHappyPath(t *testing.T) {
	d := newFakeDriver(connectScript())
	s, err := Connect(d, testOptions())
	require.NoError(t, err)
	defer s.Disconnect()

	assert.True(t, d.opened)
	info := s.Info()
	assert.Equal(t, "WAVECOMWIRELESSCPU", info.Manufacturer)
	assert.Equal(t, "S3GTM201", info.Model)
	assert.Equal(t, []string{"SM"}, s.storageLocations)
}

func TestConnectFailsWhenNotAlive(t *testing.T) {
	script := connectScript()
	script["AT"] = "\r\nERROR\r\n"
	d := newFakeDriver(script)

	_, err := Connect(d, testOptions())
	require.Error(t, err)
	assert.False(t, d.opened, "Disconnect should close the driver on failed connect")
}

func TestConnectRequiresPINWhenLocked(t *testing.T) {
	script := connectScript()
	script["AT+CPIN?"] = "\r\n+CPIN: SIM PIN\r\n\r\nOK\r\n"
	d := newFakeDriver(script)

	_, err := Connect(d, testOptions())
	assert.ErrorIs(t, err, ErrPINRequired)
}

func TestConnectEntersPINWhenConfigured(t *testing.T) {
	script := connectScript()
	delete(script, "AT+CPIN?")
	script[`AT+CPIN="1234"`] = "\r\nOK\r\n"
	d := newFakeDriver(script)
	d.sequences = map[string][]string{
		"AT+CPIN?": {
			"\r\n+CPIN: SIM PIN\r\n\r\nOK\r\n",
			"\r\n+CPIN: READY\r\n\r\nOK\r\n",
		},
	}

	opts := testOptions()
	opts.SimPIN = "1234"

	s, err := Connect(d, opts)
	require.NoError(t, err)
	defer s.Disconnect()

	assert.Contains(t, d.sentCommands(), `AT+CPIN="1234"`)
}

func TestConnectFatalOnPUK(t *testing.T) {
	script := connectScript()
	script["AT+CPIN?"] = "\r\n+CPIN: SIM PUK\r\n\r\nOK\r\n"
	d := newFakeDriver(script)

	_, err := Connect(d, testOptions())
	assert.ErrorIs(t, err, ErrSIMPUK)
}

func TestConnectRegistrationDenied(t *testing.T) {
	script := connectScript()
	script["AT+CREG?"] = "\r\n+CREG: 0,3\r\n\r\nOK\r\n"
	d := newFakeDriver(script)

	_, err := Connect(d, testOptions())
	assert.ErrorIs(t, err, ErrRegistrationFailed)
}

func TestSendSinglePartGSM7(t *testing.T) {
	msg := &tpdu.OutgoingMessage{
		Recipient: tpdu.NewAddress("+18005550199"),
		Text:      "hello",
	}
	pdus, err := tpdu.EncodeSubmit(*msg)
	require.NoError(t, err)
	require.Len(t, pdus, 1)
	n := len(pdus[0]) - smscPrefixLen(pdus[0])
	cmgsCmd := fmt.Sprintf("AT+CMGS=%d", n)

	script := connectScript()
	script[cmgsCmd] = "\r\n>"
	d := newFakeDriver(script)
	d.defaultReply = []byte("\r\n+CMGS: 7\r\n\r\nOK\r\n")

	s, err := Connect(d, testOptions())
	require.NoError(t, err)
	defer s.Disconnect()

	require.NoError(t, s.Send(msg))
	assert.EqualValues(t, 7, msg.AssignedRef)
	assert.NotNil(t, msg.DispatchTimestamp)
	assert.Contains(t, d.sentCommands(), cmgsCmd)
}

func TestConnectStorageLocationsOverride(t *testing.T) {
	d := newFakeDriver(connectScript())
	opts := testOptions()
	opts.StorageLocations = []string{"ME"}

	s, err := Connect(d, opts)
	require.NoError(t, err)
	defer s.Disconnect()

	assert.Equal(t, []string{"ME"}, s.storageLocations)
}

func TestConnectSyncModeStartsNoReceiveLoop(t *testing.T) {
	d := newFakeDriver(connectScript())
	opts := testOptions()
	opts.ReceiveMode = ReceiveSync

	s, err := Connect(d, opts)
	require.NoError(t, err)
	defer s.Disconnect()

	assert.NotContains(t, d.sentCommands(), "AT+CNMI=2,1,0,1,0")

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(50 * time.Millisecond):
		t.Fatal("receive loop appears to be running under ReceiveSync")
	}
}

func TestSetReceiveModeStopsAndStartsReceiveLoop(t *testing.T) {
	d := newFakeDriver(connectScript())
	opts := testOptions()
	opts.ReceiveMode = ReceiveSync

	s, err := Connect(d, opts)
	require.NoError(t, err)
	defer s.Disconnect()

	require.NoError(t, s.SetReceiveMode(ReceiveAsyncPoll))
	assert.Equal(t, ReceiveAsyncPoll, s.opts.ReceiveMode)

	require.NoError(t, s.SetReceiveMode(ReceiveSync))
	assert.Equal(t, ReceiveSync, s.opts.ReceiveMode)
}

func TestSendUsesConfiguredSMSCWhenUnset(t *testing.T) {
	msg := &tpdu.OutgoingMessage{
		Recipient: tpdu.NewAddress("+18005550199"),
		Text:      "hello",
	}
	withSMSC := *msg
	smsc := tpdu.NewAddress("+447890123456")
	withSMSC.SMSC = &smsc
	pdus, err := tpdu.EncodeSubmit(withSMSC)
	require.NoError(t, err)
	require.Len(t, pdus, 1)
	cmgsCmd := fmt.Sprintf("AT+CMGS=%d", len(pdus[0])-smscPrefixLen(pdus[0]))

	script := connectScript()
	script[cmgsCmd] = "\r\n>"
	d := newFakeDriver(script)
	d.defaultReply = []byte("\r\n+CMGS: 7\r\n\r\nOK\r\n")

	opts := testOptions()
	opts.SMSCNumber = "+447890123456"

	s, err := Connect(d, opts)
	require.NoError(t, err)
	defer s.Disconnect()

	require.NoError(t, s.Send(msg))
	require.NotNil(t, msg.SMSC)
	assert.Equal(t, "447890123456", msg.SMSC.Digits)
}

func TestCommandRetriesCMSError(t *testing.T) {
	script := connectScript()
	d := newFakeDriver(script)
	d.sequences = map[string][]string{
		"AT+CMGF=0": {
			"\r\n+CMS ERROR: 302\r\n",
			"\r\nOK\r\n",
		},
	}

	opts := testOptions()
	opts.RetriesCMSErrors = 1
	opts.DelayCMSErrors = time.Millisecond

	s, err := Connect(d, opts)
	require.NoError(t, err)
	defer s.Disconnect()
}

func TestCommandGivesUpAfterExhaustingCMSRetries(t *testing.T) {
	script := connectScript()
	script["AT+CMGF=0"] = "\r\n+CME ERROR: 100\r\n"
	d := newFakeDriver(script)

	opts := testOptions()
	opts.RetriesCMSErrors = 1
	opts.DelayCMSErrors = time.Millisecond

	_, err := Connect(d, opts)
	require.Error(t, err)
}

func TestDeleteReassembledMessageDeletesAllFragments(t *testing.T) {
	d := newFakeDriver(connectScript())
	s, err := Connect(d, testOptions())
	require.NoError(t, err)
	defer s.Disconnect()

	msg := &tpdu.IncomingMessage{
		MemIndex:     -1,
		MemLocation:  "SM",
		MPMemIndices: []int32{3, 4, 5},
	}
	require.NoError(t, s.Delete(msg))

	sent := d.sentCommands()
	assert.Contains(t, sent, "AT+CMGD=3")
	assert.Contains(t, sent, "AT+CMGD=4")
	assert.Contains(t, sent, "AT+CMGD=5")
}
