package session

import (
	"context"
	"time"

	"github.com/modemkit/gosms/handler"
	"github.com/modemkit/gosms/sar"
	"github.com/modemkit/gosms/serial"
)

// Connect opens driver, brings up the handler, and starts the receive
// and keep-alive loops, following the atomic connect flow of
// spec.md §4.8. On any failure it disconnects whatever it already
// opened before returning the error.
func Connect(driver serial.Driver, opts Options) (*Session, error) {
	s := &Session{
		driver:      driver,
		monitor:     serial.NewChannelMonitor(),
		opts:        opts,
		reassembler: sar.New(),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.mu.Lock()
	err := s.connectLocked()
	s.mu.Unlock()

	if err != nil {
		s.Disconnect()
		return nil, err
	}

	if s.opts.ReceiveMode != ReceiveSync {
		s.startReceiveLoop()
	}
	go s.keepAliveLoop()
	return s, nil
}

// startReceiveLoop launches the receive loop under its own child context,
// so SetReceiveMode can stop it without tearing down the whole session.
func (s *Session) startReceiveLoop() {
	ctx, cancel := context.WithCancel(s.ctx)
	s.receiveCancel = cancel
	s.wg.Add(1)
	go s.receiveLoop(ctx)
}

// stopReceiveLoop cancels a running receive loop started by
// startReceiveLoop, if any, and wakes it so it exits after its current
// pass. It does not wait for the loop to exit.
func (s *Session) stopReceiveLoop() {
	if s.receiveCancel == nil {
		return
	}
	s.receiveCancel()
	s.receiveCancel = nil
	s.monitor.Notify(serial.NoEvent)
}

// SetReceiveMode switches how incoming messages are delivered after
// Connect, per spec.md §5's set_receive_mode (one of the handler-interacting
// operations the session mutex guards). Switching into ReceiveSync stops
// the receive loop; switching out of it starts one.
func (s *Session) SetReceiveMode(mode ReceiveMode) error {
	s.mu.Lock()
	prev := s.opts.ReceiveMode
	var err error
	if mode == ReceiveAsyncCmti {
		err = s.handler.EnableIndications()
	} else {
		err = s.handler.DisableIndications()
	}
	if err == nil {
		s.opts.ReceiveMode = mode
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	switch {
	case mode == ReceiveSync && prev != ReceiveSync:
		s.stopReceiveLoop()
	case mode != ReceiveSync && prev == ReceiveSync:
		s.startReceiveLoop()
	}
	return nil
}

func (s *Session) connectLocked() error {
	if err := s.driver.Open(s.opts.PortName, s.opts.BaudRate); err != nil {
		return err
	}
	if err := s.driver.EmptyBuffer(); err != nil {
		return err
	}
	s.driver.SetNewMessageMonitor(s.monitor)

	h, err := handler.Resolve(s.opts.Manufacturer, s.opts.Model, s.opts.Alias, s)
	if err != nil {
		return err
	}
	s.handler = h

	if err := h.Sync(); err != nil {
		return err
	}
	if err := h.Reset(); err != nil {
		return err
	}
	if !h.IsAlive() {
		return ErrNotConnected
	}

	if err := s.unlockSIM(); err != nil {
		return err
	}

	if err := h.EchoOff(); err != nil {
		return err
	}
	if err := s.waitForRegistration(); err != nil {
		return err
	}
	if err := h.SetVerboseErrors(); err != nil {
		return err
	}

	locs, err := h.GetStorageLocations()
	if err != nil {
		return err
	}
	if len(s.opts.StorageLocations) > 0 {
		locs = s.opts.StorageLocations
	}
	s.storageLocations = locs

	if err := h.SetPDUMode(); err != nil {
		return ErrUnsupportedMode
	}

	if s.opts.ReceiveMode == ReceiveAsyncCmti {
		if err := h.EnableIndications(); err != nil {
			return err
		}
	} else if err := h.DisableIndications(); err != nil {
		return err
	}

	s.refreshDeviceInfoLocked()
	return nil
}

func (s *Session) refreshDeviceInfoLocked() {
	s.info.Manufacturer, _ = s.handler.GetManufacturer()
	s.info.Model, _ = s.handler.GetModel()
	s.info.Serial, _ = s.handler.GetSerial()
}

// unlockSIM queries the SIM lock state and submits SimPIN/SimPIN2 as
// needed, per spec.md §4.8 step 6.
func (s *Session) unlockSIM() error {
	status, err := s.handler.GetPINResponse()
	if err != nil {
		return err
	}
	if status == "SIM PIN" {
		if s.opts.SimPIN == "" {
			return ErrPINRequired
		}
		if err := s.handler.EnterPIN(s.opts.SimPIN); err != nil {
			return err
		}
		if status, err = s.handler.GetPINResponse(); err != nil {
			return err
		}
	}
	if status == "SIM PIN2" {
		if s.opts.SimPIN2 == "" {
			if s.opts.ThrowOnMissingPIN2 {
				return ErrPIN2Required
			}
			return nil
		}
		return s.handler.EnterPIN(s.opts.SimPIN2)
	}
	if status == "SIM PUK" || status == "SIM PUK2" {
		return ErrSIMPUK
	}
	return nil
}

// waitForRegistration polls AT+CREG? until the modem reports home or
// roaming registration, per spec.md §4.8's network registration wait.
func (s *Session) waitForRegistration() error {
	for {
		state, err := s.handler.GetNetworkRegistration()
		if err != nil {
			return ErrInvalidRegistrationResponse
		}
		switch state {
		case handler.RegistrationHome, handler.RegistrationRoaming:
			return nil
		case handler.RegistrationSearching:
			time.Sleep(time.Second)
		case handler.RegistrationUnknown:
			return ErrInvalidRegistrationResponse
		default:
			return ErrRegistrationFailed
		}
	}
}

// Disconnect idempotently tears the session down: it stops the receive
// and keep-alive loops, wakes the receive loop from its monitor wait and
// joins it, and closes the driver. The keep-alive loop is not joined,
// since it may be blocked on an unresponsive modem.
func (s *Session) Disconnect() error {
	var err error
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		if s.monitor != nil {
			s.monitor.Notify(serial.NoEvent)
		}
		s.wg.Wait()
		err = s.driver.Close()
	})
	return err
}
