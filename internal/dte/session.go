// SPDX-License-Identifier: AGPL-3.0-or-later
// minutemodem - HF WALE waveform codec, DTE session, and eParl consensus core
// Copyright (C) 2023-2026 Jacob McSwain
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

package dte

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/HeroesLament/minutemodem-sub001/internal/modem"
)

// ProtocolVersion is the DTE session protocol version this implementation
// speaks; a peer CONNECT or CONNECT_ACK carrying any other value
// terminates the session.
const ProtocolVersion = 12

// State is one of the five DTE session states.
type State int

const (
	StateTCPConnected State = iota
	StateConnectSent
	StateAckSent
	StateProbing
	StateSendingSetup
	StateOperational
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateTCPConnected:
		return "tcp_connected"
	case StateConnectSent:
		return "connect_sent"
	case StateAckSent:
		return "ack_sent"
	case StateProbing:
		return "probing"
	case StateSendingSetup:
		return "sending_setup"
	case StateOperational:
		return "operational"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

var errUnexpectedPacket = errors.New("dte: unexpected packet for current state")

// SessionOptions configures a Session.
type SessionOptions struct {
	Rig              string
	MaxLatency       time.Duration // default 5s per §8 scenario S1
	HandshakeTimeout time.Duration // default 3s (connect_sent/ack_sent)
	ProbeTimeout     time.Duration // default 6s (probing)
	KeepaliveEvery   time.Duration // default 2s
	WatchdogTimeout  time.Duration // default 30s
	Logger           *slog.Logger
}

func (o SessionOptions) normalized() SessionOptions {
	if o.MaxLatency <= 0 {
		o.MaxLatency = 5 * time.Second
	}
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = 3 * time.Second
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = 6 * time.Second
	}
	if o.KeepaliveEvery <= 0 {
		o.KeepaliveEvery = 2 * time.Second
	}
	if o.WatchdogTimeout <= 0 {
		o.WatchdogTimeout = 30 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

type sessionMsg struct {
	pkt *Packet
	err error
}

// Session drives one DTE-to-modem TCP connection through the five-state
// handshake and, once operational, translates commands and events in
// both directions until the connection ends.
type Session struct {
	conn   net.Conn
	modem  modem.Control
	opts   SessionOptions
	log    *slog.Logger
	state  State
	rtt    time.Duration
	recvBuf []byte
	msgCh  chan sessionMsg
	lastSent time.Time
}

// NewSession wraps an accepted connection in a Session ready to Run.
func NewSession(conn net.Conn, ctl modem.Control, opts SessionOptions) *Session {
	opts = opts.normalized()
	return &Session{
		conn:  conn,
		modem: ctl,
		opts:  opts,
		log:   opts.Logger.With("component", "dte.session"),
		state: StateTCPConnected,
		msgCh: make(chan sessionMsg, 16),
	}
}

// State reports the session's current FSM state.
func (s *Session) State() State { return s.state }

// Run drives the session to completion, returning the reason it
// terminated: the connection's read error (io.EOF when the peer closes
// the socket), or nil when the modem's event channel is closed.
func (s *Session) Run(ctx context.Context) error {
	defer s.conn.Close()
	go s.socketReader()

	if err := s.runHandshake(ctx); err != nil {
		s.state = StateTerminated
		return err
	}

	s.state = StateOperational
	err := s.runOperational(ctx)
	s.state = StateTerminated
	return err
}

func (s *Session) runHandshake(ctx context.Context) error {
	// tcp_connected: send CONNECT, -> connect_sent
	if err := s.send(Packet{Type: TypeConnect, Payload: []byte{ProtocolVersion}}); err != nil {
		return err
	}
	s.state = StateConnectSent

	pkt, err := s.awaitPacket(ctx, s.opts.HandshakeTimeout)
	if err != nil {
		return err
	}
	if pkt.Type != TypeConnect {
		return errUnexpectedPacket
	}
	if len(pkt.Payload) < 1 || pkt.Payload[0] != ProtocolVersion {
		return ErrVersionMismatch
	}

	if err := s.send(Packet{Type: TypeConnectAck, Payload: []byte{ProtocolVersion}}); err != nil {
		return err
	}
	s.state = StateAckSent

	pkt, err = s.awaitPacket(ctx, s.opts.HandshakeTimeout)
	if err != nil {
		return err
	}

	var earlyProbe *Packet
	switch pkt.Type {
	case TypeConnectAck:
		if len(pkt.Payload) < 1 || pkt.Payload[0] != ProtocolVersion {
			return ErrVersionMismatch
		}
	case TypeConnectionProbe:
		earlyProbe = pkt
	default:
		return errUnexpectedPacket
	}
	s.state = StateProbing

	t0 := time.Now()
	if err := s.send(Packet{Type: TypeConnectionProbe}); err != nil {
		return err
	}

	var probePkt *Packet
	if earlyProbe != nil {
		probePkt = earlyProbe
	} else {
		probePkt, err = s.awaitPacket(ctx, s.opts.ProbeTimeout)
		if err != nil {
			return err
		}
	}
	if probePkt.Type != TypeConnectionProbe {
		return errUnexpectedPacket
	}

	s.rtt = time.Since(t0)
	if s.rtt > s.opts.MaxLatency {
		return ErrLatencyExceeded
	}
	s.state = StateSendingSetup

	return s.sendSetupSequence(ctx)
}

// RTT returns the round-trip time measured during probing.
func (s *Session) RTT() time.Duration { return s.rtt }

func (s *Session) sendSetupSequence(ctx context.Context) error {
	if err := s.send(Packet{Type: TypeData, Payload: []byte{CmdInitialSetup}}); err != nil {
		return err
	}
	if err := s.send(Packet{Type: TypeData, Payload: []byte{CmdTXSetup}}); err != nil {
		return err
	}
	status, err := s.modem.TxStatus(ctx, s.opts.Rig)
	if err != nil {
		status = modem.TXStatus{State: 0}
	}
	if err := s.send(Packet{Type: TypeData, Payload: buildTXStatusPayload(TXFlushed, status.QueuedBytes, status.FreeBytes, status.FifoSpace)}); err != nil {
		return err
	}
	return s.send(Packet{Type: TypeData, Payload: buildCarrierDetectPayload(false, 0, 0)})
}

func (s *Session) runOperational(ctx context.Context) error {
	events, unsubscribe := s.modem.Subscribe(ctx, s.opts.Rig)
	defer unsubscribe()

	keepalive := time.NewTicker(s.opts.KeepaliveEvery)
	defer keepalive.Stop()
	watchdog := time.NewTimer(s.opts.WatchdogTimeout)
	defer watchdog.Stop()

	s.lastSent = time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg := <-s.msgCh:
			if msg.err != nil {
				return msg.err
			}
			drainTimer(watchdog, s.opts.WatchdogTimeout)
			if err := s.handleCommand(ctx, *msg.pkt); err != nil {
				return err
			}

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.handleModemEvent(ev); err != nil {
				return err
			}

		case <-keepalive.C:
			if time.Since(s.lastSent) >= s.opts.KeepaliveEvery {
				if err := s.send(Packet{Type: TypeData}); err != nil {
					return err
				}
			}

		case <-watchdog.C:
			return ErrWatchdogTimeout
		}
	}
}

func (s *Session) handleCommand(ctx context.Context, pkt Packet) error {
	if pkt.Type != TypeData || len(pkt.Payload) < 1 {
		return errUnexpectedPacket
	}
	cmd := pkt.Payload[0]
	body := pkt.Payload[1:]

	switch cmd {
	case CmdArm:
		state, err := s.modem.ArmTX(ctx, s.opts.Rig)
		if err != nil {
			return s.send(Packet{Type: TypeData, Payload: buildTXNackPayload(NackNotArmed)})
		}
		status, _ := s.modem.TxStatus(ctx, s.opts.Rig)
		return s.send(Packet{Type: TypeData, Payload: buildTXStatusPayload(state, status.QueuedBytes, status.FreeBytes, status.FifoSpace)})

	case CmdStart:
		result, err := s.modem.StartTX(ctx, s.opts.Rig)
		if err != nil {
			return s.send(Packet{Type: TypeData, Payload: buildTXNackPayload(NackNotArmed)})
		}
		if result == modem.TXStarted {
			status, _ := s.modem.TxStatus(ctx, s.opts.Rig)
			return s.send(Packet{Type: TypeData, Payload: buildTXStatusPayload(TXStarted, status.QueuedBytes, status.FreeBytes, status.FifoSpace)})
		}
		// Asynchronous start: rely on the modem event path.
		return nil

	case CmdTXData:
		order, data, ok := parseTXDataPayload(body)
		if !ok {
			return errUnexpectedPacket
		}
		err := s.modem.TxData(ctx, s.opts.Rig, data, order)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, modem.ErrQueueFull):
			return nil // backpressure: surfaced by the stalled TCP window, no reply
		case errors.Is(err, modem.ErrNotArmed):
			return s.send(Packet{Type: TypeData, Payload: buildTXNackPayload(NackNotArmed)})
		default:
			// No NACK reason code represents an arbitrary modem error;
			// surface it rather than claiming a reason that isn't true.
			return err
		}

	case CmdAbortTX:
		return s.modem.AbortTX(ctx, s.opts.Rig)

	case CmdAbortRX:
		return s.modem.AbortRX(ctx, s.opts.Rig)

	case CmdRequestTXStatus:
		status, err := s.modem.TxStatus(ctx, s.opts.Rig)
		if err != nil {
			return err
		}
		return s.send(Packet{Type: TypeData, Payload: buildTXStatusPayload(status.State, status.QueuedBytes, status.FreeBytes, status.FifoSpace)})

	default:
		s.log.Warn("dte: unhandled command", "command", cmd)
		return nil
	}
}

func (s *Session) handleModemEvent(ev modem.Event) error {
	switch ev.Kind {
	case modem.EventTXStatus:
		return s.send(Packet{Type: TypeData, Payload: buildTXStatusPayload(ev.TXStatus.State, ev.TXStatus.QueuedBytes, ev.TXStatus.FreeBytes, ev.TXStatus.FifoSpace)})
	case modem.EventTXUnderrun:
		return s.send(Packet{Type: TypeData, Payload: buildTXNackPayload(NackUnderrun)})
	case modem.EventRXCarrier:
		return s.send(Packet{Type: TypeData, Payload: buildCarrierDetectPayload(ev.Carrier.Detected, ev.Carrier.DataRate, ev.Carrier.BlockingFactor)})
	case modem.EventRXData:
		return s.send(Packet{Type: TypeData, Payload: buildRXDataPayload(ev.RXData.Order, ev.RXData.Payload)})
	default:
		return fmt.Errorf("dte: unknown modem event kind %d", ev.Kind)
	}
}

func (s *Session) send(pkt Packet) error {
	wire := Build(pkt)
	if _, err := s.conn.Write(wire); err != nil {
		return err
	}
	s.lastSent = time.Now()
	return nil
}

// awaitPacket blocks until a complete packet has been parsed from the
// socket or timeout elapses. Because socketReader eagerly parses every
// complete packet already sitting in the receive buffer before blocking
// on the next read, a packet the peer coalesced with an earlier one
// (the "buffered-arrival rule") is returned immediately without waiting.
func (s *Session) awaitPacket(ctx context.Context, timeout time.Duration) (*Packet, error) {
	var timerC <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timerC = t.C
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg := <-s.msgCh:
		if msg.err != nil {
			return nil, msg.err
		}
		return msg.pkt, nil
	case <-timerC:
		return nil, ErrHandshakeTimeout
	}
}

// socketReader continuously reads from the connection, parsing and
// emitting every complete packet it finds before blocking on the next
// read.
func (s *Session) socketReader() {
	buf := make([]byte, 4096)
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			s.recvBuf = append(s.recvBuf, buf[:n]...)
			for {
				res := Parse(s.recvBuf)
				s.recvBuf = s.recvBuf[res.Consumed:]
				switch res.Status {
				case Complete:
					pkt := res.Packet
					s.msgCh <- sessionMsg{pkt: &pkt}
					continue
				case Errored:
					err := res.Err
					if errors.Is(err, ErrHeaderCRC) || errors.Is(err, ErrPayloadCRC) {
						err = fmt.Errorf("%w: %w", ErrCRCMismatch, res.Err)
					}
					s.msgCh <- sessionMsg{err: err}
					return
				default:
				}
				break
			}
		}
		if err != nil {
			s.msgCh <- sessionMsg{err: err}
			return
		}
	}
}

func drainTimer(t *time.Timer, reset time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(reset)
}
