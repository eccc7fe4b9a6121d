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

package dte_test

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HeroesLament/minutemodem-sub001/internal/dte"
	"github.com/HeroesLament/minutemodem-sub001/internal/modem"
	"github.com/HeroesLament/minutemodem-sub001/internal/wale"
)

// peerConn is a minimal stand-in for a DTE peer driving the other end of
// the socket through the five-state handshake.
type peerConn struct {
	conn net.Conn
	buf  []byte
}

func (p *peerConn) readPacket(t *testing.T) dte.Packet {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	require.NoError(t, p.conn.SetReadDeadline(deadline))
	tmp := make([]byte, 4096)
	for {
		res := dte.Parse(p.buf)
		if res.Status == dte.Complete {
			p.buf = p.buf[res.Consumed:]
			return res.Packet
		}
		if res.Status == dte.Errored {
			t.Fatalf("peer: parse error: %v", res.Err)
		}
		n, err := p.conn.Read(tmp)
		require.NoError(t, err)
		p.buf = append(p.buf, tmp[:n]...)
	}
}

func (p *peerConn) send(t *testing.T, pkt dte.Packet) {
	t.Helper()
	_, err := p.conn.Write(dte.Build(pkt))
	require.NoError(t, err)
}

// runHandshakeAsPeer drives the peer side of scenario S1: respond to
// CONNECT, respond to CONNECTION_PROBE, then drain the setup sequence.
func runHandshakeAsPeer(t *testing.T, p *peerConn) {
	t.Helper()

	connectPkt := p.readPacket(t)
	require.Equal(t, dte.TypeConnect, connectPkt.Type)
	require.Equal(t, []byte{dte.ProtocolVersion}, connectPkt.Payload)
	p.send(t, dte.Packet{Type: dte.TypeConnect, Payload: []byte{dte.ProtocolVersion}})

	ackPkt := p.readPacket(t)
	require.Equal(t, dte.TypeConnectAck, ackPkt.Type)
	p.send(t, dte.Packet{Type: dte.TypeConnectAck, Payload: []byte{dte.ProtocolVersion}})

	probePkt := p.readPacket(t)
	require.Equal(t, dte.TypeConnectionProbe, probePkt.Type)
	p.send(t, dte.Packet{Type: dte.TypeConnectionProbe})

	// sending_setup: INITIAL_SETUP, TX_SETUP, TX_STATUS(flushed), CARRIER_DETECT(no_carrier)
	initial := p.readPacket(t)
	require.Equal(t, dte.TypeData, initial.Type)
	require.Equal(t, dte.CmdInitialSetup, initial.Payload[0])

	txSetup := p.readPacket(t)
	require.Equal(t, dte.CmdTXSetup, txSetup.Payload[0])

	txStatus := p.readPacket(t)
	require.Equal(t, dte.CmdTXStatus, txStatus.Payload[0])
	require.Equal(t, byte(dte.TXFlushed), txStatus.Payload[1])

	carrier := p.readPacket(t)
	require.Equal(t, dte.CmdCarrierDetect, carrier.Payload[0])
	require.Equal(t, byte(0), carrier.Payload[1])
}

func TestSessionHandshake(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	lb := modem.NewLoopback(nil, wale.WaveformDeep)
	sess := dte.NewSession(serverConn, lb, dte.SessionOptions{Rig: "rig0"})

	runDone := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		runDone <- sess.Run(ctx)
	}()

	peer := &peerConn{conn: clientConn}
	runHandshakeAsPeer(t, peer)

	require.Eventually(t, func() bool {
		return sess.State() == dte.StateOperational
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSessionTXRoundTrip(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	lb := modem.NewLoopback(nil, wale.WaveformFast)
	sess := dte.NewSession(serverConn, lb, dte.SessionOptions{Rig: "rig0"})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = sess.Run(ctx)
	}()

	peer := &peerConn{conn: clientConn}
	runHandshakeAsPeer(t, peer)

	peer.send(t, dte.Packet{Type: dte.TypeData, Payload: []byte{dte.CmdArm}})
	armStatus := peer.readPacket(t)
	require.Equal(t, dte.CmdTXStatus, armStatus.Payload[0])
	require.Equal(t, byte(dte.TXArmed), armStatus.Payload[1])

	txDataPayload := append([]byte{dte.CmdTXData, byte(dte.OrderFirstAndLast)}, []byte("HI")...)
	peer.send(t, dte.Packet{Type: dte.TypeData, Payload: txDataPayload})

	peer.send(t, dte.Packet{Type: dte.TypeData, Payload: []byte{dte.CmdStart}})
	startStatus := peer.readPacket(t)
	require.Equal(t, dte.CmdTXStatus, startStatus.Payload[0])
	require.Equal(t, byte(dte.TXStarted), startStatus.Payload[1])

	var rxData dte.Packet
	for i := 0; i < 10; i++ {
		pkt := peer.readPacket(t)
		if len(pkt.Payload) > 0 && pkt.Payload[0] == dte.CmdRXData {
			rxData = pkt
			break
		}
	}
	require.NotEmpty(t, rxData.Payload)
	require.Equal(t, byte(dte.OrderFirstAndLast), rxData.Payload[1])
	require.True(t, bytes.Equal([]byte("HI"), rxData.Payload[2:]))
}
