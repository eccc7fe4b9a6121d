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

// Package modem defines the narrow control-plane contract a DTE session
// drives, plus a loopback implementation that exercises the WALE codec
// without a real HF channel (the channel's physics are an out-of-scope,
// opaque DSP dependency).
package modem

import (
	"context"
	"errors"

	"github.com/HeroesLament/minutemodem-sub001/internal/dte"
)

var (
	// ErrQueueFull is returned by TxData when the TX queue has no room
	// for another chunk.
	ErrQueueFull = errors.New("modem: tx queue full")
	// ErrNotArmed is returned by StartTX and TxData when the rig has not
	// been armed.
	ErrNotArmed = errors.New("modem: rig not armed")
)

// TXStart distinguishes an immediately-started TX from one that will
// complete asynchronously (reported later via a TXStatus event).
type TXStart int

const (
	TXStarted TXStart = iota
	TXStarting
)

// TXStatus is the reply to tx_status(rig).
type TXStatus struct {
	State       dte.TXState
	QueuedBytes int
	FreeBytes   int
	FifoSpace   int
}

// RXState describes the modem's receive-path state.
type RXState int

const (
	RXIdle RXState = iota
	RXCarrierDetected
)

// RXStatus is the reply to rx_status(rig).
type RXStatus struct {
	State          RXState
	DataRate       int
	BlockingFactor int
}

// EventKind discriminates the Event union.
type EventKind int

const (
	EventTXStatus EventKind = iota
	EventTXUnderrun
	EventRXCarrier
	EventRXData
)

// CarrierEvent carries §4.2's CARRIER_DETECT fields; DataRate and
// BlockingFactor are zero when Detected is false (carrier lost).
type CarrierEvent struct {
	Detected       bool
	DataRate       int
	BlockingFactor int
}

// RXDataEvent carries one received, already-decoded application payload.
type RXDataEvent struct {
	Payload []byte
	Order   dte.OrderFlag
}

// Event is one modem-to-DTE notification.
type Event struct {
	Kind     EventKind
	TXStatus TXStatus
	Carrier  CarrierEvent
	RXData   RXDataEvent
}

// Control is the narrow modem control API a DTE session drives. rig
// identifies which physical/simulated radio instance to address;
// implementations that manage a single rig may ignore it.
type Control interface {
	ArmTX(ctx context.Context, rig string) (dte.TXState, error)
	StartTX(ctx context.Context, rig string) (TXStart, error)
	TxData(ctx context.Context, rig string, payload []byte, order dte.OrderFlag) error
	AbortTX(ctx context.Context, rig string) error
	AbortRX(ctx context.Context, rig string) error
	TxStatus(ctx context.Context, rig string) (TXStatus, error)
	RxStatus(ctx context.Context, rig string) (RXStatus, error)

	// Subscribe returns a channel of future events and an unsubscribe
	// function. The channel is closed once unsubscribe is called.
	Subscribe(ctx context.Context, rig string) (<-chan Event, func())
}
