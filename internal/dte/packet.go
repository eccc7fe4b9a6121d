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

// Package dte implements the MIL-STD-188-110D Appendix A DTE-to-modem
// socket protocol: packet framing, the five-state session handshake, and
// translation between DTE commands and modem events.
package dte

import (
	"encoding/binary"

	"github.com/HeroesLament/minutemodem-sub001/internal/crc"
)

// Packet type codes.
const (
	TypeConnect         byte = 0x01
	TypeConnectAck      byte = 0x02
	TypeConnectionProbe byte = 0x03
	TypeData            byte = 0x04
	TypeError           byte = 0xFF
)

// Command codes carried inside a DATA packet payload.
const (
	CmdTXData           byte = 0x01
	CmdRXData           byte = 0x02
	CmdArm              byte = 0x03
	CmdStart            byte = 0x04
	CmdTXStatus         byte = 0x05
	CmdTXNack           byte = 0x06
	CmdCarrierDetect    byte = 0x07
	CmdRequestTXStatus  byte = 0x08
	CmdTXSetup          byte = 0x09
	CmdInitialSetup     byte = 0x0A
	CmdAbortTX          byte = 0x0B
	CmdAbortRX          byte = 0x0C
)

// TXState values carried in a TX_STATUS command payload.
type TXState byte

const (
	TXFlushed            TXState = 0
	TXArmedPortNotReady   TXState = 1
	TXArmed               TXState = 2
	TXStarted             TXState = 3
	TXDrainingOK          TXState = 4
	TXDrainingForced      TXState = 5
)

// OrderFlag values carried with TX_DATA / RX_DATA commands.
type OrderFlag byte

const (
	OrderFirst        OrderFlag = 0
	OrderContinuation OrderFlag = 1
	OrderLast         OrderFlag = 2
	OrderFirstAndLast OrderFlag = 3
)

// NACK reason codes.
const (
	NackUnderrun  byte = 1
	NackNotArmed  byte = 2
	NackQueueFull byte = 3
)

// MaxPayloadSize is the largest payload size (in bytes) a packet may
// declare in its 2-byte big-endian size field: Build panics above it and
// Parse reports ErrPayloadTooLarge.
const MaxPayloadSize = 4086

// preamble is the fixed 3-byte DTE packet preamble.
var preamble = [3]byte{0x49, 0x50, 0x55}

// Packet is one framed DTE protocol packet.
type Packet struct {
	Type    byte
	Payload []byte
}

// Build serializes p into its wire representation: preamble, type, size,
// header CRC, and (if the payload is non-empty) the payload followed by
// its own CRC.
func Build(p Packet) []byte {
	if len(p.Payload) > MaxPayloadSize {
		panic("dte: payload exceeds MaxPayloadSize")
	}

	header := make([]byte, 0, 6)
	header = append(header, preamble[:]...)
	header = append(header, p.Type)
	header = binary.BigEndian.AppendUint16(header, uint16(len(p.Payload)))

	headerCRC := crc.Checksum(header)
	out := make([]byte, 0, len(header)+2+len(p.Payload)+2)
	out = append(out, header...)
	out = binary.BigEndian.AppendUint16(out, headerCRC)

	if len(p.Payload) > 0 {
		out = append(out, p.Payload...)
		payloadCRC := crc.Checksum(p.Payload)
		out = binary.BigEndian.AppendUint16(out, payloadCRC)
	}
	return out
}
