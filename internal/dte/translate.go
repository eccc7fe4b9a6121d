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

import "encoding/binary"

// buildTXStatusPayload encodes a TX_STATUS DATA command payload:
// command code, state, queued_bytes, free_bytes, fifo_space (each count
// big-endian uint16).
func buildTXStatusPayload(state TXState, queued, free, fifo int) []byte {
	payload := make([]byte, 0, 8)
	payload = append(payload, CmdTXStatus, byte(state))
	payload = binary.BigEndian.AppendUint16(payload, uint16(queued))
	payload = binary.BigEndian.AppendUint16(payload, uint16(free))
	payload = binary.BigEndian.AppendUint16(payload, uint16(fifo))
	return payload
}

// buildTXNackPayload encodes a TX_NACK DATA command payload: command
// code, reason.
func buildTXNackPayload(reason byte) []byte {
	return []byte{CmdTXNack, reason}
}

// buildCarrierDetectPayload encodes a CARRIER_DETECT DATA command
// payload: command code, detected flag, data_rate (uint16 BE), blocking
// factor. data_rate and blocking factor are zero on carrier loss.
func buildCarrierDetectPayload(detected bool, dataRate, blockingFactor int) []byte {
	payload := make([]byte, 0, 5)
	var d byte
	if detected {
		d = 1
	}
	payload = append(payload, CmdCarrierDetect, d)
	payload = binary.BigEndian.AppendUint16(payload, uint16(dataRate))
	payload = append(payload, byte(blockingFactor))
	return payload
}

// buildRXDataPayload encodes an RX_DATA DATA command payload: command
// code, order flag, data.
func buildRXDataPayload(order OrderFlag, data []byte) []byte {
	payload := make([]byte, 0, 2+len(data))
	payload = append(payload, CmdRXData, byte(order))
	payload = append(payload, data...)
	return payload
}

// buildTXDataPayload encodes a TX_DATA DATA command payload: command
// code, order flag, data.
func buildTXDataPayload(order OrderFlag, data []byte) []byte {
	payload := make([]byte, 0, 2+len(data))
	payload = append(payload, CmdTXData, byte(order))
	payload = append(payload, data...)
	return payload
}

// parseTXDataPayload decodes a TX_DATA command payload (without the
// leading command-code byte, already stripped by the caller).
func parseTXDataPayload(payload []byte) (order OrderFlag, data []byte, ok bool) {
	if len(payload) < 1 {
		return 0, nil, false
	}
	return OrderFlag(payload[0]), payload[1:], true
}
