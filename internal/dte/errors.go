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

import "errors"

var (
	// ErrHeaderCRC is returned by Parse when a candidate packet's header
	// CRC does not verify.
	ErrHeaderCRC = errors.New("dte: header CRC mismatch")
	// ErrPayloadCRC is returned by Parse when a candidate packet's
	// payload CRC does not verify.
	ErrPayloadCRC = errors.New("dte: payload CRC mismatch")
	// ErrPayloadTooLarge is returned when a candidate packet's declared
	// size exceeds MaxPayloadSize.
	ErrPayloadTooLarge = errors.New("dte: payload size exceeds MaxPayloadSize")

	// ErrVersionMismatch is returned by the session when a peer CONNECT
	// or CONNECT_ACK carries a different protocol version.
	ErrVersionMismatch = errors.New("dte: protocol version mismatch")
	// ErrWatchdogTimeout is returned when no packet has been received
	// from the peer within the watchdog interval while operational.
	ErrWatchdogTimeout = errors.New("dte: watchdog timeout")
	// ErrCRCMismatch is returned when the session terminates because a
	// received packet failed CRC validation.
	ErrCRCMismatch = errors.New("dte: packet failed CRC validation")
	// ErrBadPreamble is returned when the session terminates because the
	// peer stream could not be resynchronized on the packet preamble.
	ErrBadPreamble = errors.New("dte: could not resynchronize on packet preamble")
	// ErrHandshakeTimeout is returned when a handshake state's timer
	// expires before the expected peer packet arrives.
	ErrHandshakeTimeout = errors.New("dte: handshake state timed out")
	// ErrLatencyExceeded is returned when the measured round-trip time
	// during probing exceeds the configured maximum.
	ErrLatencyExceeded = errors.New("dte: measured round-trip latency exceeds maximum")
)
