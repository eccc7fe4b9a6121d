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
	"bytes"
	"encoding/binary"

	"github.com/HeroesLament/minutemodem-sub001/internal/crc"
)

// ParseStatus classifies the outcome of a single Parse call.
type ParseStatus int

const (
	// Incomplete means buf does not yet contain a full packet; the
	// caller should read more bytes, drop Consumed bytes from the front
	// of buf, and try again once more data has arrived.
	Incomplete ParseStatus = iota
	// Complete means a packet was fully parsed; Consumed bytes should be
	// dropped from the front of buf before the next call.
	Complete
	// Errored means a CRC-protected candidate packet failed validation;
	// Consumed bytes (enough to skip past the bad preamble match) should
	// be dropped so the scan can resynchronize.
	Errored
)

const (
	headerLen    = 6 // preamble(3) + type(1) + size(2)
	headerCRCLen = 2
	payloadCRCLen = 2
)

// ParseResult is the outcome of one Parse call over a byte buffer.
type ParseResult struct {
	Status   ParseStatus
	Packet   Packet
	Consumed int
	Err      error
}

// Parse scans buf for one DTE packet starting at or after buf[0],
// skipping non-preamble bytes. It never blocks and never requires the
// full packet to be present in a single call: callers accumulate bytes
// from the socket, call Parse repeatedly, and drop Consumed bytes from
// the front of their buffer after each call.
func Parse(buf []byte) ParseResult {
	idx := bytes.Index(buf, preamble[:])
	if idx < 0 {
		// Keep the last 2 bytes in case they are the start of a
		// preamble that is completed by the next read.
		consumed := len(buf) - 2
		if consumed < 0 {
			consumed = 0
		}
		return ParseResult{Status: Incomplete, Consumed: consumed}
	}

	avail := buf[idx:]
	if len(avail) < headerLen+headerCRCLen {
		return ParseResult{Status: Incomplete, Consumed: idx}
	}

	header := avail[:headerLen]
	wantHeaderCRC := binary.BigEndian.Uint16(avail[headerLen : headerLen+headerCRCLen])
	if !crc.Verify(header, wantHeaderCRC) {
		return ParseResult{Status: Errored, Consumed: idx + 1, Err: ErrHeaderCRC}
	}

	typ := header[3]
	size := int(binary.BigEndian.Uint16(header[4:6]))
	if size > MaxPayloadSize {
		return ParseResult{Status: Errored, Consumed: idx + 1, Err: ErrPayloadTooLarge}
	}

	if size == 0 {
		return ParseResult{
			Status:   Complete,
			Packet:   Packet{Type: typ, Payload: []byte{}},
			Consumed: idx + headerLen + headerCRCLen,
		}
	}

	need := headerLen + headerCRCLen + size + payloadCRCLen
	if len(avail) < need {
		return ParseResult{Status: Incomplete, Consumed: idx}
	}

	payload := avail[headerLen+headerCRCLen : headerLen+headerCRCLen+size]
	wantPayloadCRC := binary.BigEndian.Uint16(avail[headerLen+headerCRCLen+size : need])
	if !crc.Verify(payload, wantPayloadCRC) {
		return ParseResult{Status: Errored, Consumed: idx + 1, Err: ErrPayloadCRC}
	}

	payloadCopy := make([]byte, size)
	copy(payloadCopy, payload)
	return ParseResult{
		Status:   Complete,
		Packet:   Packet{Type: typ, Payload: payloadCopy},
		Consumed: idx + need,
	}
}
