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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildParseRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x01},
		{0x05, 0xAA, 0x00, 0x00},
		make([]byte, MaxPayloadSize),
	}
	for _, payload := range cases {
		wire := Build(Packet{Type: TypeData, Payload: payload})
		result := Parse(wire)
		require.Equal(t, Complete, result.Status)
		require.Equal(t, TypeData, result.Packet.Type)
		require.Equal(t, payload, result.Packet.Payload)
		require.Equal(t, len(wire), result.Consumed)
	}
}

func TestParseSkipsGarbageBeforePreamble(t *testing.T) {
	wire := Build(Packet{Type: TypeConnect})
	buf := append([]byte{0xDE, 0xAD, 0xBE, 0xEF}, wire...)
	result := Parse(buf)
	require.Equal(t, Complete, result.Status)
	require.Equal(t, len(buf), result.Consumed)
}

func TestParseIncompleteWaitsForMoreBytes(t *testing.T) {
	wire := Build(Packet{Type: TypeData, Payload: []byte("HELLO")})
	result := Parse(wire[:len(wire)-1])
	require.Equal(t, Incomplete, result.Status)
}

func TestParseHeaderCRCBitFlip(t *testing.T) {
	wire := Build(Packet{Type: TypeConnect})
	wire[3] ^= 0x01 // flip a bit inside the header, before the header CRC
	result := Parse(wire)
	require.Equal(t, Errored, result.Status)
	require.ErrorIs(t, result.Err, ErrHeaderCRC)
}

func TestParsePayloadCRCBitFlip(t *testing.T) {
	wire := Build(Packet{Type: TypeData, Payload: []byte("HELLO")})
	wire[len(wire)-3] ^= 0x01 // flip a bit inside the payload
	result := Parse(wire)
	require.Equal(t, Errored, result.Status)
	require.ErrorIs(t, result.Err, ErrPayloadCRC)
}
