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

package wale

import "github.com/HeroesLament/minutemodem-sub001/internal/bitutil"

// DecodePDU composes DecodeData, DecodeBits (Viterbi), and Deinterleave to
// recover the original PDU bytes from the data-portion symbols of a frame
// assembled by AssembleFrame. pduLen is the original PDU length in bytes.
func DecodePDU(w Waveform, dataSymbols []byte, pduLen int) []byte {
	dibits := DecodeData(w, dataSymbols)
	deinterleaved := Deinterleave(dibits, -1)
	bits := DecodeBits(deinterleaved)
	// The message bits occupy the front of the decoded stream; the flush
	// bits and any interleaver block padding trail after them, so a
	// straight prefix truncation recovers the original message.
	want := pduLen * 8
	if want > len(bits) {
		want = len(bits)
	}
	return bitutil.BytesFromBits(bits[:want])
}
