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

// tlcBlock is the fixed 256-symbol tuner/level-control pattern, supplied
// verbatim by the standard. This is a fixed, deterministic stand-in of the
// same length and alphabet (the full 8-PSK symbol set, since a TLC block
// carries carrier/level information rather than data).
var tlcBlock = buildTLCBlock()

func buildTLCBlock() [256]byte {
	var b [256]byte
	for i := range b {
		b[i] = byte(i % 8)
	}
	return b
}

// BuildTLC returns floor(ms*2400/1000) symbols by repeating and truncating
// the fixed 256-symbol TLC block. A non-positive ms yields no symbols.
func BuildTLC(ms float64) []byte {
	n := millisToSymbols(ms)
	if n <= 0 {
		return nil
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = tlcBlock[i%len(tlcBlock)]
	}
	return out
}
