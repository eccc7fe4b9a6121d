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

// Package crc implements the CRC-16-CCITT variant used to protect DTE
// packet headers and payloads (MIL-STD-188-110D Appendix A).
package crc

// Polynomial 0x1021, initial value 0xFFFF, no input/output reflection, no
// final xor. This is the same construction the donor's IL2P codec uses for
// its trailing frame CRC (doismellburning-samoyed/src/il2p_crc.go), built
// here with a lookup table instead of a bit-at-a-time loop.
const (
	poly = 0x1021
	init16 = 0xFFFF
)

var table [256]uint16

func init() {
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
}

// Checksum computes the CRC-16-CCITT (0x1021/0xFFFF) of data.
func Checksum(data []byte) uint16 {
	crc := uint16(init16)
	for _, b := range data {
		crc = (crc << 8) ^ table[byte(crc>>8)^b]
	}
	return crc
}

// Verify reports whether want is the CRC of data.
func Verify(data []byte, want uint16) bool {
	return Checksum(data) == want
}
