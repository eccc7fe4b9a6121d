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

package crc

import "testing"

func TestChecksumTestVector(t *testing.T) {
	got := Checksum([]byte("123456789"))
	const want = 0x29B1
	if got != want {
		t.Fatalf("Checksum(%q) = 0x%04X, want 0x%04X", "123456789", got, want)
	}
}

func TestVerifyDetectsBitFlip(t *testing.T) {
	data := []byte("the quick brown fox")
	want := Checksum(data)
	if !Verify(data, want) {
		t.Fatal("expected Verify to succeed on unmodified data")
	}

	flipped := append([]byte(nil), data...)
	flipped[0] ^= 0x01
	if Verify(flipped, want) {
		t.Fatal("expected Verify to fail after a single-bit flip")
	}
}
