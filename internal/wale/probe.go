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

// captureProbeSeq is the fixed 96-symbol capture probe, drawn only from the
// bipolar {0,4} 8-PSK alphabet per §4.1. This is a fixed, deterministic
// stand-in for the standard's literal sequence with the same length and
// alphabet restriction.
var captureProbeSeq = buildCaptureProbe()

func buildCaptureProbe() [CaptureProbeSymbols]byte {
	var p [CaptureProbeSymbols]byte
	pattern := []byte{0, 4, 4, 0, 0, 0, 4, 4, 4, 0, 4, 0}
	for i := range p {
		p[i] = pattern[i%len(pattern)]
	}
	return p
}

// CaptureProbe returns a copy of the fixed 96-symbol capture probe
// sequence.
func CaptureProbe() []byte {
	out := make([]byte, CaptureProbeSymbols)
	copy(out, captureProbeSeq[:])
	return out
}

// fastProbeSeq is the Fast WALE inter-chunk probe: a 16-element sequence
// doubled to 32 symbols, drawn from the bipolar {0,4} alphabet.
var fastProbeSeq = buildFastProbe()

func buildFastProbe() [FastProbeSymbols]byte {
	var p [FastProbeSymbols]byte
	half := []byte{0, 0, 4, 0, 4, 4, 0, 4, 4, 0, 4, 0, 0, 4, 0, 4}
	copy(p[:16], half)
	copy(p[16:], half)
	return p
}

// FastProbe returns a copy of the fixed 32-symbol Fast WALE probe.
func FastProbe() []byte {
	out := make([]byte, FastProbeSymbols)
	copy(out, fastProbeSeq[:])
	return out
}

// probeCorrelation scores how well a received window matches the capture
// probe sequence, using the same +1/-1 scheme as Walsh correlation.
func probeCorrelation(window []byte) int {
	return correlate(window, captureProbeSeq[:])
}
