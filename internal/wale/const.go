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

// Package wale implements the WALE (Waveform for ALE) symbol-level codec
// for both the Deep (Walsh-16, ~150 bps) and Fast (BPSK, ~2400 bps)
// variants defined by MIL-STD-188-141D Appendix G.
package wale

// Waveform identifies which WALE variant a frame or symbol stream uses.
type Waveform int

const (
	// WaveformDeep is the Walsh-16 modulated, ~150 bps variant.
	WaveformDeep Waveform = iota
	// WaveformFast is the BPSK modulated, ~2400 bps variant.
	WaveformFast
)

func (w Waveform) String() string {
	switch w {
	case WaveformDeep:
		return "deep"
	case WaveformFast:
		return "fast"
	default:
		return "unknown"
	}
}

const (
	// SymbolRateHz is the 8-PSK symbol rate shared by both WALE variants.
	SymbolRateHz = 2400

	// CaptureProbeSymbols is the fixed length of the capture-probe sequence.
	CaptureProbeSymbols = 96

	// DeepPreambleSymbols is the total symbol length of one Deep preamble
	// (14 fixed di-bits + 4 exceptional di-bits, 32 chips each).
	DeepPreambleSymbols = 18 * 32 // 576

	// FastPreambleSymbols is the total symbol length of one Fast preamble
	// (5 fixed di-bits + 4 exceptional di-bits, 32 chips each).
	FastPreambleSymbols = 9 * 32 // 288

	// MaxPreambleCount is the largest number of preambles a frame may carry.
	MaxPreambleCount = 16

	// FastProbeSymbols is the length of the inter-chunk probe inserted into
	// Fast WALE data (a 16-element sequence doubled).
	FastProbeSymbols = 32

	// FastDataChunkSymbols is the size of a Fast WALE data chunk between probes.
	FastDataChunkSymbols = 96
)

// symbolsToMillis converts a symbol count to a duration in milliseconds at
// the shared WALE symbol rate.
func symbolsToMillis(symbols int) float64 {
	return float64(symbols) * 1000 / SymbolRateHz
}

// millisToSymbols converts a duration in milliseconds to a symbol count at
// the shared WALE symbol rate, rounding down per spec (floor(ms*2400/1000)).
func millisToSymbols(ms float64) int {
	return int(ms * SymbolRateHz / 1000)
}
