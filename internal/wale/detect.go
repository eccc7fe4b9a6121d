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

// minAvgCorrelation is the minimum average per-di-bit correlation score a
// fixed preamble pattern must achieve for acquisition to succeed.
const minAvgCorrelation = 20

// DetectWaveform attempts to acquire a WALE preamble at the start of
// symbols: Deep first (if at least DeepPreambleSymbols are present), then
// Fast (if at least FastPreambleSymbols are present). On success it
// returns the decoded preamble info and the symbol slice following the
// acquired preamble (the data portion).
func DetectWaveform(symbols []byte) (PreambleInfo, []byte, error) {
	if len(symbols) >= DeepPreambleSymbols {
		info, avgScore, long := parsePreamble(WaveformDeep, symbols)
		if long && avgScore > minAvgCorrelation {
			if info.Waveform != WaveformDeep {
				return PreambleInfo{}, nil, ErrWrongWaveformID
			}
			return info, symbols[DeepPreambleSymbols:], nil
		}
	}

	if len(symbols) >= FastPreambleSymbols {
		info, avgScore, long := parsePreamble(WaveformFast, symbols)
		if long && avgScore > minAvgCorrelation {
			if info.Waveform != WaveformFast {
				return PreambleInfo{}, nil, ErrWrongWaveformID
			}
			return info, symbols[FastPreambleSymbols:], nil
		}
	}

	if len(symbols) < FastPreambleSymbols {
		return PreambleInfo{}, nil, ErrFrameTooShort
	}
	return PreambleInfo{}, nil, ErrPatternMismatch
}

// DecodeData reverses the data-symbol pipeline (Walsh/BPSK demodulation
// and descrambling) for the data portion of a frame of the given
// waveform, returning the recovered di-bit stream. The caller is
// responsible for running the result through DecodeBits (Viterbi) and
// Deinterleave to recover the original PDU bytes.
func DecodeData(w Waveform, symbols []byte) []byte {
	switch w {
	case WaveformFast:
		return decodeFastData(symbols)
	default:
		return decodeDeepData(symbols)
	}
}

func decodeDeepData(symbols []byte) []byte {
	scr := newDeepScrambler()
	out := make([]byte, 0, len(symbols)/64*4)
	for off := 0; off+64 <= len(symbols); off += 64 {
		chunk := make([]byte, 64)
		for i := 0; i < 64; i++ {
			chunk[i] = scr.descramble(symbols[off+i])
		}
		quad := bestWalsh16Match(chunk)
		out = append(out, (quad>>2)&3, quad&3)
	}
	return out
}

func bestWalsh16Match(window []byte) byte {
	var best byte
	bestScore := -1 << 30
	for v := 0; v < 16; v++ {
		candidate := walsh16Chips[v]
		score := correlate(window, candidate[:])
		if score > bestScore {
			bestScore = score
			best = byte(v)
		}
	}
	return best
}

func decodeFastData(symbols []byte) []byte {
	var data []byte
	pos := FastProbeSymbols // skip the initial probe
	for pos < len(symbols) {
		end := pos + FastDataChunkSymbols
		if end > len(symbols) {
			end = len(symbols)
		}
		data = append(data, symbols[pos:end]...)
		pos = end + FastProbeSymbols // skip the trailing probe for this chunk
	}

	scr := newFastScrambler()
	bits := make([]byte, len(data))
	for i, s := range data {
		descr := scr.descramble(s)
		if descr != 0 {
			bits[i] = 1
		}
	}
	return bitutil.BitsToDibits(bits)
}
