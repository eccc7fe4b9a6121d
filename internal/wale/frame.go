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

// Options configures frame assembly, shared by both WALE variants.
type Options struct {
	Async                bool    // include a capture-probe run before the preamble(s)
	CapturePreambleCount int     // capture probe repetitions, default 1
	PreambleCount        int     // number of preambles, default 1, max MaxPreambleCount
	MorePDUs             bool    // sets the preamble M-bit; another PDU follows this frame
	TuneMS               float64 // TLC duration in ms; 0 emits no TLC symbols
}

func (o Options) normalized() Options {
	if o.CapturePreambleCount <= 0 {
		o.CapturePreambleCount = 1
	}
	if o.PreambleCount <= 0 {
		o.PreambleCount = 1
	}
	if o.PreambleCount > MaxPreambleCount {
		o.PreambleCount = MaxPreambleCount
	}
	return o
}

// envelope builds the TLC + capture-probe + preamble prefix shared by both
// waveforms.
func envelope(w Waveform, opts Options) []byte {
	var out []byte
	out = append(out, BuildTLC(opts.TuneMS)...)
	if opts.Async {
		probe := CaptureProbe()
		for i := 0; i < opts.CapturePreambleCount; i++ {
			out = append(out, probe...)
		}
	}
	out = append(out, BuildPreambles(w, opts.PreambleCount, opts.MorePDUs)...)
	return out
}

// encodedDibits runs a PDU through conv-encode + block-interleave, the
// pipeline stage shared by both waveforms.
func encodedDibits(pdu []byte) []byte {
	bits := bitutil.BitsFromBytes(pdu)
	coded := EncodeBits(bits)
	return Interleave(coded)
}

// AssembleFrame encodes a single PDU into a transmit-ready 8-PSK symbol
// sequence for waveform w.
func AssembleFrame(w Waveform, pdu []byte, opts Options) []byte {
	opts = opts.normalized()
	out := envelope(w, opts)
	dibits := encodedDibits(pdu)

	switch w {
	case WaveformDeep:
		out = append(out, deepDataSymbols(dibits, newDeepScrambler())...)
	case WaveformFast:
		out = append(out, fastDataSymbols(dibits, newFastScrambler())...)
	}
	return out
}

// AssembleMultiFrame encodes a sequence of PDUs into one frame. Deep WALE
// shares a single scrambler instance across all PDUs; Fast WALE
// concatenates independent single-PDU frames, each with its own scrambler
// reset to all-zero / initial state (the asymmetry the observed
// implementation exhibits between the two variants).
func AssembleMultiFrame(w Waveform, pdus [][]byte, opts Options) []byte {
	opts = opts.normalized()

	if w == WaveformFast {
		var out []byte
		for i, pdu := range pdus {
			frameOpts := opts
			frameOpts.MorePDUs = i < len(pdus)-1
			out = append(out, AssembleFrame(w, pdu, frameOpts)...)
		}
		return out
	}

	out := envelope(w, opts)
	scr := newDeepScrambler()
	for _, pdu := range pdus {
		out = append(out, deepDataSymbols(encodedDibits(pdu), scr)...)
	}
	return out
}

// deepDataSymbols maps interleaved di-bits to Deep WALE Walsh-16 symbols,
// scrambling each output symbol mod-8 with scr.
func deepDataSymbols(dibits []byte, scr *deepScrambler) []byte {
	bits := bitutil.DibitsToBits(dibits)
	quads := bitutil.BitsToQuadbits(bits)

	out := make([]byte, 0, len(quads)*64)
	for _, q := range quads {
		chips := Walsh16Chips(q)
		for _, c := range chips {
			out = append(out, scr.scramble(c))
		}
	}
	return out
}

// fastDataSymbols maps interleaved di-bits to Fast WALE BPSK symbols,
// scrambling each with scr and inserting a 32-symbol probe before the
// first chunk and after every FastDataChunkSymbols-symbol chunk
// thereafter, zero-padding the final chunk.
func fastDataSymbols(dibits []byte, scr *fastScrambler) []byte {
	bits := bitutil.DibitsToBits(dibits)

	symbols := make([]byte, len(bits))
	for i, b := range bits {
		var s byte
		if b != 0 {
			s = 4
		}
		symbols[i] = scr.scramble(s)
	}

	probe := FastProbe()
	var out []byte
	out = append(out, probe...)
	for off := 0; off < len(symbols); off += FastDataChunkSymbols {
		end := off + FastDataChunkSymbols
		chunk := symbols[off:min(end, len(symbols))]
		if len(chunk) < FastDataChunkSymbols {
			padded := make([]byte, FastDataChunkSymbols)
			copy(padded, chunk)
			chunk = padded
		}
		out = append(out, chunk...)
		out = append(out, probe...)
	}
	return out
}
