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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCaptureProbeAndPreambleLengths(t *testing.T) {
	require.Len(t, CaptureProbe(), CaptureProbeSymbols)
	require.Equal(t, 96, CaptureProbeSymbols)
	require.Equal(t, 576, DeepPreambleSymbols)
	require.Equal(t, 288, FastPreambleSymbols)
}

func TestAssembleFrameDeepScenario(t *testing.T) {
	pdu := []byte{0xAB, 0xCD}
	symbols := AssembleFrame(WaveformDeep, pdu, Options{
		Async:                true,
		CapturePreambleCount: 1,
		PreambleCount:        1,
		MorePDUs:             false,
	})

	require.GreaterOrEqual(t, len(symbols), CaptureProbeSymbols+DeepPreambleSymbols)

	probe := symbols[:CaptureProbeSymbols]
	for _, s := range probe {
		require.Contains(t, []byte{0, 4}, s)
	}

	preambleSymbols := symbols[CaptureProbeSymbols : CaptureProbeSymbols+DeepPreambleSymbols]
	info, avgScore, long := parsePreamble(WaveformDeep, preambleSymbols)
	require.True(t, long)
	require.Greater(t, avgScore, minAvgCorrelation)
	require.Equal(t, WaveformDeep, info.Waveform)
	require.False(t, info.MoreFollows)
	require.Equal(t, 0, info.Countdown)
}

func TestAssembleFrameFastScenario(t *testing.T) {
	pdu := []byte{0x00, 0xFF}
	symbols := AssembleFrame(WaveformFast, pdu, Options{})

	info, avgScore, long := parsePreamble(WaveformFast, symbols)
	require.True(t, long)
	require.Greater(t, avgScore, minAvgCorrelation)
	require.Equal(t, WaveformFast, info.Waveform)
	require.Equal(t, 0, info.Countdown)

	dataStart := FastPreambleSymbols
	dataSymbols := symbols[dataStart:]
	// One initial probe, then alternating 96-symbol data chunks and
	// 32-symbol probes.
	require.GreaterOrEqual(t, len(dataSymbols), FastProbeSymbols+FastDataChunkSymbols+FastProbeSymbols)
	for _, s := range dataSymbols {
		require.Contains(t, []byte{0, 4}, s)
	}
}

func TestPreambleCountdownDecreasesInOrder(t *testing.T) {
	const count = 4
	symbols := BuildPreambles(WaveformDeep, count, false)

	for i := 0; i < count; i++ {
		off := i * DeepPreambleSymbols
		info, _, long := parsePreamble(WaveformDeep, symbols[off:off+DeepPreambleSymbols])
		require.True(t, long)
		require.Equal(t, count-1-i, info.Countdown)
	}
}

func TestDetectWaveformDeepThenFast(t *testing.T) {
	deepPDU := []byte{1, 2, 3}
	deepSymbols := AssembleFrame(WaveformDeep, deepPDU, Options{PreambleCount: 1})
	info, _, err := DetectWaveform(deepSymbols)
	require.NoError(t, err)
	require.Equal(t, WaveformDeep, info.Waveform)

	fastPDU := []byte{4, 5, 6}
	fastSymbols := AssembleFrame(WaveformFast, fastPDU, Options{PreambleCount: 1})
	info, _, err = DetectWaveform(fastSymbols)
	require.NoError(t, err)
	require.Equal(t, WaveformFast, info.Waveform)
}

func TestDetectWaveformTooShort(t *testing.T) {
	_, _, err := DetectWaveform(make([]byte, 10))
	require.ErrorIs(t, err, ErrFrameTooShort)
}

func TestAssembleAndDecodeRoundTripDeep(t *testing.T) {
	for _, n := range []int{1, 2, 31, 60} {
		pdu := make([]byte, n)
		for i := range pdu {
			pdu[i] = byte(i*7 + 3)
		}

		opts := Options{PreambleCount: 1}
		frame := AssembleFrame(WaveformDeep, pdu, opts)
		info, data, err := DetectWaveform(frame)
		require.NoError(t, err)
		require.Equal(t, WaveformDeep, info.Waveform)

		got := DecodePDU(WaveformDeep, data, n)
		require.Equal(t, pdu, got)
	}
}

func TestAssembleAndDecodeRoundTripFast(t *testing.T) {
	for _, n := range []int{1, 2, 31} {
		pdu := make([]byte, n)
		for i := range pdu {
			pdu[i] = byte(i*5 + 1)
		}

		opts := Options{PreambleCount: 1}
		frame := AssembleFrame(WaveformFast, pdu, opts)
		info, data, err := DetectWaveform(frame)
		require.NoError(t, err)
		require.Equal(t, WaveformFast, info.Waveform)

		got := DecodePDU(WaveformFast, data, n)
		require.Equal(t, pdu, got)
	}
}

func TestConvEncodeDecodeRoundTrip(t *testing.T) {
	bits := []byte{1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 1, 0, 0, 0, 1}
	encoded := EncodeBits(bits)
	decoded := DecodeBits(encoded)
	require.Equal(t, bits, decoded[:len(bits)])
}

func TestInterleaveDeinterleaveRoundTrip(t *testing.T) {
	dibits := make([]byte, 250)
	for i := range dibits {
		dibits[i] = byte(i % 4)
	}
	interleaved := Interleave(dibits)
	back := Deinterleave(interleaved, len(dibits))
	require.Equal(t, dibits, back)
}
