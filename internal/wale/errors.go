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

import "errors"

var (
	// ErrFrameTooShort is returned when a symbol slice is too short to
	// contain a full preamble of either waveform.
	ErrFrameTooShort = errors.New("wale: symbol slice too short to contain a preamble")
	// ErrPatternMismatch is returned when the fixed preamble di-bit
	// pattern does not match, or the average correlation score is too
	// low, for either waveform.
	ErrPatternMismatch = errors.New("wale: preamble fixed pattern did not correlate")
	// ErrWrongWaveformID is returned when the decoded exceptional
	// waveform-id di-bit does not match an expected value of 0 or 1.
	ErrWrongWaveformID = errors.New("wale: decoded waveform id out of range")
)
