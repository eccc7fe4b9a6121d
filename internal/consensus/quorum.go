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

package consensus

// SlowQuorum returns the classic majority quorum size for a cluster of n
// replicas: floor(n/2) + 1.
func SlowQuorum(n int) int {
	return n/2 + 1
}

// FastQuorum returns the EPaxos fast-path quorum size for a cluster of n
// replicas: n - floor((n-1)/2). This equals SlowQuorum for every n.
func FastQuorum(n int) int {
	return n - (n-1)/2
}
