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

package consensus_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HeroesLament/minutemodem-sub001/internal/consensus"
)

func TestQuorumSizes(t *testing.T) {
	cases := []struct {
		n, slow, fast int
	}{
		{3, 2, 2},
		{5, 3, 3},
		{4, 3, 3},
		{7, 4, 4},
	}
	for _, c := range cases {
		require.Equal(t, c.slow, consensus.SlowQuorum(c.n), "n=%d", c.n)
		require.Equal(t, c.fast, consensus.FastQuorum(c.n), "n=%d", c.n)
	}
}

func TestStaticReplicaSet(t *testing.T) {
	set := consensus.NewStaticReplicaSet("replica0", []string{"replica1", "replica2"})
	require.Equal(t, "replica0", set.Local())
	require.ElementsMatch(t, []string{"replica1", "replica2"}, set.Remote())
	require.ElementsMatch(t, []string{"replica0", "replica1", "replica2"}, set.All())
	require.Equal(t, 3, set.Size())
}
