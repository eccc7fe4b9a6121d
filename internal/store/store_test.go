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

package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HeroesLament/minutemodem-sub001/internal/config"
	"github.com/HeroesLament/minutemodem-sub001/internal/consensus"
	"github.com/HeroesLament/minutemodem-sub001/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Path = ""
	db, err := store.Open(&cfg)
	require.NoError(t, err)
	return store.New(db)
}

func TestSaveAndLoadInstanceRoundTrip(t *testing.T) {
	s := openTestStore(t)

	inst := consensus.Instance{
		ID:      consensus.InstanceID{Replica: "replica0", Seq: 1},
		Command: consensus.Command("arm rig0"),
		Seq:     3,
		Deps: consensus.NewDepSet(
			consensus.InstanceID{Replica: "replica1", Seq: 2},
			consensus.InstanceID{Replica: "replica2", Seq: 5},
		),
		Status: consensus.StatusCommitted,
		Ballot: consensus.Ballot{Number: 1, Replica: "replica0"},
	}

	require.NoError(t, s.SaveInstance(inst))

	loaded, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, inst.ID, loaded[0].ID)
	require.Equal(t, inst.Command, loaded[0].Command)
	require.Equal(t, inst.Seq, loaded[0].Seq)
	require.True(t, inst.Deps.Equal(loaded[0].Deps))
	require.Equal(t, inst.Status, loaded[0].Status)
	require.Equal(t, inst.Ballot, loaded[0].Ballot)
}

func TestSaveInstanceUpsertsOnConflict(t *testing.T) {
	s := openTestStore(t)

	id := consensus.InstanceID{Replica: "replica0", Seq: 1}
	require.NoError(t, s.SaveInstance(consensus.Instance{ID: id, Status: consensus.StatusPreAccepted}))
	require.NoError(t, s.SaveInstance(consensus.Instance{ID: id, Status: consensus.StatusCommitted, Seq: 9}))

	loaded, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, consensus.StatusCommitted, loaded[0].Status)
	require.Equal(t, uint64(9), loaded[0].Seq)
}
