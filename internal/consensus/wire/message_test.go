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

package wire_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HeroesLament/minutemodem-sub001/internal/consensus/wire"
)

func TestProtocolMessageRoundTrip(t *testing.T) {
	msg := wire.ProtocolMessage{
		Type:            wire.MsgPreAcceptOK,
		InstanceReplica: "replica0",
		InstanceSeq:     7,
		BallotNumber:    1,
		BallotReplica:   "replica0",
		From:            "replica1",
		OrderSeq:        9,
		Deps: []wire.DepRef{
			{Replica: "replica0", Seq: 3},
			{Replica: "replica2", Seq: 5},
		},
	}

	b, err := msg.MarshalMsg(nil)
	require.NoError(t, err)

	var out wire.ProtocolMessage
	leftover, err := out.UnmarshalMsg(b)
	require.NoError(t, err)
	require.Empty(t, leftover)
	require.Equal(t, msg, out)
}

func TestProtocolMessageRoundTripWithInstance(t *testing.T) {
	msg := wire.ProtocolMessage{
		Type:            wire.MsgCommit,
		InstanceReplica: "replica0",
		InstanceSeq:     2,
		From:            "replica0",
		HasInstance:     true,
		Instance: wire.InstanceSnapshot{
			Replica:       "replica0",
			Seq:           2,
			Command:       []byte("tx-data"),
			OrderSeq:      4,
			Deps:          []wire.DepRef{{Replica: "replica1", Seq: 1}},
			Status:        2,
			BallotNumber:  1,
			BallotReplica: "replica0",
		},
	}

	b, err := msg.MarshalMsg(nil)
	require.NoError(t, err)

	var out wire.ProtocolMessage
	leftover, err := out.UnmarshalMsg(b)
	require.NoError(t, err)
	require.Empty(t, leftover)
	require.Equal(t, msg, out)
}
