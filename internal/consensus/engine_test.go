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
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HeroesLament/minutemodem-sub001/internal/config"
	"github.com/HeroesLament/minutemodem-sub001/internal/consensus"
	"github.com/HeroesLament/minutemodem-sub001/internal/pubsub"
)

// noInterference treats every pair of commands as independent, so every
// proposal is eligible for the fast path.
type noInterference struct {
	mu      sync.Mutex
	applied [][]byte
}

func (n *noInterference) Interferes(a, b consensus.Command) bool { return false }

func (n *noInterference) Execute(cmd consensus.Command, state any) (any, any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.applied = append(n.applied, append([]byte(nil), cmd...))
	return nil, state
}

func (n *noInterference) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.applied)
}

type memStorage struct {
	mu  sync.Mutex
	all []consensus.Instance
}

func (s *memStorage) SaveInstance(inst consensus.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = append(s.all, inst)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Executed(id consensus.InstanceID, result any) {}

func TestEnginePreAcceptFastPathCommitsAcrossReplicas(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus, err := pubsub.MakePubSub(ctx, &config.Config{})
	require.NoError(t, err)
	defer bus.Close()

	replicaIDs := []string{"replica0", "replica1", "replica2"}
	cmdsMods := make(map[string]*noInterference, 3)
	engines := make(map[string]*consensus.Engine, 3)

	for _, id := range replicaIDs {
		peers := otherThan(replicaIDs, id)
		set := consensus.NewStaticReplicaSet(id, peers)
		cm := &noInterference{}
		transport := consensus.NewPubSubTransport(bus, log)
		eng := consensus.NewEngine(set, cm, transport, &memStorage{}, noopNotifier{}, log)
		cmdsMods[id] = cm
		engines[id] = eng
		eng.Start(ctx)
		go consensus.Listen(ctx, bus, id, eng, log)
	}

	engines["replica0"].Propose(consensus.Command("arm rig0"))

	require.Eventually(t, func() bool {
		for _, cm := range cmdsMods {
			if cm.count() < 1 {
				return false
			}
		}
		return true
	}, 3*time.Second, 10*time.Millisecond, "all replicas should execute the fast-path committed command")
}

func otherThan(ids []string, self string) []string {
	out := make([]string, 0, len(ids)-1)
	for _, id := range ids {
		if id != self {
			out = append(out, id)
		}
	}
	return out
}
