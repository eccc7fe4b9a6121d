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

package members_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HeroesLament/minutemodem-sub001/internal/config"
	"github.com/HeroesLament/minutemodem-sub001/internal/consensus/members"
	"github.com/HeroesLament/minutemodem-sub001/internal/kv"
	"github.com/HeroesLament/minutemodem-sub001/internal/testutils/retry"
)

func TestRegistryLiveListsSelfAndPeers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := kv.MakeKV(ctx, &config.Config{})
	require.NoError(t, err)

	log := slog.Default()

	replica0 := members.New(ctx, store, "replica0", log)
	defer replica0.Deregister(ctx)
	replica1 := members.New(ctx, store, "replica1", log)
	defer replica1.Deregister(ctx)

	// Heartbeats land on their own goroutine; poll rather than assert
	// immediately, the same way DMRHub's userdb tests tolerate
	// eventually-consistent network state.
	retry.Retry(t, 10, 10*time.Millisecond, func(r *retry.R) {
		live := replica0.Live(ctx)
		if len(live) != 2 {
			r.Errorf("got %d live replicas, want 2: %v", len(live), live)
			return
		}
		if live[0] != "replica0" || live[1] != "replica1" {
			r.Errorf("unexpected live set: %v", live)
		}
	})

	require.True(t, replica0.OtherReplicasLive(ctx))

	replica1.Deregister(ctx)

	retry.Retry(t, 10, 10*time.Millisecond, func(r *retry.R) {
		if replica0.OtherReplicasLive(ctx) {
			r.Errorf("expected replica1 to be gone after deregister")
		}
	})
}
