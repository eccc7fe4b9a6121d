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

package modem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HeroesLament/minutemodem-sub001/internal/dte"
	"github.com/HeroesLament/minutemodem-sub001/internal/wale"
)

func TestLoopbackTXRoundTrip(t *testing.T) {
	ctx := context.Background()
	lb := NewLoopback(nil, wale.WaveformDeep)

	events, unsubscribe := lb.Subscribe(ctx, "rig0")
	defer unsubscribe()

	state, err := lb.ArmTX(ctx, "rig0")
	require.NoError(t, err)
	require.Equal(t, dte.TXArmed, state)

	require.NoError(t, lb.TxData(ctx, "rig0", []byte("HELLO"), dte.OrderFirstAndLast))

	start, err := lb.StartTX(ctx, "rig0")
	require.NoError(t, err)
	require.Equal(t, TXStarted, start)

	deadline := time.After(2 * time.Second)
	var gotData bool
	for !gotData {
		select {
		case ev := <-events:
			if ev.Kind == EventRXData {
				require.Equal(t, []byte("HELLO"), ev.RXData.Payload)
				require.Equal(t, dte.OrderFirstAndLast, ev.RXData.Order)
				gotData = true
			}
		case <-deadline:
			t.Fatal("timed out waiting for loopback rx_data event")
		}
	}
}

func TestLoopbackTxDataRequiresArm(t *testing.T) {
	ctx := context.Background()
	lb := NewLoopback(nil, wale.WaveformFast)
	err := lb.TxData(ctx, "rig0", []byte("x"), dte.OrderFirstAndLast)
	require.ErrorIs(t, err, ErrNotArmed)
}
