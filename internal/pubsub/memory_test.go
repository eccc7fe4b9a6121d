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

package pubsub_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HeroesLament/minutemodem-sub001/internal/config"
	"github.com/HeroesLament/minutemodem-sub001/internal/pubsub"
)

func TestInMemoryPubSubFanOut(t *testing.T) {
	ctx := context.Background()
	ps, err := pubsub.MakePubSub(ctx, &config.Config{})
	require.NoError(t, err)
	defer ps.Close()

	subA := ps.Subscribe("replica.1")
	defer subA.Close()
	subB := ps.Subscribe("replica.1")
	defer subB.Close()

	require.NoError(t, ps.Publish("replica.1", []byte("hello")))

	for _, ch := range []<-chan []byte{subA.Channel(), subB.Channel()} {
		select {
		case msg := <-ch:
			require.Equal(t, []byte("hello"), msg)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for fan-out delivery")
		}
	}
}

func TestInMemoryPubSubTopicIsolation(t *testing.T) {
	ctx := context.Background()
	ps, err := pubsub.MakePubSub(ctx, &config.Config{})
	require.NoError(t, err)
	defer ps.Close()

	sub := ps.Subscribe("replica.2")
	defer sub.Close()

	require.NoError(t, ps.Publish("replica.3", []byte("not for you")))

	select {
	case <-sub.Channel():
		t.Fatal("received message published to a different topic")
	case <-time.After(50 * time.Millisecond):
	}
}
