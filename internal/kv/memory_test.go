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

package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HeroesLament/minutemodem-sub001/internal/config"
	"github.com/HeroesLament/minutemodem-sub001/internal/kv"
)

func TestInMemoryKVSetGet(t *testing.T) {
	ctx := context.Background()
	store, err := kv.MakeKV(ctx, &config.Config{})
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "foo", []byte("bar")))
	has, err := store.Has(ctx, "foo")
	require.NoError(t, err)
	require.True(t, has)

	value, err := store.Get(ctx, "foo")
	require.NoError(t, err)
	require.Equal(t, []byte("bar"), value)
}

func TestInMemoryKVExpire(t *testing.T) {
	ctx := context.Background()
	store, err := kv.MakeKV(ctx, &config.Config{})
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "foo", []byte("bar")))
	require.NoError(t, store.Expire(ctx, "foo", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	has, err := store.Has(ctx, "foo")
	require.NoError(t, err)
	require.False(t, has)
}

func TestInMemoryKVRPushLDrain(t *testing.T) {
	ctx := context.Background()
	store, err := kv.MakeKV(ctx, &config.Config{})
	require.NoError(t, err)

	n, err := store.RPush(ctx, "queue", []byte("a"))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = store.RPush(ctx, "queue", []byte("b"))
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	values, err := store.LDrain(ctx, "queue")
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("a"), []byte("b")}, values)

	has, err := store.Has(ctx, "queue")
	require.NoError(t, err)
	require.False(t, has)
}
