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

package kvstate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HeroesLament/minutemodem-sub001/internal/consensus/kvstate"
)

func TestCommandRoundTrip(t *testing.T) {
	cmd := kvstate.Command{Op: kvstate.OpSet, Key: "channel/14230000", Value: []byte("reserved")}

	encoded, err := kvstate.Encode(cmd)
	require.NoError(t, err)

	decoded, err := kvstate.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, cmd, decoded)
}

func TestInterferesSameKeyOnly(t *testing.T) {
	store := kvstate.NewStore(nil)

	setA, err := kvstate.Encode(kvstate.Command{Op: kvstate.OpSet, Key: "a", Value: []byte("1")})
	require.NoError(t, err)
	setA2, err := kvstate.Encode(kvstate.Command{Op: kvstate.OpSet, Key: "a", Value: []byte("2")})
	require.NoError(t, err)
	setB, err := kvstate.Encode(kvstate.Command{Op: kvstate.OpSet, Key: "b", Value: []byte("1")})
	require.NoError(t, err)

	require.True(t, store.Interferes(setA, setA2))
	require.False(t, store.Interferes(setA, setB))
}

func TestExecuteSetAndDelete(t *testing.T) {
	store := kvstate.NewStore(nil)

	setCmd, err := kvstate.Encode(kvstate.Command{Op: kvstate.OpSet, Key: "k", Value: []byte("v")})
	require.NoError(t, err)
	_, _ = store.Execute(setCmd, nil)

	v, ok := store.Get("k")
	require.True(t, ok)
	require.Equal(t, []byte("v"), v)

	delCmd, err := kvstate.Encode(kvstate.Command{Op: kvstate.OpDelete, Key: "k"})
	require.NoError(t, err)
	_, _ = store.Execute(delCmd, nil)

	_, ok = store.Get("k")
	require.False(t, ok)
}
