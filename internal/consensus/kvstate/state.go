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

package kvstate

import (
	"log/slog"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/HeroesLament/minutemodem-sub001/internal/consensus"
)

// Store is the replicated state every replica converges to by executing
// committed instances in dependency order. Reads bypass consensus
// entirely (they don't need to be ordered against writes to other keys);
// only writes are proposed as commands.
type Store struct {
	log  *slog.Logger
	data *xsync.Map[string, []byte]
}

// NewStore returns an empty, ready-to-execute Store.
func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{log: log, data: xsync.NewMap[string, []byte]()}
}

// Get reads key directly from local state without going through consensus.
func (s *Store) Get(key string) ([]byte, bool) {
	return s.data.Load(key)
}

var _ consensus.CommandModule = (*Store)(nil)

// Interferes reports whether two KV commands must be ordered relative to
// each other: two writes interfere iff they touch the same key. A Set and
// a Delete of the same key must also be ordered; writes to different keys
// commute freely and take the engine's fast path.
func (s *Store) Interferes(a, b consensus.Command) bool {
	ca, err := Decode(a)
	if err != nil {
		s.log.Warn("kvstate: failed to decode command for interference check", "error", err)
		return true
	}
	cb, err := Decode(b)
	if err != nil {
		s.log.Warn("kvstate: failed to decode command for interference check", "error", err)
		return true
	}
	return ca.Key == cb.Key
}

// Execute applies cmd to the store. state/newState are unused (the Store
// itself is the shared mutable state, matching how consensus.Engine is
// typically handed a stateful CommandModule), kept only to satisfy the
// CommandModule signature.
func (s *Store) Execute(cmd consensus.Command, state any) (result any, newState any) {
	c, err := Decode(cmd)
	if err != nil {
		s.log.Error("kvstate: failed to decode committed command", "error", err)
		return err, state
	}
	switch c.Op {
	case OpSet:
		s.data.Store(c.Key, c.Value)
		return nil, state
	case OpDelete:
		s.data.Delete(c.Key)
		return nil, state
	default:
		s.log.Warn("kvstate: unknown op", "op", c.Op)
		return nil, state
	}
}
