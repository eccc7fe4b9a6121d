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

package consensus

// ReplicaSet abstracts cluster membership. Implementations may be a
// static list or backed by a live membership registry; an instance snapshots
// Size() at creation time and uses that snapshot for quorum sizing for its
// entire lifetime, per the engine's membership invariant.
type ReplicaSet interface {
	Local() string
	Remote() []string
	All() []string
	Size() int
}

// StaticReplicaSet is a fixed, in-memory ReplicaSet built from a local
// replica id and a seed peer list.
type StaticReplicaSet struct {
	local string
	peers []string
}

// NewStaticReplicaSet builds a ReplicaSet from a local replica id and its
// peers (excluding itself).
func NewStaticReplicaSet(local string, peers []string) *StaticReplicaSet {
	cp := make([]string, len(peers))
	copy(cp, peers)
	return &StaticReplicaSet{local: local, peers: cp}
}

func (s *StaticReplicaSet) Local() string { return s.local }

func (s *StaticReplicaSet) Remote() []string {
	out := make([]string, len(s.peers))
	copy(out, s.peers)
	return out
}

func (s *StaticReplicaSet) All() []string {
	return append([]string{s.local}, s.peers...)
}

func (s *StaticReplicaSet) Size() int {
	return len(s.peers) + 1
}
