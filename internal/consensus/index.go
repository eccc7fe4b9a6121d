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

import "sync"

// InstanceIndex is the local replica's view of every instance it has
// heard of, committed or not. It answers the interference query a
// responder needs to compute seq/deps for an incoming PreAccept, and
// backs recovery's search for a matching instance.
type InstanceIndex struct {
	mu    sync.RWMutex
	byID  map[InstanceID]Instance
}

// NewInstanceIndex builds an empty index.
func NewInstanceIndex() *InstanceIndex {
	return &InstanceIndex{byID: make(map[InstanceID]Instance)}
}

// Put records or overwrites an instance record.
func (idx *InstanceIndex) Put(inst Instance) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.byID[inst.ID] = inst
}

// Get returns the instance for id, if known.
func (idx *InstanceIndex) Get(id InstanceID) (Instance, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	inst, ok := idx.byID[id]
	return inst, ok
}

// ComputeSeqDeps derives the (seq, deps) a responder must propose for
// an incoming command: seq is one greater than the highest seq among
// known instances whose commands interfere with cmd, and deps is the
// set of their instance ids.
func (idx *InstanceIndex) ComputeSeqDeps(cmd Command, cmds CommandModule, exclude InstanceID) (uint64, DepSet) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var maxSeq uint64
	deps := make(DepSet)
	for id, inst := range idx.byID {
		if id == exclude {
			continue
		}
		if !cmds.Interferes(cmd, inst.Command) {
			continue
		}
		deps[id] = struct{}{}
		if inst.Seq > maxSeq {
			maxSeq = inst.Seq
		}
	}
	return maxSeq + 1, deps
}

// All returns every instance the index knows about, in no particular
// order; used by the responder's interfering-conflict search.
func (idx *InstanceIndex) All() []Instance {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]Instance, 0, len(idx.byID))
	for _, inst := range idx.byID {
		out = append(out, inst)
	}
	return out
}
